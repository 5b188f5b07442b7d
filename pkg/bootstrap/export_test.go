package bootstrap

var BootstrapFor = bootstrapFor
