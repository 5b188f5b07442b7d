package main

import (
	"os"

	"github.com/arthur-debert/postgen/cmd/postgen"
)

func main() {
	os.Exit(postgen.Execute(os.Args[1:]))
}
