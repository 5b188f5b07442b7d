// Package types defines the interfaces shared across postgen components.
// The filesystem abstraction lives here so that the relocation, merge and
// promotion code can run against the real OS or an in-memory afero tree.
package types
