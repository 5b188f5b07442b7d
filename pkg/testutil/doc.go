// Package testutil provides utilities for testing postgen components.
//
// Key components:
//   - FaultyFS: types.FS wrapper with per-operation error injection
//   - WriteTree / ReadTree: declarative directory fixtures on the real filesystem
//
// Usage guidelines:
//   - Relocation, merge and promotion tests run on t.TempDir() trees
//   - Config, env file and IDE rule tests prefer the afero memory filesystem
//   - All test data should be defined inline, not in external files
package testutil
