// Package relocate moves single named entries between directories.
//
// A file (or symlink) replaces whatever has the same name at the
// destination. A directory is merged into a same-named destination
// directory: destination entries survive unless a source entry with the
// same name overwrites them, and sub-directories are merged recursively.
// When the destination has nothing with that name the entry is renamed in
// one step; a rename that crosses devices falls back to copy and delete.
package relocate
