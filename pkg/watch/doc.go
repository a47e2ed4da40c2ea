// Package watch revalidates a configuration file whenever it changes
// on disk, backing the validate --watch flag.
//
// Events are debounced so editor save sequences (temp file plus
// rename) trigger a single revalidation. The watch is directory-level
// to survive the rename.
package watch
