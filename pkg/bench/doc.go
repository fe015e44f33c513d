// Package bench drives repeated load against a template engine. For every
// path it builds a fresh engine context, creates a template handle, binds the
// configured variables and renders, discarding the output. Timing is left to
// the caller.
package bench
