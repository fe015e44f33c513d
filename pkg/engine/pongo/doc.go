// Package pongo implements engine.Engine on top of pongo2. Templates are
// compiled into the configured compile directory and executed against the
// variables assigned to each handle. Force-compile bypasses the in-process
// compile cache and rewrites the artifact on every fetch.
package pongo
