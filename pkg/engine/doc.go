// Package engine defines the contract the benchmark driver uses to talk to a
// template engine. An Engine hands out short-lived Contexts, each Context
// creates Template handles from paths, and a Template binds variables and
// renders. The engine itself owns parsing, compilation and caching.
package engine
