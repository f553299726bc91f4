/*
Package domain contains the core types of the scriptcell execution model.

It is intentionally free of I/O and framework dependencies: stream records,
graphic artifacts, run outcomes, cell declarations and their options live here,
so that the runtime core, the adapters and the hosts all speak the same
vocabulary without importing each other.
*/
package domain
