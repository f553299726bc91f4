/*
Package ports defines the driven-port interfaces of the scriptcell engine.

The execution core talks to the interpreter, the document's regions, the
notebook loader and the persistence layer exclusively through these
interfaces, so hosts can swap adapters (in-memory, subprocess, Redis, Loam)
without touching the engine.
*/
package ports
