/*
Package memory provides in-memory implementations of every scriptcell port:
regions, text buffers, a scriptable interpreter, a notebook loader, a run
store and a recording notifier.

It backs headless hosts (the HTTP adapter keeps its page state here) and is
the workhorse of the test suites.
*/
package memory
