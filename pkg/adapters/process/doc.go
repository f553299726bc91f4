/*
Package process runs the script interpreter as a local worker subprocess.

The worker speaks line-delimited JSON over its stdin/stdout: the adapter
sends run and dependency requests, the worker answers with ready, stream,
graphic, result and error events. Stream and graphic events are forwarded to
the installed sinks as they arrive, so output renders in emission order.
*/
package process
