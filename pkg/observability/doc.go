/*
Package observability provides tools for monitoring the execution engine.

It aggregates lifecycle events into per-cell run statistics, so hosts can
report run counts, script error rates and accumulated run time without
scraping the metrics endpoint.
*/
package observability
