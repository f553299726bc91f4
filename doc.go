/*
Package scriptcell is a cell execution engine for documents with embedded,
runnable code cells.

Every cell of a document shares one script interpreter, so the engine
serializes execution behind a single page-wide run lock: one run at a time,
and a trigger arriving while a run is in flight is dropped, never queued.
Each run captures the script's stdout/stderr stream in emission order,
collects drawn figures into a fresh graphic container, and renders both into
the owning cell's regions. An optional feedback pipeline re-runs a cell and
submits its output plus source to a remote chat API or a local server,
rendering the reply next to the cell.

# Architecture

The core follows a ports-and-adapters layout. The interpreter, the notebook
loader, the run store and the page regions are narrow interfaces in
pkg/ports; adapters for a worker subprocess, a Loam document repository,
Redis and plain memory live under pkg/adapters. Hosts (HTTP server, MCP
server, CLI) embed the Notebook facade.

# Usage

Open a document directory and run its cells:

	package main

	import (
		"context"
		"log"

		"github.com/scriptcell/scriptcell"
	)

	func main() {
		nb, err := scriptcell.New("./my-notebook")
		if err != nil {
			log.Fatal(err)
		}
		defer nb.Close()

		ctx := context.Background()
		if err := nb.Ready(ctx); err != nil {
			log.Fatal(err)
		}

		// Run preamble cells first, then one cell by ID.
		if err := nb.Bootstrap(ctx); err != nil {
			log.Fatal(err)
		}
		out, err := nb.RunCell(ctx, "example")
		if err != nil {
			log.Fatal(err)
		}
		log.Println(out.Block)
	}

The document directory holds one file per cell (frontmatter options plus
source body) and an optional scriptcell.yaml naming the interpreter worker
command and the feedback backend.
*/
package scriptcell
