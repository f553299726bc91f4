/*
Package cell models the runnable cells of a document.

A cell owns its source text, declared options and one or more run targets
(editor buffer, output region, graphic region). Variants are selected by the
declared context tag: interactive cells carry the full affordance set
(reset, copy, append-block, feedback), output cells expose the raw result,
setup cells run silently. Execution itself is delegated to the runtime
engine, which serializes every cell on the page behind one run lock.
*/
package cell
