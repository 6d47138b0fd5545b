// Package engine runs the iogen generation pipeline.
//
// A generation takes a batch of declarations through four stages:
//
//  1. Lint: compiler.Validate collects every structural error. Any error
//     stops the run; no partial document is produced.
//  2. Order: the dependency graph is built and sorted. Mutually recursive
//     declarations are rewritten into recursive codecs and placed first.
//  3. Print: the ordered declarations are rendered as one document.
//  4. Record: when a store is attached and the request asks for it, the
//     run and its per-declaration fingerprints are written to history.
//
// Stages 1 to 3 are pure. The engine holds no mutable state besides the
// store handle, so one Engine may serve concurrent requests; SQLite
// serializes the history writes.
package engine
