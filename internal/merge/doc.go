// Package merge holds the column-reconciliation and row-merging core:
// the policy deciding which columns survive across input tables with
// differing schemas (union, intersection, strict), the concatenation of
// reconciled tables, and duplicate-row removal by a fixed composite key.
//
// Every stage is a pure function from input tables to output tables (or
// an error), so each is unit-testable in isolation. File I/O, discovery,
// and diagnostics wiring live in the pipeline package.
package merge
