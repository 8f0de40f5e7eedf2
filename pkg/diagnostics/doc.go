// Package diagnostics turns failed synchronization results into
// positioned diagnostics and keeps the current set per document.
//
// A document's set is replaced wholesale after every scan, so a block
// that was fixed loses its diagnostic on the next pass.
package diagnostics
