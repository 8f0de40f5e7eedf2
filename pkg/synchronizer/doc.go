// Package synchronizer computes the replacement text of every managed fence
// in a document.
//
// A pass never writes anything: it returns one Result per block and the
// batch of edits that would bring the document in line with its sources.
// Running a pass on its own output yields no edits.
package synchronizer
