// Package region extracts tagged code regions from source files.
//
// A region is delimited by marker comments on lines of their own:
//
//	// [[start]]
//	func Example() {}
//	// [[end]]
//
// Markers are matched with all whitespace removed, so "//[[start]]" and
// "// [[ start ]]" are equivalent, while a marker trailing code on the same
// line is ignored. Regions nest. Every line of a region is dedented by the
// leading whitespace width of the region's own open marker, and an inner
// region is resolved (dedented against its own marker) before it is spliced
// into the enclosing region at the point where it occurred.
//
// A file without any marker is used whole.
package region
