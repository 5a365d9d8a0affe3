// Package safety certifies edges and edge sequences that must occur in
// every cover of a target edge set by source-to-sink walks.
//
// Three certificate families are provided: SafePaths extends each target
// edge into the maximal contiguous path forced by degree-1 structure,
// SafeSequences chains the bridges between a target edge and the
// source/sink of an acyclic graph, and SafeSequencesViaDominators
// handles cyclic graphs through a pair of arc dominator trees.
//
// Bridge discovery works on per-node adjacency stacks that are consumed
// and restored in place. The stacks are cheap to clone, so concurrent
// callers give every worker its own copy instead of sharing one behind
// a lock.
package safety
