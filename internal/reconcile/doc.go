// Package reconcile diffs a node's new child descriptions against the
// children of its previous generation and tags every resulting node.
//
// The default Positional mode walks the old chain and the new list in lock
// step: same type at the same position is an Update that carries the old
// node's handle and slots forward, anything else is a Create plus a Remove
// of the displaced old node. Keys are carried but ignored, so inserting in
// the middle of a list updates every later sibling.
//
// Keyed mode is opt-in. Keyed children match through a key map wherever
// they sit; reordered matches are flagged Moved so the commit re-places
// their host nodes.
package reconcile
