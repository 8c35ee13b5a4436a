// Package dom is Grain's presentation tree: a live, server-held mirror of the
// client's document.
//
// Unlike a virtual DOM there is no intermediate representation and no diff
// pass. Builders and effects mutate Node objects directly, and every mutation
// is recorded as a Patch on the owning Document. A transport (pkg/server)
// forwards patches to the thin client; tests read the tree or the patch log
// directly.
//
// The tree structure itself is the ownership mechanism: a node is alive
// exactly as long as it is reachable from a root the host retains.
package dom
