// Copyright 2022 Sylvain Müller. All rights reserved.
// Mount of this source code is governed by a Apache-2.0 license that can be found
// at https://github.com/tigerwill90/apidir/blob/master/LICENSE.txt.

package apidir

// compress returns a copy of the trie rooted at n where every chain of single literal edges is merged into
// one edge. It never modifies n. Given a trie whose branches hold same length literal keys (e.g. a naive trie),
// the result holds the same invariant, and compressing it again yields an identical trie.
//
// e.g. the naive trie for "abcd", "abce" and "abx"
//
//	a
//	└── b
//	    ├── c
//	    │   ├── d
//	    │   └── e
//	    └── x
//
// becomes
//
//	abc
//	├── d
//	└── e
//	abx
//
// Registering "ab" as well would keep "a" apart, since the "ab" level then holds an on-path value.
func compress(n *node) *node {
	if n.isLeaf() || !n.hasEdges() {
		return n
	}

	if len(n.children) == 1 && n.wildcard == nil {
		key, child := n.single()
		// The child can be merged into its parent only when every one of its edges can be prefixed with the parent
		// key. An on-path value or a wildcard edge on the child would be lost, so they block the merge. The parent
		// on-path value does not move, it stays on the merged node.
		if !child.isLeaf() && child.onPath == nil && child.wildcard == nil && len(child.children) > 0 {
			merged := &node{
				nType:    branch,
				children: make(map[string]*node, len(child.children)),
				onPath:   n.onPath,
			}
			for k, grandChild := range child.children {
				merged.addEdge(key+k, grandChild)
			}
			return compress(merged)
		}
	}

	c := &node{
		nType:    branch,
		children: make(map[string]*node, len(n.children)),
		onPath:   n.onPath,
		width:    n.width,
	}
	for k, child := range n.children {
		c.children[k] = compress(child)
	}
	if n.wildcard != nil {
		c.wildcard = compress(n.wildcard)
	}
	return c
}

// single returns the only literal edge of n.
func (n *node) single() (string, *node) {
	for k, child := range n.children {
		return k, child
	}
	panic("internal error: node has no literal edge")
}
