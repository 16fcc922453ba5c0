// Copyright 2022 Sylvain Müller. All rights reserved.
// Mount of this source code is governed by a Apache-2.0 license that can be found
// at https://github.com/tigerwill90/apidir/blob/master/LICENSE.txt.

package apidir

import "iter"

// All returns a range iterator over every key of the trie and its value. Keys are rendered with wildcards
// written as [WildcardKey]. At each branch, the on-path value comes first, then literal edges in ascending
// order, then the wildcard edge.
func (t *Trie) All() iter.Seq2[string, Value] {
	return func(yield func(string, Value) bool) {
		it := newIterator(t.root)
		for it.hasNext() {
			if !yield(it.path, it.value) {
				return
			}
		}
	}
}

func newIterator(n *node) *iterator {
	return &iterator{
		stack: []stack{{edges: []edge{{node: n}}}},
	}
}

type iterator struct {
	stack []stack
	path  string
	value Value
}

type stack struct {
	path  string
	edges []edge
}

type edge struct {
	node *node
	key  string
}

func (it *iterator) hasNext() bool {
	for len(it.stack) > 0 {
		n := len(it.stack)
		last := it.stack[n-1]
		elem := last.edges[0]

		if len(last.edges) > 1 {
			it.stack[n-1].edges = last.edges[1:]
		} else {
			it.stack = it.stack[:n-1]
		}

		path := last.path + elem.key
		if elem.node.isLeaf() {
			it.path = path
			it.value = elem.node.value
			return true
		}

		if edges := elem.node.edges(); len(edges) > 0 {
			it.stack = append(it.stack, stack{path, edges})
		}

		if elem.node.onPath != nil {
			it.path = path
			it.value = *elem.node.onPath
			return true
		}
	}

	it.path = ""
	it.value = Value{}
	return false
}

// edges returns the outgoing edges of n, literals in ascending order first.
func (n *node) edges() []edge {
	keys := n.sortedKeys()
	edges := make([]edge, 0, len(keys)+1)
	for _, k := range keys {
		edges = append(edges, edge{node: n.children[k], key: k})
	}
	if n.wildcard != nil {
		edges = append(edges, edge{node: n.wildcard, key: WildcardKey})
	}
	return edges
}
