// Copyright 2022 Sylvain Müller. All rights reserved.
// Mount of this source code is governed by a Apache-2.0 license that can be found
// at https://github.com/tigerwill90/apidir/blob/master/LICENSE.txt.

package apidir

// Entry associates a prefix key with the value returned for URLs starting with it.
type Entry struct {
	Key   TokenSeq
	Value Value
}

// buildNaive builds a trie with one level per byte of literal tokens and one level per wildcard.
// The shape of the result does not depend on the order of entries.
func buildNaive(entries []Entry) (*node, error) {
	root := newBranch()
	for _, e := range entries {
		if err := root.insert(e.Key, e.Value); err != nil {
			return nil, err
		}
	}
	return root, nil
}

// insert is not safe for concurrent use.
func (n *node) insert(key TokenSeq, v Value) error {
	steps := explode(key)
	if len(steps) == 0 {
		return ErrEmptyKey
	}

	current := n
	for i, step := range steps {
		next := current.edge(step)

		if i == len(steps)-1 {
			switch {
			case next == nil:
				// We're a fresh leaf at the end of a branch.
				current.setEdge(step, newLeaf(v))
			case next.isLeaf():
				return &DuplicateKeyError{Key: key.String(), Existing: next.value, New: v}
			case next.onPath != nil:
				return &DuplicateKeyError{Key: key.String(), Existing: *next.onPath, New: v}
			default:
				// We're half way down another key.
				next.onPath = &v
			}
			return nil
		}

		switch {
		case next == nil:
			next = newBranch()
			current.setEdge(step, next)
		case next.isLeaf():
			// Demote the leaf into a branch holding its value on path.
			value := next.value
			next = newBranch()
			next.onPath = &value
			current.setEdge(step, next)
		}
		current = next
	}
	return nil
}

func (n *node) edge(t Token) *node {
	if t.wild {
		return n.wildcard
	}
	return n.children[t.lit]
}

func (n *node) setEdge(t Token, child *node) {
	if t.wild {
		n.wildcard = child
		return
	}
	n.addEdge(t.lit, child)
}

// explode splits every literal token of key into single byte tokens.
func explode(key TokenSeq) []Token {
	size := 0
	for _, t := range key {
		if t.wild {
			size++
			continue
		}
		size += len(t.lit)
	}

	steps := make([]Token, 0, size)
	for _, t := range key {
		if t.wild {
			steps = append(steps, t)
			continue
		}
		for i := 0; i < len(t.lit); i++ {
			steps = append(steps, Literal(t.lit[i:i+1]))
		}
	}
	return steps
}
