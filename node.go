// Copyright 2022 Sylvain Müller. All rights reserved.
// Mount of this source code is governed by a Apache-2.0 license that can be found
// at https://github.com/tigerwill90/apidir/blob/master/LICENSE.txt.

package apidir

import (
	"fmt"
	"slices"
	"strings"
)

type nodeType uint8

const (
	branch nodeType = iota
	leaf
)

type node struct {
	// Literal outgoing edges. In a compressed trie, every key has the same length (width),
	// so a lookup is a single slice and hash operation per level.
	children map[string]*node

	// Edge matching one or more bytes up to the next '/'. Tried only when no literal edge matches.
	wildcard *node

	// Value of a key which ends at this branch while longer keys continue below it.
	onPath *Value

	// The payload of a leaf node.
	value Value

	// Length of every key in children, 0 if there is none.
	width int

	nType nodeType
}

func newLeaf(v Value) *node {
	return &node{nType: leaf, value: v}
}

func newBranch() *node {
	return &node{nType: branch, children: make(map[string]*node)}
}

func (n *node) isLeaf() bool {
	return n.nType == leaf
}

// hasEdges reports whether n has at least one literal or wildcard edge.
func (n *node) hasEdges() bool {
	return len(n.children) > 0 || n.wildcard != nil
}

// addEdge registers child under key, updating the literal width. It does not enforce the width invariant,
// the naive builder only produces single byte keys and the compressor produces same length keys.
func (n *node) addEdge(key string, child *node) {
	if len(n.children) == 0 {
		n.width = len(key)
	}
	n.children[key] = child
}

// sortedKeys returns the literal edge keys of n in ascending order.
func (n *node) sortedKeys() []string {
	keys := make([]string, 0, len(n.children))
	for k := range n.children {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

// validate checks the structural invariants of a compressed trie rooted at n.
func (n *node) validate(path string) error {
	if n.isLeaf() {
		if n.value.IsZero() {
			return fmt.Errorf("%w: empty leaf at %q", ErrInvalidIndex, path)
		}
		return nil
	}

	if n.onPath != nil && n.onPath.IsZero() {
		return fmt.Errorf("%w: empty on-path value at %q", ErrInvalidIndex, path)
	}

	if !n.hasEdges() && n.onPath == nil {
		return fmt.Errorf("%w: empty branch at %q", ErrInvalidIndex, path)
	}

	for key, child := range n.children {
		if key == "" {
			return fmt.Errorf("%w: empty literal edge at %q", ErrInvalidIndex, path)
		}
		if len(key) != n.width {
			return fmt.Errorf("%w: literal edges of different length at %q", ErrInvalidIndex, path)
		}
		if err := child.validate(path + key); err != nil {
			return err
		}
	}

	if n.wildcard != nil {
		return n.wildcard.validate(path + WildcardKey)
	}
	return nil
}

func (n *node) String() string {
	return n.string(0)
}

func (n *node) string(space int) string {
	sb := strings.Builder{}
	n.writeTo(&sb, space)
	return sb.String()
}

func (n *node) writeTo(sb *strings.Builder, space int) {
	if n.isLeaf() {
		sb.WriteString(" -> ")
		sb.WriteString(n.value.String())
		sb.WriteByte('\n')
		return
	}

	if n.onPath != nil {
		sb.WriteString(" -> ")
		sb.WriteString(n.onPath.String())
		sb.WriteString(" (on path)")
	}
	sb.WriteByte('\n')

	for _, key := range n.sortedKeys() {
		sb.WriteString(strings.Repeat(" ", space+2))
		sb.WriteString("path: ")
		sb.WriteString(key)
		n.children[key].writeTo(sb, space+2)
	}
	if n.wildcard != nil {
		sb.WriteString(strings.Repeat(" ", space+2))
		sb.WriteString("path: ")
		sb.WriteString(WildcardKey)
		n.wildcard.writeTo(sb, space+2)
	}
}
