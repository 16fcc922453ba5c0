// Copyright 2022 Sylvain Müller. All rights reserved.
// Mount of this source code is governed by a Apache-2.0 license that can be found
// at https://github.com/tigerwill90/apidir/blob/master/LICENSE.txt.

package apidir

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/goccy/go-json"
)

// MarshalJSON encodes the trie. A leaf is a string or an array of strings, a branch is an object keyed by
// its literal edges, with the on-path value under the empty key and the wildcard edge under [WildcardKey].
func (t *Trie) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.root)
}

// UnmarshalJSON decodes a trie encoded by MarshalJSON and validates its invariants.
func (t *Trie) UnmarshalJSON(data []byte) error {
	root := newBranch()
	if err := json.Unmarshal(data, root); err != nil {
		return err
	}
	if root.isLeaf() {
		return fmt.Errorf("%w: root must be an object", ErrInvalidIndex)
	}
	if root.hasEdges() || root.onPath != nil {
		if err := root.validate(""); err != nil {
			return err
		}
	}
	t.init(root)
	return nil
}

func (n *node) MarshalJSON() ([]byte, error) {
	if n.isLeaf() {
		return n.value.MarshalJSON()
	}

	m := make(map[string]any, len(n.children)+2)
	for k, child := range n.children {
		m[k] = child
	}
	if n.wildcard != nil {
		m[WildcardKey] = n.wildcard
	}
	if n.onPath != nil {
		m[""] = *n.onPath
	}
	return json.Marshal(m)
}

func (n *node) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return fmt.Errorf("%w: empty node", ErrInvalidIndex)
	}

	if data[0] != '{' {
		var v Value
		if err := v.UnmarshalJSON(data); err != nil {
			return err
		}
		*n = node{nType: leaf, value: v}
		return nil
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidIndex, err)
	}

	*n = node{nType: branch, children: make(map[string]*node, len(raw))}
	for k, msg := range raw {
		switch k {
		case "":
			var v Value
			if err := v.UnmarshalJSON(msg); err != nil {
				return err
			}
			n.onPath = &v
		case WildcardKey:
			child := new(node)
			if err := child.UnmarshalJSON(msg); err != nil {
				return err
			}
			n.wildcard = child
		default:
			if strings.ContainsAny(k, "{}") {
				return fmt.Errorf("%w: unexpected brace in edge %q", ErrInvalidIndex, k)
			}
			child := new(node)
			if err := child.UnmarshalJSON(msg); err != nil {
				return err
			}
			n.addEdge(k, child)
		}
	}
	return nil
}
