// Copyright 2022 Sylvain Müller. All rights reserved.
// Mount of this source code is governed by a Apache-2.0 license that can be found
// at https://github.com/tigerwill90/apidir/blob/master/LICENSE.txt.

package apidir

import (
	"strings"
	"sync"
)

const slashDelim = '/'

// Trie is an immutable compressed trie mapping keys made of literal runs and single segment wildcards
// to values. It is safe to query a Trie concurrently without any coordination.
type Trie struct {
	pool     sync.Pool
	root     *node
	size     int
	maxDepth int
}

// NewTrie builds a compressed trie from the provided entries. It returns a [DuplicateKeyError] if two
// entries share the same key, and [ErrEmptyKey] if a key has no token.
func NewTrie(entries ...Entry) (*Trie, error) {
	naive, err := buildNaive(entries)
	if err != nil {
		return nil, err
	}
	return newTrie(compress(naive)), nil
}

func newTrie(root *node) *Trie {
	t := new(Trie)
	t.init(root)
	return t
}

func (t *Trie) init(root *node) {
	t.root = root
	t.size, t.maxDepth = stats(root)
	t.pool = sync.Pool{
		New: func() any {
			s := make(skipStack, 0, t.maxDepth)
			return &s
		},
	}
}

// Get returns the value registered under exactly key.
func (t *Trie) Get(key string) (Value, bool) {
	return t.lookup(key, true)
}

// LongestMatchingPrefix returns the value of the longest registered key which is a prefix of key. e.g. for
// the input "abcdef", "abc" is preferred over "ab", and "abcdefg" is never matched.
func (t *Trie) LongestMatchingPrefix(key string) (Value, bool) {
	return t.lookup(key, false)
}

// Len returns the number of keys registered in the trie.
func (t *Trie) Len() int {
	return t.size
}

func (t *Trie) String() string {
	return t.root.String()
}

func (t *Trie) lookup(key string, exact bool) (Value, bool) {
	if len(key) == 0 {
		return Value{}, false
	}

	stack := t.pool.Get().(*skipStack)
	*stack = (*stack)[:0]
	v, ok := lookup(t.root, key, exact, stack)
	t.pool.Put(stack)
	return v, ok
}

type stage uint8

const (
	tryLiteral stage = iota
	tryWildcard
	tryOnPath
)

// lookup walks the trie from root. At each branch, the literal edge wins over the wildcard edge, which wins
// over the on-path value. When a walk dead-ends, it resumes from the last branch which has an alternative left,
// so the result is the same whether the trie is compressed or not.
func lookup(root *node, path string, exact bool, stack *skipStack) (Value, bool) {
	var (
		current      = root
		charsMatched int
		from         stage
	)

Walk:
	for {
		search := path[charsMatched:]

		if current.isLeaf() {
			if !exact || len(search) == 0 {
				return current.value, true
			}
			break Walk
		}

		if from == tryLiteral && current.width > 0 && current.width <= len(search) {
			if child := current.children[search[:current.width]]; child != nil {
				if current.wildcard != nil || current.onPath != nil {
					stack.push(skipNode{node: current, pathIndex: charsMatched, from: tryWildcard})
				}
				charsMatched += current.width
				current = child
				from = tryLiteral
				continue
			}
		}

		if from <= tryWildcard && current.wildcard != nil {
			end := strings.IndexByte(search, slashDelim)
			if end < 0 {
				end = len(search)
			}
			// A wildcard matches a non-empty segment.
			if end > 0 {
				if current.onPath != nil {
					stack.push(skipNode{node: current, pathIndex: charsMatched, from: tryOnPath})
				}
				charsMatched += end
				current = current.wildcard
				from = tryLiteral
				continue
			}
		}

		if current.onPath != nil && (!exact || len(search) == 0) {
			return *current.onPath, true
		}
		break Walk
	}

	if len(*stack) == 0 {
		return Value{}, false
	}

	skipped := stack.pop()
	current = skipped.node
	charsMatched = skipped.pathIndex
	from = skipped.from
	goto Walk
}

type skipNode struct {
	node      *node
	pathIndex int
	from      stage
}

type skipStack []skipNode

func (n *skipStack) push(s skipNode) {
	*n = append(*n, s)
}

func (n *skipStack) pop() skipNode {
	skipped := (*n)[len(*n)-1]
	*n = (*n)[:len(*n)-1]
	return skipped
}

// stats returns the number of values and the depth of the trie rooted at n.
func stats(n *node) (size, depth int) {
	if n.isLeaf() {
		return 1, 0
	}
	if n.onPath != nil {
		size++
	}
	for _, child := range n.children {
		s, d := stats(child)
		size += s
		depth = max(depth, d)
	}
	if n.wildcard != nil {
		s, d := stats(n.wildcard)
		size += s
		depth = max(depth, d)
	}
	return size, depth + 1
}
