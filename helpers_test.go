// Copyright 2022 Sylvain Müller. All rights reserved.
// Mount of this source code is governed by a Apache-2.0 license that can be found
// at https://github.com/tigerwill90/apidir/blob/master/LICENSE.txt.

package apidir

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func lit(s string) Token {
	return Literal(s)
}

func wild() Token {
	return Wildcard()
}

func seq(tokens ...Token) TokenSeq {
	if tokens == nil {
		return TokenSeq{}
	}
	return tokens
}

// key converts a rendered key, where each '*' stands for a wildcard, into a token sequence.
func key(s string) TokenSeq {
	ts := make(TokenSeq, 0, 2)
	for i, part := range strings.Split(s, "*") {
		if i > 0 && (len(ts) == 0 || !ts.Last().IsWildcard()) {
			ts = append(ts, wild())
		}
		if part != "" {
			ts = append(ts, lit(part))
		}
	}
	return ts
}

func entry(k string, ids ...string) Entry {
	return Entry{Key: key(k), Value: Tie(ids...)}
}

func mustTrie(t testing.TB, entries ...Entry) *Trie {
	t.Helper()
	trie, err := NewTrie(entries...)
	require.NoError(t, err)
	return trie
}

func mustNaive(t testing.TB, entries ...Entry) *Trie {
	t.Helper()
	root, err := buildNaive(entries)
	require.NoError(t, err)
	return newTrie(root)
}
