// Copyright 2022 Sylvain Müller. All rights reserved.
// Mount of this source code is governed by a Apache-2.0 license that can be found
// at https://github.com/tigerwill90/apidir/blob/master/LICENSE.txt.

package apidir

import (
	"math"
	"strconv"
	"strings"
	"testing"
	"time"

	fuzz "github.com/google/gofuzz"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTrie_Get(t *testing.T) {
	cases := []struct {
		name    string
		entries []Entry
		key     string
		want    string
		wantOk  bool
	}{
		{
			name:    "simple value",
			entries: []Entry{entry("a", "value")},
			key:     "a",
			want:    "value",
			wantOk:  true,
		},
		{
			name:    "missing value",
			entries: []Entry{entry("a", "value")},
			key:     "ab",
		},
		{
			name:    "value part way down a path",
			entries: []Entry{entry("a", "value"), entry("ab", "value"), entry("abc", "value2")},
			key:     "ab",
			want:    "value",
			wantOk:  true,
		},
		{
			name:    "shorter than any key",
			entries: []Entry{entry("abc", "value")},
			key:     "ab",
		},
		{
			name:    "wildcard matches a segment",
			entries: []Entry{entry("example.com/a/*", "spec1")},
			key:     "example.com/a/123",
			want:    "spec1",
			wantOk:  true,
		},
		{
			name:    "wildcard does not cross a slash",
			entries: []Entry{entry("example.com/a/*", "spec1")},
			key:     "example.com/a/123/b",
		},
		{
			name:    "wildcard requires one byte",
			entries: []Entry{entry("example.com/a/*", "spec1")},
			key:     "example.com/a/",
		},
		{
			name:    "literal wins over wildcard",
			entries: []Entry{entry("example.com/a/1", "spec1"), entry("example.com/a/*", "spec2")},
			key:     "example.com/a/1",
			want:    "spec1",
			wantOk:  true,
		},
		{
			name:    "backtrack to the wildcard when the literal dead ends",
			entries: []Entry{entry("example.com/a/1/x", "spec1"), entry("example.com/a/2", "spec3"), entry("example.com/a/*/y", "spec2")},
			key:     "example.com/a/1/y",
			want:    "spec2",
			wantOk:  true,
		},
		{
			name:    "tie",
			entries: []Entry{entry("example.com/a/*", "spec1", "spec2")},
			key:     "example.com/a/b",
			want:    "[spec1, spec2]",
			wantOk:  true,
		},
		{
			name:    "empty key",
			entries: []Entry{entry("a", "value")},
			key:     "",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			trie := mustTrie(t, tc.entries...)
			v, ok := trie.Get(tc.key)
			require.Equal(t, tc.wantOk, ok)
			if ok {
				assert.Equal(t, tc.want, v.String())
			}
		})
	}
}

func TestTrie_LongestMatchingPrefix(t *testing.T) {
	cases := []struct {
		name    string
		entries []Entry
		key     string
		want    string
		wantOk  bool
	}{
		{
			name:    "exact value",
			entries: []Entry{entry("a", "value")},
			key:     "a",
			want:    "value",
			wantOk:  true,
		},
		{
			name:    "array value",
			entries: []Entry{entry("a", "value1", "value2")},
			key:     "a",
			want:    "[value1, value2]",
			wantOk:  true,
		},
		{
			name:    "exact value part way down a path",
			entries: []Entry{entry("a", "value"), entry("ab", "value"), entry("abc", "value2")},
			key:     "ab",
			want:    "value",
			wantOk:  true,
		},
		{
			name:    "prefix",
			entries: []Entry{entry("a", "value"), entry("ab", "value"), entry("abc", "value2")},
			key:     "abcd",
			want:    "value2",
			wantOk:  true,
		},
		{
			name:    "longest prefix falls back to an on path value",
			entries: []Entry{entry("ab", "short"), entry("abcd", "long")},
			key:     "abcx",
			want:    "short",
			wantOk:  true,
		},
		{
			name:    "never matches a longer key",
			entries: []Entry{entry("abcdefg", "value")},
			key:     "abcdef",
		},
		{
			name:    "wildcard then literal",
			entries: []Entry{entry("example.com/a/*", "tie"), entry("example.com/a/*/b", "spec1")},
			key:     "example.com/a/xyz/b/c",
			want:    "spec1",
			wantOk:  true,
		},
		{
			name:    "wildcard on path value",
			entries: []Entry{entry("example.com/a/*", "tie"), entry("example.com/a/*/b", "spec1")},
			key:     "example.com/a/xyz/c",
			want:    "tie",
			wantOk:  true,
		},
		{
			name: "deepest on path value after a wildcard dead end",
			entries: []Entry{
				entry("example.com/", "root"),
				entry("example.com/a/", "a"),
				entry("example.com/a/*/b/c", "c"),
			},
			key:    "example.com/a/x/b/d",
			want:   "a",
			wantOk: true,
		},
		{
			name:    "no match",
			entries: []Entry{entry("example.com/a", "spec1")},
			key:     "example.org/a",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			trie := mustTrie(t, tc.entries...)
			v, ok := trie.LongestMatchingPrefix(tc.key)
			require.Equal(t, tc.wantOk, ok)
			if ok {
				assert.Equal(t, tc.want, v.String())
			}
		})
	}
}

func TestTrie_Empty(t *testing.T) {
	trie := mustTrie(t)
	assert.Zero(t, trie.Len())

	_, ok := trie.Get("a")
	assert.False(t, ok)
	_, ok = trie.LongestMatchingPrefix("a")
	assert.False(t, ok)
}

func TestNewTrie_DuplicateKey(t *testing.T) {
	cases := []struct {
		name    string
		entries []Entry
		wantKey string
	}{
		{
			name:    "duplicate leaf",
			entries: []Entry{entry("ab", "v1"), entry("ab", "v2")},
			wantKey: "ab",
		},
		{
			name:    "duplicate on path value",
			entries: []Entry{entry("ab", "v1"), entry("abc", "v2"), entry("ab", "v3")},
			wantKey: "ab",
		},
		{
			name:    "duplicate wildcard",
			entries: []Entry{entry("a/*", "v1"), entry("a/**", "v2")},
			wantKey: "a/{*}",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewTrie(tc.entries...)
			require.ErrorIs(t, err, ErrDuplicateKey)
			var dup *DuplicateKeyError
			require.ErrorAs(t, err, &dup)
			assert.Equal(t, tc.wantKey, dup.Key)
			assert.Equal(t, "v1", dup.Existing.String())
		})
	}
}

func TestNewTrie_EmptyKey(t *testing.T) {
	_, err := NewTrie(Entry{Key: TokenSeq{}, Value: Single("v")})
	assert.ErrorIs(t, err, ErrEmptyKey)
	_, err = NewTrie(Entry{Key: TokenSeq{Literal("")}, Value: Single("v")})
	assert.ErrorIs(t, err, ErrEmptyKey)
}

func TestNewTrie_OrderIndependent(t *testing.T) {
	entries := []Entry{
		entry("example.com/a", "spec2"),
		entry("example.com/a/b/", "spec1"),
		entry("example.com/c", "spec2"),
		entry("example.com/d/*/e", "spec3"),
	}
	reversed := []Entry{entries[3], entries[2], entries[1], entries[0]}

	assert.Equal(t, mustTrie(t, entries...).String(), mustTrie(t, reversed...).String())
}

func flatTrie(t *testing.T, n int) (*Trie, []string) {
	t.Helper()
	keys := make([]string, n)
	entries := make([]Entry, 0, n)
	for i := range keys {
		keys[i] = strconv.Itoa(i)
		entries = append(entries, entry(keys[i], "value"+keys[i]))
	}
	trie := mustTrie(t, entries...)
	require.Equal(t, n, trie.Len())
	return trie, keys
}

// lookupCost returns the best average duration of a Get and a LongestMatchingPrefix over keys, out of a few rounds.
func lookupCost(t *testing.T, trie *Trie, keys []string) time.Duration {
	t.Helper()
	best := time.Duration(math.MaxInt64)
	for round := 0; round < 5; round++ {
		start := time.Now()
		for _, k := range keys {
			v, ok := trie.Get(k)
			require.True(t, ok)
			require.Equal(t, "value"+k, v.ID())
		}
		for _, k := range keys {
			v, ok := trie.LongestMatchingPrefix(k)
			require.True(t, ok)
			require.Equal(t, "value"+k, v.ID())
		}
		best = min(best, time.Since(start)/time.Duration(2*len(keys)))
	}
	return best
}

func TestTrie_LargeTrie(t *testing.T) {
	small, smallKeys := flatTrie(t, 1000)
	large, largeKeys := flatTrie(t, 10000)

	// Same queries on both tries, so only the index size differs.
	smallCost := lookupCost(t, small, smallKeys)
	largeCost := lookupCost(t, large, largeKeys[:len(smallKeys)])

	assert.Less(t, largeCost, 100*time.Microsecond)
	// Ten times more keys must not cost anywhere near ten times more per lookup.
	assert.Less(t, largeCost, 4*max(smallCost, time.Microsecond))
}

func TestFuzzCompressionTransparency(t *testing.T) {
	unicodeRanges := fuzz.UnicodeRanges{
		{First: '*', Last: '*'},
		{First: '/', Last: '/'},
		{First: 'a', Last: 'c'},
	}
	f := fuzz.New().NilChance(0).NumElements(200, 500).Funcs(unicodeRanges.CustomStringFuzzFunc())

	for i := 0; i < 20; i++ {
		raw := make(map[string]struct{})
		f.Fuzz(&raw)

		seen := make(map[string]struct{})
		entries := make([]Entry, 0, len(raw))
		for s := range raw {
			k := key(s)
			if len(k) == 0 {
				continue
			}
			if _, ok := seen[k.String()]; ok {
				continue
			}
			seen[k.String()] = struct{}{}
			entries = append(entries, Entry{Key: k, Value: Single(k.String())})
		}

		naive := mustNaive(t, entries...)
		compressed := mustTrie(t, entries...)
		require.Equal(t, naive.Len(), compressed.Len())
		require.NoError(t, compressed.root.validate(""))

		queries := make([]string, 0, len(entries)*2)
		for _, e := range entries {
			queries = append(queries, strings.ReplaceAll(e.Key.String(), WildcardKey, "ab"))
		}
		var extra []string
		f.Fuzz(&extra)
		for _, q := range extra {
			queries = append(queries, strings.ReplaceAll(q, "*", ""))
		}

		for _, q := range queries {
			want, wantOk := naive.Get(q)
			got, gotOk := compressed.Get(q)
			require.Equalf(t, wantOk, gotOk, "get %q", q)
			require.Truef(t, want.Equal(got), "get %q: want %s, got %s", q, want, got)

			want, wantOk = naive.LongestMatchingPrefix(q)
			got, gotOk = compressed.LongestMatchingPrefix(q)
			require.Equalf(t, wantOk, gotOk, "prefix %q", q)
			require.Truef(t, want.Equal(got), "prefix %q: want %s, got %s", q, want, got)
		}
	}
}

func TestFuzzRoundTrip(t *testing.T) {
	unicodeRanges := fuzz.UnicodeRanges{
		{First: 0x20, Last: 0x29},
		{First: 0x2B, Last: 0x7A},
		{First: 0x7C, Last: 0x7C},
		{First: 0x7E, Last: 0x04FF},
	}
	f := fuzz.New().NilChance(0).NumElements(1000, 2000).Funcs(unicodeRanges.CustomStringFuzzFunc())

	keys := make(map[string]struct{})
	f.Fuzz(&keys)

	entries := make([]Entry, 0, len(keys))
	for k := range keys {
		if k == "" {
			continue
		}
		entries = append(entries, Entry{Key: TokenSeq{Literal(k)}, Value: Single("v" + k)})
	}
	trie := mustTrie(t, entries...)
	require.Equal(t, len(entries), trie.Len())

	for _, e := range entries {
		k := e.Key.String()
		v, ok := trie.Get(k)
		require.Truef(t, ok, "get %q", k)
		require.Equal(t, "v"+k, v.ID())

		// No shorter key may shadow an exact match.
		v, ok = trie.LongestMatchingPrefix(k)
		require.Truef(t, ok, "prefix %q", k)
		require.Equal(t, "v"+k, v.ID())
	}
}
