// Copyright 2022 Sylvain Müller. All rights reserved.
// Mount of this source code is governed by a Apache-2.0 license that can be found
// at https://github.com/tigerwill90/apidir/blob/master/LICENSE.txt.

package apidir

import (
	"cmp"
	"fmt"
	"slices"
	"strings"
)

// Disambiguate computes, for a set of specifications sharing the same base URL, the keys which point
// to each of them. Each key is the base followed by a prefix short enough to cover several paths of one
// specification, but long enough to match no path of another one. When two specifications define the same
// endpoints, the overlap cannot be split and is returned as a tie.
//
// Paths are path templates such as "/users/{id}/repos", used as is. Specifications are processed in
// ascending id order and paths in the given order, so the result is deterministic. Entries are sorted by key.
// It returns an error wrapping [ErrInvalidPathTemplate] if a path cannot be tokenized.
func Disambiguate(base string, paths map[string][]string) ([]Entry, error) {
	ids := make([]string, 0, len(paths))
	for id := range paths {
		ids = append(ids, id)
	}
	slices.Sort(ids)

	parsed := make(map[string][]TokenSeq, len(ids))
	for _, id := range ids {
		seqs := make([]TokenSeq, 0, len(paths[id]))
		for _, p := range paths[id] {
			seq, err := ParsePathTemplate(p)
			if err != nil {
				return nil, fmt.Errorf("spec %s: %w", id, err)
			}
			seqs = append(seqs, seq)
		}
		parsed[id] = seqs
	}

	idx := newPrefixIndex()
	for _, id := range ids {
		others := make([]TokenSeq, 0)
		for _, other := range ids {
			if other != id {
				others = append(others, parsed[other]...)
			}
		}

		for _, prefix := range shortestPrefixes(parsed[id], others) {
			idx.add(prefix.WithBase(base), Single(id))
		}
	}

	idx.resolveConflicts()
	return idx.entries(), nil
}

// shortestPrefixes returns the smallest set of prefixes covering every path, such that no prefix is also
// a prefix of others (unless a path is itself a prefix of another spec path, in which case it is kept whole).
func shortestPrefixes(paths, others []TokenSeq) []TokenSeq {
	prefixes := make([]TokenSeq, 0, len(paths))

	for _, path := range paths {
		// If the existing prefixes already work fine for this path, skip it.
		if slices.ContainsFunc(prefixes, func(prefix TokenSeq) bool {
			return prefix.IsPrefixOf(path) && !prefixesAny(prefix, others)
		}) {
			continue
		}

		// Try to shorten an existing prefix as little as possible to match this path,
		// without matching the paths of other specs.
		var shortening TokenSeq
		for _, prefix := range prefixes {
			candidate := CommonPrefix(path, prefix)
			if len(candidate) == 0 || prefixesAny(candidate, others) {
				continue
			}
			if shortening == nil || compareShortenings(candidate, shortening) < 0 {
				shortening = candidate
			}
		}

		if shortening != nil {
			// Drop any existing prefixes that this makes irrelevant.
			prefixes = slices.DeleteFunc(prefixes, func(prefix TokenSeq) bool {
				return shortening.IsPrefixOf(prefix)
			})
			prefixes = append(prefixes, shortening)
			continue
		}

		// Nothing unique in common with existing prefixes: either this is a new branch of the API, or this path
		// is a prefix of another spec path. It may be shortened later by the following paths.
		prefixes = append(prefixes, path)
	}

	return prefixes
}

// compareShortenings orders candidates from the most to the least specific: more tokens first, then a longer
// last token, then the rendered key in ascending order.
func compareShortenings(a, b TokenSeq) int {
	if c := cmp.Compare(len(b), len(a)); c != 0 {
		return c
	}
	if c := cmp.Compare(b.Last().Len(), a.Last().Len()); c != 0 {
		return c
	}
	return strings.Compare(a.String(), b.String())
}

func prefixesAny(prefix TokenSeq, paths []TokenSeq) bool {
	for _, path := range paths {
		if prefix.IsPrefixOf(path) {
			return true
		}
	}
	return false
}

// reduceShortenings folds keys into a set of common prefixes which match none of the hazards.
// A key which cannot be shortened is kept as is.
func reduceShortenings(keys, hazards []TokenSeq) []TokenSeq {
	found := make([]TokenSeq, 0, len(keys))
	for _, key := range keys {
		next := make([]TokenSeq, 0, 1)
		for _, s := range found {
			candidate := CommonPrefix(s, key)
			if len(candidate) > 0 && !prefixesAny(candidate, hazards) {
				next = append(next, candidate)
			}
		}

		// Always true for the first key at least. It may be shortened further later.
		if len(next) == 0 {
			next = append(next, key)
		}

		found = slices.DeleteFunc(found, func(s TokenSeq) bool {
			return slices.ContainsFunc(next, func(n TokenSeq) bool {
				return n.IsPrefixOf(s)
			})
		})
		found = append(found, next...)
	}
	return found
}

type prefixEntry struct {
	key   TokenSeq
	value Value
}

// prefixIndex is a map of keys to values which remembers insertion order.
type prefixIndex struct {
	values map[string]*prefixEntry
	order  []string
}

func newPrefixIndex() *prefixIndex {
	return &prefixIndex{values: make(map[string]*prefixEntry)}
}

// add registers v under key, or adds the ids of v to the value already registered under key.
func (idx *prefixIndex) add(key TokenSeq, v Value) {
	k := key.String()
	if e, ok := idx.values[k]; ok {
		for _, id := range v.ids {
			e.value = e.value.Add(id)
		}
		return
	}
	idx.values[k] = &prefixEntry{key: key, value: v}
	idx.order = append(idx.order, k)
}

func (idx *prefixIndex) delete(key TokenSeq) {
	k := key.String()
	if _, ok := idx.values[k]; !ok {
		return
	}
	delete(idx.values, k)
	idx.order = slices.DeleteFunc(idx.order, func(s string) bool {
		return s == k
	})
}

// resolveConflicts replaces the keys of each tie-set with a smaller set of shortenings. Where two specs define
// the same endpoints we get a key per endpoint: technically correct, but for specs that heavily overlap this
// inflates the index a lot. Shortenings must not match any key holding a spec outside the tie.
func (idx *prefixIndex) resolveConflicts() {
	groups := make(map[string][]TokenSeq)
	ties := make([]Value, 0)
	for _, k := range idx.order {
		e := idx.values[k]
		if !e.value.IsTie() {
			continue
		}
		g := e.value.String()
		if _, ok := groups[g]; !ok {
			ties = append(ties, e.value)
		}
		groups[g] = append(groups[g], e.key)
	}

	for _, tie := range ties {
		// A key of the group may have been taken over by the shortenings of a wider tie.
		conflicting := slices.DeleteFunc(groups[tie.String()], func(key TokenSeq) bool {
			e, ok := idx.values[key.String()]
			return !ok || !e.value.Equal(tie)
		})
		if len(conflicting) == 0 {
			continue
		}

		// Keys pointing only to specs of the tie, e.g. a path defined by one of them alone, are not hazards.
		hazards := make([]TokenSeq, 0, len(idx.order))
		for _, k := range idx.order {
			if e := idx.values[k]; !e.value.SubsetOf(tie) {
				hazards = append(hazards, e.key)
			}
		}

		shortenings := reduceShortenings(conflicting, hazards)
		for _, key := range conflicting {
			idx.delete(key)
		}
		// Shortenings match no hazard, so a key they land on points to specs of the tie only.
		for _, key := range shortenings {
			idx.delete(key)
			idx.add(key, tie)
		}
	}
}

// entries returns the registered entries sorted by key.
func (idx *prefixIndex) entries() []Entry {
	keys := slices.Clone(idx.order)
	slices.Sort(keys)
	entries := make([]Entry, 0, len(keys))
	for _, k := range keys {
		e := idx.values[k]
		entries = append(entries, Entry{Key: e.key, Value: e.value})
	}
	return entries
}
