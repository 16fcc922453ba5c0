// Copyright 2022 Sylvain Müller. All rights reserved.
// Mount of this source code is governed by a Apache-2.0 license that can be found
// at https://github.com/tigerwill90/apidir/blob/master/LICENSE.txt.

package slicesutil

// EqualUnsorted reports whether two slices contain the same elements,
// regardless of order. Duplicates are accounted for: [1, 1, 2] is not
// equal to [1, 2, 2]. Returns true if both slices are empty.
// Runs in O(n²) time.
func EqualUnsorted[S ~[]E, E comparable](s1, s2 S) bool {
	if len(s1) != len(s2) {
		return false
	}

	matched := make([]bool, len(s2))

outer:
	for _, a := range s1 {
		for i, b := range s2 {
			if !matched[i] && a == b {
				matched[i] = true
				continue outer
			}
		}
		return false
	}
	return true
}

// Union returns a new slice holding the elements of s followed by the elements of elems
// which are not already present, preserving the order of first appearance. Duplicates within
// elems are dropped as well. The input slice is never modified.
func Union[S ~[]E, E comparable](s S, elems ...E) S {
	u := make(S, 0, len(s)+len(elems))
	for _, e := range s {
		if !contains(u, e) {
			u = append(u, e)
		}
	}
	for _, e := range elems {
		if !contains(u, e) {
			u = append(u, e)
		}
	}
	return u
}

func contains[S ~[]E, E comparable](s S, e E) bool {
	for i := range s {
		if s[i] == e {
			return true
		}
	}
	return false
}
