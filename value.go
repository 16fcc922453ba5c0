// Copyright 2022 Sylvain Müller. All rights reserved.
// Mount of this source code is governed by a Apache-2.0 license that can be found
// at https://github.com/tigerwill90/apidir/blob/master/LICENSE.txt.

package apidir

import (
	"fmt"
	"slices"
	"strings"

	"github.com/goccy/go-json"
	"github.com/tigerwill90/apidir/internal/slicesutil"
)

// Value is the payload stored at the end of a prefix key: the id of a single API specification, or
// a tie between several specifications which genuinely cover the same URLs. The zero value is empty.
type Value struct {
	ids []string
}

// Single returns a value holding one specification id.
func Single(id string) Value {
	return Value{ids: []string{id}}
}

// Tie returns a value holding the given ids, in order, without duplicates. A tie of one id is a single value.
func Tie(ids ...string) Value {
	return Value{ids: slicesutil.Union([]string(nil), ids...)}
}

// Add returns a value holding the ids of v followed by id, unless v already holds it.
func (v Value) Add(id string) Value {
	return Value{ids: slicesutil.Union(v.ids, id)}
}

// IsZero reports whether v holds no id.
func (v Value) IsZero() bool {
	return len(v.ids) == 0
}

// IsTie reports whether v holds more than one id.
func (v Value) IsTie() bool {
	return len(v.ids) > 1
}

// ID returns the first id of v, or an empty string if v is empty.
func (v Value) ID() string {
	if len(v.ids) == 0 {
		return ""
	}
	return v.ids[0]
}

// IDs returns a copy of the ids held by v.
func (v Value) IDs() []string {
	ids := make([]string, len(v.ids))
	copy(ids, v.ids)
	return ids
}

// Equal reports whether v and o hold the same ids in the same order.
func (v Value) Equal(o Value) bool {
	if len(v.ids) != len(o.ids) {
		return false
	}
	for i := range v.ids {
		if v.ids[i] != o.ids[i] {
			return false
		}
	}
	return true
}

// SameSet reports whether v and o hold the same ids, regardless of order.
func (v Value) SameSet(o Value) bool {
	return slicesutil.EqualUnsorted(v.ids, o.ids)
}

// SubsetOf reports whether every id of v is held by o.
func (v Value) SubsetOf(o Value) bool {
	for _, id := range v.ids {
		if !slices.Contains(o.ids, id) {
			return false
		}
	}
	return true
}

func (v Value) String() string {
	if len(v.ids) == 1 {
		return v.ids[0]
	}
	return "[" + strings.Join(v.ids, ", ") + "]"
}

// MarshalJSON encodes a single value as a string and a tie as an array of strings.
func (v Value) MarshalJSON() ([]byte, error) {
	switch len(v.ids) {
	case 0:
		return nil, fmt.Errorf("%w: empty value", ErrInvalidIndex)
	case 1:
		return json.Marshal(v.ids[0])
	default:
		return json.Marshal(v.ids)
	}
}

// UnmarshalJSON decodes a value encoded by MarshalJSON.
func (v *Value) UnmarshalJSON(data []byte) error {
	var id string
	if err := json.Unmarshal(data, &id); err == nil {
		if id == "" {
			return fmt.Errorf("%w: empty value", ErrInvalidIndex)
		}
		*v = Single(id)
		return nil
	}

	var ids []string
	if err := json.Unmarshal(data, &ids); err != nil {
		return fmt.Errorf("%w: value must be a string or an array of strings", ErrInvalidIndex)
	}
	if len(ids) == 0 {
		return fmt.Errorf("%w: empty value", ErrInvalidIndex)
	}
	*v = Tie(ids...)
	return nil
}
