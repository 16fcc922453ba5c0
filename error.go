// Copyright 2022 Sylvain Müller. All rights reserved.
// Mount of this source code is governed by a Apache-2.0 license that can be found
// at https://github.com/tigerwill90/apidir/blob/master/LICENSE.txt.

package apidir

import (
	"errors"
	"strings"
)

var (
	ErrDuplicateKey        = errors.New("duplicate key")
	ErrEmptyKey            = errors.New("empty key")
	ErrInvalidPathTemplate = errors.New("invalid path template")
	ErrDuplicateSource     = errors.New("duplicate source")
	ErrInvalidSource       = errors.New("invalid source")
	ErrInvalidIndex        = errors.New("invalid index")
	ErrInvalidConfig       = errors.New("invalid config")
)

// DuplicateKeyError is returned when two entries produce the same key while building a trie.
// It always denotes a key collision that the disambiguation failed to detect.
type DuplicateKeyError struct {
	// Key is the rendered key shared by both entries.
	Key string
	// Existing is the value already stored under Key.
	Existing Value
	// New is the value that was being inserted when the collision was detected.
	New Value
}

func (e *DuplicateKeyError) Error() string {
	var sb strings.Builder
	sb.WriteString("duplicate key: new entry ")
	sb.WriteString(e.Key)
	sb.WriteString(" -> ")
	sb.WriteString(e.New.String())
	sb.WriteString(" conflicts with ")
	sb.WriteString(e.Existing.String())
	return sb.String()
}

// Unwrap returns the sentinel value [ErrDuplicateKey].
func (e *DuplicateKeyError) Unwrap() error {
	return ErrDuplicateKey
}
