// Copyright 2022 Sylvain Müller. All rights reserved.
// Mount of this source code is governed by a Apache-2.0 license that can be found
// at https://github.com/tigerwill90/apidir/blob/master/LICENSE.txt.

package apidir

import (
	"fmt"
	"strings"
)

// WildcardKey is the textual form of a wildcard token, used when rendering keys and in the index document.
const WildcardKey = "{*}"

// Token is the atom of a prefix key: either a literal run of bytes, or a wildcard that matches one or more
// bytes up to the next '/' (or the end of the input). The zero value is an empty literal.
type Token struct {
	lit  string
	wild bool
}

// Literal returns a literal token.
func Literal(s string) Token {
	return Token{lit: s}
}

// Wildcard returns the wildcard token. All wildcard tokens are equal.
func Wildcard() Token {
	return Token{wild: true}
}

// IsWildcard reports whether t matches a path segment rather than literal bytes.
func (t Token) IsWildcard() bool {
	return t.wild
}

// Value returns the literal content of t, or an empty string for a wildcard.
func (t Token) Value() string {
	return t.lit
}

// Len returns the length in bytes of the rendered token.
func (t Token) Len() int {
	if t.wild {
		return len(WildcardKey)
	}
	return len(t.lit)
}

// Equal reports whether t and o are the same token.
func (t Token) Equal(o Token) bool {
	return t.wild == o.wild && t.lit == o.lit
}

func (t Token) String() string {
	if t.wild {
		return WildcardKey
	}
	return t.lit
}

// TokenSeq is an ordered sequence of tokens. It is used both for tokenized path templates and for
// the prefix keys computed from them.
type TokenSeq []Token

// Equal reports whether s and o hold equal tokens in the same order.
func (s TokenSeq) Equal(o TokenSeq) bool {
	if len(s) != len(o) {
		return false
	}
	for i := range s {
		if !s[i].Equal(o[i]) {
			return false
		}
	}
	return true
}

// IsPrefixOf reports whether s is a prefix of o. Tokens must align: every token of s but the last must equal
// the token at the same position in o, and the last one must either be equal or, when both are literals,
// be a string prefix of it. The empty sequence is a prefix of everything.
func (s TokenSeq) IsPrefixOf(o TokenSeq) bool {
	if len(s) > len(o) {
		return false
	}
	for i := range s {
		if s[i].Equal(o[i]) {
			continue
		}
		if i == len(s)-1 && !s[i].wild && !o[i].wild {
			return strings.HasPrefix(o[i].lit, s[i].lit)
		}
		return false
	}
	return true
}

// Last returns the last token of s. It panics if s is empty.
func (s TokenSeq) Last() Token {
	return s[len(s)-1]
}

// Clone returns a copy of s which does not share its backing array.
func (s TokenSeq) Clone() TokenSeq {
	if s == nil {
		return nil
	}
	c := make(TokenSeq, len(s))
	copy(c, s)
	return c
}

// String renders s with wildcards written as WildcardKey. Since literal tokens never contain braces,
// the rendering is unique and can be used as a map key.
func (s TokenSeq) String() string {
	var sb strings.Builder
	for _, t := range s {
		if t.wild {
			sb.WriteString(WildcardKey)
			continue
		}
		sb.WriteString(t.lit)
	}
	return sb.String()
}

// WithBase returns the full key for s under base: a leading literal is merged into the base so that
// the result keeps alternating literal and wildcard tokens.
func (s TokenSeq) WithBase(base string) TokenSeq {
	base = strings.TrimSuffix(base, "/")
	if len(s) == 0 {
		return TokenSeq{Literal(base)}
	}
	key := make(TokenSeq, 0, len(s)+1)
	if !s[0].wild {
		key = append(key, Literal(base+s[0].lit))
		return append(key, s[1:]...)
	}
	key = append(key, Literal(base))
	return append(key, s...)
}

// CommonPrefix returns the longest prefix shared by all sequences. Only exactly equal leading tokens are
// shared. At the first divergence, when every sequence holds a literal, the common leading substring of
// those literals (if any) is appended as a final literal token. A wildcard, or the end of any sequence,
// at the divergence point adds nothing.
func CommonPrefix(seqs ...TokenSeq) TokenSeq {
	if len(seqs) == 0 {
		return nil
	}

	first := seqs[0]
	n := len(first)
	for _, seq := range seqs[1:] {
		n = min(n, len(seq))
		for i := 0; i < n; i++ {
			if !seq[i].Equal(first[i]) {
				n = i
				break
			}
		}
	}

	prefix := make(TokenSeq, n, n+1)
	copy(prefix, first[:n])

	lits := make([]string, 0, len(seqs))
	for _, seq := range seqs {
		if n >= len(seq) || seq[n].wild {
			return prefix
		}
		lits = append(lits, seq[n].lit)
	}

	if extra := commonStringPrefix(lits...); extra != "" {
		prefix = append(prefix, Literal(extra))
	}
	return prefix
}

func commonStringPrefix(strs ...string) string {
	if len(strs) == 0 {
		return ""
	}
	p := strs[0]
	for _, s := range strs[1:] {
		p = commonPrefix(p, s)
		if p == "" {
			break
		}
	}
	return p
}

func commonPrefix(k1, k2 string) string {
	minLength := min(len(k1), len(k2))
	for i := 0; i < minLength; i++ {
		if k1[i] != k2[i] {
			return k1[:i]
		}
	}
	return k1[:minLength]
}

// ParsePathTemplate tokenizes a path template. Everything after the first '#' is dropped, every {param}
// section becomes a wildcard and empty literals are elided. Adjacent params collapse into a single wildcard.
// The template is used as is: callers lower-case it beforehand.
func ParsePathTemplate(path string) (TokenSeq, error) {
	if i := strings.IndexByte(path, '#'); i >= 0 {
		path = path[:i]
	}

	seq := make(TokenSeq, 0, 4)
	search := path
	for len(search) > 0 {
		start := strings.IndexByte(search, '{')
		if start < 0 {
			if strings.IndexByte(search, '}') >= 0 {
				return nil, fmt.Errorf("%w: unbalanced '}' in %q", ErrInvalidPathTemplate, path)
			}
			seq = append(seq, Literal(search))
			break
		}

		if strings.IndexByte(search[:start], '}') >= 0 {
			return nil, fmt.Errorf("%w: unbalanced '}' in %q", ErrInvalidPathTemplate, path)
		}

		end := strings.IndexByte(search[start+1:], '}')
		if end < 0 {
			return nil, fmt.Errorf("%w: missing '}' in %q", ErrInvalidPathTemplate, path)
		}
		end += start + 1

		name := search[start+1 : end]
		if name == "" || strings.IndexByte(name, '{') >= 0 {
			return nil, fmt.Errorf("%w: invalid parameter in %q", ErrInvalidPathTemplate, path)
		}

		if start > 0 {
			seq = append(seq, Literal(search[:start]))
		}
		// Two adjacent params match the same segment run: a single wildcard covers both.
		if len(seq) == 0 || !seq.Last().wild {
			seq = append(seq, Wildcard())
		}
		search = search[end+1:]
	}

	return seq, nil
}
