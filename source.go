// Copyright 2022 Sylvain Müller. All rights reserved.
// Mount of this source code is governed by a Apache-2.0 license that can be found
// at https://github.com/tigerwill90/apidir/blob/master/LICENSE.txt.

package apidir

import (
	"fmt"
	"strings"

	"github.com/tigerwill90/apidir/internal/stringutil"
)

// Source describes one API specification as seen by the index: its id, the concrete base URLs it is
// served from, and its raw path templates.
type Source struct {
	// ID identifies the specification, e.g. "github.com/api.github.com".
	ID string `json:"id" yaml:"id"`
	// BaseURLs are the server URLs of the specification, with or without scheme.
	BaseURLs []string `json:"baseUrls" yaml:"baseUrls"`
	// Paths are path templates such as "/repos/{owner}/{repo}", which may carry a "#fragment".
	Paths []string `json:"paths" yaml:"paths"`
}

// NormalizeURL lowercases url and strips its scheme, so "HTTPS://Example.com/a" becomes "example.com/a".
// The result can be passed to [Index.FindAPI] and [Index.Lookup].
func NormalizeURL(url string) string {
	for _, scheme := range []string{"https://", "http://", "//"} {
		if len(url) >= len(scheme) && strings.EqualFold(url[:len(scheme)], scheme) {
			url = url[len(scheme):]
			break
		}
	}
	return stringutil.ToLowerASCIIString(url)
}

// normalizeBase returns url as a base key: normalized and without trailing slash.
func normalizeBase(url string) string {
	return strings.TrimRight(NormalizeURL(url), "/")
}

// declaredBase returns url normalized, keeping one trailing slash when the base has a path, so that the key of
// "example.com/v1/" does not match "example.com/v1beta". A host alone is returned without slash.
func declaredBase(url string) string {
	declared := NormalizeURL(url)
	base := strings.TrimRight(declared, "/")
	if len(declared) == len(base) || !strings.Contains(base, "/") {
		return base
	}
	return base + "/"
}

// validateSources checks that every source has an id, that ids are unique regardless of case and that
// base URLs hold no template variable.
func validateSources(sources []Source) error {
	seen := make(map[string]string, len(sources))
	for _, src := range sources {
		if src.ID == "" {
			return fmt.Errorf("%w: missing id", ErrInvalidSource)
		}
		lower := strings.ToLower(src.ID)
		if other, ok := seen[lower]; ok {
			return fmt.Errorf("%w: %s conflicts with %s", ErrDuplicateSource, src.ID, other)
		}
		seen[lower] = src.ID

		for _, base := range src.BaseURLs {
			if strings.ContainsAny(base, "{}") {
				return fmt.Errorf("%w: %s: unexpanded variable in base url %q", ErrInvalidSource, src.ID, base)
			}
		}
	}
	return nil
}

// baseGroup holds the sources served from one base URL.
type baseGroup struct {
	// paths maps each source id to its lower-cased paths.
	paths map[string][]string
	// declared is the widest spelling of the base among its sources, see declaredBase.
	declared string
}

// groupByBase returns, for each normalized base URL, the sources served from it. Sources without any path are
// registered with a single empty path, so the bare base points to them.
func groupByBase(sources []Source) map[string]*baseGroup {
	bases := make(map[string]*baseGroup)
	for _, src := range sources {
		paths := make([]string, 0, len(src.Paths))
		for _, p := range src.Paths {
			paths = append(paths, stringutil.ToLowerASCIIString(p))
		}
		if len(paths) == 0 {
			paths = append(paths, "")
		}

		for _, url := range src.BaseURLs {
			base := normalizeBase(url)
			if base == "" {
				continue
			}
			declared := declaredBase(url)
			g, ok := bases[base]
			if !ok {
				g = &baseGroup{paths: make(map[string][]string), declared: declared}
				bases[base] = g
			}
			if len(declared) < len(g.declared) {
				g.declared = declared
			}
			g.paths[src.ID] = paths
		}
	}
	return bases
}
