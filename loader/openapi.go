// Copyright 2022 Sylvain Müller. All rights reserved.
// Mount of this source code is governed by a Apache-2.0 license that can be found
// at https://github.com/tigerwill90/apidir/blob/master/LICENSE.txt.

package loader

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/tigerwill90/apidir"
)

const (
	extProviderName = "x-providerName"
	extServiceName  = "x-serviceName"
	extPreferred    = "x-preferred"
	extMsPaths      = "x-ms-paths"
)

var (
	ErrNotPreferred    = errors.New("specification is superseded by a preferred version")
	ErrIgnored         = errors.New("specification is ignored")
	ErrMissingProvider = errors.New("missing x-providerName")
)

// FromOpenAPI extracts the [apidir.Source] of an OpenAPI 3 document. The id is made of the info
// x-providerName and x-serviceName extensions, e.g. "googleapis.com/drive". Server URLs are expanded with
// their variables and filtered with [ShouldIndexURL]. Paths are the document paths followed by its
// x-ms-paths, where the query part is turned into a fragment, unless they collide with a regular path.
//
// It returns an error wrapping [ErrNotPreferred] if the document is marked with x-preferred: false.
func FromOpenAPI(doc *openapi3.T) (apidir.Source, error) {
	if doc == nil || doc.Info == nil {
		return apidir.Source{}, fmt.Errorf("%w: %w", apidir.ErrInvalidSource, ErrMissingProvider)
	}

	id, err := idFromInfo(doc.Info)
	if err != nil {
		return apidir.Source{}, err
	}

	if preferred, ok := doc.Info.Extensions[extPreferred].(bool); ok && !preferred {
		return apidir.Source{ID: id}, fmt.Errorf("%s: %w", id, ErrNotPreferred)
	}

	return apidir.Source{
		ID:       id,
		BaseURLs: indexableURLs(doc.Servers),
		Paths:    documentPaths(doc),
	}, nil
}

func idFromInfo(info *openapi3.Info) (string, error) {
	provider, _ := info.Extensions[extProviderName].(string)
	if provider == "" {
		return "", fmt.Errorf("%w: %w", apidir.ErrInvalidSource, ErrMissingProvider)
	}
	if service, _ := info.Extensions[extServiceName].(string); service != "" {
		return provider + "/" + service, nil
	}
	return provider, nil
}

// documentPaths returns the sorted paths of doc, followed by its sorted x-ms-paths.
func documentPaths(doc *openapi3.T) []string {
	var paths []string
	if doc.Paths != nil {
		for p := range doc.Paths.Map() {
			paths = append(paths, p)
		}
	}
	slices.Sort(paths)

	msPaths, ok := doc.Extensions[extMsPaths].(map[string]any)
	if !ok {
		return paths
	}

	extra := make([]string, 0, len(msPaths))
	for p := range msPaths {
		p = strings.Replace(p, "?", "#", 1)
		if !slices.Contains(paths, p) && !slices.Contains(extra, p) {
			extra = append(extra, p)
		}
	}
	slices.Sort(extra)
	return append(paths, extra...)
}
