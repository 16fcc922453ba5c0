// Copyright 2022 Sylvain Müller. All rights reserved.
// Mount of this source code is governed by a Apache-2.0 license that can be found
// at https://github.com/tigerwill90/apidir/blob/master/LICENSE.txt.

package loader

import (
	"testing"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tigerwill90/apidir"
)

func newDocument(ext map[string]any) *openapi3.T {
	return &openapi3.T{
		OpenAPI: "3.0.3",
		Info:    &openapi3.Info{Title: "test", Version: "1.0", Extensions: ext},
		Servers: openapi3.Servers{
			{URL: "https://API.example.com/v1/"},
			{URL: "http://localhost:8080"},
		},
		Paths: openapi3.NewPaths(
			openapi3.WithPath("/users/{id}", &openapi3.PathItem{}),
			openapi3.WithPath("/users", &openapi3.PathItem{}),
		),
	}
}

func TestFromOpenAPI(t *testing.T) {
	cases := []struct {
		name string
		ext  map[string]any
		want string
	}{
		{
			name: "provider only",
			ext:  map[string]any{"x-providerName": "example.com"},
			want: "example.com",
		},
		{
			name: "provider and service",
			ext:  map[string]any{"x-providerName": "example.com", "x-serviceName": "users"},
			want: "example.com/users",
		},
		{
			name: "preferred document",
			ext:  map[string]any{"x-providerName": "example.com", "x-preferred": true},
			want: "example.com",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			src, err := FromOpenAPI(newDocument(tc.ext))
			require.NoError(t, err)
			assert.Equal(t, apidir.Source{
				ID:       tc.want,
				BaseURLs: []string{"api.example.com/v1/"},
				Paths:    []string{"/users", "/users/{id}"},
			}, src)
		})
	}
}

func TestFromOpenAPI_NotPreferred(t *testing.T) {
	src, err := FromOpenAPI(newDocument(map[string]any{"x-providerName": "example.com", "x-preferred": false}))
	assert.ErrorIs(t, err, ErrNotPreferred)
	assert.Equal(t, "example.com", src.ID)
}

func TestFromOpenAPI_MissingProvider(t *testing.T) {
	cases := []struct {
		name string
		doc  *openapi3.T
	}{
		{name: "nil document"},
		{name: "nil info", doc: &openapi3.T{}},
		{name: "no extension", doc: newDocument(nil)},
		{name: "empty provider", doc: newDocument(map[string]any{"x-providerName": "", "x-serviceName": "users"})},
		{name: "provider is not a string", doc: newDocument(map[string]any{"x-providerName": 42})},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := FromOpenAPI(tc.doc)
			assert.ErrorIs(t, err, ErrMissingProvider)
			assert.ErrorIs(t, err, apidir.ErrInvalidSource)
		})
	}
}

func TestDocumentPaths(t *testing.T) {
	doc := newDocument(nil)
	doc.Extensions = map[string]any{
		"x-ms-paths": map[string]any{
			"/users?api-version=2": map[string]any{},
			"/users?op=list":       map[string]any{},
			"/users":               map[string]any{},
			"/users#op=list":       map[string]any{},
			"/search?q=a?b":        map[string]any{},
		},
	}

	assert.Equal(t, []string{
		"/users",
		"/users/{id}",
		"/search#q=a?b",
		"/users#api-version=2",
		"/users#op=list",
	}, documentPaths(doc))
}

func TestDocumentPaths_NoPaths(t *testing.T) {
	assert.Empty(t, documentPaths(&openapi3.T{}))
}
