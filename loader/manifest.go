// Copyright 2022 Sylvain Müller. All rights reserved.
// Mount of this source code is governed by a Apache-2.0 license that can be found
// at https://github.com/tigerwill90/apidir/blob/master/LICENSE.txt.

package loader

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/tigerwill90/apidir"
	"gopkg.in/yaml.v3"
)

// ManifestEntry describes a source without a full OpenAPI document.
type ManifestEntry struct {
	ID      string           `yaml:"id"`
	Servers openapi3.Servers `yaml:"servers"`
	Paths   []string         `yaml:"paths"`
}

// ReadManifest decodes a YAML list of sources, e.g.
//
//	- id: example.com/users
//	  servers:
//	    - url: https://{region}.example.com/v1
//	      variables:
//	        region:
//	          default: eu
//	          enum: [eu, us]
//	  paths:
//	    - /users/{id}
//
// Servers follow the OpenAPI server object and are expanded as in [FromOpenAPI]. Ignored ids are left out.
func ReadManifest(r io.Reader, opts ...Option) ([]apidir.Source, error) {
	cfg, err := newConfig(opts...)
	if err != nil {
		return nil, err
	}

	var entries []ManifestEntry
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err = dec.Decode(&entries); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: %w", apidir.ErrInvalidSource, err)
	}

	sources := make([]apidir.Source, 0, len(entries))
	for i, e := range entries {
		if e.ID == "" {
			return nil, fmt.Errorf("%w: manifest entry %d has no id", apidir.ErrInvalidSource, i)
		}
		if cfg.isIgnored(e.ID) {
			continue
		}
		sources = append(sources, apidir.Source{
			ID:       e.ID,
			BaseURLs: indexableURLs(e.Servers),
			Paths:    e.Paths,
		})
	}
	return sources, nil
}

// ReadManifestFile decodes the manifest stored in the named file.
func ReadManifestFile(name string, opts ...Option) ([]apidir.Source, error) {
	f, err := os.Open(name)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ReadManifest(f, opts...)
}
