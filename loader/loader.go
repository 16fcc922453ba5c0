// Copyright 2022 Sylvain Müller. All rights reserved.
// Mount of this source code is governed by a Apache-2.0 license that can be found
// at https://github.com/tigerwill90/apidir/blob/master/LICENSE.txt.

// Package loader reads OpenAPI and Swagger documents into [apidir.Source] values ready to be indexed.
package loader

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"path/filepath"
	"runtime"
	"slices"
	"strings"
	"sync"

	"github.com/getkin/kin-openapi/openapi2"
	"github.com/getkin/kin-openapi/openapi2conv"
	"github.com/getkin/kin-openapi/openapi3"
	"github.com/goccy/go-json"
	"github.com/tigerwill90/apidir"
	"github.com/tigerwill90/apidir/internal/stringutil"
	"go.uber.org/multierr"
	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"
)

// Option configures how documents are loaded.
type Option interface {
	apply(*config) error
}

type optionFunc func(*config) error

func (o optionFunc) apply(c *config) error {
	return o(c)
}

type config struct {
	logger      *slog.Logger
	ignored     []string
	concurrency int
}

func newConfig(opts ...Option) (*config, error) {
	cfg := &config{
		logger:      slog.New(slog.DiscardHandler),
		concurrency: runtime.GOMAXPROCS(0),
	}
	for _, opt := range opts {
		if err := opt.apply(cfg); err != nil {
			return nil, err
		}
	}
	return cfg, nil
}

// WithIgnoredIDs skips the documents with one of the given ids, compared case-insensitively. Loading such
// a document returns an error wrapping [ErrIgnored].
func WithIgnoredIDs(ids ...string) Option {
	return optionFunc(func(c *config) error {
		c.ignored = append(c.ignored, ids...)
		return nil
	})
}

// WithConcurrency sets the maximum number of documents loaded in parallel by [LoadFiles]. The default is
// runtime.GOMAXPROCS(0).
func WithConcurrency(n int) Option {
	return optionFunc(func(c *config) error {
		if n <= 0 {
			return fmt.Errorf("%w: concurrency must be greater than zero", apidir.ErrInvalidConfig)
		}
		c.concurrency = n
		return nil
	})
}

// WithLogger sets the [slog.Handler] used to report skipped documents. By default, nothing is logged.
func WithLogger(handler slog.Handler) Option {
	return optionFunc(func(c *config) error {
		if handler == nil {
			return fmt.Errorf("%w: log handler cannot be nil", apidir.ErrInvalidConfig)
		}
		c.logger = slog.New(handler)
		return nil
	})
}

func (c *config) isIgnored(id string) bool {
	return slices.ContainsFunc(c.ignored, func(ignored string) bool {
		return stringutil.EqualStringsASCIIIgnoreCase(ignored, id)
	})
}

// LoadFile reads the OpenAPI 3 or Swagger 2 document at name, in JSON or YAML, and returns its source.
// Swagger documents are converted to OpenAPI 3 first. See [FromOpenAPI] for the extraction rules.
func LoadFile(ctx context.Context, name string, opts ...Option) (apidir.Source, error) {
	cfg, err := newConfig(opts...)
	if err != nil {
		return apidir.Source{}, err
	}
	return cfg.loadFile(ctx, name)
}

// LoadData is like [LoadFile] for a document held in memory. External references, if any, are resolved
// relative to the working directory.
func LoadData(ctx context.Context, data []byte, opts ...Option) (apidir.Source, error) {
	cfg, err := newConfig(opts...)
	if err != nil {
		return apidir.Source{}, err
	}
	return cfg.load(ctx, data, nil)
}

func (c *config) loadFile(ctx context.Context, name string) (apidir.Source, error) {
	data, err := os.ReadFile(name)
	if err != nil {
		return apidir.Source{}, err
	}
	src, err := c.load(ctx, data, &url.URL{Path: filepath.ToSlash(name)})
	if err != nil {
		return src, fmt.Errorf("%s: %w", name, err)
	}
	return src, nil
}

func (c *config) load(ctx context.Context, data []byte, location *url.URL) (apidir.Source, error) {
	doc, err := parseDocument(ctx, data, location)
	if err != nil {
		return apidir.Source{}, fmt.Errorf("%w: %w", apidir.ErrInvalidSource, err)
	}

	src, err := FromOpenAPI(doc)
	if err != nil {
		return src, err
	}
	if c.isIgnored(src.ID) {
		return src, fmt.Errorf("%s: %w", src.ID, ErrIgnored)
	}
	return src, nil
}

// LoadFiles loads every named document concurrently. Documents which are not preferred or ignored are left
// out silently. Other failures do not stop the remaining documents from loading: they are combined into the
// returned error, along with the sources which loaded successfully, sorted by id.
func LoadFiles(ctx context.Context, names []string, opts ...Option) ([]apidir.Source, error) {
	cfg, err := newConfig(opts...)
	if err != nil {
		return nil, err
	}

	var (
		mu      sync.Mutex
		sources = make([]apidir.Source, 0, len(names))
		errs    error
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(cfg.concurrency)
	for _, name := range names {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}

			src, err := cfg.loadFile(gctx, name)
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				sources = append(sources, src)
			case errors.Is(err, ErrNotPreferred), errors.Is(err, ErrIgnored):
				cfg.logger.LogAttrs(gctx, slog.LevelDebug, "skipping document", slog.String("source", name), slog.String("error", err.Error()))
			default:
				multierr.AppendInto(&errs, err)
			}
			return nil
		})
	}
	if err = g.Wait(); err != nil {
		return nil, err
	}

	slices.SortFunc(sources, func(a, b apidir.Source) int {
		return strings.Compare(a.ID, b.ID)
	})
	return sources, errs
}

type versionProbe struct {
	Swagger string `yaml:"swagger"`
	OpenAPI string `yaml:"openapi"`
}

// parseDocument decodes an OpenAPI 3 document, or a Swagger 2 document converted to OpenAPI 3.
func parseDocument(ctx context.Context, data []byte, location *url.URL) (*openapi3.T, error) {
	var probe versionProbe
	if err := yaml.Unmarshal(data, &probe); err != nil {
		return nil, err
	}

	l := openapi3.NewLoader()
	l.Context = ctx

	if probe.Swagger == "" {
		if location == nil {
			return l.LoadFromData(data)
		}
		return l.LoadFromDataWithPath(data, location)
	}

	// openapi2.T only decodes JSON: YAML documents go through a generic tree first.
	var tree any
	if err := yaml.Unmarshal(data, &tree); err != nil {
		return nil, err
	}
	raw, err := json.Marshal(stringKeys(tree))
	if err != nil {
		return nil, err
	}

	var doc2 openapi2.T
	if err = doc2.UnmarshalJSON(raw); err != nil {
		return nil, err
	}
	return openapi2conv.ToV3WithLoader(&doc2, l, location)
}

// stringKeys converts the mappings with non string keys, such as unquoted response codes, into mappings
// with string keys.
func stringKeys(v any) any {
	switch t := v.(type) {
	case map[string]any:
		for k, e := range t {
			t[k] = stringKeys(e)
		}
		return t
	case map[any]any:
		m := make(map[string]any, len(t))
		for k, e := range t {
			m[fmt.Sprint(k)] = stringKeys(e)
		}
		return m
	case []any:
		for i, e := range t {
			t[i] = stringKeys(e)
		}
		return t
	default:
		return v
	}
}
