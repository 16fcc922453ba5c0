// Copyright 2022 Sylvain Müller. All rights reserved.
// Mount of this source code is governed by a Apache-2.0 license that can be found
// at https://github.com/tigerwill90/apidir/blob/master/LICENSE.txt.

package apidir

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"iter"
	"log/slog"
	"os"
	"slices"
	"time"

	"github.com/goccy/go-json"
	"github.com/tigerwill90/apidir/internal/iterutil"
	"golang.org/x/sync/errgroup"
)

// documentVersion is the version of the serialized index format.
const documentVersion = 1

// Index maps request URLs to the API specifications which describe them. An Index is immutable once built
// or loaded, and safe for concurrent use.
type Index struct {
	trie *Trie
}

type document struct {
	Version int   `json:"version"`
	Entries int   `json:"entries"`
	Root    *Trie `json:"root"`
}

// Build computes the index of the provided sources. Sources served from a base URL of their own are keyed by
// that base alone, trailing slash included when the base has a path. Sources sharing a base URL are told apart by the shortest path prefixes which select each
// of them, or tied when their paths genuinely overlap. Bases are processed concurrently.
//
// Build returns an error wrapping [ErrInvalidSource] or [ErrDuplicateSource] if a source is invalid,
// [ErrInvalidPathTemplate] if a path cannot be tokenized, and a [DuplicateKeyError] if two entries end up
// with the same key.
func Build(ctx context.Context, sources []Source, opts ...Option) (*Index, error) {
	cfg, err := newConfig(opts...)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	if err = validateSources(sources); err != nil {
		return nil, err
	}

	for _, src := range sources {
		if !slices.ContainsFunc(src.BaseURLs, func(base string) bool { return normalizeBase(base) != "" }) {
			logSkippedSource(ctx, cfg.logger, src.ID)
		}
	}

	grouped := groupByBase(sources)
	bases := make([]string, 0, len(grouped))
	for base := range grouped {
		bases = append(bases, base)
	}
	slices.Sort(bases)

	results := make([][]Entry, len(bases))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(cfg.maxConcurrency)
	for i, base := range bases {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}

			group := grouped[base]
			if len(group.paths) == 1 {
				for id := range group.paths {
					results[i] = []Entry{{Key: TokenSeq{Literal(group.declared)}, Value: Single(id)}}
				}
				return nil
			}

			entries, err := Disambiguate(base, group.paths)
			if err != nil {
				return fmt.Errorf("base %s: %w", base, err)
			}
			logSharedBase(gctx, cfg.logger, base, len(group.paths), entries)
			results[i] = entries
			return nil
		})
	}
	if err = g.Wait(); err != nil {
		logBuildError(ctx, cfg.logger, err)
		return nil, err
	}

	entries := mergeEntries(ctx, cfg.logger, results)
	trie, err := NewTrie(entries...)
	if err != nil {
		logBuildError(ctx, cfg.logger, err)
		return nil, err
	}

	cfg.logger.LogAttrs(
		ctx,
		slog.LevelInfo,
		"index built",
		slog.Int("sources", len(sources)),
		slog.Int("bases", len(bases)),
		slog.Int("entries", trie.Len()),
		slog.Duration("latency", roundLatency(time.Since(start))),
	)

	return &Index{trie: trie}, nil
}

// mergeEntries joins the entries computed for each base and sorts them by key. A key produced by two bases,
// e.g. a path of "example.com" and the bare base "example.com/a", points to a tie of both values.
func mergeEntries(ctx context.Context, log *slog.Logger, results [][]Entry) []Entry {
	idx := newPrefixIndex()
	for _, entries := range results {
		for _, e := range entries {
			if existing, ok := idx.values[e.Key.String()]; ok {
				log.LogAttrs(
					ctx,
					slog.LevelWarn,
					"key shared across bases",
					slog.String("key", e.Key.String()),
					slog.String("existing", existing.value.String()),
					slog.String("new", e.Value.String()),
				)
			}
			idx.add(e.Key, e.Value)
		}
	}
	return idx.entries()
}

// FindAPI returns the value of the longest key which prefixes url. The url is lower-cased and stripped of
// its scheme before matching, e.g. "https://API.github.com/repos/x" is matched as "api.github.com/repos/x".
func (idx *Index) FindAPI(url string) (Value, bool) {
	return idx.trie.LongestMatchingPrefix(NormalizeURL(url))
}

// Lookup returns the value registered under exactly url, normalized as in [Index.FindAPI].
func (idx *Index) Lookup(url string) (Value, bool) {
	return idx.trie.Get(NormalizeURL(url))
}

// Len returns the number of keys of the index.
func (idx *Index) Len() int {
	return idx.trie.Len()
}

// All returns a range iterator over every key of the index and its value, with wildcards written as
// [WildcardKey].
func (idx *Index) All() iter.Seq2[string, Value] {
	return idx.trie.All()
}

// Keys returns a range iterator over every key of the index.
func (idx *Index) Keys() iter.Seq[string] {
	return iterutil.Left(idx.trie.All())
}

// Trie returns the trie backing the index.
func (idx *Index) Trie() *Trie {
	return idx.trie
}

// MarshalJSON encodes the index document.
func (idx *Index) MarshalJSON() ([]byte, error) {
	return json.Marshal(document{
		Version: documentVersion,
		Entries: idx.trie.Len(),
		Root:    idx.trie,
	})
}

// UnmarshalJSON decodes and validates an index document.
func (idx *Index) UnmarshalJSON(data []byte) error {
	var doc document
	if err := json.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidIndex, err)
	}
	if doc.Version != documentVersion {
		return fmt.Errorf("%w: unsupported version %d", ErrInvalidIndex, doc.Version)
	}
	if doc.Root == nil {
		return fmt.Errorf("%w: missing root", ErrInvalidIndex)
	}
	if doc.Entries != doc.Root.Len() {
		return fmt.Errorf("%w: document declares %d entries, found %d", ErrInvalidIndex, doc.Entries, doc.Root.Len())
	}
	idx.trie = doc.Root
	return nil
}

// WriteTo writes the index document to w.
func (idx *Index) WriteTo(w io.Writer) (int64, error) {
	data, err := idx.MarshalJSON()
	if err != nil {
		return 0, err
	}
	n, err := w.Write(data)
	return int64(n), err
}

// WriteFile writes the index document to the named file, creating it if necessary.
func (idx *Index) WriteFile(name string) error {
	var buf bytes.Buffer
	if _, err := idx.WriteTo(&buf); err != nil {
		return err
	}
	return os.WriteFile(name, buf.Bytes(), 0o644)
}

// Load reads an index document from r. It returns an error wrapping [ErrInvalidIndex] if the document is
// malformed. Only [WithLogger] and [WithPrettyLogger] apply.
func Load(r io.Reader, opts ...Option) (*Index, error) {
	cfg, err := newConfig(opts...)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	idx := new(Index)
	if err = idx.UnmarshalJSON(data); err != nil {
		logBuildError(context.Background(), cfg.logger, err)
		return nil, err
	}

	cfg.logger.LogAttrs(
		context.Background(),
		slog.LevelInfo,
		"index loaded",
		slog.Int("entries", idx.Len()),
		slog.Duration("latency", roundLatency(time.Since(start))),
	)
	return idx, nil
}

// LoadFile reads an index document from the named file.
func LoadFile(name string, opts ...Option) (*Index, error) {
	f, err := os.Open(name)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Load(f, opts...)
}
