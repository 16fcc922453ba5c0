// Copyright 2022 Sylvain Müller. All rights reserved.
// Mount of this source code is governed by a Apache-2.0 license that can be found
// at https://github.com/tigerwill90/apidir/blob/master/LICENSE.txt.

package apidir

import (
	"context"
	"errors"
	"log/slog"
	"slices"
	"time"

	"github.com/tigerwill90/apidir/internal/iterutil"
)

// maxLoggedKeys bounds the number of keys printed for a shared base.
const maxLoggedKeys = 5

func logSharedBase(ctx context.Context, log *slog.Logger, base string, sources int, entries []Entry) {
	if !log.Enabled(ctx, slog.LevelDebug) {
		return
	}
	keys := iterutil.Map(slices.Values(entries), func(e Entry) string {
		return e.Key.String() + " -> " + e.Value.String()
	})
	log.LogAttrs(
		ctx,
		slog.LevelDebug,
		"shared base disambiguated",
		slog.String("base", base),
		slog.Int("sources", sources),
		slog.Int("entries", len(entries)),
		slog.Any("keys", slices.Collect(iterutil.Take(keys, maxLoggedKeys))),
	)
}

func logSkippedSource(ctx context.Context, log *slog.Logger, id string) {
	log.LogAttrs(ctx, slog.LevelDebug, "source skipped", slog.String("source", id), slog.String("reason", "no base url"))
}

func logBuildError(ctx context.Context, log *slog.Logger, err error) {
	var dup *DuplicateKeyError
	if errors.As(err, &dup) {
		log.LogAttrs(
			ctx,
			slog.LevelError,
			"duplicate key",
			slog.String("key", dup.Key),
			slog.String("existing", dup.Existing.String()),
			slog.String("new", dup.New.String()),
		)
		return
	}
	log.LogAttrs(ctx, slog.LevelError, "index build failed", slog.String("error", err.Error()))
}

func roundLatency(d time.Duration) time.Duration {
	switch {
	case d < 1*time.Microsecond:
		return d.Round(100 * time.Nanosecond)
	case d < 1*time.Millisecond:
		return d.Round(10 * time.Microsecond)
	case d < 10*time.Millisecond:
		return d.Round(100 * time.Microsecond)
	case d < 100*time.Millisecond:
		return d.Round(1 * time.Millisecond)
	case d < 1*time.Second:
		return d.Round(10 * time.Millisecond)
	case d < 10*time.Second:
		return d.Round(100 * time.Millisecond)
	default:
		return d.Round(1 * time.Second)
	}
}
