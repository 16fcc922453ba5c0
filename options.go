// Copyright 2022 Sylvain Müller. All rights reserved.
// Mount of this source code is governed by a Apache-2.0 license that can be found
// at https://github.com/tigerwill90/apidir/blob/master/LICENSE.txt.

package apidir

import (
	"fmt"
	"log/slog"
	"runtime"

	"github.com/tigerwill90/apidir/internal/slogpretty"
)

// Option configures how an [Index] is built or loaded.
type Option interface {
	apply(sealedOption) error
}

type sealedOption struct {
	cfg *config
}

type optionFunc func(sealedOption) error

func (o optionFunc) apply(s sealedOption) error {
	return o(s)
}

type config struct {
	logger         *slog.Logger
	maxConcurrency int
}

func defaultConfig() *config {
	return &config{
		logger:         slog.New(slog.DiscardHandler),
		maxConcurrency: runtime.GOMAXPROCS(0),
	}
}

func newConfig(opts ...Option) (*config, error) {
	cfg := defaultConfig()
	for _, opt := range opts {
		if err := opt.apply(sealedOption{cfg: cfg}); err != nil {
			return nil, err
		}
	}
	return cfg, nil
}

// WithLogger sets the [slog.Handler] used to report build progress, such as the shared base URLs being
// disambiguated and the size of the resulting index. By default, nothing is logged.
func WithLogger(handler slog.Handler) Option {
	return optionFunc(func(s sealedOption) error {
		if handler == nil {
			return fmt.Errorf("%w: log handler cannot be nil", ErrInvalidConfig)
		}
		s.cfg.logger = slog.New(handler)
		return nil
	})
}

// WithPrettyLogger logs build progress to os.Stdout and os.Stderr in a human-friendly, colored format.
//
// This option prioritizes readability over performance. For production workloads, prefer [WithLogger] with
// a structured [slog.Handler].
func WithPrettyLogger() Option {
	return optionFunc(func(s sealedOption) error {
		s.cfg.logger = slog.New(slogpretty.DefaultHandler)
		return nil
	})
}

// WithMaxConcurrency sets the maximum number of base URLs disambiguated in parallel. The default is
// runtime.GOMAXPROCS(0).
func WithMaxConcurrency(n int) Option {
	return optionFunc(func(s sealedOption) error {
		if n <= 0 {
			return fmt.Errorf("%w: max concurrency must be greater than zero", ErrInvalidConfig)
		}
		s.cfg.maxConcurrency = n
		return nil
	})
}
