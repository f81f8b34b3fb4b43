// Package dataset loads labeled messages from local or S3 hosted CSV files.
package dataset

import (
	"context"
	"errors"
	"fmt"

	"github.com/mikey/nb-spam-filter/internal/core"
	"go.uber.org/zap"
)

// Options configures a Source.
type Options struct {
	// Path is a local path or an s3://bucket/key location, optionally
	// compressed (.gz, .zst, .lz4).
	Path string
	// Encoding is latin-1 or utf-8.
	Encoding string
	// FallbackBuiltin returns the built-in dataset when Path does not exist.
	FallbackBuiltin bool
}

// Source implements core.DatasetSource.
type Source struct {
	opts   Options
	local  Opener
	remote Opener
	logger *zap.Logger
}

// NewSource creates a dataset source. remote serves s3:// locations and may
// be nil when none are used.
func NewSource(opts Options, local, remote Opener, logger *zap.Logger) *Source {
	if local == nil {
		local = FileOpener{}
	}
	return &Source{
		opts:   opts,
		local:  local,
		remote: remote,
		logger: logger,
	}
}

// Load reads and parses the dataset. Only a missing dataset falls back to
// the built-in records; every other failure is returned.
func (s *Source) Load(ctx context.Context) (*core.Dataset, error) {
	ds, err := s.load(ctx)
	if err != nil {
		if errors.Is(err, ErrNotFound) && s.opts.FallbackBuiltin {
			s.logger.Warn("Dataset not found, using built-in demonstration dataset",
				zap.String("path", s.opts.Path),
				zap.Error(err))
			return Builtin(), nil
		}
		return nil, err
	}
	return ds, nil
}

func (s *Source) load(ctx context.Context) (*core.Dataset, error) {
	dec, err := Decoder(s.opts.Encoding)
	if err != nil {
		return nil, err
	}

	opener := s.local
	if IsS3Location(s.opts.Path) {
		if s.remote == nil {
			return nil, fmt.Errorf("no s3 opener configured for %s", s.opts.Path)
		}
		opener = s.remote
	}

	raw, err := opener.Open(ctx, s.opts.Path)
	if err != nil {
		return nil, err
	}
	defer raw.Close()

	body, err := Decompress(bufferedReader(raw), s.opts.Path)
	if err != nil {
		return nil, err
	}
	defer body.Close()

	parsed, err := Parse(dec.Reader(body))
	if err != nil {
		if errors.Is(err, ErrNoRecords) && parsed != nil {
			s.logger.Warn("Dataset has no usable rows",
				zap.String("path", s.opts.Path),
				zap.Int("dropped", parsed.Dropped))
		}
		return nil, fmt.Errorf("failed to parse dataset %s: %w", s.opts.Path, err)
	}

	if parsed.Dropped > 0 {
		s.logger.Warn("Dropped rows with invalid labels",
			zap.String("path", s.opts.Path),
			zap.Int("dropped", parsed.Dropped))
	}

	s.logger.Info("Loaded dataset",
		zap.String("path", s.opts.Path),
		zap.Int("records", len(parsed.Records)),
		zap.Bool("header", parsed.Header))

	return &core.Dataset{
		Records: parsed.Records,
		Dropped: parsed.Dropped,
		Source:  s.opts.Path,
	}, nil
}
