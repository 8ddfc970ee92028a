package seed

import (
	"context"
	"fmt"
	"os"
	"sync"

	"github.com/rs/zerolog"
)

// Loader reads a catalogue file from some location.
type Loader interface {
	Load(ctx context.Context, path string) (*Catalog, error)
}

type fileLoader struct {
	logger zerolog.Logger
}

// NewFileLoader creates a loader for catalogue files on local disk.
func NewFileLoader(logger zerolog.Logger) Loader {
	return &fileLoader{
		logger: logger.With().Str("component", "catalog-loader").Logger(),
	}
}

func (l *fileLoader) Load(ctx context.Context, path string) (*Catalog, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	file, err := os.Open(path)
	if err != nil {
		l.logger.Error().Err(err).Str("file", path).Msg("failed to open catalog file")
		return nil, fmt.Errorf("failed to open catalog file %s: %w", path, err)
	}
	defer file.Close()

	c, err := Parse(file)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog file %s: %w", path, err)
	}

	l.logger.Info().
		Str("file", path).
		Int("categories", len(c.Categories)).
		Int("products", len(c.Products)).
		Msg("catalog file loaded")
	return c, nil
}

type fallbackLoader struct {
	primary  Loader
	fallback Loader
	prefix   string
	logger   zerolog.Logger
}

// NewFallbackLoader tries primary with prefix prepended to the path, then
// fallback with the path as given. A nil primary means fallback only.
func NewFallbackLoader(primary, fallback Loader, prefix string, logger zerolog.Logger) Loader {
	return &fallbackLoader{
		primary:  primary,
		fallback: fallback,
		prefix:   prefix,
		logger:   logger.With().Str("component", "fallback-loader").Logger(),
	}
}

func (l *fallbackLoader) Load(ctx context.Context, path string) (*Catalog, error) {
	if l.primary != nil {
		key := l.prefix + path
		c, err := l.primary.Load(ctx, key)
		if err == nil {
			return c, nil
		}
		l.logger.Warn().Err(err).Str("key", key).Msg("primary load failed, falling back to local file")
	}
	return l.fallback.Load(ctx, path)
}

// LoadAll loads every path concurrently and merges the results in path order.
func LoadAll(ctx context.Context, loader Loader, paths []string) (*Catalog, error) {
	type result struct {
		catalog *Catalog
		err     error
	}

	results := make([]result, len(paths))
	var wg sync.WaitGroup
	for i, path := range paths {
		wg.Add(1)
		go func() {
			defer wg.Done()
			c, err := loader.Load(ctx, path)
			results[i] = result{catalog: c, err: err}
		}()
	}
	wg.Wait()

	catalogs := make([]*Catalog, 0, len(paths))
	for i, r := range results {
		if r.err != nil {
			return nil, fmt.Errorf("failed to load %s: %w", paths[i], r.err)
		}
		catalogs = append(catalogs, r.catalog)
	}
	return Merge(catalogs...), nil
}
