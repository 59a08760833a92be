package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"sync"
	"time"

	"prominent/internal/palette"
)

const maxThemeCacheEntries = 96

type themeCacheEntry struct {
	palette           palette.ThemePalette
	sourceModUnixNano int64
	cachedAt          time.Time
}

type ThemeService struct {
	covers    *CoverService
	extractor *palette.Extractor
	logger    *slog.Logger
	cacheMu   sync.RWMutex
	cache     map[string]themeCacheEntry
}

func NewThemeService(covers *CoverService, logger *slog.Logger) *ThemeService {
	return &ThemeService{
		covers:    covers,
		extractor: palette.NewExtractor(),
		logger:    logger,
		cache:     make(map[string]themeCacheEntry),
	}
}

func (s *ThemeService) DefaultOptions() palette.ExtractOptions {
	return palette.DefaultExtractOptions()
}

// GenerateFromCover extracts the theme of the cover behind coverPath,
// reusing the cached result while the source file is unchanged.
func (s *ThemeService) GenerateFromCover(coverPath string, options palette.ExtractOptions) (palette.ThemePalette, error) {
	trimmedPath := strings.TrimSpace(coverPath)
	if trimmedPath == "" {
		return palette.ThemePalette{}, errors.New("cover path is required")
	}

	resolvedPath, err := s.covers.resolveCoverPath(trimmedPath)
	if err != nil {
		return palette.ThemePalette{}, fmt.Errorf("cover not found: %w", err)
	}

	normalizedOptions := palette.NormalizeExtractOptions(options)
	sourceInfo, err := os.Stat(resolvedPath)
	if err != nil {
		return palette.ThemePalette{}, fmt.Errorf("cover not found: %w", err)
	}
	sourceModUnixNano := sourceInfo.ModTime().UnixNano()

	cacheKey := buildThemeCacheKey(resolvedPath, normalizedOptions)
	if cachedPalette, ok := s.loadCachedPalette(cacheKey, sourceModUnixNano); ok {
		s.logger.Debug("theme cache hit", "path", resolvedPath)
		return cachedPalette, nil
	}

	img, kind, err := s.covers.LoadImage(resolvedPath)
	if err != nil {
		return palette.ThemePalette{}, err
	}

	started := time.Now()
	themePalette, err := s.extractor.ExtractFromImage(img, normalizedOptions)
	if err != nil {
		return palette.ThemePalette{}, fmt.Errorf("generate cover theme: %w", err)
	}
	s.logger.Debug("theme extracted",
		"path", resolvedPath,
		"source", kind,
		"method", normalizedOptions.Method,
		"swatches", len(themePalette.Swatches),
		"samples", themePalette.SampleCount,
		"elapsed", time.Since(started),
	)

	s.storeCachedPalette(cacheKey, sourceModUnixNano, themePalette)

	return themePalette, nil
}

func buildThemeCacheKey(path string, options palette.ExtractOptions) string {
	return fmt.Sprintf(
		"%s|md:%d|q:%d|cc:%d|at:%d|iw:%t|bw:%t|m:%s",
		path,
		options.MaxDimension,
		options.Quality,
		options.ColorCount,
		options.AlphaThreshold,
		options.IgnoreNearWhite,
		options.SnapBlackWhite,
		options.Method,
	)
}

func (s *ThemeService) loadCachedPalette(cacheKey string, sourceModUnixNano int64) (palette.ThemePalette, bool) {
	s.cacheMu.RLock()
	entry, ok := s.cache[cacheKey]
	s.cacheMu.RUnlock()
	if !ok || entry.sourceModUnixNano != sourceModUnixNano {
		return palette.ThemePalette{}, false
	}

	return entry.palette, true
}

func (s *ThemeService) storeCachedPalette(cacheKey string, sourceModUnixNano int64, themePalette palette.ThemePalette) {
	s.cacheMu.Lock()
	defer s.cacheMu.Unlock()

	s.cache[cacheKey] = themeCacheEntry{
		palette:           themePalette,
		sourceModUnixNano: sourceModUnixNano,
		cachedAt:          time.Now(),
	}

	if len(s.cache) <= maxThemeCacheEntries {
		return
	}

	oldestKey := ""
	oldestAt := time.Now()
	for key, entry := range s.cache {
		if oldestKey == "" || entry.cachedAt.Before(oldestAt) {
			oldestKey = key
			oldestAt = entry.cachedAt
		}
	}

	if oldestKey != "" {
		delete(s.cache, oldestKey)
	}
}

func (s *ThemeService) cacheSize() int {
	s.cacheMu.RLock()
	defer s.cacheMu.RUnlock()
	return len(s.cache)
}
