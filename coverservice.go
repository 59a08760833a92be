package main

import (
	"errors"
	"fmt"
	"image"
	"os"
	"path/filepath"
	"strings"

	"prominent/internal/coverart"
)

// CoverService turns user supplied paths into decoded cover images. Relative
// paths resolve against baseDir.
type CoverService struct {
	baseDir string
}

func NewCoverService(baseDir string) *CoverService {
	return &CoverService{baseDir: strings.TrimSpace(baseDir)}
}

func (s *CoverService) IsSupported(path string) bool {
	return coverart.IsSupported(path)
}

func (s *CoverService) LoadImage(path string) (image.Image, string, error) {
	img, kind, err := coverart.Load(path)
	if err != nil {
		return nil, "", fmt.Errorf("load cover %s: %w", filepath.Base(path), err)
	}
	return img, kind, nil
}

func (s *CoverService) resolveCoverPath(requestedPath string) (string, error) {
	cleanRequested := filepath.Clean(requestedPath)
	if !filepath.IsAbs(cleanRequested) && s.baseDir != "" {
		cleanRequested = filepath.Join(s.baseDir, cleanRequested)
	}

	resolvedPath, err := filepath.Abs(cleanRequested)
	if err != nil {
		return "", err
	}

	info, err := os.Stat(resolvedPath)
	if err != nil {
		return "", err
	}

	if info.IsDir() {
		return "", errors.New("requested path is a directory")
	}

	return resolvedPath, nil
}
