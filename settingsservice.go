package main

import (
	"prominent/internal/config"
	"prominent/internal/palette"
)

// SettingsService persists the extraction defaults in the options file.
type SettingsService struct {
	paths config.Paths
}

func NewSettingsService(paths config.Paths) *SettingsService {
	return &SettingsService{paths: paths}
}

func (s *SettingsService) ConfigPath() string {
	return s.paths.ConfigPath
}

func (s *SettingsService) Load() (palette.ExtractOptions, error) {
	return config.LoadOptions(s.paths.ConfigPath)
}

func (s *SettingsService) Save(options palette.ExtractOptions) error {
	return config.SaveOptions(s.paths.ConfigPath, options)
}
