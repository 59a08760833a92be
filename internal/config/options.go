package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"prominent/internal/palette"
)

// LoadOptions overlays the JSON file at path on the default extraction
// options. A missing file yields the defaults.
func LoadOptions(path string) (palette.ExtractOptions, error) {
	options := palette.DefaultExtractOptions()
	if path == "" {
		return options, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return options, nil
		}
		return palette.ExtractOptions{}, fmt.Errorf("read options: %w", err)
	}

	if err := json.Unmarshal(data, &options); err != nil {
		return palette.ExtractOptions{}, fmt.Errorf("parse options %s: %w", path, err)
	}
	if _, err := palette.ParseMethod(options.Method.String()); err != nil {
		return palette.ExtractOptions{}, fmt.Errorf("parse options %s: %w", path, err)
	}

	return palette.NormalizeExtractOptions(options), nil
}

func SaveOptions(path string, options palette.ExtractOptions) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create options dir: %w", err)
	}

	data, err := json.MarshalIndent(palette.NormalizeExtractOptions(options), "", "  ")
	if err != nil {
		return fmt.Errorf("encode options: %w", err)
	}

	tempPath := path + ".tmp"
	if err := os.WriteFile(tempPath, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("write options: %w", err)
	}
	if err := os.Rename(tempPath, path); err != nil {
		_ = os.Remove(tempPath)
		return fmt.Errorf("replace options: %w", err)
	}

	return nil
}
