package coverart

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"
	"strings"

	"github.com/gen2brain/avif"
	"go.senan.xyz/taglib"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

const (
	SourceKindEmbedded = "embedded"
	SourceKindFile     = "file"
	SourceKindAVIF     = "avif"
)

var ErrUnsupported = errors.New("unsupported cover source")

var ErrNoEmbeddedCover = errors.New("no embedded cover art")

var audioExtensions = map[string]struct{}{
	".aac":  {},
	".aif":  {},
	".aiff": {},
	".alac": {},
	".flac": {},
	".m4a":  {},
	".mp3":  {},
	".ogg":  {},
	".opus": {},
	".wav":  {},
	".wma":  {},
}

var imageExtensions = map[string]struct{}{
	".bmp":  {},
	".gif":  {},
	".jpeg": {},
	".jpg":  {},
	".png":  {},
	".tif":  {},
	".tiff": {},
	".webp": {},
}

// SourceKind reports how a path would be decoded, or "" when it is not a
// supported cover source.
func SourceKind(path string) string {
	extension := strings.ToLower(filepath.Ext(path))
	if _, ok := audioExtensions[extension]; ok {
		return SourceKindEmbedded
	}
	if _, ok := imageExtensions[extension]; ok {
		return SourceKindFile
	}
	if extension == ".avif" {
		return SourceKindAVIF
	}
	return ""
}

func IsSupported(path string) bool {
	return SourceKind(path) != ""
}

// Load decodes the cover image behind path: embedded art for audio files,
// the file itself for images.
func Load(path string) (image.Image, string, error) {
	kind := SourceKind(path)
	switch kind {
	case SourceKindEmbedded:
		img, err := loadEmbedded(path)
		return img, kind, err
	case SourceKindAVIF:
		img, err := loadAVIF(path)
		return img, kind, err
	case SourceKindFile:
		img, err := loadFile(path)
		return img, kind, err
	default:
		return nil, "", fmt.Errorf("%w: %s", ErrUnsupported, filepath.Ext(path))
	}
}

func loadEmbedded(path string) (image.Image, error) {
	imageData, err := taglib.ReadImage(path)
	if err != nil {
		return nil, fmt.Errorf("read embedded cover: %w", err)
	}
	if len(imageData) == 0 {
		return nil, ErrNoEmbeddedCover
	}

	decoded, _, err := image.Decode(bytes.NewReader(imageData))
	if err != nil {
		return nil, fmt.Errorf("decode embedded cover: %w", err)
	}
	return decoded, nil
}

func loadAVIF(path string) (image.Image, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open image: %w", err)
	}
	defer file.Close()

	decoded, err := avif.Decode(file)
	if err != nil {
		return nil, fmt.Errorf("decode avif: %w", err)
	}
	return decoded, nil
}

func loadFile(path string) (image.Image, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open image: %w", err)
	}
	defer file.Close()

	decoded, _, err := image.Decode(file)
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}
	return decoded, nil
}
