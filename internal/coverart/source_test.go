package coverart

import (
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func writePNG(t *testing.T, path string, fill color.NRGBA) {
	t.Helper()

	img := image.NewNRGBA(image.Rect(0, 0, 8, 4))
	for y := 0; y < 4; y++ {
		for x := 0; x < 8; x++ {
			img.SetNRGBA(x, y, fill)
		}
	}

	file, err := os.Create(path)
	require.NoError(t, err)
	require.NoError(t, png.Encode(file, img))
	require.NoError(t, file.Close())
}

func TestSourceKind(t *testing.T) {
	t.Parallel()

	tests := map[string]string{
		"album/cover.PNG":  SourceKindFile,
		"album/cover.jpeg": SourceKindFile,
		"album/cover.webp": SourceKindFile,
		"album/cover.avif": SourceKindAVIF,
		"album/01.flac":    SourceKindEmbedded,
		"album/02.Mp3":     SourceKindEmbedded,
		"album/notes.txt":  "",
		"album/README":     "",
	}

	for path, want := range tests {
		require.Equal(t, want, SourceKind(path), path)
		require.Equal(t, want != "", IsSupported(path), path)
	}
}

func TestLoadDecodesImageFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "cover.png")
	writePNG(t, path, color.NRGBA{R: 200, G: 40, B: 10, A: 255})

	img, kind, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, SourceKindFile, kind)
	require.Equal(t, image.Rect(0, 0, 8, 4), img.Bounds())

	r, g, b, _ := img.At(3, 2).RGBA()
	require.Equal(t, []uint32{200, 40, 10}, []uint32{r >> 8, g >> 8, b >> 8})
}

func TestLoadRejectsUnsupportedExtension(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "notes.txt")
	require.NoError(t, os.WriteFile(path, []byte("not an image"), 0o644))

	_, _, err := Load(path)
	require.True(t, errors.Is(err, ErrUnsupported), "got %v", err)
}

func TestLoadReportsCorruptImage(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "broken.png")
	require.NoError(t, os.WriteFile(path, []byte("definitely not png"), 0o644))

	_, _, err := Load(path)
	require.ErrorContains(t, err, "decode image")
}

func TestLoadMissingFile(t *testing.T) {
	t.Parallel()

	_, _, err := Load(filepath.Join(t.TempDir(), "missing.png"))
	require.True(t, errors.Is(err, os.ErrNotExist), "got %v", err)
}
