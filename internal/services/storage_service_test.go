package services

import (
	"bytes"
	"context"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/javajoker/furniture-backend/internal/config"
)

var pngHeader = []byte{0x89, 'P', 'N', 'G', 0x0D, 0x0A, 0x1A, 0x0A, 0, 0, 0, 0x0D}

// fileHeaders builds real multipart headers the way gin hands them to handlers.
func fileHeaders(t *testing.T, files map[string][]byte) []*multipart.FileHeader {
	t.Helper()
	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	for name, content := range files {
		part, err := w.CreateFormFile("images", name)
		require.NoError(t, err)
		_, err = part.Write(content)
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())

	form, err := multipart.NewReader(&body, w.Boundary()).ReadForm(32 << 20)
	require.NoError(t, err)
	t.Cleanup(func() { form.RemoveAll() })
	return form.File["images"]
}

func localStorage(t *testing.T) (*StorageService, string) {
	dir := t.TempDir()
	cfg := &config.Config{Storage: config.StorageConfig{UploadsDir: dir, UploadsURL: "/uploads"}}
	s, err := NewStorageService(cfg)
	require.NoError(t, err)
	return s, dir
}

func TestUploadImagesLocal(t *testing.T) {
	s, dir := localStorage(t)

	result, err := s.UploadImages(context.Background(), "sofas", "loft-sofa", fileHeaders(t, map[string][]byte{
		"photo.png": pngHeader,
		"notes.txt": []byte("plain text"),
	}))
	require.NoError(t, err)

	require.Len(t, result.UploadedImages, 1)
	img := result.UploadedImages[0]
	assert.True(t, strings.HasPrefix(img.URL, "/uploads/sofas/loft-sofa-"), img.URL)
	assert.True(t, strings.HasSuffix(img.Filename, ".png"))

	data, err := os.ReadFile(filepath.Join(dir, "sofas", img.Filename))
	require.NoError(t, err)
	assert.Equal(t, pngHeader, data)

	require.Len(t, result.Failed, 1)
	assert.Equal(t, "notes.txt", result.Failed[0].Filename)
}

func TestUploadImagesRejectsBadInput(t *testing.T) {
	s, _ := localStorage(t)
	ctx := context.Background()

	_, err := s.UploadImages(ctx, "sofas", "sofa", nil)
	assert.ErrorIs(t, err, ErrNoFiles)

	_, err = s.UploadImages(ctx, "../etc", "sofa", fileHeaders(t, map[string][]byte{"a.png": pngHeader}))
	assert.ErrorIs(t, err, ErrInvalidFolder)
}

func TestValidateImage(t *testing.T) {
	cases := map[string]struct {
		data []byte
		ext  string
	}{
		"jpeg": {[]byte{0xFF, 0xD8, 0xFF, 0xE0}, ".jpg"},
		"png":  {pngHeader, ".png"},
		"gif":  {[]byte("GIF89a...."), ".gif"},
		"webp": {[]byte("RIFF\x00\x00\x00\x00WEBPVP8 "), ".webp"},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			ext, err := ValidateImage(tc.data)
			require.NoError(t, err)
			assert.Equal(t, tc.ext, ext)
		})
	}

	_, err := ValidateImage([]byte("GIF"))
	assert.ErrorIs(t, err, ErrInvalidImage)
	_, err = ValidateImage([]byte("%PDF-1.7"))
	assert.ErrorIs(t, err, ErrInvalidImage)
}
