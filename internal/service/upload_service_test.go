package service

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/newsportal/internal/news"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pngBytes(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 2, 2))
	img.Set(0, 0, color.RGBA{R: 255, A: 255})
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestUploadServiceSavesImage(t *testing.T) {
	dir := t.TempDir()
	svc := NewUploadService(dir, "/static/uploads/")
	svc.now = func() time.Time { return time.Date(2024, 3, 9, 0, 0, 0, 0, time.UTC) }

	url, err := svc.Save("photo.jpeg", bytes.NewReader(pngBytes(t)))
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(url, "/static/uploads/20240309-"), url)
	assert.True(t, strings.HasSuffix(url, ".png"), url)

	_, err = os.Stat(filepath.Join(dir, filepath.Base(url)))
	assert.NoError(t, err)
}

func TestUploadServiceRejectsNonImages(t *testing.T) {
	svc := NewUploadService(t.TempDir(), "/static/uploads")

	_, err := svc.Save("notes.png", strings.NewReader("plain text"))
	assert.True(t, news.IsValidation(err))

	_, err = svc.Save("empty.png", strings.NewReader(""))
	assert.True(t, news.IsValidation(err))
}

func TestContentPolicy(t *testing.T) {
	policy := NewContentPolicy()

	out, err := policy.Render("", `<p onclick="x()">hi</p><iframe src="https://evil.example.com/embed"></iframe>`)
	require.NoError(t, err)
	assert.NotContains(t, out, "onclick")
	assert.NotContains(t, out, "evil.example.com")

	out, err = policy.Render("html", `<iframe src="https://www.youtube.com/embed/abc"></iframe>`)
	require.NoError(t, err)
	assert.Contains(t, out, "youtube.com/embed/abc")

	out, err = policy.Render("Markdown", "- one\n- two")
	require.NoError(t, err)
	assert.Contains(t, out, "<li>one</li>")

	_, err = policy.Render("docx", "x")
	assert.True(t, news.IsValidation(err))
}
