package service

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/newsportal/internal/news"
	_ "golang.org/x/image/webp"
)

const maxUploadBytes = 10 << 20

var imageExtensions = map[string]string{
	"png":  ".png",
	"jpeg": ".jpg",
	"gif":  ".gif",
	"webp": ".webp",
}

// UploadService stores uploaded images on disk and hands back their public URL.
type UploadService struct {
	dir     string
	urlPath string
	now     func() time.Time
}

// NewUploadService writes files under dir and serves them below urlPath.
func NewUploadService(dir, urlPath string) *UploadService {
	return &UploadService{
		dir:     dir,
		urlPath: "/" + strings.Trim(urlPath, "/"),
		now:     time.Now,
	}
}

// Save verifies r holds a png, jpeg, gif or webp image and stores it as
// YYYYMMDD-uuid.ext. The extension follows the decoded format, not filename.
func (s *UploadService) Save(filename string, r io.Reader) (string, error) {
	data, err := io.ReadAll(io.LimitReader(r, maxUploadBytes+1))
	if err != nil {
		return "", err
	}
	if len(data) == 0 {
		return "", &news.ValidationError{Field: "image", Message: "empty upload"}
	}
	if len(data) > maxUploadBytes {
		return "", &news.ValidationError{Field: "image", Message: "image exceeds 10MB"}
	}

	_, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return "", &news.ValidationError{Field: "image", Message: fmt.Sprintf("%s is not a supported image", filepath.Base(filename))}
	}
	ext, ok := imageExtensions[format]
	if !ok {
		return "", &news.ValidationError{Field: "image", Message: "unsupported image format " + format}
	}

	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return "", fmt.Errorf("create upload dir: %w", err)
	}

	name := fmt.Sprintf("%s-%s%s", s.now().Format("20060102"), uuid.NewString(), ext)
	if err := os.WriteFile(filepath.Join(s.dir, name), data, 0o644); err != nil {
		return "", fmt.Errorf("save upload: %w", err)
	}
	return path.Join(s.urlPath, name), nil
}
