// Package imagehost uploads user images to a hosting service and returns their public URL.
package imagehost

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"

	"TRAVELPACK_BACK-END/internal/config"
)

// ErrNotConfigured is returned when no hosting credentials are set
var ErrNotConfigured = errors.New("image host not configured")

// Uploader stores an image and returns a URL it can be fetched from
type Uploader interface {
	Upload(ctx context.Context, r io.Reader, filename string) (string, error)
}

// New returns a Cloudinary uploader, or Disabled when credentials are missing
func New(cfg config.ImageHostConfig) (Uploader, error) {
	if cfg.CloudName == "" || cfg.APIKey == "" || cfg.APISecret == "" {
		return Disabled{}, nil
	}
	cld, err := cloudinary.NewFromParams(cfg.CloudName, cfg.APIKey, cfg.APISecret)
	if err != nil {
		return nil, fmt.Errorf("failed to create cloudinary client: %w", err)
	}
	return &Cloudinary{cld: cld, folder: cfg.Folder}, nil
}

// Cloudinary uploads to a Cloudinary folder
type Cloudinary struct {
	cld    *cloudinary.Cloudinary
	folder string
}

func (c *Cloudinary) Upload(ctx context.Context, r io.Reader, filename string) (string, error) {
	params := uploader.UploadParams{
		Folder:       c.folder,
		PublicID:     PublicID(filename),
		ResourceType: "image",
	}
	res, err := c.cld.Upload.Upload(ctx, r, params)
	if err != nil {
		return "", fmt.Errorf("cloudinary upload failed: %w", err)
	}
	if res.Error.Message != "" {
		return "", fmt.Errorf("cloudinary upload failed: %s", res.Error.Message)
	}
	return res.SecureURL, nil
}

// Disabled rejects every upload
type Disabled struct{}

func (Disabled) Upload(context.Context, io.Reader, string) (string, error) {
	return "", ErrNotConfigured
}

// PublicID derives a storage id from an uploaded file name: the base name
// without extension, lowercased, with anything outside [a-z0-9_-] replaced.
func PublicID(filename string) string {
	base := path.Base(strings.ReplaceAll(filename, "\\", "/"))
	base = strings.TrimSuffix(base, path.Ext(base))
	var b strings.Builder
	for _, r := range strings.ToLower(base) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '-', r == '_':
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}
	if b.Len() == 0 || base == "." || base == "/" {
		return ""
	}
	return b.String()
}
