package storage

import (
	"bytes"
	"context"
	"fmt"
	"log"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	"github.com/klokal/databuilder/config"
)

// Uploader resolves an in-memory image binary to a hosted URL. Commit fans
// uploads out through this seam so tests can swap in a fake.
type Uploader interface {
	UploadImage(ctx context.Context, name string, data []byte) (string, error)
}

type Cloudinary struct {
	CLD    *cloudinary.Cloudinary
	Folder string
}

func NewCloudinary(cfg *config.Config) *Cloudinary {
	cld, err := cloudinary.NewFromParams(cfg.CloudinaryCloudName, cfg.CloudinaryAPIKey, cfg.CloudinaryAPISecret)
	if err != nil {
		log.Fatalf("Failed to initialize Cloudinary: %v", err)
	}

	return &Cloudinary{CLD: cld, Folder: cfg.UploadFolder}
}

// UploadImage sends raw bytes and returns the hosted secure URL.
func (c *Cloudinary) UploadImage(ctx context.Context, name string, data []byte) (string, error) {
	resp, err := c.CLD.Upload.Upload(ctx, bytes.NewReader(data), uploader.UploadParams{
		Folder:   c.Folder,
		PublicID: name,
	})
	if err != nil {
		return "", err
	}
	if resp.SecureURL == "" {
		return "", fmt.Errorf("upload of %s returned no URL", name)
	}
	return resp.SecureURL, nil
}
