package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
)

// Archiver stores a snapshot of the visitor log before it is purged.
type Archiver interface {
	Archive(ctx context.Context, name string, data []byte) (string, error)
}

// CloudinaryArchiver uploads snapshots as raw files.
type CloudinaryArchiver struct {
	cld    *cloudinary.Cloudinary
	folder string
}

func NewCloudinaryArchiver(cloudName, apiKey, apiSecret, folder string) (*CloudinaryArchiver, error) {
	cld, err := cloudinary.NewFromParams(cloudName, apiKey, apiSecret)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Cloudinary: %w", err)
	}
	return &CloudinaryArchiver{cld: cld, folder: folder}, nil
}

// Archive uploads data and returns its secure URL.
func (a *CloudinaryArchiver) Archive(ctx context.Context, name string, data []byte) (string, error) {
	result, err := a.cld.Upload.Upload(ctx, bytes.NewReader(data), uploader.UploadParams{
		Folder:       a.folder,
		PublicID:     name,
		ResourceType: "raw",
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload archive: %w", err)
	}
	if result.Error.Message != "" {
		return "", errors.New("failed to upload archive: " + result.Error.Message)
	}
	return result.SecureURL, nil
}
