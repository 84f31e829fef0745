package storage

import (
	"context"
	"fmt"
	"io"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/admin"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	"github.com/google/uuid"
)

const cloudinaryFolder = "waste-submissions"

// CloudinaryStore keeps blobs in a Cloudinary account; the stored path is the
// asset's public ID.
type CloudinaryStore struct {
	cld *cloudinary.Cloudinary
}

func NewCloudinaryStore(cloudName, apiKey, apiSecret string) (*CloudinaryStore, error) {
	cld, err := cloudinary.NewFromParams(cloudName, apiKey, apiSecret)
	if err != nil {
		return nil, fmt.Errorf("init cloudinary: %w", err)
	}
	return &CloudinaryStore{cld: cld}, nil
}

func (s *CloudinaryStore) Save(ctx context.Context, name string, r io.Reader) (string, error) {
	publicID := cloudinaryFolder + "/" + uuid.New().String()

	result, err := s.cld.Upload.Upload(ctx, r, uploader.UploadParams{
		PublicID: publicID,
	})
	if err != nil {
		return "", fmt.Errorf("upload blob: %w", err)
	}
	return result.PublicID, nil
}

func (s *CloudinaryStore) Delete(ctx context.Context, path string) error {
	_, err := s.cld.Upload.Destroy(ctx, uploader.DestroyParams{PublicID: path})
	if err != nil {
		return fmt.Errorf("destroy blob: %w", err)
	}
	return nil
}

func (s *CloudinaryStore) Exists(ctx context.Context, path string) (bool, error) {
	asset, err := s.cld.Admin.Asset(ctx, admin.AssetParams{PublicID: path})
	if err != nil {
		return false, fmt.Errorf("lookup blob: %w", err)
	}
	return asset.PublicID != "", nil
}
