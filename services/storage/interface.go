package storage

import (
	"context"
	"errors"
	"io"

	"github.com/cloudinary/cloudinary-go/v2"
)

// ErrUnsupportedFileType rejects uploads that are not PDF, JPEG or PNG.
var ErrUnsupportedFileType = errors.New("unsupported file type; only pdf, jpeg and png are accepted")

// StorageService stages wizard document uploads between the collection step
// and the final multipart attach. Files are encrypted before leaving the
// process and decrypted again when fetched back for forwarding.
type StorageService interface {
	UploadDocument(ctx context.Context, localFilePath, sessionID, docType string) (string, error)
	FetchDocument(ctx context.Context, publicID string) (io.ReadCloser, error)
	DeleteDocument(ctx context.Context, publicID string) error
}

// StorageServiceImpl implements StorageService on Cloudinary.
type StorageServiceImpl struct {
	cld       *cloudinary.Cloudinary
	cloudName string
	adminKey  string
}

// NewStorageService creates a new StorageServiceImpl instance.
func NewStorageService(cld *cloudinary.Cloudinary, cloudName, adminKey string) StorageService {
	return &StorageServiceImpl{
		cld:       cld,
		cloudName: cloudName,
		adminKey:  adminKey,
	}
}
