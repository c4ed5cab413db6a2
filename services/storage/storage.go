package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
)

var fetchClient = &http.Client{Timeout: 30 * time.Second}

// UploadDocument sniffs the file type, encrypts the content and uploads it
// into a per-session folder. It returns the permanent public identifier.
func (s *StorageServiceImpl) UploadDocument(ctx context.Context, localFilePath, sessionID, docType string) (string, error) {
	plaintext, err := os.ReadFile(localFilePath)
	if err != nil {
		return "", fmt.Errorf("StorageServiceImpl: failed to read file: %w", err)
	}
	if !isAllowedDocument(plaintext) {
		return "", ErrUnsupportedFileType
	}

	encryptedPath, err := encryptToTempFile(plaintext, s.adminKey)
	if err != nil {
		return "", fmt.Errorf("StorageServiceImpl: failed to encrypt document: %w", err)
	}
	defer os.Remove(encryptedPath)

	uploadParams := uploader.UploadParams{
		Folder:       "kyc/" + sessionID,
		PublicID:     docType,
		ResourceType: "raw",
	}
	result, err := s.cld.Upload.Upload(ctx, encryptedPath, uploadParams)
	if err != nil {
		return "", fmt.Errorf("StorageServiceImpl: failed to upload document: %w", err)
	}
	if result.PublicID == "" {
		return "", fmt.Errorf("StorageServiceImpl: no public ID returned")
	}
	return result.PublicID, nil
}

// FetchDocument downloads a staged document and decrypts it for forwarding.
func (s *StorageServiceImpl) FetchDocument(ctx context.Context, publicID string) (io.ReadCloser, error) {
	asset, err := s.cld.Media(publicID)
	if err != nil {
		return nil, fmt.Errorf("StorageServiceImpl: failed to resolve asset: %w", err)
	}
	url, err := asset.String()
	if err != nil {
		return nil, fmt.Errorf("StorageServiceImpl: failed to build asset URL: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("StorageServiceImpl: failed to build fetch request: %w", err)
	}
	resp, err := fetchClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("StorageServiceImpl: failed to fetch document: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("StorageServiceImpl: fetch returned status %d", resp.StatusCode)
	}

	ciphertext, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("StorageServiceImpl: failed to read document: %w", err)
	}
	plaintext, err := decryptBytes(ciphertext, s.adminKey)
	if err != nil {
		return nil, fmt.Errorf("StorageServiceImpl: failed to decrypt document: %w", err)
	}
	return io.NopCloser(bytes.NewReader(plaintext)), nil
}

// DeleteDocument removes a staged document.
func (s *StorageServiceImpl) DeleteDocument(ctx context.Context, publicID string) error {
	_, err := s.cld.Upload.Destroy(ctx, uploader.DestroyParams{PublicID: publicID, ResourceType: "raw"})
	if err != nil {
		return fmt.Errorf("StorageServiceImpl: failed to delete document: %w", err)
	}
	return nil
}

// isAllowedDocument checks the magic bytes of the upload. Uploads are
// restricted to the formats the partner backend accepts.
func isAllowedDocument(data []byte) bool {
	switch {
	case len(data) >= 4 && bytes.Equal(data[:4], []byte("%PDF")):
		return true
	case len(data) >= 3 && bytes.Equal(data[:3], []byte{0xFF, 0xD8, 0xFF}):
		return true // JPEG
	case len(data) >= 8 && bytes.Equal(data[:8], []byte{0x89, 'P', 'N', 'G', 0x0D, 0x0A, 0x1A, 0x0A}):
		return true
	default:
		return false
	}
}
