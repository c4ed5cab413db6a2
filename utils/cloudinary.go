package utils

import (
	"fmt"

	"telvia/config"

	"github.com/cloudinary/cloudinary-go/v2"
)

// Cloudinary builds the cloudinary handle used by the document staging store.
func Cloudinary() (*cloudinary.Cloudinary, error) {
	url := config.AppConfig.CloudinaryURL
	if url == "" {
		return nil, fmt.Errorf("CLOUDINARY_URL is not configured")
	}
	cld, err := cloudinary.NewFromURL(url)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize cloudinary: %w", err)
	}
	return cld, nil
}
