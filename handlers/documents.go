package handlers

import (
	"errors"
	"net/http"
	"os"
	"path/filepath"

	"telvia/models"
	"telvia/services/registration"
	"telvia/services/storage"

	"github.com/gin-gonic/gin"
)

// DocumentHandler stages wizard document uploads.
type DocumentHandler struct {
	StorageSvc storage.StorageService
	Reg        registration.RegistrationService
}

// NewDocumentHandler creates a new DocumentHandler instance.
func NewDocumentHandler(svc storage.StorageService, reg registration.RegistrationService) *DocumentHandler {
	return &DocumentHandler{StorageSvc: svc, Reg: reg}
}

// UploadHandler stages one file for a wizard session and records the
// reference on it. The file is encrypted before it leaves the process.
func (h *DocumentHandler) UploadHandler(c *gin.Context) {
	sessionID := c.Param("sessionID")
	docType := c.PostForm("type")
	if docType == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "document type not provided"})
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file not provided", "detail": err.Error()})
		return
	}

	tempDir := os.TempDir()
	tempFilePath := filepath.Join(tempDir, filepath.Base(fileHeader.Filename))
	if err := c.SaveUploadedFile(fileHeader, tempFilePath); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to save file", "detail": err.Error()})
		return
	}
	defer os.Remove(tempFilePath)

	publicID, err := h.StorageSvc.UploadDocument(c.Request.Context(), tempFilePath, sessionID, docType)
	if err != nil {
		if errors.Is(err, storage.ErrUnsupportedFileType) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to upload document", "detail": err.Error()})
		return
	}

	ref := models.DocumentRef{Type: docType, PublicID: publicID, FileName: fileHeader.Filename}
	if err := h.Reg.AttachDocument(c.Request.Context(), sessionID, ref); err != nil {
		writeServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":  "document staged successfully",
		"publicId": publicID,
		"type":     docType,
	})
}
