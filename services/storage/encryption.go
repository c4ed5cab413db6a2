package storage

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"golang.org/x/crypto/pbkdf2"
)

// keySalt is fixed so the same admin key always derives the same AES key;
// rotating the admin key re-encrypts nothing that is already staged.
const keySalt = "telvia-kyc-staging"

const keyIterations = 4096

func deriveKey(adminKey string) []byte {
	return pbkdf2.Key([]byte(adminKey), []byte(keySalt), keyIterations, 32, sha256.New)
}

// encryptBytes seals plaintext with AES-256 GCM. The nonce is prepended to
// the ciphertext so it can be recovered during decryption.
func encryptBytes(plaintext []byte, adminKey string) ([]byte, error) {
	block, err := aes.NewCipher(deriveKey(adminKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create AES cipher: %w", err)
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("failed to create GCM: %w", err)
	}
	nonce := make([]byte, gcm.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, fmt.Errorf("failed to generate nonce: %w", err)
	}
	return gcm.Seal(nonce, nonce, plaintext, nil), nil
}

// decryptBytes opens data produced by encryptBytes.
func decryptBytes(data []byte, adminKey string) ([]byte, error) {
	block, err := aes.NewCipher(deriveKey(adminKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create AES cipher: %w", err)
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("failed to create GCM: %w", err)
	}
	if len(data) < gcm.NonceSize() {
		return nil, fmt.Errorf("ciphertext shorter than nonce")
	}
	nonce, ciphertext := data[:gcm.NonceSize()], data[gcm.NonceSize():]
	plaintext, err := gcm.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to decrypt: %w", err)
	}
	return plaintext, nil
}

// encryptToTempFile writes the sealed content to a temporary file and
// returns its path, ready for upload.
func encryptToTempFile(plaintext []byte, adminKey string) (string, error) {
	ciphertext, err := encryptBytes(plaintext, adminKey)
	if err != nil {
		return "", err
	}
	tempFilePath := filepath.Join(os.TempDir(), fmt.Sprintf("enc-%d", time.Now().UnixNano()))
	if err := os.WriteFile(tempFilePath, ciphertext, 0600); err != nil {
		return "", fmt.Errorf("failed to write encrypted file: %w", err)
	}
	return tempFilePath, nil
}
