// Package crypto provides the credential cipher used to protect platform
// tokens and secrets at rest.
package crypto

import (
	"bytes"
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"strings"

	"golang.org/x/crypto/pbkdf2"

	"github.com/channelsync/backend/internal/domain/integration"
)

const (
	keyLength        = 32 // AES-256
	pbkdf2Iterations = 100_000
)

var (
	ErrEmptySecret       = errors.New("crypto: secret must not be empty")
	ErrMalformedMaterial = errors.New("crypto: malformed encrypted material")
)

// AESCipher encrypts strings with AES-256-CBC. Output is
// hex(iv) + ":" + hex(ciphertext) with a fresh random IV per call, so
// encrypting the same plaintext twice yields different material.
type AESCipher struct {
	key []byte
}

var _ integration.CredentialCipher = (*AESCipher)(nil)

// NewAESCipher derives the AES key from the configured secret and salt via
// PBKDF2-SHA256.
func NewAESCipher(secret, salt string) (*AESCipher, error) {
	if secret == "" {
		return nil, ErrEmptySecret
	}
	key := pbkdf2.Key([]byte(secret), []byte(salt), pbkdf2Iterations, keyLength, sha256.New)
	return &AESCipher{key: key}, nil
}

// Encrypt returns hex(iv):hex(ciphertext) for the given plaintext.
func (c *AESCipher) Encrypt(plaintext string) (string, error) {
	block, err := aes.NewCipher(c.key)
	if err != nil {
		return "", fmt.Errorf("crypto: init cipher: %w", err)
	}

	iv := make([]byte, aes.BlockSize)
	if _, err := io.ReadFull(rand.Reader, iv); err != nil {
		return "", fmt.Errorf("crypto: generate iv: %w", err)
	}

	padded := pkcs7Pad([]byte(plaintext), aes.BlockSize)
	ciphertext := make([]byte, len(padded))
	cipher.NewCBCEncrypter(block, iv).CryptBlocks(ciphertext, padded)

	return hex.EncodeToString(iv) + ":" + hex.EncodeToString(ciphertext), nil
}

// Decrypt reverses Encrypt. Material not in hex(iv):hex(ciphertext) form, or
// produced under a different key, yields ErrMalformedMaterial.
func (c *AESCipher) Decrypt(material string) (string, error) {
	ivHex, ctHex, ok := strings.Cut(material, ":")
	if !ok {
		return "", ErrMalformedMaterial
	}

	iv, err := hex.DecodeString(ivHex)
	if err != nil || len(iv) != aes.BlockSize {
		return "", ErrMalformedMaterial
	}
	ciphertext, err := hex.DecodeString(ctHex)
	if err != nil || len(ciphertext) == 0 || len(ciphertext)%aes.BlockSize != 0 {
		return "", ErrMalformedMaterial
	}

	block, err := aes.NewCipher(c.key)
	if err != nil {
		return "", fmt.Errorf("crypto: init cipher: %w", err)
	}

	plaintext := make([]byte, len(ciphertext))
	cipher.NewCBCDecrypter(block, iv).CryptBlocks(plaintext, ciphertext)

	unpadded, err := pkcs7Unpad(plaintext, aes.BlockSize)
	if err != nil {
		return "", ErrMalformedMaterial
	}
	return string(unpadded), nil
}

func pkcs7Pad(data []byte, blockSize int) []byte {
	padding := blockSize - len(data)%blockSize
	return append(data, bytes.Repeat([]byte{byte(padding)}, padding)...)
}

func pkcs7Unpad(data []byte, blockSize int) ([]byte, error) {
	if len(data) == 0 || len(data)%blockSize != 0 {
		return nil, ErrMalformedMaterial
	}
	padding := int(data[len(data)-1])
	if padding == 0 || padding > blockSize || padding > len(data) {
		return nil, ErrMalformedMaterial
	}
	for _, b := range data[len(data)-padding:] {
		if int(b) != padding {
			return nil, ErrMalformedMaterial
		}
	}
	return data[:len(data)-padding], nil
}
