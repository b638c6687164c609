// Package crypto provides AES-256-GCM encryption for sensitive values.
package crypto

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
)

// ErrInvalidKey is returned when the encryption key is not exactly 32 bytes.
var ErrInvalidKey = errors.New("encryption key must be exactly 32 bytes")

// Encryptor encrypts and decrypts strings using AES-256-GCM.
type Encryptor struct {
	aead cipher.AEAD
	key  []byte
}

// NewEncryptor creates an Encryptor from a 32-byte key.
func NewEncryptor(key string) (*Encryptor, error) {
	if len(key) != 32 {
		return nil, ErrInvalidKey
	}

	block, err := aes.NewCipher([]byte(key))
	if err != nil {
		return nil, fmt.Errorf("failed to create cipher: %w", err)
	}

	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("failed to create GCM: %w", err)
	}

	return &Encryptor{aead: aead, key: []byte(key)}, nil
}

// Encrypt encrypts plaintext with a random nonce. Empty input yields
// empty output. The result is URL-safe base64 of nonce||ciphertext.
func (e *Encryptor) Encrypt(plaintext string) (string, error) {
	if plaintext == "" {
		return "", nil
	}

	nonce := make([]byte, e.aead.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", fmt.Errorf("failed to generate nonce: %w", err)
	}

	return e.seal(nonce, plaintext), nil
}

// EncryptDeterministic encrypts plaintext with a nonce derived from the
// plaintext itself, so equal inputs always produce equal outputs. Used
// for shareable account ids, which must be stable across requests while
// remaining reversible only with the key. Decrypt handles both modes.
func (e *Encryptor) EncryptDeterministic(plaintext string) (string, error) {
	if plaintext == "" {
		return "", nil
	}

	mac := hmac.New(sha256.New, e.key)
	mac.Write([]byte(plaintext))
	nonce := mac.Sum(nil)[:e.aead.NonceSize()]

	return e.seal(nonce, plaintext), nil
}

// Decrypt reverses Encrypt or EncryptDeterministic. Empty input yields
// empty output.
func (e *Encryptor) Decrypt(ciphertext string) (string, error) {
	if ciphertext == "" {
		return "", nil
	}

	data, err := base64.URLEncoding.DecodeString(ciphertext)
	if err != nil {
		return "", fmt.Errorf("failed to decode ciphertext: %w", err)
	}

	nonceSize := e.aead.NonceSize()
	if len(data) < nonceSize {
		return "", errors.New("ciphertext shorter than nonce")
	}

	plaintext, err := e.aead.Open(nil, data[:nonceSize], data[nonceSize:], nil)
	if err != nil {
		return "", fmt.Errorf("failed to decrypt: %w", err)
	}

	return string(plaintext), nil
}

func (e *Encryptor) seal(nonce []byte, plaintext string) string {
	sealed := e.aead.Seal(nil, nonce, []byte(plaintext), nil)
	return base64.URLEncoding.EncodeToString(append(nonce, sealed...))
}
