package utils

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"fmt"
)

// EncryptCNIC encrypts a national identity number before it is stored.
// Key must be 16/24/32 bytes (AES-128/192/256).
func EncryptCNIC(cnic string, key string) (string, error) {
	plaintext := []byte(cnic)

	k := []byte(key)
	if len(k) != 16 && len(k) != 24 && len(k) != 32 {
		return "", fmt.Errorf("invalid key length: %d (must be 16/24/32)", len(k))
	}

	block, err := aes.NewCipher(k)
	if err != nil {
		return "", err
	}

	ciphertext := make([]byte, aes.BlockSize+len(plaintext))

	iv := ciphertext[:aes.BlockSize]
	if _, err := rand.Read(iv); err != nil {
		return "", fmt.Errorf("failed to read random iv: %w", err)
	}

	stream := cipher.NewCFBEncrypter(block, iv)
	stream.XORKeyStream(ciphertext[aes.BlockSize:], plaintext)

	return base64.RawURLEncoding.EncodeToString(ciphertext), nil
}

// DecryptCNIC reverses EncryptCNIC. Values written before encryption was
// introduced come back as-is.
func DecryptCNIC(enc string, key string) (string, error) {
	if enc == "" {
		return "", nil
	}

	ciphertext, err := base64.RawURLEncoding.DecodeString(enc)
	if err != nil {
		// Legacy plaintext value.
		return enc, nil
	}
	if len(ciphertext) < aes.BlockSize {
		return enc, nil
	}

	k := []byte(key)
	if len(k) != 16 && len(k) != 24 && len(k) != 32 {
		return "", fmt.Errorf("invalid key length: %d (must be 16/24/32)", len(k))
	}

	block, err := aes.NewCipher(k)
	if err != nil {
		return "", err
	}

	iv := ciphertext[:aes.BlockSize]
	body := ciphertext[aes.BlockSize:]

	plaintext := make([]byte, len(body))
	stream := cipher.NewCFBDecrypter(block, iv)
	stream.XORKeyStream(plaintext, body)

	return string(plaintext), nil
}
