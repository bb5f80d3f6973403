package wallet

import (
	"crypto/rand"
	"encoding/base64"
	"encoding/binary"
	"errors"
	"fmt"

	"golang.org/x/crypto/argon2"
	"golang.org/x/crypto/chacha20poly1305"
)

const (
	saltSize  = 16
	maxMemory = 4 * 1024 * 1024 // KiB
	// salt | memory(4) | iterations(4) | parallelism(1) | nonce(24) | ciphertext
	headerSize = saltSize + 4 + 4 + 1
)

// ErrWrongPassword is returned when a seed cannot be decrypted with the given password.
var ErrWrongPassword = errors.New("wrong password or corrupted seed")

// EncryptionParams holds the Argon2id cost parameters stored with each seed.
type EncryptionParams struct {
	Memory      uint32 // KiB
	Iterations  uint32
	Parallelism uint8
}

// DefaultParams returns the Argon2id parameters used for new seeds.
func DefaultParams() EncryptionParams {
	return EncryptionParams{
		Memory:      64 * 1024,
		Iterations:  3,
		Parallelism: 4,
	}
}

func deriveKey(password, salt []byte, params EncryptionParams) []byte {
	return argon2.IDKey(password, salt, params.Iterations, params.Memory, params.Parallelism, chacha20poly1305.KeySize)
}

func zero(b []byte) {
	for i := range b {
		b[i] = 0
	}
}

// EncryptSeed encrypts mnemonic with password and returns base64 text for the wallet file.
func EncryptSeed(mnemonic, password string, params EncryptionParams) (string, error) {
	if password == "" {
		return "", fmt.Errorf("password cannot be empty")
	}

	salt := make([]byte, saltSize)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("generate salt: %w", err)
	}

	key := deriveKey([]byte(password), salt, params)
	defer zero(key)

	aead, err := chacha20poly1305.NewX(key)
	if err != nil {
		return "", fmt.Errorf("create cipher: %w", err)
	}

	nonce := make([]byte, aead.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return "", fmt.Errorf("generate nonce: %w", err)
	}

	out := make([]byte, 0, headerSize+len(nonce)+len(mnemonic)+aead.Overhead())
	out = append(out, salt...)
	out = binary.LittleEndian.AppendUint32(out, params.Memory)
	out = binary.LittleEndian.AppendUint32(out, params.Iterations)
	out = append(out, params.Parallelism)
	out = append(out, nonce...)
	// the header is authenticated so the cost parameters cannot be swapped
	out = aead.Seal(out, nonce, []byte(mnemonic), out[:headerSize])

	return base64.StdEncoding.EncodeToString(out), nil
}

// DecryptSeed reverses EncryptSeed.
func DecryptSeed(encoded, password string) (string, error) {
	data, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return "", fmt.Errorf("decode seed: %w", err)
	}

	nonceSize := chacha20poly1305.NonceSizeX
	if minSize := headerSize + nonceSize + chacha20poly1305.Overhead; len(data) < minSize {
		return "", fmt.Errorf("encrypted seed too short: %d bytes, need at least %d", len(data), minSize)
	}

	params := EncryptionParams{
		Memory:      binary.LittleEndian.Uint32(data[saltSize:]),
		Iterations:  binary.LittleEndian.Uint32(data[saltSize+4:]),
		Parallelism: data[saltSize+8],
	}
	if params.Iterations == 0 || params.Parallelism == 0 || params.Memory > maxMemory {
		return "", fmt.Errorf("encrypted seed has invalid parameters")
	}

	key := deriveKey([]byte(password), data[:saltSize], params)
	defer zero(key)

	aead, err := chacha20poly1305.NewX(key)
	if err != nil {
		return "", fmt.Errorf("create cipher: %w", err)
	}

	nonce := data[headerSize : headerSize+nonceSize]
	plaintext, err := aead.Open(nil, nonce, data[headerSize+nonceSize:], data[:headerSize])
	if err != nil {
		return "", ErrWrongPassword
	}
	defer zero(plaintext)

	return string(plaintext), nil
}
