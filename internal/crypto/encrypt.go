package crypto

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"io"

	"golang.org/x/crypto/scrypt"
)

const (
	// scrypt parameters for the encrypted preference store
	// Security is prioritized over performance
	//
	// N=2^18 (~256MB RAM, 0.5-2s) - optimal balance:
	//   - Maximum security while remaining compatible with mobile devices
	//   - Brute-force attacks remain extremely expensive
	scryptN = 1 << 18
	scryptR = 8
	scryptP = 1

	// 32 bytes for AES-256-GCM + 32 bytes for HMAC-SHA256 of key names
	derivedKeyLen = 64
	SaltLen       = 32
	nonceLen      = 12
)

// Params are the scrypt cost parameters.
type Params struct {
	N int
	R int
	P int
}

// DefaultParams are used for every store created by the daemon.
var DefaultParams = Params{N: scryptN, R: scryptR, P: scryptP}

// Keys is the key material derived from a password and salt.
type Keys struct {
	aead cipher.AEAD
	enc  []byte
	mac  []byte
}

// NewSalt returns a fresh random salt.
func NewSalt() ([]byte, error) {
	salt := make([]byte, SaltLen)
	if _, err := io.ReadFull(rand.Reader, salt); err != nil {
		return nil, fmt.Errorf("failed to generate salt: %w", err)
	}
	return salt, nil
}

// DeriveKeys stretches password with scrypt and splits the result into a
// value encryption key and a key-name MAC key.
// password must be []byte for security (caller should zero it after use)
func DeriveKeys(password, salt []byte, params Params) (*Keys, error) {
	if len(password) == 0 {
		return nil, errors.New("password cannot be empty")
	}
	if len(salt) != SaltLen {
		return nil, fmt.Errorf("invalid salt length %d", len(salt))
	}

	derived, err := scrypt.Key(password, salt, params.N, params.R, params.P, derivedKeyLen)
	if err != nil {
		return nil, fmt.Errorf("failed to derive key: %w", err)
	}

	keys := &Keys{
		enc: derived[:32],
		mac: derived[32:],
	}

	block, err := aes.NewCipher(keys.enc)
	if err != nil {
		return nil, fmt.Errorf("failed to create cipher: %w", err)
	}

	keys.aead, err = cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("failed to create GCM: %w", err)
	}

	return keys, nil
}

// Seal encrypts plaintext bound to additional and returns base64(nonce || ciphertext).
func (k *Keys) Seal(plaintext, additional []byte) (string, error) {
	if k.aead == nil {
		return "", errWiped
	}

	nonce := make([]byte, nonceLen)
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", fmt.Errorf("failed to generate nonce: %w", err)
	}

	sealed := k.aead.Seal(nonce, nonce, plaintext, additional)
	return base64.StdEncoding.EncodeToString(sealed), nil
}

// MAC returns the hex HMAC-SHA256 of name, used to hide key names at rest.
func (k *Keys) MAC(name string) string {
	h := hmac.New(sha256.New, k.mac)
	h.Write([]byte(name))
	return hex.EncodeToString(h.Sum(nil))
}

// Wipe zeroes the raw key bytes. The Keys value must not be used afterwards.
func (k *Keys) Wipe() {
	clear(k.enc)
	clear(k.mac)
	k.aead = nil
}
