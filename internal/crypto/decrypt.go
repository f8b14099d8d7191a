package crypto

import (
	"encoding/base64"
	"errors"
	"fmt"
)

// ErrDecrypt is returned when a sealed value cannot be opened, either because
// the key is wrong or the value was tampered with or moved to another key.
var ErrDecrypt = errors.New("invalid password")

var errWiped = errors.New("key material was wiped")

// Open reverses Seal.
func (k *Keys) Open(sealed string, additional []byte) ([]byte, error) {
	if k.aead == nil {
		return nil, errWiped
	}

	raw, err := base64.StdEncoding.DecodeString(sealed)
	if err != nil {
		return nil, fmt.Errorf("failed to decode ciphertext: %w", err)
	}

	if len(raw) < nonceLen {
		return nil, errors.New("ciphertext too short")
	}

	plaintext, err := k.aead.Open(nil, raw[:nonceLen], raw[nonceLen:], additional)
	if err != nil {
		return nil, ErrDecrypt
	}

	return plaintext, nil
}
