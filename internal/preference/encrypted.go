package preference

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/AlexZinkM/zec-wallet/internal/crypto"
	"github.com/AlexZinkM/zec-wallet/internal/stream"
)

const checkPlaintext = "zec-wallet preference check"

var (
	saltKey  = MustKey("encrypted_store_salt")
	checkKey = MustKey("encrypted_store_check")
)

// ErrInvalidPassword is returned when the password does not open an existing
// encrypted store.
var ErrInvalidPassword = errors.New("invalid password")

// EncryptedProvider encrypts keys and values before handing them to a backing
// provider. Key names are replaced by their HMAC and every value is sealed
// with AES-GCM using the key name as additional data, so a value copied to a
// different key fails to open.
type EncryptedProvider struct {
	backing Provider

	mu   sync.RWMutex
	keys *crypto.Keys
}

// OpenEncrypted opens the encrypted store kept inside backing, initializing
// it on first use.
// password must be []byte for security (caller should zero it after use)
func OpenEncrypted(ctx context.Context, backing Provider, password []byte, params crypto.Params) (*EncryptedProvider, error) {
	encodedSalt, ok, err := backing.GetString(ctx, saltKey)
	if err != nil {
		return nil, err
	}

	if !ok {
		keys, salt, check, err := newKeyMaterial(password, params)
		if err != nil {
			return nil, err
		}
		err = putAll(ctx, backing, map[Key]string{
			saltKey:  base64.StdEncoding.EncodeToString(salt),
			checkKey: check,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to initialize encrypted store: %w", err)
		}
		log.Info("Initialized encrypted preference store")
		return &EncryptedProvider{backing: backing, keys: keys}, nil
	}

	salt, err := base64.StdEncoding.DecodeString(encodedSalt)
	if err != nil {
		return nil, fmt.Errorf("failed to decode salt: %w", err)
	}

	keys, err := crypto.DeriveKeys(password, salt, params)
	if err != nil {
		return nil, err
	}

	check, ok, err := backing.GetString(ctx, checkKey)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, errors.New("encrypted store is missing its check value")
	}
	if _, err := keys.Open(check, []byte(checkKey.name)); err != nil {
		keys.Wipe()
		if errors.Is(err, crypto.ErrDecrypt) {
			return nil, ErrInvalidPassword
		}
		return nil, err
	}

	return &EncryptedProvider{backing: backing, keys: keys}, nil
}

func newKeyMaterial(password []byte, params crypto.Params) (*crypto.Keys, []byte, string, error) {
	salt, err := crypto.NewSalt()
	if err != nil {
		return nil, nil, "", err
	}
	keys, err := crypto.DeriveKeys(password, salt, params)
	if err != nil {
		return nil, nil, "", err
	}
	check, err := keys.Seal([]byte(checkPlaintext), []byte(checkKey.name))
	if err != nil {
		keys.Wipe()
		return nil, nil, "", err
	}
	return keys, salt, check, nil
}

func putAll(ctx context.Context, p Provider, values map[Key]string) error {
	if batch, ok := p.(BatchPutter); ok {
		return batch.PutStrings(ctx, values)
	}
	for key, value := range values {
		if err := p.PutString(ctx, key, value); err != nil {
			return err
		}
	}
	return nil
}

func (p *EncryptedProvider) current() *crypto.Keys {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.keys
}

func storedKey(keys *crypto.Keys, key Key) Key {
	// "enc_" + 64 hex characters always satisfies the key constraints.
	return Key{name: "enc_" + keys.MAC(key.name)}
}

func (p *EncryptedProvider) HasKey(ctx context.Context, key Key) (bool, error) {
	return p.backing.HasKey(ctx, storedKey(p.current(), key))
}

func (p *EncryptedProvider) GetString(ctx context.Context, key Key) (string, bool, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	keys := p.keys
	sealed, ok, err := p.backing.GetString(ctx, storedKey(keys, key))
	if err != nil || !ok {
		return "", false, err
	}

	plaintext, err := keys.Open(sealed, []byte(key.name))
	if err != nil {
		return "", false, fmt.Errorf("failed to decrypt %s: %w", key, err)
	}
	defer clear(plaintext)

	return string(plaintext), true, nil
}

// PutString holds the read lock until the write lands so a concurrent Rekey
// sees the value.
func (p *EncryptedProvider) PutString(ctx context.Context, key Key, value string) error {
	p.mu.RLock()
	defer p.mu.RUnlock()

	keys := p.keys
	sealed, err := keys.Seal([]byte(value), []byte(key.name))
	if err != nil {
		return fmt.Errorf("failed to encrypt %s: %w", key, err)
	}
	return p.backing.PutString(ctx, storedKey(keys, key), sealed)
}

// Observe follows the value under the current key material. Subscriptions
// made before a Rekey keep following the old entry.
func (p *EncryptedProvider) Observe(ctx context.Context, key Key) (<-chan *string, error) {
	keys := p.current()
	sealed, err := p.backing.Observe(ctx, storedKey(keys, key))
	if err != nil {
		return nil, err
	}

	return stream.Map(ctx, sealed, func(v *string) *string {
		if v == nil {
			return nil
		}
		plaintext, err := keys.Open(*v, []byte(key.name))
		if err != nil {
			log.Error("Failed to decrypt observed preference",
				zap.Stringer("key", key), zap.Error(err))
			return nil
		}
		s := string(plaintext)
		clear(plaintext)
		return &s
	}), nil
}

// Rekey re-encrypts the given keys under newPassword. Entries not listed are
// left behind under the old key material and become unreadable.
// newPassword must be []byte for security (caller should zero it after use)
func (p *EncryptedProvider) Rekey(ctx context.Context, newPassword []byte, names []Key, params crypto.Params) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	plaintexts := make(map[Key]string, len(names))
	for _, name := range names {
		sealed, ok, err := p.backing.GetString(ctx, storedKey(p.keys, name))
		if err != nil {
			return err
		}
		if !ok {
			continue
		}
		plaintext, err := p.keys.Open(sealed, []byte(name.name))
		if err != nil {
			return fmt.Errorf("failed to decrypt %s: %w", name, err)
		}
		plaintexts[name] = string(plaintext)
		clear(plaintext)
	}

	keys, salt, check, err := newKeyMaterial(newPassword, params)
	if err != nil {
		return err
	}

	values := map[Key]string{
		saltKey:  base64.StdEncoding.EncodeToString(salt),
		checkKey: check,
	}
	for name, plaintext := range plaintexts {
		sealed, err := keys.Seal([]byte(plaintext), []byte(name.name))
		if err != nil {
			keys.Wipe()
			return fmt.Errorf("failed to encrypt %s: %w", name, err)
		}
		values[storedKey(keys, name)] = sealed
	}

	if err := putAll(ctx, p.backing, values); err != nil {
		keys.Wipe()
		return fmt.Errorf("failed to write re-encrypted store: %w", err)
	}

	// The old keys may still back live subscriptions, leave them to the GC.
	p.keys = keys

	log.Info("Re-encrypted preference store", zap.Int("entries", len(plaintexts)))
	return nil
}

// Close wipes the key material. Reads and writes fail afterwards.
func (p *EncryptedProvider) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.keys.Wipe()
}
