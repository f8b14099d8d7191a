package preference

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.etcd.io/bbolt"
)

var preferencesBucket = []byte("preferences")

// BoltProvider stores preferences in a single bbolt bucket.
type BoltProvider struct {
	db     *bbolt.DB
	states *keyStates
}

// OpenBolt opens (creating if needed) the preference file at path.
func OpenBolt(path string) (*BoltProvider, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return nil, fmt.Errorf("failed to create preference directory: %w", err)
	}

	db, err := bbolt.Open(path, 0600, &bbolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("failed to open preference file %s: %w", path, err)
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(preferencesBucket)
		return err
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create preference bucket: %w", err)
	}

	return &BoltProvider{db: db, states: newKeyStates()}, nil
}

// Close closes the underlying database file.
func (p *BoltProvider) Close() error {
	return p.db.Close()
}

// Path returns the database file path.
func (p *BoltProvider) Path() string {
	return p.db.Path()
}

func (p *BoltProvider) HasKey(ctx context.Context, key Key) (bool, error) {
	_, ok, err := p.GetString(ctx, key)
	return ok, err
}

func (p *BoltProvider) GetString(_ context.Context, key Key) (string, bool, error) {
	var (
		value string
		ok    bool
	)
	err := p.db.View(func(tx *bbolt.Tx) error {
		// Get returns memory owned by the transaction, copy it out.
		if v := tx.Bucket(preferencesBucket).Get([]byte(key.name)); v != nil {
			value, ok = string(v), true
		}
		return nil
	})
	if err != nil {
		return "", false, fmt.Errorf("failed to read %s: %w", key, err)
	}
	return value, ok, nil
}

func (p *BoltProvider) PutString(_ context.Context, key Key, value string) error {
	return p.states.publish(key, value, func() error {
		err := p.db.Update(func(tx *bbolt.Tx) error {
			return tx.Bucket(preferencesBucket).Put([]byte(key.name), []byte(value))
		})
		if err != nil {
			return fmt.Errorf("failed to write %s: %w", key, err)
		}
		return nil
	})
}

func (p *BoltProvider) PutStrings(_ context.Context, values map[Key]string) error {
	return p.states.publishAll(values, func() error {
		err := p.db.Update(func(tx *bbolt.Tx) error {
			bucket := tx.Bucket(preferencesBucket)
			for key, value := range values {
				if err := bucket.Put([]byte(key.name), []byte(value)); err != nil {
					return err
				}
			}
			return nil
		})
		if err != nil {
			return fmt.Errorf("failed to write %d preferences: %w", len(values), err)
		}
		return nil
	})
}

func (p *BoltProvider) Observe(ctx context.Context, key Key) (<-chan *string, error) {
	return p.states.subscribe(ctx, key, func() (*string, error) {
		v, ok, err := p.GetString(ctx, key)
		if err != nil || !ok {
			return nil, err
		}
		return &v, nil
	})
}

// Keys lists every stored key name.
func (p *BoltProvider) Keys(_ context.Context) ([]string, error) {
	var names []string
	err := p.db.View(func(tx *bbolt.Tx) error {
		return tx.Bucket(preferencesBucket).ForEach(func(k, _ []byte) error {
			names = append(names, string(k))
			return nil
		})
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list preferences: %w", err)
	}
	return names, nil
}
