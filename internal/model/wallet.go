package model

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/tyler-smith/go-bip39"
)

// SeedPhraseWords is the word count of every wallet seed.
const SeedPhraseWords = 24

// ErrInvalidSeed is returned for seed phrases that are not 24 valid BIP-39
// words.
var ErrInvalidSeed = errors.New("invalid seed phrase")

// Network is the Zcash network a wallet lives on.
type Network string

const (
	Mainnet Network = "mainnet"
	Testnet Network = "testnet"
)

// ParseNetwork accepts "mainnet" or "testnet".
func ParseNetwork(s string) (Network, error) {
	switch n := Network(s); n {
	case Mainnet, Testnet:
		return n, nil
	}
	return "", fmt.Errorf("unknown network %q", s)
}

// SaplingActivationHeight is the first height a shielded wallet can have as
// its birthday.
func (n Network) SaplingActivationHeight() uint64 {
	if n == Testnet {
		return 280000
	}
	return 419200
}

func (n *Network) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	parsed, err := ParseNetwork(s)
	if err != nil {
		return err
	}
	*n = parsed
	return nil
}

// SeedPhrase is a validated 24 word BIP-39 mnemonic.
type SeedPhrase struct {
	words string
}

// NewSeedPhrase generates 256 bits of entropy and encodes them as 24 words.
func NewSeedPhrase() (SeedPhrase, error) {
	entropy, err := bip39.NewEntropy(256)
	if err != nil {
		return SeedPhrase{}, fmt.Errorf("failed to generate entropy: %w", err)
	}
	defer clear(entropy)

	mnemonic, err := bip39.NewMnemonic(entropy)
	if err != nil {
		return SeedPhrase{}, fmt.Errorf("failed to generate mnemonic: %w", err)
	}
	return SeedPhrase{words: mnemonic}, nil
}

// ParseSeedPhrase normalizes whitespace and case and validates the words and
// checksum.
func ParseSeedPhrase(s string) (SeedPhrase, error) {
	words := strings.Fields(strings.ToLower(s))
	if len(words) != SeedPhraseWords {
		return SeedPhrase{}, fmt.Errorf("%w: expected %d words, got %d", ErrInvalidSeed, SeedPhraseWords, len(words))
	}
	mnemonic := strings.Join(words, " ")
	if !bip39.IsMnemonicValid(mnemonic) {
		return SeedPhrase{}, fmt.Errorf("%w: checksum or word list mismatch", ErrInvalidSeed)
	}
	return SeedPhrase{words: mnemonic}, nil
}

// Words returns the mnemonic as a space separated string.
func (s SeedPhrase) Words() string {
	return s.words
}

// Split returns the individual words.
func (s SeedPhrase) Split() []string {
	return strings.Fields(s.words)
}

// Seed returns the 64 byte BIP-39 seed with an empty passphrase.
func (s SeedPhrase) Seed() []byte {
	return bip39.NewSeed(s.words, "")
}

func (s SeedPhrase) IsZero() bool {
	return s.words == ""
}

func (s SeedPhrase) String() string {
	return "SeedPhrase(redacted)"
}

func (s SeedPhrase) GoString() string {
	return s.String()
}

func (s SeedPhrase) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.words)
}

func (s *SeedPhrase) UnmarshalJSON(b []byte) error {
	var raw string
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	parsed, err := ParseSeedPhrase(raw)
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// PersistableWallet is everything needed to recreate a wallet: the network,
// the height to start scanning from and the seed.
type PersistableWallet struct {
	Network    Network    `json:"network"`
	Birthday   uint64     `json:"birthday"`
	SeedPhrase SeedPhrase `json:"seedPhrase"`
}

// NewPersistableWallet validates the birthday against the network.
func NewPersistableWallet(network Network, birthday uint64, seed SeedPhrase) (PersistableWallet, error) {
	w := PersistableWallet{Network: network, Birthday: birthday, SeedPhrase: seed}
	if err := w.Validate(); err != nil {
		return PersistableWallet{}, err
	}
	return w, nil
}

func (w PersistableWallet) Validate() error {
	if _, err := ParseNetwork(string(w.Network)); err != nil {
		return err
	}
	if activation := w.Network.SaplingActivationHeight(); w.Birthday < activation {
		return fmt.Errorf("birthday %d is before sapling activation %d", w.Birthday, activation)
	}
	if w.SeedPhrase.IsZero() {
		return fmt.Errorf("%w: empty", ErrInvalidSeed)
	}
	return nil
}

func (w *PersistableWallet) UnmarshalJSON(b []byte) error {
	type plain PersistableWallet
	var p plain
	if err := json.Unmarshal(b, &p); err != nil {
		return err
	}
	if err := PersistableWallet(p).Validate(); err != nil {
		return err
	}
	*w = PersistableWallet(p)
	return nil
}

func (w PersistableWallet) String() string {
	return fmt.Sprintf("PersistableWallet(network=%s, birthday=%d)", w.Network, w.Birthday)
}

func (w PersistableWallet) GoString() string {
	return w.String()
}

// Equal compares all fields including the seed.
func (w PersistableWallet) Equal(other PersistableWallet) bool {
	return w == other
}
