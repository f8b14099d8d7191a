// Package zaddr recognizes and encodes Zcash addresses.
package zaddr

import (
	"errors"
	"fmt"
	"strings"

	"github.com/btcsuite/btcd/btcutil/base58"
	"github.com/btcsuite/btcd/btcutil/bech32"

	"github.com/AlexZinkM/zec-wallet/internal/model"
)

// ErrInvalid is returned for strings that are not an address on the
// requested network.
var ErrInvalid = errors.New("invalid address")

// Kind is the address type.
type Kind int

const (
	Unknown Kind = iota
	Unified
	Sapling
	Transparent
)

func (k Kind) String() string {
	switch k {
	case Unified:
		return "unified"
	case Sapling:
		return "sapling"
	case Transparent:
		return "transparent"
	}
	return "unknown"
}

// Shielded reports whether funds sent to the address are shielded.
func (k Kind) Shielded() bool {
	return k == Unified || k == Sapling
}

const (
	saplingPayloadLen     = 43 // 11 byte diversifier + 32 byte pk_d
	transparentPayloadLen = 20
)

type params struct {
	unifiedHRP string
	saplingHRP string

	// Two byte base58check prefixes, p2pkh and p2sh.
	p2pkh [2]byte
	p2sh  [2]byte
}

var networkParams = map[model.Network]params{
	model.Mainnet: {
		unifiedHRP: "u",
		saplingHRP: "zs",
		p2pkh:      [2]byte{0x1c, 0xb8}, // t1
		p2sh:       [2]byte{0x1c, 0xbd}, // t3
	},
	model.Testnet: {
		unifiedHRP: "utest",
		saplingHRP: "ztestsapling",
		p2pkh:      [2]byte{0x1d, 0x25}, // tm
		p2sh:       [2]byte{0x1c, 0xba}, // t2
	},
}

func lookup(network model.Network) (params, error) {
	p, ok := networkParams[network]
	if !ok {
		return params{}, fmt.Errorf("unknown network %q", network)
	}
	return p, nil
}

// Classify returns the kind of addr on network, or ErrInvalid.
func Classify(addr string, network model.Network) (Kind, error) {
	p, err := lookup(network)
	if err != nil {
		return Unknown, err
	}

	addr = strings.TrimSpace(addr)
	switch {
	case strings.HasPrefix(addr, "t"):
		if isTransparent(addr, p) {
			return Transparent, nil
		}
	case strings.HasPrefix(strings.ToLower(addr), p.saplingHRP+"1"):
		if isSapling(addr, p) {
			return Sapling, nil
		}
	case strings.HasPrefix(strings.ToLower(addr), p.unifiedHRP+"1"):
		if isUnified(addr, p) {
			return Unified, nil
		}
	}
	return Unknown, fmt.Errorf("%w for %s", ErrInvalid, network)
}

// IsValid reports whether addr is any address on network.
func IsValid(addr string, network model.Network) bool {
	_, err := Classify(addr, network)
	return err == nil
}

func isTransparent(addr string, p params) bool {
	decoded, version, err := base58.CheckDecode(addr)
	if err != nil || len(decoded) != transparentPayloadLen+1 {
		return false
	}
	prefix := [2]byte{version, decoded[0]}
	return prefix == p.p2pkh || prefix == p.p2sh
}

func isSapling(addr string, p params) bool {
	hrp, data, version, err := bech32.DecodeGeneric(addr)
	if err != nil || hrp != p.saplingHRP || version != bech32.Version0 {
		return false
	}
	payload, err := bech32.ConvertBits(data, 5, 8, false)
	return err == nil && len(payload) == saplingPayloadLen
}

// Unified addresses exceed the 90 character bech32 limit. The receivers are
// F4Jumbled, so only the checksum and the prefix are verified here.
func isUnified(addr string, p params) bool {
	hrp, data, err := bech32.DecodeNoLimit(addr)
	if err != nil || hrp != p.unifiedHRP {
		return false
	}
	_, err = bech32.ConvertBits(data, 5, 8, false)
	return err == nil
}

// EncodeSapling encodes a raw sapling payment address.
func EncodeSapling(network model.Network, payload []byte) (string, error) {
	p, err := lookup(network)
	if err != nil {
		return "", err
	}
	if len(payload) != saplingPayloadLen {
		return "", fmt.Errorf("sapling payload must be %d bytes, got %d", saplingPayloadLen, len(payload))
	}
	data, err := bech32.ConvertBits(payload, 8, 5, true)
	if err != nil {
		return "", err
	}
	return bech32.Encode(p.saplingHRP, data)
}

// EncodeTransparent encodes a pubkey hash as a p2pkh address.
func EncodeTransparent(network model.Network, pubKeyHash []byte) (string, error) {
	p, err := lookup(network)
	if err != nil {
		return "", err
	}
	if len(pubKeyHash) != transparentPayloadLen {
		return "", fmt.Errorf("pubkey hash must be %d bytes, got %d", transparentPayloadLen, len(pubKeyHash))
	}
	payload := append([]byte{p.p2pkh[1]}, pubKeyHash...)
	return base58.CheckEncode(payload, p.p2pkh[0]), nil
}

// EncodeUnified encodes already jumbled unified address bytes with bech32m.
func EncodeUnified(network model.Network, jumbled []byte) (string, error) {
	p, err := lookup(network)
	if err != nil {
		return "", err
	}
	data, err := bech32.ConvertBits(jumbled, 8, 5, true)
	if err != nil {
		return "", err
	}
	return bech32.EncodeM(p.unifiedHRP, data)
}
