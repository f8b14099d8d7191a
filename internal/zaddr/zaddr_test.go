package zaddr

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/AlexZinkM/zec-wallet/internal/model"
)

func TestRoundTrip(t *testing.T) {
	for _, network := range []model.Network{model.Mainnet, model.Testnet} {
		sapling, err := EncodeSapling(network, bytes.Repeat([]byte{7}, 43))
		require.NoError(t, err)
		kind, err := Classify(sapling, network)
		require.NoError(t, err)
		require.Equal(t, Sapling, kind)

		transparent, err := EncodeTransparent(network, bytes.Repeat([]byte{9}, 20))
		require.NoError(t, err)
		kind, err = Classify(transparent, network)
		require.NoError(t, err)
		require.Equal(t, Transparent, kind)
		require.False(t, kind.Shielded())

		unified, err := EncodeUnified(network, bytes.Repeat([]byte{3}, 96))
		require.NoError(t, err)
		require.Greater(t, len(unified), 90)
		kind, err = Classify(unified, network)
		require.NoError(t, err)
		require.Equal(t, Unified, kind)
		require.True(t, kind.Shielded())
	}
}

func TestPrefixes(t *testing.T) {
	s, err := EncodeSapling(model.Mainnet, make([]byte, 43))
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(s, "zs1"))

	s, err = EncodeSapling(model.Testnet, make([]byte, 43))
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(s, "ztestsapling1"))

	s, err = EncodeTransparent(model.Mainnet, make([]byte, 20))
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(s, "t1"))

	s, err = EncodeTransparent(model.Testnet, make([]byte, 20))
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(s, "tm"))

	s, err = EncodeUnified(model.Testnet, make([]byte, 64))
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(s, "utest1"))
}

func TestWrongNetwork(t *testing.T) {
	sapling, err := EncodeSapling(model.Mainnet, make([]byte, 43))
	require.NoError(t, err)
	_, err = Classify(sapling, model.Testnet)
	require.ErrorIs(t, err, ErrInvalid)

	transparent, err := EncodeTransparent(model.Testnet, make([]byte, 20))
	require.NoError(t, err)
	_, err = Classify(transparent, model.Mainnet)
	require.ErrorIs(t, err, ErrInvalid)
}

func TestRejectsGarbage(t *testing.T) {
	sapling, err := EncodeSapling(model.Mainnet, make([]byte, 43))
	require.NoError(t, err)

	// Flip the last checksum character.
	last := sapling[len(sapling)-1]
	flipped := byte('q')
	if last == 'q' {
		flipped = 'p'
	}
	tampered := sapling[:len(sapling)-1] + string(flipped)

	for _, addr := range []string{"", "zs1", "t1", "hello", "u1qqqq", tampered} {
		require.False(t, IsValid(addr, model.Mainnet), addr)
	}

	_, err = EncodeSapling(model.Mainnet, make([]byte, 42))
	require.Error(t, err)
	_, err = Classify(sapling, model.Network("regtest"))
	require.Error(t, err)
}
