package wallet

import (
	"context"
	"encoding/base64"
	"fmt"

	"github.com/skip2/go-qrcode"

	"github.com/AlexZinkM/zec-wallet/internal/model"
)

// Addresses returns the receive addresses with a QR code of the unified
// address.
func (m *Manager) Addresses(ctx context.Context) (*model.AddressResponse, error) {
	if _, err := m.readyWallet(); err != nil {
		return nil, err
	}
	s := m.CurrentSynchronizer()
	if s == nil {
		return nil, fmt.Errorf("%w: synchronizer is not running", ErrNotReady)
	}

	addrs, err := s.Addresses(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get addresses: %w", err)
	}

	qr, err := generateQRCode(addrs.Unified)
	if err != nil {
		return nil, fmt.Errorf("failed to generate QR code: %w", err)
	}

	return &model.AddressResponse{
		Unified:     addrs.Unified,
		Sapling:     addrs.Sapling,
		Transparent: addrs.Transparent,
		QR:          qr,
	}, nil
}

// generateQRCode generates QR code of address in base64
func generateQRCode(address string) (string, error) {
	qr, err := qrcode.New(address, qrcode.Medium)
	if err != nil {
		return "", fmt.Errorf("failed to create QR code: %w", err)
	}

	// Get PNG image
	png, err := qr.PNG(256)
	if err != nil {
		return "", fmt.Errorf("failed to generate PNG: %w", err)
	}

	// Encode to base64
	return base64.StdEncoding.EncodeToString(png), nil
}
