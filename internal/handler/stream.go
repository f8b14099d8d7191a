package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/AlexZinkM/zec-wallet/internal/model"
	"github.com/AlexZinkM/zec-wallet/wallet"
)

const (
	// DefaultPingInterval is the time between pings on an idle stream.
	DefaultPingInterval = 30 * time.Second

	// DefaultPongWait is how long a client may take to answer a ping.
	DefaultPongWait = 5 * time.Second

	writeWait = 10 * time.Second
)

// Stream handles GET /wallet/stream
// @Summary      Stream wallet events
// @Description  WebSocket. Sends a secret_state event on every secret state change and a balance event on every snapshot.
// @Tags         wallet
// @Success      101
// @Router       /wallet/stream [get]
func (h *WalletHandler) Stream(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade already replied.
		log.Warn("Failed to upgrade websocket", zap.Error(err))
		return
	}

	ctx, cancel := context.WithCancel(r.Context())
	readerDone := make(chan struct{})
	defer func() {
		cancel()
		if err := conn.Close(); err != nil {
			log.Debug("Failed to close websocket", zap.Error(err))
		}
		<-readerDone
	}()

	// The read loop only handles control frames. Its error ends the stream.
	_ = conn.SetReadDeadline(time.Now().Add(h.pingInterval + h.pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(h.pingInterval + h.pongWait))
	})
	go func() {
		defer close(readerDone)
		defer cancel()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	ticker := time.NewTicker(h.pingInterval)
	defer ticker.Stop()

	states := h.wallet.SecretState(ctx)
	snapshots := h.wallet.Snapshots(ctx)

	log.Debug("Stream opened", zap.String("remote", r.RemoteAddr))
	defer log.Debug("Stream closed", zap.String("remote", r.RemoteAddr))

	for {
		var event model.StreamEvent
		select {
		case <-ctx.Done():
			return

		case <-ticker.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(h.pongWait)); err != nil {
				return
			}
			continue

		case state, ok := <-states:
			if !ok {
				return
			}
			resp := model.NewSecretStateResponse(state)
			event = model.StreamEvent{Type: model.EventSecretState, SecretState: &resp}

		case snap, ok := <-snapshots:
			if !ok {
				return
			}
			event = model.StreamEvent{Type: model.EventBalance}
			if snap != nil {
				event.Balance = wallet.DisplayValues(*snap, "", "")
			}
		}

		_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := conn.WriteJSON(event); err != nil {
			log.Debug("Failed to write stream event", zap.Error(err))
			return
		}
	}
}
