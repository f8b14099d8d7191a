package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/AlexZinkM/zec-wallet/internal/common"
	"github.com/AlexZinkM/zec-wallet/internal/model"
	"github.com/AlexZinkM/zec-wallet/internal/preference"
	"github.com/AlexZinkM/zec-wallet/internal/zaddr"
	"github.com/AlexZinkM/zec-wallet/wallet"
)

var log = zap.NewNop()

// UseLogger sets the package-wide logger.
func UseLogger(logger *zap.Logger) {
	log = logger.Named("handler")
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Debug("Failed to write response", zap.Error(err))
	}
}

func writeError(w http.ResponseWriter, status int, code model.ErrorCode, err error) {
	writeJSON(w, status, model.ErrorResponse{Error: err.Error(), Code: code})
}

// writeWalletError maps wallet errors to a status and code.
func writeWalletError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, errBadRequest), errors.Is(err, preference.ErrInvalidKey):
		writeError(w, http.StatusBadRequest, model.CodeBadRequest, err)
	case errors.Is(err, zaddr.ErrInvalid):
		writeError(w, http.StatusBadRequest, model.CodeInvalidAddress, err)
	case errors.Is(err, common.ErrInvalidAmount):
		writeError(w, http.StatusBadRequest, model.CodeInvalidAmount, err)
	case errors.Is(err, model.ErrInvalidSeed):
		writeError(w, http.StatusBadRequest, model.CodeInvalidSeed, err)
	case errors.Is(err, wallet.ErrInsufficientFunds):
		writeError(w, http.StatusBadRequest, model.CodeInsufficientFunds, err)
	case errors.Is(err, wallet.ErrWalletExists):
		writeError(w, http.StatusConflict, model.CodeWalletExists, err)
	case errors.Is(err, wallet.ErrNotReady):
		writeError(w, http.StatusConflict, model.CodeNotReady, err)
	case errors.Is(err, wallet.ErrNoWallet):
		writeError(w, http.StatusNotFound, model.CodeNoWallet, err)
	case errors.Is(err, wallet.ErrCooldown):
		writeError(w, http.StatusTooManyRequests, model.CodeCooldown, err)
	default:
		log.Error("Request failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, model.CodeInternal, err)
	}
}

// allowMethod writes 405 unless r uses one of methods.
func allowMethod(w http.ResponseWriter, r *http.Request, methods ...string) bool {
	for _, m := range methods {
		if r.Method == m {
			return true
		}
	}
	http.Error(w, "Method not allowed. Should be "+methods[0], http.StatusMethodNotAllowed)
	return false
}
