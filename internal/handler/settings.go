package handler

import (
	"encoding/json"
	"net/http"

	"github.com/AlexZinkM/zec-wallet/internal/model"
)

// Settings handles GET and PUT /settings
// @Summary      Get or update settings
// @Description  GET returns the settings. PUT changes the fields present in the body and returns the result.
// @Tags         settings
// @Accept       json
// @Produce      json
// @Param        request  body      model.SettingsRequest  false  "Settings to change (PUT only)"
// @Success      200      {object}  model.SettingsResponse
// @Router       /settings [get]
// @Router       /settings [put]
func (h *WalletHandler) Settings(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodGet, http.MethodPut) {
		return
	}

	var (
		resp *model.SettingsResponse
		err  error
	)
	if r.Method == http.MethodGet {
		resp, err = h.wallet.Settings(r.Context())
	} else {
		var req model.SettingsRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, model.CodeBadRequest, err)
			return
		}
		resp, err = h.wallet.UpdateSettings(r.Context(), req)
	}
	if err != nil {
		writeWalletError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}
