package crash

import (
	"encoding/json"
	"net/http"
	"runtime/debug"

	"go.uber.org/zap"

	"github.com/AlexZinkM/zec-wallet/internal/model"
)

// Recover turns a panicking handler into a 500 response and an uncaught
// crash report.
func Recover(r *Reporter, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}
			if rec == http.ErrAbortHandler {
				panic(rec)
			}

			if _, err := r.ReportUncaught(rec, debug.Stack()); err != nil {
				log.Error("Failed to record panic", zap.Any("panic", rec), zap.Error(err))
			}

			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusInternalServerError)
			json.NewEncoder(w).Encode(model.ErrorResponse{Error: "internal error", Code: model.CodeInternal})
		}()
		next.ServeHTTP(w, req)
	})
}
