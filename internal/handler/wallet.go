package handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/AlexZinkM/zec-wallet/internal/model"
)

// Wallet is what the handlers need from wallet.Manager.
type Wallet interface {
	SecretState(ctx context.Context) <-chan model.SecretState
	CurrentSecretState() model.SecretState
	Snapshots(ctx context.Context) <-chan *model.WalletSnapshot

	PersistNewWallet(ctx context.Context, network model.Network) (model.PersistableWallet, error)
	RestoreWallet(ctx context.Context, w model.PersistableWallet) error
	PersistBackupComplete(ctx context.Context) error
	SeedPhrase(ctx context.Context) (model.PersistableWallet, error)

	Balance(ctx context.Context) (*model.BalanceResponse, error)
	Addresses(ctx context.Context) (*model.AddressResponse, error)
	Transactions(req *model.TransactionsRequest) (*model.TransactionsResponse, error)
	Send(ctx context.Context, req model.SendRequest) (*model.SendResponse, error)

	Settings(ctx context.Context) (*model.SettingsResponse, error)
	UpdateSettings(ctx context.Context, req model.SettingsRequest) (*model.SettingsResponse, error)
}

// WalletHandler serves the wallet endpoints.
type WalletHandler struct {
	wallet  Wallet
	network model.Network

	upgrader     websocket.Upgrader
	pingInterval time.Duration
	pongWait     time.Duration
}

// NewWalletHandler creates a WalletHandler. New wallets are created on
// network.
func NewWalletHandler(w Wallet, network model.Network) *WalletHandler {
	return &WalletHandler{
		wallet:       w,
		network:      network,
		pingInterval: DefaultPingInterval,
		pongWait:     DefaultPongWait,
	}
}

// State handles GET /wallet/state
// @Summary      Get secret state
// @Description  Returns loading, none, needs_backup or ready. Never includes the seed.
// @Tags         wallet
// @Produce      json
// @Success      200  {object}  model.SecretStateResponse
// @Router       /wallet/state [get]
func (h *WalletHandler) State(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodGet) {
		return
	}
	writeJSON(w, http.StatusOK, model.NewSecretStateResponse(h.wallet.CurrentSecretState()))
}

// Create handles POST /wallet/create
// @Summary      Create new wallet
// @Description  Generates a new seed with the nearest checkpoint as birthday
// @Tags         wallet
// @Produce      json
// @Success      200  {object}  model.CreateResponse
// @Failure      409  {object}  model.ErrorResponse
// @Router       /wallet/create [post]
func (h *WalletHandler) Create(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodPost) {
		return
	}

	created, err := h.wallet.PersistNewWallet(r.Context(), h.network)
	if err != nil {
		writeWalletError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, model.CreateResponse{
		Network:  created.Network,
		Birthday: created.Birthday,
	})
}

// Restore handles POST /wallet/restore
// @Summary      Restore wallet
// @Description  Restores a wallet from its 24 word seed. A zero birthday scans from sapling activation.
// @Tags         wallet
// @Accept       json
// @Produce      json
// @Param        request  body      model.RestoreRequest  true  "Seed and birthday"
// @Success      200      {object}  model.SecretStateResponse
// @Failure      400      {object}  model.ErrorResponse
// @Failure      409      {object}  model.ErrorResponse
// @Router       /wallet/restore [post]
func (h *WalletHandler) Restore(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodPost) {
		return
	}

	var req model.RestoreRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, model.CodeBadRequest, err)
		return
	}

	restored, err := h.restoredWallet(req)
	if err != nil {
		writeWalletError(w, err)
		return
	}
	if err := h.wallet.RestoreWallet(r.Context(), restored); err != nil {
		writeWalletError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, model.NewSecretStateResponse(model.ReadyState(restored)))
}

func (h *WalletHandler) restoredWallet(req model.RestoreRequest) (model.PersistableWallet, error) {
	network := h.network
	if req.Network != "" {
		var err error
		if network, err = model.ParseNetwork(req.Network); err != nil {
			return model.PersistableWallet{}, fmt.Errorf("%w: %v", errBadRequest, err)
		}
	}

	seed, err := model.ParseSeedPhrase(req.SeedPhrase)
	if err != nil {
		return model.PersistableWallet{}, err
	}

	birthday := req.Birthday
	if birthday == 0 {
		birthday = network.SaplingActivationHeight()
	}
	restored, err := model.NewPersistableWallet(network, birthday, seed)
	if err != nil {
		return model.PersistableWallet{}, fmt.Errorf("%w: %v", errBadRequest, err)
	}
	return restored, nil
}

// Seed handles GET /wallet/seed
// @Summary      Get seed phrase
// @Description  Returns the seed words for the backup flow
// @Tags         wallet
// @Produce      json
// @Success      200  {object}  model.SeedResponse
// @Failure      404  {object}  model.ErrorResponse
// @Router       /wallet/seed [get]
func (h *WalletHandler) Seed(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodGet) {
		return
	}

	stored, err := h.wallet.SeedPhrase(r.Context())
	if err != nil {
		writeWalletError(w, err)
		return
	}
	w.Header().Set("Cache-Control", "no-store")
	writeJSON(w, http.StatusOK, model.SeedResponse{
		Words:    stored.SeedPhrase.Split(),
		Birthday: stored.Birthday,
	})
}

// BackupComplete handles POST /wallet/backup-complete
// @Summary      Mark backup complete
// @Description  Records that the user wrote the seed down
// @Tags         wallet
// @Produce      json
// @Success      200  {object}  model.SecretStateResponse
// @Failure      404  {object}  model.ErrorResponse
// @Router       /wallet/backup-complete [post]
func (h *WalletHandler) BackupComplete(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodPost) {
		return
	}

	stored, err := h.wallet.SeedPhrase(r.Context())
	if err != nil {
		writeWalletError(w, err)
		return
	}
	if err := h.wallet.PersistBackupComplete(r.Context()); err != nil {
		writeWalletError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, model.NewSecretStateResponse(model.ReadyState(stored)))
}

// GetBalance handles GET /wallet/balance
// @Summary      Get wallet balance
// @Description  Gets pool balances, sync status and the optional fiat value
// @Tags         wallet
// @Produce      json
// @Success      200  {object}  model.BalanceResponse
// @Failure      409  {object}  model.ErrorResponse
// @Router       /wallet/balance [get]
func (h *WalletHandler) GetBalance(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodGet) {
		return
	}

	balance, err := h.wallet.Balance(r.Context())
	if err != nil {
		writeWalletError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, balance)
}

// GetAddress handles GET /wallet/address
// @Summary      Get receive addresses
// @Description  Gets unified, sapling and transparent addresses with a QR of the unified one
// @Tags         wallet
// @Produce      json
// @Success      200  {object}  model.AddressResponse
// @Failure      409  {object}  model.ErrorResponse
// @Router       /wallet/address [get]
func (h *WalletHandler) GetAddress(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodGet) {
		return
	}

	addrs, err := h.wallet.Addresses(r.Context())
	if err != nil {
		writeWalletError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, addrs)
}

// Send handles POST /wallet/send
// @Summary      Send ZEC
// @Description  Sends ZEC from the sapling pool to the specified address
// @Tags         wallet
// @Accept       json
// @Produce      json
// @Param        request  body      model.SendRequest  true  "Payment data"
// @Success      200      {object}  model.SendResponse
// @Failure      400      {object}  model.ErrorResponse
// @Failure      429      {object}  model.ErrorResponse
// @Router       /wallet/send [post]
func (h *WalletHandler) Send(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodPost) {
		return
	}

	var req model.SendRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, model.CodeBadRequest, err)
		return
	}
	if req.ToAddress == "" || req.Amount == "" {
		writeError(w, http.StatusBadRequest, model.CodeBadRequest, errors.New("toAddress and amount are required"))
		return
	}

	resp, err := h.wallet.Send(r.Context(), req)
	if err != nil {
		writeWalletError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// TransactionHistory handles GET /wallet/transactions
// @Summary      Get wallet transactions
// @Description  Gets wallet transactions, newest first, with filtering capability
// @Tags         wallet
// @Produce      json
// @Param        type       query     string   false  "Transaction type: DEBIT or CREDIT"
// @Param        kind       query     string   false  "pending, cleared, sent or received"
// @Param        txId       query     string   false  "Transaction ID"
// @Param        from       query     string   false  "Start date (YYYY-MM-DD)"
// @Param        to         query     string   false  "End date (YYYY-MM-DD)"
// @Param        minAmount  query     string   false  "Minimum amount"
// @Param        maxAmount  query     string   false  "Maximum amount"
// @Success      200  {object}  model.TransactionsResponse
// @Failure      400  {object}  model.ErrorResponse
// @Router       /wallet/transactions [get]
func (h *WalletHandler) TransactionHistory(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodGet) {
		return
	}

	req, err := parseTransactionsRequest(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, model.CodeBadRequest, err)
		return
	}

	// Validate
	if err := req.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, model.CodeBadRequest, err)
		return
	}

	resp, err := h.wallet.Transactions(req)
	if err != nil {
		writeWalletError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func parseTransactionsRequest(r *http.Request) (*model.TransactionsRequest, error) {
	var req model.TransactionsRequest
	query := r.URL.Query()

	// Parse date parameters (YYYY-MM-DD)
	const dateLayout = "2006-01-02"
	if fromStr := query.Get("from"); fromStr != "" {
		t, err := time.Parse(dateLayout, fromStr)
		if err != nil {
			return nil, errors.New("invalid from date: use YYYY-MM-DD (e.g. 2006-01-02)")
		}
		req.From = &t
	}
	if toStr := query.Get("to"); toStr != "" {
		t, err := time.Parse(dateLayout, toStr)
		if err != nil {
			return nil, errors.New("invalid to date: use YYYY-MM-DD (e.g. 2006-01-02)")
		}
		// End of day so filter is inclusive
		t = t.Add(24*time.Hour - time.Nanosecond)
		req.To = &t
	}

	if typeStr := query.Get("type"); typeStr != "" {
		txType := model.TransactionType(typeStr)
		req.Type = &txType
	}
	if kindStr := query.Get("kind"); kindStr != "" {
		kind := model.TransactionKind(kindStr)
		req.Kind = &kind
	}
	if txID := query.Get("txId"); txID != "" {
		req.TxID = &txID
	}
	if minAmount := query.Get("minAmount"); minAmount != "" {
		req.MinAmount = &minAmount
	}
	if maxAmount := query.Get("maxAmount"); maxAmount != "" {
		req.MaxAmount = &maxAmount
	}
	return &req, nil
}

var errBadRequest = errors.New("bad request")
