package model

// SecretStateKind tags a SecretState.
type SecretStateKind int

const (
	// SecretLoading means the stored values have not all been read yet.
	SecretLoading SecretStateKind = iota
	// SecretNone means no wallet is stored.
	SecretNone
	// SecretNeedsBackup means a wallet exists but its seed was never backed up.
	SecretNeedsBackup
	// SecretReady means the wallet is stored and backed up.
	SecretReady
)

func (k SecretStateKind) String() string {
	switch k {
	case SecretLoading:
		return "loading"
	case SecretNone:
		return "none"
	case SecretNeedsBackup:
		return "needs_backup"
	case SecretReady:
		return "ready"
	}
	return "unknown"
}

// SecretState is what the app knows about the stored wallet. Wallet is set
// only for NeedsBackup and Ready.
type SecretState struct {
	Kind   SecretStateKind
	Wallet *PersistableWallet
}

var (
	LoadingState = SecretState{Kind: SecretLoading}
	NoneState    = SecretState{Kind: SecretNone}
)

func NeedsBackupState(w PersistableWallet) SecretState {
	return SecretState{Kind: SecretNeedsBackup, Wallet: &w}
}

func ReadyState(w PersistableWallet) SecretState {
	return SecretState{Kind: SecretReady, Wallet: &w}
}

// DeriveSecretState maps the stored wallet and backup flag to a state.
func DeriveSecretState(wallet *PersistableWallet, isBackupComplete bool) SecretState {
	switch {
	case wallet == nil:
		return NoneState
	case !isBackupComplete:
		return NeedsBackupState(*wallet)
	default:
		return ReadyState(*wallet)
	}
}

// Equal reports whether both states have the same kind and wallet.
func (s SecretState) Equal(other SecretState) bool {
	if s.Kind != other.Kind {
		return false
	}
	if s.Wallet == nil || other.Wallet == nil {
		return s.Wallet == nil && other.Wallet == nil
	}
	return s.Wallet.Equal(*other.Wallet)
}

func (s SecretState) String() string {
	return s.Kind.String()
}

// SecretStateResponse represents response for GET /wallet/state
type SecretStateResponse struct {
	State    string  `json:"state"`
	Network  Network `json:"network,omitempty"`
	Birthday uint64  `json:"birthday,omitempty"`
}

// NewSecretStateResponse never includes the seed.
func NewSecretStateResponse(s SecretState) SecretStateResponse {
	resp := SecretStateResponse{State: s.Kind.String()}
	if s.Wallet != nil {
		resp.Network = s.Wallet.Network
		resp.Birthday = s.Wallet.Birthday
	}
	return resp
}
