package wallet

import (
	"github.com/AlexZinkM/zec-wallet/internal/configuration"
	"github.com/AlexZinkM/zec-wallet/internal/model"
	"github.com/AlexZinkM/zec-wallet/internal/preference"
)

// Encrypted preferences.
var (
	PersistableWalletKey = preference.JSONDefault[*model.PersistableWallet](
		preference.MustKey("persistable_wallet"), nil)
)

// EncryptedKeys lists every key kept in the encrypted store, for Rekey.
var EncryptedKeys = []preference.Key{PersistableWalletKey.Key()}

// Standard preferences.
var (
	IsUserBackupComplete = preference.BooleanDefault(
		preference.MustKey("is_user_backup_complete"), false)

	IsBackgroundSyncEnabled = preference.BooleanDefault(
		preference.MustKey("is_background_sync_enabled"), true)

	IsKeepScreenOnWhileSyncing = preference.BooleanDefault(
		preference.MustKey("is_keep_screen_on_while_syncing"), true)

	IsAnalyticsEnabled = preference.BooleanDefault(
		preference.MustKey("is_analytics_enabled"), true)
)

// Configuration flags.
var (
	IsFiatConversionEnabled = configuration.BooleanDefaultEntry{
		Key:          preference.MustKey("is_fiat_conversion_enabled"),
		DefaultValue: false,
	}

	FiatCurrency = configuration.StringDefaultEntry{
		Key:          preference.MustKey("fiat_currency"),
		DefaultValue: "usd",
	}

	// SendCooldownMinutes overrides the configured send cooldown when set.
	SendCooldownMinutes = configuration.IntegerDefaultEntry{
		Key:          preference.MustKey("send_cooldown_minutes"),
		DefaultValue: -1,
	}
)
