package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sort"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/AlexZinkM/zec-wallet/internal/config"
	"github.com/AlexZinkM/zec-wallet/internal/crypto"
	"github.com/AlexZinkM/zec-wallet/internal/model"
	"github.com/AlexZinkM/zec-wallet/wallet"
)

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

var stateCmd = &cobra.Command{
	Use:   "state",
	Short: "Print the secret state of the stored wallet",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openAll(cmd.Context())
		if err != nil {
			return err
		}
		defer s.Close()

		stored, err := s.manager().StoredWallet(cmd.Context())
		if err != nil {
			return err
		}
		backup, err := wallet.IsUserBackupComplete.GetValue(cmd.Context(), s.standard)
		if err != nil {
			return err
		}
		return printJSON(cmd.OutOrStdout(), model.NewSecretStateResponse(model.DeriveSecretState(stored, backup)))
	},
}

var backupCompleteCmd = &cobra.Command{
	Use:   "backup-complete",
	Short: "Mark the seed phrase as backed up",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openAll(cmd.Context())
		if err != nil {
			return err
		}
		defer s.Close()

		m := s.manager()
		stored, err := m.SeedPhrase(cmd.Context())
		if err != nil {
			return err
		}
		if err := m.PersistBackupComplete(cmd.Context()); err != nil {
			return err
		}
		return printJSON(cmd.OutOrStdout(), model.NewSecretStateResponse(model.ReadyState(stored)))
	},
}

var rekeyCmd = &cobra.Command{
	Use:   "rekey",
	Short: "Re-encrypt the wallet store under a new password",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openAll(cmd.Context())
		if err != nil {
			return err
		}
		defer s.Close()

		newPassword, err := config.ReadPassword("Enter new password: ")
		if err != nil {
			return err
		}
		defer clear(newPassword)

		confirm, err := config.ReadPassword("Repeat new password: ")
		if err != nil {
			return err
		}
		defer clear(confirm)

		if !bytes.Equal(newPassword, confirm) {
			return errors.New("passwords do not match")
		}

		if err := s.encrypted.Rekey(cmd.Context(), newPassword, wallet.EncryptedKeys, crypto.DefaultParams); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Password changed")
		return nil
	},
}

// settingNames maps CLI names to request fields.
var settingNames = map[string]func(*model.SettingsRequest, *bool){
	"background_sync": func(r *model.SettingsRequest, v *bool) { r.IsBackgroundSyncEnabled = v },
	"keep_screen_on":  func(r *model.SettingsRequest, v *bool) { r.IsKeepScreenOnWhileSyncing = v },
	"analytics":       func(r *model.SettingsRequest, v *bool) { r.IsAnalyticsEnabled = v },
}

var settingsCmd = &cobra.Command{
	Use:   "settings [name value]",
	Short: "Print the settings, or change one",
	Long: `Without arguments prints the settings. With a name and a value changes
one setting. Names: background_sync, keep_screen_on, analytics.`,
	Args: func(cmd *cobra.Command, args []string) error {
		if len(args) != 0 && len(args) != 2 {
			return errors.New("expected no arguments or a name and a value")
		}
		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openStandard()
		if err != nil {
			return err
		}
		defer s.Close()

		m := s.manager()
		if len(args) == 0 {
			resp, err := m.Settings(cmd.Context())
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), resp)
		}

		set, ok := settingNames[args[0]]
		if !ok {
			names := make([]string, 0, len(settingNames))
			for name := range settingNames {
				names = append(names, name)
			}
			sort.Strings(names)
			return fmt.Errorf("unknown setting %q, expected one of %v", args[0], names)
		}
		value, err := strconv.ParseBool(args[1])
		if err != nil {
			return fmt.Errorf("invalid value %q: %w", args[1], err)
		}

		var req model.SettingsRequest
		set(&req, &value)
		resp, err := m.UpdateSettings(cmd.Context(), req)
		if err != nil {
			return err
		}
		return printJSON(cmd.OutOrStdout(), resp)
	},
}
