package main

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/AlexZinkM/zec-wallet/internal/model"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func TestSettingsCommand(t *testing.T) {
	dir := t.TempDir()

	out, err := execute(t, "settings", "--data-dir", dir)
	require.NoError(t, err)
	var resp model.SettingsResponse
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	require.True(t, resp.IsAnalyticsEnabled)

	out, err = execute(t, "settings", "analytics", "false", "--data-dir", dir)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	require.False(t, resp.IsAnalyticsEnabled)
	require.True(t, resp.IsBackgroundSyncEnabled)

	// Persisted across invocations.
	out, err = execute(t, "settings", "--data-dir", dir)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	require.False(t, resp.IsAnalyticsEnabled)
}

func TestSettingsCommandRejectsBadInput(t *testing.T) {
	dir := t.TempDir()

	_, err := execute(t, "settings", "volume", "true", "--data-dir", dir)
	require.ErrorContains(t, err, "unknown setting")

	_, err = execute(t, "settings", "analytics", "maybe", "--data-dir", dir)
	require.ErrorContains(t, err, "invalid value")

	_, err = execute(t, "settings", "analytics", "--data-dir", dir)
	require.Error(t, err)
}
