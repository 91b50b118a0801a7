package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trustplane/trustplane/internal/domain/trust"
)

func TestRunTrustAllow(t *testing.T) {
	path := withTempStore(t)

	err := runTrustAllow(testCommand(t), []string{"com.example.tool", "sha256:ab12"})
	require.NoError(t, err)

	snapshot := loadSnapshot(t, path)
	record, ok := snapshot.AllowRecord("com.example.tool")
	require.True(t, ok)
	assert.Equal(t, "sha256:ab12", record.Checksum)
}

func TestRunTrustAllow_EmptyPluginID(t *testing.T) {
	withTempStore(t)

	err := runTrustAllow(testCommand(t), []string{"", "sha256:ab12"})
	assert.ErrorIs(t, err, trust.ErrEmptyPluginID)
}

func TestRunTrustRevoke(t *testing.T) {
	path := withTempStore(t)

	require.NoError(t, runTrustRevoke(testCommand(t), []string{"com.example.tool"}))

	snapshot := loadSnapshot(t, path)
	assert.True(t, snapshot.Denied("com.example.tool"))
}

func TestRunTrustRevoke_OverridesAllow(t *testing.T) {
	path := withTempStore(t)
	cmd := testCommand(t)

	require.NoError(t, runTrustAllow(cmd, []string{"com.example.tool", "sha256:ab12"}))
	require.NoError(t, runTrustRevoke(cmd, []string{"com.example.tool"}))

	snapshot := loadSnapshot(t, path)
	assert.True(t, snapshot.Denied("com.example.tool"))
	// The allow-list entry survives; revocation wins at evaluation time.
	_, ok := snapshot.AllowRecord("com.example.tool")
	assert.True(t, ok)
}

func TestRunTrustStatus_EmptyStore(t *testing.T) {
	withTempStore(t)

	assert.NoError(t, runTrustStatus(testCommand(t), nil))
}

func TestRunTrustStatus_Populated(t *testing.T) {
	withTempStore(t)
	cmd := testCommand(t)

	require.NoError(t, runTrustAllow(cmd, []string{"a.plugin", "sha256:aa"}))
	require.NoError(t, runTrustRevoke(cmd, []string{"b.plugin"}))

	assert.NoError(t, runTrustStatus(cmd, nil))
}
