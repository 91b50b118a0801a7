package main

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/require"

	"github.com/trustplane/trustplane/internal/domain/trust"
)

// withTempStore points the global flags at an isolated config and store.
// Tests in this package mutate package-level flag state and must not run
// in parallel.
func withTempStore(t *testing.T) string {
	t.Helper()

	dir := t.TempDir()
	prevCfg, prevStore := cfgFile, storePath
	cfgFile = filepath.Join(dir, "config.toml")
	storePath = filepath.Join(dir, "trust.json")
	t.Cleanup(func() {
		cfgFile, storePath = prevCfg, prevStore
	})
	return storePath
}

func testCommand(t *testing.T) *cobra.Command {
	t.Helper()

	cmd := &cobra.Command{}
	cmd.SetContext(context.Background())
	return cmd
}

func loadSnapshot(t *testing.T, path string) trust.Snapshot {
	t.Helper()

	snapshot, err := trust.NewFileStore(path).Load(context.Background())
	require.NoError(t, err)
	return snapshot
}
