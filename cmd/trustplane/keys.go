package main

import (
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/trustplane/trustplane/internal/adapters/keyimport"
)

var keysCmd = &cobra.Command{
	Use:   "keys",
	Short: "Manage plugin signing keys",
	Long: `Manage the signing keys used to verify plugin signatures.

Keys normally arrive through the key bundle refresher; these commands
cover manual distribution and emergency revocation.

Examples:
  trustplane keys list
  trustplane keys import ~/.ssh/id_ed25519.pub --id release-2026
  trustplane keys revoke release-2024`,
}

var keysListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List signing keys",
	Args:    cobra.NoArgs,
	RunE:    runKeysList,
}

var keysImportCmd = &cobra.Command{
	Use:   "import <openssh-pubkey-file>",
	Short: "Import an ed25519 public key",
	Long: `Add a signing key from an OpenSSH public key file (id_ed25519.pub
format). Only ed25519 keys are accepted.`,
	Args: cobra.ExactArgs(1),
	RunE: runKeysImport,
}

var keysRevokeCmd = &cobra.Command{
	Use:   "revoke <key-id>",
	Short: "Revoke a signing key",
	Long: `Mark a signing key as revoked. Signatures made with a revoked key
send the plugin to user approval rather than automatic trust.`,
	Args: cobra.ExactArgs(1),
	RunE: runKeysRevoke,
}

// Flags.
var (
	keyID       string
	keyNotAfter string
)

func init() {
	keysImportCmd.Flags().StringVar(&keyID, "id", "", "key id (default: key comment, else generated)")
	keysImportCmd.Flags().StringVar(&keyNotAfter, "not-after", "", "validity end, RFC 3339")

	keysCmd.AddCommand(keysListCmd)
	keysCmd.AddCommand(keysImportCmd)
	keysCmd.AddCommand(keysRevokeCmd)

	rootCmd.AddCommand(keysCmd)
}

func runKeysList(cmd *cobra.Command, _ []string) error {
	store, _, err := openStore()
	if err != nil {
		return err
	}

	snapshot, err := store.Load(cmd.Context())
	if err != nil {
		return err
	}

	if len(snapshot.SigningKeys) == 0 {
		fmt.Println("No signing keys.")
		return nil
	}

	now := time.Now()
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "KEY ID\tALGORITHM\tNOT BEFORE\tNOT AFTER\tSTATUS")
	for _, key := range snapshot.SigningKeys {
		status := "active"
		switch {
		case key.RevokedAt != nil:
			status = "revoked"
		case !key.ValidAt(now):
			status = "expired"
		}
		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
			key.ID,
			key.Algorithm,
			formatBound(key.NotBefore),
			formatBound(key.NotAfter),
			status,
		)
	}
	_ = w.Flush()

	return nil
}

func formatBound(t *time.Time) string {
	if t == nil {
		return "-"
	}
	return t.Format(time.RFC3339)
}

func runKeysImport(cmd *cobra.Command, args []string) error {
	data, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("failed to read key file: %w", err)
	}

	key, err := keyimport.FromAuthorizedKey(data, keyID)
	if err != nil {
		return err
	}

	if keyNotAfter != "" {
		notAfter, err := time.Parse(time.RFC3339, keyNotAfter)
		if err != nil {
			return fmt.Errorf("invalid --not-after: %w", err)
		}
		key.NotAfter = &notAfter
	}

	store, _, err := openStore()
	if err != nil {
		return err
	}

	snapshot, err := store.Load(cmd.Context())
	if err != nil {
		return err
	}
	snapshot.UpsertKey(key)
	if err := store.Save(cmd.Context(), snapshot); err != nil {
		return err
	}

	fmt.Printf("Imported key: %s\n", key.ID)
	return nil
}

func runKeysRevoke(cmd *cobra.Command, args []string) error {
	store, _, err := openStore()
	if err != nil {
		return err
	}

	snapshot, err := store.Load(cmd.Context())
	if err != nil {
		return err
	}

	if !snapshot.RevokeKey(args[0], time.Now()) {
		return fmt.Errorf("key not found: %s", args[0])
	}
	if err := store.Save(cmd.Context(), snapshot); err != nil {
		return err
	}

	fmt.Printf("Revoked key: %s\n", args[0])
	return nil
}
