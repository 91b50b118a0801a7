package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var trustCmd = &cobra.Command{
	Use:   "trust",
	Short: "Manage the plugin allow and deny lists",
	Long: `Manage per-plugin trust overrides.

An allow-list entry pins a plugin id to an exact content checksum. A
deny-list entry revokes a plugin id outright and overrides every other
trust signal, including a valid signature.

Examples:
  trustplane trust allow com.example.tool sha256:ab12...
  trustplane trust revoke com.example.tool
  trustplane trust status`,
}

var trustAllowCmd = &cobra.Command{
	Use:   "allow <plugin-id> <checksum>",
	Short: "Allow-list a plugin at an exact checksum",
	Args:  cobra.ExactArgs(2),
	RunE:  runTrustAllow,
}

var trustRevokeCmd = &cobra.Command{
	Use:   "revoke <plugin-id>",
	Short: "Revoke a plugin id",
	Long: `Add a plugin id to the deny-list.

Revocation is absolute: a revoked plugin is untrusted even if it is
allow-listed or carries a valid signature.`,
	Args: cobra.ExactArgs(1),
	RunE: runTrustRevoke,
}

var trustStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the current trust state",
	Args:  cobra.NoArgs,
	RunE:  runTrustStatus,
}

func init() {
	trustCmd.AddCommand(trustAllowCmd)
	trustCmd.AddCommand(trustRevokeCmd)
	trustCmd.AddCommand(trustStatusCmd)

	rootCmd.AddCommand(trustCmd)
}

func runTrustAllow(cmd *cobra.Command, args []string) error {
	evaluator, _, err := newEvaluator()
	if err != nil {
		return err
	}

	pluginID, checksum := args[0], args[1]
	if err := evaluator.Allow(cmd.Context(), pluginID, checksum); err != nil {
		return err
	}

	fmt.Printf("Allowed %s at checksum %s\n", pluginID, checksum)
	return nil
}

func runTrustRevoke(cmd *cobra.Command, args []string) error {
	evaluator, _, err := newEvaluator()
	if err != nil {
		return err
	}

	pluginID := args[0]
	if err := evaluator.Revoke(cmd.Context(), pluginID); err != nil {
		return err
	}

	fmt.Printf("Revoked %s\n", pluginID)
	return nil
}

func runTrustStatus(cmd *cobra.Command, _ []string) error {
	store, _, err := openStore()
	if err != nil {
		return err
	}

	snapshot, err := store.Load(cmd.Context())
	if err != nil {
		return err
	}

	if len(snapshot.AllowList) == 0 && len(snapshot.DenyList) == 0 && len(snapshot.SigningKeys) == 0 {
		fmt.Println("Trust store is empty.")
		return nil
	}

	if len(snapshot.AllowList) > 0 {
		fmt.Println("Allow-list:")
		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		_, _ = fmt.Fprintln(w, "  PLUGIN ID\tCHECKSUM")
		for _, record := range snapshot.AllowList {
			_, _ = fmt.Fprintf(w, "  %s\t%s\n", record.PluginID, record.Checksum)
		}
		_ = w.Flush()
	}

	if len(snapshot.DenyList) > 0 {
		fmt.Println("Deny-list:")
		for _, id := range snapshot.DenyList {
			fmt.Printf("  %s\n", id)
		}
	}

	fmt.Printf("\nSigning keys: %d (see 'trustplane keys list')\n", len(snapshot.SigningKeys))
	return nil
}
