package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/mod/semver"
	"gopkg.in/yaml.v3"

	"github.com/trustplane/trustplane/internal/domain/trust"
)

var evaluateCmd = &cobra.Command{
	Use:   "evaluate <manifest.yaml>",
	Short: "Evaluate a plugin manifest against the trust store",
	Long: `Evaluate a plugin manifest and print the decision.

The exit code maps the decision level: 0 trusted, 1 untrusted,
2 requires approval.

Manifest format:
  id: com.example.tool
  version: 1.4.0
  checksum: sha256:ab12...
  signature: <base64>
  signature_key_id: release-2026
  signature_algorithm: ed25519`,
	Args: cobra.ExactArgs(1),
	RunE: runEvaluate,
}

func init() {
	rootCmd.AddCommand(evaluateCmd)
}

func runEvaluate(cmd *cobra.Command, args []string) error {
	data, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("failed to read manifest: %w", err)
	}

	var manifest trust.Manifest
	if err := yaml.Unmarshal(data, &manifest); err != nil {
		return fmt.Errorf("failed to parse manifest: %w", err)
	}
	if manifest.ID == "" {
		return fmt.Errorf("manifest has no plugin id")
	}

	if manifest.Version != "" && !semver.IsValid(normalizeVersion(manifest.Version)) {
		_, _ = fmt.Fprintf(os.Stderr, "Warning: version %q is not valid semver\n", manifest.Version)
	}

	evaluator, _, err := newEvaluator()
	if err != nil {
		return err
	}

	decision, err := evaluator.Evaluate(cmd.Context(), manifest)
	if err != nil {
		return err
	}

	fmt.Printf("Plugin:   %s", manifest.ID)
	if manifest.Version != "" {
		fmt.Printf("@%s", manifest.Version)
	}
	fmt.Println()
	fmt.Printf("Decision: %s\n", decision.Level)
	if len(decision.Reasons) > 0 {
		reasons := make([]string, 0, len(decision.Reasons))
		for _, r := range decision.Reasons.List() {
			reasons = append(reasons, string(r))
		}
		fmt.Printf("Reasons:  %s\n", strings.Join(reasons, ", "))
	}

	switch decision.Level {
	case trust.LevelTrusted:
		return nil
	case trust.LevelRequiresApproval:
		os.Exit(2)
	default:
		os.Exit(1)
	}
	return nil
}

// normalizeVersion ensures the "v" prefix semver comparison expects.
func normalizeVersion(v string) string {
	if !strings.HasPrefix(v, "v") {
		return "v" + v
	}
	return v
}
