package cmd

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"quality-admin/feature/dataquality"
	"quality-admin/feature/dataquality/models"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	rulesOrg   int
	rulesOut   string
	rulesYes   bool
	rollbackTo string
	deleteKey  string
)

// rulesCmd is the parent command for rule maintenance.
var rulesCmd = &cobra.Command{
	Use:   "rules",
	Short: "Inspect and maintain the data quality rules of an organization",
	Long: `Inspect and maintain the stored data quality rules of an organization.

Examples:
  # Print the rules
  rules show --org 1

  # Export to a file and import it into another organization
  rules export --org 1 --out rules.json
  rules import --org 2 rules.json

  # Undo the last save
  rules rollback --org 1 --yes`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if rulesOrg <= 0 {
			return fmt.Errorf("--org is required")
		}
		return nil
	},
}

var rulesShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the stored rules as a table",
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := bootstrap()
		if err != nil {
			return err
		}
		p, err := rt.service().FetchRules(cmd.Context(), rulesOrg)
		if err != nil {
			return err
		}
		printRules(cmd.OutOrStdout(), p)
		return nil
	},
}

var rulesExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write the stored rules as JSON",
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := bootstrap()
		if err != nil {
			return err
		}
		p, err := rt.service().FetchRules(cmd.Context(), rulesOrg)
		if err != nil {
			return err
		}
		data, err := json.MarshalIndent(p, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal JSON: %w", err)
		}
		if rulesOut == "" || rulesOut == "-" {
			_, err = fmt.Fprintln(cmd.OutOrStdout(), string(data))
			return err
		}
		if err := os.WriteFile(rulesOut, data, 0644); err != nil {
			return fmt.Errorf("failed to save JSON file: %w", err)
		}
		rt.logg.Info("Exported rules", zap.Int("org_id", rulesOrg), zap.String("file", rulesOut))
		return nil
	},
}

var rulesImportCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Replace the stored rules with a JSON export",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := readPayload(args[0])
		if err != nil {
			return err
		}
		if !confirm(cmd, fmt.Sprintf("Replace the rules of organization %d (%d properties, %d taxlots)?", rulesOrg, len(p.Properties), len(p.Taxlots))) {
			return nil
		}

		rt, err := bootstrap()
		if err != nil {
			return err
		}
		if err := rt.service().SaveRules(cmd.Context(), rulesOrg, p); err != nil {
			return err
		}
		rt.logg.Info("Imported rules", zap.Int("org_id", rulesOrg), zap.String("file", args[0]))
		return nil
	},
}

var rulesRestoreCmd = &cobra.Command{
	Use:   "restore-defaults",
	Short: "Replace the stored rules with the default rule set",
	RunE: func(cmd *cobra.Command, args []string) error {
		if !confirm(cmd, fmt.Sprintf("Restore the default rules of organization %d?", rulesOrg)) {
			return nil
		}
		rt, err := bootstrap()
		if err != nil {
			return err
		}
		p, err := rt.service().RestoreDefaultRules(cmd.Context(), rulesOrg)
		if err != nil {
			return err
		}
		rt.logg.Info("Restored default rules", zap.Int("org_id", rulesOrg), zap.Int("properties", len(p.Properties)), zap.Int("taxlots", len(p.Taxlots)))
		return nil
	},
}

var rulesResetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Delete every stored rule",
	RunE: func(cmd *cobra.Command, args []string) error {
		if !confirm(cmd, fmt.Sprintf("Delete all rules of organization %d?", rulesOrg)) {
			return nil
		}
		rt, err := bootstrap()
		if err != nil {
			return err
		}
		if _, err := rt.service().ResetAllRules(cmd.Context(), rulesOrg); err != nil {
			return err
		}
		rt.logg.Info("Reset all rules", zap.Int("org_id", rulesOrg))
		return nil
	},
}

var rulesSnapshotsCmd = &cobra.Command{
	Use:   "snapshots",
	Short: "List archived rule snapshots, newest first",
	Long:  `Lists the archived rule snapshots, newest first. With --delete, removes one snapshot instead.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := bootstrap()
		if err != nil {
			return err
		}
		if rt.archive == nil {
			return fmt.Errorf("snapshot archive is disabled, set STORAGE_ENABLED=true")
		}

		if deleteKey != "" {
			if !confirm(cmd, fmt.Sprintf("Delete snapshot %s?", deleteKey)) {
				return nil
			}
			return rt.service().DeleteSnapshot(cmd.Context(), rulesOrg, deleteKey)
		}

		snaps, err := rt.archive.List(cmd.Context(), rulesOrg)
		if err != nil {
			return err
		}

		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "TAKEN\tSIZE\tKEY")
		for _, s := range snaps {
			fmt.Fprintf(w, "%s\t%d\t%s\n", s.Taken.Format("2006-01-02 15:04:05"), s.Size, s.Key)
		}
		return w.Flush()
	},
}

var rulesRollbackCmd = &cobra.Command{
	Use:   "rollback",
	Short: "Save an archived snapshot as the current rules",
	Long:  `Saves the newest archived snapshot, or the one given with --key, as the current rule set.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		target := rollbackTo
		if target == "" {
			target = "the latest snapshot"
		}
		if !confirm(cmd, fmt.Sprintf("Roll back organization %d to %s?", rulesOrg, target)) {
			return nil
		}
		rt, err := bootstrap()
		if err != nil {
			return err
		}
		snap, err := rt.service().Rollback(cmd.Context(), rulesOrg, rollbackTo)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Rolled back to %s (%s)\n", snap.Key, snap.Taken.Format("2006-01-02 15:04:05"))
		return nil
	},
}

func init() {
	rulesCmd.PersistentFlags().IntVar(&rulesOrg, "org", 0, "Organization id")
	rulesExportCmd.Flags().StringVarP(&rulesOut, "out", "o", "", "Output file (stdout when empty)")
	rulesRollbackCmd.Flags().StringVar(&rollbackTo, "key", "", "Snapshot key (latest when empty)")
	rulesSnapshotsCmd.Flags().StringVar(&deleteKey, "delete", "", "Delete the snapshot with this key")
	for _, c := range []*cobra.Command{rulesImportCmd, rulesRestoreCmd, rulesResetCmd, rulesRollbackCmd, rulesSnapshotsCmd} {
		c.Flags().BoolVarP(&rulesYes, "yes", "y", false, "Auto-confirm (non-interactive)")
	}

	rulesCmd.AddCommand(rulesShowCmd, rulesExportCmd, rulesImportCmd, rulesRestoreCmd, rulesResetCmd, rulesSnapshotsCmd, rulesRollbackCmd)
	RootCmd.AddCommand(rulesCmd)
}

// readPayload reads an export. Both a bare payload and a {"data_quality_rules": ...} body are accepted.
func readPayload(path string) (*models.Payload, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	var body dataquality.SaveRulesDTO
	if err := json.Unmarshal(data, &body); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	if body.Rules == nil {
		p := models.NewPayload()
		if err := json.Unmarshal(data, p); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", path, err)
		}
		body.Rules = p
	}
	if errs, ok := body.Ok(); !ok {
		return nil, fmt.Errorf("invalid rules in %s: %v", path, errs)
	}
	return body.Rules, nil
}

func confirm(cmd *cobra.Command, question string) bool {
	if rulesYes {
		return true
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s [y/N]: ", question)
	answer, _ := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
	answer = strings.ToLower(strings.TrimSpace(answer))
	if answer != "y" && answer != "yes" {
		fmt.Fprintln(cmd.OutOrStdout(), "Aborted.")
		return false
	}
	return true
}

func printRules(out io.Writer, p *models.Payload) {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "INVENTORY\tFIELD\tTYPE\tENABLED\tREQUIRED\tNOT NULL\tMIN\tMAX\tSEVERITY\tUNITS\tLABEL")
	row := func(inv string, rules []models.WireRule) {
		for _, r := range rules {
			fmt.Fprintf(w, "%s\t%s\t%s\t%t\t%t\t%t\t%s\t%s\t%s\t%s\t%s\n",
				inv, r.Field, orDash(string(r.DataType)), r.Enabled, r.Required, r.NotNull,
				numOrDash(r.Min), numOrDash(r.Max), r.Severity, r.Units, labelOrDash(r.Label))
		}
	}
	row("properties", p.Properties)
	row("taxlots", p.Taxlots)
	_ = w.Flush()
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func numOrDash(v *float64) string {
	if v == nil {
		return "-"
	}
	return fmt.Sprintf("%g", *v)
}

func labelOrDash(v *int) string {
	if v == nil {
		return "-"
	}
	return fmt.Sprintf("%d", *v)
}
