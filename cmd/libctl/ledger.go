package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

func newLedgerCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ledger",
		Short: "Inspect stock bookkeeping",
	}
	var strict bool
	check := &cobra.Command{
		Use:   "check",
		Short: "List books whose stock disagrees with copies on loan",
		RunE: func(c *cobra.Command, _ []string) error {
			m, err := openMaintenance(c.Context())
			if err != nil {
				return err
			}
			defer m.Close()
			drift, err := m.CheckLedger(c.Context())
			if err != nil {
				return err
			}
			enc := json.NewEncoder(c.OutOrStdout())
			enc.SetIndent("", "  ")
			if err := enc.Encode(drift); err != nil {
				return err
			}
			if strict && len(drift) > 0 {
				return fmt.Errorf("%d books out of balance", len(drift))
			}
			return nil
		},
	}
	check.Flags().BoolVar(&strict, "strict", false, "exit non-zero when drift is found")
	cmd.AddCommand(check)
	return cmd
}
