package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/chriserin/epc/internal/config"
	"github.com/chriserin/epc/internal/db"
	"github.com/chriserin/epc/internal/ui"
	"github.com/spf13/cobra"
)

var listStatusFlag string

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List registered protocols with their latest build status",
	RunE: func(cmd *cobra.Command, args []string) error {
		return RunList(cmd.OutOrStdout(), listStatusFlag)
	},
}

func init() {
	listCmd.Flags().StringVar(&listStatusFlag, "status", "", "Filter by build status")
	rootCmd.AddCommand(listCmd)
}

type listRow struct {
	name   string
	status string
}

func RunList(w io.Writer, statusFilter string) error {
	cfg, err := config.Load(config.File)
	if err != nil {
		return err
	}
	if _, err := os.Stat(cfg.ProtocolsDir); os.IsNotExist(err) {
		return fmt.Errorf("run `epc init` first")
	}

	sqlDB, err := db.Open(registryPath(cfg))
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer sqlDB.Close()

	rows, err := sqlDB.Query(`
		SELECT p.name,
			COALESCE(
				(SELECT status FROM builds WHERE protocol_id = p.id ORDER BY built_at DESC, id DESC LIMIT 1),
				'no-build'
			) AS current_status
		FROM protocols p
		ORDER BY p.name
	`)
	if err != nil {
		return fmt.Errorf("querying protocols: %w", err)
	}
	defer rows.Close()

	var results []listRow
	for rows.Next() {
		var r listRow
		if err := rows.Scan(&r.name, &r.status); err != nil {
			return fmt.Errorf("scanning row: %w", err)
		}
		if statusFilter != "" && r.status != statusFilter {
			continue
		}
		results = append(results, r)
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterating rows: %w", err)
	}

	if len(results) == 0 {
		return nil
	}

	nameWidth := 0
	for _, r := range results {
		if len(r.name) > nameWidth {
			nameWidth = len(r.name)
		}
	}

	for _, r := range results {
		ui.ListRow(w, r.name, r.status, nameWidth)
	}

	return nil
}
