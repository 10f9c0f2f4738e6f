package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/chriserin/epc/internal/config"
	"github.com/chriserin/epc/internal/db"
	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show protocol counts and the latest build run",
	RunE: func(cmd *cobra.Command, args []string) error {
		return RunStatus(cmd.OutOrStdout())
	},
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func RunStatus(w io.Writer) error {
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

	var count int
	if err := sqlDB.QueryRow(`SELECT COUNT(*) FROM protocols`).Scan(&count); err != nil {
		return fmt.Errorf("counting protocols: %w", err)
	}
	fmt.Fprintf(w, "Protocols: %d\n", count)

	var runID, startedAt string
	err = sqlDB.QueryRow(`SELECT id, started_at FROM runs ORDER BY started_at DESC, id DESC LIMIT 1`).Scan(&runID, &startedAt)
	if err != nil {
		fmt.Fprintln(w, "No builds yet")
		return nil
	}
	fmt.Fprintf(w, "Last run: %s (%s)\n", runID, startedAt)

	rows, err := sqlDB.Query(`
		SELECT status, COUNT(*) AS cnt
		FROM builds
		WHERE run_id = ?
		GROUP BY status
		ORDER BY cnt DESC, status
	`, runID)
	if err != nil {
		return fmt.Errorf("querying build counts: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var status string
		var cnt int
		if err := rows.Scan(&status, &cnt); err != nil {
			return fmt.Errorf("scanning build row: %w", err)
		}
		fmt.Fprintf(w, "  %s: %d\n", status, cnt)
	}

	return rows.Err()
}
