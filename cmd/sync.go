package cmd

import (
	"database/sql"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/chriserin/epc/internal/config"
	"github.com/chriserin/epc/internal/db"
	"github.com/chriserin/epc/internal/ui"
	"github.com/spf13/cobra"
)

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Scan the protocols directory and register new .ep scripts",
	RunE: func(cmd *cobra.Command, args []string) error {
		return RunSync(cmd.OutOrStdout())
	},
}

func init() {
	rootCmd.AddCommand(syncCmd)
}

// registryPath is where the sqlite registry lives inside the project.
func registryPath(cfg config.Config) string {
	return filepath.Join(cfg.ProtocolsDir, "epc.db")
}

func protocolName(path string) string {
	return strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
}

func RunSync(w io.Writer) error {
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

	matches, err := filepath.Glob(filepath.Join(cfg.ProtocolsDir, "*.ep"))
	if err != nil {
		return fmt.Errorf("scanning %s/: %w", cfg.ProtocolsDir, err)
	}
	sort.Strings(matches)

	count := 0
	for _, path := range matches {
		var id int
		err := sqlDB.QueryRow(`SELECT id FROM protocols WHERE file_path = ?`, path).Scan(&id)
		if err == sql.ErrNoRows {
			_, err = sqlDB.Exec(`INSERT INTO protocols (file_path, name) VALUES (?, ?)`, path, protocolName(path))
			if err != nil {
				return fmt.Errorf("inserting %s: %w", path, err)
			}
			ui.NewLine(w, path)
		} else if err != nil {
			return fmt.Errorf("querying %s: %w", path, err)
		} else {
			ui.TrkLine(w, path)
		}
		count++
	}

	ui.SyncSummary(w, count)
	return nil
}
