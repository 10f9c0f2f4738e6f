package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/chriserin/epc/internal/config"
	"github.com/chriserin/epc/internal/db"
	"github.com/spf13/cobra"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize epc in the current directory",
	RunE: func(cmd *cobra.Command, args []string) error {
		return RunInit(cmd.OutOrStdout())
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
}

func RunInit(w io.Writer) error {
	cfg, err := config.Load(config.File)
	if err != nil {
		return err
	}

	// protocols/ directory
	_, err = os.Stat(cfg.ProtocolsDir)
	protocolsExists := err == nil
	if err := os.MkdirAll(cfg.ProtocolsDir, 0o755); err != nil {
		return fmt.Errorf("creating %s directory: %w", cfg.ProtocolsDir, err)
	}
	if protocolsExists {
		fmt.Fprintf(w, "%s/ already exists\n", cfg.ProtocolsDir)
	} else {
		fmt.Fprintf(w, "%s/ created\n", cfg.ProtocolsDir)
	}

	// compiled/ directory
	_, err = os.Stat(cfg.OutDir)
	outExists := err == nil
	if err := os.MkdirAll(cfg.OutDir, 0o755); err != nil {
		return fmt.Errorf("creating %s directory: %w", cfg.OutDir, err)
	}
	if outExists {
		fmt.Fprintf(w, "%s/ already exists\n", cfg.OutDir)
	} else {
		fmt.Fprintf(w, "%s/ created\n", cfg.OutDir)
	}

	// registry database
	dbPath := registryPath(cfg)
	_, err = os.Stat(dbPath)
	dbExists := err == nil
	sqlDB, err := db.Open(dbPath)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	sqlDB.Close()
	if dbExists {
		fmt.Fprintf(w, "%s already exists\n", dbPath)
	} else {
		fmt.Fprintf(w, "%s created\n", dbPath)
	}

	// gitignore
	msgs, err := ensureGitignore(dbPath)
	if err != nil {
		return fmt.Errorf("updating .gitignore: %w", err)
	}
	for _, msg := range msgs {
		fmt.Fprintln(w, msg)
	}

	return nil
}

func ensureGitignore(entry string) ([]string, error) {
	data, err := os.ReadFile(".gitignore")
	if os.IsNotExist(err) {
		if err := os.WriteFile(".gitignore", []byte(entry+"\n"), 0o644); err != nil {
			return nil, err
		}
		return []string{".gitignore created", entry + " added to .gitignore"}, nil
	}
	if err != nil {
		return nil, err
	}

	lines := strings.Split(string(data), "\n")
	for _, line := range lines {
		if strings.TrimSpace(line) == entry {
			return []string{entry + " already in .gitignore"}, nil
		}
	}

	content := string(data)
	if len(content) > 0 && !strings.HasSuffix(content, "\n") {
		content += "\n"
	}
	content += entry + "\n"

	if err := os.WriteFile(".gitignore", []byte(content), 0o644); err != nil {
		return nil, err
	}
	return []string{entry + " added to .gitignore"}, nil
}
