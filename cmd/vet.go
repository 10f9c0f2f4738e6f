package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/chriserin/epc/internal/config"
	"github.com/chriserin/epc/internal/db"
	"github.com/chriserin/epc/internal/parser"
	"github.com/chriserin/epc/internal/ui"
	"github.com/spf13/cobra"
)

var vetCmd = &cobra.Command{
	Use:   "vet [name...]",
	Short: "Lint registered protocols",
	RunE: func(cmd *cobra.Command, args []string) error {
		return RunVet(cmd.OutOrStdout(), args)
	},
}

func init() {
	rootCmd.AddCommand(vetCmd)
}

func RunVet(w io.Writer, names []string) error {
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

	targets, err := buildTargets(sqlDB, names)
	if err != nil {
		return err
	}

	total := 0
	for _, target := range targets {
		content, err := os.ReadFile(target.path)
		if err != nil {
			return fmt.Errorf("reading %s: %w", target.path, err)
		}
		for _, issue := range parser.Vet(content) {
			ui.FixLine(w, target.name, issue.Line, issue.Message)
			total++
		}
	}

	if total > 0 {
		return fmt.Errorf("%d issues found", total)
	}
	fmt.Fprintln(w, "no issues found")
	return nil
}
