package cmd

import (
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/chriserin/epc/internal/config"
	"github.com/chriserin/epc/internal/db"
	"github.com/chriserin/epc/internal/parser"
	"github.com/chriserin/epc/internal/ui"
	"github.com/spf13/cobra"
)

var showCmd = &cobra.Command{
	Use:   "show <name>",
	Short: "Compile one protocol and print a summary",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return RunShow(cmd.OutOrStdout(), args[0])
	},
}

func init() {
	rootCmd.AddCommand(showCmd)
}

func RunShow(w io.Writer, name string) error {
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

	var filePath string
	err = sqlDB.QueryRow(`SELECT file_path FROM protocols WHERE name = ?`, name).Scan(&filePath)
	if err != nil {
		return fmt.Errorf("protocol %s not registered; run `epc sync`", name)
	}

	content, err := os.ReadFile(filePath)
	if err != nil {
		return fmt.Errorf("reading %s: %w", filePath, err)
	}

	doc, err := parser.Compile(content)
	if err != nil {
		return fmt.Errorf("compiling %s: %w", filePath, err)
	}

	ui.ShowHeader(w, name)
	ui.ShowStat(w, "stimuli", stimulusSummary(doc.Catalog))
	ui.ShowStat(w, "pre", sequenceSummary(doc.Pre))
	ui.ShowStat(w, "main", sequenceSummary(doc.Main))
	ui.ShowStat(w, "post", sequenceSummary(doc.Post))

	return nil
}

// stimulusSummary renders catalog counts by type, e.g. "5 (image 3, text 2)".
func stimulusSummary(catalog parser.Catalog) string {
	if len(catalog) == 0 {
		return "0"
	}

	counts := make(map[parser.StimulusType]int)
	for _, stim := range catalog {
		counts[stim.Type]++
	}
	types := make([]string, 0, len(counts))
	for typ := range counts {
		types = append(types, string(typ))
	}
	sort.Strings(types)

	out := fmt.Sprintf("%d (", len(catalog))
	for i, typ := range types {
		if i > 0 {
			out += ", "
		}
		out += fmt.Sprintf("%s %d", typ, counts[parser.StimulusType(typ)])
	}
	return out + ")"
}

// sequenceSummary renders step count and onset span, e.g. "4 steps over 2500 ms".
func sequenceSummary(steps []parser.Step) string {
	if len(steps) == 0 {
		return "0 steps"
	}
	span := steps[len(steps)-1].OnsetTime - steps[0].OnsetTime
	return fmt.Sprintf("%d steps over %d ms", len(steps), span)
}
