package cmd

import (
	"database/sql"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"

	"github.com/chriserin/epc/internal/config"
	"github.com/chriserin/epc/internal/db"
	"github.com/chriserin/epc/internal/parser"
	"github.com/chriserin/epc/internal/ui"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

var jobsFlag int

var buildCmd = &cobra.Command{
	Use:   "build [name...]",
	Short: "Compile registered protocols to JSON documents",
	RunE: func(cmd *cobra.Command, args []string) error {
		return RunBuild(cmd.OutOrStdout(), args, jobsFlag)
	},
}

func init() {
	buildCmd.Flags().IntVar(&jobsFlag, "jobs", 0, "Max concurrent builds (0 = one per CPU)")
	rootCmd.AddCommand(buildCmd)
}

type buildTarget struct {
	id   int64
	path string
	name string
}

type buildResult struct {
	outputPath string
	steps      int
	stimuli    int
	err        error
}

func RunBuild(w io.Writer, names []string, jobs int) error {
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
	if len(targets) == 0 {
		fmt.Fprintln(w, "no protocols registered")
		return nil
	}

	if jobs <= 0 {
		jobs = cfg.Jobs
	}
	if jobs <= 0 {
		jobs = runtime.NumCPU()
	}

	runID := uuid.NewString()
	if _, err := sqlDB.Exec(`INSERT INTO runs (id) VALUES (?)`, runID); err != nil {
		return fmt.Errorf("recording run: %w", err)
	}

	// Compiles run concurrently; each result lands in its own slot.
	results := make([]buildResult, len(targets))
	g := new(errgroup.Group)
	g.SetLimit(jobs)
	for i, target := range targets {
		i, target := i, target
		g.Go(func() error {
			results[i] = buildOne(cfg, target.path, target.name)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return fmt.Errorf("building: %w", err)
	}

	// Registry writes and output stay on this goroutine.
	ok, failed := 0, 0
	for i, target := range targets {
		result := results[i]
		if result.err != nil {
			failed++
			ui.ErrLine(w, target.name, result.err.Error())
			_, err = sqlDB.Exec(
				`INSERT INTO builds (protocol_id, run_id, status, message) VALUES (?, ?, 'error', ?)`,
				target.id, runID, result.err.Error())
		} else {
			ok++
			ui.CmpLine(w, target.name, result.outputPath)
			_, err = sqlDB.Exec(
				`INSERT INTO builds (protocol_id, run_id, status, output_path, steps, stimuli) VALUES (?, ?, 'ok', ?, ?, ?)`,
				target.id, runID, result.outputPath, result.steps, result.stimuli)
		}
		if err != nil {
			return fmt.Errorf("recording build for %s: %w", target.name, err)
		}
	}

	ui.BuildSummary(w, ok, failed)
	if failed > 0 {
		return fmt.Errorf("%d of %d builds failed", failed, len(targets))
	}
	return nil
}

// buildTargets selects all registered protocols, or just the named ones.
// Asking for an unregistered name is an error.
func buildTargets(sqlDB *sql.DB, names []string) ([]buildTarget, error) {
	if len(names) == 0 {
		rows, err := sqlDB.Query(`SELECT id, file_path, name FROM protocols ORDER BY name`)
		if err != nil {
			return nil, fmt.Errorf("querying protocols: %w", err)
		}
		defer rows.Close()

		var targets []buildTarget
		for rows.Next() {
			var t buildTarget
			if err := rows.Scan(&t.id, &t.path, &t.name); err != nil {
				return nil, fmt.Errorf("scanning protocol row: %w", err)
			}
			targets = append(targets, t)
		}
		return targets, rows.Err()
	}

	var targets []buildTarget
	for _, name := range names {
		var t buildTarget
		err := sqlDB.QueryRow(`SELECT id, file_path, name FROM protocols WHERE name = ?`, name).Scan(&t.id, &t.path, &t.name)
		if err != nil {
			return nil, fmt.Errorf("protocol %s not registered; run `epc sync`", name)
		}
		targets = append(targets, t)
	}
	return targets, nil
}

// buildOne compiles a single script and writes its JSON document. It touches
// no shared state, so any number may run concurrently.
func buildOne(cfg config.Config, path, name string) buildResult {
	content, err := os.ReadFile(path)
	if err != nil {
		return buildResult{err: err}
	}

	doc, err := parser.Compile(content)
	if err != nil {
		return buildResult{err: err}
	}

	var data []byte
	if cfg.Pretty {
		data, err = parser.SerializeIndent(doc)
	} else {
		data, err = parser.Serialize(doc)
	}
	if err != nil {
		return buildResult{err: err}
	}

	if err := os.MkdirAll(cfg.OutDir, 0o755); err != nil {
		return buildResult{err: err}
	}
	outputPath := filepath.Join(cfg.OutDir, name+".json")
	if err := os.WriteFile(outputPath, data, 0o644); err != nil {
		return buildResult{err: err}
	}

	return buildResult{
		outputPath: outputPath,
		steps:      len(doc.Pre) + len(doc.Main) + len(doc.Post),
		stimuli:    len(doc.Catalog),
	}
}
