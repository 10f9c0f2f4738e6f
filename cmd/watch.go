package cmd

import (
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/chriserin/epc/internal/config"
	"github.com/chriserin/epc/internal/ui"
	"github.com/chriserin/epc/internal/watch"
	"github.com/spf13/cobra"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Rebuild protocols as their scripts change",
	RunE: func(cmd *cobra.Command, args []string) error {
		stop := make(chan os.Signal, 1)
		signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
		defer signal.Stop(stop)

		done := make(chan struct{})
		go func() {
			<-stop
			close(done)
		}()
		return RunWatch(cmd.OutOrStdout(), done)
	},
}

func init() {
	rootCmd.AddCommand(watchCmd)
}

// RunWatch recompiles each changed .ep file until stop closes. Scripts are
// built straight from disk; the registry is untouched, so watch works on
// unregistered scripts too.
func RunWatch(w io.Writer, stop <-chan struct{}) error {
	cfg, err := config.Load(config.File)
	if err != nil {
		return err
	}
	if _, err := os.Stat(cfg.ProtocolsDir); os.IsNotExist(err) {
		return fmt.Errorf("run `epc init` first")
	}

	watcher, err := watch.New(cfg.ProtocolsDir)
	if err != nil {
		return fmt.Errorf("starting watcher: %w", err)
	}
	if err := watcher.Start(); err != nil {
		return fmt.Errorf("watching %s/: %w", cfg.ProtocolsDir, err)
	}
	defer watcher.Stop()

	fmt.Fprintf(w, "watching %s/ for changes\n", cfg.ProtocolsDir)

	for {
		select {
		case <-stop:
			return nil
		case path := <-watcher.Events:
			name := protocolName(path)
			result := buildOne(cfg, path, name)
			if result.err != nil {
				ui.ErrLine(w, name, result.err.Error())
			} else {
				ui.CmpLine(w, name, result.outputPath)
			}
		}
	}
}
