package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	"muxd/internal/config"
	"muxd/internal/session"
	"muxd/internal/session/eventlog"
)

func newServeCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "serve [name]",
		Short: "Run a muxd session daemon in the foreground",
		Long: `Starts the daemon that owns this session's tabs, panes, and PTY
children, and listens on a Unix socket for attach clients. Runs in the
foreground until a client sends Quit or the process receives SIGINT/SIGTERM.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := "main"
			if len(args) == 1 {
				name = args[0]
			}

			cfg, err := loadConfig(configPath)
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}

			logDir := filepath.Join(config.ConfigDir(), "logs")
			if err := os.MkdirAll(logDir, 0o700); err != nil {
				return fmt.Errorf("create log dir: %w", err)
			}
			log, err := eventlog.Open(filepath.Join(logDir, name+".log"))
			if err != nil {
				return fmt.Errorf("open event log: %w", err)
			}

			d := session.New(name, cfg, log)
			if err := d.Listen(); err != nil {
				return err
			}

			sigCh := make(chan os.Signal, 1)
			signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
			go func() {
				<-sigCh
				d.Close()
			}()

			return d.Run()
		},
	}

	cmd.Flags().StringVar(&configPath, "config", "", "Path to config.yaml (defaults to ~/.config/muxd/config.yaml)")

	return cmd
}

func loadConfig(path string) (*config.Config, error) {
	if path == "" {
		return config.Load()
	}
	return config.LoadFrom(path)
}
