package main

import (
	"fmt"
	"os"

	"github.com/phanxgames/tabletop"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	runScript string
	runFPS    bool
	runDebug  bool
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Open the tabletop viewer",
	Long: `Opens a window showing the table. Ctrl-click the ground to spawn a piece,
click to select, Shift-click to toggle, and drag to move. F focuses the
selection, Home resets the camera, Delete removes selected pieces.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		log, err := newLogger()
		if err != nil {
			return fmt.Errorf("creating logger: %w", err)
		}
		defer func() { _ = log.Sync() }()

		table, err := tabletop.NewTable(cfg, log)
		if err != nil {
			return fmt.Errorf("creating table: %w", err)
		}
		table.SetDebugMode(runDebug)

		var runner *tabletop.ScriptRunner
		if runScript != "" {
			data, err := os.ReadFile(runScript)
			if err != nil {
				return fmt.Errorf("reading script: %w", err)
			}
			runner, err = tabletop.LoadScript(data)
			if err != nil {
				return err
			}
			table.SetScript(runner)
			log.Info("script loaded", zap.String("path", runScript))
		}

		return tabletop.Run(table, tabletop.RunConfig{
			Title:   cfg.Window.Title,
			Width:   cfg.Window.Width,
			Height:  cfg.Window.Height,
			ShowFPS: runFPS,
		})
	},
}

func init() {
	rootCmd.AddCommand(runCmd)
	runCmd.Flags().StringVarP(&runScript, "script", "s", "", "Replay a JSON interaction script")
	runCmd.Flags().BoolVar(&runFPS, "fps", false, "Show FPS and piece counters")
	runCmd.Flags().BoolVarP(&runDebug, "debug", "d", false, "Report stale drag sessions")
}
