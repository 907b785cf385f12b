package main

import (
	"fmt"
	"os"
	"time"

	"drive-canvas.klederson.com/internal/app"
	"drive-canvas.klederson.com/internal/config"
	"drive-canvas.klederson.com/internal/monitoring"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
)

var (
	flagDemo         bool
	flagURL          string
	flagWidth        int
	flagHeight       int
	flagMode         string
	flagFPS          int
	flagInterval     time.Duration
	flagFade         float64
	flagSeed         int64
	flagHeadless     bool
	flagDuration     time.Duration
	flagExportOnExit bool
	flagExportDir    string
	flagLogFile      string
)

func main() {
	def := config.Default()

	rootCmd := &cobra.Command{
		Use:   "drive-canvas",
		Short: "Drive Canvas - generative painting driven by live vehicle telemetry",
		Long: `Drive Canvas turns driving telemetry into an evolving abstract painting.
Each connected driver becomes a painter with its own colour zone and persona;
speed, steering, throttle and braking shape the marks it leaves.

Telemetry is read from a websocket server. Use --demo to paint with five
synthetic drivers instead. Settings may also come from .env files and
DRIVE_CANVAS_* environment variables; flags take precedence.`,
		SilenceUsage: true,
		RunE:         run,
	}

	f := rootCmd.Flags()
	f.BoolVar(&flagDemo, "demo", false, "Paint with synthetic drivers (no telemetry server required)")
	f.StringVar(&flagURL, "url", def.SourceURL, "Websocket URL of the telemetry server")
	f.IntVar(&flagWidth, "width", def.Width, "Canvas width in pixels")
	f.IntVar(&flagHeight, "height", def.Height, "Canvas height in pixels")
	f.StringVar(&flagMode, "mode", string(def.Mode), "Render mode: marks or lines")
	f.IntVar(&flagFPS, "fps", def.FPS, "Frame rate of the fade overlay and display")
	f.DurationVar(&flagInterval, "interval", def.PaintInterval, "Base time between marks of one painter")
	f.Float64Var(&flagFade, "fade", def.FadeRate, "Alpha of the paper overlay added per frame")
	f.Int64Var(&flagSeed, "seed", def.GenerationSeed, "Generation seed for personas and variation")
	f.BoolVar(&flagHeadless, "headless", false, "Paint without a terminal UI")
	f.DurationVar(&flagDuration, "duration", 0, "Stop after this long (0 runs until quit)")
	f.BoolVar(&flagExportOnExit, "export-on-exit", false, "Write the canvas as PNG when stopping")
	f.StringVar(&flagExportDir, "export-dir", def.ExportDir, "Directory for PNG exports")
	f.StringVar(&flagLogFile, "log-file", def.LogFile, "Log file used while the terminal UI is active")

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, args []string) error {
	cfg := config.Default()
	if err := config.LoadEnv(&cfg); err != nil {
		return err
	}
	applyFlags(cmd, &cfg)
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	if !cfg.Headless {
		logFile, err := tea.LogToFile(cfg.LogFile, "drive-canvas")
		if err != nil {
			return fmt.Errorf("failed to open log file: %w", err)
		}
		defer logFile.Close()
	}

	model := app.New(cfg)

	opts := []tea.ProgramOption{tea.WithFPS(cfg.FPS)}
	if cfg.Headless {
		opts = append(opts, tea.WithoutRenderer(), tea.WithInput(nil))
	} else {
		opts = append(opts, tea.WithAltScreen())
	}
	p := tea.NewProgram(model, opts...)

	if err := model.StartSource(p); err != nil {
		return err
	}
	if cfg.Duration > 0 {
		timer := time.AfterFunc(cfg.Duration, p.Quit)
		defer timer.Stop()
	}

	_, runErr := p.Run()
	model.StopSource()

	if cfg.ExportOnExit {
		path, err := model.Export()
		if err != nil {
			return err
		}
		fmt.Println(path)
	}

	st := model.Engine().Stats()
	monitoring.Logf("stopped: painters=%d strokes=%d events=%d skipped=%d",
		st.Painters, st.Strokes, st.Events, st.Skipped)
	return runErr
}

// applyFlags copies explicitly set flags over the environment-derived config.
func applyFlags(cmd *cobra.Command, cfg *config.Config) {
	changed := cmd.Flags().Changed
	if changed("demo") {
		cfg.Demo = flagDemo
	}
	if changed("url") {
		cfg.SourceURL = flagURL
	}
	if changed("width") {
		cfg.Width = flagWidth
	}
	if changed("height") {
		cfg.Height = flagHeight
	}
	if changed("mode") {
		cfg.Mode = config.RenderMode(flagMode)
	}
	if changed("fps") {
		cfg.FPS = flagFPS
	}
	if changed("interval") {
		cfg.PaintInterval = flagInterval
	}
	if changed("fade") {
		cfg.FadeRate = flagFade
	}
	if changed("seed") {
		cfg.GenerationSeed = flagSeed
	}
	if changed("headless") {
		cfg.Headless = flagHeadless
	}
	if changed("duration") {
		cfg.Duration = flagDuration
	}
	if changed("export-on-exit") {
		cfg.ExportOnExit = flagExportOnExit
	}
	if changed("export-dir") {
		cfg.ExportDir = flagExportDir
	}
	if changed("log-file") {
		cfg.LogFile = flagLogFile
	}
}
