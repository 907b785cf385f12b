package app

import (
	"fmt"
	"time"

	"drive-canvas.klederson.com/internal/canvas"
	"drive-canvas.klederson.com/internal/config"
	"drive-canvas.klederson.com/internal/demo"
	"drive-canvas.klederson.com/internal/monitoring"
	"drive-canvas.klederson.com/internal/paint"
	"drive-canvas.klederson.com/internal/telemetry"
	"drive-canvas.klederson.com/internal/ui"
	tea "github.com/charmbracelet/bubbletea"
)

// shared holds state shared between the Bubble Tea model copies and main.go.
// Because Bubble Tea uses value receivers, pointer fields ensure all copies
// see the same underlying data.
type shared struct {
	engine *paint.Engine
	raster *canvas.Raster
	clock  paint.Clock
	source telemetry.Source
}

// AppModel is the root Bubble Tea model for the painting studio.
type AppModel struct {
	width  int
	height int

	cfg        config.Config
	cursor     int
	detail     bool
	lastExport string

	shared *shared

	// Cached snapshot
	painters []paint.PainterView
}

// New creates a new AppModel painting on a fresh surface.
func New(cfg config.Config) AppModel {
	return newModel(cfg, paint.SystemClock{})
}

func newModel(cfg config.Config, clock paint.Clock) AppModel {
	raster := canvas.NewRaster(cfg.Width, cfg.Height, uint64(cfg.GenerationSeed))
	return AppModel{
		cfg: cfg,
		shared: &shared{
			engine: paint.NewEngine(paint.OptionsFrom(cfg), clock, raster),
			raster: raster,
			clock:  clock,
		},
	}
}

func (m AppModel) Init() tea.Cmd {
	return tea.Batch(
		tickCmd(m.cfg.FPS),
		reportCmd(),
	)
}

func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case TickMsg:
		m.shared.engine.Fade()
		m.refresh()
		return m, tickCmd(m.cfg.FPS)

	case ReportMsg:
		st := m.shared.engine.Stats()
		monitoring.Logf("painters=%d strokes=%d events=%d skipped=%d fades=%d mode=%s",
			st.Painters, st.Strokes, st.Events, st.Skipped, st.Fades, st.Mode)
		return m, reportCmd()

	case telemetry.FrameMsg:
		m.shared.engine.Update(msg.Frame)
		return m, nil

	case telemetry.SourceErrorMsg:
		monitoring.Logf("source error: %v", msg.Err)
		return m, nil

	case ExportedMsg:
		if msg.Err != nil {
			monitoring.Logf("export failed: %v", msg.Err)
			return m, nil
		}
		m.lastExport = msg.Path
		return m, nil
	}

	return m, nil
}

func (m AppModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "Q", "ctrl+c":
		// The source is stopped after Run returns; stopping it here would
		// wait on a Send that this loop is not reading.
		return m, tea.Quit

	case " ", "space", "p", "P":
		on := m.shared.engine.TogglePainting()
		monitoring.Logf("painting %s", onOff(on))

	case "e", "E":
		return m, m.exportCmd()

	case "m", "M":
		mode := m.shared.engine.ToggleMode()
		monitoring.Logf("render mode %s", mode)

	case "enter":
		m.detail = len(m.painters) > 0

	case "esc":
		m.detail = false

	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}

	case "down", "j":
		if m.cursor < len(m.painters)-1 {
			m.cursor++
		}

	case "home":
		m.cursor = 0

	case "end":
		if len(m.painters) > 0 {
			m.cursor = len(m.painters) - 1
		}
	}

	return m, nil
}

// refresh re-reads the painter snapshot and keeps the cursor on a painter.
func (m *AppModel) refresh() {
	m.painters = m.shared.engine.Painters()
	if m.cursor >= len(m.painters) {
		m.cursor = max(len(m.painters)-1, 0)
	}
	if len(m.painters) == 0 {
		m.detail = false
	}
}

func (m AppModel) View() string {
	if m.width == 0 || m.height == 0 {
		return "Initializing " + config.AppName + "..."
	}

	menuH := 1
	statusH := 1
	bodyH := m.height - menuH - statusH
	if bodyH < 5 {
		bodyH = 5
	}

	canvasW := m.width * 3 / 4
	if canvasW < 30 {
		canvasW = 30
	}
	sideW := m.width - canvasW
	if sideW < 15 {
		sideW = 15
		canvasW = m.width - sideW
	}

	menuBar := ui.RenderMenuBar(m.width, m.sourceName(), m.shared.engine.Painting())

	cols, rows := ui.CanvasGrid(canvasW, bodyH)
	cells := m.shared.raster.Downsample(cols, rows)
	canvasPanel := ui.RenderCanvasPanel(canvasW, bodyH, cells, m.painters)

	var side string
	if m.detail && m.cursor < len(m.painters) {
		side = ui.RenderDetailPanel(m.painters[m.cursor], sideW, bodyH)
	} else {
		side = ui.RenderPainterList(m.painters, sideW, bodyH, m.cursor)
	}

	statusBar := ui.RenderStatusBar(m.width, m.shared.engine.Stats(), m.lastExport)

	return ui.ComposeLayout(menuBar, canvasPanel, side, statusBar)
}

func (m AppModel) sourceName() string {
	if m.cfg.Demo {
		return "demo"
	}
	return m.cfg.SourceURL
}

// StartSource starts the telemetry source. Must be called before p.Run().
func (m *AppModel) StartSource(p telemetry.Sender) error {
	var src telemetry.Source
	if m.cfg.Demo {
		src = demo.NewSource(m.cfg.GenerationSeed)
	} else {
		src = telemetry.NewWebSocketSource(m.cfg.SourceURL)
	}
	if err := src.Start(p); err != nil {
		return fmt.Errorf("failed to start source: %w", err)
	}
	m.shared.source = src
	monitoring.Logf("source %s started (seed %d)", m.sourceName(), m.cfg.GenerationSeed)
	return nil
}

// StopSource stops the telemetry source if one is running.
func (m AppModel) StopSource() {
	if m.shared.source != nil {
		m.shared.source.Stop()
	}
}

// Export writes the current canvas to the export directory.
func (m AppModel) Export() (string, error) {
	path, err := m.shared.raster.ExportPNG(m.cfg.ExportDir, m.shared.clock.Now())
	if err != nil {
		return "", err
	}
	monitoring.Logf("canvas exported to %s", path)
	return path, nil
}

// Engine exposes the painting engine, mainly for headless runs.
func (m AppModel) Engine() *paint.Engine {
	return m.shared.engine
}

func (m AppModel) exportCmd() tea.Cmd {
	return func() tea.Msg {
		path, err := m.Export()
		return ExportedMsg{Path: path, Err: err}
	}
}

func onOff(on bool) string {
	if on {
		return "on"
	}
	return "off"
}

func tickCmd(fps int) tea.Cmd {
	return tea.Tick(time.Second/time.Duration(max(fps, 1)), func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}

func reportCmd() tea.Cmd {
	return tea.Tick(config.ReportInterval, func(t time.Time) tea.Msg {
		return ReportMsg(t)
	})
}
