package viz

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/driftguide/internal/sim"
)

const (
	plotWidth       = 60
	plotHeight      = 12
	historyCapacity = 300
)

var (
	statsStyle = lipgloss.NewStyle().
			Border(lipgloss.NormalBorder(), false, false, false, true).
			BorderForeground(lipgloss.Color("240")).
			Padding(1, 2).
			Width(40)
	graphStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("49")).Padding(1, 2)
)

type TickMsg time.Time

// Session is the part of a simulation session the live view drives.
type Session interface {
	Next() sim.Cycle
	Done() bool
	ResetGuider()
}

// LiveModel steps a session once per tick and shows the recent guide
// error, corrections and drift estimate.
type LiveModel struct {
	session  Session
	title    string
	settings func() string
	interval time.Duration
	running  bool
	last     sim.Cycle
	cycles   int
	raw      []float64
	control  []float64
	resets   int
}

// NewLiveModel builds the view. settings is called on every redraw and may
// be nil.
func NewLiveModel(session Session, title string, settings func() string, interval time.Duration) LiveModel {
	if interval <= 0 {
		interval = time.Second / 10
	}
	return LiveModel{
		session:  session,
		title:    title,
		settings: settings,
		interval: interval,
		running:  true,
		raw:      make([]float64, 0, historyCapacity),
		control:  make([]float64, 0, historyCapacity),
	}
}

func (m LiveModel) tick() tea.Cmd {
	return tea.Tick(m.interval, func(t time.Time) tea.Msg { return TickMsg(t) })
}

func (m LiveModel) Init() tea.Cmd {
	return m.tick()
}

func (m LiveModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case " ":
			m.running = !m.running
		case "r":
			m.session.ResetGuider()
			m.resets++
		}
	case TickMsg:
		if m.running {
			if m.session.Done() {
				m.running = false
			} else {
				m.step()
			}
		}
		return m, m.tick()
	}
	return m, nil
}

func (m *LiveModel) step() {
	c := m.session.Next()
	m.last = c
	m.cycles++
	m.raw = appendBounded(m.raw, c.Raw)
	m.control = appendBounded(m.control, c.Control)
}

func appendBounded(s []float64, v float64) []float64 {
	if len(s) == historyCapacity {
		copy(s, s[1:])
		s = s[:len(s)-1]
	}
	return append(s, v)
}

func (m LiveModel) Cycles() int   { return m.cycles }
func (m LiveModel) Running() bool { return m.running }

func (m LiveModel) View() string {
	var graph string
	if len(m.raw) > 1 {
		graph = asciigraph.PlotMany([][]float64{m.raw, m.control},
			asciigraph.Height(plotHeight),
			asciigraph.Width(plotWidth),
			asciigraph.SeriesColors(asciigraph.Red, asciigraph.Green),
			asciigraph.Caption("guide error (red) and correction (green)"),
		)
	} else {
		graph = Subtle.Render("waiting for the first exposure")
	}

	var s strings.Builder
	s.WriteString(Title.Render(strings.ToUpper(m.title)) + "\n")
	switch {
	case m.running:
		s.WriteString(StatusRunning.Render("GUIDING") + "\n\n")
	case m.session.Done():
		s.WriteString(StatusPaused.Render("FINISHED") + "\n\n")
	default:
		s.WriteString(StatusPaused.Render("PAUSED") + "\n\n")
	}

	row := func(label, value string) {
		s.WriteString(MetricLabel.Render(label) + MetricValue.Render(value) + "\n")
	}
	row("cycle", fmt.Sprintf("%d", m.cycles))
	row("time", fmt.Sprintf("%.1fs", m.last.Time))
	row("error", fmt.Sprintf("%+.3f", m.last.Raw))
	row("correction", fmt.Sprintf("%+.3f", m.last.Control))
	if m.last.DriftActive {
		row("drift rate", fmt.Sprintf("%+.5f/s", m.last.DriftRate))
	} else {
		row("drift rate", "collecting")
	}
	row("restarts", fmt.Sprintf("%d", m.resets))
	s.WriteString("\n" + Sparkline(m.raw, 30) + "\n")

	if m.settings != nil {
		s.WriteString("\n" + Subtle.Render(strings.TrimRight(m.settings(), "\n")) + "\n")
	}
	s.WriteString(KeyHint.Render("\nSP:Pause R:Restart guider Q:Quit"))

	return lipgloss.JoinHorizontal(lipgloss.Top, graphStyle.Render(graph), statsStyle.Render(s.String()))
}
