package viz

import (
	"fmt"
	"math"
	"strings"

	"github.com/NimbleMarkets/ntcharts/canvas/runes"
	"github.com/NimbleMarkets/ntcharts/linechart/streamlinechart"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/san-kum/armsim/internal/arm"
	"github.com/san-kum/armsim/internal/sim"
)

const (
	canvasWidth   = 60
	canvasHeight  = 20
	chartWidth    = 60
	chartHeight   = 8
	trailCapacity = 200
	powerHistory  = 40
	maxLogs       = 5
	payloadStep   = 0.5
)

// Printer receives the live loop's log lines.
type Printer interface {
	Printf(format string, args ...any)
}

type sampleMsg sim.Sample
type logMsg string

func waitForSample(l *sim.Live) tea.Cmd {
	return func() tea.Msg {
		return sampleMsg(<-l.Samples())
	}
}

func waitForLog(l *sim.Live) tea.Cmd {
	return func() tea.Msg {
		return logMsg(<-l.Logs())
	}
}

// Model renders samples streamed from a live loop.
type Model struct {
	live     *sim.Live
	est      *arm.Estimator
	logger   Printer
	canvas   *Canvas
	chart    *streamlinechart.Model
	keys     keyMap
	help     help.Model
	sample   sim.Sample
	received bool
	trail    []arm.Vec3
	power    []float64
	warnings []arm.Warning
	logs     []string
	width    int
	height   int
	quitting bool
}

// NewModel builds the view for a live loop. The logger may be nil.
func NewModel(l *sim.Live, logger Printer) Model {
	est := l.Driver().Estimator()

	ceiling := 0.0
	for _, t := range est.TorqueRequirements(arm.Angles{}) {
		ceiling = math.Max(ceiling, t)
	}
	ceiling = math.Max(ceiling, est.Config().MotorTorque) * 1.2

	chart := streamlinechart.New(chartWidth, chartHeight,
		streamlinechart.WithYRange(0, ceiling),
	)
	for i := 0; i < arm.NumJoints; i++ {
		style := lipgloss.NewStyle().Foreground(lipgloss.Color(jointColors[i]))
		chart.SetDataSetStyles(jointName(i), runes.ThinLineStyle, style)
	}

	return Model{
		live:   l,
		est:    est,
		logger: logger,
		canvas: NewCanvas(canvasWidth, canvasHeight),
		chart:  &chart,
		keys:   defaultKeys(),
		help:   help.New(),
		sample: sim.Sample{State: l.State()},
		trail:  make([]arm.Vec3, 0, trailCapacity),
		power:  make([]float64, 0, powerHistory),
	}
}

func jointName(i int) string { return fmt.Sprintf("tau%d", i+1) }

func (m Model) Init() tea.Cmd {
	return tea.Batch(
		waitForSample(m.live),
		waitForLog(m.live),
	)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit
		case key.Matches(msg, m.keys.Pause):
			m.live.TogglePause()
		case key.Matches(msg, m.keys.Reset):
			m.live.Reset()
			m.trail = m.trail[:0]
			m.power = m.power[:0]
			m.received = false
			m.sample = sim.Sample{State: m.live.State()}
			m.warnings = nil
		case key.Matches(msg, m.keys.More):
			m.adjustPayload(payloadStep)
		case key.Matches(msg, m.keys.Less):
			m.adjustPayload(-payloadStep)
		case key.Matches(msg, m.keys.Help):
			m.help.ShowAll = !m.help.ShowAll
		}
		return m, nil

	case sampleMsg:
		m.observe(sim.Sample(msg))
		return m, waitForSample(m.live)

	case logMsg:
		m.addLog(string(msg))
		return m, waitForLog(m.live)
	}

	return m, nil
}

func (m *Model) adjustPayload(delta float64) {
	v := math.Max(0, m.live.Param("payload_mass")+delta)
	_ = m.live.SetParam("payload_mass", v)
}

func (m *Model) observe(s sim.Sample) {
	m.sample = s
	m.received = true
	m.warnings = m.est.Diagnose(s.State)

	m.trail = append(m.trail, s.State.EndEffector)
	if len(m.trail) > trailCapacity {
		m.trail = m.trail[1:]
	}
	m.power = append(m.power, s.State.TotalPower)
	if len(m.power) > powerHistory {
		m.power = m.power[1:]
	}

	for i, j := range s.State.Joints {
		m.chart.PushDataSet(jointName(i), j.Torque)
	}
	m.chart.DrawAll()
}

func (m *Model) addLog(line string) {
	if m.logger != nil {
		m.logger.Printf("%s", line)
	}
	m.logs = append(m.logs, line)
	if len(m.logs) > maxLogs {
		m.logs = m.logs[len(m.logs)-maxLogs:]
	}
}

func (m *Model) draw() {
	m.canvas.Clear()
	vp := FitArm(m.est.Config(), m.canvas)
	DrawArm(m.canvas, vp, m.est.JointPositions(m.sample.State.Angles()), m.trail)
}

func (m Model) View() string {
	if m.quitting {
		return "Stopped.\n"
	}

	m.draw()
	left := lipgloss.JoinVertical(lipgloss.Left,
		panelStyle.Render(m.canvas.String()),
		panelStyle.Render(m.chart.View()+"\n"+legend()),
	)
	right := panelStyle.Render(m.stats())

	var sb strings.Builder
	sb.WriteString(titleStyle.Render("ARM ESTIMATOR"))
	if m.live.Paused() {
		sb.WriteString("  " + statusPaused.Render("PAUSED"))
	} else {
		sb.WriteString("  " + statusRunning.Render("RUNNING"))
	}
	sb.WriteString(subtle.Render(fmt.Sprintf("  every %v", m.live.Interval())))
	sb.WriteString("\n")
	sb.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, left, right))
	sb.WriteString("\n")
	sb.WriteString(m.help.View(m.keys))
	sb.WriteString("\n")
	return sb.String()
}

func (m Model) stats() string {
	st := m.sample.State
	cfg := m.est.Config()

	row := func(label, value string) string {
		return labelStyle.Render(label) + valueStyle.Render(value) + "\n"
	}

	var s strings.Builder
	s.WriteString(row("Time", fmt.Sprintf("%.2fs", m.sample.Time)))
	s.WriteString(row("End effector", st.EndEffector.String()))
	s.WriteString("\n")
	margins := m.est.TorqueMargins(st)
	for i, j := range st.Joints {
		torque := fmt.Sprintf("%6.2f Nm", j.Torque)
		if j.Torque > cfg.MotorTorque {
			torque = overStyle.Render(torque)
		}
		margin := fmt.Sprintf(" %4.0f%%", margins[i])
		switch {
		case margins[i] < 0:
			margin = critStyle.Render(margin)
		case margins[i] < arm.SafeTorqueMargin:
			margin = warnStyle.Render(margin)
		default:
			margin = valueStyle.Render(margin)
		}
		s.WriteString(labelStyle.Render(fmt.Sprintf("Joint %d", i+1)) +
			valueStyle.Render(fmt.Sprintf("%7.1f° ", j.Angle)) + torque + margin + "\n")
	}
	s.WriteString("\n")
	s.WriteString(row("Power", fmt.Sprintf("%.2f W", st.TotalPower)))
	s.WriteString(labelStyle.Render("") + Sparkline(m.power, powerHistory) + "\n")
	s.WriteString(row("Current", fmt.Sprintf("%.3f A", arm.CurrentDraw(st))))
	s.WriteString(row("Voltage", fmt.Sprintf("%.2f V", st.BatteryVoltage)))
	s.WriteString(labelStyle.Render("Charge") + ProgressBar(st.BatteryCharge/100, 20) +
		valueStyle.Render(fmt.Sprintf(" %.1f%%", st.BatteryCharge)) + "\n")
	s.WriteString(row("Battery life", formatHours(m.est.BatteryLifeHours(st))))
	s.WriteString(row("Payload", fmt.Sprintf("%.1f kg", cfg.PayloadMass)))
	s.WriteString(row("Capacity", formatCapacity(st.PayloadCapacity)))
	s.WriteString(row("Reach", fmt.Sprintf("%.3f m", st.Reach)))
	s.WriteString(row("Stability", fmt.Sprintf("%.1f%%", st.Stability)))

	s.WriteString("\n")
	if !m.received {
		s.WriteString(subtle.Render("waiting for first sample") + "\n")
	} else if len(m.warnings) == 0 {
		s.WriteString(statusRunning.Render("within ratings") + "\n")
	}
	for _, w := range m.warnings {
		style := warnStyle
		if w.Severity == arm.SeverityCritical {
			style = critStyle
		}
		s.WriteString(style.Render(w.String()) + "\n")
	}

	if len(m.logs) > 0 {
		s.WriteString("\n" + subtle.Render(strings.Join(m.logs, "\n")))
	}
	return s.String()
}

func legend() string {
	items := make([]string, 0, arm.NumJoints)
	for i := 0; i < arm.NumJoints; i++ {
		style := lipgloss.NewStyle().Foreground(lipgloss.Color(jointColors[i])).Bold(true)
		items = append(items, style.Render("━━")+" "+jointName(i))
	}
	return strings.Join(items, "  ")
}

func formatHours(h float64) string {
	if math.IsInf(h, 1) {
		return "∞"
	}
	return fmt.Sprintf("%.2f h", h)
}

func formatCapacity(c float64) string {
	if math.IsInf(c, 1) {
		return "unbounded"
	}
	return fmt.Sprintf("%.2f kg", c)
}
