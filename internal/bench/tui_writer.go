package bench

import (
	"fmt"
	"os"
	"strconv"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/wordwrap"

	"resilience-bench/internal/config"
)

// teaProgram abstracts bubbletea.Program for testing.
type teaProgram interface {
	Send(tea.Msg)
}

// recordMsg carries one record into the model.
type recordMsg struct{ Record }

// doneMsg ends the program once the sweep is over.
type doneMsg struct{}

const maxTableHeight = 20

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	summaryStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	footerStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
)

type tuiModel struct {
	cfg      config.BenchConfig
	table    table.Model
	rows     []table.Row
	width    int
	written  int
	expected int
	done     bool
}

func tuiColumns() []table.Column {
	return []table.Column{
		{Title: "round", Width: 5},
		{Title: "iter", Width: 5},
		{Title: "bw Mbit/s", Width: 10},
		{Title: "ec setup s", Width: 11},
		{Title: "ec recov s", Width: 11},
		{Title: "r setup s", Width: 11},
		{Title: "r recov s", Width: 11},
		{Title: "lost", Width: 4},
	}
}

func newTUIModel(cfg config.BenchConfig) tuiModel {
	t := table.New(
		table.WithColumns(tuiColumns()),
		table.WithHeight(maxTableHeight),
		table.WithFocused(false),
	)
	return tuiModel{cfg: cfg, table: t, width: 80, expected: cfg.Records()}
}

func (m tuiModel) Init() tea.Cmd { return nil }

func (m tuiModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		h := msg.Height - 8
		if h > maxTableHeight {
			h = maxTableHeight
		}
		if h > 2 {
			m.table.SetHeight(h)
		}
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		}
	case recordMsg:
		m.written++
		m.rows = append(m.rows, recordRow(msg.Record))
		m.table.SetRows(m.rows)
		m.table.GotoBottom()
	case doneMsg:
		m.done = true
		return m, tea.Quit
	}
	return m, nil
}

func recordRow(r Record) table.Row {
	return table.Row{
		strconv.Itoa(r.Round),
		strconv.Itoa(r.Iteration),
		fmt.Sprintf("%.2f", r.AvgBandwidth/1e6),
		fmt.Sprintf("%.5f", r.EC.SetupTime.Seconds()),
		fmt.Sprintf("%.5f", r.EC.RecoveryTime.Seconds()),
		fmt.Sprintf("%.5f", r.R.SetupTime.Seconds()),
		fmt.Sprintf("%.5f", r.R.RecoveryTime.Seconds()),
		strconv.Itoa(r.EC.Erased),
	}
}

func (m tuiModel) summary() string {
	c := m.cfg
	s := fmt.Sprintf("%d+%d Reed-Solomon vs %d-way replication of a %d byte object, "+
		"%d iterations per round over %d rounds, ceiling %d bit/s growing by %d bit/s.",
		c.DataShards, c.ParityShards, c.ParityShards+1, c.ObjectSize,
		c.Iterations, c.Rounds+1, c.InitialBandwidth, c.BandwidthIncrement)
	return wordwrap.String(s, m.width)
}

func (m tuiModel) View() string {
	status := fmt.Sprintf("%d/%d records", m.written, m.expected)
	if m.done {
		status += " - done"
	} else {
		status += " - q to quit"
	}
	return lipgloss.JoinVertical(lipgloss.Left,
		titleStyle.Render("resilience-bench"),
		summaryStyle.Render(m.summary()),
		"",
		m.table.View(),
		footerStyle.Render(status),
	)
}

// TUIWriter renders records into a live terminal table.
type TUIWriter struct {
	program teaProgram
	exited  chan struct{}
	err     error
}

// NewTUIWriter starts a bubbletea program on STDOUT.
func NewTUIWriter(cfg config.BenchConfig) *TUIWriter {
	p := tea.NewProgram(newTUIModel(cfg), tea.WithOutput(os.Stdout))
	w := &TUIWriter{program: p, exited: make(chan struct{})}
	go func() {
		_, w.err = p.Run()
		close(w.exited)
	}()
	return w
}

// Done is closed once the program has exited, including when the user quits.
func (w *TUIWriter) Done() <-chan struct{} { return w.exited }

// Write forwards a record to the table.
func (w *TUIWriter) Write(r Record) error {
	w.program.Send(recordMsg{r})
	return nil
}

// Close tells the program the sweep is over and waits for it to exit.
func (w *TUIWriter) Close() error {
	w.program.Send(doneMsg{})
	if w.exited == nil {
		return nil
	}
	<-w.exited
	return w.err
}
