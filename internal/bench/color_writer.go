// ColorWriter prints human-friendly, colorized records to STDOUT.
package bench

import (
	"fmt"
	"io"
	"os"
	"sync"
	"text/tabwriter"

	"github.com/charmbracelet/lipgloss"

	"resilience-bench/internal/config"
)

// ColorWriter prints one styled line per record and highlights the faster recovery.
type ColorWriter struct {
	cfg  *config.BenchConfig
	out  io.Writer
	once sync.Once

	dim, round, ec, rep, win lipgloss.Style
}

// NewColorWriter creates a ColorWriter writing to os.Stdout.
func NewColorWriter(cfg *config.BenchConfig) *ColorWriter {
	return newColorWriter(cfg, os.Stdout)
}

func newColorWriter(cfg *config.BenchConfig, out io.Writer) *ColorWriter {
	r := lipgloss.NewRenderer(out)
	return &ColorWriter{
		cfg:   cfg,
		out:   out,
		dim:   r.NewStyle().Foreground(lipgloss.Color("8")),
		round: r.NewStyle().Foreground(lipgloss.Color("12")).Bold(true),
		ec:    r.NewStyle().Foreground(lipgloss.Color("14")),
		rep:   r.NewStyle().Foreground(lipgloss.Color("13")),
		win:   r.NewStyle().Foreground(lipgloss.Color("10")).Bold(true),
	}
}

func (w *ColorWriter) printOverview() {
	if w.cfg == nil {
		return
	}
	c := w.cfg

	fmt.Fprintln(w.out, "Benchmark Configuration:")
	tw := tabwriter.NewWriter(w.out, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "Iterations per round:\t%d\n", c.Iterations)
	fmt.Fprintf(tw, "Rounds:\t%d\n", c.Rounds+1)
	fmt.Fprintf(tw, "Object size (byte):\t%d\n", c.ObjectSize)
	fmt.Fprintf(tw, "Shards (data+parity):\t%d+%d\n", c.DataShards, c.ParityShards)
	fmt.Fprintf(tw, "Shard size (byte):\t%d\n", c.ShardSize())
	fmt.Fprintf(tw, "Initial ceiling (bit/s):\t%d\n", c.InitialBandwidth)
	fmt.Fprintf(tw, "Increment (bit/s):\t%d\n", c.BandwidthIncrement)
	tw.Flush()
	fmt.Fprintln(w.out)
}

// WriteHeader prints the configuration overview.
func (w *ColorWriter) WriteHeader() error {
	w.once.Do(w.printOverview)
	return nil
}

// Write outputs a single record in colorized format.
func (w *ColorWriter) Write(r Record) error {
	w.once.Do(w.printOverview)

	ecRec, rRec := w.ec, w.rep
	winner := "replication"
	if r.EC.RecoveryTime <= r.R.RecoveryTime {
		ecRec = w.win
		winner = "erasure"
	} else {
		rRec = w.win
	}

	fmt.Fprint(w.out, w.round.Render(fmt.Sprintf("[r%d #%d]", r.Round, r.Iteration)), " ")
	fmt.Fprint(w.out, w.dim.Render(fmt.Sprintf("bw=%.2fMbit/s", r.AvgBandwidth/1e6)), " ")
	fmt.Fprint(w.out, w.ec.Render(fmt.Sprintf("ec_setup=%.4fs", r.EC.SetupTime.Seconds())), " ")
	fmt.Fprint(w.out, ecRec.Render(fmt.Sprintf("ec_recovery=%.4fs", r.EC.RecoveryTime.Seconds())), " ")
	fmt.Fprint(w.out, w.dim.Render(fmt.Sprintf("ec_mem=%d", r.EC.MemoryUsage)), " ")
	fmt.Fprint(w.out, w.rep.Render(fmt.Sprintf("r_setup=%.4fs", r.R.SetupTime.Seconds())), " ")
	fmt.Fprint(w.out, rRec.Render(fmt.Sprintf("r_recovery=%.4fs", r.R.RecoveryTime.Seconds())), " ")
	fmt.Fprint(w.out, w.dim.Render(fmt.Sprintf("r_mem=%d", r.R.MemoryUsage)), " ")
	fmt.Fprintln(w.out, w.win.Render("faster="+winner))
	return nil
}
