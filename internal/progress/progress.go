package progress

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/cheggaaa/pb/v3"
	"github.com/fatih/color"
	"github.com/minio/pkg/console"

	"resilience-bench/internal/bench"
)

// Bar is a terminal progress bar that advances once per record.
type Bar struct {
	mu    sync.Mutex
	bar   *pb.ProgressBar
	round int
}

// NewBar instantiates a progress bar over total records on STDERR.
func NewBar(total int) *Bar {
	return newBar(total, os.Stderr)
}

func newBar(total int, out io.Writer) *Bar {
	console.SetColor("Bar", color.New(color.FgGreen, color.Bold))

	bar := pb.New64(int64(total))
	bar.SetWriter(out)
	bar.SetRefreshRate(time.Millisecond * 125)
	bar.SetTemplateString(`{{string . "prefix"}} {{counters . }} {{bar . }} {{percent . }} {{etime . }}`)
	bar.Start()

	return &Bar{bar: bar, round: -1}
}

// SetCaption sets the caption of the progress bar.
func (b *Bar) SetCaption(caption string) *Bar {
	b.bar.Set("prefix", console.Colorize("Bar", caption))
	return b
}

// Write advances the bar and updates the caption when a new round starts.
func (b *Bar) Write(r bench.Record) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if r.Round != b.round {
		b.round = r.Round
		b.SetCaption(fmt.Sprintf("round %d @ %s", r.Round, ceiling(r.Ceiling)))
	}
	b.bar.Increment()
	return nil
}

// Current returns the number of records seen.
func (b *Bar) Current() int64 { return b.bar.Current() }

// Close finishes the bar.
func (b *Bar) Close() error {
	b.bar.Finish()
	return nil
}

func ceiling(bits int64) string {
	if bits <= 0 {
		return "unlimited"
	}
	return fmt.Sprintf("%.1f Mbit/s", float64(bits)/1e6)
}
