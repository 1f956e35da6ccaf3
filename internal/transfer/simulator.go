// Bandwidth-limited transfer simulation
package transfer

import (
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// TempExt is the extension of every transient transfer artifact.
const TempExt = ".temp"

// Bandwidth is a channel capacity in bits per second. Zero means unlimited.
type Bandwidth int64

// Unlimited disables the artificial delay.
const Unlimited Bandwidth = 0

// Limited reports whether a target bandwidth is set.
func (b Bandwidth) Limited() bool { return b > 0 }

// IdealDuration returns the time size bytes take on a channel of bandwidth b.
func (b Bandwidth) IdealDuration(size int) time.Duration {
	if !b.Limited() {
		return 0
	}
	bytesPerSec := float64(b) / 8
	return time.Duration(float64(size) / bytesPerSec * float64(time.Second))
}

func (b Bandwidth) String() string {
	if !b.Limited() {
		return "unlimited"
	}
	return fmt.Sprintf("%d bit/s", int64(b))
}

// Simulator emulates sending payloads over a throttled single-stream channel.
// Every send materializes the payload into one artifact named <Name>.temp inside Dir,
// overwriting the previous one.
type Simulator struct {
	Dir  string
	Name string

	now   func() time.Time
	sleep func(time.Duration)
}

// NewSimulator creates a Simulator writing its artifact to dir/name.temp.
func NewSimulator(dir, name string) *Simulator {
	return &Simulator{Dir: dir, Name: name, now: time.Now, sleep: time.Sleep}
}

// Path returns the location of the transient artifact.
func (s *Simulator) Path() string {
	return filepath.Join(s.Dir, s.Name+TempExt)
}

// Send writes size bytes to the artifact, then blocks until the call has taken at least
// size*8/target seconds. The delay cannot be interrupted.
func (s *Simulator) Send(size int, target Bandwidth) error {
	start := s.now()

	buf := getPayload(size)
	err := os.WriteFile(s.Path(), buf, 0o644)
	putPayload(buf)
	if err != nil {
		return fmt.Errorf("write transfer artifact: %w", err)
	}

	if target.Limited() {
		ideal := target.IdealDuration(size)
		if elapsed := s.now().Sub(start); elapsed < ideal {
			s.sleep(ideal - elapsed)
		}
	}
	return nil
}

// Link binds the simulator to a fixed target bandwidth.
func (s *Simulator) Link(target Bandwidth) *Link {
	return &Link{sim: s, target: target}
}

// Link is a simulated channel with a fixed ceiling.
type Link struct {
	sim    *Simulator
	target Bandwidth
	sent   int
	calls  int
}

// Transfer sends one payload of size bytes over the link.
func (l *Link) Transfer(size int) error {
	if err := l.sim.Send(size, l.target); err != nil {
		return err
	}
	l.sent += size
	l.calls++
	return nil
}

// Target returns the link ceiling.
func (l *Link) Target() Bandwidth { return l.target }

// BytesSent returns the total payload bytes pushed through the link.
func (l *Link) BytesSent() int { return l.sent }

// Transfers returns how many payloads were sent.
func (l *Link) Transfers() int { return l.calls }
