package common

import (
	"fmt"
	"io"
	"strings"
	"sync"
	"sync/atomic"
	"time"
)

// Metrics counts what a capture scan has framed so far. Counters are atomic
// so a progress printer can sample them while the scan runs.
type Metrics struct {
	pdus      atomic.Int64
	undecoded atomic.Int64
	resyncs   atomic.Int64
	framed    atomic.Int64
	skipped   atomic.Int64
	total     atomic.Int64

	clock sync.Mutex
	began time.Time
	ended time.Time
}

func NewMetrics() *Metrics {
	return &Metrics{}
}

// Start marks the beginning of the scan. Later calls are ignored.
func (m *Metrics) Start() {
	m.clock.Lock()
	defer m.clock.Unlock()
	if m.began.IsZero() {
		m.began = time.Now()
	}
}

func (m *Metrics) Stop() {
	m.clock.Lock()
	defer m.clock.Unlock()
	if !m.began.IsZero() && m.ended.IsZero() {
		m.ended = time.Now()
	}
}

// AddPDU counts one framed PDU of size bytes.
func (m *Metrics) AddPDU(size int64) {
	if size <= 0 {
		return
	}
	m.pdus.Add(1)
	m.framed.Add(size)
}

// IncUndecoded counts a framed PDU whose body failed to decode.
func (m *Metrics) IncUndecoded() { m.undecoded.Add(1) }

// AddSkipped counts bytes passed over while looking for the next header.
func (m *Metrics) AddSkipped(n int64) {
	if n > 0 {
		m.skipped.Add(n)
	}
}

func (m *Metrics) IncResync() { m.resyncs.Add(1) }

// SetTotalBytes sets the capture size used for completion.
func (m *Metrics) SetTotalBytes(total int64) {
	m.total.Store(max(total, 0))
}

func (m *Metrics) Snapshot() MetricsSnapshot {
	m.clock.Lock()
	var elapsed time.Duration
	switch {
	case m.began.IsZero():
	case m.ended.IsZero():
		elapsed = time.Since(m.began)
	default:
		elapsed = m.ended.Sub(m.began)
	}
	m.clock.Unlock()
	skipped := m.skipped.Load()
	return MetricsSnapshot{
		Duration:   elapsed,
		Bytes:      m.framed.Load() + skipped,
		Skipped:    skipped,
		TotalBytes: m.total.Load(),
		PDUs:       m.pdus.Load(),
		Undecoded:  m.undecoded.Load(),
		Resyncs:    m.resyncs.Load(),
	}
}

// MetricsSnapshot is a point-in-time copy of Metrics. Bytes covers framed
// PDUs and skipped bytes alike.
type MetricsSnapshot struct {
	Duration   time.Duration
	Bytes      int64
	Skipped    int64
	TotalBytes int64
	PDUs       int64
	Undecoded  int64
	Resyncs    int64
}

func (s MetricsSnapshot) ThroughputBytesPerSecond() float64 {
	if s.Duration <= 0 {
		return 0
	}
	return float64(s.Bytes) / s.Duration.Seconds()
}

// Completion is the scanned fraction of the capture, clamped to [0, 1].
func (s MetricsSnapshot) Completion() float64 {
	if s.TotalBytes <= 0 || s.Bytes <= 0 {
		return 0
	}
	return min(float64(s.Bytes)/float64(s.TotalBytes), 1)
}

var byteUnits = []string{"KiB", "MiB", "GiB", "TiB", "PiB", "EiB"}

func FormatBytes(b int64) string {
	if b < 1024 {
		return fmt.Sprintf("%d B", b)
	}
	v := float64(b) / 1024
	unit := 0
	for v >= 1024 && unit < len(byteUnits)-1 {
		v /= 1024
		unit++
	}
	return fmt.Sprintf("%.2f %s", v, byteUnits[unit])
}

func formatProgressLine(s MetricsSnapshot) string {
	rate := s.ThroughputBytesPerSecond() / (1 << 20)
	if s.TotalBytes <= 0 {
		return fmt.Sprintf("Processed: %s (%d PDUs) %.2f MiB/s", FormatBytes(s.Bytes), s.PDUs, rate)
	}
	return fmt.Sprintf("Progress: %6.2f%% (%s / %s, %d PDUs) %.2f MiB/s",
		s.Completion()*100, FormatBytes(s.Bytes), FormatBytes(s.TotalBytes), s.PDUs, rate)
}

// progressLine rewrites a single terminal line in place.
type progressLine struct {
	w    io.Writer
	last int
}

func (p *progressLine) print(line string) {
	if pad := p.last - len(line); pad > 0 {
		line += strings.Repeat(" ", pad)
	}
	fmt.Fprintf(p.w, "\r%s", line)
	p.last = len(line)
}

func (p *progressLine) clear() {
	if p.last > 0 {
		fmt.Fprintf(p.w, "\r%s\r\n", strings.Repeat(" ", p.last))
	}
}

// StartProgressPrinter prints m to w every interval until the returned
// function is called.
func StartProgressPrinter(w io.Writer, m *Metrics, interval time.Duration) func() {
	if m == nil || w == nil {
		return func() {}
	}
	if interval <= 0 {
		interval = time.Second
	}
	done := make(chan struct{})
	finished := make(chan struct{})
	go func() {
		defer close(finished)
		line := &progressLine{w: w}
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				line.print(formatProgressLine(m.Snapshot()))
			case <-done:
				line.clear()
				return
			}
		}
	}()
	return func() {
		close(done)
		<-finished
	}
}
