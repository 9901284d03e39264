// Package stats samples process resource usage during long generation
// runs and writes a machine-readable report next to the plan outputs.
package stats

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"runtime"
	"sync"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/shirou/gopsutil/v4/cpu"
	"github.com/shirou/gopsutil/v4/process"
)

// RuntimeStats holds everything collected over one run.
type RuntimeStats struct {
	StartTime    time.Time     `json:"start_time"`
	EndTime      time.Time     `json:"end_time"`
	TotalElapsed time.Duration `json:"total_elapsed_ns"`
	ElapsedHuman string        `json:"total_elapsed"`
	Samples      []Point       `json:"samples"`
	Summary      Summary       `json:"summary"`
}

// Point is a single resource usage sample.
type Point struct {
	Timestamp      time.Time `json:"timestamp"`
	ElapsedSeconds float64   `json:"elapsed_seconds"`

	HeapAlloc       uint64 `json:"heap_alloc"`
	Sys             uint64 `json:"sys"`
	NumGC           uint32 `json:"num_gc"`
	ProcessRSSBytes uint64 `json:"process_rss_bytes"`

	CPUPercent   float64   `json:"cpu_percent"`
	SystemCPU    []float64 `json:"system_cpu_percent"`
	NumGoroutine int       `json:"num_goroutine"`
}

// Summary aggregates the peaks across all samples.
type Summary struct {
	PeakHeapAlloc  uint64  `json:"peak_heap_alloc"`
	PeakSys        uint64  `json:"peak_sys"`
	PeakProcessRSS uint64  `json:"peak_process_rss"`
	PeakCPUPercent float64 `json:"peak_cpu_percent"`
	AvgCPUPercent  float64 `json:"avg_cpu_percent"`
	PeakGoroutines int     `json:"peak_goroutines"`
	GCCycles       uint32  `json:"gc_cycles"`
	SampleCount    int     `json:"sample_count"`
	IntervalMs     int64   `json:"sample_interval_ms"`
}

// Collector samples runtime and process stats on a fixed interval.
type Collector struct {
	mu        sync.Mutex
	stats     RuntimeStats
	startTime time.Time
	stopChan  chan struct{}
	doneChan  chan struct{}
	interval  time.Duration
	proc      *process.Process
}

func NewCollector(interval time.Duration) (*Collector, error) {
	proc, err := process.NewProcess(int32(os.Getpid()))
	if err != nil {
		return nil, fmt.Errorf("failed to get process info: %w", err)
	}

	return &Collector{
		stats: RuntimeStats{
			Samples: make([]Point, 0, 1024),
		},
		interval: interval,
		stopChan: make(chan struct{}),
		doneChan: make(chan struct{}),
		proc:     proc,
	}, nil
}

// Start begins sampling in the background.
func (c *Collector) Start() {
	c.startTime = time.Now()
	c.stats.StartTime = c.startTime

	go c.collect()
}

func (c *Collector) collect() {
	defer close(c.doneChan)

	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()

	c.sample()

	for {
		select {
		case <-c.stopChan:
			// one last sample so short runs still record an end state
			c.sample()
			return
		case <-ticker.C:
			c.sample()
		}
	}
}

func (c *Collector) sample() {
	var memStats runtime.MemStats
	runtime.ReadMemStats(&memStats)

	point := Point{
		Timestamp:      time.Now(),
		ElapsedSeconds: time.Since(c.startTime).Seconds(),
		HeapAlloc:      memStats.HeapAlloc,
		Sys:            memStats.Sys,
		NumGC:          memStats.NumGC,
		NumGoroutine:   runtime.NumGoroutine(),
	}

	if memInfo, err := c.proc.MemoryInfo(); err == nil && memInfo != nil {
		point.ProcessRSSBytes = memInfo.RSS
	}
	if cpuPercent, err := c.proc.CPUPercent(); err == nil {
		point.CPUPercent = cpuPercent
	}
	if systemCPU, err := cpu.Percent(0, true); err == nil {
		point.SystemCPU = systemCPU
	}

	c.mu.Lock()
	c.stats.Samples = append(c.stats.Samples, point)
	c.mu.Unlock()
}

// Stop ends sampling and returns the finished stats.
func (c *Collector) Stop() RuntimeStats {
	close(c.stopChan)
	<-c.doneChan

	c.mu.Lock()
	defer c.mu.Unlock()

	c.stats.EndTime = time.Now()
	c.stats.TotalElapsed = c.stats.EndTime.Sub(c.stats.StartTime)
	c.stats.ElapsedHuman = c.stats.TotalElapsed.String()

	c.summarize()

	return c.stats
}

func (c *Collector) summarize() {
	if len(c.stats.Samples) == 0 {
		return
	}

	var totalCPU float64
	for _, s := range c.stats.Samples {
		if s.HeapAlloc > c.stats.Summary.PeakHeapAlloc {
			c.stats.Summary.PeakHeapAlloc = s.HeapAlloc
		}
		if s.Sys > c.stats.Summary.PeakSys {
			c.stats.Summary.PeakSys = s.Sys
		}
		if s.ProcessRSSBytes > c.stats.Summary.PeakProcessRSS {
			c.stats.Summary.PeakProcessRSS = s.ProcessRSSBytes
		}
		if s.CPUPercent > c.stats.Summary.PeakCPUPercent {
			c.stats.Summary.PeakCPUPercent = s.CPUPercent
		}
		if s.NumGoroutine > c.stats.Summary.PeakGoroutines {
			c.stats.Summary.PeakGoroutines = s.NumGoroutine
		}
		// NumGC is cumulative, the max is the total.
		if s.NumGC > c.stats.Summary.GCCycles {
			c.stats.Summary.GCCycles = s.NumGC
		}
		totalCPU += s.CPUPercent
	}

	c.stats.Summary.SampleCount = len(c.stats.Samples)
	c.stats.Summary.IntervalMs = c.interval.Milliseconds()
	c.stats.Summary.AvgCPUPercent = totalCPU / float64(c.stats.Summary.SampleCount)
}

// SaveToFile writes the stats as indented JSON.
func (stats *RuntimeStats) SaveToFile(filename string) error {
	data, err := json.MarshalIndent(stats, "", "  ")
	if err != nil {
		return err
	}
	if err := os.WriteFile(filename, data, 0o644); err != nil {
		return fmt.Errorf("failed to write stats file: %w", err)
	}
	return nil
}

// LogSummary reports the run peaks at info level.
func (stats *RuntimeStats) LogSummary(log *slog.Logger) {
	log.Info("run resource usage",
		"elapsed", stats.ElapsedHuman,
		"peak_rss", humanize.IBytes(stats.Summary.PeakProcessRSS),
		"peak_heap", humanize.IBytes(stats.Summary.PeakHeapAlloc),
		"peak_cpu_percent", fmt.Sprintf("%.1f", stats.Summary.PeakCPUPercent),
		"gc_cycles", stats.Summary.GCCycles,
	)
}
