package bench

import (
	"fmt"
	"strings"
	"time"
)

// PhaseResult holds the samples and computed stats for one phase.
type PhaseResult struct {
	Phase   Phase
	Samples []Sample

	Hits     int
	Misses   int
	MeanMiss time.Duration
	MeanHit  time.Duration
	MinHit   time.Duration
	MaxHit   time.Duration
	MinMiss  time.Duration
	MaxMiss  time.Duration
}

func (pr *PhaseResult) summarize() {
	var hits, misses []time.Duration
	for _, s := range pr.Samples {
		if s.CacheHit {
			hits = append(hits, s.Elapsed)
		} else {
			misses = append(misses, s.Elapsed)
		}
	}
	pr.Hits = len(hits)
	pr.Misses = len(misses)
	pr.MeanHit = mean(hits)
	pr.MeanMiss = mean(misses)
	pr.MinHit, pr.MaxHit = minMax(hits)
	pr.MinMiss, pr.MaxMiss = minMax(misses)
}

// Report is the combined outcome of a benchmark run.
type Report struct {
	Query      string
	Iterations int
	StartedAt  time.Time
	Elapsed    time.Duration
	Phases     []PhaseResult

	// Aggregates across all phases.
	MeanMiss time.Duration
	MeanHit  time.Duration

	// Speedup is mean miss latency divided by mean hit latency. Zero when
	// either side has no samples.
	Speedup float64

	// ImprovementPct is the latency reduction hits deliver over misses,
	// as a percentage. Zero when Speedup is zero.
	ImprovementPct float64
}

func (r *Report) summarize() {
	var hits, misses []time.Duration
	for _, pr := range r.Phases {
		for _, s := range pr.Samples {
			if s.CacheHit {
				hits = append(hits, s.Elapsed)
			} else {
				misses = append(misses, s.Elapsed)
			}
		}
	}
	r.MeanMiss = mean(misses)
	r.MeanHit = mean(hits)
	if r.MeanHit > 0 && r.MeanMiss > 0 {
		r.Speedup = float64(r.MeanMiss) / float64(r.MeanHit)
		r.ImprovementPct = (1 - float64(r.MeanHit)/float64(r.MeanMiss)) * 100
	}
}

// String renders the report as a human-readable summary table.
func (r *Report) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "query:      %s\n", r.Query)
	fmt.Fprintf(&b, "iterations: %d per phase\n", r.Iterations)
	fmt.Fprintf(&b, "elapsed:    %s\n\n", r.Elapsed.Round(time.Millisecond))

	fmt.Fprintf(&b, "%-10s %6s %6s %12s %12s\n", "phase", "misses", "hits", "mean miss", "mean hit")
	for _, pr := range r.Phases {
		fmt.Fprintf(&b, "%-10s %6d %6d %12s %12s\n",
			pr.Phase, pr.Misses, pr.Hits,
			fmtDuration(pr.MeanMiss), fmtDuration(pr.MeanHit))
	}

	b.WriteString("\n")
	fmt.Fprintf(&b, "mean miss latency: %s\n", fmtDuration(r.MeanMiss))
	fmt.Fprintf(&b, "mean hit latency:  %s\n", fmtDuration(r.MeanHit))
	if r.Speedup > 0 {
		fmt.Fprintf(&b, "speedup:           %.1fx (%.1f%% faster)\n", r.Speedup, r.ImprovementPct)
	}
	return b.String()
}

func fmtDuration(d time.Duration) string {
	if d == 0 {
		return "-"
	}
	return fmt.Sprintf("%.2fms", float64(d)/float64(time.Millisecond))
}

func mean(ds []time.Duration) time.Duration {
	if len(ds) == 0 {
		return 0
	}
	var sum time.Duration
	for _, d := range ds {
		sum += d
	}
	return sum / time.Duration(len(ds))
}

func minMax(ds []time.Duration) (time.Duration, time.Duration) {
	if len(ds) == 0 {
		return 0, 0
	}
	lo, hi := ds[0], ds[0]
	for _, d := range ds[1:] {
		if d < lo {
			lo = d
		}
		if d > hi {
			hi = d
		}
	}
	return lo, hi
}
