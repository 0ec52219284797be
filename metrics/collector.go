package metrics

import (
	"sync/atomic"
	"time"
)

// Summary is a snapshot of one player's decision counters.
type Summary struct {
	TotalDecisions      int     `json:"total_decisions"`
	SuccessfulDecisions int     `json:"successful_decisions"`
	FailedDecisions     int     `json:"failed_decisions"`
	RetryCount          int     `json:"retry_count"`
	FallbackCount       int     `json:"fallback_count"`
	ForcedDecisions     int     `json:"forced_decisions"`
	TotalDecisionTime   float64 `json:"total_decision_time"` // seconds
	AvgDecisionTime     float64 `json:"avg_decision_time"`   // seconds
}

// SuccessRate is the share of backend-driven decisions that did not fall back.
func (s Summary) SuccessRate() float64 {
	if s.TotalDecisions == 0 {
		return 0
	}
	return float64(s.SuccessfulDecisions) / float64(s.TotalDecisions)
}

// Add merges two summaries, recomputing the average.
func (s Summary) Add(other Summary) Summary {
	sum := Summary{
		TotalDecisions:      s.TotalDecisions + other.TotalDecisions,
		SuccessfulDecisions: s.SuccessfulDecisions + other.SuccessfulDecisions,
		FailedDecisions:     s.FailedDecisions + other.FailedDecisions,
		RetryCount:          s.RetryCount + other.RetryCount,
		FallbackCount:       s.FallbackCount + other.FallbackCount,
		ForcedDecisions:     s.ForcedDecisions + other.ForcedDecisions,
		TotalDecisionTime:   s.TotalDecisionTime + other.TotalDecisionTime,
	}
	if sum.TotalDecisions > 0 {
		sum.AvgDecisionTime = sum.TotalDecisionTime / float64(sum.TotalDecisions)
	}
	return sum
}

type Collector interface {
	Record(elapsed time.Duration, ok bool)
	AddRetry()
	AddFallback()
	AddForced()
	Complete() Summary
	Reset() Summary
}

type collector struct {
	total      atomic.Int32
	successful atomic.Int32
	failed     atomic.Int32
	retries    atomic.Int32
	fallbacks  atomic.Int32
	forced     atomic.Int32
	elapsed    atomic.Int64 // nanoseconds
}

func NewCollector() Collector {
	return &collector{}
}

// Record counts one backend-driven decision. Forced moves go through AddForced
// and never reach here.
func (m *collector) Record(elapsed time.Duration, ok bool) {
	m.total.Add(1)
	if ok {
		m.successful.Add(1)
	} else {
		m.failed.Add(1)
	}
	m.elapsed.Add(int64(elapsed))
}

func (m *collector) AddRetry() {
	m.retries.Add(1)
}

func (m *collector) AddFallback() {
	m.fallbacks.Add(1)
}

func (m *collector) AddForced() {
	m.forced.Add(1)
}

func (m *collector) Complete() Summary {
	s := Summary{
		TotalDecisions:      int(m.total.Load()),
		SuccessfulDecisions: int(m.successful.Load()),
		FailedDecisions:     int(m.failed.Load()),
		RetryCount:          int(m.retries.Load()),
		FallbackCount:       int(m.fallbacks.Load()),
		ForcedDecisions:     int(m.forced.Load()),
		TotalDecisionTime:   time.Duration(m.elapsed.Load()).Seconds(),
	}
	if s.TotalDecisions > 0 {
		s.AvgDecisionTime = s.TotalDecisionTime / float64(s.TotalDecisions)
	}
	return s
}

// Reset returns the counters accumulated so far and zeroes them.
func (m *collector) Reset() Summary {
	s := Summary{
		TotalDecisions:      int(m.total.Swap(0)),
		SuccessfulDecisions: int(m.successful.Swap(0)),
		FailedDecisions:     int(m.failed.Swap(0)),
		RetryCount:          int(m.retries.Swap(0)),
		FallbackCount:       int(m.fallbacks.Swap(0)),
		ForcedDecisions:     int(m.forced.Swap(0)),
		TotalDecisionTime:   time.Duration(m.elapsed.Swap(0)).Seconds(),
	}
	if s.TotalDecisions > 0 {
		s.AvgDecisionTime = s.TotalDecisionTime / float64(s.TotalDecisions)
	}
	return s
}
