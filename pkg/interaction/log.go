package interaction

import (
	"log/slog"
	"math"
	"sync"
	"time"

	"github.com/adrianliechti/lahde/pkg/validator"

	"github.com/google/uuid"
)

const DefaultCapacity = 1000

// Record is one completed question/answer exchange. Records are immutable once logged.
type Record struct {
	ID        string    `json:"id"`
	Timestamp time.Time `json:"timestamp"`

	UserMessage       string `json:"userMessage"`
	AssistantResponse string `json:"assistantResponse"`

	Citations  []string             `json:"citations"`
	Confidence validator.Confidence `json:"confidence"`
	Warnings   []string             `json:"warnings"`

	ResponseTime int64  `json:"responseTime"`
	Client       string `json:"ip,omitempty"`
}

// Log is a bounded FIFO of interaction records.
type Log struct {
	mu sync.RWMutex

	records []Record

	head int
	size int

	now func() time.Time
}

type Option func(*Log)

func WithClock(now func() time.Time) Option {
	return func(l *Log) {
		l.now = now
	}
}

func New(capacity int, options ...Option) *Log {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}

	l := &Log{
		records: make([]Record, capacity),
		now:     time.Now,
	}

	for _, option := range options {
		option(l)
	}

	return l
}

func (l *Log) Cap() int {
	return len(l.records)
}

func (l *Log) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()

	return l.size
}

// Add stamps the record and appends it, evicting the oldest entry when full.
func (l *Log) Add(r Record) Record {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}

	r.Timestamp = l.now()

	r.Citations = clone(r.Citations)
	r.Warnings = clone(r.Warnings)

	l.mu.Lock()

	idx := (l.head + l.size) % len(l.records)

	if l.size == len(l.records) {
		l.head = (l.head + 1) % len(l.records)
	} else {
		l.size++
	}

	l.records[idx] = r

	l.mu.Unlock()

	if len(r.Warnings) > 0 || r.Confidence == validator.ConfidenceLow {
		slog.Warn("low confidence response",
			"question", Truncate(r.UserMessage, 100),
			"confidence", string(r.Confidence),
			"warnings", r.Warnings,
		)
	}

	return r
}

// Recent returns up to limit records, newest first.
func (l *Log) Recent(limit int) []Record {
	l.mu.RLock()
	defer l.mu.RUnlock()

	if limit <= 0 || limit > l.size {
		limit = l.size
	}

	result := make([]Record, 0, limit)

	for i := 0; i < limit; i++ {
		result = append(result, l.at(l.size-1-i))
	}

	return result
}

// at returns the i-th oldest record; callers hold the lock.
func (l *Log) at(i int) Record {
	return l.records[(l.head+i)%len(l.records)]
}

type Stats struct {
	LastHour       HourStats `json:"lastHour"`
	Last24Hours    DayStats  `json:"last24Hours"`
	RecentWarnings []Warning `json:"recentWarnings"`
}

type HourStats struct {
	Total               int   `json:"total"`
	LowConfidence       int   `json:"lowConfidence"`
	AverageResponseTime int64 `json:"averageResponseTime"`
}

type DayStats struct {
	Total int `json:"total"`
}

type Warning struct {
	Question  string    `json:"question"`
	Warnings  []string  `json:"warnings"`
	Timestamp time.Time `json:"timestamp"`
}

const recentWarningsLimit = 10

func (l *Log) Stats() Stats {
	l.mu.RLock()
	defer l.mu.RUnlock()

	now := l.now()

	hourAgo := now.Add(-time.Hour)
	dayAgo := now.Add(-24 * time.Hour)

	stats := Stats{
		RecentWarnings: []Warning{},
	}

	var totalTime int64

	for i := 0; i < l.size; i++ {
		r := l.at(i)

		if r.Timestamp.After(dayAgo) {
			stats.Last24Hours.Total++
		}

		if !r.Timestamp.After(hourAgo) {
			continue
		}

		stats.LastHour.Total++
		totalTime += r.ResponseTime

		if r.Confidence == validator.ConfidenceLow {
			stats.LastHour.LowConfidence++
		}

		if len(r.Warnings) > 0 {
			stats.RecentWarnings = append(stats.RecentWarnings, Warning{
				Question:  Truncate(r.UserMessage, 100),
				Warnings:  clone(r.Warnings),
				Timestamp: r.Timestamp,
			})
		}
	}

	if stats.LastHour.Total > 0 {
		avg := float64(totalTime) / float64(stats.LastHour.Total)
		stats.LastHour.AverageResponseTime = int64(math.Round(avg))
	}

	if n := len(stats.RecentWarnings); n > recentWarningsLimit {
		stats.RecentWarnings = stats.RecentWarnings[n-recentWarningsLimit:]
	}

	return stats
}

// Truncate cuts s to at most n runes.
func Truncate(s string, n int) string {
	runes := []rune(s)

	if len(runes) <= n {
		return s
	}

	return string(runes[:n])
}

func clone(s []string) []string {
	if s == nil {
		return []string{}
	}

	return append([]string{}, s...)
}
