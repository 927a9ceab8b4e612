// Package health provides the health check endpoint for CivicLens.
//
// This package implements:
//   - HTTP health check endpoint
//   - Uptime monitoring
//   - Last letter generation tracking
package health

import (
	"encoding/json"
	"log"
	"net/http"
	"sync"
	"time"
)

// Status is the payload returned by the /health endpoint.
//
// Fields:
//   - Status: Overall health status ("healthy")
//   - Uptime: How long the application has been running
//   - RecordCount: Number of persisted complaint records
//   - LetterGenerator: Active generator variant ("gemini" or "template")
//   - LastGeneration: When the last letter generation completed
//   - LastGenerationStatus: Outcome of the last generation
type Status struct {
	Status               string `json:"status"`
	Uptime               string `json:"uptime"`
	RecordCount          int    `json:"record_count"`
	LetterGenerator      string `json:"letter_generator"`
	LastGeneration       string `json:"last_generation_time"`
	LastGenerationStatus string `json:"last_generation_status"`
}

// Counter reports the number of persisted records. The record store
// implements it.
type Counter interface {
	Count() int
}

// Monitor tracks application health metrics.
//
// Thread-safety: all fields are protected by RWMutex; safe for
// concurrent updates from wizard sessions.
type Monitor struct {
	startTime      time.Time
	generator      string
	records        Counter
	lastGeneration time.Time
	lastStatus     string
	mu             sync.RWMutex
}

// NewMonitor creates a health monitor. generator names the active
// letter generator variant.
func NewMonitor(generator string, records Counter) *Monitor {
	return &Monitor{
		startTime:  time.Now(),
		generator:  generator,
		records:    records,
		lastStatus: "not started",
	}
}

// RecordGeneration notes the outcome of a letter generation.
//
// Call after every generation: "success" for the primary generator,
// "fallback" when the template produced the letter.
func (m *Monitor) RecordGeneration(status string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lastGeneration = time.Now()
	m.lastStatus = status
}

// GetStatus returns the current health status.
func (m *Monitor) GetStatus() Status {
	m.mu.RLock()
	defer m.mu.RUnlock()

	count := 0
	if m.records != nil {
		count = m.records.Count()
	}

	return Status{
		Status:               "healthy",
		Uptime:               time.Since(m.startTime).String(),
		RecordCount:          count,
		LetterGenerator:      m.generator,
		LastGeneration:       m.lastGeneration.Format("2006-01-02 15:04:05"),
		LastGenerationStatus: m.lastStatus,
	}
}

// StartServer starts the health check HTTP server in a background
// goroutine.
//
// Endpoints:
//   - GET /health: Returns JSON health status
func StartServer(monitor *Monitor, port string) {
	http.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		status := monitor.GetStatus()

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(status)
	})

	go func() {
		log.Printf("✓ Health check server started on :%s", port)
		if err := http.ListenAndServe(":"+port, nil); err != nil {
			log.Printf("⚠️  Health check server error: %v", err)
		}
	}()
}
