// Copyright 2024 World Journey AI Project
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package health aggregates dependency probes behind a single HTTP endpoint.
package health

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"go.uber.org/zap"
)

const (
	// StatusHealthy means the dependency answered its probe.
	StatusHealthy = "healthy"
	// StatusUnhealthy means the dependency failed its probe.
	StatusUnhealthy = "unhealthy"
	// StatusDegraded means the dependency answered but with a warning.
	StatusDegraded = "degraded"

	// DefaultTimeout bounds a full probe round.
	DefaultTimeout = 5 * time.Second
)

// CheckResult is the outcome of one dependency probe.
type CheckResult struct {
	Status    string         `json:"status"`
	Latency   time.Duration  `json:"latency"`
	Error     string         `json:"error,omitempty"`
	Metadata  map[string]any `json:"metadata,omitempty"`
	Timestamp time.Time      `json:"timestamp"`
}

// Report is the aggregate answer for the health endpoint.
type Report struct {
	Status       string                 `json:"status"`
	Service      string                 `json:"service"`
	Version      string                 `json:"version"`
	Uptime       time.Duration          `json:"uptime"`
	Dependencies map[string]CheckResult `json:"dependencies"`
	Timestamp    time.Time              `json:"timestamp"`
}

// Checker probes one dependency.
type Checker interface {
	Check(ctx context.Context) CheckResult
}

// CheckerFunc adapts a function to the Checker interface.
type CheckerFunc func(ctx context.Context) CheckResult

// Check implements Checker.
func (f CheckerFunc) Check(ctx context.Context) CheckResult {
	return f(ctx)
}

// Manager runs the registered probes and reports the worst status.
type Manager struct {
	service   string
	version   string
	startedAt time.Time
	checkers  map[string]Checker
	timeout   time.Duration
	logger    *zap.Logger
}

// NewManager creates a probe manager for a named service.
func NewManager(service, version string, logger *zap.Logger) *Manager {
	return &Manager{
		service:   service,
		version:   version,
		startedAt: time.Now(),
		checkers:  make(map[string]Checker),
		timeout:   DefaultTimeout,
		logger:    logger,
	}
}

// SetTimeout overrides the probe-round timeout.
func (m *Manager) SetTimeout(timeout time.Duration) {
	m.timeout = timeout
}

// Register adds a named probe.
func (m *Manager) Register(name string, checker Checker) {
	m.checkers[name] = checker
}

// RegisterFunc adds a named probe function.
func (m *Manager) RegisterFunc(name string, fn func(ctx context.Context) CheckResult) {
	m.checkers[name] = CheckerFunc(fn)
}

// Check runs every probe and folds the results into one report. Any
// unhealthy dependency makes the whole report unhealthy; degraded only
// wins when nothing is unhealthy.
func (m *Manager) Check(ctx context.Context) Report {
	ctx, cancel := context.WithTimeout(ctx, m.timeout)
	defer cancel()

	dependencies := make(map[string]CheckResult, len(m.checkers))
	overall := StatusHealthy

	for name, checker := range m.checkers {
		start := time.Now()
		result := checker.Check(ctx)
		result.Latency = time.Since(start)
		result.Timestamp = time.Now()
		dependencies[name] = result

		switch result.Status {
		case StatusUnhealthy:
			overall = StatusUnhealthy
		case StatusDegraded:
			if overall != StatusUnhealthy {
				overall = StatusDegraded
			}
		}
	}

	return Report{
		Status:       overall,
		Service:      m.service,
		Version:      m.version,
		Uptime:       time.Since(m.startedAt),
		Dependencies: dependencies,
		Timestamp:    time.Now(),
	}
}

// HTTPHandler serves the report as JSON. Unhealthy maps to 503; degraded
// stays 200 so load balancers keep routing.
func (m *Manager) HTTPHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		report := m.Check(r.Context())

		status := http.StatusOK
		if report.Status == StatusUnhealthy {
			status = http.StatusServiceUnavailable
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		if err := json.NewEncoder(w).Encode(report); err != nil {
			m.logger.Error("Failed to write health report", zap.Error(err))
		}
	}
}
