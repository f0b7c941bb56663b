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

package health

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func healthyProbe(context.Context) CheckResult {
	return CheckResult{Status: StatusHealthy}
}

func unhealthyProbe(context.Context) CheckResult {
	return CheckResult{Status: StatusUnhealthy, Error: "connection refused"}
}

func degradedProbe(context.Context) CheckResult {
	return CheckResult{Status: StatusDegraded}
}

func TestCheck_AllHealthy(t *testing.T) {
	m := NewManager("chatd", "1.0.0", zap.NewNop())
	m.RegisterFunc("catalog", healthyProbe)
	m.RegisterFunc("places", healthyProbe)

	report := m.Check(context.Background())
	assert.Equal(t, StatusHealthy, report.Status)
	assert.Equal(t, "chatd", report.Service)
	assert.Len(t, report.Dependencies, 2)
}

func TestCheck_UnhealthyDominates(t *testing.T) {
	m := NewManager("chatd", "1.0.0", zap.NewNop())
	m.RegisterFunc("catalog", healthyProbe)
	m.RegisterFunc("places", unhealthyProbe)
	m.RegisterFunc("openai", degradedProbe)

	report := m.Check(context.Background())
	assert.Equal(t, StatusUnhealthy, report.Status)
	assert.Equal(t, "connection refused", report.Dependencies["places"].Error)
}

func TestCheck_DegradedWithoutUnhealthy(t *testing.T) {
	m := NewManager("chatd", "1.0.0", zap.NewNop())
	m.RegisterFunc("catalog", healthyProbe)
	m.RegisterFunc("openai", degradedProbe)

	report := m.Check(context.Background())
	assert.Equal(t, StatusDegraded, report.Status)
}

func TestHTTPHandler_StatusCodes(t *testing.T) {
	tests := []struct {
		name     string
		probe    func(context.Context) CheckResult
		wantCode int
	}{
		{"healthy", healthyProbe, http.StatusOK},
		{"degraded", degradedProbe, http.StatusOK},
		{"unhealthy", unhealthyProbe, http.StatusServiceUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := NewManager("chatd", "1.0.0", zap.NewNop())
			m.RegisterFunc("dep", tt.probe)

			rec := httptest.NewRecorder()
			m.HTTPHandler()(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

			assert.Equal(t, tt.wantCode, rec.Code)

			var report Report
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &report))
			assert.Contains(t, report.Dependencies, "dep")
		})
	}
}

func TestHTTPHandler_RejectsNonGet(t *testing.T) {
	m := NewManager("chatd", "1.0.0", zap.NewNop())

	rec := httptest.NewRecorder()
	m.HTTPHandler()(rec, httptest.NewRequest(http.MethodPost, "/health", nil))

	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}
