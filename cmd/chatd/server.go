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

package main

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/worldjourney/travel-assistant/internal/config"
	"github.com/worldjourney/travel-assistant/internal/engine"
	"github.com/worldjourney/travel-assistant/internal/health"
)

// probeTimeout bounds each dependency probe inside the health round.
const probeTimeout = 2 * time.Second

// MessageRequest is the JSON payload for chat requests.
type MessageRequest struct {
	SessionID string `json:"session_id"`
	Message   string `json:"message" binding:"required"`
}

// MessageResponse wraps the engine reply for one chat request.
type MessageResponse struct {
	SessionID string             `json:"session_id"`
	Reply     engine.ReplyPayload `json:"reply"`
}

// server is the HTTP surface of the chat daemon.
type server struct {
	cfg     *config.Config
	deps    *dependencies
	logger  *zap.Logger
	healthy *health.Manager
}

func newServer(cfg *config.Config, deps *dependencies, logger *zap.Logger) *server {
	s := &server{
		cfg:     cfg,
		deps:    deps,
		logger:  logger,
		healthy: health.NewManager("chatd", serviceVersion, logger),
	}
	s.registerProbes()
	return s
}

func (s *server) run(addr string) error {
	if s.cfg.Logging.Level == "debug" {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}
	return s.router().Run(addr)
}

func (s *server) router() *gin.Engine {
	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())

	router.GET("/health", gin.WrapH(s.healthy.HTTPHandler()))
	router.POST("/api/messages", s.handleMessage)
	router.GET("/api/search", s.handleSearch)
	return router
}

// handleMessage answers one chat message. The engine never fails a request;
// validation problems and generation outages all come back as templated
// replies with a confidence label.
func (s *server) handleMessage(c *gin.Context) {
	var req MessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	sessionID := req.SessionID
	if sessionID == "" {
		sessionID = "anonymous"
	}

	reply := s.deps.eng.Handle(c.Request.Context(), sessionID, req.Message)
	c.JSON(http.StatusOK, MessageResponse{
		SessionID: sessionID,
		Reply:     reply,
	})
}

// handleSearch exposes the destination index directly: substring matches
// first, fuzzy candidates when nothing contains the query.
func (s *server) handleSearch(c *gin.Context) {
	query := c.Query("q")
	if query == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Query parameter q is required"})
		return
	}

	limit := s.cfg.Chat.MaxSuggestions
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid limit"})
			return
		}
		if parsed < limit {
			limit = parsed
		}
	}

	results := s.deps.index.Search(query, limit)
	c.JSON(http.StatusOK, gin.H{
		"query":   query,
		"count":   len(results),
		"results": results,
	})
}

func (s *server) registerProbes() {
	s.healthy.RegisterFunc("catalog", func(ctx context.Context) health.CheckResult {
		if s.deps.index.Len() == 0 {
			return health.CheckResult{
				Status: health.StatusUnhealthy,
				Error:  "destination catalog is empty",
			}
		}
		return health.CheckResult{
			Status:   health.StatusHealthy,
			Metadata: map[string]any{"destinations": s.deps.index.Len()},
		}
	})

	s.healthy.RegisterFunc("places", func(ctx context.Context) health.CheckResult {
		ctx, cancel := context.WithTimeout(ctx, probeTimeout)
		defer cancel()

		count, err := s.deps.store.Count(ctx)
		if err != nil {
			return health.CheckResult{
				Status: health.StatusUnhealthy,
				Error:  fmt.Sprintf("places database check failed: %v", err),
			}
		}
		return health.CheckResult{
			Status:   health.StatusHealthy,
			Metadata: map[string]any{"places": count},
		}
	})

	s.healthy.RegisterFunc("openai", func(ctx context.Context) health.CheckResult {
		if s.deps.generator == nil {
			return health.CheckResult{
				Status: health.StatusDegraded,
				Error:  "generation disabled, serving catalog answers only",
			}
		}
		return health.CheckResult{Status: health.StatusHealthy}
	})
}
