// Package v1 exposes the orchestration core over HTTP. Handlers only decode
// requests, call the router, and encode responses.
package v1

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/storyai/wellspring/ai/classifier"
	"github.com/storyai/wellspring/ai/core/llm"
	"github.com/storyai/wellspring/ai/exercise"
	"github.com/storyai/wellspring/ai/gratitude"
	"github.com/storyai/wellspring/ai/guide"
	"github.com/storyai/wellspring/ai/insight"
	"github.com/storyai/wellspring/ai/metrics"
	"github.com/storyai/wellspring/ai/orchestrator"
	"github.com/storyai/wellspring/ai/routing"
	"github.com/storyai/wellspring/ai/therapy"
	"github.com/storyai/wellspring/internal/profile"
	"github.com/storyai/wellspring/store"
)

type APIV1Service struct {
	Profile *profile.Profile
	Store   *store.Store

	Router   *orchestrator.Router
	Therapy  *therapy.Manager
	Exporter *metrics.PrometheusExporter
}

// NewAPIV1Service builds the AI stack and the router from the profile. A
// missing LLM configuration is not fatal: components degrade to their
// fallbacks and the service stays up.
func NewAPIV1Service(instanceProfile *profile.Profile, storeInstance *store.Store) *APIV1Service {
	exporter := metrics.NewPrometheusExporter(metrics.DefaultConfig())

	var llmService llm.Service
	if instanceProfile.LLMAPIKey != "" || instanceProfile.LLMProvider == "ollama" {
		var err error
		llmService, err = llm.NewService(&llm.Config{
			Provider: instanceProfile.LLMProvider,
			Model:    instanceProfile.LLMModel,
			APIKey:   instanceProfile.LLMAPIKey,
			BaseURL:  instanceProfile.LLMBaseURL,
			Timeout:  instanceProfile.LLMTimeout,
		})
		if err != nil {
			slog.Warn("failed to initialize LLM service", "provider", instanceProfile.LLMProvider, "error", err)
		} else {
			llmService = llm.Instrument(llmService, exporter, instanceProfile.LLMModel, instanceProfile.LLMProvider)
			slog.Info("LLM service initialized",
				"provider", instanceProfile.LLMProvider,
				"model", instanceProfile.LLMModel)
			// Warm the connection asynchronously to cut first-request latency.
			go func(svc llm.Service) {
				warmupCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
				defer cancel()
				svc.Warmup(warmupCtx)
			}(llmService)
		}
	} else {
		slog.Warn("no LLM configured, generation falls back to templates")
	}

	var cls classifier.Classifier
	if llmService != nil {
		classifierLLM := llmService
		if instanceProfile.ClassifierModel != instanceProfile.LLMModel {
			svc, err := llm.NewService(&llm.Config{
				Provider: instanceProfile.LLMProvider,
				Model:    instanceProfile.ClassifierModel,
				APIKey:   instanceProfile.ClassifierAPIKey,
				BaseURL:  instanceProfile.ClassifierBaseURL,
				Timeout:  instanceProfile.ClassifierTimeout,
			})
			if err != nil {
				slog.Warn("failed to initialize classifier LLM, sharing the main service", "error", err)
			} else {
				classifierLLM = llm.Instrument(svc, exporter, instanceProfile.ClassifierModel, instanceProfile.LLMProvider)
			}
		}
		cls = classifier.New(classifierLLM, classifier.Config{
			Timeout: time.Duration(instanceProfile.ClassifierTimeout) * time.Second,
		})
	}

	therapyManager := therapy.NewManager(llmService, nil, newSessionArchiver(storeInstance), therapy.Config{
		WindowTurns: instanceProfile.SessionWindowTurns,
	})

	var discovery orchestrator.Discovery
	var transport orchestrator.Transport
	if instanceProfile.DiscoveryURL != "" {
		discovery = orchestrator.NewCachedDiscovery(
			orchestrator.NewHTTPDiscovery(instanceProfile.DiscoveryURL, 10*time.Second),
			time.Hour,
			exporter,
		)
		transport = orchestrator.NewHTTPTransport(orchestrator.TransportConfig{
			Timeout: time.Duration(instanceProfile.TransportTimeout) * time.Second,
		})
	}

	router := orchestrator.NewRouter(orchestrator.Deps{
		Analyzer:  insight.NewAnalyzer(cls, llmService, insight.Config{}),
		Exercise:  exercise.NewGenerator(llmService),
		Gratitude: gratitude.NewGenerator(llmService),
		Therapy:   therapyManager,
		Guide:     guide.NewRecommender(),
		Routing:   routing.NewService(routing.Config{Exporter: exporter}),
		Discovery: discovery,
		Transport: transport,
		Recorder:  newJournalRecorder(storeInstance),
		Exporter:  exporter,
	})

	return &APIV1Service{
		Profile:  instanceProfile,
		Store:    storeInstance,
		Router:   router,
		Therapy:  therapyManager,
		Exporter: exporter,
	}
}

// Register attaches the v1 routes to the echo server.
func (s *APIV1Service) Register(e *echo.Echo) {
	group := e.Group("/api/v1")

	group.POST("/journal/analyze", s.handleKind(orchestrator.KindJournal))
	group.POST("/exercise/generate", s.handleKind(orchestrator.KindExercise))
	group.POST("/gratitude/generate", s.handleKind(orchestrator.KindGratitude))
	group.POST("/therapy/session", s.handleKind(orchestrator.KindTherapy))
	group.POST("/guide/recommend", s.handleKind(orchestrator.KindGuide))
	group.POST("/assistant/query", s.handleKind(orchestrator.KindQuery))

	group.GET("/journal/entries", s.listJournalEntries)
	group.GET("/therapy/sessions", s.listTherapySessions)
}

type routeRequest struct {
	UserID    string `json:"user_id"`
	Payload   string `json:"payload"`
	SessionID string `json:"session_id,omitempty"`
	Action    string `json:"action,omitempty"`
}

// handleKind returns a handler that routes the body under a fixed kind.
func (s *APIV1Service) handleKind(kind orchestrator.RequestKind) echo.HandlerFunc {
	return func(c echo.Context) error {
		var body routeRequest
		if err := c.Bind(&body); err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "malformed request body").SetInternal(err)
		}
		if body.UserID == "" {
			return echo.NewHTTPError(http.StatusBadRequest, "user_id is required")
		}

		resp, err := s.Router.Route(c.Request().Context(), &orchestrator.Request{
			UserID:    body.UserID,
			Kind:      kind,
			Payload:   body.Payload,
			SessionID: body.SessionID,
			Action:    body.Action,
		})
		if err != nil {
			return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
		}
		if kind == orchestrator.KindTherapy && s.Therapy != nil {
			s.Exporter.SetActiveSessions(s.Therapy.ActiveCount())
		}
		return c.JSON(http.StatusOK, resp)
	}
}

func (s *APIV1Service) listJournalEntries(c echo.Context) error {
	userID := c.QueryParam("user_id")
	if userID == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "user_id is required")
	}

	limit := 50
	entries, err := s.Store.ListJournalEntries(c.Request().Context(), &store.FindJournalEntry{
		UserID: &userID,
		Limit:  &limit,
	})
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to list journal entries").SetInternal(err)
	}
	return c.JSON(http.StatusOK, entries)
}

func (s *APIV1Service) listTherapySessions(c echo.Context) error {
	userID := c.QueryParam("user_id")
	if userID == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "user_id is required")
	}

	limit := 50
	sessions, err := s.Store.ListTherapySessions(c.Request().Context(), &store.FindTherapySession{
		UserID: &userID,
		Limit:  &limit,
	})
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to list therapy sessions").SetInternal(err)
	}
	return c.JSON(http.StatusOK, sessions)
}
