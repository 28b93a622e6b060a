package v1

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/storyai/wellspring/ai/orchestrator"
	"github.com/storyai/wellspring/internal/profile"
	"github.com/storyai/wellspring/store"
	"github.com/storyai/wellspring/store/db/sqlite"
)

func newTestService(t *testing.T) (*APIV1Service, *echo.Echo) {
	t.Helper()

	instanceProfile := &profile.Profile{Mode: "dev", Driver: "sqlite", DSN: "file::memory:"}
	driver, err := sqlite.NewDB(instanceProfile)
	require.NoError(t, err)
	t.Cleanup(func() { driver.Close() })
	require.NoError(t, driver.Migrate(context.Background()))

	storeInstance := store.New(driver, instanceProfile)

	// No LLM configured: every generation path exercises its fallback.
	service := NewAPIV1Service(instanceProfile, storeInstance)
	e := echo.New()
	service.Register(e)
	return service, e
}

func postJSON(e *echo.Echo, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestGuideRecommendHandler(t *testing.T) {
	_, e := newTestService(t)

	rec := postJSON(e, "/api/v1/guide/recommend", `{"user_id":"u-1","payload":"I want to talk about my feelings"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp orchestrator.Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotNil(t, resp.Primary)
	assert.Equal(t, "guide", resp.Primary.Kind)
	assert.False(t, resp.Degraded)
}

func TestJournalAnalyzeDegradesWithoutLLM(t *testing.T) {
	_, e := newTestService(t)

	rec := postJSON(e, "/api/v1/journal/analyze", `{"user_id":"u-1","payload":"Today was a quiet day. I read a book."}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp orchestrator.Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotNil(t, resp.Primary)
	assert.Equal(t, "insight", resp.Primary.Kind)
	// The generators need an LLM, so their branches degrade.
	assert.True(t, resp.Degraded)
}

func TestJournalAnalyzePersists(t *testing.T) {
	service, e := newTestService(t)

	rec := postJSON(e, "/api/v1/journal/analyze", `{"user_id":"u-7","payload":"Grateful for a calm morning."}`)
	require.Equal(t, http.StatusOK, rec.Code)

	userID := "u-7"
	entries, err := service.Store.ListJournalEntries(context.Background(), &store.FindJournalEntry{UserID: &userID})
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "Grateful for a calm morning.", entries[0].Content)
	assert.Equal(t, "unknown", entries[0].Sentiment)
}

func TestHandlerValidation(t *testing.T) {
	_, e := newTestService(t)

	rec := postJSON(e, "/api/v1/guide/recommend", `{"payload":"help"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = postJSON(e, "/api/v1/guide/recommend", `{not json`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestListJournalEntriesRequiresUserID(t *testing.T) {
	_, e := newTestService(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/journal/entries", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestTherapySessionEndToEnd(t *testing.T) {
	service, e := newTestService(t)

	rec := postJSON(e, "/api/v1/therapy/session", `{"user_id":"u-1","payload":"I had a rough week."}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp orchestrator.Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotNil(t, resp.Primary)
	sessionID := resp.Primary.SessionID
	require.NotEmpty(t, sessionID)

	rec = postJSON(e, "/api/v1/therapy/session",
		`{"user_id":"u-1","session_id":"`+sessionID+`","action":"end"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	// The ended session is archived through the store.
	archived, err := service.Store.GetTherapySession(context.Background(), sessionID)
	require.NoError(t, err)
	require.NotNil(t, archived)
	assert.Equal(t, store.SessionStatusEnded, archived.Status)
}
