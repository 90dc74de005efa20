package server

import (
	"bytes"
	"context"
	"encoding/json"
	stderrors "errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nextgen-api/internal/common/config"
	apperrors "nextgen-api/internal/common/errors"
	"nextgen-api/internal/common/logger"
	"nextgen-api/internal/dispatch"
	"nextgen-api/internal/models"
)

// ==========================
// Test Helper Functions
// ==========================

type fakeProcessor struct {
	result *models.FiveWs
	err    error
}

func (f *fakeProcessor) Process(context.Context, *models.TaskRequest) (*models.FiveWs, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.result, nil
}

func createTestRouter(t *testing.T, proc dispatch.Processor, timeout time.Duration) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	cfg := &config.Config{
		App:    config.AppConfig{Environment: "test"},
		Server: config.ServerConfig{Port: 8000, AllowedOrigins: []string{"*"}},
	}
	log := logger.NewTestLogger(t)
	d := dispatch.New(proc, timeout, log)
	return NewRouter(cfg, d, log)
}

func performRequest(router *gin.Engine, method, path string, body interface{}) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body != nil {
		data, _ := json.Marshal(body)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func generatePayload() map[string]interface{} {
	return map[string]interface{}{
		"instructions": map[string]interface{}{"task_name": "five_ws_extraction"},
		"document": map[string]interface{}{
			"document_type": "report",
			"metadata":      map[string]interface{}{},
			"content":       "Patient has hypertension.",
		},
		"sources":    map[string]interface{}{},
		"indicators": map[string]interface{}{"citation": false, "reasoning": true},
	}
}

func okProcessor() *fakeProcessor {
	return &fakeProcessor{result: &models.FiveWs{
		Who:   []string{"patient"},
		What:  []string{"hypertension"},
		When:  []string{"current"},
		Where: []string{"clinic"},
		Why:   []string{"assessment"},
	}}
}

// ==========================
// Core Routes
// ==========================

func TestIndex(t *testing.T) {
	router := createTestRouter(t, okProcessor(), 0)
	w := performRequest(router, http.MethodGet, "/api/nextgen/", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "NextGen API is live!")
}

func TestCapabilities(t *testing.T) {
	router := createTestRouter(t, okProcessor(), 0)
	w := performRequest(router, http.MethodGet, "/api/nextgen/capabilities", nil)

	require.Equal(t, http.StatusOK, w.Code)
	var resp models.CapabilitiesResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, []string{"five_ws_extraction", "summarization"}, resp.Tasks)
}

func TestHeartbeat(t *testing.T) {
	router := createTestRouter(t, okProcessor(), 0)
	w := performRequest(router, http.MethodPost, "/api/nextgen/heartbeat", nil)

	require.Equal(t, http.StatusOK, w.Code)
	var resp models.HeartbeatResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "heartbeat OK", resp.Info)
	assert.Equal(t, "backend", resp.Role)
}

// ==========================
// Generate
// ==========================

func TestGenerate_Success(t *testing.T) {
	router := createTestRouter(t, okProcessor(), 0)
	w := performRequest(router, http.MethodPost, "/api/nextgen/generate", generatePayload())

	require.Equal(t, http.StatusOK, w.Code)
	var resp models.TaskResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, models.TaskFiveWsExtraction, resp.TaskName)
	require.NotNil(t, resp.Result)
	assert.Equal(t, []string{"patient"}, resp.Result.Who)
}

func TestGenerate_ValidationFailure(t *testing.T) {
	router := createTestRouter(t, okProcessor(), 0)
	payload := generatePayload()
	payload["document"].(map[string]interface{})["content"] = "   "

	w := performRequest(router, http.MethodPost, "/api/nextgen/generate", payload)

	require.Equal(t, http.StatusBadRequest, w.Code)
	var resp models.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, apperrors.KindInvalidPayload, resp.ErrorKind)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	require.Len(t, resp.Details, 1)
	assert.Equal(t, "document.content", resp.Details[0].FieldPath)
}

func TestGenerate_CrossFieldFailure(t *testing.T) {
	router := createTestRouter(t, okProcessor(), 0)
	payload := generatePayload()
	payload["indicators"] = map[string]interface{}{"citation": true, "reasoning": false}

	w := performRequest(router, http.MethodPost, "/api/nextgen/generate", payload)

	require.Equal(t, http.StatusBadRequest, w.Code)
	var resp models.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, apperrors.KindCrossFieldViolation, resp.ErrorKind)
}

func TestGenerate_MalformedBody(t *testing.T) {
	router := createTestRouter(t, okProcessor(), 0)

	req := httptest.NewRequest(http.MethodPost, "/api/nextgen/generate", bytes.NewReader([]byte("{not json")))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusBadRequest, w.Code)
	var resp models.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, apperrors.KindInvalidPayload, resp.ErrorKind)
}

func TestGenerate_ProcessorFailureEnvelopes(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantKind   apperrors.Kind
	}{
		{
			name:       "timeout",
			err:        apperrors.NewDownstreamTimeout(context.DeadlineExceeded),
			wantStatus: http.StatusGatewayTimeout,
			wantKind:   apperrors.KindDownstreamTimeout,
		},
		{
			name:       "unavailable",
			err:        apperrors.NewDownstreamUnavailable(stderrors.New("refused")),
			wantStatus: http.StatusServiceUnavailable,
			wantKind:   apperrors.KindDownstreamUnavailable,
		},
		{
			name:       "provider failure",
			err:        apperrors.NewProviderFailure(stderrors.New("upstream 500")),
			wantStatus: apperrors.StatusProviderFailure,
			wantKind:   apperrors.KindProviderFailure,
		},
		{
			name:       "unclassified",
			err:        stderrors.New("boom"),
			wantStatus: http.StatusInternalServerError,
			wantKind:   apperrors.KindInternal,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := createTestRouter(t, &fakeProcessor{err: tt.err}, 0)
			w := performRequest(router, http.MethodPost, "/api/nextgen/generate", generatePayload())

			require.Equal(t, tt.wantStatus, w.Code)
			var resp models.ErrorResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			assert.Equal(t, tt.wantKind, resp.ErrorKind)
			assert.Empty(t, resp.Details)
		})
	}
}

// ==========================
// Last-Resort Recovery
// ==========================

type panickingProcessor struct{}

func (panickingProcessor) Process(context.Context, *models.TaskRequest) (*models.FiveWs, error) {
	panic("unexpected state")
}

func TestGenerate_PanicYieldsInternalEnvelope(t *testing.T) {
	router := createTestRouter(t, panickingProcessor{}, 0)
	w := performRequest(router, http.MethodPost, "/api/nextgen/generate", generatePayload())

	require.Equal(t, http.StatusInternalServerError, w.Code)
	var resp models.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, apperrors.KindInternal, resp.ErrorKind)
	assert.Equal(t, "Internal server error", resp.Message)
	assert.NotContains(t, w.Body.String(), "unexpected state")
}

func TestMetricsEndpoint(t *testing.T) {
	router := createTestRouter(t, okProcessor(), 0)
	w := performRequest(router, http.MethodGet, "/metrics", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}
