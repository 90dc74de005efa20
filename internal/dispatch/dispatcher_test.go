package dispatch

import (
	"context"
	stderrors "errors"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "nextgen-api/internal/common/errors"
	"nextgen-api/internal/common/logger"
	"nextgen-api/internal/models"
)

// ==========================
// Test Helper Functions
// ==========================

type stubProcessor struct {
	result *models.FiveWs
	err    error
	block  time.Duration

	mu    sync.Mutex
	calls int
	last  *models.TaskRequest
}

func (s *stubProcessor) Process(ctx context.Context, req *models.TaskRequest) (*models.FiveWs, error) {
	s.mu.Lock()
	s.calls++
	s.last = req
	s.mu.Unlock()
	if s.block > 0 {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(s.block):
		}
	}
	if s.err != nil {
		return nil, s.err
	}
	return s.result, nil
}

func createTestDispatcher(t *testing.T, proc Processor, timeout time.Duration) *Dispatcher {
	t.Helper()
	return New(proc, timeout, logger.NewTestLogger(t))
}

func sampleResult() *models.FiveWs {
	return &models.FiveWs{
		Who:   []string{"patient"},
		What:  []string{"hypertension"},
		When:  []string{"current"},
		Where: []string{"clinic"},
		Why:   []string{"assessment"},
	}
}

// ==========================
// Static Operations
// ==========================

func TestDispatcher_Capabilities(t *testing.T) {
	d := createTestDispatcher(t, &stubProcessor{}, 0)
	caps := d.Capabilities()
	assert.Equal(t, []string{"five_ws_extraction", "summarization"}, caps.Tasks)
}

func TestDispatcher_Heartbeat(t *testing.T) {
	d := createTestDispatcher(t, &stubProcessor{}, 0)
	hb := d.Heartbeat()
	assert.Equal(t, "heartbeat OK", hb.Info)
	assert.Equal(t, "backend", hb.Role)
}

// ==========================
// HandleTask
// ==========================

func TestHandleTask_Success(t *testing.T) {
	proc := &stubProcessor{result: sampleResult()}
	d := createTestDispatcher(t, proc, 0)

	resp, errResp := d.HandleTask(context.Background(), validPayload())
	require.Nil(t, errResp)
	require.NotNil(t, resp)

	assert.Equal(t, models.TaskFiveWsExtraction, resp.TaskName)
	assert.Equal(t, sampleResult(), resp.Result)
	assert.Equal(t, 1, proc.calls)
	require.NotNil(t, proc.last)
	assert.Equal(t, "Patient has hypertension.", proc.last.Document.Content)
}

func TestHandleTask_ValidationFailureSkipsProcessor(t *testing.T) {
	proc := &stubProcessor{result: sampleResult()}
	d := createTestDispatcher(t, proc, 0)

	payload := validPayload()
	section(payload, "document")["content"] = ""

	resp, errResp := d.HandleTask(context.Background(), payload)
	assert.Nil(t, resp)
	require.NotNil(t, errResp)

	assert.Equal(t, http.StatusBadRequest, errResp.StatusCode)
	assert.Equal(t, apperrors.KindInvalidPayload, errResp.ErrorKind)
	require.Len(t, errResp.Details, 1)
	assert.Equal(t, "document.content", errResp.Details[0].FieldPath)
	assert.Zero(t, proc.calls)
}

func TestHandleTask_CrossFieldFailure(t *testing.T) {
	d := createTestDispatcher(t, &stubProcessor{}, 0)

	payload := validPayload()
	payload["indicators"] = map[string]interface{}{
		"citation":  true,
		"reasoning": false,
	}

	resp, errResp := d.HandleTask(context.Background(), payload)
	assert.Nil(t, resp)
	require.NotNil(t, errResp)

	assert.Equal(t, http.StatusBadRequest, errResp.StatusCode)
	assert.Equal(t, apperrors.KindCrossFieldViolation, errResp.ErrorKind)
	require.Len(t, errResp.Details, 1)
	assert.Equal(t, "indicators", errResp.Details[0].FieldPath)
}

// A mixed failure still reads INVALID_PAYLOAD at the top; the per-kind
// breakdown stays visible in the details.
func TestHandleTask_MixedViolationsReportInvalidPayload(t *testing.T) {
	d := createTestDispatcher(t, &stubProcessor{}, 0)

	payload := validPayload()
	section(payload, "document")["content"] = ""

	_, errResp := d.HandleTask(context.Background(), payload)
	require.NotNil(t, errResp)
	assert.Equal(t, apperrors.KindInvalidPayload, errResp.ErrorKind)
}

func TestHandleTask_ProcessorTimeout(t *testing.T) {
	proc := &stubProcessor{block: 500 * time.Millisecond, result: sampleResult()}
	d := createTestDispatcher(t, proc, 20*time.Millisecond)

	resp, errResp := d.HandleTask(context.Background(), validPayload())
	assert.Nil(t, resp)
	require.NotNil(t, errResp)

	assert.Equal(t, http.StatusGatewayTimeout, errResp.StatusCode)
	assert.Equal(t, apperrors.KindDownstreamTimeout, errResp.ErrorKind)
	assert.Empty(t, errResp.Details)
	// One attempt only: retry policy belongs to the caller.
	assert.Equal(t, 1, proc.calls)
}

func TestHandleTask_ClassifiedErrorPassesThrough(t *testing.T) {
	tests := []struct {
		name       string
		err        *apperrors.Error
		wantKind   apperrors.Kind
		wantStatus int
	}{
		{
			name:       "unavailable",
			err:        apperrors.NewDownstreamUnavailable(stderrors.New("dial tcp: refused")),
			wantKind:   apperrors.KindDownstreamUnavailable,
			wantStatus: http.StatusServiceUnavailable,
		},
		{
			name:       "provider failure",
			err:        apperrors.NewProviderFailure(stderrors.New("upstream 500")),
			wantKind:   apperrors.KindProviderFailure,
			wantStatus: apperrors.StatusProviderFailure,
		},
		{
			name:       "not found",
			err:        apperrors.NewNotFound("model missing"),
			wantKind:   apperrors.KindNotFound,
			wantStatus: http.StatusNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := createTestDispatcher(t, &stubProcessor{err: tt.err}, 0)

			resp, errResp := d.HandleTask(context.Background(), validPayload())
			assert.Nil(t, resp)
			require.NotNil(t, errResp)
			assert.Equal(t, tt.wantKind, errResp.ErrorKind)
			assert.Equal(t, tt.wantStatus, errResp.StatusCode)
		})
	}
}

func TestHandleTask_UnclassifiedErrorBecomesInternal(t *testing.T) {
	d := createTestDispatcher(t, &stubProcessor{err: stderrors.New("nil pointer somewhere")}, 0)

	resp, errResp := d.HandleTask(context.Background(), validPayload())
	assert.Nil(t, resp)
	require.NotNil(t, errResp)

	assert.Equal(t, http.StatusInternalServerError, errResp.StatusCode)
	assert.Equal(t, apperrors.KindInternal, errResp.ErrorKind)
	// The raw cause stays out of the wire message.
	assert.Equal(t, "Internal server error", errResp.Message)
}

func TestHandleTask_ConcurrentCallsIndependent(t *testing.T) {
	proc := &stubProcessor{result: sampleResult()}
	d := createTestDispatcher(t, proc, 0)

	done := make(chan struct{})
	for i := 0; i < 8; i++ {
		go func() {
			defer func() { done <- struct{}{} }()
			resp, errResp := d.HandleTask(context.Background(), validPayload())
			assert.Nil(t, errResp)
			assert.NotNil(t, resp)
		}()
	}
	for i := 0; i < 8; i++ {
		<-done
	}
}
