package endpoints

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cycle-metrics/internal/domain"
	"cycle-metrics/internal/util"
)

type MockRunStore struct {
	Runs []domain.RunRecord
	Err  error
}

func (m *MockRunStore) Init() error {
	return m.Err
}

func (m *MockRunStore) StoreRun(ctx context.Context, run domain.RunRecord) error {
	if m.Err != nil {
		return m.Err
	}
	m.Runs = append(m.Runs, run)
	return nil
}

func (m *MockRunStore) GetRuns(ctx context.Context, startTime, endTime int64, limit, offset int) ([]domain.RunRecord, error) {
	if m.Err != nil {
		return nil, m.Err
	}

	var filtered []domain.RunRecord
	for _, run := range m.Runs {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}
		if run.Timestamp >= startTime && run.Timestamp <= endTime {
			filtered = append(filtered, run)
		}
	}

	if offset >= len(filtered) {
		return []domain.RunRecord{}, nil
	}
	if offset > 0 {
		filtered = filtered[offset:]
	}
	if limit > 0 && limit < len(filtered) {
		filtered = filtered[:limit]
	}
	return filtered, nil
}

func (m *MockRunStore) LatestRun(ctx context.Context) (domain.RunRecord, error) {
	if m.Err != nil {
		return domain.RunRecord{}, m.Err
	}
	if len(m.Runs) == 0 {
		return domain.RunRecord{}, domain.ErrRunNotFound
	}
	return m.Runs[len(m.Runs)-1], nil
}

func (m *MockRunStore) Close() error {
	return m.Err
}

func seededStore(now time.Time) *MockRunStore {
	store := &MockRunStore{}
	for i := 0; i < 10; i++ {
		set := domain.MetricSet{{Name: domain.TotalCycles, Unit: domain.UnitCycles, Value: int64(i * 1000)}}
		store.StoreRun(context.Background(), domain.NewRunRecord("output.log", now.Add(-time.Duration(9-i)*10*time.Second), set))
	}
	return store
}

func doGet(h *Runs, limit, offset string, body []byte) *httptest.ResponseRecorder {
	var req *http.Request
	if body == nil {
		req, _ = http.NewRequest(http.MethodGet, "/runs/"+limit+"/"+offset, nil)
	} else {
		req, _ = http.NewRequest(http.MethodGet, "/runs/"+limit+"/"+offset, bytes.NewBuffer(body))
		req.Header.Set("Content-Type", "application/json")
	}
	req = mux.SetURLVars(req, map[string]string{"limit": limit, "offset": offset})

	rr := httptest.NewRecorder()
	h.GetRunsHandler(rr, req)
	return rr
}

func decodeRuns(t *testing.T, rr *httptest.ResponseRecorder) (APIResponse, []domain.RunRecord) {
	t.Helper()
	var apiResponse APIResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &apiResponse))

	var runs []domain.RunRecord
	valueBytes, _ := json.Marshal(apiResponse.Value)
	json.Unmarshal(valueBytes, &runs)
	return apiResponse, runs
}

func TestGetRunsHandler(t *testing.T) {
	now := time.Now()
	store := seededStore(now)

	handler := &Runs{}
	handler.Init(store, &util.MetricsLogger{})

	body, _ := json.Marshal(RunsRequest{Start: now.Unix() - 100, End: now.Unix() + 10})

	// case 1: all runs
	rr := doGet(handler, "100", "0", body)
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))
	res, runs := decodeRuns(t, rr)
	assert.True(t, res.Status)
	assert.Equal(t, API_SUCCESS, res.ErrorCode)
	assert.Empty(t, res.Error)
	require.Len(t, runs, 10)
	assert.Equal(t, 10, res.Count)
	assert.Equal(t, store.Runs[0], runs[0], "metrics survive the round trip")

	// case 2: no body defaults to the last 24 hours
	rr = doGet(handler, "5", "0", nil)
	assert.Equal(t, http.StatusOK, rr.Code)
	_, runs = decodeRuns(t, rr)
	assert.Len(t, runs, 5)

	// case 3: invalid JSON body
	rr = doGet(handler, "100", "0", []byte("invalid json"))
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	res, _ = decodeRuns(t, rr)
	assert.False(t, res.Status)
	assert.Equal(t, INVALID_REQUEST_BODY, res.ErrorCode)

	// case 4: start after end
	bad, _ := json.Marshal(RunsRequest{Start: now.Unix() + 100, End: now.Unix()})
	rr = doGet(handler, "100", "0", bad)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	res, _ = decodeRuns(t, rr)
	assert.Equal(t, INVALID_TIME_RANGE, res.ErrorCode)

	// case 5: pagination
	rr = doGet(handler, "5", "8", body)
	assert.Equal(t, http.StatusOK, rr.Code)
	_, runs = decodeRuns(t, rr)
	require.Len(t, runs, 2)
	assert.Equal(t, store.Runs[8].RunID, runs[0].RunID)

	// case 6: offset beyond data
	rr = doGet(handler, "5", "100", body)
	assert.Equal(t, http.StatusNotFound, rr.Code)
	res, _ = decodeRuns(t, rr)
	assert.Equal(t, METRICS_NOT_AVAILABLE, res.ErrorCode)

	// case 7: limit 0 defaults to 100, negative offset to 0
	rr = doGet(handler, "0", "-5", body)
	assert.Equal(t, http.StatusOK, rr.Code)
	_, runs = decodeRuns(t, rr)
	require.Len(t, runs, 10)
	assert.Equal(t, store.Runs[0].RunID, runs[0].RunID)

	// case 8: non-integer limit and offset
	rr = doGet(handler, "abc", "0", body)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	res, _ = decodeRuns(t, rr)
	assert.Equal(t, INVALID_PARAMETERS, res.ErrorCode)

	rr = doGet(handler, "10", "xyz", body)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	res, _ = decodeRuns(t, rr)
	assert.Equal(t, INVALID_PARAMETERS, res.ErrorCode)

	// case 9: wrong method
	req, _ := http.NewRequest(http.MethodPost, "/runs/10/0", nil)
	req = mux.SetURLVars(req, map[string]string{"limit": "10", "offset": "0"})
	rr = httptest.NewRecorder()
	handler.GetRunsHandler(rr, req)
	assert.Equal(t, http.StatusMethodNotAllowed, rr.Code)
	res, _ = decodeRuns(t, rr)
	assert.Equal(t, API_FAILURE, res.ErrorCode)
	assert.Contains(t, res.Error, ErrMethodNotAllowed.Error())
}

func TestGetRunsHandler_StoreErrors(t *testing.T) {
	handler := &Runs{}
	handler.Init(&MockRunStore{Err: context.Canceled}, &util.MetricsLogger{})

	rr := doGet(handler, "10", "0", nil)
	assert.Equal(t, http.StatusRequestTimeout, rr.Code)
	res, _ := decodeRuns(t, rr)
	assert.Equal(t, REQUEST_CANCELLED, res.ErrorCode)
	assert.Contains(t, res.Error, ErrRequestCancelled.Error())

	handler.Init(&MockRunStore{Err: errors.New("disk I/O error")}, &util.MetricsLogger{})
	rr = doGet(handler, "10", "0", nil)
	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	res, _ = decodeRuns(t, rr)
	assert.Equal(t, API_FAILURE, res.ErrorCode)
}

func TestGetLatestRunHandler(t *testing.T) {
	handler := &Runs{}
	handler.Init(&MockRunStore{}, &util.MetricsLogger{})

	req, _ := http.NewRequest(http.MethodGet, "/runs/latest", nil)
	rr := httptest.NewRecorder()
	handler.GetLatestRunHandler(rr, req)
	assert.Equal(t, http.StatusNotFound, rr.Code)
	res, _ := decodeRuns(t, rr)
	assert.Equal(t, METRICS_NOT_AVAILABLE, res.ErrorCode)

	now := time.Now()
	store := seededStore(now)
	handler.Init(store, &util.MetricsLogger{})

	rr = httptest.NewRecorder()
	handler.GetLatestRunHandler(rr, req)
	assert.Equal(t, http.StatusOK, rr.Code)

	var apiResponse APIResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &apiResponse))
	var latest domain.RunRecord
	valueBytes, _ := json.Marshal(apiResponse.Value)
	require.NoError(t, json.Unmarshal(valueBytes, &latest))
	assert.Equal(t, store.Runs[9], latest)
}
