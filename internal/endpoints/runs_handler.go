package endpoints

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"time"

	"cycle-metrics/internal/domain"
	"cycle-metrics/internal/util"

	"github.com/gorilla/mux"
)

const defaultRunLimit = 100

// RunsRequest is the optional body of a history query. Zero fields fall back
// to the last 24 hours.
type RunsRequest struct {
	Start int64 `json:"start"`
	End   int64 `json:"end"`
}

type Runs struct {
	logger *util.MetricsLogger
	store  domain.RunStore
}

func (h *Runs) Init(store domain.RunStore, webSlogger *util.MetricsLogger) {
	h.store = store
	h.logger = webSlogger
}

func (h *Runs) GetRunsHandler(w http.ResponseWriter, r *http.Request) {

	if r.Method != http.MethodGet {
		h.logger.LogEvent(util.LOG_LEVEL_ERROR, "Method Not Allowed:", r.Method)
		writeError(w, ErrMethodNotAllowed, http.StatusMethodNotAllowed)
		return
	}

	routeParamValue := mux.Vars(r)

	limit, err := strconv.Atoi(routeParamValue["limit"])
	if err != nil {
		h.logger.LogEvent(util.LOG_LEVEL_ERROR, "While getting limit from URL. Err -", err)
		writeError(w, ErrInvalidParameters, http.StatusBadRequest)
		return
	}

	offset, err := strconv.Atoi(routeParamValue["offset"])
	if err != nil {
		h.logger.LogEvent(util.LOG_LEVEL_ERROR, "While getting offset from URL. Err -", err)
		writeError(w, ErrInvalidParameters, http.StatusBadRequest)
		return
	}

	var reqBody RunsRequest

	if r.Body != nil {
		err = json.NewDecoder(r.Body).Decode(&reqBody)
		if err != nil && !errors.Is(err, io.EOF) {
			h.logger.LogEvent(util.LOG_LEVEL_ERROR, "Occured while unmarshalling JSON Body. Err -", err)
			writeError(w, ErrInvalidRequestBody, http.StatusBadRequest)
			return
		}
	}

	startTime := reqBody.Start
	endTime := reqBody.End

	if startTime == 0 {
		startTime = time.Now().Add(-24 * time.Hour).Unix()
	}
	if endTime == 0 {
		endTime = time.Now().Unix()
	}

	if startTime > endTime {
		h.logger.LogEvent(util.LOG_LEVEL_ERROR, "Given startTime is greater than endTime. startTime -", startTime, "endTime -", endTime)
		writeError(w, ErrInvalidTimeRange, http.StatusBadRequest)
		return
	}

	if limit <= 0 {
		limit = defaultRunLimit
	}
	if offset < 0 {
		offset = 0
	}

	runs, err := h.store.GetRuns(r.Context(), startTime, endTime, limit, offset)
	if err != nil {
		h.writeStoreError(w, "GetRuns()", err)
		return
	}

	if len(runs) == 0 {
		h.logger.LogEvent(util.LOG_LEVEL_WARN, "No benchmark runs in range")
		writeError(w, ErrNoMetricsAvailable, http.StatusNotFound)
		return
	}

	writeResult(w, runs)
}

func (h *Runs) GetLatestRunHandler(w http.ResponseWriter, r *http.Request) {

	run, err := h.store.LatestRun(r.Context())
	if err != nil {
		if errors.Is(err, domain.ErrRunNotFound) {
			h.logger.LogEvent(util.LOG_LEVEL_WARN, "No benchmark run recorded yet")
			writeError(w, err, http.StatusNotFound)
			return
		}
		h.writeStoreError(w, "LatestRun()", err)
		return
	}

	writeResult(w, run)
}

func (h *Runs) writeStoreError(w http.ResponseWriter, op string, err error) {
	if errors.Is(err, context.Canceled) {
		h.logger.LogEvent(util.LOG_LEVEL_WARN, "Context cancelled during", op)
		writeError(w, ErrRequestCancelled, http.StatusRequestTimeout)
		return
	}
	h.logger.LogEvent(util.LOG_LEVEL_ERROR, "Occured while", op, "Err -", err)
	writeError(w, err, http.StatusInternalServerError)
}
