package endpoints

import (
	"context"
	"errors"

	"cycle-metrics/internal/domain"
)

const (
	API_SUCCESS = iota + 303000 // 303000
	API_FAILURE                 // 303001 - Generic API failure
)

const (
	METRICS_NOT_AVAILABLE = iota + 101 // 101 - No runs found for the given criteria
	INVALID_REQUEST_BODY               // 102 - Error parsing request body
	INVALID_PARAMETERS                 // 103 - Non-integer limit/offset
	INVALID_TIME_RANGE                 // 104 - Start time is after end time
	REQUEST_CANCELLED                  // 105 - Request was cancelled by client or server timeout
)

var (
	ErrNoMetricsAvailable = errors.New("no benchmark runs available for the specified criteria")
	ErrInvalidRequestBody = errors.New("invalid request body format or missing fields")
	ErrInvalidParameters  = errors.New("invalid limit or offset parameter; must be integers")
	ErrInvalidTimeRange   = errors.New("start timestamp cannot be after end timestamp")
	ErrRequestCancelled   = errors.New("request cancelled by client or server timeout")
	ErrMethodNotAllowed   = errors.New("method not allowed; only GET requests are supported")
)

func GetErrorCode(err error) int {
	if err == nil {
		return API_SUCCESS
	}

	switch {
	case errors.Is(err, ErrNoMetricsAvailable), errors.Is(err, domain.ErrRunNotFound):
		return METRICS_NOT_AVAILABLE
	case errors.Is(err, ErrInvalidRequestBody):
		return INVALID_REQUEST_BODY
	case errors.Is(err, ErrInvalidParameters):
		return INVALID_PARAMETERS
	case errors.Is(err, ErrInvalidTimeRange):
		return INVALID_TIME_RANGE
	case errors.Is(err, ErrRequestCancelled), errors.Is(err, context.Canceled):
		return REQUEST_CANCELLED
	default:
		return API_FAILURE
	}
}
