package middleware

import (
	"net/http"
	"strconv"

	"github.com/avemuri/CaseDocAPI/internal/handlers"
	"github.com/avemuri/CaseDocAPI/internal/metrics"
	"github.com/avemuri/CaseDocAPI/pkg/logger_i"
)

type requestResponseStruct struct {
	writer     http.ResponseWriter
	req        *http.Request
	badRequest failureStruct
	logger     *logger_i.Logger
}

type failureStruct struct {
	isBadRequest bool
	httpCode     int
	errorMessage string
}

var GetHandler = Wrap(handlers.GetHandler)

var PostDocumentsHandler = Wrap(handlers.PostDocumentsHandler)
var PostEnqueueHandler = Wrap(handlers.PostEnqueueHandler)
var GetStatusHandler = Wrap(handlers.GetStatusHandler)
var GetChunksHandler = Wrap(handlers.GetChunksHandler)

// PostProcessHandler is gated by the service token, not a user token.
var PostProcessHandler = WrapService(handlers.PostProcessHandler)

func Wrap(next http.HandlerFunc) http.HandlerFunc {
	return wrapWith(next, authenticate)
}

func WrapService(next http.HandlerFunc) http.HandlerFunc {
	return wrapWith(next, authenticateService)
}

func wrapWith(next http.HandlerFunc, auth func(requestResponseStruct) requestResponseStruct) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rec := &metrics.HttpStatusRecorder{ResponseWriter: w, Status: 200} //metrics
		re := processRequest(requestResponseStruct{req: r, writer: rec}, auth)

		if re.badRequest.isBadRequest {
			handleBadRequest(re)
			return
		}
		next(rec, re.req)

		metrics.HttpRequestsTotal.WithLabelValues(r.URL.Path, strconv.Itoa(rec.Status)).Inc() //metrics
	}
}

func processRequest(re requestResponseStruct, auth func(requestResponseStruct) requestResponseStruct) requestResponseStruct {
	re.logger = logger_i.NewLogger("middleware")
	re.logger.Info("New request received")
	re = injectTrace(re)
	if re.badRequest.isBadRequest {
		return re
	}
	re = auth(re)
	if re.badRequest.isBadRequest {
		return re //stop if auth fails
	}
	re = rateLimiter(re)
	return re
}
