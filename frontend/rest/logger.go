// Copyright 2025 Blockgate Project Authors. All Rights Reserved.

package rest

import (
	"net/http"
	"time"

	"github.com/google/uuid"

	. "github.com/blockgate/blockgate/logging"
)

// Logger wraps a handler with request-scoped logging. Each request gets a
// fresh request id that handlers propagate through their context.
func Logger(inner http.Handler, name string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		requestID := uuid.New().String()

		ctx := GenerateRequestContext(r.Context(), requestID, ContextSourceREST)
		r = r.WithContext(ctx)

		logRestCallInfo("REST API call received.", r, start, name)
		inner.ServeHTTP(w, r)
		logRestCallInfo("REST API call complete.", r, start, name)
	})
}

func logRestCallInfo(msg string, r *http.Request, start time.Time, name string) {
	Logc(r.Context()).WithFields(LogFields{
		"method":   r.Method,
		"uri":      r.RequestURI,
		"route":    name,
		"duration": time.Since(start),
	}).Info(msg)
}
