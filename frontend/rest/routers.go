// Copyright 2025 Blockgate Project Authors. All Rights Reserved.

package rest

import (
	"net/http"

	"github.com/gorilla/mux"
)

// NewRouter is used to set up the HTTP endpoints for the driver frontend.
func NewRouter() *mux.Router {
	router := mux.NewRouter().StrictSlash(true)
	for _, route := range routes {
		var handler http.Handler
		handler = route.HandlerFunc
		handler = Logger(handler, route.Name)

		router.
			Methods(route.Method).
			Path(route.Pattern).
			Name(route.Name).
			Handler(handler)
	}

	return router
}
