// Copyright 2025 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package apiserver

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/juju/errors"
)

// FailableHandlerFunc serves a request, returning an error rather
// than writing it, so that error rendering lives in one place.
type FailableHandlerFunc func(http.ResponseWriter, *http.Request) error

// handler adapts a FailableHandlerFunc into an http.Handler,
// converting returned errors into JSON error responses.
type handler struct {
	serve FailableHandlerFunc
}

func (h handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if err := h.serve(w, r); err != nil {
		if err := sendJSONError(w, r, errors.Trace(err)); err != nil {
			logger.Errorf("%v", errors.Annotate(err, "cannot return error to user"))
		}
	}
}

// sendJSONError sends a JSON-encoded error response for errors
// encountered during processing.
func sendJSONError(w http.ResponseWriter, req *http.Request, err error) error {
	logger.Errorf("returning error from %s %s: %s", req.Method, req.URL, errors.Details(err))
	perr, status := serverErrorAndStatus(err)
	if status == http.StatusUnauthorized {
		w.Header().Set("WWW-Authenticate", `Basic realm="storaged"`)
	}
	return errors.Trace(sendStatusAndJSON(w, status, perr))
}

// sendStatusAndJSON sends an HTTP status code and a JSON-encoded
// response to a client.
func sendStatusAndJSON(w http.ResponseWriter, statusCode int, response interface{}) error {
	body, err := json.Marshal(response)
	if err != nil {
		return errors.Errorf("cannot marshal JSON result %#v", response)
	}
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Length", fmt.Sprint(len(body)))
	w.WriteHeader(statusCode)
	if _, err := w.Write(body); err != nil {
		return errors.Annotate(err, "cannot write response")
	}
	return nil
}
