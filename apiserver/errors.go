// Copyright 2025 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package apiserver

import (
	"net/http"

	"github.com/juju/errors"

	"github.com/canonical/storaged/apiserver/params"
)

// serverErrorAndStatus converts an error from the state or
// authentication layers into its wire shape and HTTP status.
// Malformed payloads and malformed identifiers are client errors;
// anything unrecognised is treated as a failure of the persistence
// layer and reported as a server error. Not-found is never mapped
// here: absent entries are served as an empty object, not an error.
func serverErrorAndStatus(err error) (*params.Error, int) {
	perr := &params.Error{Message: err.Error()}
	status := http.StatusInternalServerError
	switch {
	case errors.IsUnauthorized(err):
		perr.Code = params.CodeUnauthorized
		status = http.StatusUnauthorized
	case errors.IsNotValid(err):
		perr.Code = params.CodeNotValid
		status = http.StatusBadRequest
	case errors.IsBadRequest(err):
		perr.Code = params.CodeBadRequest
		status = http.StatusBadRequest
	}
	return perr, status
}
