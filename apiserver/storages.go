// Copyright 2025 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package apiserver

import (
	"encoding/json"
	"net/http"

	"github.com/juju/errors"

	"github.com/canonical/storaged/apiserver/authentication"
	"github.com/canonical/storaged/apiserver/params"
	"github.com/canonical/storaged/state"
)

// storagesHandler serves the /storages endpoints. Every operation is
// scoped to the authenticated caller; there is no way to address
// another user's entries.
type storagesHandler struct {
	st   *state.State
	auth authentication.Authenticator
}

// ServeList handles GET /storages/, returning all of the caller's
// storage entries. The listing is capped at the state layer; callers
// must not assume completeness beyond that bound.
func (h *storagesHandler) ServeList(w http.ResponseWriter, r *http.Request) error {
	user, err := h.auth.AuthenticateRequest(r)
	if err != nil {
		return errors.Trace(err)
	}
	storages, err := h.st.AllStorages(user.Id())
	if err != nil {
		return errors.Trace(err)
	}
	result := params.StoragesListResult{
		Storages: make([]params.StorageResult, len(storages)),
	}
	for i, storage := range storages {
		result.Storages[i] = params.StorageResult{
			Id:          storage.Id(),
			Title:       storage.Title(),
			EndpointURL: storage.EndpointURL(),
		}
	}
	return errors.Trace(sendStatusAndJSON(w, http.StatusOK, &result))
}

// ServeGet handles GET /storages/:id. An entry that does not exist
// and an entry owned by someone else are both served as an empty
// object with status 200, not a 404; clients cannot probe for the
// existence of other users' entries.
func (h *storagesHandler) ServeGet(w http.ResponseWriter, r *http.Request) error {
	user, err := h.auth.AuthenticateRequest(r)
	if err != nil {
		return errors.Trace(err)
	}
	id := r.URL.Query().Get(":id")
	storage, err := h.st.Storage(id, user.Id())
	if errors.IsNotFound(err) {
		return errors.Trace(sendStatusAndJSON(w, http.StatusOK, &params.StorageResult{}))
	}
	if err != nil {
		return errors.Trace(err)
	}
	return errors.Trace(sendStatusAndJSON(w, http.StatusOK, &params.StorageResult{
		Id:          storage.Id(),
		Title:       storage.Title(),
		EndpointURL: storage.EndpointURL(),
	}))
}

// ServeAdd handles POST /storages/, registering a new storage entry
// for the caller and returning its assigned id.
func (h *storagesHandler) ServeAdd(w http.ResponseWriter, r *http.Request) error {
	user, err := h.auth.AuthenticateRequest(r)
	if err != nil {
		return errors.Trace(err)
	}
	defer r.Body.Close()
	var args params.AddStorageArgs
	if err := json.NewDecoder(r.Body).Decode(&args); err != nil {
		return errors.NewBadRequest(err, "cannot parse request body")
	}
	// args.User is dropped on the floor here: ownership comes from
	// the authenticated identity and nowhere else.
	id, err := h.st.AddStorage(state.StorageArgs{
		Title:       args.Title,
		EndpointURL: args.EndpointURL,
		IsPublic:    args.IsPublic,
	}, user.Id())
	if err != nil {
		return errors.Trace(err)
	}
	return errors.Trace(sendStatusAndJSON(w, http.StatusOK, &params.AddStorageResult{Added: id}))
}
