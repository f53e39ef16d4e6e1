// Copyright 2025 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

// Package params defines the wire shapes of the storage registry API.
package params

// Error codes returned alongside failed requests.
const (
	CodeNotValid     = "not valid"
	CodeBadRequest   = "bad request"
	CodeUnauthorized = "unauthorized"
)

// Error is the body of a failed request.
type Error struct {
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

// Error implements the error interface.
func (e *Error) Error() string {
	return e.Message
}

// StorageResult is the read projection of a single storage entry.
// Ownership and visibility are deliberately not exposed. All fields
// are omitempty so the zero value marshals as the empty object served
// for an absent entry.
type StorageResult struct {
	Id          string `json:"id,omitempty"`
	Title       string `json:"title,omitempty"`
	EndpointURL string `json:"endpoint_url,omitempty"`
}

// StoragesListResult holds the caller's storage entries.
type StoragesListResult struct {
	Storages []StorageResult `json:"storages"`
}

// AddStorageArgs is the body of a storage registration request.
type AddStorageArgs struct {
	Title       string `json:"title"`
	EndpointURL string `json:"endpoint_url"`
	IsPublic    bool   `json:"is_public"`

	// User is accepted for compatibility with older clients but is
	// never consulted; ownership always comes from the
	// authenticated caller.
	User string `json:"user,omitempty"`
}

// AddStorageResult reports the id assigned to a new storage entry.
type AddStorageResult struct {
	Added string `json:"added"`
}
