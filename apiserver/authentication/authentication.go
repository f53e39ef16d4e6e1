// Copyright 2025 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

// Package authentication establishes the identity of API callers.
package authentication

import (
	"net/http"

	"github.com/juju/errors"

	"github.com/canonical/storaged/state"
)

// ErrBadCreds is returned when the presented credentials do not match
// a known user. The same error covers unknown names and wrong
// passwords so the two cases cannot be told apart.
var ErrBadCreds = errors.Unauthorizedf("invalid user name or password")

// Authenticator extracts and validates the caller's identity from a
// request. A request that cannot be authenticated never reaches the
// storage registry.
type Authenticator interface {
	// AuthenticateRequest returns the user the request is
	// authenticated as.
	AuthenticateRequest(req *http.Request) (*state.User, error)
}

// UserFinder looks up provisioned users; implemented by *state.State.
type UserFinder interface {
	User(name string) (*state.User, error)
}

// UserAuthenticator performs HTTP basic authentication against the
// registry's user records.
type UserAuthenticator struct {
	Users UserFinder
}

// AuthenticateRequest is part of the Authenticator interface.
func (a *UserAuthenticator) AuthenticateRequest(req *http.Request) (*state.User, error) {
	name, password, ok := req.BasicAuth()
	if !ok {
		return nil, errors.Unauthorizedf("request has no credentials")
	}
	user, err := a.Users.User(name)
	if errors.IsNotFound(err) {
		return nil, ErrBadCreds
	} else if err != nil {
		return nil, errors.Trace(err)
	}
	if !user.PasswordValid(password) {
		return nil, ErrBadCreds
	}
	return user, nil
}
