// Copyright 2025 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

// Package apiserver serves the storage registry's HTTP API.
package apiserver

import (
	"context"
	"net"
	"net/http"

	"github.com/bmizerany/pat"
	"github.com/juju/errors"
	"github.com/juju/loggo/v2"

	"github.com/canonical/storaged/apiserver/authentication"
	"github.com/canonical/storaged/state"
)

var logger = loggo.GetLogger("storaged.apiserver")

// ServerConfig holds the dependencies of a Server.
type ServerConfig struct {
	State         *state.State
	Authenticator authentication.Authenticator
}

func (c ServerConfig) validate() error {
	if c.State == nil {
		return errors.NotValidf("nil State")
	}
	if c.Authenticator == nil {
		return errors.NotValidf("nil Authenticator")
	}
	return nil
}

// Server serves the storage registry API on a listener.
type Server struct {
	listener net.Listener
	srv      *http.Server
}

// NewServer returns a Server ready to accept requests on the given
// listener. The caller starts it with Serve.
func NewServer(listener net.Listener, cfg ServerConfig) (*Server, error) {
	if err := cfg.validate(); err != nil {
		return nil, errors.Trace(err)
	}
	h := &storagesHandler{st: cfg.State, auth: cfg.Authenticator}
	mux := pat.New()
	// The :id pattern is registered first: pat tries patterns in
	// registration order, and the trailing-slash pattern would
	// otherwise swallow per-entry paths as a prefix match.
	mux.Get("/storages/:id", handler{h.ServeGet})
	mux.Get("/storages/", handler{h.ServeList})
	mux.Post("/storages/", handler{h.ServeAdd})
	return &Server{
		listener: listener,
		srv:      &http.Server{Handler: mux},
	}, nil
}

// Addr returns the address the server is listening on.
func (s *Server) Addr() net.Addr {
	return s.listener.Addr()
}

// Serve accepts connections until Stop is called, or the listener
// fails. It blocks.
func (s *Server) Serve() error {
	logger.Infof("serving storage registry API on %s", s.listener.Addr())
	err := s.srv.Serve(s.listener)
	if err == http.ErrServerClosed {
		return nil
	}
	return errors.Trace(err)
}

// Stop shuts the server down, waiting for in-flight requests to
// complete until the context is cancelled.
func (s *Server) Stop(ctx context.Context) error {
	return errors.Trace(s.srv.Shutdown(ctx))
}
