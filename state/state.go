// Copyright 2025 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

// Package state implements the persistence layer of the storage
// registry: users and the storage entries they own.
package state

import (
	"time"

	"github.com/juju/clock"
	"github.com/juju/errors"
	"github.com/juju/loggo/v2"

	"github.com/canonical/storaged/mongo"
)

var logger = loggo.GetLogger("storaged.state")

// Collection names.
const (
	storagesC = "storages"
	usersC    = "users"
)

// Config holds the settings required to open the state.
type Config struct {
	// DefaultEndpointPrefix is the bucket/prefix under which every
	// newly provisioned user gets their default storage endpoint.
	DefaultEndpointPrefix string

	// Clock supplies the time recorded on new documents.
	Clock clock.Clock
}

func (c Config) validate() error {
	if c.DefaultEndpointPrefix == "" {
		return errors.NotValidf("empty DefaultEndpointPrefix")
	}
	if c.Clock == nil {
		return errors.NotValidf("nil Clock")
	}
	return nil
}

// State exposes the registry's persistence operations. The database
// handle is injected at construction and shared for the life of the
// process; State itself holds no other mutable state.
type State struct {
	db  mongo.Database
	cfg Config
}

// NewState returns a State using the given database.
func NewState(db mongo.Database, cfg Config) (*State, error) {
	if db == nil {
		return nil, errors.NotValidf("nil Database")
	}
	if err := cfg.validate(); err != nil {
		return nil, errors.Trace(err)
	}
	return &State{db: db, cfg: cfg}, nil
}

func (st *State) getCollection(name string) (mongo.Collection, func()) {
	return st.db.GetCollection(name)
}

// nowToTheSecond returns the current time, rounded to the nearest
// second. Mongo stores times at millisecond precision, so anything
// finer would not survive a round trip.
func (st *State) nowToTheSecond() time.Time {
	return st.cfg.Clock.Now().Round(time.Second).UTC()
}
