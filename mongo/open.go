// Copyright 2025 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package mongo

import (
	"time"

	"github.com/juju/errors"
	"github.com/juju/mgo/v3"
)

const (
	// dialTimeout is how long the initial connection attempt may
	// take before it is abandoned.
	dialTimeout = 10 * time.Second

	// socketTimeout is how long an individual operation on an
	// established connection may take. Requests suspend while
	// awaiting the database; they do not block one another.
	socketTimeout = time.Minute
)

// Dial establishes a session with the MongoDB server at the given
// URL. The session is configured the same way for every consumer;
// callers own the returned session and must Close it.
func Dial(url string) (*mgo.Session, error) {
	session, err := mgo.DialWithTimeout(url, dialTimeout)
	if err != nil {
		return nil, errors.Annotatef(err, "cannot connect to mongodb at %q", url)
	}
	session.SetSocketTimeout(socketTimeout)
	return session, nil
}

// NewDatabase returns a Database backed by the given mgo database.
// Each GetCollection call runs on its own copy of the underlying
// session so that concurrent requests do not share sockets; the
// returned closer releases the copy.
func NewDatabase(db *mgo.Database) Database {
	return &database{db: db}
}

type database struct {
	db *mgo.Database
}

// GetCollection is part of the Database interface.
func (d *database) GetCollection(name string) (Collection, func()) {
	session := d.db.Session.Copy()
	coll := d.db.With(session).C(name)
	return WrapCollection(coll), session.Close
}
