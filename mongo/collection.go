// Copyright 2025 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package mongo

import (
	"github.com/juju/mgo/v3"
)

// Database provides access to the named collections of a MongoDB
// database. A Database handle is opened once at startup and shared
// across concurrent requests; implementations must be safe for
// concurrent use.
type Database interface {
	// GetCollection returns the named collection, along with a
	// closer that must be called once the collection is no longer
	// required.
	GetCollection(name string) (Collection, func())
}

// Collection imitates the read-only methods of *mgo.Collection used
// by the state layer, allowing the database to be faked out in tests.
type Collection interface {
	// Name returns the name of the collection.
	Name() string

	// Count returns the number of documents in the collection.
	Count() (int, error)

	// Find returns a query matching the given document-equality
	// filter, which must be nil or a bson.D.
	Find(query interface{}) Query

	// FindId returns a query matching the document with the given
	// _id.
	FindId(id interface{}) Query

	// Writeable gives access to methods that mutate the
	// collection.
	Writeable() WriteCollection
}

// WriteCollection allows writing to a Collection.
type WriteCollection interface {
	Collection

	// Insert adds the given documents to the collection.
	Insert(docs ...interface{}) error
}

// Query is the subset of *mgo.Query consumed by the state layer.
type Query interface {
	// All unmarshals every matching document into the slice pointed
	// to by result.
	All(result interface{}) error

	// Count returns the number of matching documents.
	Count() (int, error)

	// Limit caps the number of documents the query will return.
	Limit(n int) Query

	// One unmarshals the first matching document into result,
	// returning mgo.ErrNotFound if there is none.
	One(result interface{}) error
}

// WrapCollection returns a Collection backed by the given mgo
// collection.
func WrapCollection(coll *mgo.Collection) Collection {
	return collWrapper{coll}
}

type collWrapper struct {
	*mgo.Collection
}

func (w collWrapper) Name() string {
	return w.Collection.Name
}

func (w collWrapper) Find(query interface{}) Query {
	return queryWrapper{w.Collection.Find(query)}
}

func (w collWrapper) FindId(id interface{}) Query {
	return queryWrapper{w.Collection.FindId(id)}
}

func (w collWrapper) Writeable() WriteCollection {
	return w
}

type queryWrapper struct {
	*mgo.Query
}

func (w queryWrapper) Limit(n int) Query {
	return queryWrapper{w.Query.Limit(n)}
}
