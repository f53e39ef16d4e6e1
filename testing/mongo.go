// Copyright 2025 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

// Package testing provides test doubles shared across the storaged
// packages, most notably an in-memory mongo.Database so that state
// and apiserver tests run without a mongod.
package testing

import (
	"reflect"
	"sync"

	jujutesting "github.com/juju/testing"

	"github.com/juju/mgo/v3"
	"github.com/juju/mgo/v3/bson"

	"github.com/canonical/storaged/mongo"
)

// NewDatabase returns an empty in-memory mongo.Database. Every
// insert and query is recorded on the embedded Stub, and errors
// primed with SetErrors are returned in call order, which is how
// tests provoke persistence failures.
func NewDatabase() *Database {
	return &Database{
		Stub:        &jujutesting.Stub{},
		collections: make(map[string][]bson.M),
	}
}

// Database is an in-memory implementation of mongo.Database.
type Database struct {
	*jujutesting.Stub

	mu          sync.Mutex
	collections map[string][]bson.M
}

// GetCollection is part of the mongo.Database interface.
func (db *Database) GetCollection(name string) (mongo.Collection, func()) {
	return &collection{db: db, name: name}, func() {}
}

// Docs returns a copy of the raw documents currently held by the
// named collection, in insertion order.
func (db *Database) Docs(name string) []bson.M {
	db.mu.Lock()
	defer db.mu.Unlock()
	return append([]bson.M(nil), db.collections[name]...)
}

type collection struct {
	db   *Database
	name string
}

// Name is part of the mongo.Collection interface.
func (c *collection) Name() string {
	return c.name
}

// Count is part of the mongo.Collection interface.
func (c *collection) Count() (int, error) {
	return c.Find(nil).Count()
}

// Find is part of the mongo.Collection interface.
func (c *collection) Find(filter interface{}) mongo.Query {
	return &query{coll: c, filter: filter}
}

// FindId is part of the mongo.Collection interface.
func (c *collection) FindId(id interface{}) mongo.Query {
	return c.Find(bson.D{{Name: "_id", Value: id}})
}

// Writeable is part of the mongo.Collection interface.
func (c *collection) Writeable() mongo.WriteCollection {
	return c
}

// Insert is part of the mongo.WriteCollection interface.
func (c *collection) Insert(docs ...interface{}) error {
	c.db.AddCall("Insert", c.name)
	if err := c.db.NextErr(); err != nil {
		return err
	}
	c.db.mu.Lock()
	defer c.db.mu.Unlock()
	for _, doc := range docs {
		m, err := roundTrip(doc)
		if err != nil {
			return err
		}
		c.db.collections[c.name] = append(c.db.collections[c.name], m)
	}
	return nil
}

type query struct {
	coll   *collection
	filter interface{}
	limit  int
}

// Limit is part of the mongo.Query interface.
func (q *query) Limit(n int) mongo.Query {
	q.limit = n
	return q
}

// One is part of the mongo.Query interface.
func (q *query) One(result interface{}) error {
	q.coll.db.AddCall("FindOne", q.coll.name)
	if err := q.coll.db.NextErr(); err != nil {
		return err
	}
	matches := q.matches()
	if len(matches) == 0 {
		return mgo.ErrNotFound
	}
	return decode(matches[0], result)
}

// All is part of the mongo.Query interface.
func (q *query) All(result interface{}) error {
	q.coll.db.AddCall("FindAll", q.coll.name)
	if err := q.coll.db.NextErr(); err != nil {
		return err
	}
	resultv := reflect.ValueOf(result)
	if resultv.Kind() != reflect.Ptr || resultv.Elem().Kind() != reflect.Slice {
		panic("result argument must be a slice address")
	}
	slicev := resultv.Elem().Slice(0, 0)
	elemt := slicev.Type().Elem()
	for _, m := range q.matches() {
		elemp := reflect.New(elemt)
		if err := decode(m, elemp.Interface()); err != nil {
			return err
		}
		slicev = reflect.Append(slicev, elemp.Elem())
	}
	resultv.Elem().Set(slicev)
	return nil
}

// Count is part of the mongo.Query interface.
func (q *query) Count() (int, error) {
	q.coll.db.AddCall("Count", q.coll.name)
	if err := q.coll.db.NextErr(); err != nil {
		return 0, err
	}
	return len(q.matches()), nil
}

// matches returns the documents satisfying the query's filter, in
// insertion order, honouring any limit.
func (q *query) matches() []bson.M {
	q.coll.db.mu.Lock()
	defer q.coll.db.mu.Unlock()
	var matches []bson.M
	for _, doc := range q.coll.db.collections[q.coll.name] {
		if matchesFilter(doc, q.filter) {
			matches = append(matches, doc)
			if q.limit > 0 && len(matches) == q.limit {
				break
			}
		}
	}
	return matches
}

// matchesFilter evaluates a filter of ANDed field-equality
// constraints, the only filter shape the state layer uses.
func matchesFilter(doc bson.M, filter interface{}) bool {
	switch filter := filter.(type) {
	case nil:
		return true
	case bson.D:
		for _, elem := range filter {
			if !reflect.DeepEqual(doc[elem.Name], elem.Value) {
				return false
			}
		}
		return true
	default:
		panic("filter must be bson.D or nil")
	}
}

// roundTrip normalises a document through bson marshalling, the same
// representation a real server would hand back.
func roundTrip(doc interface{}) (bson.M, error) {
	data, err := bson.Marshal(doc)
	if err != nil {
		return nil, err
	}
	var m bson.M
	if err := bson.Unmarshal(data, &m); err != nil {
		return nil, err
	}
	return m, nil
}

func decode(m bson.M, result interface{}) error {
	data, err := bson.Marshal(m)
	if err != nil {
		return err
	}
	return bson.Unmarshal(data, result)
}
