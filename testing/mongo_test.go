// Copyright 2025 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package testing_test

import (
	"github.com/juju/errors"
	"github.com/juju/mgo/v3"
	"github.com/juju/mgo/v3/bson"
	jc "github.com/juju/testing/checkers"
	gc "gopkg.in/check.v1"

	coretesting "github.com/canonical/storaged/testing"
)

type testDoc struct {
	Id    string `bson:"_id"`
	Owner string `bson:"owner"`
	Size  int    `bson:"size"`
}

type DatabaseSuite struct {
	coretesting.BaseSuite

	db *coretesting.Database
}

var _ = gc.Suite(&DatabaseSuite{})

func (s *DatabaseSuite) SetUpTest(c *gc.C) {
	s.BaseSuite.SetUpTest(c)
	s.db = coretesting.NewDatabase()
}

func (s *DatabaseSuite) insert(c *gc.C, docs ...testDoc) {
	coll, closer := s.db.GetCollection("things")
	defer closer()
	for _, doc := range docs {
		c.Assert(coll.Writeable().Insert(doc), jc.ErrorIsNil)
	}
}

func (s *DatabaseSuite) TestFindOneByFilter(c *gc.C) {
	s.insert(c,
		testDoc{Id: "a", Owner: "u1", Size: 1},
		testDoc{Id: "b", Owner: "u2", Size: 2},
	)
	coll, closer := s.db.GetCollection("things")
	defer closer()

	var doc testDoc
	err := coll.Find(bson.D{{Name: "_id", Value: "b"}, {Name: "owner", Value: "u2"}}).One(&doc)
	c.Assert(err, jc.ErrorIsNil)
	c.Check(doc.Size, gc.Equals, 2)

	// Filter terms are ANDed: a mismatched owner means no match.
	err = coll.Find(bson.D{{Name: "_id", Value: "b"}, {Name: "owner", Value: "u1"}}).One(&doc)
	c.Assert(err, gc.Equals, mgo.ErrNotFound)
}

func (s *DatabaseSuite) TestAllPreservesInsertionOrderAndLimit(c *gc.C) {
	s.insert(c,
		testDoc{Id: "a", Owner: "u1"},
		testDoc{Id: "b", Owner: "u2"},
		testDoc{Id: "c", Owner: "u1"},
		testDoc{Id: "d", Owner: "u1"},
	)
	coll, closer := s.db.GetCollection("things")
	defer closer()

	var docs []testDoc
	err := coll.Find(bson.D{{Name: "owner", Value: "u1"}}).Limit(2).All(&docs)
	c.Assert(err, jc.ErrorIsNil)
	c.Assert(docs, gc.HasLen, 2)
	c.Check(docs[0].Id, gc.Equals, "a")
	c.Check(docs[1].Id, gc.Equals, "c")
}

func (s *DatabaseSuite) TestCount(c *gc.C) {
	s.insert(c, testDoc{Id: "a", Owner: "u1"}, testDoc{Id: "b", Owner: "u2"})
	coll, closer := s.db.GetCollection("things")
	defer closer()

	n, err := coll.Count()
	c.Assert(err, jc.ErrorIsNil)
	c.Check(n, gc.Equals, 2)
	n, err = coll.Find(bson.D{{Name: "owner", Value: "u2"}}).Count()
	c.Assert(err, jc.ErrorIsNil)
	c.Check(n, gc.Equals, 1)
}

func (s *DatabaseSuite) TestStubErrorsReturnedInCallOrder(c *gc.C) {
	coll, closer := s.db.GetCollection("things")
	defer closer()

	s.db.SetErrors(nil, errors.New("boom"))
	c.Assert(coll.Writeable().Insert(testDoc{Id: "a"}), jc.ErrorIsNil)
	c.Assert(coll.Writeable().Insert(testDoc{Id: "b"}), gc.ErrorMatches, "boom")
	c.Check(s.db.Docs("things"), gc.HasLen, 1)
	s.db.CheckCallNames(c, "Insert", "Insert")
}
