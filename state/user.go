// Copyright 2025 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package state

import (
	"strings"
	"time"

	"github.com/juju/errors"
	"github.com/juju/mgo/v3"
	"github.com/juju/mgo/v3/bson"
	"github.com/juju/names/v5"
	"github.com/juju/utils/v4"
)

type userDoc struct {
	Id           string    `bson:"_id"`
	Name         string    `bson:"name"`
	PasswordHash string    `bson:"passwordhash"`
	PasswordSalt string    `bson:"passwordsalt"`
	DateCreated  time.Time `bson:"datecreated"`
}

// User represents a provisioned user of the registry.
type User struct {
	doc userDoc
}

// Id returns the user's unique identifier. Storage entries record
// this id as their owner.
func (u *User) Id() string {
	return u.doc.Id
}

// Name returns the user's login name.
func (u *User) Name() string {
	return u.doc.Name
}

// DateCreated returns when the user was provisioned.
func (u *User) DateCreated() time.Time {
	return u.doc.DateCreated.UTC()
}

// PasswordValid reports whether the given password matches the
// user's.
func (u *User) PasswordValid(password string) bool {
	return utils.UserPasswordHash(password, u.doc.PasswordSalt) == u.doc.PasswordHash
}

// AddUser provisions a new user and creates their default storage
// entry. Login names are case-insensitive and stored lowercased.
func (st *State) AddUser(name, password string) (*User, error) {
	if !names.IsValidUserName(name) {
		return nil, errors.NotValidf("user name %q", name)
	}
	if password == "" {
		return nil, errors.NotValidf("empty password")
	}
	salt, err := utils.RandomSalt()
	if err != nil {
		return nil, errors.Trace(err)
	}
	uuid, err := utils.NewUUID()
	if err != nil {
		return nil, errors.Trace(err)
	}
	doc := userDoc{
		Id:           uuid.String(),
		Name:         strings.ToLower(name),
		PasswordHash: utils.UserPasswordHash(password, salt),
		PasswordSalt: salt,
		DateCreated:  st.nowToTheSecond(),
	}
	users, closer := st.getCollection(usersC)
	defer closer()
	count, err := users.Find(bson.D{{Name: "name", Value: doc.Name}}).Count()
	if err != nil {
		return nil, errors.Annotatef(err, "cannot add user %q", name)
	}
	if count > 0 {
		return nil, errors.AlreadyExistsf("user %q", name)
	}
	if err := users.Writeable().Insert(&doc); err != nil {
		return nil, errors.Annotatef(err, "cannot add user %q", name)
	}
	if err := st.createDefaultStorage(doc.Id); err != nil {
		return nil, errors.Trace(err)
	}
	return &User{doc: doc}, nil
}

// User returns the user with the given login name.
func (st *State) User(name string) (*User, error) {
	users, closer := st.getCollection(usersC)
	defer closer()
	var doc userDoc
	err := users.Find(bson.D{{Name: "name", Value: strings.ToLower(name)}}).One(&doc)
	if err == mgo.ErrNotFound {
		return nil, errors.NotFoundf("user %q", name)
	}
	if err != nil {
		return nil, errors.Annotatef(err, "cannot get user %q", name)
	}
	return &User{doc: doc}, nil
}
