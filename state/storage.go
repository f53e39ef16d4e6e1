// Copyright 2025 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package state

import (
	"strings"

	"github.com/juju/errors"
	"github.com/juju/mgo/v3"
	"github.com/juju/mgo/v3/bson"
)

// storageDoc is the document persisted for each storage entry. The
// bson field names match the documents written by earlier versions of
// the service, so existing collections keep working.
type storageDoc struct {
	Id          bson.ObjectId `bson:"_id"`
	Title       string        `bson:"title"`
	Owner       string        `bson:"user"`
	EndpointURL string        `bson:"endpoint_url"`
	IsPublic    bool          `bson:"is_public"`
}

// Storage represents a named external storage location owned by a
// single user. Entries are never updated or deleted once created.
type Storage struct {
	doc storageDoc
}

// Id returns the entry's unique identifier in its external hex form.
func (s *Storage) Id() string {
	return s.doc.Id.Hex()
}

// Title returns the entry's human-readable label.
func (s *Storage) Title() string {
	return s.doc.Title
}

// Owner returns the id of the user the entry belongs to.
func (s *Storage) Owner() string {
	return s.doc.Owner
}

// EndpointURL returns the location of the external storage resource.
func (s *Storage) EndpointURL() string {
	return s.doc.EndpointURL
}

// IsPublic reports whether the entry is publicly visible.
func (s *Storage) IsPublic() bool {
	return s.doc.IsPublic
}

// StorageArgs holds the caller-supplied fields of a new storage
// entry. Ownership is not among them: the owner is always taken from
// the authenticated identity by AddStorage.
type StorageArgs struct {
	Title       string
	EndpointURL string
	IsPublic    bool
}

func (a StorageArgs) validate() error {
	if a.Title == "" {
		return errors.NotValidf("empty title")
	}
	if a.EndpointURL == "" {
		return errors.NotValidf("empty endpoint URL")
	}
	return nil
}

// maxStorages bounds the number of entries AllStorages returns.
// Listing truncates at this many documents; callers must not assume
// completeness beyond it. Known limitation, kept deliberately.
const maxStorages = 1000

// AddStorage persists a new storage entry owned by the given user and
// returns its newly assigned id.
func (st *State) AddStorage(args StorageArgs, owner string) (string, error) {
	if err := args.validate(); err != nil {
		return "", errors.Trace(err)
	}
	if owner == "" {
		return "", errors.NotValidf("empty owner")
	}
	doc := storageDoc{
		Id:          bson.NewObjectId(),
		Title:       args.Title,
		Owner:       owner,
		EndpointURL: args.EndpointURL,
		IsPublic:    args.IsPublic,
	}
	storages, closer := st.getCollection(storagesC)
	defer closer()
	if err := storages.Writeable().Insert(&doc); err != nil {
		return "", errors.Annotate(err, "cannot add storage")
	}
	return doc.Id.Hex(), nil
}

// AllStorages returns the storage entries owned by the given user, in
// the natural order of the underlying collection, up to maxStorages.
func (st *State) AllStorages(owner string) ([]*Storage, error) {
	storages, closer := st.getCollection(storagesC)
	defer closer()
	var docs []storageDoc
	err := storages.Find(bson.D{{Name: "user", Value: owner}}).Limit(maxStorages).All(&docs)
	if err != nil {
		return nil, errors.Annotatef(err, "cannot get storages for user %q", owner)
	}
	result := make([]*Storage, len(docs))
	for i, doc := range docs {
		storage, err := newStorage(doc)
		if err != nil {
			return nil, errors.Trace(err)
		}
		result[i] = storage
	}
	return result, nil
}

// Storage returns the storage entry with the given id, but only if it
// is owned by the given user. The lookup filters on id and owner in a
// single query, so an entry owned by someone else is reported exactly
// like a missing one.
func (st *State) Storage(id, owner string) (*Storage, error) {
	if !bson.IsObjectIdHex(id) {
		return nil, errors.NotValidf("storage id %q", id)
	}
	storages, closer := st.getCollection(storagesC)
	defer closer()
	var doc storageDoc
	err := storages.Find(bson.D{{Name: "_id", Value: bson.ObjectIdHex(id)}, {Name: "user", Value: owner}}).One(&doc)
	if err == mgo.ErrNotFound {
		return nil, errors.NotFoundf("storage %q", id)
	}
	if err != nil {
		return nil, errors.Annotatef(err, "cannot get storage %q", id)
	}
	return newStorage(doc)
}

// newStorage converts a raw document into a Storage, rejecting
// documents missing required fields rather than passing them on.
func newStorage(doc storageDoc) (*Storage, error) {
	if doc.Title == "" || doc.Owner == "" || doc.EndpointURL == "" {
		return nil, errors.Errorf("storage document %q missing required fields", doc.Id.Hex())
	}
	return &Storage{doc: doc}, nil
}

// createDefaultStorage gives a newly provisioned user their default
// entry, rooted under the configured endpoint prefix. The endpoint is
// prefix + "/" + user id + "/", with exactly one separator at the
// join and one trailing separator however the prefix is spelled.
func (st *State) createDefaultStorage(userID string) error {
	endpointURL := strings.TrimRight(st.cfg.DefaultEndpointPrefix, "/") + "/" + userID + "/"
	_, err := st.AddStorage(StorageArgs{
		Title:       "default",
		EndpointURL: endpointURL,
	}, userID)
	if err != nil {
		return errors.Annotatef(err, "cannot create default storage for user %q", userID)
	}
	logger.Infof("created default endpoint at %s", endpointURL)
	return nil
}
