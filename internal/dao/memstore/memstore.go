// Package memstore is an in-process dao.Store used by tests. Filters match
// top-level fields by equality.
package memstore

import (
	"context"
	"reflect"
	"sync"
	"time"

	"github.com/patientng/patient-api/internal/dao"
	"github.com/patientng/patient-api/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Store[T any] struct {
	mu     sync.Mutex
	docs   []bson.M
	unique []string
	Now    func() time.Time
}

// New returns an empty store enforcing uniqueness on the given fields.
func New[T any](unique ...string) *Store[T] {
	return &Store[T]{unique: unique, Now: time.Now}
}

func toM(v any) (bson.M, error) {
	if m, ok := v.(bson.M); ok && m == nil {
		return bson.M{}, nil
	}
	raw, err := bson.Marshal(v)
	if err != nil {
		return nil, err
	}
	m := bson.M{}
	if err := bson.Unmarshal(raw, &m); err != nil {
		return nil, err
	}
	return m, nil
}

func decode[T any](m bson.M) (*T, error) {
	raw, err := bson.Marshal(m)
	if err != nil {
		return nil, err
	}
	var doc T
	if err := bson.Unmarshal(raw, &doc); err != nil {
		return nil, err
	}
	return &doc, nil
}

func matches(doc, filter bson.M) bool {
	for k, want := range filter {
		if !reflect.DeepEqual(doc[k], want) {
			return false
		}
	}
	return true
}

func (s *Store[T]) conflicts(doc bson.M) bool {
	for _, field := range s.unique {
		for _, other := range s.docs {
			if other["_id"] != doc["_id"] && reflect.DeepEqual(other[field], doc[field]) {
				return true
			}
		}
	}
	return false
}

func (s *Store[T]) Find(_ context.Context, filter bson.M) ([]T, error) {
	f, err := toM(filter)
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]T, 0)
	for i := len(s.docs) - 1; i >= 0; i-- {
		if !matches(s.docs[i], f) {
			continue
		}
		doc, err := decode[T](s.docs[i])
		if err != nil {
			return nil, err
		}
		out = append(out, *doc)
	}
	return out, nil
}

func (s *Store[T]) FindOne(ctx context.Context, filter bson.M) (*T, error) {
	docs, err := s.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	if len(docs) == 0 {
		return nil, dao.ErrNotFound
	}
	return &docs[0], nil
}

func (s *Store[T]) FindByID(ctx context.Context, id primitive.ObjectID) (*T, error) {
	return s.FindOne(ctx, bson.M{"_id": id})
}

func (s *Store[T]) Create(_ context.Context, doc *T) error {
	m, err := toM(doc)
	if err != nil {
		return err
	}
	if id, ok := m["_id"].(primitive.ObjectID); !ok || id.IsZero() {
		m["_id"] = primitive.NewObjectID()
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.conflicts(m) {
		return dao.ErrDuplicate
	}
	s.docs = append(s.docs, m)

	stored, err := decode[T](m)
	if err != nil {
		return err
	}
	*doc = *stored
	return nil
}

func (s *Store[T]) UpdateByID(_ context.Context, id primitive.ObjectID, fields bson.M) (*T, error) {
	set, err := toM(fields)
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, doc := range s.docs {
		if doc["_id"] != id {
			continue
		}
		updated := bson.M{}
		for k, v := range doc {
			updated[k] = v
		}
		for k, v := range set {
			updated[k] = v
		}
		now, err := toM(bson.M{"updatedAt": s.Now()})
		if err != nil {
			return nil, err
		}
		updated["updatedAt"] = now["updatedAt"]
		if s.conflicts(updated) {
			return nil, dao.ErrDuplicate
		}
		s.docs[i] = updated
		return decode[T](updated)
	}
	return nil, dao.ErrNotFound
}

func (s *Store[T]) Upsert(_ context.Context, filter, fields bson.M) error {
	f, err := toM(filter)
	if err != nil {
		return err
	}
	set, err := toM(fields)
	if err != nil {
		return err
	}
	now, err := toM(bson.M{"at": s.Now()})
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := -1
	doc := bson.M{"_id": primitive.NewObjectID(), "createdAt": now["at"]}
	for k, v := range f {
		doc[k] = v
	}
	for i := len(s.docs) - 1; i >= 0; i-- {
		if matches(s.docs[i], f) {
			idx, doc = i, bson.M{}
			for k, v := range s.docs[i] {
				doc[k] = v
			}
			break
		}
	}
	for k, v := range set {
		doc[k] = v
	}
	doc["updatedAt"] = now["at"]
	if s.conflicts(doc) {
		return dao.ErrDuplicate
	}
	if idx < 0 {
		s.docs = append(s.docs, doc)
	} else {
		s.docs[idx] = doc
	}
	return nil
}

func (s *Store[T]) DeleteByID(_ context.Context, id primitive.ObjectID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, doc := range s.docs {
		if doc["_id"] == id {
			s.docs = append(s.docs[:i], s.docs[i+1:]...)
			return nil
		}
	}
	return dao.ErrNotFound
}

func (s *Store[T]) DeleteMany(_ context.Context, filter bson.M) error {
	f, err := toM(filter)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	kept := s.docs[:0]
	for _, doc := range s.docs {
		if !matches(doc, f) {
			kept = append(kept, doc)
		}
	}
	s.docs = kept
	return nil
}

// Len is the number of stored documents.
func (s *Store[T]) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.docs)
}

// NewDatasources wires an empty store for every collection, with the same
// unique fields the Mongo indexes enforce.
func NewDatasources() *dao.Datasources {
	return &dao.Datasources{
		Users:             New[models.User]("email"),
		Tokens:            New[models.UserToken]("userId"),
		Insights:          New[models.Insight](),
		Advocacies:        New[models.Advocacy](),
		PodcastCategories: New[models.PodcastCategory]("name"),
		Podcasts:          New[models.Podcast](),
		Blogs:             New[models.Blog](),
		Webinars:          New[models.Webinar](),
		Stories:           New[models.PatientStory](),
		CrowdFundings:     New[models.CrowdFunding](),
		PaymentRequests:   New[models.PaymentRequest](),
	}
}
