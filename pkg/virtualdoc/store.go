package virtualdoc

import (
	"context"
	"time"

	"github.com/google/uuid"
	gocache "github.com/patrickmn/go-cache"
	"github.com/rs/zerolog"
)

// Scheme is the URI scheme virtual documents are served under.
const Scheme = "idris"

const (
	DefaultExpiration      = 30 * time.Minute
	DefaultCleanupInterval = time.Hour
)

// Store keeps generated documents by opaque id so that both the content
// provider and the highlighter read the same snapshot.
type Store struct {
	cache *gocache.Cache
}

func NewStore(expiration, cleanupInterval time.Duration) *Store {
	return &Store{cache: gocache.New(expiration, cleanupInterval)}
}

func NewDefaultStore() *Store {
	return NewStore(DefaultExpiration, DefaultCleanupInterval)
}

// Put registers doc under a fresh id and returns the id.
func (s *Store) Put(ctx context.Context, doc Document) string {
	id := uuid.NewString()
	s.cache.Set(id, doc, gocache.DefaultExpiration)
	zerolog.Ctx(ctx).Debug().Str("virtual_doc", id).Int("spans", len(doc.Spans)).Msg("registered virtual document")
	return id
}

// Get returns the document registered under id.
func (s *Store) Get(id string) (Document, bool) {
	v, ok := s.cache.Get(id)
	if !ok {
		return Document{}, false
	}
	doc, ok := v.(Document)
	return doc, ok
}

// Content returns the text for id, or "" for an unknown id.
func (s *Store) Content(id string) string {
	doc, _ := s.Get(id)
	return doc.Text
}

// Tokens returns the flattened highlight tokens for id. An unknown id has
// no tokens.
func (s *Store) Tokens(id string) ([]uint32, error) {
	doc, ok := s.Get(id)
	if !ok {
		return []uint32{}, nil
	}
	return doc.Tokens()
}

// URI builds the address clients use to open the document.
func URI(id string) string {
	return Scheme + ":" + id
}
