package analysis

import (
	"time"

	gocache "github.com/patrickmn/go-cache"

	"github.com/okulov/sigil/internal/model"
)

// Store keeps analysis records in memory with a TTL. It is the only shared
// mutable state around an analysis run and is owned by whoever constructs the
// orchestrator, never ambient.
type Store struct {
	cache *gocache.Cache
}

// NewStore creates a record store. Records expire after ttl.
func NewStore(ttl time.Duration) *Store {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &Store{cache: gocache.New(ttl, 10*time.Minute)}
}

// Put saves or replaces a record under its id. A snapshot is stored rather
// than the caller's pointer, so a Get during a still-running analysis never
// observes a half-written record.
func (s *Store) Put(rec *model.AnalysisRecord) {
	s.cache.SetDefault(rec.ID, rec.Clone())
}

// Get retrieves a record by id.
func (s *Store) Get(id string) (*model.AnalysisRecord, bool) {
	if val, found := s.cache.Get(id); found {
		return val.(*model.AnalysisRecord), true
	}
	return nil, false
}

// List returns all live records.
func (s *Store) List() []*model.AnalysisRecord {
	items := s.cache.Items()
	out := make([]*model.AnalysisRecord, 0, len(items))
	for _, item := range items {
		out = append(out, item.Object.(*model.AnalysisRecord))
	}
	return out
}
