// Package store keeps lyph model documents for the HTTP service.
//
// A [Store] maps model ids to their JSON source. Two backends exist:
// [MemoryStore] for tests and single process use, and [MongoStore] for
// deployments that keep models across restarts.
//
// Documents carry a blake3 content hash, so that the assembly cache can
// reuse graphs of unchanged models, and a version that grows on every
// update.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/matzehuels/lyphgraph/pkg/cache"
	"github.com/matzehuels/lyphgraph/pkg/model"
)

// ErrNotFound is returned for unknown model ids.
var ErrNotFound = errors.New("model not found")

// Document is a stored model.
type Document struct {
	ID        string    `json:"id" bson:"_id"`
	Name      string    `json:"name,omitempty" bson:"name,omitempty"`
	Hash      string    `json:"hash" bson:"hash"`
	Version   int       `json:"version" bson:"version"`
	Source    []byte    `json:"-" bson:"source"`
	CreatedAt time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt time.Time `json:"updated_at" bson:"updated_at"`
}

// Model decodes the stored source.
func (d *Document) Model() (model.Object, error) {
	var obj model.Object
	if err := json.Unmarshal(d.Source, &obj); err != nil {
		return nil, err
	}
	return obj, nil
}

// Store persists model documents.
type Store interface {
	// Put creates or replaces the model with the given id. An empty id
	// stores the model under a new random id.
	Put(ctx context.Context, id string, m model.Object) (*Document, error)
	// Get returns the model with the given id or ErrNotFound.
	Get(ctx context.Context, id string) (*Document, error)
	// Delete removes a model. Deleting an unknown id returns ErrNotFound.
	Delete(ctx context.Context, id string) error
	// List returns every document without its source, ordered by id.
	List(ctx context.Context) ([]Document, error)
	// Close releases the backend.
	Close(ctx context.Context) error
}

// newDocument encodes m for storage. prev is the stored version, if any.
func newDocument(id string, m model.Object, prev *Document, now time.Time) (*Document, error) {
	if id == "" {
		id = uuid.NewString()
	}
	src, err := json.Marshal(m)
	if err != nil {
		return nil, err
	}
	doc := &Document{
		ID:        id,
		Name:      model.String(m, "name"),
		Hash:      cache.Hash(src),
		Version:   1,
		Source:    src,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if prev != nil {
		doc.CreatedAt = prev.CreatedAt
		doc.Version = prev.Version + 1
		if prev.Hash == doc.Hash {
			doc.Version = prev.Version
			doc.UpdatedAt = prev.UpdatedAt
		}
	}
	return doc, nil
}

// Backend names accepted by [Open].
const (
	BackendMemory = "memory"
	BackendMongo  = "mongo"
)

// Config selects and configures a backend.
type Config struct {
	Backend  string
	MongoURI string
	Database string
}

// Open creates the backend named by cfg. The default is memory.
func Open(ctx context.Context, cfg Config) (Store, error) {
	switch cfg.Backend {
	case "", BackendMemory:
		return NewMemoryStore(), nil
	case BackendMongo:
		db := cfg.Database
		if db == "" {
			db = "lyphgraph"
		}
		return NewMongoStore(ctx, cfg.MongoURI, db)
	}
	return nil, fmt.Errorf("unknown store backend %q", cfg.Backend)
}
