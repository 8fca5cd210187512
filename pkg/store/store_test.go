package store

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/lyphgraph/pkg/model"
)

// testStore runs the behavior every backend shares.
func testStore(t *testing.T, s Store) {
	ctx := context.Background()

	doc, err := s.Put(ctx, "heart", model.Object{"id": "heart", "name": "Heart"})
	require.NoError(t, err)
	assert.Equal(t, "heart", doc.ID)
	assert.Equal(t, "Heart", doc.Name)
	assert.Equal(t, 1, doc.Version)
	assert.Len(t, doc.Hash, 64)

	got, err := s.Get(ctx, "heart")
	require.NoError(t, err)
	m, err := got.Model()
	require.NoError(t, err)
	assert.Equal(t, model.Object{"id": "heart", "name": "Heart"}, m)

	// unchanged content keeps the version
	same, err := s.Put(ctx, "heart", model.Object{"name": "Heart", "id": "heart"})
	require.NoError(t, err)
	assert.Equal(t, 1, same.Version)

	changed, err := s.Put(ctx, "heart", model.Object{"id": "heart", "lyphs": []any{}})
	require.NoError(t, err)
	assert.Equal(t, 2, changed.Version)
	assert.NotEqual(t, doc.Hash, changed.Hash)
	assert.WithinDuration(t, doc.CreatedAt, changed.CreatedAt, time.Millisecond)

	anon, err := s.Put(ctx, "", model.Object{"id": "x"})
	require.NoError(t, err)
	assert.NotEmpty(t, anon.ID)

	list, err := s.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	for _, d := range list {
		assert.Nil(t, d.Source)
	}

	require.NoError(t, s.Delete(ctx, "heart"))
	_, err = s.Get(ctx, "heart")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, s.Delete(ctx, "heart"), ErrNotFound)
}

func TestMemoryStore(t *testing.T) {
	s := NewMemoryStore()
	tick := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	s.now = func() time.Time {
		tick = tick.Add(time.Second)
		return tick
	}
	testStore(t, s)
}

func TestMemoryStoreCopies(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	doc, err := s.Put(ctx, "a", model.Object{"id": "a"})
	require.NoError(t, err)
	doc.Version = 99

	got, err := s.Get(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, 1, got.Version)
}

func TestMongoStore(t *testing.T) {
	uri := os.Getenv("LYPHGRAPH_TEST_MONGO_URI")
	if uri == "" {
		t.Skip("LYPHGRAPH_TEST_MONGO_URI not set")
	}
	ctx := context.Background()
	s, err := NewMongoStore(ctx, uri, "lyphgraph_test_"+time.Now().Format("150405"))
	require.NoError(t, err)
	defer func() {
		_ = s.coll.Database().Drop(ctx)
		_ = s.Close(ctx)
	}()
	testStore(t, s)
}

func TestOpen(t *testing.T) {
	s, err := Open(context.Background(), Config{})
	require.NoError(t, err)
	assert.IsType(t, &MemoryStore{}, s)

	_, err = Open(context.Background(), Config{Backend: "sqlite"})
	assert.Error(t, err)
}
