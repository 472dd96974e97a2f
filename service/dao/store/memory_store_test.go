package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/agencykit/runway/service/dao"
)

type record struct {
	ID   string
	Name string
}

func newStore() *MemoryStore[string, record] {
	return NewMemoryStore[string, record](func(r *record) string { return r.ID })
}

func TestMemoryStore(t *testing.T) {
	ctx := context.Background()
	store := newStore()

	assert.NoError(t, store.Save(ctx, &record{ID: "b", Name: "second"}))
	assert.NoError(t, store.Save(ctx, &record{ID: "a", Name: "first"}))

	loaded, err := store.Load(ctx, "a")
	assert.NoError(t, err)
	if assert.NotNil(t, loaded) {
		assert.Equal(t, "first", loaded.Name)
	}

	missing, err := store.Load(ctx, "zzz")
	assert.NoError(t, err)
	assert.Nil(t, missing)

	// overwriting keeps the original position
	assert.NoError(t, store.Save(ctx, &record{ID: "b", Name: "updated"}))
	all, err := store.List(ctx)
	assert.NoError(t, err)
	if assert.Len(t, all, 2) {
		assert.Equal(t, "updated", all[0].Name)
		assert.Equal(t, "first", all[1].Name)
	}

	assert.NoError(t, store.Delete(ctx, "b"))
	all, _ = store.List(ctx)
	if assert.Len(t, all, 1) {
		assert.Equal(t, "a", all[0].ID)
	}

	// deleting an absent key is a no-op
	assert.NoError(t, store.Delete(ctx, "b"))
	assert.Equal(t, dao.ErrNilEntity, store.Save(ctx, nil))
}
