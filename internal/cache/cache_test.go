package cache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ShreyaSuvarna1/Veerpath/internal/jobs"
)

func TestZeroCellIsEmpty(t *testing.T) {
	c := New()
	s := c.Load()
	require.NotNil(t, s.Jobs)
	assert.Empty(t, s.Jobs)
	assert.True(t, s.UpdatedAt.IsZero())
}

func TestStoreReplacesWholesale(t *testing.T) {
	c := New()
	t1 := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	t2 := t1.Add(30 * time.Minute)

	c.Store([]jobs.Record{{Title: "A"}, {Title: "B"}}, t1)
	old := c.Load()

	c.Store([]jobs.Record{{Title: "C"}}, t2)
	cur := c.Load()

	assert.Len(t, old.Jobs, 2)
	assert.Equal(t, t1, old.UpdatedAt)
	assert.Len(t, cur.Jobs, 1)
	assert.Equal(t, t2, cur.UpdatedAt)
}

func TestStoreCopiesInput(t *testing.T) {
	c := New()
	list := []jobs.Record{{Title: "A"}}
	c.Store(list, time.Now())
	list[0].Title = "mutated"

	assert.Equal(t, "A", c.Load().Jobs[0].Title)
}
