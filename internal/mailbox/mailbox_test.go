package mailbox

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLatestWins(t *testing.T) {
	mb := New[int]()
	mb.Put(1)
	mb.Put(2)
	mb.Put(3)

	assert.True(t, mb.HasPending())
	v, ok := mb.Take(context.Background())
	assert.True(t, ok)
	assert.Equal(t, 3, v)
	assert.False(t, mb.HasPending())
}

func TestTakeStopsOnContext(t *testing.T) {
	mb := New[string]()
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	v, ok := mb.Take(ctx)
	assert.False(t, ok)
	assert.Equal(t, "", v)
}

func TestTakeWakesOnPut(t *testing.T) {
	mb := New[int]()
	done := make(chan int, 1)
	go func() {
		v, _ := mb.Take(context.Background())
		done <- v
	}()

	mb.Put(42)
	select {
	case v := <-done:
		assert.Equal(t, 42, v)
	case <-time.After(time.Second):
		t.Fatal("Take did not return")
	}
}
