package gate

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGateReleasesAllWaiters(t *testing.T) {
	g := New()
	assert.False(t, g.IsOpen())

	var wg sync.WaitGroup
	released := make(chan struct{}, 5)
	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := g.Wait(context.Background()); err == nil {
				released <- struct{}{}
			}
		}()
	}

	g.Open()
	wg.Wait()
	assert.Len(t, released, 5)
	assert.True(t, g.IsOpen())
}

func TestGateReentrantAfterOpen(t *testing.T) {
	g := New()
	g.Open()
	g.Open()

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, g.Wait(ctx))
}

func TestGateWaitHonorsContext(t *testing.T) {
	g := New()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := g.Wait(ctx)
	require.Error(t, err)
	assert.Equal(t, context.Canceled, err)
}
