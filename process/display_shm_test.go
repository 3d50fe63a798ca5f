//go:build unix

package process

import (
	"bytes"
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/viant/multiproc/counter"
	"github.com/viant/multiproc/internal/console"
	"github.com/viant/multiproc/shm"
	"github.com/viant/multiproc/textchan"
)

func TestDisplay_SharedRegion(t *testing.T) {
	ctx := context.Background()
	region, err := shm.Create(ctx, shm.WithDir(t.TempDir()), shm.WithChannels(2, 4096))
	require.NoError(t, err)
	defer region.Destroy(ctx)
	peer, err := shm.Open(ctx, region.Path())
	require.NoError(t, err)
	defer peer.Close()

	outbound := func(r *shm.Region, index int) *textchan.Channel {
		channel, err := textchan.New(r, index)
		require.NoError(t, err)
		return channel
	}
	first := &Display{
		ID: 0, Role: RoleReporter, Title: "A", Peer: 1,
		Counter: counter.New(region), Inbox: outbound(region, 1), Outbox: outbound(region, 0),
		Refresh: 10 * time.Millisecond, Iterations: 100, Checkpoint: 50,
		Script: []Action{{Kind: Inc, N: 1}, {Kind: Report}, {Kind: Wait, Delay: 400 * time.Millisecond}, {Kind: Dec, N: 1}, {Kind: Quit}},
		Out:    console.New(&bytes.Buffer{}),
	}
	secondOut := &bytes.Buffer{}
	second := &Display{
		ID: 1, Role: RoleReporter, Title: "B", Peer: 0,
		Counter: counter.New(peer), Inbox: outbound(peer, 0), Outbox: outbound(peer, 1),
		Refresh: 10 * time.Millisecond,
		Script:  []Action{{Kind: Inc, N: 1}, {Kind: Wait, Delay: 600 * time.Millisecond}, {Kind: Reset}, {Kind: Quit}},
		Out:     console.New(secondOut),
	}

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i, display := range []*Display{first, second} {
		wg.Add(1)
		go func(i int, display *Display) {
			defer wg.Done()
			errs[i] = display.Run(ctx)
		}(i, display)
	}
	wg.Wait()
	require.NoError(t, errs[0])
	require.NoError(t, errs[1])

	value, err := counter.New(region).Value()
	require.NoError(t, err)
	assert.EqualValues(t, 0, value)
	assert.Contains(t, secondOut.String(), "[B] Bericht von Prozess 0:\n  Prozess 0, Thread 0: 100 Iterationen")
}
