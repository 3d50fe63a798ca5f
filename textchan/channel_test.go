package textchan

import (
	"context"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/viant/multiproc/errors"
	"github.com/viant/multiproc/shm"
)

const capacity = 12

func newChannels(t *testing.T) (*Channel, *Channel) {
	ctx := context.Background()
	region, err := shm.Create(ctx, shm.WithDir(t.TempDir()), shm.WithChannels(2, capacity))
	require.NoError(t, err)
	t.Cleanup(func() { _ = region.Destroy(ctx) })
	peer, err := shm.Open(ctx, region.Path())
	require.NoError(t, err)
	t.Cleanup(func() { _ = peer.Close() })

	writer, err := New(region, 0)
	require.NoError(t, err)
	reader, err := New(peer, 0)
	require.NoError(t, err)
	return writer, reader
}

func TestChannel_WriteRead(t *testing.T) {
	var testCases = []struct {
		description string
		text        string
		expect      string
	}{
		{description: "empty", text: "", expect: strings.Repeat(" ", capacity)},
		{description: "short", text: "abc", expect: "abc" + strings.Repeat(" ", capacity-3)},
		{description: "exact", text: "abcdefghijkl", expect: "abcdefghijkl"},
		{description: "truncated", text: "abcdefghijklmnop", expect: "abcdefghijkl"},
		{description: "multi-byte characters", text: "Zählerstand", expect: "Zählerstand "},
		{description: "multi-byte truncated", text: "äöüäöüäöüäöüäöü", expect: "äöüäöüäöüäöü"},
	}

	writer, reader := newChannels(t)
	for _, testCase := range testCases {
		require.NoError(t, writer.Write(testCase.text), testCase.description)
		actual, err := reader.Read()
		require.NoError(t, err, testCase.description)
		assert.Equal(t, capacity, utf8.RuneCountInString(actual), testCase.description)
		assert.Equal(t, testCase.expect, actual, testCase.description)
	}
}

func TestChannel_LastWriteWins(t *testing.T) {
	writer, reader := newChannels(t)
	require.NoError(t, writer.Write("first report"))
	require.NoError(t, writer.Write("second"))
	actual, err := reader.ReadTrimmed()
	require.NoError(t, err)
	assert.Equal(t, "second", actual)

	again, err := reader.ReadTrimmed()
	require.NoError(t, err)
	assert.Equal(t, actual, again, "reads are not destructive")
}

func TestChannel_Independent(t *testing.T) {
	ctx := context.Background()
	region, err := shm.Create(ctx, shm.WithDir(t.TempDir()), shm.WithChannels(2, capacity))
	require.NoError(t, err)
	defer region.Destroy(ctx)

	a, err := New(region, 0)
	require.NoError(t, err)
	b, err := New(region, 1)
	require.NoError(t, err)
	require.NoError(t, a.Write("to one"))
	require.NoError(t, b.Write("to zero"))

	text, err := a.ReadTrimmed()
	require.NoError(t, err)
	assert.Equal(t, "to one", text)
	text, err = b.ReadTrimmed()
	require.NoError(t, err)
	assert.Equal(t, "to zero", text)

	_, err = New(region, 2)
	assert.True(t, errors.Is(err, errors.ErrInvalidConfig))
}

func TestChannel_Unavailable(t *testing.T) {
	writer, reader := newChannels(t)
	require.NoError(t, writer.region.Destroy(context.Background()))
	assert.True(t, errors.Is(writer.Write("x"), errors.ErrSharedResourceUnavailable))
	_, err := reader.Read()
	assert.True(t, errors.Is(err, errors.ErrSharedResourceUnavailable))
}
