//go:build unix

// Package textchan implements the bounded text channel: a fixed-capacity,
// single-slot mailbox in a shared region. One producer replaces the whole
// slot, one consumer reads it as often as it likes. There is no lock; with
// more than one writer the last write wins and a reader may observe a mix
// of two writes.
package textchan

import (
	"strings"

	"github.com/viant/multiproc/errors"
	"github.com/viant/multiproc/shm"
)

// Pad is the character used to fill a slot up to its capacity.
const Pad = ' '

// Channel is a view of text channel index in one process's mapping.
type Channel struct {
	region *shm.Region
	index  int
}

// New returns channel index of region.
func New(region *shm.Region, index int) (*Channel, error) {
	if index < 0 || index >= region.Channels() {
		return nil, errors.Newf(errors.ErrInvalidConfig, "channel %d out of range, region has %d", index, region.Channels())
	}
	return &Channel{region: region, index: index}, nil
}

// Capacity returns the fixed length of the slot, in characters.
func (c *Channel) Capacity() int {
	return c.region.Capacity()
}

// Write replaces the slot content with text, truncated to Capacity
// characters or padded with spaces up to it.
func (c *Channel) Write(text string) error {
	release, err := c.region.Use()
	if err != nil {
		return err
	}
	defer release()
	cells := c.region.Channel(c.index)
	i := 0
	for _, r := range text {
		if i == len(cells) {
			break
		}
		cells[i] = uint32(r)
		i++
	}
	for ; i < len(cells); i++ {
		cells[i] = Pad
	}
	return nil
}

// Read returns a copy of the whole slot; its length is always Capacity
// characters.
func (c *Channel) Read() (string, error) {
	release, err := c.region.Use()
	if err != nil {
		return "", err
	}
	defer release()
	cells := c.region.Channel(c.index)
	runes := make([]rune, len(cells))
	for i, cell := range cells {
		runes[i] = rune(cell)
	}
	return string(runes), nil
}

// ReadTrimmed returns the slot content without the trailing padding.
func (c *Channel) ReadTrimmed() (string, error) {
	text, err := c.Read()
	if err != nil {
		return "", err
	}
	return strings.TrimRight(text, string(Pad)), nil
}
