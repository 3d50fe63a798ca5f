package shm

import "unsafe"

const (
	// Magic identifies a multiproc region ("MPRC").
	Magic uint32 = 0x4D505243
	// Version is the layout version written by Create.
	Version uint32 = 1

	stateTornDown uint32 = 0
	stateOpen     uint32 = 1

	// cellSize is the size of one channel character: a Unicode code point.
	cellSize = 4
)

// header is the fixed prefix of every region. Field order is the on-disk
// layout; all fields are 4 bytes so the struct has no padding.
type header struct {
	Magic    uint32
	Version  uint32
	Lock     int32
	Value    int32
	Channels uint32
	Capacity uint32
	State    uint32
	_        uint32
}

var headerSize = int(unsafe.Sizeof(header{}))

// Size returns the number of bytes a region with the given channel count
// and capacity occupies.
func Size(channels, capacity int) int {
	return headerSize + channels*capacity*cellSize
}
