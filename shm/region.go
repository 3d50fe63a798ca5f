//go:build unix

// Package shm implements the shared memory region every worker process maps:
// a small header holding the counter and its lock, followed by fixed-size
// text channels. The region is backed by a file so that a child process can
// open it by path; the path is the handle passed at spawn time.
package shm

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"unsafe"

	"github.com/viant/afs"
	"github.com/viant/multiproc/errors"
	"github.com/viant/multiproc/internal/idgen"
)

// DefaultDir is where regions are created unless WithDir says otherwise.
func DefaultDir() string {
	if info, err := os.Stat("/dev/shm"); err == nil && info.IsDir() {
		return "/dev/shm"
	}
	return os.TempDir()
}

// Region is one process's mapping of a shared region.
type Region struct {
	path  string
	owner bool
	fs    afs.Service

	// mu guards the mapping lifetime: operations hold it shared, Close and
	// Destroy hold it exclusively.
	mu   sync.RWMutex
	data []byte
	hdr  *header
	lock Lock

	channels int
	capacity int
}

// Create creates, sizes and maps a new region. The caller owns it and is
// expected to Destroy it once every worker is done.
func Create(ctx context.Context, opts ...Option) (*Region, error) {
	o := &options{dir: DefaultDir()}
	for _, opt := range opts {
		opt(o)
	}
	if o.channels < 0 || o.capacity < 0 || (o.channels > 0 && o.capacity == 0) {
		return nil, errors.Newf(errors.ErrInvalidConfig, "invalid channel layout: %d x %d", o.channels, o.capacity)
	}
	if o.fs == nil {
		o.fs = afs.New()
	}
	path := filepath.Join(o.dir, "multiproc-"+idgen.New()+".shm")
	size := Size(o.channels, o.capacity)

	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_EXCL, 0600)
	if err != nil {
		return nil, errors.Wrapf(err, "create region %v", path)
	}
	defer f.Close()
	if err = f.Truncate(int64(size)); err != nil {
		_ = os.Remove(path)
		return nil, errors.Wrapf(err, "size region %v", path)
	}
	data, err := mmap(int(f.Fd()), size)
	if err != nil {
		_ = os.Remove(path)
		return nil, errors.Wrapf(err, "map region %v", path)
	}
	r := newRegion(path, data, o.fs)
	r.owner = true
	r.hdr.Magic = Magic
	r.hdr.Version = Version
	r.hdr.Channels = uint32(o.channels)
	r.hdr.Capacity = uint32(o.capacity)
	r.channels, r.capacity = o.channels, o.capacity
	cells := r.channelCells(0, o.channels*o.capacity)
	for i := range cells {
		cells[i] = ' '
	}
	atomic.StoreUint32(&r.hdr.State, stateOpen)
	return r, nil
}

// Open maps an existing region created by another process.
func Open(ctx context.Context, path string) (*Region, error) {
	f, err := os.OpenFile(path, os.O_RDWR, 0)
	if err != nil {
		return nil, errors.WrapCode(err, errors.ErrSharedResourceUnavailable, "open region "+path)
	}
	defer f.Close()
	info, err := f.Stat()
	if err != nil {
		return nil, errors.Wrapf(err, "stat region %v", path)
	}
	size := int(info.Size())
	if size < headerSize {
		return nil, errors.Newf(errors.ErrRegionCorrupt, "region %v too small: %d bytes", path, size)
	}
	data, err := mmap(int(f.Fd()), size)
	if err != nil {
		return nil, errors.Wrapf(err, "map region %v", path)
	}
	r := newRegion(path, data, nil)
	if err = r.validate(size); err != nil {
		_ = munmap(data)
		return nil, err
	}
	r.channels, r.capacity = int(r.hdr.Channels), int(r.hdr.Capacity)
	return r, nil
}

func newRegion(path string, data []byte, fs afs.Service) *Region {
	hdr := (*header)(unsafe.Pointer(&data[0]))
	return &Region{
		path: path,
		fs:   fs,
		data: data,
		hdr:  hdr,
		lock: Lock{word: &hdr.Lock},
	}
}

func (r *Region) validate(size int) error {
	if r.hdr.Magic != Magic {
		return errors.Newf(errors.ErrRegionCorrupt, "region %v: bad magic %#x", r.path, r.hdr.Magic)
	}
	if r.hdr.Version != Version {
		return errors.Newf(errors.ErrRegionCorrupt, "region %v: unsupported version %d", r.path, r.hdr.Version)
	}
	if expect := Size(int(r.hdr.Channels), int(r.hdr.Capacity)); expect != size {
		return errors.Newf(errors.ErrRegionCorrupt, "region %v: size %d, layout needs %d", r.path, size, expect)
	}
	if atomic.LoadUint32(&r.hdr.State) != stateOpen {
		return errors.Newf(errors.ErrSharedResourceUnavailable, "region %v was torn down", r.path)
	}
	return nil
}

// Path returns the backing file path, the handle other processes open.
func (r *Region) Path() string {
	return r.path
}

// Channels returns the number of text channels in the region.
func (r *Region) Channels() int {
	return r.channels
}

// Capacity returns the capacity of each text channel, in characters.
func (r *Region) Capacity() int {
	return r.capacity
}

// Use pins the mapping for the duration of an operation. The returned
// release function must be called once the operation is done. It fails with
// ErrSharedResourceUnavailable when the mapping was closed or the owner tore
// the region down.
func (r *Region) Use() (release func(), err error) {
	r.mu.RLock()
	if r.data == nil {
		r.mu.RUnlock()
		return nil, errors.Newf(errors.ErrSharedResourceUnavailable, "region %v is closed", r.path)
	}
	if atomic.LoadUint32(&r.hdr.State) != stateOpen {
		r.mu.RUnlock()
		return nil, errors.Newf(errors.ErrSharedResourceUnavailable, "region %v was torn down", r.path)
	}
	return r.mu.RUnlock, nil
}

// Lock returns the region lock. Only valid between Use and release.
func (r *Region) Lock() *Lock {
	return &r.lock
}

// Value returns the counter word. Only valid between Use and release, and
// only to be dereferenced while holding Lock.
func (r *Region) Value() *int32 {
	return &r.hdr.Value
}

// Channel returns the cells of text channel i. Only valid between Use and
// release.
func (r *Region) Channel(i int) []uint32 {
	return r.channelCells(i*r.capacity, r.capacity)
}

func (r *Region) channelCells(offset, n int) []uint32 {
	if n == 0 {
		return nil
	}
	base := unsafe.Pointer(&r.data[headerSize+offset*cellSize])
	return unsafe.Slice((*uint32)(base), n)
}

// Close unmaps the region in this process. The backing file is left alone.
func (r *Region) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.unmap()
}

func (r *Region) unmap() error {
	if r.data == nil {
		return nil
	}
	err := munmap(r.data)
	r.data = nil
	return err
}

// Destroy marks the region torn down for every process still mapping it,
// unmaps it and removes the backing file. Only the creator may destroy.
func (r *Region) Destroy(ctx context.Context) error {
	if !r.owner {
		return errors.Newf(errors.ErrSharedResourceUnavailable, "region %v is not owned by this process", r.path)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.data != nil {
		atomic.StoreUint32(&r.hdr.State, stateTornDown)
	}
	if err := r.unmap(); err != nil {
		return errors.Wrapf(err, "unmap region %v", r.path)
	}
	if ok, _ := r.fs.Exists(ctx, r.path); !ok {
		return nil
	}
	return errors.Wrapf(r.fs.Delete(ctx, r.path), "remove region %v", r.path)
}
