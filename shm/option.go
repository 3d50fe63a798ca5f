package shm

import "github.com/viant/afs"

// Option configures Create.
type Option func(*options)

type options struct {
	dir      string
	channels int
	capacity int
	fs       afs.Service
}

// WithDir sets the directory the backing file is created in.
func WithDir(dir string) Option {
	return func(o *options) {
		o.dir = dir
	}
}

// WithChannels reserves count text channels of capacity characters each.
func WithChannels(count, capacity int) Option {
	return func(o *options) {
		o.channels = count
		o.capacity = capacity
	}
}

// WithFS sets the storage service used to remove the backing file on Destroy.
func WithFS(fs afs.Service) Option {
	return func(o *options) {
		o.fs = fs
	}
}
