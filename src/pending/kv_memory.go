package pending

import (
	"context"
	"sync"

	"golang.org/x/exp/maps"
)

// Process-local backend
type MemoryKV struct {
	mtx  sync.RWMutex
	data map[string][]byte
}

func NewMemoryKV() *MemoryKV {
	return &MemoryKV{data: make(map[string][]byte)}
}

func (self *MemoryKV) Get(ctx context.Context, key string) (value []byte, ok bool, err error) {
	self.mtx.RLock()
	defer self.mtx.RUnlock()

	stored, ok := self.data[key]
	if !ok {
		return
	}
	value = make([]byte, len(stored))
	copy(value, stored)
	return
}

func (self *MemoryKV) Set(ctx context.Context, key string, value []byte) error {
	self.mtx.Lock()
	defer self.mtx.Unlock()

	stored := make([]byte, len(value))
	copy(stored, value)
	self.data[key] = stored
	return nil
}

func (self *MemoryKV) Delete(ctx context.Context, key string) error {
	self.mtx.Lock()
	defer self.mtx.Unlock()

	delete(self.data, key)
	return nil
}

func (self *MemoryKV) Keys(ctx context.Context) ([]string, error) {
	self.mtx.RLock()
	defer self.mtx.RUnlock()

	return maps.Keys(self.data), nil
}

func (self *MemoryKV) Close() error {
	return nil
}
