package keymutex

import (
	"hash/fnv"
	"sync"
)

// KeyMutex serializes mutations per entity key. Locks are striped: two
// different keys may share a stripe and contend, but one key always maps
// to one stripe, which is all the per-entity ordering guarantee needs.
type KeyMutex struct {
	stripes []sync.Mutex
}

func New(stripes int) *KeyMutex {
	if stripes <= 0 {
		stripes = 64
	}
	return &KeyMutex{stripes: make([]sync.Mutex, stripes)}
}

func (m *KeyMutex) stripe(key string) *sync.Mutex {
	h := fnv.New32a()
	h.Write([]byte(key))
	return &m.stripes[h.Sum32()%uint32(len(m.stripes))]
}

func (m *KeyMutex) Lock(key string) {
	m.stripe(key).Lock()
}

func (m *KeyMutex) Unlock(key string) {
	m.stripe(key).Unlock()
}
