package iocache

import (
	"sync"

	"github.com/huangsam/repohealth/internal/contract"
)

// CacheStoreManager holds the process-wide local stores.
type CacheStoreManager struct {
	sync.RWMutex // Protects the store pointers during initialization
	event        contract.CacheStore
	snapshot     contract.SnapshotStore
}

var _ contract.CacheManager = &CacheStoreManager{} // Compile-time check

// GetEventStore returns the durable event aggregate store, or nil when caching is not configured.
func (mgr *CacheStoreManager) GetEventStore() contract.CacheStore {
	mgr.RLock()
	defer mgr.RUnlock()
	return mgr.event
}

// GetSnapshotStore returns the snapshot store, or nil when snapshots are not configured.
func (mgr *CacheStoreManager) GetSnapshotStore() contract.SnapshotStore {
	mgr.RLock()
	defer mgr.RUnlock()
	return mgr.snapshot
}
