// Package iocache persists GitHub login lookups and analysis results.
package iocache

import (
	"sync"

	"github.com/huangsam/coredev/internal/contract"
)

// CacheStoreManager manages the login cache and the analysis store.
type CacheStoreManager struct {
	sync.RWMutex // Protects the store pointers during initialization
	logins       contract.CacheStore
	analysis     contract.AnalysisStore
}

var _ contract.CacheManager = &CacheStoreManager{} // Compile-time check

// GetLoginStore returns the login CacheStore.
func (mgr *CacheStoreManager) GetLoginStore() contract.CacheStore {
	mgr.RLock()
	defer mgr.RUnlock()
	return mgr.logins
}

// GetAnalysisStore returns the analysis AnalysisStore.
func (mgr *CacheStoreManager) GetAnalysisStore() contract.AnalysisStore {
	mgr.RLock()
	defer mgr.RUnlock()
	return mgr.analysis
}
