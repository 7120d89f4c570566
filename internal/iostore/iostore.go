// Package iostore persists projects and their risk registers.
package iostore

import (
	"sync"

	"github.com/helexia/contractrisk/internal/contract"
)

// ProjectStoreManager holds the active ProjectStore.
type ProjectStoreManager struct {
	sync.RWMutex // Protects the store pointer during initialization
	projects     contract.ProjectStore
}

var _ contract.StoreManager = &ProjectStoreManager{} // Compile-time check

// GetProjectStore returns the project store.
func (mgr *ProjectStoreManager) GetProjectStore() contract.ProjectStore {
	mgr.RLock()
	defer mgr.RUnlock()
	return mgr.projects
}

// NewManager wraps an existing store, mostly for tests and embedded servers.
func NewManager(store contract.ProjectStore) *ProjectStoreManager {
	return &ProjectStoreManager{projects: store}
}
