// Package data provides thread-safe storage for the drug registry and
// collaborator availability state. The DrugContainer keeps everything
// behind atomic values so handlers never block on a lock.
package data

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/Trisha2910tinaaaaa/medsafe/drugbank"
	"github.com/Trisha2910tinaaaaa/medsafe/interfaces"
	"github.com/Trisha2910tinaaaaa/medsafe/logging"
)

// Compile-time check to ensure DrugContainer implements DrugStore
var _ interfaces.DrugStore = (*DrugContainer)(nil)

// DrugContainer holds the immutable drug registry behind an atomic
// pointer plus the mutable collaborator status map. The registry is
// built once at startup; swapping in a rebuilt registry is atomic.
type DrugContainer struct {
	registry        atomic.Value // *drugbank.Registry
	loadedAt        atomic.Value // time.Time
	serverStartTime atomic.Value // time.Time

	statusMu sync.RWMutex
	status   map[string]bool
}

// NewDrugContainer creates a container with an empty registry.
func NewDrugContainer() *DrugContainer {
	dc := &DrugContainer{
		status: make(map[string]bool),
	}
	dc.registry.Store(&drugbank.Registry{})
	dc.loadedAt.Store(time.Time{})
	dc.serverStartTime.Store(time.Time{})
	return dc
}

// GetRegistry returns the current drug registry.
func (dc *DrugContainer) GetRegistry() *drugbank.Registry {
	if v := dc.registry.Load(); v != nil {
		if registry, ok := v.(*drugbank.Registry); ok {
			return registry
		}
	}

	logging.Warn("Drug registry is empty or invalid")
	return &drugbank.Registry{}
}

// SetRegistry atomically swaps in a new registry and stamps the load time.
func (dc *DrugContainer) SetRegistry(registry *drugbank.Registry) {
	dc.registry.Store(registry)
	dc.loadedAt.Store(time.Now())
}

// GetLoadedAt returns when the registry was last (re)built.
func (dc *DrugContainer) GetLoadedAt() time.Time {
	if v := dc.loadedAt.Load(); v != nil {
		if loadedAt, ok := v.(time.Time); ok {
			return loadedAt
		}
	}

	logging.Warn("Could not get the registry load time")
	return time.Time{}
}

// SetServerStartTime sets the server start time
func (dc *DrugContainer) SetServerStartTime(startTime time.Time) {
	dc.serverStartTime.Store(startTime)
}

// GetServerStartTime returns the server start time
func (dc *DrugContainer) GetServerStartTime() time.Time {
	if v := dc.serverStartTime.Load(); v != nil {
		if startTime, ok := v.(time.Time); ok {
			return startTime
		}
	}

	logging.Warn("Could not get the server start time value")
	return time.Time{}
}

// SetServiceStatus records the last probed availability of an external
// collaborator (NER, translation, explanation, document text).
func (dc *DrugContainer) SetServiceStatus(service string, available bool) {
	dc.statusMu.Lock()
	defer dc.statusMu.Unlock()
	dc.status[service] = available
}

// GetServiceStatus returns a snapshot of all probed collaborator
// states. A service absent from the map has never been checked; callers
// treat unprobed services as available and rely on call-level fallbacks.
func (dc *DrugContainer) GetServiceStatus() map[string]bool {
	dc.statusMu.RLock()
	defer dc.statusMu.RUnlock()

	snapshot := make(map[string]bool, len(dc.status))
	for service, available := range dc.status {
		snapshot[service] = available
	}
	return snapshot
}
