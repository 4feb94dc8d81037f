package types

import (
	"sync"
)

// StateMap wraps sync.Map with type safety
// maps message hash -> TransferState
type StateMap struct {
	Mu       sync.Mutex
	internal sync.Map
}

func NewStateMap() *StateMap {
	return &StateMap{
		Mu:       sync.Mutex{},
		internal: sync.Map{},
	}
}

// Load loads the transfer tied to a specific message hash
func (sm *StateMap) Load(key string) (value *TransferState, ok bool) {
	sm.Mu.Lock()
	defer sm.Mu.Unlock()

	internalResult, ok := sm.internal.Load(key)
	if !ok {
		return nil, ok
	}
	return internalResult.(*TransferState), ok
}

func (sm *StateMap) Delete(key string) {
	sm.Mu.Lock()
	defer sm.Mu.Unlock()

	sm.internal.Delete(key)
}

// Store stores the transfer tied to a specific message hash
func (sm *StateMap) Store(key string, value *TransferState) {
	sm.Mu.Lock()
	defer sm.Mu.Unlock()

	sm.internal.Store(key, value)
}

// List returns every tracked transfer.
func (sm *StateMap) List() []*TransferState {
	sm.Mu.Lock()
	defer sm.Mu.Unlock()

	var out []*TransferState
	sm.internal.Range(func(_, v any) bool {
		out = append(out, v.(*TransferState))
		return true
	})
	return out
}
