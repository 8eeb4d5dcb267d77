package storage

import "github.com/dkarpov/shopgraph/internal/server/identities"

// MemoryManager backs the "memory" storage option: everything lives in
// process, nothing survives a restart.
type MemoryManager struct {
	identities identities.Repository
}

func NewMemoryManager() *MemoryManager {
	return &MemoryManager{identities: identities.NewMemoryRepository()}
}

func (m *MemoryManager) Identities() identities.Repository {
	return m.identities
}

func (m *MemoryManager) Close() error {
	return nil
}
