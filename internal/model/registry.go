package model

import (
	"path/filepath"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Handle identifies a model within one Registry.
type Handle int

// Registry deduplicates assembled models by source path and hands out stable
// handles. Entries are never removed; handles start at 0 and are never reused.
type Registry struct {
	asm     *Assembler
	session uuid.UUID
	log     *zap.Logger

	// mu is held across assembly so a path is assembled at most once.
	mu     sync.RWMutex
	byPath map[string]Handle
	models []*Model
	paths  []string
}

// NewRegistry creates an empty registry that assembles through asm.
func NewRegistry(asm *Assembler) *Registry {
	session := uuid.New()
	return &Registry{
		asm:     asm,
		session: session,
		log:     asm.log.With(zap.String("session", session.String())),
		byPath:  make(map[string]Handle),
	}
}

// Session returns the registry's unique session id.
func (r *Registry) Session() uuid.UUID {
	return r.session
}

// Resolve returns the handle for path, assembling the model on first use. A
// failed assembly stores nothing and consumes no handle.
func (r *Registry) Resolve(path string) (Handle, error) {
	key := filepath.Clean(path)

	r.mu.Lock()
	defer r.mu.Unlock()

	if h, ok := r.byPath[key]; ok {
		return h, nil
	}

	m, err := r.asm.Assemble(key)
	if err != nil {
		return -1, err
	}

	h := Handle(len(r.models))
	r.models = append(r.models, m)
	r.paths = append(r.paths, key)
	r.byPath[key] = h

	r.log.Info("model registered",
		zap.Int("handle", int(h)),
		zap.String("name", m.Name),
		zap.String("path", key))

	return h, nil
}

// Get returns the model for a handle.
func (r *Registry) Get(h Handle) (*Model, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if h < 0 || int(h) >= len(r.models) {
		return nil, false
	}
	return r.models[h], true
}

// Len returns the number of registered models.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.models)
}

// Paths returns the registered source paths in handle order.
func (r *Registry) Paths() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, len(r.paths))
	copy(out, r.paths)
	return out
}
