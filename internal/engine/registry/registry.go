// # internal/engine/registry/registry.go
package registry

import (
	"sync"

	"classlink/internal/core/errors"
)

// PackageRegistry is the global fqn -> entity symbol table for one run. It
// validates names on registration so it stays safe to use standalone, even
// though the entity builder performs the same check first.
type PackageRegistry struct {
	mu    sync.RWMutex
	specs map[string]*ClassSpec
	order []string
}

func NewPackageRegistry() *PackageRegistry {
	return &PackageRegistry{specs: make(map[string]*ClassSpec)}
}

// Register adds a spec under its fqn. Conflicting or malformed fqns are hard
// failures and leave the registry untouched.
func (r *PackageRegistry) Register(spec *ClassSpec) error {
	if spec == nil {
		return errors.New(errors.CodeValidationError, "spec must not be nil")
	}
	if err := ValidateFQN(spec.FQN); err != nil {
		return errors.AddContext(err, errors.CtxFQN, spec.FQN)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.specs[spec.FQN]; ok {
		return errors.AddContext(
			errors.New(errors.CodeConflict, "fqn already registered"),
			errors.CtxFQN, spec.FQN)
	}
	r.specs[spec.FQN] = spec
	r.order = append(r.order, spec.FQN)
	return nil
}

func (r *PackageRegistry) Exists(fqn string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.specs[fqn]
	return ok
}

func (r *PackageRegistry) Lookup(fqn string) (*ClassSpec, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	spec, ok := r.specs[fqn]
	return spec, ok
}

// ListByPackage returns all specs registered under the exact package name,
// in registration order.
func (r *PackageRegistry) ListByPackage(pkg string) []*ClassSpec {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []*ClassSpec
	for _, fqn := range r.order {
		if spec := r.specs[fqn]; spec.Package == pkg {
			out = append(out, spec)
		}
	}
	return out
}

// GetAll returns every registered spec in registration order.
func (r *PackageRegistry) GetAll() []*ClassSpec {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*ClassSpec, 0, len(r.order))
	for _, fqn := range r.order {
		out = append(out, r.specs[fqn])
	}
	return out
}

func (r *PackageRegistry) Size() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.specs)
}

// Clear resets the registry between independent runs.
func (r *PackageRegistry) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.specs = make(map[string]*ClassSpec)
	r.order = nil
}
