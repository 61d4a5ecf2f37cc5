package api

import (
	"log/slog"
	"sort"
	"sync"
)

// Registry maps wire method names to declared operations.
// Method names are unique within a registry.
type Registry struct {
	mu        sync.RWMutex
	endpoints map[string]Endpoint
	logger    *slog.Logger
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		endpoints: make(map[string]Endpoint),
	}
}

// WithLogger sets a custom logger for the registry.
// If not set, slog.Default() will be used.
func (r *Registry) WithLogger(logger *slog.Logger) *Registry {
	r.logger = logger
	return r
}

func (r *Registry) log() *slog.Logger {
	if r.logger == nil {
		return slog.Default()
	}
	return r.logger
}

// Register adds endpoints to the registry. A method name that is already
// registered is a configuration error; no endpoint of the batch is added then.
func (r *Registry) Register(endpoints ...Endpoint) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	batch := make(map[string]struct{}, len(endpoints))
	for _, ep := range endpoints {
		method := ep.Metadata().Method
		_, inBatch := batch[method]
		if _, exists := r.endpoints[method]; exists || inBatch {
			r.log().Error("duplicate operation registration",
				slog.String("method", method))
			return Errorf(CodeDuplicateMethod, "operation %s is already registered", method).
				WithDetail("method", method)
		}
		batch[method] = struct{}{}
	}
	for _, ep := range endpoints {
		r.endpoints[ep.Metadata().Method] = ep
	}
	return nil
}

// MustRegister is like Register but panics on error.
// It is intended for catalogs declared at package initialization.
func (r *Registry) MustRegister(endpoints ...Endpoint) *Registry {
	if err := r.Register(endpoints...); err != nil {
		panic(err)
	}
	return r
}

// Lookup returns the endpoint registered for method.
func (r *Registry) Lookup(method string) (Endpoint, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ep, ok := r.endpoints[method]
	return ep, ok
}

// Methods returns the registered method names in lexical order.
func (r *Registry) Methods() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	methods := make([]string, 0, len(r.endpoints))
	for m := range r.endpoints {
		methods = append(methods, m)
	}
	sort.Strings(methods)
	return methods
}

// Describe returns the metadata of every registered operation, ordered by method.
func (r *Registry) Describe() []*Metadata {
	methods := r.Methods()

	r.mu.RLock()
	defer r.mu.RUnlock()
	described := make([]*Metadata, 0, len(methods))
	for _, m := range methods {
		if ep, ok := r.endpoints[m]; ok {
			described = append(described, ep.Metadata())
		}
	}
	return described
}
