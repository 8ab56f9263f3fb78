package delivery

import (
	"errors"
	"fmt"
	"sort"
	"sync"
)

// ErrUnknownMethod is returned for a carrier method nobody registered
var ErrUnknownMethod = errors.New("unknown carrier method")

// Registry maps carrier API methods to their senders
type Registry struct {
	mu      sync.RWMutex
	senders map[string]Sender
}

// NewRegistry creates an empty registry
func NewRegistry() *Registry {
	return &Registry{
		senders: make(map[string]Sender),
	}
}

// Register adds a sender under its method
func (r *Registry) Register(sender Sender) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	method := sender.Method()
	if method == "" {
		return fmt.Errorf("sender method cannot be empty")
	}
	if _, exists := r.senders[method]; exists {
		return fmt.Errorf("method %s is already registered", method)
	}

	r.senders[method] = sender
	return nil
}

// Get returns the sender of a method
func (r *Registry) Get(method string) (Sender, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	sender, exists := r.senders[method]
	if !exists {
		return nil, fmt.Errorf("%w: %s", ErrUnknownMethod, method)
	}
	return sender, nil
}

// Methods lists registered methods in a stable order, for carrier forms
func (r *Registry) Methods() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	methods := make([]string, 0, len(r.senders))
	for method := range r.senders {
		methods = append(methods, method)
	}
	sort.Strings(methods)
	return methods
}

// Has checks if a method is registered
func (r *Registry) Has(method string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, exists := r.senders[method]
	return exists
}
