// Package method maintains the registry of API method handlers.
package method

import (
	"github.com/scorelab/scoring/server/auth"
)

// Info is the per-request context record reported by a handler alongside its
// business result. It is consumed by the request log.
type Info struct {
	// Has is the number of populated score inputs (online_score).
	Has int
	// NClients is the number of client ids processed (clients_interests).
	NClients int
}

// Handler is the capability contract implemented by every API method.
type Handler interface {
	// Validate checks the raw method arguments against the handler's field
	// descriptors and returns the typed argument bag. The bag is immutable
	// once constructed.
	Validate(args map[string]interface{}) (interface{}, error)

	// Execute runs the method. The bag must be a value previously returned
	// by Validate of the same handler; rec is read-only.
	Execute(bag interface{}, rec *auth.Rec) (interface{}, Info, error)
}

var handlers = make(map[string]Handler)

// Register makes a method handler available for dispatch under the given
// name. Called from init() of the handler's package. If Register is called
// twice with the same name or if the handler is nil, it panics.
func Register(name string, hdl Handler) {
	if hdl == nil {
		panic("method: Register handler is nil")
	}
	if _, dup := handlers[name]; dup {
		panic("method: handler '" + name + "' is already registered")
	}
	handlers[name] = hdl
}

// Get returns the handler registered under the exact, case-sensitive name,
// or nil if no such method exists.
func Get(name string) Handler {
	return handlers[name]
}
