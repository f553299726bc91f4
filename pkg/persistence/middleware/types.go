package middleware

import "github.com/scriptcell/scriptcell/pkg/ports"

// Middleware allows wrapping a RunStore to add behavior.
type Middleware func(ports.RunStore) ports.RunStore

// Chain applies middlewares to a store. The first middleware in the list is
// the outermost wrapper.
func Chain(store ports.RunStore, middlewares ...Middleware) ports.RunStore {
	for i := len(middlewares) - 1; i >= 0; i-- {
		store = middlewares[i](store)
	}
	return store
}
