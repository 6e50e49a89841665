// Package modkit provides module wiring and the shared deps modules are built from
package modkit

import "querygate/internal/modkit/module"

// Module is the common surface for API modules that can mount routes and expose ports
type Module = module.Module

// Builder constructs a Module from shared deps and options
type Builder func(Deps, ...Option) Module
