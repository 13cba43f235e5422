// Cinescope - Movie and Show Catalog API
// Copyright 2026 Cinescope contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/cinescope/cinescope

package pipeline

import (
	"fmt"
	"net/http"
)

// Registry collects the composed handlers of one route group. Groups are
// built once at startup; a group that finishes registration with zero
// handlers is a configuration error surfaced immediately, not at first
// request.
type Registry struct {
	group    string
	pipeline *Pipeline
	handlers map[string]http.HandlerFunc
	order    []string
}

// Group starts a named handler registry bound to this pipeline.
func (p *Pipeline) Group(name string) *Registry {
	return &Registry{
		group:    name,
		pipeline: p,
		handlers: make(map[string]http.HandlerFunc),
	}
}

// Handle composes fn with its requirements and registers it under name.
// Registering the same name twice panics: that is a programming error in
// the route table, caught at startup.
func (r *Registry) Handle(name string, fn Func, opts ...Option) {
	if _, exists := r.handlers[name]; exists {
		panic(fmt.Sprintf("pipeline: duplicate handler %q in group %q", name, r.group))
	}
	r.handlers[name] = r.pipeline.Handler(fn, opts...)
	r.order = append(r.order, name)
}

// Get returns the composed handler registered under name.
func (r *Registry) Get(name string) http.HandlerFunc {
	return r.handlers[name]
}

// Handlers returns the registered handler set in registration order, or
// an error when the group is empty.
func (r *Registry) Handlers() (map[string]http.HandlerFunc, error) {
	if len(r.handlers) == 0 {
		return nil, fmt.Errorf("route group %q registered no handlers", r.group)
	}
	return r.handlers, nil
}

// Names returns the handler names in registration order.
func (r *Registry) Names() []string {
	return r.order
}
