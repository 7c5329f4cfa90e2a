// Copyright 2026 © The Ag3nt Authors
// SPDX-License-Identifier: Apache-2.0

// Package agenttest provides utilities for testing agents built on the
// runtime core: an event collector, scripted hooks and a minimal valid
// manifest fixture.
package agenttest

import (
	"context"
	"sync"

	"github.com/kiidfreak/Ag3nt-05/pkg/bus"
	"github.com/kiidfreak/Ag3nt-05/pkg/core"
	"github.com/kiidfreak/Ag3nt-05/pkg/manifest"
)

// Collector records events delivered on a bus for later assertions.
type Collector struct {
	mu     sync.Mutex
	events []core.Event
}

// NewCollector creates an empty collector.
func NewCollector() *Collector {
	return &Collector{}
}

// Handler returns a bus handler that records every event it receives.
func (c *Collector) Handler() bus.Handler {
	return func(_ context.Context, evt core.Event) error {
		c.mu.Lock()
		c.events = append(c.events, evt)
		c.mu.Unlock()
		return nil
	}
}

// Attach subscribes the collector to the given event types on b.
func (c *Collector) Attach(b *bus.Bus, types ...core.EventType) {
	for _, t := range types {
		b.Subscribe(t, c.Handler())
	}
}

// Events returns a copy of everything recorded, in delivery order.
func (c *Collector) Events() []core.Event {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]core.Event(nil), c.events...)
}

// ByType returns the recorded events of one type, in delivery order.
func (c *Collector) ByType(t core.EventType) []core.Event {
	c.mu.Lock()
	defer c.mu.Unlock()
	var out []core.Event
	for _, evt := range c.events {
		if evt.Type == t {
			out = append(out, evt)
		}
	}
	return out
}

// Reset discards everything recorded so far.
func (c *Collector) Reset() {
	c.mu.Lock()
	c.events = nil
	c.mu.Unlock()
}

// ScriptedHooks implements core.Hooks with injectable behavior and call
// counting. Nil funcs succeed; ExecuteFunc defaults to echoing the input.
type ScriptedHooks struct {
	InitializeFunc func(ctx context.Context) error
	ExecuteFunc    func(ctx context.Context, input map[string]any) (map[string]any, error)
	ShutdownFunc   func(ctx context.Context) error

	mu              sync.Mutex
	initializeCalls int
	executeCalls    int
	shutdownCalls   int
}

// OnInitialize implements core.Hooks.
func (s *ScriptedHooks) OnInitialize(ctx context.Context) error {
	s.count(&s.initializeCalls)
	if s.InitializeFunc != nil {
		return s.InitializeFunc(ctx)
	}
	return nil
}

// OnExecute implements core.Hooks.
func (s *ScriptedHooks) OnExecute(ctx context.Context, input map[string]any) (map[string]any, error) {
	s.count(&s.executeCalls)
	if s.ExecuteFunc != nil {
		return s.ExecuteFunc(ctx, input)
	}
	out := make(map[string]any, len(input))
	for k, v := range input {
		out[k] = v
	}
	return out, nil
}

// OnShutdown implements core.Hooks.
func (s *ScriptedHooks) OnShutdown(ctx context.Context) error {
	s.count(&s.shutdownCalls)
	if s.ShutdownFunc != nil {
		return s.ShutdownFunc(ctx)
	}
	return nil
}

// InitializeCalls returns how many times OnInitialize ran.
func (s *ScriptedHooks) InitializeCalls() int { return s.read(&s.initializeCalls) }

// ExecuteCalls returns how many times OnExecute ran.
func (s *ScriptedHooks) ExecuteCalls() int { return s.read(&s.executeCalls) }

// ShutdownCalls returns how many times OnShutdown ran.
func (s *ScriptedHooks) ShutdownCalls() int { return s.read(&s.shutdownCalls) }

func (s *ScriptedHooks) count(n *int) {
	s.mu.Lock()
	*n++
	s.mu.Unlock()
}

func (s *ScriptedHooks) read(n *int) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return *n
}

// NewManifest returns a minimal structurally valid manifest. Tests mutate
// the inputs/outputs maps to declare the schemas they exercise.
func NewManifest(id string) manifest.Manifest {
	return manifest.Manifest{
		ID:          id,
		Name:        id,
		Version:     "0.1.0",
		Description: "test agent",
		Runtime:     "go",
		Inputs:      map[string]manifest.FieldSchema{},
		Outputs:     map[string]manifest.FieldSchema{},
		Metadata: &manifest.Metadata{
			Author:   "agenttest",
			Tags:     []string{"test"},
			Category: "testing",
		},
	}
}
