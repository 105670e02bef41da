// Package app assembles the visibility engine and exposes its
// operations to embedders and the CLI.
package app

import (
	"context"

	"package-visibility/internal/core"
	"package-visibility/internal/policies"
	"package-visibility/internal/ports"
	"package-visibility/internal/store"
	"package-visibility/internal/types"
)

// Engine is the long-lived visibility engine: the record store, the
// derived declaration index, and the resolver, wired to an explicit
// feature configuration.  All methods are safe for concurrent use;
// queries never block behind mutations.
type Engine struct {
	store    *store.Store
	resolver *core.Resolver
}

type EngineOption func(*engineConfig)

type engineConfig struct {
	events ports.EventSinkPort
}

// WithMutationEvents routes one event per committed mutation to sink.
func WithMutationEvents(sink ports.EventSinkPort) EngineOption {
	return func(cfg *engineConfig) {
		cfg.events = sink
	}
}

func NewEngine(feature ports.FeatureConfigPort, policy types.DevicePolicy, opts ...EngineOption) *Engine {
	cfg := engineConfig{}
	for _, opt := range opts {
		opt(&cfg)
	}
	var storeOpts []store.Option
	if cfg.events != nil {
		storeOpts = append(storeOpts, store.WithEventSink(cfg.events))
	}
	return &Engine{
		store:    store.New(storeOpts...),
		resolver: core.NewResolver(feature, policies.NewExemptionPolicy(policy)),
	}
}

// OnReady signals that all system-default exemption lists have been
// loaded.  Before this point the list-based exemptions default-deny.
func (e *Engine) OnReady(ctx context.Context) {
	e.resolver.OnReady(ctx)
}

// AddPackage registers a new package record.  Re-registering a name
// without an intervening RemovePackage fails; updates are modeled as
// remove followed by add of the replacement record.
func (e *Engine) AddPackage(ctx context.Context, record types.PackageRecord) error {
	return e.store.AddPackage(ctx, record)
}

// RemovePackage unregisters a package and its index contributions.
func (e *Engine) RemovePackage(ctx context.Context, name string) error {
	return e.store.RemovePackage(ctx, name)
}

// ShouldFilterApplication reports whether the target package must stay
// hidden from the caller: no intent resolution into it, no metadata,
// name-not-found style failures.
func (e *Engine) ShouldFilterApplication(ctx context.Context, callerUID int, caller *types.PackageRecord, target *types.PackageRecord, userID int) bool {
	return e.resolver.ShouldFilterApplication(ctx, e.store.Snapshot(), callerUID, caller, target, userID)
}

// Evaluate returns the full decision, including the deciding rule.
func (e *Engine) Evaluate(ctx context.Context, q core.Query) (types.Decision, error) {
	return e.resolver.Evaluate(ctx, e.store.Snapshot(), q)
}

// Trace returns the rule-by-rule evaluation record for one query.
func (e *Engine) Trace(ctx context.Context, q core.Query) ([]types.RuleStep, types.Decision, error) {
	return e.resolver.Trace(ctx, e.store.Snapshot(), q)
}

// Snapshot exposes the current store generation for read-only callers.
func (e *Engine) Snapshot() *store.Snapshot {
	return e.store.Snapshot()
}
