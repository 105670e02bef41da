// Package core implements the visibility decision function and the
// rule chain behind it.  The resolver is read-only: it consumes store
// snapshots and never mutates them, so any number of evaluations can
// run concurrently.
package core

import (
	"context"
	"fmt"
	"sync/atomic"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/rs/zerolog/log"

	"package-visibility/internal/policies"
	"package-visibility/internal/ports"
	"package-visibility/internal/store"
	"package-visibility/internal/types"
)

const (
	// FirstApplicationUID is the lowest UID assigned to installed
	// applications.  Anything below it is a platform identity and is
	// never filtered.
	FirstApplicationUID = 10000

	// QueryEnforcementAPILevel is the target API level at which query
	// declarations became mandatory.  Callers targeting an older level
	// keep the legacy carve-out.
	QueryEnforcementAPILevel = 30
)

// Query is the context of one visibility evaluation.
type Query struct {
	CallerUID int
	// Caller is the caller's own package record, or nil when it cannot
	// be resolved.
	Caller *types.PackageRecord
	// Target identifies the package whose existence is being probed.
	Target *types.PackageRecord
	UserID int
}

type Resolver struct {
	feature    ports.FeatureConfigPort
	exemptions policies.ExemptionPolicy
	ready      atomic.Bool
}

func NewResolver(feature ports.FeatureConfigPort, exemptions policies.ExemptionPolicy) *Resolver {
	return &Resolver{
		feature:    feature,
		exemptions: exemptions,
	}
}

// OnReady marks the system-default exemption lists as loaded and
// propagates readiness to the feature config.  Until this point the
// list-based exemptions (device allow-list, system-queryable policy)
// are not consulted.
func (r *Resolver) OnReady(ctx context.Context) {
	r.ready.Store(true)
	r.feature.OnReady(ctx)
	log.Ctx(ctx).Info().Msg("visibility resolver ready")
}

func (r *Resolver) Ready() bool {
	return r.ready.Load()
}

// ruleEnv is the per-evaluation input shared by every rule.  target is
// the registered record from the snapshot when one exists; rules that
// inspect it skip when registered is false.
type ruleEnv struct {
	snap       *store.Snapshot
	q          Query
	ready      bool
	registered bool
	target     types.PackageRecord
}

type rule struct {
	name types.Reason
	eval func(ruleEnv) (types.RuleOutcome, types.Reason)
}

// ruleChain is the decision algorithm.  Order is a contract: the first
// rule returning a non-skip outcome wins, and the rules do not commute.
func (r *Resolver) ruleChain() []rule {
	return []rule{
		{name: types.ReasonSystemCaller, eval: func(env ruleEnv) (types.RuleOutcome, types.Reason) {
			if env.q.CallerUID < FirstApplicationUID {
				return types.OutcomeVisible, types.ReasonSystemCaller
			}
			return types.OutcomeSkip, types.ReasonSystemCaller
		}},
		{name: types.ReasonTargetUnregistered, eval: func(env ruleEnv) (types.RuleOutcome, types.Reason) {
			if !env.registered {
				return types.OutcomeFiltered, types.ReasonTargetUnregistered
			}
			return types.OutcomeSkip, types.ReasonTargetUnregistered
		}},
		{name: types.ReasonFeatureDisabled, eval: func(env ruleEnv) (types.RuleOutcome, types.Reason) {
			if !env.registered {
				return types.OutcomeSkip, types.ReasonFeatureDisabled
			}
			if !r.feature.GloballyEnabled() || !r.feature.PackageEnabled(env.target.Name) {
				return types.OutcomeVisible, types.ReasonFeatureDisabled
			}
			return types.OutcomeSkip, types.ReasonFeatureDisabled
		}},
		{name: types.ReasonCallerUnresolved, eval: func(env ruleEnv) (types.RuleOutcome, types.Reason) {
			if env.q.Caller == nil {
				return types.OutcomeFiltered, types.ReasonCallerUnresolved
			}
			return types.OutcomeSkip, types.ReasonCallerUnresolved
		}},
		{name: types.ReasonForceQueryable, eval: func(env ruleEnv) (types.RuleOutcome, types.Reason) {
			if env.registered && env.target.ForceQueryable {
				return types.OutcomeVisible, types.ReasonForceQueryable
			}
			return types.OutcomeSkip, types.ReasonForceQueryable
		}},
		{name: types.ReasonDeviceAllowList, eval: func(env ruleEnv) (types.RuleOutcome, types.Reason) {
			// The allow-list exemption is scoped to system callers.
			if !env.ready || !env.registered || env.q.Caller == nil {
				return types.OutcomeSkip, types.ReasonDeviceAllowList
			}
			if !r.exemptions.DeviceForceQueryable(env.target.Name) {
				return types.OutcomeSkip, types.ReasonDeviceAllowList
			}
			if env.q.Caller.System {
				return types.OutcomeVisible, types.ReasonDeviceAllowList
			}
			return types.OutcomeFiltered, types.ReasonAllowListNonSystem
		}},
		{name: types.ReasonSystemQueryable, eval: func(env ruleEnv) (types.RuleOutcome, types.Reason) {
			if env.ready && env.registered && env.target.System && r.exemptions.SystemPackagesQueryable() {
				return types.OutcomeVisible, types.ReasonSystemQueryable
			}
			return types.OutcomeSkip, types.ReasonSystemQueryable
		}},
		{name: types.ReasonQueriesPackage, eval: func(env ruleEnv) (types.RuleOutcome, types.Reason) {
			if env.q.Caller != nil && env.registered && env.q.Caller.QueriesPackage(env.target.Name) {
				return types.OutcomeVisible, types.ReasonQueriesPackage
			}
			return types.OutcomeSkip, types.ReasonQueriesPackage
		}},
		{name: types.ReasonQueryMatch, eval: func(env ruleEnv) (types.RuleOutcome, types.Reason) {
			// Declared-query matching carries no SDK gate; the legacy
			// carve-out below is a separate rule.
			if env.q.Caller != nil && env.registered && declaredQueriesMatch(env.snap, *env.q.Caller, env.target.Name) {
				return types.OutcomeVisible, types.ReasonQueryMatch
			}
			return types.OutcomeSkip, types.ReasonQueryMatch
		}},
		{name: types.ReasonLegacyCaller, eval: func(env ruleEnv) (types.RuleOutcome, types.Reason) {
			if env.q.Caller != nil && env.q.Caller.TargetAPILevel < QueryEnforcementAPILevel {
				return types.OutcomeVisible, types.ReasonLegacyCaller
			}
			return types.OutcomeSkip, types.ReasonLegacyCaller
		}},
		{name: types.ReasonDefaultDeny, eval: func(env ruleEnv) (types.RuleOutcome, types.Reason) {
			return types.OutcomeFiltered, types.ReasonDefaultDeny
		}},
	}
}

// Evaluate runs the rule chain and returns the first-match decision.
// It never errors for a well-formed context; malformed input is a
// programming-contract violation.
func (r *Resolver) Evaluate(ctx context.Context, snap *store.Snapshot, q Query) (types.Decision, error) {
	env, err := r.buildEnv(snap, q)
	if err != nil {
		return types.Decision{}, err
	}
	for _, step := range r.ruleChain() {
		outcome, reason := step.eval(env)
		if outcome == types.OutcomeSkip {
			continue
		}
		decision := types.Decision{
			Filtered: outcome == types.OutcomeFiltered,
			Reason:   reason,
		}
		log.Ctx(ctx).Debug().
			Int("caller_uid", q.CallerUID).
			Str("target", q.Target.Name).
			Int("user", q.UserID).
			Bool("filtered", decision.Filtered).
			Str("reason", string(decision.Reason)).
			Uint64("generation", snap.Generation()).
			Msg("visibility decision")
		return decision, nil
	}
	// The chain ends in default-deny; this is unreachable.
	return types.Decision{Filtered: true, Reason: types.ReasonDefaultDeny}, nil
}

// Trace runs every rule and records its outcome, marking the first
// non-skip rule as decisive.  Trace and Evaluate share the same rule
// chain, so they cannot diverge.
func (r *Resolver) Trace(ctx context.Context, snap *store.Snapshot, q Query) ([]types.RuleStep, types.Decision, error) {
	env, err := r.buildEnv(snap, q)
	if err != nil {
		return nil, types.Decision{}, err
	}
	var steps []types.RuleStep
	var decision types.Decision
	decided := false
	for _, step := range r.ruleChain() {
		outcome, reason := step.eval(env)
		decisive := !decided && outcome != types.OutcomeSkip
		if decisive {
			decided = true
			decision = types.Decision{
				Filtered: outcome == types.OutcomeFiltered,
				Reason:   reason,
			}
		}
		steps = append(steps, types.RuleStep{Rule: step.name, Outcome: outcome, Decisive: decisive})
	}
	return steps, decision, nil
}

// ShouldFilterApplication answers whether the target must stay hidden
// from the caller.  Contract violations degrade to filtered and are
// logged as caller bugs.
func (r *Resolver) ShouldFilterApplication(ctx context.Context, snap *store.Snapshot, callerUID int, caller *types.PackageRecord, target *types.PackageRecord, userID int) bool {
	decision, err := r.Evaluate(ctx, snap, Query{
		CallerUID: callerUID,
		Caller:    caller,
		Target:    target,
		UserID:    userID,
	})
	if err != nil {
		log.Ctx(ctx).Warn().Err(err).Int("caller_uid", callerUID).Msg("malformed visibility query")
		return true
	}
	return decision.Filtered
}

func (r *Resolver) buildEnv(snap *store.Snapshot, q Query) (ruleEnv, error) {
	if snap == nil {
		return ruleEnv{}, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("visibility query requires a snapshot")
	}
	if q.Target == nil {
		return ruleEnv{}, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("visibility query requires a target record")
	}
	if q.CallerUID < 0 {
		return ruleEnv{}, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg(fmt.Sprintf("negative caller uid: %d", q.CallerUID))
	}
	if q.UserID < 0 {
		return ruleEnv{}, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg(fmt.Sprintf("negative user id: %d", q.UserID))
	}
	env := ruleEnv{
		snap:  snap,
		q:     q,
		ready: r.ready.Load(),
	}
	// Decisions key off the registered record, not the caller-supplied
	// copy, so in-flight updates cannot produce torn reads.
	if registered, ok := snap.Record(q.Target.Name); ok {
		env.registered = true
		env.target = registered
	}
	return env, nil
}
