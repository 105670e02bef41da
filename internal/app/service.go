package app

import (
	"context"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"

	"package-visibility/internal/adapters"
	"package-visibility/internal/core"
	"package-visibility/internal/policies"
	"package-visibility/internal/ports"
	"package-visibility/internal/types"
)

// Service is the CLI-facing application layer: it loads state and
// policy documents through ports, builds a transient engine, and runs
// one operation against it.
type Service struct {
	States   ports.StateSourcePort
	Policies ports.PolicySourcePort
	Events   ports.EventSinkPort
}

func NewService() Service {
	return Service{
		States:   adapters.NewStateFileAdapter(),
		Policies: adapters.NewPolicyFileAdapter(),
		Events:   adapters.NopEventSink{},
	}
}

// loadEngine validates and loads the documents, registers every record,
// and optionally marks the engine ready (system lists loaded).
func (s Service) loadEngine(ctx context.Context, statePath string, policyPath string, ready bool) (*Engine, types.InstalledState, error) {
	if strings.TrimSpace(statePath) == "" {
		return nil, types.InstalledState{}, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("state file path is required")
	}
	state, err := s.States.LoadState(statePath)
	if err != nil {
		return nil, types.InstalledState{}, err
	}
	policy, err := s.Policies.LoadPolicy(policyPath)
	if err != nil {
		return nil, types.InstalledState{}, err
	}
	validator := core.NewStateValidator()
	if err := validator.ValidateState(ctx, state); err != nil {
		return nil, types.InstalledState{}, err
	}
	if err := validator.ValidatePolicy(ctx, policy); err != nil {
		return nil, types.InstalledState{}, err
	}

	engine := NewEngine(policies.NewFeatureFlags(policy.Feature), policy, WithMutationEvents(s.Events))
	for _, record := range state.Packages {
		if err := engine.AddPackage(ctx, record); err != nil {
			return nil, types.InstalledState{}, err
		}
	}
	if ready {
		engine.OnReady(ctx)
	}
	return engine, state, nil
}

// query builds the resolver query for a named caller/target pair.  The
// caller record may be absent (unresolvable caller); the target is
// looked up in the loaded state so unregistered targets evaluate as
// such rather than erroring.
func (s Service) query(engine *Engine, req CheckRequest) core.Query {
	snap := engine.Snapshot()
	q := core.Query{CallerUID: req.CallerUID, UserID: req.UserID}
	if record, ok := snap.Record(req.Caller); ok {
		q.Caller = &record
	}
	if record, ok := snap.Record(req.Target); ok {
		q.Target = &record
	} else {
		q.Target = &types.PackageRecord{Name: req.Target}
	}
	return q
}
