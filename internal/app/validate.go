package app

import (
	"context"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"

	"package-visibility/internal/core"
)

func (s Service) Validate(ctx context.Context, req ValidateRequest) (ValidateResult, error) {
	statePath := strings.TrimSpace(req.StatePath)
	if statePath == "" {
		return ValidateResult{}, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("state file path is required")
	}
	state, err := s.States.LoadState(statePath)
	if err != nil {
		return ValidateResult{}, err
	}
	policy, err := s.Policies.LoadPolicy(req.PolicyPath)
	if err != nil {
		return ValidateResult{}, err
	}
	validator := core.NewStateValidator()
	if err := validator.ValidateState(ctx, state); err != nil {
		return ValidateResult{}, err
	}
	if err := validator.ValidatePolicy(ctx, policy); err != nil {
		return ValidateResult{}, err
	}
	return ValidateResult{APIVersion: state.APIVersion, Packages: len(state.Packages)}, nil
}
