package app

import (
	"context"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"
)

func (s Service) Check(ctx context.Context, req CheckRequest) (CheckResult, error) {
	if strings.TrimSpace(req.Target) == "" {
		return CheckResult{}, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("target package name is required")
	}
	engine, _, err := s.loadEngine(ctx, req.StatePath, req.PolicyPath, req.Ready)
	if err != nil {
		return CheckResult{}, err
	}
	decision, err := engine.Evaluate(ctx, s.query(engine, req))
	if err != nil {
		return CheckResult{}, err
	}
	return CheckResult{Filtered: decision.Filtered, Reason: decision.Reason}, nil
}
