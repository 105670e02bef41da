package app

import (
	"context"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"
)

func (s Service) Explain(ctx context.Context, req ExplainRequest) (ExplainResult, error) {
	if strings.TrimSpace(req.Target) == "" {
		return ExplainResult{}, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("target package name is required")
	}
	engine, _, err := s.loadEngine(ctx, req.StatePath, req.PolicyPath, req.Ready)
	if err != nil {
		return ExplainResult{}, err
	}
	steps, decision, err := engine.Trace(ctx, s.query(engine, CheckRequest(req)))
	if err != nil {
		return ExplainResult{}, err
	}
	return ExplainResult{Decision: decision, Steps: steps}, nil
}
