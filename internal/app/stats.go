package app

import "context"

func (s Service) Stats(ctx context.Context, req StatsRequest) (StatsResult, error) {
	engine, state, err := s.loadEngine(ctx, req.StatePath, req.PolicyPath, false)
	if err != nil {
		return StatsResult{}, err
	}
	snap := engine.Snapshot()
	ix := snap.Index()

	result := StatsResult{
		Generation:    snap.Generation(),
		Packages:      snap.Len(),
		ActionKeys:    len(ix.Actions()),
		SchemeKeys:    len(ix.Schemes()),
		AuthorityKeys: len(ix.Authorities()),
	}
	for _, record := range state.Packages {
		if record.ForceQueryable {
			result.ForceQueryable++
		}
		if record.System {
			result.SystemPackages++
		}
		if !record.QueriesNothing() {
			result.DeclaredQueries++
		}
	}
	return result, nil
}
