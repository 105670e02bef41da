package adapters

import (
	"os"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"gopkg.in/yaml.v3"

	"package-visibility/internal/types"
)

// StateFileAdapter loads installed-package state documents from disk.
type StateFileAdapter struct{}

func NewStateFileAdapter() StateFileAdapter {
	return StateFileAdapter{}
}

func (a StateFileAdapter) LoadState(path string) (types.InstalledState, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return types.InstalledState{}, errbuilder.New().
			WithCode(errbuilder.CodeNotFound).
			WithMsg("state file not found").
			WithCause(err)
	}
	var state types.InstalledState
	if err := yaml.Unmarshal(data, &state); err != nil {
		return types.InstalledState{}, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("failed to parse state yaml").
			WithCause(err)
	}
	return state, nil
}
