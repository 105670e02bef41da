package adapters

import (
	"os"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"gopkg.in/yaml.v3"

	"package-visibility/internal/types"
)

// PolicyFileAdapter loads device policy documents from disk.  A missing
// path yields the zero policy: filtering disabled, no exemptions.
type PolicyFileAdapter struct{}

func NewPolicyFileAdapter() PolicyFileAdapter {
	return PolicyFileAdapter{}
}

func (a PolicyFileAdapter) LoadPolicy(path string) (types.DevicePolicy, error) {
	if path == "" {
		return types.DevicePolicy{}, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return types.DevicePolicy{}, errbuilder.New().
			WithCode(errbuilder.CodeNotFound).
			WithMsg("policy file not found").
			WithCause(err)
	}
	var policy types.DevicePolicy
	if err := yaml.Unmarshal(data, &policy); err != nil {
		return types.DevicePolicy{}, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("failed to parse policy yaml").
			WithCause(err)
	}
	return policy, nil
}
