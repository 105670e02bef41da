package types

type MutationOp string

const (
	MutationOpAdd    MutationOp = "add"
	MutationOpRemove MutationOp = "remove"
)

// MutationEvent describes one committed store mutation.  Generation is
// the snapshot generation the mutation produced.
type MutationEvent struct {
	ID         string     `yaml:"id"`
	Op         MutationOp `yaml:"op"`
	Package    string     `yaml:"package"`
	Generation uint64     `yaml:"generation"`
}
