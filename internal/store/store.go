// Package store holds the registered package records and their derived
// declaration index behind copy-on-write snapshots.  Readers load the
// current snapshot wait-free; mutations are serialized by a single
// writer lock and publish a fully-built replacement generation, so a
// decision in flight always observes either the fully-present or the
// fully-absent package, never a partial state.
package store

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"package-visibility/internal/index"
	"package-visibility/internal/ports"
	"package-visibility/internal/types"
)

// Snapshot is one immutable generation of the store: the record set and
// the declaration index built from it.
type Snapshot struct {
	generation uint64
	records    map[string]types.PackageRecord
	index      *index.DeclarationIndex
}

// Generation identifies this snapshot; it increases by one per
// committed mutation.
func (s *Snapshot) Generation() uint64 {
	return s.generation
}

// Record returns the registered record for the package name.
func (s *Snapshot) Record(name string) (types.PackageRecord, bool) {
	record, ok := s.records[name]
	return record, ok
}

// Index returns the declaration index consistent with this snapshot.
func (s *Snapshot) Index() *index.DeclarationIndex {
	return s.index
}

// Len returns the number of registered packages.
func (s *Snapshot) Len() int {
	return len(s.records)
}

// Names returns the registered package names, sorted.
func (s *Snapshot) Names() []string {
	out := make([]string, 0, len(s.records))
	for name := range s.records {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

type Store struct {
	mu      sync.Mutex
	current atomic.Pointer[Snapshot]
	events  ports.EventSinkPort
}

type Option func(*Store)

// WithEventSink attaches a sink that receives one event per committed
// mutation.
func WithEventSink(sink ports.EventSinkPort) Option {
	return func(s *Store) {
		s.events = sink
	}
}

func New(opts ...Option) *Store {
	s := &Store{}
	for _, opt := range opts {
		opt(s)
	}
	s.current.Store(&Snapshot{
		records: map[string]types.PackageRecord{},
		index:   index.New(),
	})
	return s
}

// Snapshot returns the current generation.  The returned value is
// immutable and remains valid after concurrent mutations.
func (s *Store) Snapshot() *Snapshot {
	return s.current.Load()
}

// AddPackage registers a record and rebuilds the declaration index in
// the same generation swap.  Declared-query references to packages not
// yet installed are legal; they resolve lazily at decision time.
func (s *Store) AddPackage(ctx context.Context, record types.PackageRecord) error {
	if strings.TrimSpace(record.Name) == "" {
		return errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("package record requires a name")
	}
	if record.UID < 0 {
		return errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg(fmt.Sprintf("package %s has negative uid %d", record.Name, record.UID))
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	prev := s.current.Load()
	if _, ok := prev.records[record.Name]; ok {
		return errbuilder.New().
			WithCode(errbuilder.CodeAlreadyExists).
			WithMsg(fmt.Sprintf("package already registered: %s", record.Name))
	}

	next := s.rebuild(prev, func(records map[string]types.PackageRecord) {
		records[record.Name] = record
	})
	s.publish(ctx, next, types.MutationOpAdd, record.Name)
	return nil
}

// RemovePackage unregisters the record and its index contributions.
// Removing an unknown package is reported but leaves the store as-is.
func (s *Store) RemovePackage(ctx context.Context, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	prev := s.current.Load()
	if _, ok := prev.records[name]; !ok {
		log.Ctx(ctx).Warn().Str("package", name).Msg("remove of unregistered package")
		return errbuilder.New().
			WithCode(errbuilder.CodeNotFound).
			WithMsg(fmt.Sprintf("package not registered: %s", name))
	}

	next := s.rebuild(prev, func(records map[string]types.PackageRecord) {
		delete(records, name)
	})
	s.publish(ctx, next, types.MutationOpRemove, name)
	return nil
}

// rebuild copies the record map, applies the mutation, and compiles a
// fresh declaration index for the new generation.  Mutations are rare
// relative to decisions, so the full index rebuild keeps the two
// structures consistent by construction instead of by bookkeeping.
func (s *Store) rebuild(prev *Snapshot, mutate func(map[string]types.PackageRecord)) *Snapshot {
	records := make(map[string]types.PackageRecord, len(prev.records)+1)
	for name, record := range prev.records {
		records[name] = record
	}
	mutate(records)

	ix := index.New()
	for _, record := range records {
		// Register cannot fail here: names are map keys, so unique.
		_ = ix.Register(record)
	}
	return &Snapshot{
		generation: prev.generation + 1,
		records:    records,
		index:      ix,
	}
}

func (s *Store) publish(ctx context.Context, next *Snapshot, op types.MutationOp, name string) {
	s.current.Store(next)
	event := types.MutationEvent{
		ID:         uuid.NewString(),
		Op:         op,
		Package:    name,
		Generation: next.generation,
	}
	if s.events != nil {
		if err := s.events.Record(ctx, event); err != nil {
			log.Ctx(ctx).Warn().Err(err).Str("package", name).Msg("event sink rejected mutation event")
		}
	}
	log.Ctx(ctx).Debug().
		Str("op", string(op)).
		Str("package", name).
		Uint64("generation", next.generation).
		Msg("store mutated")
}
