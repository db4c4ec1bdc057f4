package state

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/alphabill-org/alphabill-escrow/types"
)

// ErrUnitNotFound is returned by GetUnit (and the store view used by
// actions) when no unit with the given identifier exists.
var ErrUnitNotFound = errors.New("not found")

type (
	// State is a data structure that keeps track of units and their data.
	//
	// State can be changed by calling the Apply function with one or more
	// Action function. Savepoint method can be used to add a special marker
	// to the state that allows all actions that are executed after the
	// savepoint was established to be rolled back, restoring the state to
	// what it was at the time of the savepoint. Calling the Commit method
	// commits and releases all savepoints.
	State struct {
		mutex     sync.RWMutex
		committed tree

		// savepoints; the last one is the tree all reads and writes of
		// uncommitted state go to.
		savepoints []tree

		dirty bool
	}

	tree map[string]*Unit

	// UnitDataConstructor is a function that constructs an empty UnitData
	// structure based on the UnitID (its type part).
	UnitDataConstructor func(types.UnitID) (UnitData, error)
)

func NewEmptyState() *State {
	t := tree{}
	return &State{
		committed:  t,
		savepoints: []tree{t.clone()},
	}
}

func (t tree) clone() tree {
	c := make(tree, len(t))
	for k, v := range t {
		c[k] = v
	}
	return c
}

// Clone returns a clone of the state. The original state and the cloned
// state can be used by different goroutines but can never be merged. The
// cloned state is usually used by read only operations.
func (s *State) Clone() *State {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	return &State{
		committed:  s.committed.clone(),
		savepoints: []tree{s.latestSavepoint().clone()},
		dirty:      s.dirty,
	}
}

func (s *State) GetUnit(id types.UnitID, committed bool) (*Unit, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	t := s.latestSavepoint()
	if committed {
		t = s.committed
	}
	u, ok := t[string(id)]
	if !ok {
		return nil, fmt.Errorf("item %s does not exist: %w", id, ErrUnitNotFound)
	}
	return u.Clone(), nil
}

// Apply applies given actions to the state. All Action functions are
// executed together as a single atomic operation. If any of the Action
// functions returns an error all previous state changes made by any of the
// action functions will be reverted.
func (s *State) Apply(actions ...Action) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	id := s.createSavepoint()
	store := &savepointStore{t: s.latestSavepoint()}
	for _, action := range actions {
		if err := action(store); err != nil {
			s.rollbackToSavepoint(id)
			return err
		}
	}
	s.releaseToSavepoint(id)
	s.dirty = true
	return nil
}

// Savepoint creates a new savepoint and returns its id. Use
// RollbackToSavepoint to roll back all changes made after calling the
// Savepoint method. Use ReleaseToSavepoint to keep all changes made to the
// state after the savepoint was established.
func (s *State) Savepoint() int {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	return s.createSavepoint()
}

// RollbackToSavepoint destroys savepoints without keeping the changes in the
// state tree. All actions that were executed after the savepoint was
// established are rolled back, restoring the state to what it was at the
// time of the savepoint.
func (s *State) RollbackToSavepoint(id int) {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	s.rollbackToSavepoint(id)
}

// ReleaseToSavepoint destroys all savepoints established at or after the
// given id, keeping all state changes made after it was created. If a
// savepoint with the given id does not exist then this method does nothing.
func (s *State) ReleaseToSavepoint(id int) {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	s.releaseToSavepoint(id)
}

// Commit makes the changes in the latest savepoint permanent.
func (s *State) Commit() {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	sp := s.latestSavepoint()
	s.committed = sp.clone()
	s.savepoints = []tree{sp}
	s.dirty = false
}

// Revert rolls back all uncommitted changes made to the state.
func (s *State) Revert() {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	s.savepoints = []tree{s.committed.clone()}
	s.dirty = false
}

// IsCommitted returns true if the state does not contain uncommitted
// changes.
func (s *State) IsCommitted() bool {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	return !s.dirty && len(s.savepoints) == 1
}

// Summary returns the unit count and the total summary value (the value
// still held in custody) of the uncommitted state.
func (s *State) Summary() (count uint64, value uint64) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	t := s.latestSavepoint()
	for _, u := range t {
		if u.data != nil {
			value += u.data.SummaryValueInput()
		}
	}
	return uint64(len(t)), value
}

// Traverse visits the units of the state in unit id order. Committed
// selects between the committed tree and the latest savepoint.
func (s *State) Traverse(committed bool, visit func(id types.UnitID, u *Unit) error) error {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	t := s.latestSavepoint()
	if committed {
		t = s.committed
	}
	keys := make([]string, 0, len(t))
	for k := range t {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if err := visit(types.UnitID(k), t[k]); err != nil {
			return err
		}
	}
	return nil
}

func (s *State) createSavepoint() int {
	s.savepoints = append(s.savepoints, s.latestSavepoint().clone())
	return len(s.savepoints) - 1
}

func (s *State) rollbackToSavepoint(id int) {
	if id > len(s.savepoints) || id < 1 {
		// nothing to revert
		return
	}
	s.savepoints = s.savepoints[0:id]
}

func (s *State) releaseToSavepoint(id int) {
	if id > len(s.savepoints) || id < 1 {
		// nothing to release
		return
	}
	s.savepoints[id-1] = s.latestSavepoint()
	s.savepoints = s.savepoints[0:id]
}

// latestSavepoint returns the latest savepoint.
func (s *State) latestSavepoint() tree {
	return s.savepoints[len(s.savepoints)-1]
}

// savepointStore adapts a savepoint tree to the UnitStore interface used by
// actions.
type savepointStore struct {
	t tree
}

func (s *savepointStore) Add(id types.UnitID, u *Unit) error {
	if _, ok := s.t[string(id)]; ok {
		return fmt.Errorf("unit %s already exists", id)
	}
	s.t[string(id)] = u
	return nil
}

func (s *savepointStore) Get(id types.UnitID) (*Unit, error) {
	u, ok := s.t[string(id)]
	if !ok {
		return nil, fmt.Errorf("item %s does not exist: %w", id, ErrUnitNotFound)
	}
	return u, nil
}

func (s *savepointStore) Update(id types.UnitID, unit *Unit) error {
	if _, ok := s.t[string(id)]; !ok {
		return fmt.Errorf("item %s does not exist: %w", id, ErrUnitNotFound)
	}
	s.t[string(id)] = unit
	return nil
}

func (s *savepointStore) Delete(id types.UnitID) error {
	if _, ok := s.t[string(id)]; !ok {
		return fmt.Errorf("item %s does not exist: %w", id, ErrUnitNotFound)
	}
	delete(s.t, string(id))
	return nil
}
