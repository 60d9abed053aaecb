package fiber

// SlotKind names the hook that owns a slot.
type SlotKind int

const (
	KindState SlotKind = iota + 1
	KindReducer
	KindRef
	KindMemo
	KindCallback
	KindEffect
)

func (k SlotKind) String() string {
	switch k {
	case KindState:
		return "state"
	case KindReducer:
		return "reducer"
	case KindRef:
		return "ref"
	case KindMemo:
		return "memo"
	case KindCallback:
		return "callback"
	case KindEffect:
		return "effect"
	default:
		return "unknown"
	}
}

// Slot is one hook's persistent cell. The set of implementations is closed:
// StateSlot, ReducerSlot, RefSlot, MemoSlot, CallbackSlot and EffectSlot.
type Slot interface {
	Kind() SlotKind
	slot()
}

// StateSlot backs UseState.
type StateSlot struct {
	Value any
}

// ReducerSlot backs UseReducer.
type ReducerSlot struct {
	Value any
}

// RefSlot backs UseRef. Current holds the *Ref[T] handed to the component,
// so the same box is returned on every render.
type RefSlot struct {
	Current any
}

// MemoSlot backs UseMemo.
type MemoSlot struct {
	Value any
	Deps  Deps
}

// CallbackSlot backs UseCallback.
type CallbackSlot struct {
	Callback any
	Deps     Deps
}

// EffectSlot backs UseEffect, UseLayoutEffect and UseImperativeHandle.
// Deps and Callback are those of the last committed run.
type EffectSlot struct {
	Deps           Deps
	Callback       func()
	HasRun         bool
	IsLayoutEffect bool
}

func (*StateSlot) Kind() SlotKind    { return KindState }
func (*ReducerSlot) Kind() SlotKind  { return KindReducer }
func (*RefSlot) Kind() SlotKind      { return KindRef }
func (*MemoSlot) Kind() SlotKind     { return KindMemo }
func (*CallbackSlot) Kind() SlotKind { return KindCallback }
func (*EffectSlot) Kind() SlotKind   { return KindEffect }

func (*StateSlot) slot()    {}
func (*ReducerSlot) slot()  {}
func (*RefSlot) slot()      {}
func (*MemoSlot) slot()     {}
func (*CallbackSlot) slot() {}
func (*EffectSlot) slot()   {}

// SlotStore is the ordered slot sequence of one component instance. It is
// shared by reference between generations of that instance.
type SlotStore struct {
	slots []Slot
}

// NewSlotStore returns an empty store.
func NewSlotStore() *SlotStore {
	return &SlotStore{}
}

// Len returns the number of allocated slots.
func (s *SlotStore) Len() int {
	if s == nil {
		return 0
	}
	return len(s.slots)
}

// At returns the slot at index i, or nil when out of range.
func (s *SlotStore) At(i int) Slot {
	if s == nil || i < 0 || i >= len(s.slots) {
		return nil
	}
	return s.slots[i]
}

// Kinds returns the slot kinds in index order.
func (s *SlotStore) Kinds() []SlotKind {
	kinds := make([]SlotKind, s.Len())
	for i := range kinds {
		kinds[i] = s.slots[i].Kind()
	}
	return kinds
}

// put stores slot at index i, growing the store by one when i == Len().
func (s *SlotStore) put(i int, slot Slot) {
	if i == len(s.slots) {
		s.slots = append(s.slots, slot)
		return
	}
	s.slots[i] = slot
}
