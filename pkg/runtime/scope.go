package runtime

import "sort"

// Scope is one frame of bindings. A frame that does not bubble hides every
// frame pushed before it.
type Scope struct {
	values map[string]Value
	bubble bool
}

// NewScope creates an empty frame.
func NewScope(bubble bool) *Scope {
	return &Scope{values: make(map[string]Value), bubble: bubble}
}

// NewScopeWith creates a frame seeded with bindings; later names win.
func NewScopeWith(names []string, values []Value, bubble bool) *Scope {
	s := NewScope(bubble)
	for idx, name := range names {
		if idx >= len(values) {
			break
		}
		s.values[name] = values[idx]
	}
	return s
}

func (s *Scope) Bubbles() bool { return s.bubble }

// Insert defines or overwrites a binding in this frame.
func (s *Scope) Insert(name string, value Value) {
	s.values[name] = value
}

func (s *Scope) Get(name string) (Value, bool) {
	v, ok := s.values[name]
	return v, ok
}

// Keys returns the bindings in sorted order.
func (s *Scope) Keys() []string {
	keys := make([]string, 0, len(s.values))
	for k := range s.values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// ScopeStack holds the frames of one evaluation context.
type ScopeStack struct {
	frames []*Scope
}

func NewScopeStack() *ScopeStack {
	return &ScopeStack{}
}

func (st *ScopeStack) Push(frame *Scope) {
	st.frames = append(st.frames, frame)
}

// Pop removes the topmost frame. Popping an empty stack is a no-op.
func (st *ScopeStack) Pop() {
	if len(st.frames) == 0 {
		return
	}
	st.frames[len(st.frames)-1] = nil
	st.frames = st.frames[:len(st.frames)-1]
}

func (st *ScopeStack) Depth() int {
	return len(st.frames)
}

// Top returns the topmost frame, or nil when no frame is active.
func (st *ScopeStack) Top() *Scope {
	if len(st.frames) == 0 {
		return nil
	}
	return st.frames[len(st.frames)-1]
}

// Insert writes into the topmost frame. It reports false when the stack is
// empty.
func (st *ScopeStack) Insert(name string, value Value) bool {
	top := st.Top()
	if top == nil {
		return false
	}
	top.Insert(name, value)
	return true
}

// Lookup walks frames from the top. The frame where a name is found always
// answers; otherwise a non-bubbling frame ends the search.
func (st *ScopeStack) Lookup(name string) (Value, bool) {
	for idx := len(st.frames) - 1; idx >= 0; idx-- {
		frame := st.frames[idx]
		if v, ok := frame.values[name]; ok {
			return v, true
		}
		if !frame.bubble {
			return nil, false
		}
	}
	return nil, false
}
