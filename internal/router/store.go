package router

import (
	"slices"
	"sync"
)

// Phase is the coarse lifecycle of a viewer.
type Phase int

const (
	// Loading lasts until the whole site has been loaded.
	Loading Phase = iota
	// Ready is entered once and never left.
	Ready
)

func (p Phase) String() string {
	if p == Ready {
		return "ready"
	}
	return "loading"
}

// State is the navigation state of one viewer.
type State struct {
	Phase    Phase
	Sitemap  []string
	Fragment string
	// Page is the resolved sitemap entry. It is empty when NotFound is set.
	Page     string
	NotFound bool
}

// Event is dispatched to a Store.
type Event interface {
	isEvent()
}

// Loaded moves a Store from Loading to Ready.
type Loaded struct {
	Sitemap []string
}

// FragmentChanged carries a raw fragment as reported by the location,
// with or without its leading '#'.
type FragmentChanged struct {
	Raw string
}

func (Loaded) isEvent()          {}
func (FragmentChanged) isEvent() {}

// Reduce returns the state that follows s after e.
func Reduce(s State, e Event) State {
	switch ev := e.(type) {
	case Loaded:
		if s.Phase == Ready {
			return s
		}
		return navigate(State{Phase: Ready, Sitemap: slices.Clone(ev.Sitemap)}, "")
	case FragmentChanged:
		if s.Phase != Ready {
			return s
		}
		return navigate(s, CurrentFragment(ev.Raw))
	}
	return s
}

func navigate(s State, fragment string) State {
	s.Fragment = fragment
	page, err := Resolve(fragment, s.Sitemap)
	if err != nil {
		s.Page = ""
		s.NotFound = true
		return s
	}
	s.Page = page
	s.NotFound = false
	return s
}

// Listener observes state changes.
type Listener func(State)

// Store holds a State and notifies listeners after every dispatch.
type Store struct {
	mu        sync.Mutex
	state     State
	nextID    int
	listeners []subscription
}

type subscription struct {
	id int
	fn Listener
}

// NewStore returns a Store in the Loading phase.
func NewStore() *Store {
	return &Store{}
}

// GetState returns a snapshot of the current state.
func (s *Store) GetState() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Subscribe registers fn and returns a function that removes it.
func (s *Store) Subscribe(fn Listener) func() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	id := s.nextID
	s.listeners = append(s.listeners, subscription{id: id, fn: fn})
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		s.listeners = slices.DeleteFunc(s.listeners, func(sub subscription) bool { return sub.id == id })
	}
}

// Dispatch applies e and calls every listener with the resulting state.
// Listeners run on the dispatching goroutine, outside the lock.
func (s *Store) Dispatch(e Event) {
	s.mu.Lock()
	s.state = Reduce(s.state, e)
	state := s.state
	listeners := slices.Clone(s.listeners)
	s.mu.Unlock()

	for _, l := range listeners {
		l.fn(state)
	}
}
