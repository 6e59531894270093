package router

import "sync"

// Location is the viewer's URL fragment. Writing the fragment is the only
// way to change page; the owner of the Location reports the resulting
// change back through Navigator.OnFragmentChange.
type Location interface {
	// Fragment returns the current raw fragment, possibly empty.
	Fragment() string
	// SetFragment replaces the fragment. slug carries no '#' marker.
	SetFragment(slug string)
}

// Navigator translates fragment changes of a Location into Store dispatches.
type Navigator struct {
	store *Store
	loc   Location
}

// NewNavigator binds loc to store.
func NewNavigator(store *Store, loc Location) *Navigator {
	return &Navigator{store: store, loc: loc}
}

// Store returns the bound store.
func (n *Navigator) Store() *Store { return n.store }

// Start moves the store to Ready with sitemap and syncs it with the
// location. With no fragment present it navigates to the first page.
func (n *Navigator) Start(sitemap []string) {
	n.store.Dispatch(Loaded{Sitemap: sitemap})

	raw := n.loc.Fragment()
	n.OnFragmentChange(raw)

	if CurrentFragment(raw) == "" && len(sitemap) > 0 {
		n.loc.SetFragment(Slugify(sitemap[0]))
	}
}

// OnFragmentChange is the fragment-change listener.
func (n *Navigator) OnFragmentChange(raw string) {
	n.store.Dispatch(FragmentChanged{Raw: raw})
}

// MemoryLocation is an in-process Location. Setting the fragment notifies
// the change handler synchronously, like a hashchange event.
type MemoryLocation struct {
	mu       sync.Mutex
	fragment string
	onChange func(raw string)
}

// NewMemoryLocation returns a location holding raw.
func NewMemoryLocation(raw string) *MemoryLocation {
	return &MemoryLocation{fragment: raw}
}

// OnChange registers the handler called after every SetFragment.
func (l *MemoryLocation) OnChange(fn func(raw string)) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.onChange = fn
}

func (l *MemoryLocation) Fragment() string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.fragment
}

func (l *MemoryLocation) SetFragment(slug string) {
	l.mu.Lock()
	l.fragment = "#" + slug
	raw, fn := l.fragment, l.onChange
	l.mu.Unlock()

	if fn != nil {
		fn(raw)
	}
}
