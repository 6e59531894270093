package router

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSlugify(t *testing.T) {
	tests := []struct {
		input, want string
	}{
		{"Home", "home"},
		{"About Us", "about_us"},
		{"A B", "a_b"},
		{"A-B", "a_b"},
		{"FAQ & Help!!", "faq_help_"},
		{"  spaced  out ", "_spaced_out_"},
		{"v2.0 Release", "v2_0_release"},
		{"Über", "_ber"},
		{"", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Slugify(tt.input), "Slugify(%q)", tt.input)
	}
}

func TestResolveRoundTrip(t *testing.T) {
	sitemap := []string{"Home", "About Us", "Getting Started", "API v2"}
	for _, name := range sitemap {
		got, err := Resolve(Slugify(name), sitemap)
		require.NoError(t, err)
		assert.Equal(t, name, got)
	}
}

func TestResolveNotFound(t *testing.T) {
	sitemap := []string{"Home", "About Us"}

	_, err := Resolve("", sitemap)
	var nf *NotFoundError
	require.True(t, errors.As(err, &nf))
	assert.Empty(t, nf.Fragment)

	_, err = Resolve("missing", sitemap)
	require.True(t, errors.As(err, &nf))
	assert.Equal(t, "missing", nf.Fragment)

	_, err = Resolve("home", nil)
	require.Error(t, err)
}

func TestResolveIsIdempotent(t *testing.T) {
	sitemap := []string{"Home", "About Us"}
	first, err1 := Resolve("about_us", sitemap)
	second, err2 := Resolve("about_us", sitemap)
	assert.Equal(t, first, second)
	assert.Equal(t, err1, err2)
}

func TestResolveCollisionFirstMatchWins(t *testing.T) {
	sitemap := []string{"A B", "A-B"}
	got, err := Resolve("a_b", sitemap)
	require.NoError(t, err)
	assert.Equal(t, "A B", got)
}

func TestCurrentFragment(t *testing.T) {
	assert.Equal(t, "home", CurrentFragment("#home"))
	assert.Equal(t, "home", CurrentFragment("home"))
	assert.Equal(t, "", CurrentFragment("#"))
	assert.Equal(t, "", CurrentFragment(""))
	assert.Equal(t, "about_us", Href("About Us")[1:])
}

func TestReduceIgnoresFragmentsWhileLoading(t *testing.T) {
	s := Reduce(State{}, FragmentChanged{Raw: "#home"})
	assert.Equal(t, Loading, s.Phase)
	assert.Empty(t, s.Fragment)
}

func TestReduceLoadedOnce(t *testing.T) {
	s := Reduce(State{}, Loaded{Sitemap: []string{"Home"}})
	require.Equal(t, Ready, s.Phase)
	assert.True(t, s.NotFound)

	s = Reduce(s, FragmentChanged{Raw: "#home"})
	again := Reduce(s, Loaded{Sitemap: []string{"Other"}})
	assert.Equal(t, s, again)
}

func TestStoreDispatchNotifiesSubscribers(t *testing.T) {
	store := NewStore()
	var seen []State
	unsubscribe := store.Subscribe(func(s State) { seen = append(seen, s) })

	store.Dispatch(Loaded{Sitemap: []string{"Home", "About Us"}})
	store.Dispatch(FragmentChanged{Raw: "#about_us"})

	require.Len(t, seen, 2)
	assert.Equal(t, "About Us", seen[1].Page)
	assert.Equal(t, "About Us", store.GetState().Page)

	unsubscribe()
	store.Dispatch(FragmentChanged{Raw: "#home"})
	assert.Len(t, seen, 2)
	assert.Equal(t, "Home", store.GetState().Page)
}

func TestStoreListenerMayDispatch(t *testing.T) {
	store := NewStore()
	store.Subscribe(func(s State) {
		if s.Phase == Ready && s.NotFound && s.Fragment == "" {
			store.Dispatch(FragmentChanged{Raw: "#home"})
		}
	})
	store.Dispatch(Loaded{Sitemap: []string{"Home"}})
	assert.Equal(t, "Home", store.GetState().Page)
}

func newNavigator(raw string) (*Navigator, *MemoryLocation) {
	loc := NewMemoryLocation(raw)
	nav := NewNavigator(NewStore(), loc)
	loc.OnChange(nav.OnFragmentChange)
	return nav, loc
}

func TestNavigatorScenario(t *testing.T) {
	sitemap := []string{"Home", "About Us"}

	t.Run("absent fragment redirects to first page", func(t *testing.T) {
		nav, loc := newNavigator("")
		nav.Start(sitemap)
		assert.Equal(t, "#home", loc.Fragment())
		s := nav.Store().GetState()
		assert.Equal(t, "Home", s.Page)
		assert.False(t, s.NotFound)
	})

	t.Run("fragment resolves to page name", func(t *testing.T) {
		nav, loc := newNavigator("#about_us")
		nav.Start(sitemap)
		assert.Equal(t, "#about_us", loc.Fragment())
		assert.Equal(t, "About Us", nav.Store().GetState().Page)
	})

	t.Run("unknown fragment is not found", func(t *testing.T) {
		nav, loc := newNavigator("#missing")
		nav.Start(sitemap)
		assert.Equal(t, "#missing", loc.Fragment())
		s := nav.Store().GetState()
		assert.True(t, s.NotFound)
		assert.Empty(t, s.Page)
	})

	t.Run("later fragment writes navigate", func(t *testing.T) {
		nav, loc := newNavigator("")
		nav.Start(sitemap)
		loc.SetFragment("about_us")
		assert.Equal(t, "About Us", nav.Store().GetState().Page)
	})
}

func TestNavigatorEmptySitemap(t *testing.T) {
	nav, loc := newNavigator("")
	nav.Start(nil)
	assert.Empty(t, loc.Fragment())
	s := nav.Store().GetState()
	assert.Equal(t, Ready, s.Phase)
	assert.True(t, s.NotFound)
}

func TestNavigatorCollisionShadowsLaterEntry(t *testing.T) {
	nav, loc := newNavigator("")
	nav.Start([]string{"A B", "A-B"})
	assert.Equal(t, "#a_b", loc.Fragment())
	assert.Equal(t, "A B", nav.Store().GetState().Page)
}
