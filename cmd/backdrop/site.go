package main

import (
	"image/color"
	"time"

	"github.com/gogpu/backdrop"
	"github.com/gogpu/backdrop/host"
	"github.com/gogpu/backdrop/pages"
)

// site is an in-memory page whose content follows a Navigator: only the
// current page's container exists and it fills the viewport.
type site struct {
	page    *host.Page
	nav     *pages.Navigator
	catalog *pages.Catalog
}

func newSite(c *pages.Catalog, width, height int, ratio float64, opts ...backdrop.Option) *site {
	p := host.NewPage(width, height, ratio)
	layout := func(from, to pages.Page) {
		if from.HasScene() {
			p.RemoveElement(from.Container)
		}
		if to.HasScene() {
			w, h := p.InnerSize()
			p.AddElement(to.Container, w, h)
		}
	}
	return &site{
		page:    p,
		catalog: c,
		nav: pages.NewNavigator(p, c,
			pages.WithLayout(layout),
			pages.WithMountOptions(opts...)),
	}
}

func (s *site) background() color.Color {
	r, g, b := s.catalog.BackgroundColor().RGB255()
	return color.RGBA{R: r, G: g, B: b, A: 0xFF}
}

func (s *site) close() error {
	return s.nav.Close()
}

// scenePages returns the names of pages that carry a background.
func scenePages(c *pages.Catalog) []string {
	var names []string
	for _, p := range c.Pages {
		if p.HasScene() {
			names = append(names, p.Name)
		}
	}
	return names
}

// cycler returns a step function that navigates to the next page with a
// background every interval, starting after start. A zero interval
// returns nil.
func (s *site) cycler(start string, interval time.Duration) func() error {
	if interval <= 0 {
		return nil
	}
	names := scenePages(s.catalog)
	if len(names) == 0 {
		return nil
	}
	idx := 0
	for i, n := range names {
		if n == start {
			idx = i
		}
	}
	next := time.Now().Add(interval)
	return func() error {
		if time.Now().Before(next) {
			return nil
		}
		next = next.Add(interval)
		idx = (idx + 1) % len(names)
		return s.nav.Navigate(names[idx])
	}
}
