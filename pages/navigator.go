// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package pages

import (
	"github.com/gogpu/backdrop"
	"github.com/gogpu/backdrop/host"
)

// LayoutFunc swaps page content when the visitor navigates. It runs before
// the new page's background is mounted, so the new container exists by the
// time Mount looks it up. from is the zero Page on the first navigation.
type LayoutFunc func(from, to Page)

// NavigatorOption configures a Navigator.
type NavigatorOption func(*Navigator)

// WithLayout sets the function that swaps page content on navigation.
func WithLayout(fn LayoutFunc) NavigatorOption {
	return func(n *Navigator) {
		n.layout = fn
	}
}

// WithMountOptions sets the options passed to every backdrop.Mount.
func WithMountOptions(opts ...backdrop.Option) NavigatorOption {
	return func(n *Navigator) {
		n.mountOpts = opts
	}
}

// Navigator moves a single-page site between catalog pages, mounting the
// background of each page that has one and tearing down the previous
// background. The page itself never reloads.
type Navigator struct {
	catalog   *Catalog
	layout    LayoutFunc
	mountOpts []backdrop.Option
	binding   *backdrop.Binding
	current   Page
	visited   bool
}

// NewNavigator creates a navigator over catalog, rendering into env.
func NewNavigator(env host.Environment, catalog *Catalog, opts ...NavigatorOption) *Navigator {
	n := &Navigator{catalog: catalog}
	for _, opt := range opts {
		opt(n)
	}
	n.binding = backdrop.NewBinding(env, n.mountOpts...)
	return n
}

// Navigate shows the page with the given name or path.
//
// Navigating to the current page is a no-op. Pages without a container
// leave the site without a background.
func (n *Navigator) Navigate(key string) error {
	to, err := n.catalog.Lookup(key)
	if err != nil {
		return err
	}
	if n.visited && to.Name == n.current.Name {
		return nil
	}

	from := n.current
	if n.layout != nil {
		n.layout(from, to)
	}
	n.current, n.visited = to, true

	if !to.HasScene() {
		return n.binding.Close()
	}
	cfg, err := to.Config()
	if err != nil {
		_ = n.binding.Close()
		return err
	}
	return n.binding.Apply(cfg)
}

// Current returns the current page and whether any page was shown yet.
func (n *Navigator) Current() (Page, bool) {
	return n.current, n.visited
}

// Instance returns the mounted background, or nil if the current page has
// none.
func (n *Navigator) Instance() *backdrop.Instance {
	return n.binding.Instance()
}

// Close tears down the current background.
func (n *Navigator) Close() error {
	return n.binding.Close()
}
