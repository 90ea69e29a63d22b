// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package pages

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/pelletier/go-toml/v2"

	"github.com/gogpu/backdrop"
)

//go:embed pages.toml
var defaultCatalog []byte

// Errors returned by catalog operations.
var (
	// ErrUnknownPage is returned when no page has the requested name or path.
	ErrUnknownPage = errors.New("pages: unknown page")

	// ErrInvalidCatalog is returned when a catalog fails validation.
	ErrInvalidCatalog = errors.New("pages: invalid catalog")
)

// Page is one entry of the site catalog.
type Page struct {
	Name      string `toml:"name"`
	Path      string `toml:"path"`
	Title     string `toml:"title"`
	Container string `toml:"container"`
	Color1    string `toml:"color1"`
	Color2    string `toml:"color2"`
}

// HasScene reports whether the page carries a background.
func (p Page) HasScene() bool {
	return p.Container != ""
}

// Config returns the background configuration of the page.
// Missing colors fall back to the defaults.
func (p Page) Config() (backdrop.Config, error) {
	cfg := backdrop.DefaultConfig(p.Container)
	if p.Color1 != "" {
		c, err := backdrop.ParseColor(p.Color1)
		if err != nil {
			return backdrop.Config{}, fmt.Errorf("page %q color1: %w", p.Name, err)
		}
		cfg.Color1 = c
	}
	if p.Color2 != "" {
		c, err := backdrop.ParseColor(p.Color2)
		if err != nil {
			return backdrop.Config{}, fmt.Errorf("page %q color2: %w", p.Name, err)
		}
		cfg.Color2 = c
	}
	return cfg, nil
}

// Catalog is the list of site pages.
type Catalog struct {
	Background string `toml:"background"`
	Pages      []Page `toml:"page"`
}

// Parse decodes and validates a TOML catalog.
func Parse(data []byte) (*Catalog, error) {
	var c Catalog
	dec := toml.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&c); err != nil {
		return nil, fmt.Errorf("pages: decode catalog: %w", err)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

// LoadFile reads and parses a catalog file.
func LoadFile(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("pages: %w", err)
	}
	return Parse(data)
}

var loadDefault = sync.OnceValues(func() (*Catalog, error) {
	return Parse(defaultCatalog)
})

// Default returns the built-in site catalog.
func Default() *Catalog {
	c, err := loadDefault()
	if err != nil {
		panic(err) // embedded catalog is validated by tests
	}
	return c
}

// Validate checks that names, paths and containers are unique and that
// every color parses.
func (c *Catalog) Validate() error {
	var errs []error
	if c.Background != "" {
		if _, err := backdrop.ParseColor(c.Background); err != nil {
			errs = append(errs, fmt.Errorf("background: %w", err))
		}
	}
	names := make(map[string]bool, len(c.Pages))
	paths := make(map[string]bool, len(c.Pages))
	containers := make(map[string]bool, len(c.Pages))
	for i, p := range c.Pages {
		if p.Name == "" {
			errs = append(errs, fmt.Errorf("page %d: missing name", i))
			continue
		}
		if names[p.Name] {
			errs = append(errs, fmt.Errorf("page %q: duplicate name", p.Name))
		}
		names[p.Name] = true
		if p.Path != "" {
			if paths[p.Path] {
				errs = append(errs, fmt.Errorf("page %q: duplicate path %q", p.Name, p.Path))
			}
			paths[p.Path] = true
		}
		if p.HasScene() {
			if containers[p.Container] {
				errs = append(errs, fmt.Errorf("page %q: duplicate container %q", p.Name, p.Container))
			}
			containers[p.Container] = true
			if _, err := p.Config(); err != nil {
				errs = append(errs, err)
			}
		} else if p.Color1 != "" || p.Color2 != "" {
			errs = append(errs, fmt.Errorf("page %q: colors without a container", p.Name))
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", ErrInvalidCatalog, errors.Join(errs...))
	}
	return nil
}

// Lookup returns the page with the given name or path.
func (c *Catalog) Lookup(key string) (Page, error) {
	key = strings.TrimSpace(key)
	for _, p := range c.Pages {
		if p.Name == key || (p.Path != "" && p.Path == key) {
			return p, nil
		}
	}
	return Page{}, fmt.Errorf("%w: %q", ErrUnknownPage, key)
}

// Names returns page names in catalog order.
func (c *Catalog) Names() []string {
	names := make([]string, len(c.Pages))
	for i, p := range c.Pages {
		names[i] = p.Name
	}
	return names
}

// BackgroundColor returns the site background color, or
// backdrop.SiteBackground if the catalog does not set one.
func (c *Catalog) BackgroundColor() backdrop.Color {
	if c.Background == "" {
		return backdrop.SiteBackground
	}
	col, err := backdrop.ParseColor(c.Background)
	if err != nil {
		return backdrop.SiteBackground
	}
	return col
}
