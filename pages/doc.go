// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package pages holds the site's page catalog and navigates between pages.
//
// The catalog is a TOML document listing every page with its route and, for
// pages that carry a particle background, the container id and gradient
// colors. The built-in catalog is embedded; LoadFile reads a replacement.
//
// A Navigator plays the role of the client-side router: each navigation
// swaps page content through a LayoutFunc and keeps exactly one background
// mounted for the page being shown.
package pages
