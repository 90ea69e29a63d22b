// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

//go:build !cgo

package ebitenhost

import (
	"errors"

	"github.com/gogpu/backdrop/host"
)

// ErrNoWindow is returned by Run in builds without cgo.
var ErrNoWindow = errors.New("ebitenhost: window mode requires cgo (build with CGO_ENABLED=1)")

// Run reports ErrNoWindow.
func Run(_ *host.Page, _ Config, _ func() error, _ func() error) error {
	return ErrNoWindow
}
