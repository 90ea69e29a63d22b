//go:build js && wasm

// Command backdrop-wasm exposes particle backgrounds to page scripts.
//
// It registers these globals:
//
//	backdropMount(containerId, color1?, color2?) -> handle | null
//	backdropUnmount(handle)
//	backdropNavigate(pageNameOrPath) -> error message | null
//	backdropSetLogLevel("debug" | "info" | "warn" | "error")
package main

import (
	"log/slog"
	"os"
	"syscall/js"

	"github.com/gogpu/backdrop"
	"github.com/gogpu/backdrop/host/domhost"
	"github.com/gogpu/backdrop/pages"
)

type app struct {
	doc       *domhost.Document
	nav       *pages.Navigator
	instances map[int]*backdrop.Instance
	next      int
}

func main() {
	a := &app{
		doc:       domhost.New(),
		instances: make(map[int]*backdrop.Instance),
	}
	a.nav = pages.NewNavigator(a.doc, pages.Default())

	js.Global().Set("backdropMount", js.FuncOf(a.mount))
	js.Global().Set("backdropUnmount", js.FuncOf(a.unmount))
	js.Global().Set("backdropNavigate", js.FuncOf(a.navigate))
	js.Global().Set("backdropSetLogLevel", js.FuncOf(setLogLevel))

	select {}
}

func (a *app) mount(_ js.Value, args []js.Value) any {
	if len(args) == 0 || args[0].Type() != js.TypeString {
		return js.Null()
	}
	cfg := backdrop.DefaultConfig(args[0].String())
	for i, dst := range []*backdrop.Color{&cfg.Color1, &cfg.Color2} {
		if len(args) <= i+1 || args[i+1].Type() != js.TypeString {
			continue
		}
		c, err := backdrop.ParseColor(args[i+1].String())
		if err != nil {
			backdrop.Logger().Warn("backdrop-wasm: ignoring color", "value", args[i+1].String(), "error", err)
			continue
		}
		*dst = c
	}

	inst := backdrop.Mount(a.doc, cfg)
	if inst.State() != backdrop.Running {
		return js.Null()
	}
	a.next++
	a.instances[a.next] = inst
	return a.next
}

func (a *app) unmount(_ js.Value, args []js.Value) any {
	if len(args) == 0 || args[0].Type() != js.TypeNumber {
		return nil
	}
	h := args[0].Int()
	inst, ok := a.instances[h]
	if !ok {
		return nil
	}
	delete(a.instances, h)
	if err := inst.Close(); err != nil {
		backdrop.Logger().Warn("backdrop-wasm: unmount", "error", err)
	}
	return nil
}

func (a *app) navigate(_ js.Value, args []js.Value) any {
	if len(args) == 0 || args[0].Type() != js.TypeString {
		return "missing page"
	}
	if err := a.nav.Navigate(args[0].String()); err != nil {
		return err.Error()
	}
	return js.Null()
}

func setLogLevel(_ js.Value, args []js.Value) any {
	var level slog.Level
	if len(args) == 0 || level.UnmarshalText([]byte(args[0].String())) != nil {
		return nil
	}
	l := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	backdrop.SetLogger(l)
	return nil
}
