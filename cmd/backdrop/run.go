package main

import (
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/gogpu/backdrop"
	"github.com/gogpu/backdrop/host"
	"github.com/gogpu/backdrop/host/ebitenhost"
	"github.com/gogpu/backdrop/host/termhost"
)

func pageArg(args []string) string {
	if len(args) > 0 {
		return args[0]
	}
	return "home"
}

func newWindowCmd(root *rootOptions) *cobra.Command {
	var (
		width, height int
		cycle         time.Duration
		useGPU        bool
	)
	cmd := &cobra.Command{
		Use:   "window [page]",
		Short: "Show a page background in a desktop window",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			c, err := root.loadCatalog()
			if err != nil {
				return err
			}
			name := pageArg(args)
			opts, closeDevice := openDevice(useGPU)
			defer closeDevice()
			s := newSite(c, width, height, 1, append(opts, backdrop.WithShaderCompile())...)
			defer s.close()

			return ebitenhost.Run(s.page, ebitenhost.Config{
				Title:      "backdrop: " + name,
				Width:      width,
				Height:     height,
				Background: s.background(),
			}, func() error {
				return s.nav.Navigate(name)
			}, s.cycler(name, cycle))
		},
	}
	cmd.Flags().IntVar(&width, "width", 1280, "window width")
	cmd.Flags().IntVar(&height, "height", 720, "window height")
	cmd.Flags().DurationVar(&cycle, "cycle", 0, "switch to the next page with a background at this interval")
	cmd.Flags().BoolVar(&useGPU, "gpu", false, "draw particles on a GPU device when one is available")
	return cmd
}

func newTermCmd(root *rootOptions) *cobra.Command {
	var (
		hz    int
		cycle time.Duration
	)
	cmd := &cobra.Command{
		Use:   "term [page]",
		Short: "Show a page background in the terminal",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := root.loadCatalog()
			if err != nil {
				return err
			}
			name := pageArg(args)
			s := newSite(c, 1, 1, 1)
			defer s.close()

			term, err := termhost.New(s.page, termhost.Config{Background: s.background(), Hz: hz})
			if err != nil {
				return err
			}
			defer term.Close()
			if err := s.nav.Navigate(name); err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			err = term.Run(ctx, s.cycler(name, cycle))
			if ctx.Err() != nil {
				return nil
			}
			return err
		},
	}
	cmd.Flags().IntVar(&hz, "hz", 30, "frame rate")
	cmd.Flags().DurationVar(&cycle, "cycle", 0, "switch to the next page with a background at this interval")
	return cmd
}

func newHeadlessCmd(root *rootOptions) *cobra.Command {
	var (
		width, height int
		ratio         float64
		hz            int
		frames        uint64
		cycles        int
		useGPU        bool
	)
	cmd := &cobra.Command{
		Use:   "headless [page]",
		Short: "Run a page background without display and report frame timing",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := root.loadCatalog()
			if err != nil {
				return err
			}
			name := pageArg(args)
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			opts, closeDevice := openDevice(useGPU)
			defer closeDevice()

			for i := range max(cycles, 1) {
				s := newSite(c, width, height, ratio, opts...)
				if err := s.nav.Navigate(name); err != nil {
					_ = s.close()
					return err
				}
				inst := s.nav.Instance()
				start := time.Now()
				err := host.RunHeadless(ctx, s.page, host.HeadlessConfig{Hz: hz, Frames: frames})
				elapsed := time.Since(start)
				cerr := s.close()
				if err != nil && ctx.Err() == nil {
					return err
				}
				if cerr != nil {
					return cerr
				}
				if inst == nil {
					fmt.Fprintf(cmd.OutOrStdout(), "cycle %d: %s has no background\n", i+1, name)
					continue
				}
				fmt.Fprintf(cmd.OutOrStdout(), "cycle %d: %s rendered %d frames in %v, pending frames after unmount: %d\n",
					i+1, name, inst.Frames(), elapsed.Round(time.Millisecond), s.page.PendingFrames())
				if ctx.Err() != nil {
					break
				}
			}
			return nil
		},
	}
	f := cmd.Flags()
	f.IntVar(&width, "width", 1280, "viewport width")
	f.IntVar(&height, "height", 720, "viewport height")
	f.Float64Var(&ratio, "ratio", 1, "device pixel ratio")
	f.IntVar(&hz, "hz", 60, "frame rate")
	f.Uint64Var(&frames, "frames", 120, "frames per cycle (0 = until interrupted)")
	f.IntVar(&cycles, "cycles", 1, "mount/unmount cycles")
	f.BoolVar(&useGPU, "gpu", false, "draw particles on a GPU device when one is available")
	return cmd
}
