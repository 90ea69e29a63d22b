package main

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"math/rand/v2"
	"os"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/gogpu/backdrop"
	"github.com/gogpu/backdrop/host"
	"github.com/gogpu/backdrop/pages"
)

type snapshotOptions struct {
	out       string
	width     int
	height    int
	ratio     float64
	frames    int
	hz        int
	seed      uint64
	particles int
	pointer   []float64
	caption   bool
	gpu       bool
}

func newSnapshotCmd(root *rootOptions) *cobra.Command {
	o := &snapshotOptions{}
	cmd := &cobra.Command{
		Use:   "snapshot [page]",
		Short: "Render a page background to a PNG file",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := root.loadCatalog()
			if err != nil {
				return err
			}
			name := "home"
			if len(args) > 0 {
				name = args[0]
			}
			img, err := renderSnapshot(c, name, o)
			if err != nil {
				return err
			}
			if err := writePNG(o.out, img); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s (%dx%d)\n", o.out, img.Bounds().Dx(), img.Bounds().Dy())
			return nil
		},
	}
	f := cmd.Flags()
	f.StringVarP(&o.out, "out", "o", "backdrop.png", "output file")
	f.IntVar(&o.width, "width", 1280, "viewport width in CSS pixels")
	f.IntVar(&o.height, "height", 720, "viewport height in CSS pixels")
	f.Float64Var(&o.ratio, "ratio", 1, "device pixel ratio")
	f.IntVar(&o.frames, "frames", 60, "frames to run before capturing")
	f.IntVar(&o.hz, "hz", 60, "frame rate used to advance time")
	f.Uint64Var(&o.seed, "seed", 0, "random seed (0 = random)")
	f.IntVar(&o.particles, "particles", 0, "particle count (0 = default)")
	f.Float64SliceVar(&o.pointer, "pointer", nil, "pointer position x,y in CSS pixels")
	f.BoolVar(&o.caption, "caption", false, "draw the page title")
	f.BoolVar(&o.gpu, "gpu", false, "draw particles on a GPU device when one is available")
	return cmd
}

// renderSnapshot runs the named page for o.frames frames and returns the
// composed screen at device resolution.
func renderSnapshot(c *pages.Catalog, name string, o *snapshotOptions) (*image.RGBA, error) {
	if o.width <= 0 || o.height <= 0 {
		return nil, fmt.Errorf("invalid size %dx%d", o.width, o.height)
	}
	if len(o.pointer) != 0 && len(o.pointer) != 2 {
		return nil, errors.New("--pointer needs exactly two values")
	}
	hz := o.hz
	if hz <= 0 {
		hz = 60
	}

	var mountOpts []backdrop.Option
	if o.seed != 0 {
		mountOpts = append(mountOpts, backdrop.WithRand(rand.New(rand.NewPCG(o.seed, o.seed))))
	}
	if o.particles > 0 {
		mountOpts = append(mountOpts, backdrop.WithParticleCount(o.particles))
	}

	deviceOpts, closeDevice := openDevice(o.gpu)
	defer closeDevice()
	mountOpts = append(mountOpts, deviceOpts...)

	s := newSite(c, o.width, o.height, o.ratio, mountOpts...)
	defer s.close()
	if err := s.nav.Navigate(name); err != nil {
		return nil, err
	}
	if len(o.pointer) == 2 {
		host.Step(s.page, 1, time.Second/time.Duration(hz))
		s.page.MovePointer(o.pointer[0], o.pointer[1])
	}
	host.Step(s.page, o.frames, time.Second/time.Duration(hz))

	w := max(int(float64(o.width)*max(o.ratio, 1)), 1)
	h := max(int(float64(o.height)*max(o.ratio, 1)), 1)
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	s.page.Compose(img, s.background())

	if o.caption {
		page, _ := s.nav.Current()
		drawCaption(img, page.Title)
	}
	return img, nil
}

func drawCaption(img *image.RGBA, text string) {
	face := basicfont.Face7x13
	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(color.White),
		Face: face,
	}
	width := d.MeasureString(text)
	b := img.Bounds()
	d.Dot = fixed.Point26_6{
		X: (fixed.I(b.Dx()) - width) / 2,
		Y: fixed.I(b.Dy() / 2),
	}
	d.DrawString(text)
}

func writePNG(path string, img image.Image) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()
	return png.Encode(f, img)
}
