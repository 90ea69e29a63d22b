package backdrop

import "time"

// Interaction constants.
const (
	// EaseDuration is how long the cloud takes to settle on a new pointer
	// target.
	EaseDuration = 2 * time.Second

	// PointerInfluence scales normalized pointer coordinates to radians.
	PointerInfluence = 0.5

	// SpinX and SpinY are the automatic rotation added every frame, in
	// radians.
	SpinX = 0.0005
	SpinY = 0.0007
)

// Offset is a rotation about the X and Y axes, in radians.
type Offset struct {
	X, Y float32
}

// Add returns o + p.
func (o Offset) Add(p Offset) Offset {
	return Offset{X: o.X + p.X, Y: o.Y + p.Y}
}

// NormalizePointer maps a client position to [-1, 1] on both axes with +Y
// up: the viewport center is (0, 0) and the top-left corner is (-1, 1).
// A degenerate viewport maps everything to the center.
func NormalizePointer(clientX, clientY float64, innerWidth, innerHeight int) (x, y float32) {
	if innerWidth <= 0 || innerHeight <= 0 {
		return 0, 0
	}
	x = float32(clientX/float64(innerWidth)*2 - 1)
	y = float32(-(clientY/float64(innerHeight))*2 + 1)
	return x, y
}

// PointerTarget returns the rotation the cloud eases toward for a pointer at
// normalized coordinates (x, y). Vertical pointer motion tilts about X,
// horizontal motion turns about Y.
func PointerTarget(x, y float32) Offset {
	return Offset{X: y * PointerInfluence, Y: x * PointerInfluence}
}

// EaseOutQuad is the power2.out curve: fast start, gentle landing.
func EaseOutQuad(p float32) float32 {
	p = min(max(p, 0), 1)
	q := 1 - p
	return 1 - q*q
}

// Tween eases an Offset toward a target over EaseDuration.
// Retargeting starts from the current value, so motion never jumps.
//
// The zero value rests at (0, 0).
type Tween struct {
	from    Offset
	to      Offset
	current Offset
	start   time.Duration
	active  bool
}

// Retarget starts easing from the current value toward target at time now.
func (t *Tween) Retarget(target Offset, now time.Duration) {
	t.from = t.current
	t.to = target
	t.start = now
	t.active = true
}

// Anchor restarts the clock of a moving tween at now, keeping its start
// value and target. It is for tweens retargeted before the caller knew the
// current time.
func (t *Tween) Anchor(now time.Duration) {
	if t.active {
		t.start = now
	}
}

// Advance moves the tween to time now and returns the current value.
// Times before the last Retarget hold the starting value.
func (t *Tween) Advance(now time.Duration) Offset {
	if !t.active {
		return t.current
	}
	p := float32(now-t.start) / float32(EaseDuration)
	if p >= 1 {
		t.current = t.to
		t.active = false
		return t.current
	}
	e := EaseOutQuad(p)
	t.current = Offset{
		X: t.from.X + (t.to.X-t.from.X)*e,
		Y: t.from.Y + (t.to.Y-t.from.Y)*e,
	}
	return t.current
}

// Value returns the value at the last Advance.
func (t *Tween) Value() Offset {
	return t.current
}

// Target returns the value the tween is heading to.
func (t *Tween) Target() Offset {
	if !t.active {
		return t.current
	}
	return t.to
}

// Active reports whether the tween is still moving.
func (t *Tween) Active() bool {
	return t.active
}
