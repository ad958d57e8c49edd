package gesture

import (
	"image"
	"math"
	"time"

	"github.com/charmbracelet/harmonica"
)

// velocityWindow is how far back release velocity is sampled.
const velocityWindow = 100 * time.Millisecond

type sample struct {
	p image.Point
	t time.Time
}

// flight is a running fling. The token identifies it to the host's
// ticker; a stale token stops the ticker.
type flight struct {
	token uint64
	proj  *harmonica.Projectile
	start image.Point
	step  int
	steps int
}

func (c *Controller) addSample(p image.Point, t time.Time) {
	c.samples = append(c.samples, sample{p: p, t: t})
	if n := len(c.samples); n > 16 {
		c.samples = append(c.samples[:0], c.samples[n-16:]...)
	}
}

// velocity is the pointer velocity in units per second over the samples
// taken within velocityWindow of the last one.
func (c *Controller) velocity() (vx, vy float64) {
	n := len(c.samples)
	if n < 2 {
		return 0, 0
	}
	last := c.samples[n-1]
	first := last
	for i := n - 2; i >= 0; i-- {
		if last.t.Sub(c.samples[i].t) > velocityWindow {
			break
		}
		first = c.samples[i]
	}
	dt := last.t.Sub(first.t).Seconds()
	if dt <= 0 {
		return 0, 0
	}
	d := last.p.Sub(first.p)
	return float64(d.X) / dt, float64(d.Y) / dt
}

// Fling returns the token of the running fling.
func (c *Controller) Fling() (token uint64, ok bool) {
	if c.state != Flinging {
		return 0, false
	}
	return c.fling.token, true
}

// FlingInterval is how often the host should call FlingStep.
func (c *Controller) FlingInterval() time.Duration {
	return time.Second / time.Duration(c.tune.FPS)
}

// startFling turns the release velocity into a decelerating trajectory
// when the content is large enough to fling through.
func (c *Controller) startFling() {
	view, actual := c.host.Viewport(), c.host.Snapshot().ActualSize()
	rate := c.tune.EnableFlingRate
	fitsX := float64(actual.X) <= float64(view.X)*rate
	fitsY := float64(actual.Y) <= float64(view.Y)*rate
	if fitsX && fitsY {
		return
	}
	vx, vy := c.velocity()
	if math.Abs(vx) <= c.tune.MinFlingVelocity && math.Abs(vy) <= c.tune.MinFlingVelocity {
		return
	}
	if !c.tune.FlingXY {
		if math.Abs(vx) > math.Abs(vy) {
			if fitsX {
				return
			}
			vy = 0
		} else {
			if fitsY {
				return
			}
			vx = 0
		}
	}
	vx *= c.tune.FlingRate
	vy *= c.tune.FlingRate

	speed := math.Hypot(vx, vy)
	secs := min(c.tune.MaxFlingDuration.Seconds(), speed/c.tune.Deceleration)
	steps := int(math.Ceil(secs * float64(c.tune.FPS)))
	if steps <= 0 {
		return
	}
	c.fling = flight{
		token: c.fling.token + 1,
		proj: harmonica.NewProjectile(
			harmonica.FPS(c.tune.FPS),
			harmonica.Point{},
			harmonica.Vector{X: vx, Y: vy},
			harmonica.Vector{X: -vx / secs, Y: -vy / secs},
		),
		start: c.scroll,
		steps: steps,
	}
	c.state = Flinging
	c.log.Debug("gesture: fling", "vx", vx, "vy", vy, "steps", steps, "token", c.fling.token)
}

// FlingStep advances the fling identified by token by one frame. It
// reports whether the host should keep ticking. The fling ends at its
// last frame, or once the offset rests at the origin or at the far end
// on both axes.
func (c *Controller) FlingStep(token uint64) bool {
	if c.state != Flinging || token != c.fling.token {
		return false
	}
	defer c.flush()
	pos := c.fling.proj.Update()
	c.fling.step++
	c.setScroll(c.fling.start.Sub(image.Pt(int(math.Round(pos.X)), int(math.Round(pos.Y)))))

	if c.scroll == (image.Point{}) || c.scroll == c.maxScroll() || c.fling.step >= c.fling.steps {
		c.stopFling()
		return false
	}
	return true
}

func (c *Controller) stopFling() {
	if c.state != Flinging {
		return
	}
	c.fling.proj = nil
	c.fling.token++
	c.state = Idle
}
