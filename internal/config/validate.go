package config

import (
	"errors"
	"fmt"

	"go.uber.org/multierr"
	"go.uber.org/zap/zapcore"

	"github.com/Faultbox/brushc/pkg/collider"
)

// ErrInvalid is wrapped by every validation error.
var ErrInvalid = errors.New("invalid config")

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: "+format, append([]any{ErrInvalid}, args...)...)
}

// Validate reports every problem in the config at once.
func (c *Config) Validate() error {
	var err error

	cc := c.Compile
	if cc.Scale <= 0 {
		err = multierr.Append(err, invalid("compile.scale must be positive, got %v", cc.Scale))
	}
	if cc.TexelScale < 0 {
		err = multierr.Append(err, invalid("compile.texel_scale must not be negative"))
	}
	if cc.SmoothDelta < 0 {
		err = multierr.Append(err, invalid("compile.smooth_delta must not be negative"))
	}
	if cc.WeldDelta < 0 || cc.SnapDistance < 0 {
		err = multierr.Append(err, invalid("compile weld and snap distances must not be negative"))
	}
	if cc.Workers < 0 || cc.ChunkSize < 0 {
		err = multierr.Append(err, invalid("compile.workers and compile.chunk_size must not be negative"))
	}
	switch cc.AxisRemap {
	case "", "none", "quake":
	default:
		err = multierr.Append(err, invalid("compile.axis_remap %q is not none or quake", cc.AxisRemap))
	}

	cu := c.Cull
	switch cu.Scope {
	case "entity", "level":
	default:
		err = multierr.Append(err, invalid("cull.scope %q is not entity or level", cu.Scope))
	}
	if cu.PlaneDistance < 0 || cu.Nudge < 0 {
		err = multierr.Append(err, invalid("cull.plane_distance and cull.nudge must not be negative"))
	}
	if cu.AntiParallel < -1 || cu.AntiParallel >= 0 {
		err = multierr.Append(err, invalid("cull.anti_parallel must be in [-1, 0), got %v", cu.AntiParallel))
	}

	if _, perr := collider.ParsePolicy(c.Collision.Policy); perr != nil {
		err = multierr.Append(err, fmt.Errorf("%w: collision.policy: %w", ErrInvalid, perr))
	}

	a := c.Assets
	if a.FallbackWidth <= 0 || a.FallbackHeight <= 0 {
		err = multierr.Append(err, invalid("assets fallback size must be positive, got %dx%d", a.FallbackWidth, a.FallbackHeight))
	}
	for name, h := range a.Hotspots {
		if h.Width <= 0 || h.Height <= 0 || len(h.Cells) == 0 {
			err = multierr.Append(err, invalid("assets.hotspots[%s] needs a size and at least one cell", name))
		}
	}

	if _, lerr := zapcore.ParseLevel(c.Logging.Level); lerr != nil {
		err = multierr.Append(err, invalid("logging.level %q", c.Logging.Level))
	}
	return err
}
