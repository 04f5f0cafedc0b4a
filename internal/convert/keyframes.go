package convert

import (
	"github.com/go-gl/mathgl/mgl32"

	"wobj-converter/internal/scene"
	"wobj-converter/internal/wobj"
)

// keyTolerance is the absolute per-component tolerance under which a key is
// considered reproducible by interpolation and elided.
const keyTolerance = 1e-5

// buildAnimations reduces every channel's key arrays and resolves channel
// targets against the flattened node table. Channels referencing unknown
// nodes are dropped silently: imports may have pruned the nodes they target.
func (c *conversion) buildAnimations(nodeIndex map[string]int) []wobj.Animation {
	out := make([]wobj.Animation, 0, len(c.scene.Animations))
	for _, a := range c.scene.Animations {
		anim := wobj.Animation{Name: a.Name, Duration: a.Duration}
		for _, ch := range a.Channels {
			idx, ok := nodeIndex[ch.Node]
			if !ok {
				c.logger.Debug("dropping channel", "animation", a.Name, "node", ch.Node)
				continue
			}
			wc := wobj.Channel{
				Node:      int16(idx),
				Positions: reduceVectorKeys(ch.Positions),
				Rotations: reduceQuatKeys(ch.Rotations),
			}
			if c.opts.NoScale {
				wc.Scales = identityScaleTrack(a.Duration)
			} else {
				wc.Scales = reduceVectorKeys(ch.Scales)
			}
			anim.Channels = append(anim.Channels, wc)
		}
		c.logger.Debug("animation", "name", a.Name, "channels", len(anim.Channels))
		out = append(out, anim)
	}
	return out
}

// reduceVectorKeys elides interior keys that linear interpolation between
// the previous retained key and the next raw key reproduces within
// tolerance. The first key is always retained; the last is dropped only
// when it matches the previous retained key directly.
func reduceVectorKeys(keys []scene.VectorKey) []wobj.VectorKey {
	out := make([]wobj.VectorKey, 0, len(keys))
	var prev scene.VectorKey
	for i, k := range keys {
		retain := true
		switch {
		case i == 0:
		case i < len(keys)-1:
			next := keys[i+1]
			if dt := next.Time - prev.Time; dt > 0 {
				t := (k.Time - prev.Time) / dt
				est := prev.Value.Add(next.Value.Sub(prev.Value).Mul(t))
				retain = !vec3Fuzzy(est, k.Value, keyTolerance)
			}
		default:
			retain = !vec3Fuzzy(prev.Value, k.Value, keyTolerance)
		}
		if retain {
			prev = k
			out = append(out, wobj.VectorKey{Time: k.Time, Value: [3]float32(k.Value)})
		}
	}
	return out
}

// reduceQuatKeys is the quaternion variant: spherical interpolation for the
// prediction, per-component comparison of the quaternion terms.
func reduceQuatKeys(keys []scene.QuatKey) []wobj.QuatKey {
	out := make([]wobj.QuatKey, 0, len(keys))
	var prev scene.QuatKey
	for i, k := range keys {
		retain := true
		switch {
		case i == 0:
		case i < len(keys)-1:
			next := keys[i+1]
			if dt := next.Time - prev.Time; dt > 0 {
				t := (k.Time - prev.Time) / dt
				est := slerp(prev.Value, next.Value, t)
				retain = !quatFuzzy(est, k.Value, keyTolerance)
			}
		default:
			retain = !quatFuzzy(prev.Value, k.Value, keyTolerance)
		}
		if retain {
			prev = k
			out = append(out, wobj.QuatKey{
				Time: k.Time,
				W:    k.Value.W,
				X:    k.Value.V[0],
				Y:    k.Value.V[1],
				Z:    k.Value.V[2],
			})
		}
	}
	return out
}

// identityScaleTrack is the canonical constant track emitted under the
// no-scale option: identity scale at t=0 and at the clip's end.
func identityScaleTrack(duration float32) []wobj.VectorKey {
	return []wobj.VectorKey{
		{Time: 0, Value: [3]float32{1, 1, 1}},
		{Time: duration, Value: [3]float32{1, 1, 1}},
	}
}

// slerp interpolates along the shorter arc.
func slerp(a, b mgl32.Quat, t float32) mgl32.Quat {
	if a.Dot(b) < 0 {
		b = mgl32.Quat{W: -b.W, V: b.V.Mul(-1)}
	}
	return mgl32.QuatSlerp(a, b, t)
}

func vec3Fuzzy(a, b mgl32.Vec3, d float32) bool {
	return abs(a[0]-b[0]) < d && abs(a[1]-b[1]) < d && abs(a[2]-b[2]) < d
}

func quatFuzzy(a, b mgl32.Quat, d float32) bool {
	return abs(a.W-b.W) < d && abs(a.V[0]-b.V[0]) < d &&
		abs(a.V[1]-b.V[1]) < d && abs(a.V[2]-b.V[2]) < d
}

func abs(v float32) float32 {
	if v < 0 {
		return -v
	}
	return v
}
