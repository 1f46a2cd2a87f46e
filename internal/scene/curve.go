package scene

import "sort"

// Key is a single keyframe on a curve.
type Key struct {
	Frame int     `yaml:"frame"`
	Value float64 `yaml:"value"`
}

// Curve is an animation curve driving one attribute of one node.
// Keys are kept sorted by frame with at most one key per frame.
type Curve struct {
	Node      NodeID
	Attribute string
	Keys      []Key
}

// ID returns the curve name, "<node>_<attribute>".
func (c *Curve) ID() CurveID {
	return CurveID(string(c.Node) + "_" + c.Attribute)
}

// Set inserts a key or replaces the value of an existing key at frame.
func (c *Curve) Set(frame int, value float64) {
	i := sort.Search(len(c.Keys), func(i int) bool { return c.Keys[i].Frame >= frame })
	if i < len(c.Keys) && c.Keys[i].Frame == frame {
		c.Keys[i].Value = value
		return
	}
	c.Keys = append(c.Keys, Key{})
	copy(c.Keys[i+1:], c.Keys[i:])
	c.Keys[i] = Key{Frame: frame, Value: value}
}

// Times returns the keyed frames in ascending order.
func (c *Curve) Times() []int {
	times := make([]int, len(c.Keys))
	for i, k := range c.Keys {
		times[i] = k.Frame
	}
	return times
}

// Evaluate returns the curve value at frame. Values are held before the
// first key and after the last one, and linearly interpolated in between.
func (c *Curve) Evaluate(frame int) float64 {
	if len(c.Keys) == 0 {
		return 0
	}

	first, last := c.Keys[0], c.Keys[len(c.Keys)-1]
	if frame <= first.Frame {
		return first.Value
	}
	if frame >= last.Frame {
		return last.Value
	}

	// Find surrounding keys
	i := sort.Search(len(c.Keys), func(i int) bool { return c.Keys[i].Frame > frame })
	prev, next := c.Keys[i-1], c.Keys[i]
	if prev.Frame == frame {
		return prev.Value
	}

	t := float64(frame-prev.Frame) / float64(next.Frame-prev.Frame)
	return lerp(prev.Value, next.Value, t)
}

// normalize sorts keys and collapses duplicate frames, last one wins.
func (c *Curve) normalize() {
	sort.SliceStable(c.Keys, func(i, j int) bool { return c.Keys[i].Frame < c.Keys[j].Frame })
	out := c.Keys[:0]
	for _, k := range c.Keys {
		if n := len(out); n > 0 && out[n-1].Frame == k.Frame {
			out[n-1] = k
			continue
		}
		out = append(out, k)
	}
	c.Keys = out
}

// lerp performs linear interpolation between a and b
func lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}
