// Package scene defines the host services the composite camera tool talks to
// and provides an in-memory scene graph that implements them.
package scene

// NodeID names a node in the host scene graph.
type NodeID string

// CurveID names an animation curve driving one attribute of a node.
type CurveID string

// Query lists scene objects.
type Query interface {
	// ListCameras returns camera shape nodes. Startup cameras (persp, top,
	// front, side) are skipped when excludeDefault is set.
	ListCameras(excludeDefault bool) ([]NodeID, error)
	// TransformParent returns the transform node that owns a shape.
	TransformParent(node NodeID) (NodeID, error)
}

// Animation reads and writes keyframed attributes.
type Animation interface {
	CurvesDriving(node NodeID) ([]CurveID, error)
	KeyedTimes(curve CurveID) ([]int, error)
	GetAttribute(node NodeID, attr string, frame int) (float64, error)
	CurrentTime() int
	SetTimeCursor(frame int)
	SetKeyframe(node NodeID, attr string, frame int, value float64) error
}

// Factory creates scene objects.
type Factory interface {
	// CreateCamera creates a camera and returns its transform node. The
	// returned name may differ from the requested one when it is taken.
	CreateCamera(name string) (NodeID, error)
}

// Host is everything the tool needs from a scene.
type Host interface {
	Query
	Animation
	Factory
}
