package scene

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/google/uuid"
)

var (
	ErrUnknownNode      = errors.New("unknown node")
	ErrUnknownCurve     = errors.New("unknown animation curve")
	ErrUnknownAttribute = errors.New("unknown attribute")
	ErrNodeExists       = errors.New("node already exists")
)

// startupCameras exist in every scene and cannot be removed.
var startupCameras = []NodeID{"persp", "top", "front", "side"}

// channels are the keyable transform attributes with their rest values.
var channels = map[string]float64{
	"translateX": 0, "translateY": 0, "translateZ": 0,
	"rotateX": 0, "rotateY": 0, "rotateZ": 0,
	"scaleX": 1, "scaleY": 1, "scaleZ": 1,
}

// channelOrder is the order curves are reported in.
var channelOrder = []string{
	"translateX", "translateY", "translateZ",
	"rotateX", "rotateY", "rotateZ",
	"scaleX", "scaleY", "scaleZ",
}

// Camera is a camera transform node with its shape.
type Camera struct {
	Name       NodeID
	Shape      NodeID
	UUID       string
	Startup    bool
	Attributes map[string]float64
	curves     map[string]*Curve
}

// Curve returns the curve driving attr, or nil.
func (c *Camera) Curve(attr string) *Curve {
	return c.curves[attr]
}

// Scene is an in-memory scene graph implementing Host.
// It is not safe for concurrent use.
type Scene struct {
	cameras []*Camera
	nodes   map[NodeID]*Camera // transforms and shapes
	curves  map[CurveID]*Curve
	time    int
	newID   func() string
}

// Option configures a Scene.
type Option func(*Scene)

// WithIDGenerator sets the generator used for node UUIDs.
func WithIDGenerator(gen func() string) Option {
	return func(s *Scene) { s.newID = gen }
}

// New creates a scene holding only the startup cameras.
func New(opts ...Option) *Scene {
	s := &Scene{
		nodes:  make(map[NodeID]*Camera),
		curves: make(map[CurveID]*Curve),
		newID: func() string {
			return uuid.Must(uuid.NewV7()).String()
		},
	}
	for _, o := range opts {
		o(s)
	}
	for _, name := range startupCameras {
		cam, _ := s.AddCamera(name)
		cam.Startup = true
	}
	return s
}

// AddCamera adds a camera transform named name with shape "<name>Shape".
func (s *Scene) AddCamera(name NodeID) (*Camera, error) {
	shape := name + "Shape"
	if _, ok := s.nodes[name]; ok {
		return nil, fmt.Errorf("%w: %s", ErrNodeExists, name)
	}
	if _, ok := s.nodes[shape]; ok {
		return nil, fmt.Errorf("%w: %s", ErrNodeExists, shape)
	}

	cam := &Camera{
		Name:       name,
		Shape:      shape,
		UUID:       s.newID(),
		Attributes: make(map[string]float64),
		curves:     make(map[string]*Curve),
	}
	s.cameras = append(s.cameras, cam)
	s.nodes[name] = cam
	s.nodes[shape] = cam
	return cam, nil
}

// Camera looks up a camera by transform or shape name.
func (s *Scene) Camera(node NodeID) (*Camera, bool) {
	cam, ok := s.nodes[node]
	return cam, ok
}

// Cameras returns all cameras in creation order.
func (s *Scene) Cameras() []*Camera {
	return s.cameras
}

// SetStatic sets the unanimated value of attr on node.
func (s *Scene) SetStatic(node NodeID, attr string, value float64) error {
	cam, err := s.transform(node)
	if err != nil {
		return err
	}
	if _, ok := channels[attr]; !ok {
		return fmt.Errorf("%w: %s.%s", ErrUnknownAttribute, node, attr)
	}
	cam.Attributes[attr] = value
	return nil
}

// Keys returns the keys on node.attr, or nil when it is not animated.
func (s *Scene) Keys(node NodeID, attr string) []Key {
	cam, ok := s.nodes[node]
	if !ok {
		return nil
	}
	if c := cam.curves[attr]; c != nil {
		return c.Keys
	}
	return nil
}

func (s *Scene) ListCameras(excludeDefault bool) ([]NodeID, error) {
	var shapes []NodeID
	for _, cam := range s.cameras {
		if excludeDefault && cam.Startup {
			continue
		}
		shapes = append(shapes, cam.Shape)
	}
	return shapes, nil
}

func (s *Scene) TransformParent(node NodeID) (NodeID, error) {
	cam, ok := s.nodes[node]
	if !ok || cam.Shape != node {
		return "", fmt.Errorf("%w: no shape named %s", ErrUnknownNode, node)
	}
	return cam.Name, nil
}

func (s *Scene) CurvesDriving(node NodeID) ([]CurveID, error) {
	cam, err := s.transform(node)
	if err != nil {
		return nil, err
	}
	var ids []CurveID
	for _, attr := range channelOrder {
		if c := cam.curves[attr]; c != nil && len(c.Keys) > 0 {
			ids = append(ids, c.ID())
		}
	}
	return ids, nil
}

func (s *Scene) KeyedTimes(curve CurveID) ([]int, error) {
	c, ok := s.curves[curve]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownCurve, curve)
	}
	return c.Times(), nil
}

func (s *Scene) GetAttribute(node NodeID, attr string, frame int) (float64, error) {
	cam, err := s.transform(node)
	if err != nil {
		return 0, err
	}
	rest, ok := channels[attr]
	if !ok {
		return 0, fmt.Errorf("%w: %s.%s", ErrUnknownAttribute, node, attr)
	}
	if c := cam.curves[attr]; c != nil && len(c.Keys) > 0 {
		return c.Evaluate(frame), nil
	}
	if v, ok := cam.Attributes[attr]; ok {
		return v, nil
	}
	return rest, nil
}

func (s *Scene) CurrentTime() int {
	return s.time
}

func (s *Scene) SetTimeCursor(frame int) {
	s.time = frame
}

func (s *Scene) SetKeyframe(node NodeID, attr string, frame int, value float64) error {
	cam, err := s.transform(node)
	if err != nil {
		return err
	}
	if _, ok := channels[attr]; !ok {
		return fmt.Errorf("%w: %s.%s", ErrUnknownAttribute, node, attr)
	}
	s.curve(cam, attr).Set(frame, value)
	return nil
}

func (s *Scene) CreateCamera(name string) (NodeID, error) {
	if name == "" {
		name = "camera"
	}
	candidate := NodeID(name)
	for i := 1; s.taken(candidate); i++ {
		candidate = NodeID(name + strconv.Itoa(i))
	}
	cam, err := s.AddCamera(candidate)
	if err != nil {
		return "", err
	}
	return cam.Name, nil
}

func (s *Scene) taken(name NodeID) bool {
	_, a := s.nodes[name]
	_, b := s.nodes[name+"Shape"]
	return a || b
}

// transform resolves node to a camera transform, rejecting shapes.
func (s *Scene) transform(node NodeID) (*Camera, error) {
	cam, ok := s.nodes[node]
	if !ok || cam.Name != node {
		return nil, fmt.Errorf("%w: no transform named %s", ErrUnknownNode, node)
	}
	return cam, nil
}

// curve returns the curve for cam.attr, creating it on first use.
func (s *Scene) curve(cam *Camera, attr string) *Curve {
	c := cam.curves[attr]
	if c == nil {
		c = &Curve{Node: cam.Name, Attribute: attr}
		cam.curves[attr] = c
		s.curves[c.ID()] = c
	}
	return c
}
