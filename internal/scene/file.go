package scene

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// FileVersion is written into every saved scene.
const FileVersion = "1.0"

// File is the on-disk YAML form of a scene
type File struct {
	Version     string       `yaml:"version"`
	CurrentTime int          `yaml:"current_time,omitempty"`
	Cameras     []CameraSpec `yaml:"cameras"`
}

// CameraSpec describes one user camera
type CameraSpec struct {
	Name       string             `yaml:"name"`
	UUID       string             `yaml:"uuid,omitempty"`
	Attributes map[string]float64 `yaml:"attributes,omitempty"` // Unanimated values
	Curves     map[string][]Key   `yaml:"curves,omitempty"`     // Attribute -> keys
}

// Load reads a scene from a YAML file
func Load(path string, opts ...Option) (*Scene, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse scene %s: %w", path, err)
	}

	return FromFile(&f, opts...)
}

// FromFile builds a scene from its decoded form.
func FromFile(f *File, opts ...Option) (*Scene, error) {
	s := New(opts...)
	s.time = f.CurrentTime

	for _, spec := range f.Cameras {
		name := NodeID(spec.Name)
		cam, ok := s.Camera(name)
		if ok && cam.Startup {
			return nil, fmt.Errorf("%w: %s is a startup camera", ErrNodeExists, name)
		}
		if !ok || cam.Name != name {
			var err error
			if cam, err = s.AddCamera(name); err != nil {
				return nil, err
			}
		}
		if spec.UUID != "" {
			cam.UUID = spec.UUID
		}

		for attr, v := range spec.Attributes {
			if err := s.SetStatic(name, attr, v); err != nil {
				return nil, err
			}
		}
		for attr, keys := range spec.Curves {
			if _, ok := channels[attr]; !ok {
				return nil, fmt.Errorf("%w: %s.%s", ErrUnknownAttribute, name, attr)
			}
			c := s.curve(cam, attr)
			c.Keys = append(c.Keys, keys...)
			c.normalize()
		}
	}

	return s, nil
}

// ToFile converts the user cameras of s to their on-disk form.
func (s *Scene) ToFile() *File {
	f := &File{Version: FileVersion, CurrentTime: s.time}

	for _, cam := range s.cameras {
		if cam.Startup {
			continue
		}
		spec := CameraSpec{Name: string(cam.Name), UUID: cam.UUID}
		if len(cam.Attributes) > 0 {
			spec.Attributes = make(map[string]float64, len(cam.Attributes))
			for k, v := range cam.Attributes {
				spec.Attributes[k] = v
			}
		}
		for _, attr := range channelOrder {
			c := cam.curves[attr]
			if c == nil || len(c.Keys) == 0 {
				continue
			}
			if spec.Curves == nil {
				spec.Curves = make(map[string][]Key)
			}
			spec.Curves[attr] = append([]Key(nil), c.Keys...)
		}
		f.Cameras = append(f.Cameras, spec)
	}

	return f
}

// Save writes the user cameras of s to a YAML file
func Save(s *Scene, path string) error {
	data, err := yaml.Marshal(s.ToFile())
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0o644)
}
