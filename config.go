package tabletop

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/go-gl/mathgl/mgl64"
	"gopkg.in/yaml.v3"
)

// Config is the table configuration, usually loaded from tabletop.yaml.
// Fields missing from the file keep their DefaultConfig values.
type Config struct {
	Window WindowConfig  `yaml:"window"`
	Camera CameraConfig  `yaml:"camera"`
	Ground GroundConfig  `yaml:"ground"`
	Input  InputConfig   `yaml:"input"`
	Spawn  SpawnConfig   `yaml:"spawn"`
	Kinds  []KindConfig  `yaml:"kinds,omitempty"`
	Pieces []PieceConfig `yaml:"pieces,omitempty"`
}

// WindowConfig sizes the viewer window.
type WindowConfig struct {
	Title  string `yaml:"title"`
	Width  int    `yaml:"width"`
	Height int    `yaml:"height"`
}

// CameraConfig places the perspective camera.
type CameraConfig struct {
	Position mgl64.Vec3 `yaml:"position,flow"`
	Target   mgl64.Vec3 `yaml:"target,flow"`
	// Fov is the vertical field of view in degrees.
	Fov  float64 `yaml:"fov"`
	Near float64 `yaml:"near"`
	Far  float64 `yaml:"far"`
}

// GroundConfig describes the table surface.
type GroundConfig struct {
	Height float64 `yaml:"height"`
	// Size is the side length of the square drawn by the viewer.
	Size float64 `yaml:"size"`
}

// InputConfig binds modifiers and tunes the pointer state machine.
type InputConfig struct {
	MultiSelect  string  `yaml:"multi_select"`
	Spawn        string  `yaml:"spawn"`
	DragDeadZone float64 `yaml:"drag_dead_zone"`
}

// SpawnConfig selects the kind spawned by a modifier click.
type SpawnConfig struct {
	Kind string `yaml:"kind"`
}

// KindConfig defines a custom piece kind.
type KindConfig struct {
	Name     string       `yaml:"name"`
	Shape    string       `yaml:"shape"`
	Size     mgl64.Vec3   `yaml:"size,flow"`
	Color    string       `yaml:"color"`
	Rotation mgl64.Vec3   `yaml:"rotation,flow,omitempty"`
	Drag     string       `yaml:"drag"`
	Parts    []PartConfig `yaml:"parts,omitempty"`
}

// PartConfig defines one part of a custom kind.
type PartConfig struct {
	Name     string     `yaml:"name"`
	Parent   string     `yaml:"parent,omitempty"`
	Shape    string     `yaml:"shape"`
	Size     mgl64.Vec3 `yaml:"size,flow"`
	Color    string     `yaml:"color"`
	Offset   mgl64.Vec3 `yaml:"offset,flow,omitempty"`
	Rotation mgl64.Vec3 `yaml:"rotation,flow,omitempty"`
}

// PieceConfig places a piece when the table is created.
type PieceConfig struct {
	Kind     string     `yaml:"kind"`
	Position mgl64.Vec3 `yaml:"position,flow"`
	// Yaw rotates the piece about the vertical axis, in degrees.
	Yaw float64 `yaml:"yaw,omitempty"`
}

// DefaultConfig returns the stock table: a 20x20 ground viewed from
// (0, 15, 15), Shift to multi-select, Ctrl to spawn tanks, and one disc
// token at the origin.
func DefaultConfig() Config {
	return Config{
		Window: WindowConfig{Title: "Tabletop", Width: 1280, Height: 720},
		Camera: CameraConfig{
			Position: mgl64.Vec3{0, 15, 15},
			Target:   mgl64.Vec3{0, 0, 0},
			Fov:      45,
			Near:     0.1,
			Far:      1000,
		},
		Ground: GroundConfig{Height: 0, Size: 20},
		Input: InputConfig{
			MultiSelect:  "shift",
			Spawn:        "ctrl",
			DragDeadZone: defaultDragDeadZone,
		},
		Spawn: SpawnConfig{Kind: KindTank},
		Pieces: []PieceConfig{
			{Kind: KindDisc, Position: mgl64.Vec3{0, 0, 0}},
		},
	}
}

// ParseConfig decodes YAML on top of DefaultConfig and validates the result.
func ParseConfig(data []byte) (Config, error) {
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// LoadConfig reads and parses a config file.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("reading %s: %w", path, err)
	}
	cfg, err := ParseConfig(data)
	if err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Marshal encodes the config as YAML.
func (c Config) Marshal() ([]byte, error) {
	return yaml.Marshal(c)
}

// Validate checks every field and names the first offending one.
func (c Config) Validate() error {
	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		return fmt.Errorf("config: window size must be positive, got %dx%d", c.Window.Width, c.Window.Height)
	}
	if c.Camera.Fov <= 0 || c.Camera.Fov >= 180 {
		return fmt.Errorf("config: camera.fov must be in (0, 180), got %v", c.Camera.Fov)
	}
	if c.Camera.Near <= 0 || c.Camera.Far <= c.Camera.Near {
		return fmt.Errorf("config: camera clip planes must satisfy 0 < near < far, got %v, %v", c.Camera.Near, c.Camera.Far)
	}
	if c.Camera.Position == c.Camera.Target {
		return fmt.Errorf("config: camera.position equals camera.target")
	}
	if c.Ground.Size < 0 {
		return fmt.Errorf("config: ground.size must not be negative")
	}
	if _, err := ParseModifier(c.Input.MultiSelect); err != nil {
		return fmt.Errorf("config: input.multi_select: %w", err)
	}
	if _, err := ParseModifier(c.Input.Spawn); err != nil {
		return fmt.Errorf("config: input.spawn: %w", err)
	}
	if c.Input.DragDeadZone < 0 {
		return fmt.Errorf("config: input.drag_dead_zone must not be negative")
	}

	known := map[string]bool{KindTank: true, KindDisc: true}
	for i, kc := range c.Kinds {
		if _, err := kc.PieceKind(); err != nil {
			return fmt.Errorf("config: kinds[%d]: %w", i, err)
		}
		if known[kc.Name] {
			return fmt.Errorf("config: kinds[%d]: duplicate kind %q", i, kc.Name)
		}
		known[kc.Name] = true
	}
	if !known[c.Spawn.Kind] {
		return fmt.Errorf("config: spawn.kind: %w: %q", ErrUnknownKind, c.Spawn.Kind)
	}
	for i, pc := range c.Pieces {
		if !known[pc.Kind] {
			return fmt.Errorf("config: pieces[%d].kind: %w: %q", i, ErrUnknownKind, pc.Kind)
		}
	}
	return nil
}

// PieceKind converts the config entry into a PieceKind.
func (kc KindConfig) PieceKind() (PieceKind, error) {
	if kc.Name == "" {
		return PieceKind{}, fmt.Errorf("name is required")
	}
	shape, err := ParseShapeKind(kc.Shape)
	if err != nil {
		return PieceKind{}, fmt.Errorf("kind %q: %w", kc.Name, err)
	}
	col, err := ParseHexColor(kc.Color)
	if err != nil {
		return PieceKind{}, fmt.Errorf("kind %q: %w", kc.Name, err)
	}
	mode, err := ParseDragMode(kc.Drag)
	if err != nil {
		return PieceKind{}, fmt.Errorf("kind %q: %w", kc.Name, err)
	}
	if kc.Size.X() <= 0 || kc.Size.Y() <= 0 {
		return PieceKind{}, fmt.Errorf("kind %q: size must be positive", kc.Name)
	}
	k := PieceKind{
		Name:     kc.Name,
		Shape:    shape,
		Size:     kc.Size,
		Color:    col,
		Rotation: kc.Rotation,
		DragMode: mode,
	}
	seen := make(map[string]bool, len(kc.Parts))
	for _, pc := range kc.Parts {
		if pc.Parent != "" && !seen[pc.Parent] {
			return PieceKind{}, fmt.Errorf("kind %q: part %q: unknown parent %q", kc.Name, pc.Name, pc.Parent)
		}
		ps, err := ParseShapeKind(pc.Shape)
		if err != nil {
			return PieceKind{}, fmt.Errorf("kind %q: part %q: %w", kc.Name, pc.Name, err)
		}
		pcol := col
		if pc.Color != "" {
			if pcol, err = ParseHexColor(pc.Color); err != nil {
				return PieceKind{}, fmt.Errorf("kind %q: part %q: %w", kc.Name, pc.Name, err)
			}
		}
		k.Parts = append(k.Parts, PartSpec{
			Name:     pc.Name,
			Parent:   pc.Parent,
			Shape:    ps,
			Size:     pc.Size,
			Color:    pcol,
			Offset:   pc.Offset,
			Rotation: pc.Rotation,
		})
		seen[pc.Name] = true
	}
	return k, nil
}

// ParseHexColor parses "#rrggbb" or "#rrggbbaa". An empty string is white.
func ParseHexColor(s string) (Color, error) {
	if s == "" {
		return ColorWhite, nil
	}
	hex := strings.TrimPrefix(s, "#")
	if len(hex) != 6 && len(hex) != 8 {
		return Color{}, fmt.Errorf("invalid color %q", s)
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return Color{}, fmt.Errorf("invalid color %q", s)
	}
	if len(hex) == 6 {
		v = v<<8 | 0xff
	}
	return Color{
		R: float64(v>>24&0xff) / 255,
		G: float64(v>>16&0xff) / 255,
		B: float64(v>>8&0xff) / 255,
		A: float64(v&0xff) / 255,
	}, nil
}
