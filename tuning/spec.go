package tuning

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Character is the per-character tuning record. It is read every step
// by the detector and the movement controller and never mutated by
// them. Speeds are world units per second, accelerations per second
// squared, times in seconds. Gravity and the terminal fall speed are
// negative (Y-up world).
type Character struct {
	Width             float64 `yaml:"width"`
	Height            float64 `yaml:"height"`
	DistanceThreshold float64 `yaml:"distance_threshold"`

	Gravity        float64 `yaml:"gravity"`
	FallSpeed      float64 `yaml:"fall_speed"`
	Acceleration   float64 `yaml:"acceleration"`
	TopSpeed       float64 `yaml:"top_speed"`
	Drag           float64 `yaml:"drag"`
	Friction       float64 `yaml:"friction"`
	FloorSpeedGate float64 `yaml:"floor_speed_gate"`

	AirControl    float64 `yaml:"air_control"`
	ApexControl   float64 `yaml:"apex_control"`
	ApexThreshold float64 `yaml:"apex_threshold"`

	JumpSpeed   float64 `yaml:"jump_speed"`
	MaxJumpTime float64 `yaml:"max_jump_time"`
	JumpFalloff float64 `yaml:"jump_falloff"`
	CoyoteTime  float64 `yaml:"coyote_time"`

	ClimbSpeed        float64 `yaml:"climb_speed"`
	ClimbAcceleration float64 `yaml:"climb_acceleration"`
	SlideSpeed        float64 `yaml:"slide_speed"`
	ClimbIdleSpeed    float64 `yaml:"climb_idle_speed"`

	WallJumpForce   float64 `yaml:"wall_jump_force"`
	WallJumpMinTime float64 `yaml:"wall_jump_min_time"`
	WallJumpFalloff float64 `yaml:"wall_jump_falloff"`
}

// Validate reports the first fatal problem with the record. A character
// cannot simulate without its dimensions and core movement constants,
// so loading fails loudly instead of defaulting.
func (c *Character) Validate() error {
	if c == nil {
		return fmt.Errorf("tuning: character spec is nil")
	}
	switch {
	case c.Width <= 0:
		return fmt.Errorf("tuning: width %g must be positive", c.Width)
	case c.Height <= 0:
		return fmt.Errorf("tuning: height %g must be positive", c.Height)
	case c.DistanceThreshold <= 0:
		return fmt.Errorf("tuning: distance_threshold %g must be positive", c.DistanceThreshold)
	case c.Gravity >= 0:
		return fmt.Errorf("tuning: gravity %g must be negative", c.Gravity)
	case c.FallSpeed >= 0:
		return fmt.Errorf("tuning: fall_speed %g must be negative", c.FallSpeed)
	case c.Acceleration <= 0:
		return fmt.Errorf("tuning: acceleration %g must be positive", c.Acceleration)
	case c.TopSpeed <= 0:
		return fmt.Errorf("tuning: top_speed %g must be positive", c.TopSpeed)
	case c.JumpSpeed <= 0:
		return fmt.Errorf("tuning: jump_speed %g must be positive", c.JumpSpeed)
	case c.MaxJumpTime <= 0:
		return fmt.Errorf("tuning: max_jump_time %g must be positive", c.MaxJumpTime)
	case c.CoyoteTime < 0:
		return fmt.Errorf("tuning: coyote_time %g must not be negative", c.CoyoteTime)
	case c.FloorSpeedGate < 0:
		return fmt.Errorf("tuning: floor_speed_gate %g must not be negative", c.FloorSpeedGate)
	}
	return nil
}

// Parse decodes and validates a character record from YAML bytes.
func Parse(data []byte) (*Character, error) {
	var spec Character
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return nil, fmt.Errorf("tuning: unmarshal character spec: %w", err)
	}
	if err := spec.Validate(); err != nil {
		return nil, err
	}
	return &spec, nil
}

// Load reads and validates a character record from a YAML file.
func Load(path string) (*Character, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("tuning: load %s: %w", path, err)
	}
	spec, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("tuning: %s: %w", path, err)
	}
	return spec, nil
}
