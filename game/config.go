package game

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/zeu5/pusht-hirl/controllers"
	"github.com/zeu5/pusht-hirl/data"
	"github.com/zeu5/pusht-hirl/types"
)

// Config is the session configuration, loaded from YAML with defaults
// filled in. Validation happens once at startup; an invalid value is a
// configuration error, fatal and never retried.
type Config struct {
	Env     EnvConfig     `yaml:"env"`
	Control ControlConfig `yaml:"control"`
	Policy  PolicyConfig  `yaml:"policy"`
	Data    DataConfig    `yaml:"data"`
	Upload  UploadConfig  `yaml:"upload"`

	LogLevel string `yaml:"log_level"`
}

type EnvConfig struct {
	// ObsType selects the observation variant: vector, pixels or
	// pixels_agent_pos.
	ObsType          string  `yaml:"obs_type"`
	MaxEpisodeSteps  int     `yaml:"max_episode_steps"`
	SuccessThreshold float64 `yaml:"success_threshold"`
	Seed             uint64  `yaml:"seed"`
}

type ControlConfig struct {
	// InputMode selects the human input source: keyboard or mouse.
	InputMode string `yaml:"input_mode"`
	// HumanControl starts the session under human control.
	HumanControl      bool                 `yaml:"human_control"`
	FPS               int                  `yaml:"fps"`
	CountdownTicks    int                  `yaml:"countdown_ticks"`
	KeyboardMoveSpeed float64              `yaml:"keyboard_move_speed"`
	Mouse             MouseConfig          `yaml:"mouse"`
	Keys              controllers.Bindings `yaml:"key_mapping"`
}

type MouseConfig struct {
	Smoothing   float64 `yaml:"smoothing"`
	ClickToMove bool    `yaml:"click_to_move"`
}

type PolicyConfig struct {
	// Type selects the autonomous policy: random or greedy.
	Type string `yaml:"type"`
	Seed uint64 `yaml:"random_seed"`
}

type DataConfig struct {
	SaveDir     string `yaml:"save_dir"`
	Format      string `yaml:"save_format"`
	NumEpisodes int    `yaml:"num_episodes"`
	DatasetName string `yaml:"dataset_name"`
}

type UploadConfig struct {
	AutoUpload bool   `yaml:"auto_upload"`
	Endpoint   string `yaml:"endpoint"`
	RepoID     string `yaml:"repo_id"`
	Private    bool   `yaml:"private"`
}

func DefaultConfig() Config {
	return Config{
		Env: EnvConfig{
			ObsType:          "pixels_agent_pos",
			MaxEpisodeSteps:  300,
			SuccessThreshold: 0.95,
			Seed:             0,
		},
		Control: ControlConfig{
			InputMode:         "keyboard",
			HumanControl:      true,
			FPS:               10,
			CountdownTicks:    30,
			KeyboardMoveSpeed: 10,
			Mouse:             MouseConfig{Smoothing: 0.5},
			Keys:              controllers.DefaultBindings(),
		},
		Policy: PolicyConfig{Type: "random", Seed: 42},
		Data: DataConfig{
			SaveDir:     "trajectories",
			Format:      "bolt",
			NumEpisodes: 10,
		},
		LogLevel: "info",
	}
}

// LoadConfig reads path into a config on top of the defaults. An empty
// path returns the defaults unchanged.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}
	bs, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("%w: reading config %s: %v", types.ErrConfiguration, path, err)
	}
	if err := yaml.Unmarshal(bs, &cfg); err != nil {
		return cfg, fmt.Errorf("%w: parsing config %s: %v", types.ErrConfiguration, path, err)
	}
	return cfg, nil
}

func (c Config) Validate() error {
	switch c.Control.InputMode {
	case "keyboard", "mouse":
	default:
		return fmt.Errorf("%w: unsupported input mode %q (want keyboard or mouse)", types.ErrConfiguration, c.Control.InputMode)
	}
	switch c.Env.ObsType {
	case "vector", "pixels", "pixels_agent_pos":
	default:
		return fmt.Errorf("%w: unsupported obs_type %q", types.ErrConfiguration, c.Env.ObsType)
	}
	switch c.Policy.Type {
	case "random", "greedy":
	default:
		return fmt.Errorf("%w: unsupported policy type %q", types.ErrConfiguration, c.Policy.Type)
	}
	if _, err := data.ParseFormat(c.Data.Format); err != nil {
		return err
	}
	if c.Control.Mouse.Smoothing < 0 || c.Control.Mouse.Smoothing >= 1 {
		return fmt.Errorf("%w: mouse smoothing %f outside [0,1)", types.ErrConfiguration, c.Control.Mouse.Smoothing)
	}
	if c.Control.FPS <= 0 {
		return fmt.Errorf("%w: fps must be positive", types.ErrConfiguration)
	}
	if c.Env.MaxEpisodeSteps <= 0 {
		return fmt.Errorf("%w: max_episode_steps must be positive", types.ErrConfiguration)
	}
	if c.Data.NumEpisodes <= 0 {
		return fmt.Errorf("%w: num_episodes must be positive", types.ErrConfiguration)
	}
	return c.Control.Keys.Validate()
}

// InputSource builds the configured human input source.
func (c Config) InputSource(bounds types.Box) (controllers.InputSource, error) {
	switch c.Control.InputMode {
	case "keyboard":
		return controllers.NewKeyboardController(c.Control.Keys, c.Control.KeyboardMoveSpeed, bounds), nil
	case "mouse":
		return controllers.NewMouseController(c.Control.Mouse.Smoothing, c.Control.Mouse.ClickToMove, bounds), nil
	default:
		return nil, fmt.Errorf("%w: unsupported input mode %q", types.ErrConfiguration, c.Control.InputMode)
	}
}
