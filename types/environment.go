package types

// StepResult is what the environment reports for one action.
type StepResult struct {
	Observation Observation
	Reward      float64
	Terminated  bool
	Truncated   bool
	Info        Info
}

// Environment is the external task simulation the session loop drives.
// Exactly one step is in flight at a time; implementations need not be
// safe for concurrent use.
type Environment interface {
	// Reset reopens the task and reports the first observation together
	// with the initial-state record used for deterministic replay.
	Reset() (Observation, InitialState, Info, error)
	// Step applies a target-position action within ActionSpace.
	Step(action Vec2) (StepResult, error)
	// AgentPosition is the agent's current workspace position, used by the
	// directional-keys input source and as the hold-position target.
	AgentPosition() Vec2
	ActionSpace() Box
	Close() error
}

// StateSeeder is implemented by environments that can be restored to a
// recorded initial state, enabling exact replay of stored episodes.
type StateSeeder interface {
	SeedState(InitialState) (Observation, Info, error)
}

// Policy produces autonomous actions sampled within the action space.
type Policy interface {
	NextAction(obs Observation) Vec2
}

// Renderer displays one frame. The core consumes no return value; display
// failures are the renderer's own problem.
type Renderer interface {
	Render(obs Observation, overlay string)
}

// NopRenderer drops frames, for headless collection and tests.
type NopRenderer struct{}

func (NopRenderer) Render(Observation, string) {}

var _ Renderer = NopRenderer{}

// Uploader pushes a saved artifact to a dataset-hosting service. Push
// failures are isolated from the local artifact.
type Uploader interface {
	Push(localPath string, repoID string, private bool) (string, error)
}
