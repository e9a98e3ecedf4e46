package types

// Info is the auxiliary scalar map reported by the environment alongside
// each step. The collection core treats it as opaque except for the
// coverage and is_success keys used by the success rule.
type Info map[string]float64

const (
	InfoCoverage  = "coverage"
	InfoIsSuccess = "is_success"
)

func (i Info) Coverage() float64 {
	return i[InfoCoverage]
}

func (i Info) IsSuccess() bool {
	return i[InfoIsSuccess] != 0
}

func (i Info) Clone() Info {
	if i == nil {
		return nil
	}
	out := make(Info, len(i))
	for k, v := range i {
		out[k] = v
	}
	return out
}

// TrajectoryStep is one recorded tick. Created once by the session loop and
// never mutated afterwards.
type TrajectoryStep struct {
	Observation Observation `json:"observation"`
	Action      Vec2        `json:"action"`
	Reward      float64     `json:"reward"`
	Terminated  bool        `json:"terminated"`
	Truncated   bool        `json:"truncated"`
	Info        Info        `json:"info"`
	// IsHumanAction tags provenance: the arbiter's active-mode flag as
	// sampled before the environment step that produced this step.
	IsHumanAction bool `json:"is_human_action"`
}

// InitialState captures the environment configuration at episode start,
// enough to reproduce the episode deterministically during replay.
type InitialState struct {
	AgentPos   Vec2      `json:"agent_pos"`
	BlockPos   Vec2      `json:"block_pos"`
	BlockAngle float64   `json:"block_angle"`
	GoalPose   []float64 `json:"goal_pose"`
}

func (s InitialState) Clone() InitialState {
	goal := make([]float64, len(s.GoalPose))
	copy(goal, s.GoalPose)
	return InitialState{
		AgentPos:   s.AgentPos,
		BlockPos:   s.BlockPos,
		BlockAngle: s.BlockAngle,
		GoalPose:   goal,
	}
}
