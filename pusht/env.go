// Package pusht implements the planar block-pushing task: a point agent
// pushes a T-shaped block toward a fixed goal pose inside a 512x512
// workspace. The dynamics are kinematic, one step per control tick.
package pusht

import (
	"fmt"
	"math"

	"golang.org/x/exp/rand"

	"github.com/zeu5/pusht-hirl/types"
)

const (
	// ObsVector is the 5-dim state vector [agent_x agent_y block_x block_y block_angle].
	ObsVector = "vector"
	// ObsPixels is a top-down RGB rendering of the workspace.
	ObsPixels = "pixels"
	// ObsPixelsAgentPos pairs the rendering with the agent position vector.
	ObsPixelsAgentPos = "pixels_agent_pos"
)

const (
	agentRadius   = 15.0
	blockRadius   = 40.0
	maxAgentSpeed = 30.0
	// block orientation relaxes toward the goal angle while being pushed
	angleGain = 0.08
)

type Config struct {
	ObsType string
	// Seed fixes the reset distribution; 0 derives a nondeterministic seed.
	Seed int64
	// ImageSize is the square pixel observation edge, default 96.
	ImageSize int
	// SuccessCoverage terminates the episode once reached, default 0.95.
	SuccessCoverage float64
}

// Env is the push task. Not safe for concurrent use; the session loop
// steps it from a single thread.
type Env struct {
	cfg Config
	rng *rand.Rand

	agent      types.Vec2
	block      types.Vec2
	blockAngle float64
	goal       types.Vec2
	goalAngle  float64
	closed     bool
}

var (
	_ types.Environment = &Env{}
	_ types.StateSeeder = &Env{}
)

func NewEnv(cfg Config) (*Env, error) {
	switch cfg.ObsType {
	case "", ObsVector:
		cfg.ObsType = ObsVector
	case ObsPixels, ObsPixelsAgentPos:
	default:
		return nil, fmt.Errorf("%w: unknown observation type %q", types.ErrConfiguration, cfg.ObsType)
	}
	if cfg.ImageSize <= 0 {
		cfg.ImageSize = 96
	}
	if cfg.SuccessCoverage <= 0 {
		cfg.SuccessCoverage = 0.95
	}
	seed := uint64(cfg.Seed)
	if cfg.Seed == 0 {
		seed = rand.Uint64()
	}
	return &Env{
		cfg:       cfg,
		rng:       rand.New(rand.NewSource(seed)),
		goal:      types.Vec2{X: 256, Y: 256},
		goalAngle: math.Pi / 4,
	}, nil
}

func (e *Env) Reset() (types.Observation, types.InitialState, types.Info, error) {
	if e.closed {
		return nil, types.InitialState{}, nil, fmt.Errorf("%w: reset after close", types.ErrEnvironment)
	}
	e.agent = types.Vec2{
		X: 50 + 400*e.rng.Float64(),
		Y: 50 + 400*e.rng.Float64(),
	}
	e.block = types.Vec2{
		X: 100 + 300*e.rng.Float64(),
		Y: 100 + 300*e.rng.Float64(),
	}
	e.blockAngle = -math.Pi + 2*math.Pi*e.rng.Float64()
	// keep the agent clear of the block so the first contact is commanded
	for e.agent.Dist(e.block) < agentRadius+blockRadius+10 {
		e.agent.X = 50 + 400*e.rng.Float64()
		e.agent.Y = 50 + 400*e.rng.Float64()
	}
	return e.observe(), e.initialState(), e.info(), nil
}

// SeedState restores a recorded initial state for exact replay. An empty
// goal pose keeps the environment's own goal.
func (e *Env) SeedState(st types.InitialState) (types.Observation, types.Info, error) {
	if n := len(st.GoalPose); n != 0 && n != 3 {
		return nil, nil, fmt.Errorf("%w: malformed goal pose of length %d", types.ErrDataIntegrity, n)
	}
	e.agent = st.AgentPos
	e.block = st.BlockPos
	e.blockAngle = st.BlockAngle
	if len(st.GoalPose) == 3 {
		e.goal = types.Vec2{X: st.GoalPose[0], Y: st.GoalPose[1]}
		e.goalAngle = st.GoalPose[2]
	}
	return e.observe(), e.info(), nil
}

// Step moves the agent toward the target, capped at maxAgentSpeed per
// tick, and displaces the block by any resulting overlap.
func (e *Env) Step(action types.Vec2) (types.StepResult, error) {
	if e.closed {
		return types.StepResult{}, fmt.Errorf("%w: step after close", types.ErrEnvironment)
	}
	target := types.Workspace.Clamp(action)
	delta := target.Sub(e.agent)
	if d := math.Hypot(delta.X, delta.Y); d > maxAgentSpeed {
		delta = delta.Scale(maxAgentSpeed / d)
	}
	e.agent = types.Workspace.Clamp(e.agent.Add(delta))

	// kinematic push: resolve agent/block overlap by moving the block out
	// along the contact normal
	sep := e.block.Sub(e.agent)
	dist := math.Hypot(sep.X, sep.Y)
	if contact := agentRadius + blockRadius; dist < contact {
		var normal types.Vec2
		if dist > 1e-9 {
			normal = sep.Scale(1 / dist)
		} else {
			normal = types.Vec2{X: 1}
		}
		push := contact - dist
		e.block = types.Workspace.Clamp(e.block.Add(normal.Scale(push)))
		if diff := angleDiff(e.goalAngle, e.blockAngle); diff != 0 {
			e.blockAngle += angleGain * diff
		}
	}

	info := e.info()
	coverage := info.Coverage()
	return types.StepResult{
		Observation: e.observe(),
		Reward:      math.Min(coverage/e.cfg.SuccessCoverage, 1),
		Terminated:  coverage >= e.cfg.SuccessCoverage,
		Info:        info,
	}, nil
}

func (e *Env) AgentPosition() types.Vec2 { return e.agent }
func (e *Env) ActionSpace() types.Box    { return types.Workspace }

// Goal is the fixed target pose the block is pushed toward.
func (e *Env) Goal() (types.Vec2, float64) { return e.goal, e.goalAngle }

func (e *Env) Close() error {
	e.closed = true
	return nil
}

// Coverage approximates how well the block matches the goal pose: a
// linear falloff over position error discounted by orientation error.
func (e *Env) Coverage() float64 {
	const posScale = 2 * blockRadius
	posTerm := 1 - e.block.Dist(e.goal)/posScale
	if posTerm < 0 {
		posTerm = 0
	}
	angTerm := 1 - math.Abs(angleDiff(e.goalAngle, e.blockAngle))/math.Pi
	return posTerm * angTerm
}

func (e *Env) info() types.Info {
	info := types.Info{"coverage": e.Coverage()}
	if info.Coverage() >= e.cfg.SuccessCoverage {
		info["is_success"] = 1
	}
	return info
}

func (e *Env) initialState() types.InitialState {
	return types.InitialState{
		AgentPos:   e.agent,
		BlockPos:   e.block,
		BlockAngle: e.blockAngle,
		GoalPose:   []float64{e.goal.X, e.goal.Y, e.goalAngle},
	}
}

func (e *Env) stateVector() []float64 {
	return []float64{e.agent.X, e.agent.Y, e.block.X, e.block.Y, e.blockAngle}
}

func (e *Env) observe() types.Observation {
	switch e.cfg.ObsType {
	case ObsPixels:
		return e.renderImage()
	case ObsPixelsAgentPos:
		return types.CompositeObservation{
			Image:  e.renderImage(),
			Vector: types.VectorObservation{Values: []float64{e.agent.X, e.agent.Y}},
		}
	default:
		return types.VectorObservation{Values: e.stateVector()}
	}
}

// angleDiff is the signed smallest rotation from b to a, in (-pi, pi].
func angleDiff(a, b float64) float64 {
	d := math.Mod(a-b, 2*math.Pi)
	if d > math.Pi {
		d -= 2 * math.Pi
	} else if d <= -math.Pi {
		d += 2 * math.Pi
	}
	return d
}
