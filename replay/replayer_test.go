package replay

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zeu5/pusht-hirl/controllers"
	"github.com/zeu5/pusht-hirl/game"
	"github.com/zeu5/pusht-hirl/types"
)

type seedableEnv struct {
	seeded  []types.InitialState
	applied []types.Vec2
	closed  bool
}

func (e *seedableEnv) Reset() (types.Observation, types.InitialState, types.Info, error) {
	return types.VectorObservation{}, types.InitialState{}, types.Info{}, nil
}

func (e *seedableEnv) SeedState(st types.InitialState) (types.Observation, types.Info, error) {
	e.seeded = append(e.seeded, st)
	return types.VectorObservation{Values: []float64{st.AgentPos.X, st.AgentPos.Y}}, types.Info{}, nil
}

func (e *seedableEnv) Step(action types.Vec2) (types.StepResult, error) {
	e.applied = append(e.applied, action)
	return types.StepResult{
		Observation: types.VectorObservation{Values: []float64{action.X, action.Y}},
		Reward:      1,
		Info:        types.Info{},
	}, nil
}

func (e *seedableEnv) AgentPosition() types.Vec2 { return types.Vec2{} }
func (e *seedableEnv) ActionSpace() types.Box    { return types.Workspace }
func (e *seedableEnv) Close() error {
	e.closed = true
	return nil
}

var (
	_ types.Environment = &seedableEnv{}
	_ types.StateSeeder = &seedableEnv{}
)

func testEpisode(id int, actions ...types.Vec2) *types.Episode {
	steps := make([]types.TrajectoryStep, len(actions))
	for i, a := range actions {
		steps[i] = types.TrajectoryStep{
			Observation: types.VectorObservation{Values: []float64{a.X, a.Y}},
			Action:      a,
			Reward:      1,
			Info:        types.Info{},
		}
	}
	return &types.Episode{
		EpisodeID:    id,
		Length:       len(steps),
		TotalReward:  float64(len(steps)),
		InitialState: types.InitialState{AgentPos: types.Vec2{X: float64(id)}},
		Steps:        steps,
	}
}

func TestPlayReappliesRecordedActions(t *testing.T) {
	env := &seedableEnv{}
	eps := []*types.Episode{
		testEpisode(0, types.Vec2{X: 1, Y: 2}, types.Vec2{X: 3, Y: 4}),
		testEpisode(1, types.Vec2{X: 5, Y: 6}),
	}
	r, err := NewReplayer(env, controllers.NullDevice{}, nil, eps, Options{Bindings: controllers.DefaultBindings()}, nil)
	require.NoError(t, err)
	require.NoError(t, r.Play(game.ManualClock{}))

	require.Len(t, env.seeded, 2)
	assert.Equal(t, types.Vec2{}, env.seeded[0].AgentPos)
	assert.Equal(t, types.Vec2{X: 1}, env.seeded[1].AgentPos)
	assert.Equal(t, []types.Vec2{{X: 1, Y: 2}, {X: 3, Y: 4}, {X: 5, Y: 6}}, env.applied)
	assert.True(t, env.closed)
}

func TestQuitAbortsReplay(t *testing.T) {
	env := &seedableEnv{}
	bindings := controllers.DefaultBindings()
	device := controllers.NewScriptedDevice(
		controllers.DeviceState{},
		controllers.PressKeys(bindings.Quit),
	)
	eps := []*types.Episode{testEpisode(0, types.Vec2{X: 1}, types.Vec2{X: 2}, types.Vec2{X: 3})}
	r, err := NewReplayer(env, device, nil, eps, Options{Bindings: bindings}, nil)
	require.NoError(t, err)
	require.NoError(t, r.Play(game.ManualClock{}))

	// one step executed before the quit was seen
	assert.Len(t, env.applied, 1)
	assert.True(t, env.closed)
}

func TestManualModeStepsOnAdvance(t *testing.T) {
	env := &seedableEnv{}
	bindings := controllers.DefaultBindings()
	device := controllers.NewScriptedDevice(
		controllers.DeviceState{},
		controllers.PressKeys(bindings.Advance),
		controllers.DeviceState{},
		controllers.DeviceState{},
		controllers.PressKeys(bindings.Advance),
		controllers.PressKeys(bindings.Quit),
	)
	eps := []*types.Episode{testEpisode(0, types.Vec2{X: 1}, types.Vec2{X: 2}, types.Vec2{X: 3})}
	r, err := NewReplayer(env, device, nil, eps, Options{Manual: true, Bindings: bindings}, nil)
	require.NoError(t, err)
	require.NoError(t, r.Play(game.ManualClock{}))

	assert.Len(t, env.applied, 2)
}

func TestSeedingRequired(t *testing.T) {
	type bareEnv struct{ types.Environment }
	_, err := NewReplayer(bareEnv{}, controllers.NullDevice{}, nil, nil, Options{}, nil)
	assert.ErrorIs(t, err, types.ErrEnvironment)
}
