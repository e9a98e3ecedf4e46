// Package replay re-executes stored episodes against a seedable
// environment for visual review.
package replay

import (
	"fmt"
	"log/slog"
	"math"

	"github.com/zeu5/pusht-hirl/controllers"
	"github.com/zeu5/pusht-hirl/game"
	"github.com/zeu5/pusht-hirl/types"
)

type Options struct {
	// Manual waits for the advance key before each step instead of playing
	// one step per tick.
	Manual   bool
	Bindings controllers.Bindings
}

// Replayer restores each episode's recorded initial state and re-applies
// its action sequence, one step per tick. The environment must support
// state seeding.
type Replayer struct {
	env      types.Environment
	seeder   types.StateSeeder
	device   controllers.Device
	renderer types.Renderer
	opts     Options
	log      *slog.Logger

	episodes []*types.Episode
	epIdx    int
	stepIdx  int
	seeded   bool
}

func NewReplayer(env types.Environment, device controllers.Device, renderer types.Renderer, episodes []*types.Episode, opts Options, log *slog.Logger) (*Replayer, error) {
	seeder, ok := env.(types.StateSeeder)
	if !ok {
		return nil, fmt.Errorf("%w: environment cannot be seeded for replay", types.ErrEnvironment)
	}
	if log == nil {
		log = slog.Default()
	}
	if renderer == nil {
		renderer = types.NopRenderer{}
	}
	return &Replayer{
		env:      env,
		seeder:   seeder,
		device:   device,
		renderer: renderer,
		opts:     opts,
		log:      log,
		episodes: episodes,
	}, nil
}

// Tick advances the replay by at most one step. Quit skips everything
// remaining; in manual mode a tick without the advance key replays
// nothing. Reward divergence from the recording is logged, not fatal.
func (r *Replayer) Tick() (bool, error) {
	if r.epIdx >= len(r.episodes) {
		return true, nil
	}
	ep := r.episodes[r.epIdx]

	if !r.seeded {
		obs, _, err := r.seeder.SeedState(ep.InitialState)
		if err != nil {
			return true, fmt.Errorf("seeding episode %d: %w", ep.EpisodeID, err)
		}
		r.seeded = true
		r.stepIdx = 0
		r.renderer.Render(obs, fmt.Sprintf("Replay ep %d | %d steps", ep.EpisodeID, ep.Length))
		r.log.Info("replaying episode", "episode", ep.EpisodeID, "steps", ep.Length, "success", ep.Success)
		return false, nil
	}

	st := r.device.Poll()
	if st.Pressed[r.opts.Bindings.Quit] {
		r.log.Info("replay interrupted", "episode", ep.EpisodeID, "step", r.stepIdx)
		r.epIdx = len(r.episodes)
		return true, nil
	}
	if r.opts.Manual && !st.Pressed[r.opts.Bindings.Advance] {
		return false, nil
	}

	step := ep.Steps[r.stepIdx]
	res, err := r.env.Step(step.Action)
	if err != nil {
		return true, fmt.Errorf("%w: replay step %d of episode %d: %v", types.ErrEnvironment, r.stepIdx, ep.EpisodeID, err)
	}
	if math.Abs(res.Reward-step.Reward) > 1e-6 {
		r.log.Warn("reward diverged from recording",
			"episode", ep.EpisodeID,
			"step", r.stepIdx,
			"recorded", step.Reward,
			"replayed", res.Reward)
	}
	source := "policy"
	if step.IsHumanAction {
		source = "human"
	}
	r.renderer.Render(res.Observation,
		fmt.Sprintf("Replay ep %d | step %d/%d | %s", ep.EpisodeID, r.stepIdx+1, ep.Length, source))

	r.stepIdx++
	if r.stepIdx >= ep.Length {
		r.epIdx++
		r.seeded = false
	}
	return r.epIdx >= len(r.episodes), nil
}

// Play drives the replay to completion on the given clock.
func (r *Replayer) Play(clock game.Clock) error {
	for {
		clock.Tick()
		done, err := r.Tick()
		if err != nil {
			r.env.Close()
			return err
		}
		if done {
			r.log.Info("replay finished")
			return r.env.Close()
		}
	}
}
