package types

import (
	"fmt"
	"math"
)

// EpisodeRecorder accumulates the in-progress episode buffer. At most one
// buffer is open at a time; Begin/Record/Seal out of order is a contract
// violation reported as ErrInvalidState.
type EpisodeRecorder struct {
	open      bool
	episodeID int
	initial   InitialState
	steps     []TrajectoryStep
}

func NewEpisodeRecorder() *EpisodeRecorder {
	return &EpisodeRecorder{}
}

// Begin opens a new buffer for the episode with the given id and
// initial-state record.
func (r *EpisodeRecorder) Begin(episodeID int, initial InitialState) error {
	if r.open {
		return fmt.Errorf("%w: Begin with an open buffer (episode %d)", ErrInvalidState, r.episodeID)
	}
	r.open = true
	r.episodeID = episodeID
	r.initial = initial.Clone()
	r.steps = make([]TrajectoryStep, 0, 64)
	return nil
}

// Record appends one step to the open buffer. The observation and info are
// cloned so later environment mutation cannot reach recorded data.
func (r *EpisodeRecorder) Record(step TrajectoryStep) error {
	if !r.open {
		return fmt.Errorf("%w: Record without an open buffer", ErrInvalidState)
	}
	if step.Observation != nil {
		step.Observation = step.Observation.Clone()
	}
	step.Info = step.Info.Clone()
	r.steps = append(r.steps, step)
	return nil
}

// Seal closes the buffer into an immutable episode snapshot, computing
// length and total reward from the recorded steps, and clears the recorder
// for the next episode.
func (r *EpisodeRecorder) Seal(success bool) (*Episode, error) {
	if !r.open {
		return nil, fmt.Errorf("%w: Seal without an open buffer", ErrInvalidState)
	}
	total := 0.0
	for _, s := range r.steps {
		total += s.Reward
	}
	ep := &Episode{
		EpisodeID:    r.episodeID,
		TotalReward:  total,
		Success:      success,
		Length:       len(r.steps),
		InitialState: r.initial,
		Steps:        r.steps,
	}
	r.reset()
	return ep, nil
}

// Abandon discards the in-progress buffer without producing an episode,
// used when the operator forces a mid-episode reset. Abandoning a closed
// recorder is a no-op.
func (r *EpisodeRecorder) Abandon() {
	r.reset()
}

func (r *EpisodeRecorder) Open() bool {
	return r.open
}

func (r *EpisodeRecorder) Steps() int {
	return len(r.steps)
}

func (r *EpisodeRecorder) reset() {
	r.open = false
	r.steps = nil
	r.initial = InitialState{}
}

// CheckEpisode verifies the sealed-episode invariants: length matches the
// step count and the total reward matches the step sum within tolerance.
func CheckEpisode(e *Episode) error {
	if e.Length != len(e.Steps) {
		return fmt.Errorf("%w: episode %d length %d but %d steps", ErrDataIntegrity, e.EpisodeID, e.Length, len(e.Steps))
	}
	sum := 0.0
	for _, s := range e.Steps {
		sum += s.Reward
	}
	if math.Abs(sum-e.TotalReward) > 1e-6 {
		return fmt.Errorf("%w: episode %d total reward %f but step sum %f", ErrDataIntegrity, e.EpisodeID, e.TotalReward, sum)
	}
	return nil
}
