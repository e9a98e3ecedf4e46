package types

// Episode is a sealed trajectory: one complete (or force-terminated)
// attempt at the task. Episodes are produced by the recorder's Seal and
// owned by the trajectory store afterwards; steps keep tick order and are
// never reordered.
type Episode struct {
	EpisodeID    int              `json:"episode_id"`
	TotalReward  float64          `json:"total_reward"`
	Success      bool             `json:"success"`
	Length       int              `json:"length"`
	InitialState InitialState     `json:"initial_state"`
	Steps        []TrajectoryStep `json:"steps"`
}

func (e *Episode) Len() int {
	return len(e.Steps)
}

func (e *Episode) Step(i int) (TrajectoryStep, bool) {
	if i < 0 || i >= len(e.Steps) {
		return TrajectoryStep{}, false
	}
	return e.Steps[i], true
}

func (e *Episode) Last() (TrajectoryStep, bool) {
	if len(e.Steps) == 0 {
		return TrajectoryStep{}, false
	}
	return e.Steps[len(e.Steps)-1], true
}

// FinalCoverage reports the coverage value of the last step, 0 for an
// empty episode.
func (e *Episode) FinalCoverage() float64 {
	last, ok := e.Last()
	if !ok {
		return 0
	}
	return last.Info.Coverage()
}
