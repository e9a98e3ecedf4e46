package data

import (
	"fmt"

	"gonum.org/v1/gonum/stat"

	"github.com/zeu5/pusht-hirl/types"
)

// Statistics summarizes a set of stored episodes. A pure function of the
// episodes, no I/O.
type Statistics struct {
	TotalEpisodes int     `json:"total_episodes"`
	TotalSteps    int     `json:"total_steps"`
	SuccessRate   float64 `json:"success_rate"`
	MeanReward    float64 `json:"mean_reward"`
	MeanLength    float64 `json:"mean_length"`
	HumanSteps    int     `json:"human_steps"`
	PolicySteps   int     `json:"policy_steps"`
}

func ComputeStatistics(episodes []*types.Episode) Statistics {
	s := Statistics{TotalEpisodes: len(episodes)}
	if len(episodes) == 0 {
		return s
	}

	rewards := make([]float64, len(episodes))
	lengths := make([]float64, len(episodes))
	successes := 0
	for i, ep := range episodes {
		rewards[i] = ep.TotalReward
		lengths[i] = float64(ep.Length)
		s.TotalSteps += ep.Length
		if ep.Success {
			successes++
		}
		for _, step := range ep.Steps {
			if step.IsHumanAction {
				s.HumanSteps++
			} else {
				s.PolicySteps++
			}
		}
	}
	s.SuccessRate = float64(successes) / float64(len(episodes))
	s.MeanReward = stat.Mean(rewards, nil)
	s.MeanLength = stat.Mean(lengths, nil)
	return s
}

func (s Statistics) String() string {
	return fmt.Sprintf("episodes=%d steps=%d success_rate=%.3f mean_reward=%.3f mean_length=%.1f human_steps=%d policy_steps=%d",
		s.TotalEpisodes, s.TotalSteps, s.SuccessRate, s.MeanReward, s.MeanLength, s.HumanSteps, s.PolicySteps)
}
