package data

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/zeu5/pusht-hirl/types"
)

// jsonCodec is the structured-text encoding: a human-readable tree with
// full fidelity. Image observations inflate to large nested arrays; the
// size cost is documented and accepted.
type jsonCodec struct{}

var _ Codec = &jsonCodec{}

type jsonArtifact struct {
	FormatVersion string        `json:"format_version"`
	Description   string        `json:"description"`
	TotalEpisodes int           `json:"total_episodes"`
	Episodes      []jsonEpisode `json:"episodes"`
}

type jsonEpisode struct {
	EpisodeID    int                `json:"episode_id"`
	TotalReward  float64            `json:"total_reward"`
	Success      bool               `json:"success"`
	Length       int                `json:"length"`
	InitialState types.InitialState `json:"initial_state"`
	Steps        []jsonStep         `json:"steps"`
}

type jsonStep struct {
	Observation   jsonObservation `json:"observation"`
	Action        types.Vec2      `json:"action"`
	Reward        float64         `json:"reward"`
	Terminated    bool            `json:"terminated"`
	Truncated     bool            `json:"truncated"`
	Info          types.Info      `json:"info,omitempty"`
	IsHumanAction bool            `json:"is_human_action"`
}

// jsonObservation is the tagged wire form of the observation variant.
type jsonObservation struct {
	Kind   string                   `json:"kind"`
	Vector *types.VectorObservation `json:"vector,omitempty"`
	Image  *types.ImageObservation  `json:"image,omitempty"`
}

const (
	obsKindVector    = "vector"
	obsKindImage     = "image"
	obsKindComposite = "composite"
	obsKindNone      = "none"
)

func toJSONObservation(o types.Observation) jsonObservation {
	switch obs := o.(type) {
	case types.VectorObservation:
		return jsonObservation{Kind: obsKindVector, Vector: &obs}
	case types.ImageObservation:
		return jsonObservation{Kind: obsKindImage, Image: &obs}
	case types.CompositeObservation:
		return jsonObservation{Kind: obsKindComposite, Vector: &obs.Vector, Image: &obs.Image}
	default:
		return jsonObservation{Kind: obsKindNone}
	}
}

func (j jsonObservation) observation() (types.Observation, error) {
	switch j.Kind {
	case obsKindVector:
		if j.Vector == nil {
			return nil, fmt.Errorf("vector observation without values")
		}
		return *j.Vector, nil
	case obsKindImage:
		if j.Image == nil {
			return nil, fmt.Errorf("image observation without pixels")
		}
		return *j.Image, nil
	case obsKindComposite:
		if j.Vector == nil || j.Image == nil {
			return nil, fmt.Errorf("composite observation missing a part")
		}
		return types.CompositeObservation{Image: *j.Image, Vector: *j.Vector}, nil
	case obsKindNone:
		return nil, nil
	default:
		return nil, fmt.Errorf("unknown observation kind %q", j.Kind)
	}
}

func (c *jsonCodec) Encode(path string, episodes []*types.Episode) error {
	artifact := jsonArtifact{
		FormatVersion: FormatVersion,
		Description:   "pusht-hirl trajectory data",
		TotalEpisodes: len(episodes),
		Episodes:      make([]jsonEpisode, len(episodes)),
	}
	for i, ep := range episodes {
		steps := make([]jsonStep, len(ep.Steps))
		for j, step := range ep.Steps {
			steps[j] = jsonStep{
				Observation:   toJSONObservation(step.Observation),
				Action:        step.Action,
				Reward:        step.Reward,
				Terminated:    step.Terminated,
				Truncated:     step.Truncated,
				Info:          step.Info,
				IsHumanAction: step.IsHumanAction,
			}
		}
		artifact.Episodes[i] = jsonEpisode{
			EpisodeID:    ep.EpisodeID,
			TotalReward:  ep.TotalReward,
			Success:      ep.Success,
			Length:       ep.Length,
			InitialState: ep.InitialState,
			Steps:        steps,
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(artifact)
}

func (c *jsonCodec) Decode(path string) ([]*types.Episode, error) {
	bs, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var artifact jsonArtifact
	if err := json.Unmarshal(bs, &artifact); err != nil {
		return nil, fmt.Errorf("%w: decoding json artifact %s: %v", types.ErrDataIntegrity, path, err)
	}
	if artifact.FormatVersion != FormatVersion {
		return nil, fmt.Errorf("%w: json artifact %s has version %q, want %q", types.ErrDataIntegrity, path, artifact.FormatVersion, FormatVersion)
	}

	episodes := make([]*types.Episode, len(artifact.Episodes))
	for i, jep := range artifact.Episodes {
		steps := make([]types.TrajectoryStep, len(jep.Steps))
		for j, jstep := range jep.Steps {
			obs, err := jstep.Observation.observation()
			if err != nil {
				return nil, fmt.Errorf("%w: episode %d step %d: %v", types.ErrDataIntegrity, jep.EpisodeID, j, err)
			}
			steps[j] = types.TrajectoryStep{
				Observation:   obs,
				Action:        jstep.Action,
				Reward:        jstep.Reward,
				Terminated:    jstep.Terminated,
				Truncated:     jstep.Truncated,
				Info:          jstep.Info,
				IsHumanAction: jstep.IsHumanAction,
			}
		}
		episodes[i] = &types.Episode{
			EpisodeID:    jep.EpisodeID,
			TotalReward:  jep.TotalReward,
			Success:      jep.Success,
			Length:       jep.Length,
			InitialState: jep.InitialState,
			Steps:        steps,
		}
	}
	return episodes, nil
}
