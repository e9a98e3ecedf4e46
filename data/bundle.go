package data

import (
	"archive/zip"
	"fmt"
	"io"
	"os"

	"github.com/zeu5/pusht-hirl/types"
)

// bundleCodec is the compressed numeric-array bundle: a deflated archive
// of flat little-endian float64 arrays spanning all episodes, split by an
// episode_lengths array. Only the reduced vector projection of the
// observation is kept; episode-level metadata (initial state, success) is
// dropped. Decoding reconstructs episode boundaries and recomputes total
// rewards; success always decodes to false.
type bundleCodec struct{}

var _ Codec = &bundleCodec{}

const (
	bundleVersionEntry = "version"
	bundleObsDimEntry  = "obs_dim"
	bundleObsEntry     = "observations"
	bundleActionsEntry = "actions"
	bundleRewardsEntry = "rewards"
	bundleLengthsEntry = "episode_lengths"
)

func (c *bundleCodec) Encode(path string, episodes []*types.Episode) error {
	obsDim := 0
	for _, ep := range episodes {
		for _, step := range ep.Steps {
			if values, ok := types.FeatureVector(step.Observation); ok {
				obsDim = len(values)
			}
			break
		}
		if obsDim > 0 {
			break
		}
	}

	var observations, actions, rewards, lengths []float64
	for _, ep := range episodes {
		for _, step := range ep.Steps {
			if obsDim > 0 {
				values, ok := types.FeatureVector(step.Observation)
				if !ok || len(values) != obsDim {
					return fmt.Errorf("%w: observation projection dim drifts within bundle", types.ErrDataIntegrity)
				}
				observations = append(observations, values...)
			}
			actions = append(actions, step.Action.X, step.Action.Y)
			rewards = append(rewards, step.Reward)
		}
		lengths = append(lengths, float64(ep.Length))
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	zw := zip.NewWriter(f)
	entries := []struct {
		name string
		data []byte
	}{
		{bundleVersionEntry, []byte(FormatVersion)},
		{bundleObsDimEntry, putUint(uint64(obsDim))},
		{bundleObsEntry, putFloats(observations)},
		{bundleActionsEntry, putFloats(actions)},
		{bundleRewardsEntry, putFloats(rewards)},
		{bundleLengthsEntry, putFloats(lengths)},
	}
	for _, entry := range entries {
		w, err := zw.CreateHeader(&zip.FileHeader{Name: entry.name, Method: zip.Deflate})
		if err != nil {
			return err
		}
		if _, err := w.Write(entry.data); err != nil {
			return err
		}
	}
	return zw.Close()
}

func (c *bundleCodec) Decode(path string) ([]*types.Episode, error) {
	zr, err := zip.OpenReader(path)
	if err != nil {
		return nil, fmt.Errorf("%w: opening bundle %s: %v", types.ErrDataIntegrity, path, err)
	}
	defer zr.Close()

	entries := make(map[string][]byte, len(zr.File))
	for _, zf := range zr.File {
		r, err := zf.Open()
		if err != nil {
			return nil, fmt.Errorf("%w: reading bundle entry %s: %v", types.ErrDataIntegrity, zf.Name, err)
		}
		bs, err := io.ReadAll(r)
		r.Close()
		if err != nil {
			return nil, fmt.Errorf("%w: reading bundle entry %s: %v", types.ErrDataIntegrity, zf.Name, err)
		}
		entries[zf.Name] = bs
	}

	version, ok := entries[bundleVersionEntry]
	if !ok {
		return nil, fmt.Errorf("%w: bundle %s has no version entry", types.ErrDataIntegrity, path)
	}
	if string(version) != FormatVersion {
		return nil, fmt.Errorf("%w: bundle %s has version %q, want %q", types.ErrDataIntegrity, path, string(version), FormatVersion)
	}

	obsDim := int(getUint(entries[bundleObsDimEntry]))
	observations := getFloats(entries[bundleObsEntry])
	actions := getFloats(entries[bundleActionsEntry])
	rewards := getFloats(entries[bundleRewardsEntry])
	lengths := getFloats(entries[bundleLengthsEntry])

	total := 0
	for _, l := range lengths {
		n := int(l)
		if float64(n) != l || n < 0 {
			return nil, fmt.Errorf("%w: bundle %s has invalid episode length %v", types.ErrDataIntegrity, path, l)
		}
		total += n
	}
	if len(actions) != total*2 || len(rewards) != total || len(observations) != total*obsDim {
		return nil, fmt.Errorf("%w: bundle %s arrays misaligned with episode lengths", types.ErrDataIntegrity, path)
	}

	episodes := make([]*types.Episode, len(lengths))
	start := 0
	for i, l := range lengths {
		n := int(l)
		steps := make([]types.TrajectoryStep, n)
		totalReward := 0.0
		for j := 0; j < n; j++ {
			k := start + j
			step := types.TrajectoryStep{
				Action: types.Vec2{X: actions[k*2], Y: actions[k*2+1]},
				Reward: rewards[k],
			}
			if obsDim > 0 {
				step.Observation = types.VectorObservation{
					Values: append([]float64(nil), observations[k*obsDim:(k+1)*obsDim]...),
				}
			}
			totalReward += step.Reward
			steps[j] = step
		}
		episodes[i] = &types.Episode{
			EpisodeID:   i,
			TotalReward: totalReward,
			Length:      n,
			Steps:       steps,
		}
		start += n
	}
	return episodes, nil
}
