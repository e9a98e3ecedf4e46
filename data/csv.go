package data

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"

	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"

	"github.com/zeu5/pusht-hirl/types"
)

// csvCodec is the tabular encoding: one row per step, with the episode
// scalars denormalized onto every row so the file is self-describing
// without a join. Vector observations flatten to named columns; image
// pixels are summarized (dimensions and mean intensity), not stored, so
// the format is lossy for image data. Episodes with zero steps produce no
// rows.
type csvCodec struct{}

var _ Codec = &csvCodec{}

var csvFixedHeader = []string{
	"format_version", "episode_id", "step_idx",
	"action_x", "action_y", "reward", "terminated", "truncated", "is_human_action",
	"episode_total_reward", "episode_success", "episode_length",
	"init_agent_x", "init_agent_y", "init_block_x", "init_block_y", "init_block_angle",
	"init_goal_x", "init_goal_y", "init_goal_angle",
}

func (c *csvCodec) Encode(path string, episodes []*types.Episode) error {
	vectorDim := 0
	hasImage := false
	infoKeys := make(map[string]struct{})
	for _, ep := range episodes {
		for _, step := range ep.Steps {
			if values, ok := types.FeatureVector(step.Observation); ok && len(values) > vectorDim {
				vectorDim = len(values)
			}
			if _, ok := stepImage(step.Observation); ok {
				hasImage = true
			}
			for k := range step.Info {
				infoKeys[k] = struct{}{}
			}
		}
	}
	sortedInfoKeys := maps.Keys(infoKeys)
	slices.Sort(sortedInfoKeys)

	header := append([]string{}, csvFixedHeader...)
	for i := 0; i < vectorDim; i++ {
		header = append(header, fmt.Sprintf("obs_%d", i))
	}
	if hasImage {
		header = append(header, "obs_img_w", "obs_img_h", "obs_img_mean")
	}
	for _, k := range sortedInfoKeys {
		header = append(header, "info_"+k)
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(header); err != nil {
		return err
	}
	for _, ep := range episodes {
		goal := ep.InitialState.GoalPose
		for len(goal) < 3 {
			goal = append(goal, 0)
		}
		for idx, step := range ep.Steps {
			row := []string{
				FormatVersion,
				strconv.Itoa(ep.EpisodeID),
				strconv.Itoa(idx),
				formatFloat(step.Action.X), formatFloat(step.Action.Y),
				formatFloat(step.Reward),
				strconv.FormatBool(step.Terminated),
				strconv.FormatBool(step.Truncated),
				strconv.FormatBool(step.IsHumanAction),
				formatFloat(ep.TotalReward),
				strconv.FormatBool(ep.Success),
				strconv.Itoa(ep.Length),
				formatFloat(ep.InitialState.AgentPos.X), formatFloat(ep.InitialState.AgentPos.Y),
				formatFloat(ep.InitialState.BlockPos.X), formatFloat(ep.InitialState.BlockPos.Y),
				formatFloat(ep.InitialState.BlockAngle),
				formatFloat(goal[0]), formatFloat(goal[1]), formatFloat(goal[2]),
			}
			values, _ := types.FeatureVector(step.Observation)
			for i := 0; i < vectorDim; i++ {
				if i < len(values) {
					row = append(row, formatFloat(values[i]))
				} else {
					row = append(row, "")
				}
			}
			if hasImage {
				if img, ok := stepImage(step.Observation); ok {
					row = append(row,
						strconv.Itoa(img.Width),
						strconv.Itoa(img.Height),
						formatFloat(meanIntensity(img.Pixels)))
				} else {
					row = append(row, "", "", "")
				}
			}
			for _, k := range sortedInfoKeys {
				if v, ok := step.Info[k]; ok {
					row = append(row, formatFloat(v))
				} else {
					row = append(row, "")
				}
			}
			if err := w.Write(row); err != nil {
				return err
			}
		}
	}
	w.Flush()
	return w.Error()
}

func (c *csvCodec) Decode(path string) ([]*types.Episode, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	records, err := csv.NewReader(f).ReadAll()
	if err != nil {
		return nil, fmt.Errorf("%w: reading csv artifact %s: %v", types.ErrDataIntegrity, path, err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("%w: csv artifact %s has no header", types.ErrDataIntegrity, path)
	}

	col := make(map[string]int, len(records[0]))
	for i, name := range records[0] {
		col[name] = i
	}
	if _, ok := col["format_version"]; !ok {
		return nil, fmt.Errorf("%w: csv artifact %s has no format_version column", types.ErrDataIntegrity, path)
	}
	var vectorCols []int
	for i, name := range records[0] {
		if len(name) > 4 && name[:4] == "obs_" && name != "obs_img_w" && name != "obs_img_h" && name != "obs_img_mean" {
			vectorCols = append(vectorCols, i)
		}
	}
	var infoNames []string
	for _, name := range records[0] {
		if len(name) > 5 && name[:5] == "info_" {
			infoNames = append(infoNames, name)
		}
	}

	var episodes []*types.Episode
	byID := make(map[int]*types.Episode)
	for rowIdx, row := range records[1:] {
		get := func(name string) string { return row[col[name]] }
		if get("format_version") != FormatVersion {
			return nil, fmt.Errorf("%w: csv artifact %s row %d has version %q, want %q",
				types.ErrDataIntegrity, path, rowIdx+1, get("format_version"), FormatVersion)
		}
		id, err := strconv.Atoi(get("episode_id"))
		if err != nil {
			return nil, fmt.Errorf("%w: csv artifact %s row %d: bad episode_id: %v", types.ErrDataIntegrity, path, rowIdx+1, err)
		}
		ep, ok := byID[id]
		if !ok {
			ep = &types.Episode{
				EpisodeID:   id,
				TotalReward: parseFloat(get("episode_total_reward")),
				Success:     get("episode_success") == "true",
				Length:      parseInt(get("episode_length")),
				InitialState: types.InitialState{
					AgentPos:   types.Vec2{X: parseFloat(get("init_agent_x")), Y: parseFloat(get("init_agent_y"))},
					BlockPos:   types.Vec2{X: parseFloat(get("init_block_x")), Y: parseFloat(get("init_block_y"))},
					BlockAngle: parseFloat(get("init_block_angle")),
					GoalPose:   []float64{parseFloat(get("init_goal_x")), parseFloat(get("init_goal_y")), parseFloat(get("init_goal_angle"))},
				},
			}
			byID[id] = ep
			episodes = append(episodes, ep)
		}

		step := types.TrajectoryStep{
			Action:        types.Vec2{X: parseFloat(get("action_x")), Y: parseFloat(get("action_y"))},
			Reward:        parseFloat(get("reward")),
			Terminated:    get("terminated") == "true",
			Truncated:     get("truncated") == "true",
			IsHumanAction: get("is_human_action") == "true",
		}
		var values []float64
		for _, ci := range vectorCols {
			if row[ci] != "" {
				values = append(values, parseFloat(row[ci]))
			}
		}
		if len(values) > 0 {
			// image pixels were summarized away; only the vector projection
			// survives the tabular round trip
			step.Observation = types.VectorObservation{Values: values}
		}
		for _, name := range infoNames {
			if row[col[name]] != "" {
				if step.Info == nil {
					step.Info = make(types.Info)
				}
				step.Info[name[5:]] = parseFloat(row[col[name]])
			}
		}
		ep.Steps = append(ep.Steps, step)
	}
	return episodes, nil
}

func meanIntensity(pixels []byte) float64 {
	if len(pixels) == 0 {
		return 0
	}
	sum := 0.0
	for _, p := range pixels {
		sum += float64(p)
	}
	return sum / float64(len(pixels))
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

func parseFloat(s string) float64 {
	v, _ := strconv.ParseFloat(s, 64)
	return v
}

func parseInt(s string) int {
	v, _ := strconv.Atoi(s)
	return v
}
