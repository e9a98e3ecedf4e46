package data

import (
	"encoding/binary"
	"fmt"
	"math"

	bolt "go.etcd.io/bbolt"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"

	"github.com/zeu5/pusht-hirl/types"
)

// boltCodec is the hierarchical typed binary container: one nested-bucket
// group per episode named by ordinal index, episode scalars stored as
// attribute keys, and a steps sub-bucket holding step-aligned parallel
// arrays. Index i across all arrays refers to the same step, after both
// encode and decode.
type boltCodec struct{}

var _ Codec = &boltCodec{}

const (
	metaBucket   = "meta"
	stepsBucket  = "steps"
	initBucket   = "initial_state"
	infosBucket  = "infos"
	versionKey   = "format_version"
	episodePrefx = "episode_"
)

const (
	obsByteVector    = 0
	obsByteImage     = 1
	obsByteComposite = 2
	obsByteNone      = 3
)

func (c *boltCodec) Encode(path string, episodes []*types.Episode) error {
	db, err := bolt.Open(path, 0600, nil)
	if err != nil {
		return err
	}
	defer db.Close()

	return db.Update(func(tx *bolt.Tx) error {
		meta, err := tx.CreateBucketIfNotExists([]byte(metaBucket))
		if err != nil {
			return err
		}
		if err := meta.Put([]byte(versionKey), []byte(FormatVersion)); err != nil {
			return err
		}
		if err := meta.Put([]byte("total_episodes"), putUint(uint64(len(episodes)))); err != nil {
			return err
		}

		for i, ep := range episodes {
			group, err := tx.CreateBucket([]byte(fmt.Sprintf("%s%06d", episodePrefx, i)))
			if err != nil {
				return err
			}
			if err := encodeEpisodeGroup(group, ep); err != nil {
				return fmt.Errorf("episode %d: %w", ep.EpisodeID, err)
			}
		}
		return nil
	})
}

func encodeEpisodeGroup(group *bolt.Bucket, ep *types.Episode) error {
	// episode scalar metadata as group attributes
	attrs := map[string][]byte{
		"episode_id":   putUint(uint64(ep.EpisodeID)),
		"total_reward": putFloats([]float64{ep.TotalReward}),
		"success":      putBools([]bool{ep.Success}),
		"length":       putUint(uint64(ep.Length)),
	}
	for k, v := range attrs {
		if err := group.Put([]byte(k), v); err != nil {
			return err
		}
	}

	init, err := group.CreateBucket([]byte(initBucket))
	if err != nil {
		return err
	}
	initFields := map[string][]byte{
		"agent_pos":   putFloats([]float64{ep.InitialState.AgentPos.X, ep.InitialState.AgentPos.Y}),
		"block_pos":   putFloats([]float64{ep.InitialState.BlockPos.X, ep.InitialState.BlockPos.Y}),
		"block_angle": putFloats([]float64{ep.InitialState.BlockAngle}),
		"goal_pose":   putFloats(ep.InitialState.GoalPose),
	}
	for k, v := range initFields {
		if err := init.Put([]byte(k), v); err != nil {
			return err
		}
	}

	steps, err := group.CreateBucket([]byte(stepsBucket))
	if err != nil {
		return err
	}
	return encodeStepArrays(steps, ep)
}

func encodeStepArrays(b *bolt.Bucket, ep *types.Episode) error {
	n := len(ep.Steps)
	actions := make([]float64, 0, n*2)
	rewards := make([]float64, 0, n)
	terminated := make([]bool, 0, n)
	truncated := make([]bool, 0, n)
	human := make([]bool, 0, n)

	kind := byte(obsByteNone)
	vectorDim := 0
	imgW, imgH := 0, 0
	if n > 0 {
		kind = obsKindByte(ep.Steps[0].Observation)
		if values, ok := types.FeatureVector(ep.Steps[0].Observation); ok {
			vectorDim = len(values)
		}
		if img, ok := stepImage(ep.Steps[0].Observation); ok {
			imgW, imgH = img.Width, img.Height
		}
	}
	vectors := make([]float64, 0, n*vectorDim)
	pixels := make([]byte, 0, n*imgW*imgH*3)

	infoKeys := make(map[string]struct{})
	for _, step := range ep.Steps {
		for k := range step.Info {
			infoKeys[k] = struct{}{}
		}
	}

	for i, step := range ep.Steps {
		if obsKindByte(step.Observation) != kind {
			return fmt.Errorf("%w: step %d changes observation kind mid-episode", types.ErrDataIntegrity, i)
		}
		if vectorDim > 0 {
			values, _ := types.FeatureVector(step.Observation)
			if len(values) != vectorDim {
				return fmt.Errorf("%w: step %d vector dim %d, episode dim %d", types.ErrDataIntegrity, i, len(values), vectorDim)
			}
			vectors = append(vectors, values...)
		}
		if imgW > 0 {
			img, _ := stepImage(step.Observation)
			if img.Width != imgW || img.Height != imgH {
				return fmt.Errorf("%w: step %d image %dx%d, episode image %dx%d", types.ErrDataIntegrity, i, img.Width, img.Height, imgW, imgH)
			}
			pixels = append(pixels, img.Pixels...)
		}
		actions = append(actions, step.Action.X, step.Action.Y)
		rewards = append(rewards, step.Reward)
		terminated = append(terminated, step.Terminated)
		truncated = append(truncated, step.Truncated)
		human = append(human, step.IsHumanAction)
	}

	arrays := map[string][]byte{
		"obs_kind":        {kind},
		"obs_vector_dim":  putUint(uint64(vectorDim)),
		"obs_image_w":     putUint(uint64(imgW)),
		"obs_image_h":     putUint(uint64(imgH)),
		"observations":    putFloats(vectors),
		"pixels":          pixels,
		"actions":         putFloats(actions),
		"rewards":         putFloats(rewards),
		"terminated":      putBools(terminated),
		"truncated":       putBools(truncated),
		"is_human_action": putBools(human),
	}
	for k, v := range arrays {
		if err := b.Put([]byte(k), v); err != nil {
			return err
		}
	}

	infos, err := b.CreateBucket([]byte(infosBucket))
	if err != nil {
		return err
	}
	keys := maps.Keys(infoKeys)
	slices.Sort(keys)
	for _, key := range keys {
		column := make([]float64, n)
		for i, step := range ep.Steps {
			column[i] = step.Info[key]
		}
		if err := infos.Put([]byte(key), putFloats(column)); err != nil {
			return err
		}
	}
	return nil
}

func (c *boltCodec) Decode(path string) ([]*types.Episode, error) {
	db, err := bolt.Open(path, 0600, &bolt.Options{ReadOnly: true})
	if err != nil {
		return nil, fmt.Errorf("%w: opening container %s: %v", types.ErrDataIntegrity, path, err)
	}
	defer db.Close()

	var episodes []*types.Episode
	err = db.View(func(tx *bolt.Tx) error {
		meta := tx.Bucket([]byte(metaBucket))
		if meta == nil {
			return fmt.Errorf("%w: container %s has no meta group", types.ErrDataIntegrity, path)
		}
		version := string(meta.Get([]byte(versionKey)))
		if version != FormatVersion {
			return fmt.Errorf("%w: container %s has version %q, want %q", types.ErrDataIntegrity, path, version, FormatVersion)
		}

		var names []string
		if err := tx.ForEach(func(name []byte, _ *bolt.Bucket) error {
			if string(name) != metaBucket {
				names = append(names, string(name))
			}
			return nil
		}); err != nil {
			return err
		}
		slices.Sort(names)

		for _, name := range names {
			ep, err := decodeEpisodeGroup(tx.Bucket([]byte(name)), name)
			if err != nil {
				return err
			}
			episodes = append(episodes, ep)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return episodes, nil
}

func decodeEpisodeGroup(group *bolt.Bucket, name string) (*types.Episode, error) {
	ep := &types.Episode{}
	ep.EpisodeID = int(getUint(group.Get([]byte("episode_id"))))
	ep.Length = int(getUint(group.Get([]byte("length"))))
	if rewards := getFloats(group.Get([]byte("total_reward"))); len(rewards) == 1 {
		ep.TotalReward = rewards[0]
	}
	if success := getBools(group.Get([]byte("success"))); len(success) == 1 {
		ep.Success = success[0]
	}

	if init := group.Bucket([]byte(initBucket)); init != nil {
		if pos := getFloats(init.Get([]byte("agent_pos"))); len(pos) == 2 {
			ep.InitialState.AgentPos = types.Vec2{X: pos[0], Y: pos[1]}
		}
		if pos := getFloats(init.Get([]byte("block_pos"))); len(pos) == 2 {
			ep.InitialState.BlockPos = types.Vec2{X: pos[0], Y: pos[1]}
		}
		if angle := getFloats(init.Get([]byte("block_angle"))); len(angle) == 1 {
			ep.InitialState.BlockAngle = angle[0]
		}
		ep.InitialState.GoalPose = getFloats(init.Get([]byte("goal_pose")))
	}

	steps := group.Bucket([]byte(stepsBucket))
	if steps == nil {
		return nil, fmt.Errorf("%w: group %s has no steps sub-group", types.ErrDataIntegrity, name)
	}
	var err error
	ep.Steps, err = decodeStepArrays(steps, name, ep.Length)
	if err != nil {
		return nil, err
	}
	return ep, nil
}

func decodeStepArrays(b *bolt.Bucket, name string, n int) ([]types.TrajectoryStep, error) {
	actions := getFloats(b.Get([]byte("actions")))
	rewards := getFloats(b.Get([]byte("rewards")))
	terminated := getBools(b.Get([]byte("terminated")))
	truncated := getBools(b.Get([]byte("truncated")))
	human := getBools(b.Get([]byte("is_human_action")))

	// alignment invariant: every parallel array covers exactly n steps
	if len(actions) != n*2 || len(rewards) != n || len(terminated) != n || len(truncated) != n || len(human) != n {
		return nil, fmt.Errorf("%w: group %s parallel arrays misaligned (length %d, actions %d, rewards %d, terminated %d, truncated %d, is_human_action %d)",
			types.ErrDataIntegrity, name, n, len(actions)/2, len(rewards), len(terminated), len(truncated), len(human))
	}

	kindRaw := b.Get([]byte("obs_kind"))
	if len(kindRaw) != 1 {
		return nil, fmt.Errorf("%w: group %s missing observation kind", types.ErrDataIntegrity, name)
	}
	kind := kindRaw[0]
	vectorDim := int(getUint(b.Get([]byte("obs_vector_dim"))))
	imgW := int(getUint(b.Get([]byte("obs_image_w"))))
	imgH := int(getUint(b.Get([]byte("obs_image_h"))))
	vectors := getFloats(b.Get([]byte("observations")))
	pixels := b.Get([]byte("pixels"))

	if len(vectors) != n*vectorDim {
		return nil, fmt.Errorf("%w: group %s observation array misaligned", types.ErrDataIntegrity, name)
	}
	if len(pixels) != n*imgW*imgH*3 {
		return nil, fmt.Errorf("%w: group %s pixel array misaligned", types.ErrDataIntegrity, name)
	}

	infoColumns := make(map[string][]float64)
	if infos := b.Bucket([]byte(infosBucket)); infos != nil {
		err := infos.ForEach(func(k, v []byte) error {
			column := getFloats(v)
			if len(column) != n {
				return fmt.Errorf("%w: group %s info column %q misaligned", types.ErrDataIntegrity, name, string(k))
			}
			infoColumns[string(k)] = column
			return nil
		})
		if err != nil {
			return nil, err
		}
	}

	out := make([]types.TrajectoryStep, n)
	for i := 0; i < n; i++ {
		step := types.TrajectoryStep{
			Action:        types.Vec2{X: actions[i*2], Y: actions[i*2+1]},
			Reward:        rewards[i],
			Terminated:    terminated[i],
			Truncated:     truncated[i],
			IsHumanAction: human[i],
		}
		step.Observation = rebuildObservation(kind, vectors, pixels, i, vectorDim, imgW, imgH)
		if len(infoColumns) > 0 {
			step.Info = make(types.Info, len(infoColumns))
			for k, column := range infoColumns {
				step.Info[k] = column[i]
			}
		}
		out[i] = step
	}
	return out, nil
}

func rebuildObservation(kind byte, vectors []float64, pixels []byte, i, dim, w, h int) types.Observation {
	var vec types.VectorObservation
	if dim > 0 {
		vec = types.VectorObservation{Values: append([]float64(nil), vectors[i*dim:(i+1)*dim]...)}
	}
	var img types.ImageObservation
	if w > 0 && h > 0 {
		frame := w * h * 3
		img = types.ImageObservation{
			Width:  w,
			Height: h,
			Pixels: append([]byte(nil), pixels[i*frame:(i+1)*frame]...),
		}
	}
	switch kind {
	case obsByteVector:
		return vec
	case obsByteImage:
		return img
	case obsByteComposite:
		return types.CompositeObservation{Image: img, Vector: vec}
	default:
		return nil
	}
}

func obsKindByte(o types.Observation) byte {
	switch o.(type) {
	case types.VectorObservation:
		return obsByteVector
	case types.ImageObservation:
		return obsByteImage
	case types.CompositeObservation:
		return obsByteComposite
	default:
		return obsByteNone
	}
}

func stepImage(o types.Observation) (types.ImageObservation, bool) {
	switch obs := o.(type) {
	case types.ImageObservation:
		return obs, true
	case types.CompositeObservation:
		return obs.Image, true
	default:
		return types.ImageObservation{}, false
	}
}

// little-endian byte packing for the typed arrays

func putUint(v uint64) []byte {
	out := make([]byte, 8)
	binary.LittleEndian.PutUint64(out, v)
	return out
}

func getUint(bs []byte) uint64 {
	if len(bs) != 8 {
		return 0
	}
	return binary.LittleEndian.Uint64(bs)
}

func putFloats(vs []float64) []byte {
	out := make([]byte, len(vs)*8)
	for i, v := range vs {
		binary.LittleEndian.PutUint64(out[i*8:], math.Float64bits(v))
	}
	return out
}

func getFloats(bs []byte) []float64 {
	if len(bs)%8 != 0 {
		return nil
	}
	out := make([]float64, len(bs)/8)
	for i := range out {
		out[i] = math.Float64frombits(binary.LittleEndian.Uint64(bs[i*8:]))
	}
	return out
}

func putBools(vs []bool) []byte {
	out := make([]byte, len(vs))
	for i, v := range vs {
		if v {
			out[i] = 1
		}
	}
	return out
}

func getBools(bs []byte) []bool {
	out := make([]bool, len(bs))
	for i, b := range bs {
		out[i] = b != 0
	}
	return out
}
