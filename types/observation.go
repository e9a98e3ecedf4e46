package types

// Observation is the sensory payload recorded at each step. The concrete
// variant is fixed by the environment's observation type when an episode
// opens and is not re-probed per step.
type Observation interface {
	// Clone returns a deep copy. Steps are immutable once recorded, so the
	// recorder clones observations handed to it by the environment.
	Clone() Observation

	sealed()
}

// VectorObservation is a flat feature vector, e.g. agent and block poses.
type VectorObservation struct {
	Values []float64 `json:"values"`
}

func (o VectorObservation) Clone() Observation {
	values := make([]float64, len(o.Values))
	copy(values, o.Values)
	return VectorObservation{Values: values}
}

func (o VectorObservation) sealed() {}

// ImageObservation is an RGB frame. Pixels are row-major triplets of
// length Width*Height*3.
type ImageObservation struct {
	Width  int    `json:"width"`
	Height int    `json:"height"`
	Pixels []byte `json:"pixels"`
}

func (o ImageObservation) Clone() Observation {
	pixels := make([]byte, len(o.Pixels))
	copy(pixels, o.Pixels)
	return ImageObservation{Width: o.Width, Height: o.Height, Pixels: pixels}
}

func (o ImageObservation) sealed() {}

// CompositeObservation carries both a frame and a feature vector, matching
// the pixels_agent_pos observation type of the environment.
type CompositeObservation struct {
	Image  ImageObservation  `json:"image"`
	Vector VectorObservation `json:"vector"`
}

func (o CompositeObservation) Clone() Observation {
	img := o.Image.Clone().(ImageObservation)
	vec := o.Vector.Clone().(VectorObservation)
	return CompositeObservation{Image: img, Vector: vec}
}

func (o CompositeObservation) sealed() {}

// FeatureVector extracts the vector part of an observation, if any.
// Image-only observations have no vector projection.
func FeatureVector(o Observation) ([]float64, bool) {
	switch obs := o.(type) {
	case VectorObservation:
		return obs.Values, true
	case CompositeObservation:
		return obs.Vector.Values, true
	default:
		return nil, false
	}
}
