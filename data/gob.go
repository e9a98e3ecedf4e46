package data

import (
	"encoding/gob"
	"fmt"
	"os"

	"github.com/zeu5/pusht-hirl/types"
)

func init() {
	// observation variants travel through the gob stream as interface values
	gob.Register(types.VectorObservation{})
	gob.Register(types.ImageObservation{})
	gob.Register(types.CompositeObservation{})
}

// gobArtifact is the on-disk shape of the binary object snapshot: the
// episode list serialized as-is behind a version tag.
type gobArtifact struct {
	Version  string
	Episodes []*types.Episode
}

// gobCodec is the binary object snapshot: arbitrary nested structure,
// full fidelity, exact round trip.
type gobCodec struct{}

var _ Codec = &gobCodec{}

func (c *gobCodec) Encode(path string, episodes []*types.Episode) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	return gob.NewEncoder(f).Encode(gobArtifact{
		Version:  FormatVersion,
		Episodes: episodes,
	})
}

func (c *gobCodec) Decode(path string) ([]*types.Episode, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var artifact gobArtifact
	if err := gob.NewDecoder(f).Decode(&artifact); err != nil {
		return nil, fmt.Errorf("%w: decoding gob artifact %s: %v", types.ErrDataIntegrity, path, err)
	}
	if artifact.Version != FormatVersion {
		return nil, fmt.Errorf("%w: gob artifact %s has version %q, want %q", types.ErrDataIntegrity, path, artifact.Version, FormatVersion)
	}
	return artifact.Episodes, nil
}
