package data

import (
	"fmt"

	"github.com/zeu5/pusht-hirl/types"
)

// FormatVersion is the structural version tag written into every artifact.
// Decoders reject artifacts whose tag is absent or unrecognized.
const FormatVersion = "1.0"

// Format enumerates the persisted artifact encodings.
//
// Fidelity:
//   - FormatGob: full observation and metadata fidelity, exact round trip.
//   - FormatBolt: full fidelity via per-step parallel arrays and
//     per-episode attributes, exact round trip.
//   - FormatJSON: full fidelity, images inflate to large nested arrays.
//   - FormatCSV: one row per step, episode scalars denormalized onto every
//     row; image pixels are summarized, not stored.
//   - FormatBundle: compressed numeric arrays only; keeps a reduced vector
//     projection of observations and drops episode-level metadata.
type Format int

const (
	FormatGob Format = iota
	FormatBolt
	FormatJSON
	FormatCSV
	FormatBundle
)

func (f Format) String() string {
	switch f {
	case FormatGob:
		return "gob"
	case FormatBolt:
		return "bolt"
	case FormatJSON:
		return "json"
	case FormatCSV:
		return "csv"
	case FormatBundle:
		return "bundle"
	default:
		return fmt.Sprintf("Format(%d)", int(f))
	}
}

// Ext is the file extension the format persists under.
func (f Format) Ext() string {
	switch f {
	case FormatGob:
		return ".gob"
	case FormatBolt:
		return ".db"
	case FormatJSON:
		return ".json"
	case FormatCSV:
		return ".csv"
	case FormatBundle:
		return ".npz"
	default:
		return ""
	}
}

// ParseFormat maps a configured format name to its Format. Unknown names
// are a configuration error, fatal at startup.
func ParseFormat(name string) (Format, error) {
	switch name {
	case "gob":
		return FormatGob, nil
	case "bolt":
		return FormatBolt, nil
	case "json":
		return FormatJSON, nil
	case "csv":
		return FormatCSV, nil
	case "bundle", "npz":
		return FormatBundle, nil
	default:
		return 0, fmt.Errorf("%w: unknown save format %q (want gob, bolt, json, csv or bundle)", types.ErrConfiguration, name)
	}
}

// FormatByExt resolves a format from an artifact path's extension, used on
// load where the artifact name is the source of truth.
func FormatByExt(ext string) (Format, error) {
	for _, f := range []Format{FormatGob, FormatBolt, FormatJSON, FormatCSV, FormatBundle} {
		if f.Ext() == ext {
			return f, nil
		}
	}
	return 0, fmt.Errorf("%w: no codec for extension %q", types.ErrConfiguration, ext)
}

// Codec is an encode/decode pair for one artifact format. One
// implementation exists per Format; the store selects it once at
// construction.
type Codec interface {
	Encode(path string, episodes []*types.Episode) error
	Decode(path string) ([]*types.Episode, error)
}

func newCodec(f Format) (Codec, error) {
	switch f {
	case FormatGob:
		return &gobCodec{}, nil
	case FormatBolt:
		return &boltCodec{}, nil
	case FormatJSON:
		return &jsonCodec{}, nil
	case FormatCSV:
		return &csvCodec{}, nil
	case FormatBundle:
		return &bundleCodec{}, nil
	default:
		return nil, fmt.Errorf("%w: no codec for format %v", types.ErrConfiguration, f)
	}
}
