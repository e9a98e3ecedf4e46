package data

import (
	"fmt"
	"log/slog"
	"os"
	"path"
	"path/filepath"

	"github.com/zeu5/pusht-hirl/types"
)

// Store accumulates sealed episodes over a session and persists them as a
// single artifact in the configured format. The store exclusively owns
// episodes handed to it; it is mutated only by the session's control
// thread, so no locking.
type Store struct {
	dir      string
	format   Format
	codec    Codec
	episodes []*types.Episode
	log      *slog.Logger
}

func NewStore(dir string, format Format, log *slog.Logger) (*Store, error) {
	if log == nil {
		log = slog.Default()
	}
	codec, err := newCodec(format)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("%w: creating save dir %s: %v", types.ErrPersistence, dir, err)
	}
	return &Store{
		dir:    dir,
		format: format,
		codec:  codec,
		log:    log,
	}, nil
}

// Add takes ownership of a sealed episode.
func (s *Store) Add(ep *types.Episode) {
	s.episodes = append(s.episodes, ep)
	s.log.Debug("episode stored",
		"episode", ep.EpisodeID,
		"length", ep.Length,
		"reward", ep.TotalReward,
		"success", ep.Success)
}

func (s *Store) Len() int {
	return len(s.episodes)
}

func (s *Store) Episodes() []*types.Episode {
	return s.episodes
}

func (s *Store) Format() Format {
	return s.format
}

// Save encodes all held episodes to <dir>/<name><ext> and returns the
// artifact path. Episodes stay in memory on failure so the caller can
// retry.
func (s *Store) Save(name string) (string, error) {
	if name == "" {
		name = fmt.Sprintf("trajectories_%depisodes", len(s.episodes))
	}
	artifact := path.Join(s.dir, name+s.format.Ext())
	if err := s.codec.Encode(artifact, s.episodes); err != nil {
		return "", fmt.Errorf("%w: encoding %s: %v", types.ErrPersistence, artifact, err)
	}
	s.log.Info("trajectory data saved", "path", artifact, "format", s.format.String(), "episodes", len(s.episodes))
	return artifact, nil
}

// Load decodes an artifact back into episodes, resolving the codec from
// the file extension. The loaded data is format-lossy per the fidelity
// notes on Format; structural problems abort with no partial result.
func Load(artifact string) ([]*types.Episode, error) {
	format, err := FormatByExt(filepath.Ext(artifact))
	if err != nil {
		return nil, err
	}
	codec, err := newCodec(format)
	if err != nil {
		return nil, err
	}
	return codec.Decode(artifact)
}

// Statistics derives the session summary over all stored episodes.
func (s *Store) Statistics() Statistics {
	return ComputeStatistics(s.episodes)
}
