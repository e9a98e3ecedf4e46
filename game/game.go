package game

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"path"
	"time"

	"github.com/google/uuid"

	"github.com/zeu5/pusht-hirl/controllers"
	"github.com/zeu5/pusht-hirl/data"
	"github.com/zeu5/pusht-hirl/types"
	"github.com/zeu5/pusht-hirl/util"
)

// State of the episode lifecycle machine.
type State int

const (
	StateIdle State = iota
	StateCountdown
	StateStepping
	StateResetting
	StateTerminating
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateCountdown:
		return "countdown"
	case StateStepping:
		return "stepping"
	case StateResetting:
		return "resetting"
	case StateTerminating:
		return "terminating"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// SessionConfig wires the session's collaborators.
type SessionConfig struct {
	Config      Config
	Environment types.Environment
	Device      controllers.Device
	Arbiter     *controllers.Arbiter
	Store       *data.Store
	Renderer    types.Renderer
	Uploader    types.Uploader
	Clock       Clock
	Logger      *slog.Logger
}

// Session runs the interactive collection loop: a single-threaded,
// fixed-rate tick machine alternating control between the human operator
// and the autonomous policy, recording every step. One Tick is one
// environment step; rendering and stepping are serialized on the caller's
// thread.
type Session struct {
	cfg      Config
	env      types.Environment
	device   controllers.Device
	arbiter  *controllers.Arbiter
	recorder *types.EpisodeRecorder
	store    *data.Store
	renderer types.Renderer
	uploader types.Uploader
	clock    Clock
	log      *slog.Logger

	sessionID     string
	state         State
	nextEpisodeID int
	stepCount     int
	episodeReward float64
	countdown     int
	currentObs    types.Observation
	artifactPath  string
	err           error
}

func NewSession(sc *SessionConfig) *Session {
	log := sc.Logger
	if log == nil {
		log = slog.Default()
	}
	renderer := sc.Renderer
	if renderer == nil {
		renderer = types.NopRenderer{}
	}
	clock := sc.Clock
	if clock == nil {
		clock = NewFixedClock(sc.Config.Control.FPS)
	}
	return &Session{
		cfg:       sc.Config,
		env:       sc.Environment,
		device:    sc.Device,
		arbiter:   sc.Arbiter,
		recorder:  types.NewEpisodeRecorder(),
		store:     sc.Store,
		renderer:  renderer,
		uploader:  sc.Uploader,
		clock:     clock,
		log:       log,
		sessionID: uuid.NewString(),
		state:     StateIdle,
	}
}

func (s *Session) State() State {
	return s.state
}

// ArtifactPath is the saved artifact location after termination, empty if
// nothing was saved.
func (s *Session) ArtifactPath() string {
	return s.artifactPath
}

// Run drives the tick loop to completion.
func (s *Session) Run() error {
	s.log.Info("collection session started",
		"session", s.sessionID,
		"episodes", s.cfg.Data.NumEpisodes,
		"format", s.cfg.Data.Format,
		"input", s.cfg.Control.InputMode)
	for {
		s.clock.Tick()
		done, err := s.Tick()
		if done {
			return err
		}
	}
}

// Tick advances the state machine by one step. It reports done once the
// machine has reached its terminal state and finished flushing.
func (s *Session) Tick() (bool, error) {
	if s.state == StateTerminating {
		return true, s.err
	}

	var err error
	switch s.state {
	case StateIdle:
		err = s.openEpisode(true)
	case StateResetting:
		err = s.openEpisode(false)
	case StateCountdown:
		s.tickCountdown()
	case StateStepping:
		err = s.tickStep()
	}
	if err != nil {
		s.fail(err)
		return true, s.err
	}
	if s.state == StateTerminating {
		s.err = s.finish()
		return true, s.err
	}
	return false, nil
}

// openEpisode resets the environment and opens a fresh buffer, entering
// Countdown under human control and Stepping otherwise. From Idle the
// episode quota is checked first; a mid-session reset skips the check.
func (s *Session) openEpisode(checkQuota bool) error {
	if checkQuota && s.store.Len() >= s.cfg.Data.NumEpisodes {
		s.log.Info("episode quota reached", "episodes", s.store.Len())
		s.state = StateTerminating
		return nil
	}

	obs, initial, info, err := s.env.Reset()
	if err != nil {
		return fmt.Errorf("%w: reset failed: %v", types.ErrEnvironment, err)
	}
	if err := s.recorder.Begin(s.nextEpisodeID, initial); err != nil {
		return err
	}
	s.log.Info("episode opened", "episode", s.nextEpisodeID, "human", s.arbiter.HumanActive())
	s.nextEpisodeID++
	s.stepCount = 0
	s.episodeReward = 0
	s.currentObs = obs
	s.renderer.Render(obs, s.overlay(info))

	if s.arbiter.HumanActive() && s.cfg.Control.CountdownTicks > 0 {
		s.countdown = s.cfg.Control.CountdownTicks
		s.state = StateCountdown
	} else {
		s.state = StateStepping
	}
	return nil
}

// tickCountdown burns one preparation tick. Only the quit signal can
// interrupt it; the in-progress buffer is discarded on quit.
func (s *Session) tickCountdown() {
	st := s.device.Poll()
	if s.arbiter.QuitRequested(st) {
		s.recorder.Abandon()
		s.log.Info("quit during countdown, episode discarded")
		s.state = StateTerminating
		return
	}
	s.renderer.Render(s.currentObs, fmt.Sprintf("Starting in %d", s.countdown))
	s.countdown--
	if s.countdown <= 0 {
		s.state = StateStepping
	}
}

func (s *Session) tickStep() error {
	st := s.device.Poll()
	cmd := s.arbiter.Resolve(st)

	switch cmd {
	case controllers.CommandQuit:
		// partial episode: sealed, never successful, still persisted
		ep, err := s.recorder.Seal(false)
		if err != nil {
			return err
		}
		s.store.Add(ep)
		s.log.Info("quit requested, partial episode sealed", "episode", ep.EpisodeID, "length", ep.Length)
		s.state = StateTerminating
		return nil

	case controllers.CommandReset:
		// intentional discard, nothing persisted
		s.recorder.Abandon()
		s.log.Info("operator reset, episode discarded")
		s.state = StateResetting
		return nil
	}

	// provenance flag sampled after command resolution, before the step:
	// a toggle honored this tick already drives this step's tag
	human := s.arbiter.HumanActive()

	target := s.env.AgentPosition() // hold position unless someone moves
	if cmd == controllers.CommandNone {
		if t, ok := s.arbiter.Action(st, s.currentObs, target); ok {
			target = t
		}
	}

	res, err := s.env.Step(target)
	if err != nil {
		return fmt.Errorf("%w: step failed: %v", types.ErrEnvironment, err)
	}
	if err := s.recorder.Record(types.TrajectoryStep{
		Observation:   res.Observation,
		Action:        target,
		Reward:        res.Reward,
		Terminated:    res.Terminated,
		Truncated:     res.Truncated,
		Info:          res.Info,
		IsHumanAction: human,
	}); err != nil {
		return err
	}
	s.currentObs = res.Observation
	s.episodeReward += res.Reward
	s.stepCount++
	s.renderer.Render(res.Observation, s.overlay(res.Info))

	maxReached := s.stepCount >= s.cfg.Env.MaxEpisodeSteps
	if res.Terminated || res.Truncated || maxReached {
		// reaching max steps truncates the episode but never decides the
		// outcome by itself
		success := res.Info.IsSuccess() || res.Info.Coverage() >= s.cfg.Env.SuccessThreshold
		if maxReached && !res.Terminated && !res.Truncated {
			s.log.Info("max steps reached", "episode", s.nextEpisodeID-1, "steps", s.stepCount)
		}
		ep, err := s.recorder.Seal(success)
		if err != nil {
			return err
		}
		s.store.Add(ep)
		s.log.Info("episode finished",
			"episode", ep.EpisodeID,
			"steps", ep.Length,
			"reward", ep.TotalReward,
			"coverage", res.Info.Coverage(),
			"success", ep.Success)
		s.state = StateIdle
	}
	return nil
}

func (s *Session) overlay(info types.Info) string {
	mode := "AI Control"
	if s.arbiter.HumanActive() {
		mode = "Human Control"
	}
	return fmt.Sprintf("Ep %d | Step %d | Reward %.3f | Coverage %.3f | %s",
		s.nextEpisodeID-1, s.stepCount, s.episodeReward, info.Coverage(), mode)
}

// fail handles an environment failure: the open buffer is sealed as a
// failed partial episode and the store is flushed best effort before the
// original error propagates.
func (s *Session) fail(cause error) {
	s.log.Error("session aborted", "err", cause)
	if s.recorder.Open() {
		if ep, err := s.recorder.Seal(false); err == nil {
			s.store.Add(ep)
			s.log.Info("interrupted episode sealed", "episode", ep.EpisodeID, "length", ep.Length)
		}
	}
	if err := s.finish(); err != nil {
		s.log.Error("flush after failure also failed", "err", err)
	}
	s.state = StateTerminating
	s.err = cause
}

// finish flushes the store, reports statistics, fires the upload and
// releases the environment. Upload failure is logged and isolated; the
// local artifact stays valid.
func (s *Session) finish() error {
	defer s.env.Close()

	stats := s.store.Statistics()
	s.log.Info("session finished", "session", s.sessionID, "stats", stats.String())
	if s.store.Len() == 0 {
		s.log.Info("no episodes collected, nothing to save")
		return nil
	}

	artifact, err := s.store.Save(s.cfg.Data.DatasetName)
	if err != nil {
		s.log.Error("saving trajectory data failed, episodes kept in memory", "err", err)
		return err
	}
	s.artifactPath = artifact
	s.recordSummary(artifact, stats)

	if s.uploader != nil && s.cfg.Upload.AutoUpload {
		url, err := s.uploader.Push(artifact, s.cfg.Upload.RepoID, s.cfg.Upload.Private)
		if err != nil {
			s.log.Error("upload failed, local artifact unaffected", "err", err)
		} else {
			s.log.Info("artifact uploaded", "url", url)
		}
	}
	return nil
}

func (s *Session) recordSummary(artifact string, stats data.Statistics) {
	summary := map[string]interface{}{
		"session_id":  s.sessionID,
		"finished_at": time.Now().Format(time.RFC3339),
		"artifact":    artifact,
		"format":      s.store.Format().String(),
		"stats":       stats,
	}
	bs, err := json.Marshal(summary)
	if err != nil {
		return
	}
	file := path.Join(s.cfg.Data.SaveDir, "sessions.jsonl")
	if err := util.AppendToFile(file, string(bs)); err != nil {
		s.log.Warn("recording session summary failed", "err", err)
	}
}
