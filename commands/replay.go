package commands

import (
	"github.com/spf13/cobra"

	"github.com/zeu5/pusht-hirl/controllers"
	"github.com/zeu5/pusht-hirl/data"
	"github.com/zeu5/pusht-hirl/display"
	"github.com/zeu5/pusht-hirl/game"
	"github.com/zeu5/pusht-hirl/pusht"
	"github.com/zeu5/pusht-hirl/replay"
)

func ReplayCommand() *cobra.Command {
	var artifact string
	var manual bool
	var headless bool

	cmd := &cobra.Command{
		Use:   "replay",
		Short: "Re-execute episodes from a saved artifact",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReplay(artifact, manual, headless)
		},
	}
	cmd.PersistentFlags().StringVarP(&artifact, "artifact", "a", "", "Path to the saved trajectory artifact")
	cmd.PersistentFlags().BoolVar(&manual, "manual", false, "Advance one step per key press")
	cmd.PersistentFlags().BoolVar(&headless, "headless", false, "Replay without a window")
	cmd.MarkPersistentFlagRequired("artifact")
	return cmd
}

func runReplay(artifact string, manual, headless bool) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	log := newLogger(cfg.LogLevel)

	episodes, err := data.Load(artifact)
	if err != nil {
		return err
	}
	log.Info("artifact loaded", "path", artifact, "episodes", len(episodes))

	// replay only re-applies actions, the cheap observation variant will do
	env, err := pusht.NewEnv(pusht.Config{ObsType: pusht.ObsVector})
	if err != nil {
		return err
	}
	opts := replay.Options{Manual: manual, Bindings: cfg.Control.Keys}

	if headless {
		// no device to press advance on
		opts.Manual = false
		r, err := replay.NewReplayer(env, controllers.NullDevice{}, nil, episodes, opts, log)
		if err != nil {
			return err
		}
		return r.Play(game.ManualClock{})
	}

	window := display.NewWindow("PushT Replay", windowSize, cfg.Control.FPS, env.RenderFrame)
	r, err := replay.NewReplayer(env, window, window, episodes, opts, log)
	if err != nil {
		return err
	}
	defer env.Close()
	return window.Run(r.Tick)
}
