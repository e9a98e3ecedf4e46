package commands

import (
	"github.com/spf13/cobra"

	"github.com/zeu5/pusht-hirl/controllers"
	"github.com/zeu5/pusht-hirl/data"
	"github.com/zeu5/pusht-hirl/display"
	"github.com/zeu5/pusht-hirl/game"
	"github.com/zeu5/pusht-hirl/hub"
	"github.com/zeu5/pusht-hirl/policies"
	"github.com/zeu5/pusht-hirl/pusht"
	"github.com/zeu5/pusht-hirl/types"
)

const windowSize = 512

func CollectCommand() *cobra.Command {
	var headless bool
	var frameDir string

	cmd := &cobra.Command{
		Use:   "collect",
		Short: "Run a trajectory collection session",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCollect(headless, frameDir)
		},
	}
	cmd.PersistentFlags().BoolVar(&headless, "headless", false, "Collect without a window, autonomous policy only")
	cmd.PersistentFlags().StringVar(&frameDir, "dump-frames", "", "Dump observation frames as PNGs into this directory (headless)")
	return cmd
}

func runCollect(headless bool, frameDir string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	log := newLogger(cfg.LogLevel)

	env, err := pusht.NewEnv(pusht.Config{
		ObsType:         cfg.Env.ObsType,
		Seed:            int64(cfg.Env.Seed),
		SuccessCoverage: cfg.Env.SuccessThreshold,
	})
	if err != nil {
		return err
	}
	source, err := cfg.InputSource(env.ActionSpace())
	if err != nil {
		return err
	}
	saveFormat, err := data.ParseFormat(cfg.Data.Format)
	if err != nil {
		return err
	}
	store, err := data.NewStore(cfg.Data.SaveDir, saveFormat, log)
	if err != nil {
		return err
	}
	var uploader types.Uploader
	if cfg.Upload.AutoUpload {
		uploader, err = hub.NewClient(cfg.Upload.Endpoint, log)
		if err != nil {
			return err
		}
	}
	policy := buildPolicy(cfg, env)

	if headless {
		var renderer types.Renderer
		if frameDir != "" {
			renderer, err = display.NewFrameDumpRenderer(frameDir, 10, log)
			if err != nil {
				return err
			}
		}
		arbiter := controllers.NewArbiter(source, policy, cfg.Control.Keys, false, log)
		sess := game.NewSession(&game.SessionConfig{
			Config:      cfg,
			Environment: env,
			Device:      controllers.NullDevice{},
			Arbiter:     arbiter,
			Store:       store,
			Renderer:    renderer,
			Uploader:    uploader,
			Clock:       game.ManualClock{},
			Logger:      log,
		})
		return sess.Run()
	}

	// the window paces the ticks, so the session clock stays manual
	window := display.NewWindow("PushT Collection", windowSize, cfg.Control.FPS, env.RenderFrame)
	arbiter := controllers.NewArbiter(source, policy, cfg.Control.Keys, cfg.Control.HumanControl, log)
	sess := game.NewSession(&game.SessionConfig{
		Config:      cfg,
		Environment: env,
		Device:      window,
		Arbiter:     arbiter,
		Store:       store,
		Renderer:    window,
		Uploader:    uploader,
		Clock:       game.ManualClock{},
		Logger:      log,
	})
	return window.Run(sess.Tick)
}

func buildPolicy(cfg game.Config, env *pusht.Env) types.Policy {
	if cfg.Policy.Type == "greedy" {
		goal, _ := env.Goal()
		return policies.NewGreedyPushPolicy(env.ActionSpace(), goal)
	}
	return policies.NewRandomPolicy(env.ActionSpace(), cfg.Policy.Seed)
}
