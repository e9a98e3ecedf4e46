package commands

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"github.com/zeu5/pusht-hirl/data"
	"github.com/zeu5/pusht-hirl/types"
)

func ServeCommand() *cobra.Command {
	var artifact string
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve a saved artifact for inspection over HTTP",
		RunE: func(cmd *cobra.Command, args []string) error {
			episodes, err := data.Load(artifact)
			if err != nil {
				return err
			}
			log := newLogger(logLevel)
			log.Info("serving artifact", "path", artifact, "episodes", len(episodes), "addr", addr)
			gin.SetMode(gin.ReleaseMode)
			return newServeRouter(episodes).Run(addr)
		},
	}
	cmd.PersistentFlags().StringVarP(&artifact, "artifact", "a", "", "Path to the saved trajectory artifact")
	cmd.PersistentFlags().StringVar(&addr, "addr", "localhost:8090", "Listen address")
	cmd.MarkPersistentFlagRequired("artifact")
	return cmd
}

type episodeSummary struct {
	EpisodeID   int     `json:"episode_id"`
	Length      int     `json:"length"`
	TotalReward float64 `json:"total_reward"`
	Success     bool    `json:"success"`
	Coverage    float64 `json:"final_coverage"`
	HumanSteps  int     `json:"human_steps"`
}

// newServeRouter exposes a read-only view of the loaded episodes.
func newServeRouter(episodes []*types.Episode) *gin.Engine {
	byID := make(map[int]*types.Episode, len(episodes))
	for _, ep := range episodes {
		byID[ep.EpisodeID] = ep
	}

	r := gin.New()
	r.Use(gin.Recovery())

	r.GET("/stats", func(c *gin.Context) {
		c.JSON(http.StatusOK, data.ComputeStatistics(episodes))
	})
	r.GET("/episodes", func(c *gin.Context) {
		summaries := make([]episodeSummary, len(episodes))
		for i, ep := range episodes {
			humanSteps := 0
			for _, step := range ep.Steps {
				if step.IsHumanAction {
					humanSteps++
				}
			}
			summaries[i] = episodeSummary{
				EpisodeID:   ep.EpisodeID,
				Length:      ep.Length,
				TotalReward: ep.TotalReward,
				Success:     ep.Success,
				Coverage:    ep.FinalCoverage(),
				HumanSteps:  humanSteps,
			}
		}
		c.JSON(http.StatusOK, summaries)
	})
	r.GET("/episodes/:id", func(c *gin.Context) {
		id, err := strconv.Atoi(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "episode id must be an integer"})
			return
		}
		ep, ok := byID[id]
		if !ok {
			c.JSON(http.StatusNotFound, gin.H{"error": "no such episode"})
			return
		}
		c.JSON(http.StatusOK, ep)
	})
	return r
}
