package commands

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zeu5/pusht-hirl/data"
	"github.com/zeu5/pusht-hirl/types"
)

func serveEpisodes() []*types.Episode {
	mkStep := func(human bool, coverage float64) types.TrajectoryStep {
		return types.TrajectoryStep{
			Observation:   types.VectorObservation{Values: []float64{1, 2}},
			Action:        types.Vec2{X: 10, Y: 20},
			Reward:        coverage,
			Info:          types.Info{"coverage": coverage},
			IsHumanAction: human,
		}
	}
	return []*types.Episode{
		{
			EpisodeID:   0,
			TotalReward: 0.9,
			Success:     true,
			Length:      2,
			Steps:       []types.TrajectoryStep{mkStep(true, 0.4), mkStep(false, 0.5)},
		},
		{
			EpisodeID:   1,
			TotalReward: 0.2,
			Length:      1,
			Steps:       []types.TrajectoryStep{mkStep(false, 0.2)},
		},
	}
}

func serveGet(t *testing.T, router *gin.Engine, path string) *httptest.ResponseRecorder {
	t.Helper()
	req, err := http.NewRequest(http.MethodGet, path, nil)
	require.NoError(t, err)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestServeStats(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := newServeRouter(serveEpisodes())

	w := serveGet(t, router, "/stats")
	require.Equal(t, http.StatusOK, w.Code)

	var stats data.Statistics
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &stats))
	assert.Equal(t, 2, stats.TotalEpisodes)
	assert.Equal(t, 3, stats.TotalSteps)
	assert.InDelta(t, 0.5, stats.SuccessRate, 1e-9)
	assert.Equal(t, 1, stats.HumanSteps)
}

func TestServeEpisodeList(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := newServeRouter(serveEpisodes())

	w := serveGet(t, router, "/episodes")
	require.Equal(t, http.StatusOK, w.Code)

	var summaries []episodeSummary
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &summaries))
	require.Len(t, summaries, 2)
	assert.True(t, summaries[0].Success)
	assert.Equal(t, 1, summaries[0].HumanSteps)
	assert.InDelta(t, 0.5, summaries[0].Coverage, 1e-9)
	assert.Equal(t, 1, summaries[1].EpisodeID)
}

func TestServeEpisodeByID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := newServeRouter(serveEpisodes())

	w := serveGet(t, router, "/episodes/1")
	require.Equal(t, http.StatusOK, w.Code)
	var ep struct {
		EpisodeID int `json:"episode_id"`
		Length    int `json:"length"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &ep))
	assert.Equal(t, 1, ep.EpisodeID)
	assert.Equal(t, 1, ep.Length)

	assert.Equal(t, http.StatusNotFound, serveGet(t, router, "/episodes/7").Code)
	assert.Equal(t, http.StatusBadRequest, serveGet(t, router, "/episodes/seven").Code)
}
