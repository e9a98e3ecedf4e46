package hub

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zeu5/pusht-hirl/types"
)

func writeArtifact(t *testing.T, content string) string {
	t.Helper()
	p := path.Join(t.TempDir(), "trajectories_3episodes.json")
	require.NoError(t, os.WriteFile(p, []byte(content), 0644))
	return p
}

func hubStub(t *testing.T, wantToken string) *httptest.Server {
	t.Helper()
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/api/datasets/upload", func(c *gin.Context) {
		if c.GetHeader("Authorization") != "Bearer "+wantToken {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "bad token"})
			return
		}
		repo := c.PostForm("repo_id")
		file, err := c.FormFile("file")
		if repo == "" || err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "missing fields"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"url": "https://hub.test/" + repo + "/" + file.Filename})
	})
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return srv
}

func TestPushUploadsArtifact(t *testing.T) {
	t.Setenv(TokenEnv, "secret-token")
	srv := hubStub(t, "secret-token")

	client, err := NewClient(srv.URL, nil)
	require.NoError(t, err)

	artifact := writeArtifact(t, `{"format_version":"1.0"}`)
	url, err := client.Push(artifact, "alice/pusht-demos", false)
	require.NoError(t, err)
	assert.Equal(t, "https://hub.test/alice/pusht-demos/trajectories_3episodes.json", url)
}

func TestPushRejectedToken(t *testing.T) {
	t.Setenv(TokenEnv, "wrong-token")
	srv := hubStub(t, "secret-token")

	client, err := NewClient(srv.URL, nil)
	require.NoError(t, err)

	_, err = client.Push(writeArtifact(t, "x"), "alice/pusht-demos", true)
	require.Error(t, err)
	assert.ErrorIs(t, err, types.ErrUpload)
	assert.Contains(t, err.Error(), "401")
}

func TestPushMissingArtifact(t *testing.T) {
	t.Setenv(TokenEnv, "secret-token")
	srv := hubStub(t, "secret-token")

	client, err := NewClient(srv.URL, nil)
	require.NoError(t, err)

	_, err = client.Push(path.Join(t.TempDir(), "nope.json"), "alice/pusht-demos", false)
	assert.ErrorIs(t, err, types.ErrUpload)

	_, err = client.Push(writeArtifact(t, "x"), "", false)
	assert.ErrorIs(t, err, types.ErrUpload)
}

func TestNewClientNeedsToken(t *testing.T) {
	t.Setenv(TokenEnv, "")
	_, err := NewClient("https://hub.test", nil)
	assert.ErrorIs(t, err, types.ErrConfiguration)
}
