// Package hub pushes saved trajectory artifacts to a dataset-hosting
// service over HTTP.
package hub

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"

	"github.com/zeu5/pusht-hirl/types"
)

const (
	// TokenEnv carries the write token, read from the process environment
	// or a local .env file.
	TokenEnv = "HUB_TOKEN"

	uploadPath = "/api/datasets/upload"
)

type Client struct {
	baseURL string
	token   string
	http    *http.Client
	log     *slog.Logger
}

var _ types.Uploader = &Client{}

// NewClient reads the write token and prepares an uploader against the
// given service base URL. A missing token is a configuration error; no
// anonymous uploads.
func NewClient(baseURL string, log *slog.Logger) (*Client, error) {
	if log == nil {
		log = slog.Default()
	}
	// .env is optional, the process environment wins
	_ = godotenv.Load()
	token := os.Getenv(TokenEnv)
	if token == "" {
		return nil, fmt.Errorf("%w: %s is not set", types.ErrConfiguration, TokenEnv)
	}
	if baseURL == "" {
		return nil, fmt.Errorf("%w: hub base URL is empty", types.ErrConfiguration)
	}
	return &Client{
		baseURL: baseURL,
		token:   token,
		http:    &http.Client{Timeout: 2 * time.Minute},
		log:     log,
	}, nil
}

// Push uploads the artifact at localPath into the named dataset repo and
// returns the hosted URL. Failures never touch the local artifact.
func (c *Client) Push(localPath string, repoID string, private bool) (string, error) {
	if repoID == "" {
		return "", fmt.Errorf("%w: repo id is empty", types.ErrUpload)
	}
	file, err := os.Open(localPath)
	if err != nil {
		return "", fmt.Errorf("%w: opening artifact: %v", types.ErrUpload, err)
	}
	defer file.Close()

	pr, pw := io.Pipe()
	form := multipart.NewWriter(pw)
	go func() {
		err := writeForm(form, file, filepath.Base(localPath), repoID, private)
		if cerr := form.Close(); err == nil {
			err = cerr
		}
		pw.CloseWithError(err)
	}()

	req, err := http.NewRequest(http.MethodPost, c.baseURL+uploadPath, pr)
	if err != nil {
		return "", fmt.Errorf("%w: %v", types.ErrUpload, err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Content-Type", form.FormDataContentType())

	c.log.Info("uploading artifact", "path", localPath, "repo", repoID, "private", private)
	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", types.ErrUpload, err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", fmt.Errorf("%w: server returned %s: %s", types.ErrUpload, resp.Status, body)
	}

	var reply struct {
		URL string `json:"url"`
	}
	if err := json.Unmarshal(body, &reply); err != nil || reply.URL == "" {
		return "", fmt.Errorf("%w: malformed upload response: %s", types.ErrUpload, body)
	}
	return reply.URL, nil
}

func writeForm(form *multipart.Writer, file io.Reader, name, repoID string, private bool) error {
	if err := form.WriteField("repo_id", repoID); err != nil {
		return err
	}
	if err := form.WriteField("private", fmt.Sprintf("%t", private)); err != nil {
		return err
	}
	part, err := form.CreateFormFile("file", name)
	if err != nil {
		return err
	}
	_, err = io.Copy(part, file)
	return err
}
