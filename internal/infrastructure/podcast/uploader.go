package podcast

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/robcarv/news-colletector/internal/config"
	"github.com/robcarv/news-colletector/internal/ports"
)

// Uploader pushes compiled episodes to a podcast host that speaks the
// client-credentials flow: fetch a bearer token, register the episode,
// then upload the file.
type Uploader struct {
	tokenURL     string
	uploadURL    string
	clientID     string
	clientSecret string
	httpClient   *http.Client
}

var _ ports.Uploader = (*Uploader)(nil)

// NewUploader builds an uploader from configuration.
func NewUploader(cfg config.PodcastConfig) *Uploader {
	return &Uploader{
		tokenURL:     cfg.TokenURL,
		uploadURL:    cfg.UploadURL,
		clientID:     cfg.ClientID,
		clientSecret: cfg.ClientSecret,
		httpClient:   &http.Client{Timeout: 2 * time.Minute},
	}
}

// Upload registers and uploads one compiled episode. Any failure is
// returned for logging; episode upload is a side effect and never fails
// the batch.
func (u *Uploader) Upload(ctx context.Context, audioPath, feedName string) error {
	if u.clientID == "" || u.clientSecret == "" || u.uploadURL == "" {
		return fmt.Errorf("podcast uploader misconfigured")
	}

	token, err := u.accessToken(ctx)
	if err != nil {
		return err
	}

	episodeID, err := u.registerEpisode(ctx, token, feedName)
	if err != nil {
		return err
	}

	return u.uploadFile(ctx, token, episodeID, audioPath)
}

func (u *Uploader) accessToken(ctx context.Context) (string, error) {
	form := url.Values{}
	form.Set("grant_type", "client_credentials")

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u.tokenURL, strings.NewReader(form.Encode()))
	if err != nil {
		return "", fmt.Errorf("new token request: %w", err)
	}
	req.SetBasicAuth(u.clientID, u.clientSecret)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := u.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("request token: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", fmt.Errorf("token endpoint %s: %s", resp.Status, strings.TrimSpace(string(body)))
	}

	var parsed struct {
		AccessToken string `json:"access_token"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", fmt.Errorf("decode token: %w", err)
	}
	if parsed.AccessToken == "" {
		return "", fmt.Errorf("token endpoint returned no access_token")
	}

	return parsed.AccessToken, nil
}

func (u *Uploader) registerEpisode(ctx context.Context, token, feedName string) (string, error) {
	body, err := json.Marshal(map[string]any{
		"name":        fmt.Sprintf("Resumo das Notícias - %s", feedName),
		"description": fmt.Sprintf("Resumo das notícias de %s.", feedName),
		"public":      true,
	})
	if err != nil {
		return "", fmt.Errorf("marshal episode metadata: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u.uploadURL, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("new register request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := u.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("register episode: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", fmt.Errorf("register episode %s: %s", resp.Status, strings.TrimSpace(string(body)))
	}

	var parsed struct {
		ID string `json:"id"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", fmt.Errorf("decode episode id: %w", err)
	}
	if parsed.ID == "" {
		return "", fmt.Errorf("host returned no episode id")
	}

	return parsed.ID, nil
}

func (u *Uploader) uploadFile(ctx context.Context, token, episodeID, audioPath string) error {
	file, err := os.Open(audioPath)
	if err != nil {
		return fmt.Errorf("open episode %s: %w", audioPath, err)
	}
	defer file.Close()

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile("file", filepath.Base(audioPath))
	if err != nil {
		return fmt.Errorf("create form file: %w", err)
	}
	if _, err := io.Copy(part, file); err != nil {
		return fmt.Errorf("copy episode: %w", err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("close form: %w", err)
	}

	endpoint := fmt.Sprintf("%s/%s/tracks", u.uploadURL, episodeID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, &buf)
	if err != nil {
		return fmt.Errorf("new upload request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := u.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("upload episode: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated && resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("upload episode %s: %s", resp.Status, strings.TrimSpace(string(body)))
	}

	return nil
}
