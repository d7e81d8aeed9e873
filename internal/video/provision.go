package video

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/Afiolabi/kaji-whot-client/internal/config"
)

// Room is a provisioned video room.
type Room struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}

// Provisioner creates and looks up provider rooms over the provider's
// REST API. One video room is provisioned per game room, named after it.
type Provisioner struct {
	cfg        config.VideoConfig
	httpClient *http.Client
}

// NewProvisioner creates a room provisioner from video config.
func NewProvisioner(cfg config.VideoConfig) *Provisioner {
	return &Provisioner{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: cfg.Timeout},
	}
}

// CreateRoom provisions a private room named after the game room.
func (p *Provisioner) CreateRoom(ctx context.Context, gameRoomID string) (*Room, error) {
	body, err := json.Marshal(map[string]interface{}{
		"name":    "whot-" + gameRoomID,
		"privacy": "private",
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}
	return p.do(ctx, http.MethodPost, "/rooms", bytes.NewReader(body))
}

// GetRoom looks up an existing room by game room id.
func (p *Provisioner) GetRoom(ctx context.Context, gameRoomID string) (*Room, error) {
	return p.do(ctx, http.MethodGet, "/rooms/"+url.PathEscape("whot-"+gameRoomID), nil)
}

// DeleteRoom removes a room after the game ends.
func (p *Provisioner) DeleteRoom(ctx context.Context, gameRoomID string) error {
	_, err := p.do(ctx, http.MethodDelete, "/rooms/"+url.PathEscape("whot-"+gameRoomID), nil)
	return err
}

func (p *Provisioner) do(ctx context.Context, method, path string, body io.Reader) (*Room, error) {
	req, err := http.NewRequestWithContext(ctx, method, p.cfg.APIURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+p.cfg.APIKey)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("provisioner request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("provisioner returned %d: %s", resp.StatusCode, respBody)
	}

	if method == http.MethodDelete {
		return nil, nil
	}
	var room Room
	if err := json.Unmarshal(respBody, &room); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}
	return &room, nil
}
