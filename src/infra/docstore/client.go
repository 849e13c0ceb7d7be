// Package docstore talks to a remote document store over HTTP. It is the
// hosted-backend counterpart of the local SQLite store.
package docstore

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"cancionero/src/songs"
)

const handshakeInterval = 2 * time.Second

// Client implements songs.Store against a remote JSON API.
//
// The connection handshake runs in the background; the readiness channel
// closes on the first successful round trip. Until then operations return
// songs.ErrStoreUnavailable.
type Client struct {
	baseURL string
	apiKey  string
	http    *http.Client
	ready   chan struct{}
	stop    context.CancelFunc
}

// NewClient builds the client and starts the background handshake.
func NewClient(baseURL, apiKey string, timeout time.Duration) *Client {
	ctx, cancel := context.WithCancel(context.Background())
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		http:    &http.Client{Timeout: timeout},
		ready:   make(chan struct{}),
		stop:    cancel,
	}
	go c.handshake(ctx)
	return c
}

func (c *Client) handshake(ctx context.Context) {
	ticker := time.NewTicker(handshakeInterval)
	defer ticker.Stop()
	for {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/songs/count", nil)
		if err == nil {
			c.authorize(req)
			resp, err := c.http.Do(req)
			if err == nil {
				io.Copy(io.Discard, resp.Body)
				resp.Body.Close()
				if resp.StatusCode < 300 {
					close(c.ready)
					return
				}
				slog.Debug("Docstore handshake rejected", "status", resp.StatusCode)
			} else {
				slog.Debug("Docstore handshake failed", "error", err)
			}
		}
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

// Ready returns the one-shot readiness signal.
func (c *Client) Ready() <-chan struct{} {
	return c.ready
}

// Close stops the handshake loop if it is still running.
func (c *Client) Close() error {
	c.stop()
	return nil
}

func (c *Client) checkReady() error {
	select {
	case <-c.ready:
		return nil
	default:
		return songs.ErrStoreUnavailable
	}
}

func (c *Client) authorize(req *http.Request) {
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}
}

func (c *Client) do(ctx context.Context, method, path string, body any, out any) error {
	var payload io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("%w: %v", songs.ErrRemote, err)
		}
		payload = bytes.NewReader(encoded)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, payload)
	if err != nil {
		return fmt.Errorf("%w: %v", songs.ErrRemote, err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	c.authorize(req)

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", songs.ErrRemote, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return songs.ErrNotFound
	}
	if resp.StatusCode >= 300 {
		return fmt.Errorf("%w: %s %s returned %d", songs.ErrRemote, method, path, resp.StatusCode)
	}
	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("%w: %v", songs.ErrRemote, err)
		}
	}
	return nil
}

// List returns all songs, newest first per the remote ordering.
func (c *Client) List(ctx context.Context) ([]*songs.Song, error) {
	if err := c.checkReady(); err != nil {
		return nil, err
	}
	var list []*songs.Song
	if err := c.do(ctx, http.MethodGet, "/songs", nil, &list); err != nil {
		return nil, err
	}
	return list, nil
}

// Create posts the draft; the remote assigns id and timestamps.
func (c *Client) Create(ctx context.Context, draft *songs.Song) (*songs.Song, error) {
	if err := c.checkReady(); err != nil {
		return nil, err
	}
	body := draft.Clone()
	body.ID = ""
	var stored songs.Song
	if err := c.do(ctx, http.MethodPost, "/songs", body, &stored); err != nil {
		return nil, err
	}
	return &stored, nil
}

// Update sends only the fields set on the patch.
func (c *Client) Update(ctx context.Context, id string, patch songs.Patch) (*songs.Song, error) {
	if err := c.checkReady(); err != nil {
		return nil, err
	}
	body := map[string]any{}
	if patch.ArtistName != nil {
		body["artistName"] = *patch.ArtistName
	}
	if patch.SongName != nil {
		body["songName"] = *patch.SongName
	}
	if patch.State != nil {
		body["state"] = *patch.State
	}
	if patch.Type != nil {
		body["type"] = *patch.Type
	}
	if patch.YouTubeLink != nil {
		body["youtubeLink"] = *patch.YouTubeLink
	}
	if patch.Comments != nil {
		body["comments"] = *patch.Comments
	}
	var stored songs.Song
	if err := c.do(ctx, http.MethodPatch, "/songs/"+id, body, &stored); err != nil {
		return nil, err
	}
	return &stored, nil
}

// Delete removes the song with the given id.
func (c *Client) Delete(ctx context.Context, id string) error {
	if err := c.checkReady(); err != nil {
		return err
	}
	return c.do(ctx, http.MethodDelete, "/songs/"+id, nil, nil)
}

// Count asks the remote for the collection size.
func (c *Client) Count(ctx context.Context) (int, error) {
	if err := c.checkReady(); err != nil {
		return 0, err
	}
	var out struct {
		Count int `json:"count"`
	}
	if err := c.do(ctx, http.MethodGet, "/songs/count", nil, &out); err != nil {
		return 0, err
	}
	return out.Count, nil
}
