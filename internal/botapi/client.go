package botapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/isroiljohn-creator/posbonbot/internal/model"
)

// DefaultBaseURL is the bot backend in a local development setup.
const DefaultBaseURL = "http://localhost:8000"

// ErrNotFound marks a settings read for a group that has no settings record
// yet. Callers treat it as "use defaults", not as fatal.
var ErrNotFound = errors.New("botapi: not found")

// Client talks to the moderation bot's settings API. Every call is a single
// best-effort round trip: no retries, no batching. All transport, status, and
// decode failures collapse into one error kind.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

func NewClient(baseURL string, httpClient *http.Client) *Client {
	client := httpClient
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}

	trimmed := strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if trimmed == "" {
		trimmed = DefaultBaseURL
	}

	return &Client{
		baseURL:    trimmed,
		httpClient: client,
	}
}

// ListGroups returns every group bound to the given Telegram user.
func (c *Client) ListGroups(ctx context.Context, userID int64) ([]model.Group, error) {
	endpoint := fmt.Sprintf("%s/api/groups?userId=%s", c.baseURL, strconv.FormatInt(userID, 10))

	var groups []model.Group
	if err := c.do(ctx, http.MethodGet, endpoint, nil, &groups); err != nil {
		return nil, fmt.Errorf("list groups: %w", err)
	}
	return groups, nil
}

// GetGroupSettings reads one group's settings record; ErrNotFound when the
// group has never been configured.
func (c *Client) GetGroupSettings(ctx context.Context, groupID string) (model.GroupSettings, error) {
	endpoint := fmt.Sprintf("%s/api/groups/%s/settings", c.baseURL, url.PathEscape(groupID))

	var settings model.GroupSettings
	if err := c.do(ctx, http.MethodGet, endpoint, nil, &settings); err != nil {
		if errors.Is(err, ErrNotFound) {
			return model.GroupSettings{}, ErrNotFound
		}
		return model.GroupSettings{}, fmt.Errorf("get settings for group %s: %w", groupID, err)
	}
	return settings, nil
}

// UpdateGroupSettings writes a partial settings payload and returns the
// accepted record.
func (c *Client) UpdateGroupSettings(ctx context.Context, groupID string, patch model.SettingsPatch) (model.GroupSettings, error) {
	endpoint := fmt.Sprintf("%s/api/groups/%s/settings", c.baseURL, url.PathEscape(groupID))

	body, err := json.Marshal(patch)
	if err != nil {
		return model.GroupSettings{}, fmt.Errorf("encode settings patch: %w", err)
	}

	var settings model.GroupSettings
	if err := c.do(ctx, http.MethodPost, endpoint, body, &settings); err != nil {
		return model.GroupSettings{}, fmt.Errorf("update settings for group %s: %w", groupID, err)
	}
	return settings, nil
}

func (c *Client) do(ctx context.Context, method, endpoint string, body []byte, out any) error {
	var reader *bytes.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode == http.StatusNotFound {
		return ErrNotFound
	}
	if resp.StatusCode >= http.StatusBadRequest {
		return fmt.Errorf("bot api returned status %d", resp.StatusCode)
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode bot api response: %w", err)
	}
	return nil
}
