package miro

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
)

const defaultBaseURL = "https://api.miro.com"

// API is the board item surface of the Miro v2 REST API. It is only
// handed out for sessions holding a token obtained through the
// in-process OAuth exchange; see Client.api.
type API struct {
	baseURL string
	token   string
	http    *http.Client
}

func (a *API) CreateShapeItem(ctx context.Context, boardID string, payload map[string]interface{}) (interface{}, error) {
	return a.do(ctx, http.MethodPost, fmt.Sprintf("/v2/boards/%s/shapes", boardID), payload)
}

func (a *API) GetShapeItem(ctx context.Context, boardID, itemID string) (interface{}, error) {
	return a.do(ctx, http.MethodGet, fmt.Sprintf("/v2/boards/%s/shapes/%s", boardID, itemID), nil)
}

func (a *API) UpdateShapeItem(ctx context.Context, boardID, itemID string, payload map[string]interface{}) (interface{}, error) {
	return a.do(ctx, http.MethodPatch, fmt.Sprintf("/v2/boards/%s/shapes/%s", boardID, itemID), payload)
}

func (a *API) DeleteShapeItem(ctx context.Context, boardID, itemID string) error {
	_, err := a.do(ctx, http.MethodDelete, fmt.Sprintf("/v2/boards/%s/shapes/%s", boardID, itemID), nil)
	return err
}

func (a *API) CreateFrameItem(ctx context.Context, boardID string, payload map[string]interface{}) (interface{}, error) {
	return a.do(ctx, http.MethodPost, fmt.Sprintf("/v2/boards/%s/frames", boardID), payload)
}

func (a *API) GetFrameItem(ctx context.Context, boardID, itemID string) (interface{}, error) {
	return a.do(ctx, http.MethodGet, fmt.Sprintf("/v2/boards/%s/frames/%s", boardID, itemID), nil)
}

func (a *API) DeleteFrameItem(ctx context.Context, boardID, itemID string) error {
	_, err := a.do(ctx, http.MethodDelete, fmt.Sprintf("/v2/boards/%s/frames/%s", boardID, itemID), nil)
	return err
}

// GetItems lists every item on the board.
func (a *API) GetItems(ctx context.Context, boardID string) (interface{}, error) {
	return a.do(ctx, http.MethodGet, fmt.Sprintf("/v2/boards/%s/items", boardID), nil)
}

// UpdateItemPositionOrParent patches the generic item endpoint, which is
// the only way to reparent an item regardless of its type.
func (a *API) UpdateItemPositionOrParent(ctx context.Context, boardID, itemID string, payload map[string]interface{}) (interface{}, error) {
	return a.do(ctx, http.MethodPatch, fmt.Sprintf("/v2/boards/%s/items/%s", boardID, itemID), payload)
}

func (a *API) do(ctx context.Context, method, path string, payload map[string]interface{}) (interface{}, error) {
	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request body: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, a.baseURL+path, body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+a.token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := a.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode >= 300 {
		return nil, fmt.Errorf("miro API error %s %s: %s: %s",
			method, path, resp.Status, strings.TrimSpace(string(data)))
	}
	if len(data) == 0 {
		return nil, nil
	}

	var out interface{}
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("unexpected response from miro API: %w", err)
	}
	return out, nil
}
