package miro

import (
	"context"
	"fmt"
	"math"
	"net/http"
	"strconv"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/oauth2"

	"github.com/mirotools/miro-mcp/internal/config"
)

// Client drives the Miro API for a single server process. It holds the
// OAuth state: an optional live handle from an in-process exchange, plus
// tokens cached from disk. Board mutations require the live handle; see
// api for the reason.
type Client struct {
	clientID     string
	clientSecret string
	redirectURL  string

	baseURL  string
	endpoint oauth2.Endpoint
	http     *http.Client
	logger   *zap.Logger
	store    *TokenStore

	handle        *Handle
	storedAccess  string
	storedRefresh string
}

func NewClient(cfg *config.Config, logger *zap.Logger) (*Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	c := &Client{
		clientID:     cfg.ClientID,
		clientSecret: cfg.ClientSecret,
		redirectURL:  cfg.RedirectURL,
		baseURL:      defaultBaseURL,
		endpoint:     miroEndpoint,
		http:         http.DefaultClient,
		logger:       logger,
		store:        NewTokenStore(cfg.TokenFile, logger),
	}

	pair, err := c.store.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load stored tokens: %w", err)
	}
	if pair != nil {
		c.storedAccess = pair.AccessToken
		c.storedRefresh = pair.RefreshToken
		logger.Info("loaded stored miro tokens")
	}
	return c, nil
}

// GetAuthURL starts a fresh OAuth flow, discarding any previous handle,
// and returns the authorization URL for the user to visit.
func (c *Client) GetAuthURL() string {
	c.handle = newHandle(c.clientID, c.clientSecret, c.redirectURL, c.endpoint)
	c.logger.Info("started miro OAuth flow")
	return c.handle.AuthURL()
}

// ExchangeCode trades the authorization code for tokens and persists
// them. It requires GetAuthURL to have been called first.
func (c *Client) ExchangeCode(ctx context.Context, code string) (interface{}, error) {
	if c.handle == nil {
		return nil, ErrNotInitialized
	}
	if err := c.handle.Exchange(withHTTPClient(ctx, c.http), code); err != nil {
		return nil, err
	}
	if err := c.saveTokens(); err != nil {
		return nil, err
	}
	c.logger.Info("miro OAuth exchange completed")
	return map[string]interface{}{
		"success": true,
		"message": "Successfully authenticated with Miro",
	}, nil
}

func (c *Client) saveTokens() error {
	access, refresh := c.storedAccess, c.storedRefresh
	if c.handle != nil && c.handle.AccessToken() != "" {
		access, refresh = c.handle.AccessToken(), c.handle.RefreshToken()
	}
	if access == "" {
		return nil
	}
	if err := c.store.Save(TokenPair{AccessToken: access, RefreshToken: refresh}); err != nil {
		return fmt.Errorf("failed to persist tokens: %w", err)
	}
	c.storedAccess, c.storedRefresh = access, refresh
	return nil
}

// IsAuthenticated reports whether a usable access token exists, live or
// loaded from disk.
func (c *Client) IsAuthenticated() bool {
	if c.handle != nil && c.handle.AccessToken() != "" {
		return true
	}
	return c.storedAccess != ""
}

// api returns the mutating API surface. Mutations are only accepted with
// a token set through the in-process handshake, so a session carrying
// nothing but a disk-cached token must re-authenticate first.
func (c *Client) api() (*API, error) {
	if !c.IsAuthenticated() {
		return nil, ErrNotAuthenticated
	}
	if c.handle == nil || c.handle.AccessToken() == "" {
		return nil, ErrReauthenticationRequired
	}
	return &API{baseURL: c.baseURL, token: c.handle.AccessToken(), http: c.http}, nil
}

func (c *Client) accessToken() string {
	if c.handle != nil && c.handle.AccessToken() != "" {
		return c.handle.AccessToken()
	}
	return c.storedAccess
}

// GetBoard fetches board metadata. This is a plain authenticated GET, so
// unlike the item operations it works with a stored token alone.
func (c *Client) GetBoard(ctx context.Context, boardID string) (interface{}, error) {
	if !c.IsAuthenticated() {
		return nil, ErrNotAuthenticated
	}
	api := &API{baseURL: c.baseURL, token: c.accessToken(), http: c.http}
	result, err := api.do(ctx, http.MethodGet, fmt.Sprintf("/v2/boards/%s", boardID), nil)
	if err != nil {
		return nil, err
	}
	return Normalize(result), nil
}

func (c *Client) CreateShape(ctx context.Context, boardID, shapeType string, position, geometry map[string]float64, style map[string]interface{}, content string) (interface{}, error) {
	api, err := c.api()
	if err != nil {
		return nil, err
	}
	result, err := api.CreateShapeItem(ctx, boardID, formatShapeData(shapeType, position, geometry, style, content))
	if err != nil {
		return nil, err
	}
	return Normalize(result), nil
}

// UpdateShape patches only the fields supplied: position and geometry
// entries are independently optional, content uses nil to mean "leave
// unchanged".
func (c *Client) UpdateShape(ctx context.Context, boardID, itemID string, position, geometry map[string]float64, style map[string]interface{}, content *string) (interface{}, error) {
	api, err := c.api()
	if err != nil {
		return nil, err
	}

	update := map[string]interface{}{}
	if len(position) > 0 {
		pos := map[string]interface{}{}
		if x, ok := position["x"]; ok {
			pos["x"] = x
		}
		if y, ok := position["y"]; ok {
			pos["y"] = y
		}
		update["position"] = pos
	}
	if len(geometry) > 0 {
		geom := map[string]interface{}{}
		if w, ok := geometry["width"]; ok {
			geom["width"] = w
		}
		if h, ok := geometry["height"]; ok {
			geom["height"] = h
		}
		update["geometry"] = geom
	}
	if content != nil {
		update["data"] = map[string]interface{}{"content": *content}
	}
	if len(style) > 0 {
		update["style"] = formatStyle(style)
	}

	result, err := api.UpdateShapeItem(ctx, boardID, itemID, update)
	if err != nil {
		return nil, err
	}
	return Normalize(result), nil
}

func (c *Client) DeleteShape(ctx context.Context, boardID, itemID string) (interface{}, error) {
	api, err := c.api()
	if err != nil {
		return nil, err
	}
	if err := api.DeleteShapeItem(ctx, boardID, itemID); err != nil {
		return nil, err
	}
	return map[string]interface{}{
		"success": true,
		"message": fmt.Sprintf("Shape %s deleted successfully", itemID),
	}, nil
}

// GroupShapes creates a frame sized to the bounding box of the given
// items and reparents each of them under it. Miro has no first-class
// group primitive, frames stand in for one.
func (c *Client) GroupShapes(ctx context.Context, boardID string, itemIDs []string) (interface{}, error) {
	api, err := c.api()
	if err != nil {
		return nil, err
	}

	items := make([]map[string]interface{}, 0, len(itemIDs))
	for _, id := range itemIDs {
		item, err := c.getItem(ctx, api, boardID, id)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	if len(items) == 0 {
		return nil, ErrNoItems
	}

	bounds, err := boundingBox(items)
	if err != nil {
		return nil, err
	}

	raw, err := api.CreateFrameItem(ctx, boardID, map[string]interface{}{
		"data":     map[string]interface{}{"title": "Group"},
		"position": map[string]interface{}{"x": bounds.x, "y": bounds.y},
		"geometry": map[string]interface{}{"width": bounds.width, "height": bounds.height},
	})
	if err != nil {
		return nil, err
	}
	frame, err := asObject(Normalize(raw))
	if err != nil {
		return nil, err
	}

	frameID := fmt.Sprint(frame["id"])
	for _, id := range itemIDs {
		_, err := api.UpdateItemPositionOrParent(ctx, boardID, id, map[string]interface{}{
			"parent": map[string]interface{}{"id": frameID},
		})
		if err != nil {
			return nil, err
		}
	}
	return frame, nil
}

// UngroupShapes clears the parent of every item inside the frame, then
// deletes the now-empty frame.
func (c *Client) UngroupShapes(ctx context.Context, boardID, groupID string) (interface{}, error) {
	api, err := c.api()
	if err != nil {
		return nil, err
	}

	var frame map[string]interface{}
	if raw, gerr := api.GetFrameItem(ctx, boardID, groupID); gerr == nil {
		frame, err = asObject(Normalize(raw))
		if err != nil {
			return nil, err
		}
	} else {
		items, lerr := c.listItems(ctx, api, boardID)
		if lerr != nil {
			return nil, fmt.Errorf("frame %s not found: %w", groupID, gerr)
		}
		for _, item := range items {
			if fmt.Sprint(item["id"]) == groupID {
				frame = item
				break
			}
		}
		if frame == nil {
			return nil, fmt.Errorf("frame %s not found on board %s", groupID, boardID)
		}
	}

	if t, _ := frame["type"].(string); t != "frame" {
		return nil, fmt.Errorf("item %s is not a frame/group", groupID)
	}

	items, err := c.listItems(ctx, api, boardID)
	if err != nil {
		return nil, err
	}
	count := 0
	for _, item := range items {
		parent, ok := item["parent"].(map[string]interface{})
		if !ok || fmt.Sprint(parent["id"]) != groupID {
			continue
		}
		_, err := api.UpdateItemPositionOrParent(ctx, boardID, fmt.Sprint(item["id"]), map[string]interface{}{
			"parent": nil,
		})
		if err != nil {
			return nil, err
		}
		count++
	}

	if err := api.DeleteFrameItem(ctx, boardID, groupID); err != nil {
		return nil, err
	}
	return map[string]interface{}{
		"success": true,
		"message": fmt.Sprintf("Ungrouped %d items", count),
	}, nil
}

// getItem resolves an id to its item record. Miro only exposes typed
// fetch endpoints, so this tries shape, then frame, then falls back to
// scanning the full item listing.
func (c *Client) getItem(ctx context.Context, api *API, boardID, itemID string) (map[string]interface{}, error) {
	if raw, err := api.GetShapeItem(ctx, boardID, itemID); err == nil {
		return asObject(Normalize(raw))
	}
	if raw, err := api.GetFrameItem(ctx, boardID, itemID); err == nil {
		return asObject(Normalize(raw))
	}
	items, err := c.listItems(ctx, api, boardID)
	if err != nil {
		return nil, err
	}
	for _, item := range items {
		if fmt.Sprint(item["id"]) == itemID {
			return item, nil
		}
	}
	return nil, fmt.Errorf("item %s not found on board %s", itemID, boardID)
}

func (c *Client) listItems(ctx context.Context, api *API, boardID string) ([]map[string]interface{}, error) {
	raw, err := api.GetItems(ctx, boardID)
	if err != nil {
		return nil, err
	}
	return extractItems(Normalize(raw))
}

// extractItems tolerates both the paged {"data": [...]} envelope and a
// bare array.
func extractItems(v interface{}) ([]map[string]interface{}, error) {
	var entries []interface{}
	switch x := v.(type) {
	case map[string]interface{}:
		data, ok := x["data"].([]interface{})
		if !ok {
			return nil, fmt.Errorf("unexpected items response format from miro API")
		}
		entries = data
	case []interface{}:
		entries = x
	default:
		return nil, fmt.Errorf("unexpected items response format from miro API")
	}

	out := make([]map[string]interface{}, 0, len(entries))
	for _, e := range entries {
		if m, ok := e.(map[string]interface{}); ok {
			out = append(out, m)
		}
	}
	return out, nil
}

type box struct {
	x, y, width, height float64
}

func boundingBox(items []map[string]interface{}) (box, error) {
	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for _, item := range items {
		x, err := numField(item, "position", "x")
		if err != nil {
			return box{}, err
		}
		y, err := numField(item, "position", "y")
		if err != nil {
			return box{}, err
		}
		w, err := numField(item, "geometry", "width")
		if err != nil {
			return box{}, err
		}
		h, err := numField(item, "geometry", "height")
		if err != nil {
			return box{}, err
		}
		minX = math.Min(minX, x)
		minY = math.Min(minY, y)
		maxX = math.Max(maxX, x+w)
		maxY = math.Max(maxY, y+h)
	}
	return box{x: minX, y: minY, width: maxX - minX, height: maxY - minY}, nil
}

func numField(item map[string]interface{}, section, key string) (float64, error) {
	obj, ok := item[section].(map[string]interface{})
	if !ok {
		return 0, fmt.Errorf("item %v is missing %s", item["id"], section)
	}
	f, ok := obj[key].(float64)
	if !ok {
		return 0, fmt.Errorf("item %v has a non-numeric %s.%s", item["id"], section, key)
	}
	return f, nil
}

func asObject(v interface{}) (map[string]interface{}, error) {
	m, ok := v.(map[string]interface{})
	if !ok {
		return nil, fmt.Errorf("unexpected response format from miro API")
	}
	return m, nil
}

// formatStyle translates display-case style keys to the API's
// snake_case names. Setting a color defaults its paired opacity to fully
// opaque unless one was already produced.
func formatStyle(style map[string]interface{}) map[string]interface{} {
	clean := make(map[string]interface{}, len(style)+2)
	for key, value := range style {
		switch key {
		case "fillColor":
			clean["fill_color"] = value
			if _, ok := clean["fill_opacity"]; !ok {
				clean["fill_opacity"] = "1.0"
			}
		case "borderColor":
			clean["border_color"] = value
			if _, ok := clean["border_opacity"]; !ok {
				clean["border_opacity"] = "1.0"
			}
		case "borderWidth":
			if f, ok := value.(float64); ok {
				clean["border_width"] = decimalString(f)
			} else {
				clean["border_width"] = fmt.Sprint(value)
			}
		default:
			clean[key] = value
		}
	}
	return clean
}

// decimalString renders a float with at least one fractional digit, the
// form the style endpoint expects ("2.0" rather than "2").
func decimalString(f float64) string {
	s := strconv.FormatFloat(f, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}

func formatShapeData(shapeType string, position, geometry map[string]float64, style map[string]interface{}, content string) map[string]interface{} {
	data := map[string]interface{}{"shape": shapeType}
	if content != "" {
		data["content"] = content
	}
	shape := map[string]interface{}{
		"data": data,
		"position": map[string]interface{}{
			"x": position["x"],
			"y": position["y"],
		},
		"geometry": map[string]interface{}{
			"width":  geometry["width"],
			"height": geometry["height"],
		},
	}
	if len(style) > 0 {
		shape["style"] = formatStyle(style)
	}
	return shape
}
