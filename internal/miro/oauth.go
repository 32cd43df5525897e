package miro

import (
	"context"
	"net/http"

	"golang.org/x/oauth2"
)

// Miro OAuth 2.0 endpoints.
var miroEndpoint = oauth2.Endpoint{
	AuthURL:  "https://miro.com/oauth/authorize",
	TokenURL: "https://api.miro.com/v1/oauth/token",
}

// Handle is a live OAuth session started in-process. Only a Handle that
// has completed the code exchange can produce an API capable of mutating
// boards; tokens loaded from disk never become a Handle.
type Handle struct {
	conf  *oauth2.Config
	token *oauth2.Token
}

func newHandle(clientID, clientSecret, redirectURL string, endpoint oauth2.Endpoint) *Handle {
	return &Handle{
		conf: &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			RedirectURL:  redirectURL,
			Endpoint:     endpoint,
		},
	}
}

// AuthURL returns the authorization URL the user must visit.
func (h *Handle) AuthURL() string {
	return h.conf.AuthCodeURL("")
}

// Exchange trades an authorization code for a token pair. Vendor
// rejections propagate unmodified.
func (h *Handle) Exchange(ctx context.Context, code string) error {
	tok, err := h.conf.Exchange(ctx, code)
	if err != nil {
		return err
	}
	h.token = tok
	return nil
}

// AccessToken returns the live access token, or "" before the exchange.
func (h *Handle) AccessToken() string {
	if h.token == nil {
		return ""
	}
	return h.token.AccessToken
}

// RefreshToken returns the live refresh token, or "" before the exchange.
func (h *Handle) RefreshToken() string {
	if h.token == nil {
		return ""
	}
	return h.token.RefreshToken
}

func withHTTPClient(ctx context.Context, c *http.Client) context.Context {
	if c == nil {
		return ctx
	}
	return context.WithValue(ctx, oauth2.HTTPClient, c)
}
