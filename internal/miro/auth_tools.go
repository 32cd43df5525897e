package miro

import (
	"context"

	"github.com/mirotools/miro-mcp/pkg/types"
)

type AuthURLTool struct {
	session *Session
}

func NewAuthURLTool(session *Session) *AuthURLTool {
	return &AuthURLTool{session: session}
}

func (t *AuthURLTool) Name() string {
	return "get_auth_url"
}

func (t *AuthURLTool) Description() string {
	return "Get the OAuth 2.0 authorization URL to authenticate with Miro"
}

func (t *AuthURLTool) Params() []types.Param {
	return nil
}

func (t *AuthURLTool) Execute(ctx context.Context, args map[string]interface{}) (interface{}, error) {
	client, err := t.session.Client()
	if err != nil {
		return nil, err
	}
	return map[string]interface{}{
		"success":  true,
		"auth_url": client.GetAuthURL(),
		"message":  "Visit this URL to authorize the application, then use exchange_auth_code with the code from the callback",
	}, nil
}

type ExchangeCodeTool struct {
	session *Session
}

func NewExchangeCodeTool(session *Session) *ExchangeCodeTool {
	return &ExchangeCodeTool{session: session}
}

func (t *ExchangeCodeTool) Name() string {
	return "exchange_auth_code"
}

func (t *ExchangeCodeTool) Description() string {
	return "Exchange an authorization code for an access token"
}

func (t *ExchangeCodeTool) Params() []types.Param {
	return []types.Param{
		{Name: "code", Spec: types.Schema{
			Type:        "string",
			Description: "The authorization code received from the Miro OAuth callback",
		}},
	}
}

func (t *ExchangeCodeTool) Execute(ctx context.Context, args map[string]interface{}) (interface{}, error) {
	client, err := t.session.Client()
	if err != nil {
		return nil, err
	}
	code := stringArg(args, "code")
	if code == "" {
		return errResult("code parameter is required"), nil
	}
	result, err := client.ExchangeCode(ctx, code)
	if err != nil {
		return errResult(err.Error()), nil
	}
	return result, nil
}
