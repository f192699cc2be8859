package identity

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/marketsquare/account-system/internal/core/domain"
	"github.com/marketsquare/account-system/internal/core/ports"
)

// HTTPClient talks to the identity provider's HTTP facade. The credential
// resolver goes through this client rather than calling the Service
// directly so that the provider's trusted-origin check sees the real
// caller's Origin, exactly as a separately-deployed provider would.
type HTTPClient struct {
	baseURL string
	client  *http.Client
}

func NewHTTPClient(baseURL string, client *http.Client) *HTTPClient {
	if client == nil {
		client = http.DefaultClient
	}
	return &HTTPClient{baseURL: baseURL, client: client}
}

type signInPayload struct {
	Email      string `json:"email"`
	Password   string `json:"password"`
	RememberMe bool   `json:"rememberMe"`
}

type signInResponse struct {
	User *domain.User `json:"user"`
}

type providerErrorBody struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// SignIn forwards the credentials to POST /api/auth/sign-in/email. The
// response's Set-Cookie headers are returned verbatim; a non-2xx status
// becomes a ports.ProviderError carrying the provider's message.
func (c *HTTPClient) SignIn(ctx context.Context, in ports.ProviderSignIn) (*ports.ProviderSignInResult, error) {
	body, err := json.Marshal(signInPayload{Email: in.Email, Password: in.Password, RememberMe: true})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/auth/sign-in/email", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	if in.Origin != "" {
		req.Header.Set("Origin", in.Origin)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("identity sign-in: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var eb providerErrorBody
		_ = json.NewDecoder(resp.Body).Decode(&eb)
		msg := eb.Message
		if msg == "" {
			msg = eb.Error
		}
		return nil, &ports.ProviderError{StatusCode: resp.StatusCode, Message: msg}
	}

	var payload signInResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("identity sign-in: decode response: %w", err)
	}

	return &ports.ProviderSignInResult{
		User:      payload.User,
		SetCookie: resp.Header.Values("Set-Cookie"),
	}, nil
}
