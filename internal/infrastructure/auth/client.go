package auth

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// AuthUser is the authenticated identity exposed by the provider.
type AuthUser struct {
	UID         string `json:"uid"`
	Email       string `json:"email"`
	DisplayName string `json:"displayName,omitempty"`
	PhotoURL    string `json:"photoUrl,omitempty"`
}

// Client talks to the identity-toolkit REST endpoints.
type Client struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a new identity provider client.
func NewClient(apiKey string) *Client {
	return &Client{
		apiKey:  apiKey,
		baseURL: "https://identitytoolkit.googleapis.com/v1",
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

type signInRequest struct {
	Email             string `json:"email"`
	Password          string `json:"password"`
	ReturnSecureToken bool   `json:"returnSecureToken"`
}

type signInResponse struct {
	LocalID     string `json:"localId"`
	Email       string `json:"email"`
	DisplayName string `json:"displayName"`
	IDToken     string `json:"idToken"`
}

// SignInWithPassword authenticates with email/password credentials and
// returns the identity plus its session token.
func (c *Client) SignInWithPassword(ctx context.Context, email, password string) (*AuthUser, string, error) {
	var resp signInResponse
	err := c.post(ctx, "accounts:signInWithPassword", signInRequest{
		Email:             email,
		Password:          password,
		ReturnSecureToken: true,
	}, &resp)
	if err != nil {
		return nil, "", fmt.Errorf("sign-in failed: %w", err)
	}
	return &AuthUser{UID: resp.LocalID, Email: resp.Email, DisplayName: resp.DisplayName}, resp.IDToken, nil
}

// SignUp registers a new email/password account.
func (c *Client) SignUp(ctx context.Context, email, password string) (*AuthUser, string, error) {
	var resp signInResponse
	err := c.post(ctx, "accounts:signUp", signInRequest{
		Email:             email,
		Password:          password,
		ReturnSecureToken: true,
	}, &resp)
	if err != nil {
		return nil, "", fmt.Errorf("sign-up failed: %w", err)
	}
	return &AuthUser{UID: resp.LocalID, Email: resp.Email}, resp.IDToken, nil
}

type lookupRequest struct {
	IDToken string `json:"idToken"`
}

type lookupResponse struct {
	Users []struct {
		LocalID     string `json:"localId"`
		Email       string `json:"email"`
		DisplayName string `json:"displayName"`
		PhotoURL    string `json:"photoUrl"`
	} `json:"users"`
}

// Lookup resolves a session token to the authenticated identity, or nil when
// the token matches no account.
func (c *Client) Lookup(ctx context.Context, idToken string) (*AuthUser, error) {
	var resp lookupResponse
	if err := c.post(ctx, "accounts:lookup", lookupRequest{IDToken: idToken}, &resp); err != nil {
		return nil, fmt.Errorf("account lookup failed: %w", err)
	}
	if len(resp.Users) == 0 {
		return nil, nil
	}
	u := resp.Users[0]
	return &AuthUser{
		UID:         u.LocalID,
		Email:       u.Email,
		DisplayName: u.DisplayName,
		PhotoURL:    u.PhotoURL,
	}, nil
}

func (c *Client) post(ctx context.Context, endpoint string, payload, out interface{}) error {
	reqBody, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to serialize request: %w", err)
	}

	url := fmt.Sprintf("%s/%s?key=%s", c.baseURL, endpoint, c.apiKey)
	httpReq, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewBuffer(reqBody))
	if err != nil {
		return fmt.Errorf("failed to build HTTP request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return fmt.Errorf("API request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("API call error (status: %d): %s", resp.StatusCode, string(body))
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}
	return nil
}
