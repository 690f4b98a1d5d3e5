// Package client talks to a running API on behalf of the command line.
package client

import (
	"bytes"
	"encoding/json"
	"fmt"
	"imovelhub/pkg/session"
	"imovelhub/pkg/user"
	"io"
	"net/http"
	"strings"
)

type HTTPClient struct {
	Base string
	HTTP *http.Client
}

func NewHTTP(base string) *HTTPClient {
	return &HTTPClient{
		Base: strings.TrimSuffix(base, "/") + "/api/v1",
		HTTP: http.DefaultClient,
	}
}

// APIError is a non-200 envelope status.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%d: %s", e.Status, e.Message)
}

type envelope struct {
	Status int             `json:"status"`
	Body   json.RawMessage `json:"body"`
	Error  *string         `json:"error"`
}

func (c *HTTPClient) do(method string, path string, token string, in any, out any) error {
	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return err
		}
		body = bytes.NewReader(b)
	}
	req, err := http.NewRequest(method, c.Base+path, body)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := c.HTTP.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%s %s failed: %s", method, path, resp.Status)
	}
	var result envelope
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return err
	}
	if result.Status != http.StatusOK {
		apiErr := &APIError{Status: result.Status}
		if result.Error != nil {
			apiErr.Message = *result.Error
		}
		return apiErr
	}
	if out == nil {
		return nil
	}
	return json.Unmarshal(result.Body, out)
}

func (c *HTTPClient) SignIn(email string, password string) (*session.Session, error) {
	var out struct {
		AccessToken  string    `json:"access_token"`
		RefreshToken string    `json:"refresh_token"`
		User         user.User `json:"user"`
	}
	err := c.do(http.MethodPost, "/auth/sign-in", "", map[string]string{"email": email, "password": password}, &out)
	if err != nil {
		return nil, err
	}
	return &session.Session{
		Token:        out.AccessToken,
		RefreshToken: out.RefreshToken,
		User:         out.User,
	}, nil
}

// Me fetches the account behind token.
func (c *HTTPClient) Me(token string) (*user.User, error) {
	var out struct {
		User user.User `json:"user"`
	}
	if err := c.do(http.MethodGet, "/auth/me", token, nil, &out); err != nil {
		return nil, err
	}
	return &out.User, nil
}
