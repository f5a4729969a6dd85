// Package restapi is the typed client for the travel-community REST backend.
// Every call goes through the gateway transport, which owns bearer
// credentials and 401 handling; this package only shapes requests and
// responses.
package restapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/yeohaeng/travel-client/auth"
)

// envelope is the response wrapper every backend endpoint uses.
type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

type loginData struct {
	AccessToken    string `json:"accessToken"`
	RefreshToken   string `json:"refreshToken"`
	MemberID       int64  `json:"memberId"`
	MemberName     string `json:"memberName"`
	MemberNickname string `json:"memberNickname"`
}

// Client talks to the backend. The http.Client should be routed through
// gateway.Transport so requests carry the stored bearer token.
type Client struct {
	baseURL string
	http    *http.Client
	logger  zerolog.Logger
}

var _ auth.Backend = (*Client)(nil)

// ClientOption modifies the Client during construction.
type ClientOption func(*Client)

// WithLogger sets the logger used by the client.
func WithLogger(l zerolog.Logger) ClientOption {
	return func(c *Client) {
		c.logger = l
	}
}

// New creates a Client for the backend at baseURL.
func New(baseURL string, httpClient *http.Client, options ...ClientOption) *Client {
	c := &Client{
		baseURL: baseURL,
		http:    httpClient,
		logger:  log.Logger,
	}
	for _, opt := range options {
		opt(c)
	}
	return c
}

// Login authenticates with email and password. The backend does not echo the
// email back, so the result carries the one that was submitted.
func (c *Client) Login(ctx context.Context, email, password string) (*auth.LoginResult, error) {
	env, err := c.postJSON(ctx, "/login", map[string]string{
		"email":    email,
		"password": password,
	})
	if err != nil {
		return nil, errors.Wrap(err, "[Client.Login]")
	}

	var data loginData
	if err := json.Unmarshal(env.Data, &data); err != nil {
		return nil, errors.Wrap(err, "[Client.Login] decode login data")
	}
	return &auth.LoginResult{
		AccessToken:  data.AccessToken,
		RefreshToken: data.RefreshToken,
		MemberID:     data.MemberID,
		MemberName:   data.MemberName,
		Nickname:     data.MemberNickname,
		Email:        email,
	}, nil
}

// ExchangeAuthCode trades a one-time authorization code from the given
// provider for a session. The code is single-use server-side.
func (c *Client) ExchangeAuthCode(ctx context.Context, provider, code string) (*auth.LoginResult, error) {
	env, err := c.postJSON(ctx, fmt.Sprintf("/oauth/%s/exchange", url.PathEscape(provider)), map[string]string{
		"code": code,
	})
	if err != nil {
		return nil, errors.Wrap(err, "[Client.ExchangeAuthCode]")
	}

	var data loginData
	if err := json.Unmarshal(env.Data, &data); err != nil {
		return nil, errors.Wrap(err, "[Client.ExchangeAuthCode] decode login data")
	}
	return &auth.LoginResult{
		AccessToken:  data.AccessToken,
		RefreshToken: data.RefreshToken,
		MemberID:     data.MemberID,
		MemberName:   data.MemberName,
		Nickname:     data.MemberNickname,
	}, nil
}

// SignupRequest is the payload for creating a new member.
type SignupRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
	Nickname string `json:"nickname"`
}

// Signup creates a new member account.
func (c *Client) Signup(ctx context.Context, req SignupRequest) error {
	_, err := c.postJSON(ctx, "/signup", req)
	return errors.Wrap(err, "[Client.Signup]")
}

// CheckEmail reports whether email is still available for signup.
func (c *Client) CheckEmail(ctx context.Context, email string) (bool, error) {
	return c.checkAvailable(ctx, "/check-email", "email", email)
}

// CheckNickname reports whether nickname is still available for signup.
func (c *Client) CheckNickname(ctx context.Context, nickname string) (bool, error) {
	return c.checkAvailable(ctx, "/check-nickname", "nickname", nickname)
}

func (c *Client) checkAvailable(ctx context.Context, path, param, value string) (bool, error) {
	env, err := c.get(ctx, path+"?"+param+"="+url.QueryEscape(value))
	if err != nil {
		var apiErr *APIError
		// The backend answers "taken" as an unsuccessful envelope with 200.
		if errors.As(err, &apiErr) && apiErr.Status == http.StatusOK {
			return false, nil
		}
		return false, errors.Wrapf(err, "[Client.checkAvailable] %s", path)
	}
	return env.Success, nil
}

// SendVerificationEmail asks the backend to mail a verification code.
func (c *Client) SendVerificationEmail(ctx context.Context, email string) error {
	_, err := c.postJSON(ctx, "/email/send", map[string]string{"email": email})
	return errors.Wrap(err, "[Client.SendVerificationEmail]")
}

// VerifyEmailCode submits the code the member received by mail.
func (c *Client) VerifyEmailCode(ctx context.Context, email, code string) error {
	_, err := c.postJSON(ctx, "/email/verify", map[string]string{
		"email": email,
		"code":  code,
	})
	return errors.Wrap(err, "[Client.VerifyEmailCode]")
}

// Accommodation is a listing entry, trimmed to what the client displays.
type Accommodation struct {
	AccommodationNo int64   `json:"accommodationNo"`
	Name            string  `json:"name"`
	Address         string  `json:"address"`
	Region          string  `json:"region"`
	PriceMin        int     `json:"priceMin"`
	PriceMax        int     `json:"priceMax"`
	ThumbnailURL    string  `json:"thumbnailUrl"`
	Latitude        float64 `json:"latitude"`
	Longitude       float64 `json:"longitude"`
}

// ListAccommodations fetches one page of the accommodation listing.
func (c *Client) ListAccommodations(ctx context.Context, page, size int) ([]Accommodation, error) {
	env, err := c.get(ctx, fmt.Sprintf("/accommodations?page=%d&size=%d", page, size))
	if err != nil {
		return nil, errors.Wrap(err, "[Client.ListAccommodations]")
	}

	var list []Accommodation
	if err := json.Unmarshal(env.Data, &list); err != nil {
		return nil, errors.Wrap(err, "[Client.ListAccommodations] decode listing")
	}
	return list, nil
}

func (c *Client) postJSON(ctx context.Context, path string, body any) (*envelope, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, errors.Wrap(err, "marshal request body")
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return nil, errors.Wrap(err, "build request")
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(req)
}

func (c *Client) get(ctx context.Context, pathAndQuery string) (*envelope, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+pathAndQuery, nil)
	if err != nil {
		return nil, errors.Wrap(err, "build request")
	}
	return c.do(req)
}

// do runs the request and unwraps the response envelope. A transport-level
// failure comes back wrapped; an answered-but-rejected request comes back as
// *APIError carrying the server message.
func (c *Client) do(req *http.Request) (*envelope, error) {
	c.logger.Debug().Str("method", req.Method).Str("url", req.URL.String()).Msg("backend request")
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "request failed")
	}
	defer resp.Body.Close()

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		if resp.StatusCode >= http.StatusBadRequest {
			return nil, &APIError{Status: resp.StatusCode}
		}
		return nil, errors.Wrap(err, "decode response envelope")
	}

	if resp.StatusCode >= http.StatusBadRequest || !env.Success {
		return nil, &APIError{Status: resp.StatusCode, Message: env.Message}
	}
	return &env, nil
}
