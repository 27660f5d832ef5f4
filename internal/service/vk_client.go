package service

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/MMXXXII/educational-platform/internal/config"
)

const (
	vkAuthorizeURL = "https://oauth.vk.com/authorize"
	vkTokenURL     = "https://oauth.vk.com/access_token"
	vkAPIVersion   = "5.131"
)

// VKIdentity is the identity VK reports for an authorized code.
type VKIdentity struct {
	UserID int64
	Email  string
}

// VKClient talks to the VK OAuth endpoints.
type VKClient interface {
	AuthorizeURL() string
	ExchangeCode(ctx context.Context, code string) (*VKIdentity, error)
}

type vkClient struct {
	clientID     string
	clientSecret string
	redirectURI  string
	http         *http.Client
}

// NewVKClient creates a VK OAuth client from configuration.
func NewVKClient(cfg *config.Config) VKClient {
	return &vkClient{
		clientID:     cfg.VKClientID,
		clientSecret: cfg.VKClientSecret,
		redirectURI:  cfg.VKRedirectURI,
		http:         &http.Client{Timeout: 10 * time.Second},
	}
}

func (c *vkClient) AuthorizeURL() string {
	params := url.Values{}
	params.Set("client_id", c.clientID)
	params.Set("display", "page")
	params.Set("redirect_uri", c.redirectURI)
	params.Set("scope", "email")
	params.Set("response_type", "code")
	params.Set("v", vkAPIVersion)
	return vkAuthorizeURL + "?" + params.Encode()
}

func (c *vkClient) ExchangeCode(ctx context.Context, code string) (*VKIdentity, error) {
	params := url.Values{}
	params.Set("client_id", c.clientID)
	params.Set("client_secret", c.clientSecret)
	params.Set("redirect_uri", c.redirectURI)
	params.Set("code", code)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, vkTokenURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("build vk token request: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("vk token request: %w", err)
	}
	defer resp.Body.Close()

	var payload struct {
		AccessToken string `json:"access_token"`
		UserID      int64  `json:"user_id"`
		Email       string `json:"email"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode vk token response: %w", err)
	}
	if payload.AccessToken == "" {
		return nil, ErrVKExchange
	}

	return &VKIdentity{UserID: payload.UserID, Email: payload.Email}, nil
}
