// Package connectapi provides a client for the Connect HTTP API.
package connectapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Client is a Connect API client. Token is a bearer session token minted by
// the identity provider; it is only required for the member-gated endpoints.
type Client struct {
	BaseURL    string
	Token      string
	HTTPClient *http.Client
}

// NewClient creates a new Connect client.
func NewClient(baseURL, token string) *Client {
	if baseURL == "" {
		baseURL = "http://localhost:8080"
	}
	return &Client{
		BaseURL:    baseURL,
		Token:      token,
		HTTPClient: &http.Client{Timeout: 30 * time.Second},
	}
}

// doRequest performs an HTTP request.
func (c *Client) doRequest(ctx context.Context, method, path string, body []byte) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}

	req.Header.Set("Content-Type", "application/json")
	if c.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.Token)
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode >= 400 {
		var errResp struct {
			Error string `json:"error"`
		}
		json.Unmarshal(respBody, &errResp)
		return nil, fmt.Errorf("connect error %d: %s", resp.StatusCode, errResp.Error)
	}

	return respBody, nil
}

// RegisterRequest is the request body for profile registration.
type RegisterRequest struct {
	Name      string `json:"name"`
	Role      string `json:"role"`
	AvatarURL string `json:"avatar_url,omitempty"`
	Tier      string `json:"tier,omitempty"`
	Bio       string `json:"bio,omitempty"`
}

// RegisterResponse is the response from profile registration.
type RegisterResponse struct {
	ID         string `json:"id"`
	ProfileURL string `json:"profile_url"`
}

// Register registers a new profile.
func (c *Client) Register(ctx context.Context, req RegisterRequest) (*RegisterResponse, error) {
	body, _ := json.Marshal(req)
	respBody, err := c.doRequest(ctx, "POST", "/register", body)
	if err != nil {
		return nil, err
	}

	var resp RegisterResponse
	if err := json.Unmarshal(respBody, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Profile represents a public profile.
type Profile struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	AvatarURL     string `json:"avatar_url,omitempty"`
	Role          string `json:"role"`
	Tier          string `json:"tier,omitempty"`
	Bio           string `json:"bio,omitempty"`
	FollowerCount int64  `json:"follower_count"`
	JoinedAt      string `json:"joined_at"`
}

// GetProfile gets a public profile.
func (c *Client) GetProfile(ctx context.Context, profileID string) (*Profile, error) {
	respBody, err := c.doRequest(ctx, "GET", "/who/"+profileID, nil)
	if err != nil {
		return nil, err
	}

	var resp Profile
	if err := json.Unmarshal(respBody, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Creator represents a creator in the directory.
type Creator struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	AvatarURL     string `json:"avatar_url,omitempty"`
	Tier          string `json:"tier,omitempty"`
	Bio           string `json:"bio,omitempty"`
	FollowerCount int64  `json:"follower_count"`
}

// CreatorsResponse is the response from listing creators.
type CreatorsResponse struct {
	Creators []Creator `json:"creators"`
	Total    int       `json:"total"`
}

// ListCreators lists discoverable creators.
func (c *Client) ListCreators(ctx context.Context, limit int) (*CreatorsResponse, error) {
	respBody, err := c.doRequest(ctx, "GET", fmt.Sprintf("/creators?limit=%d", limit), nil)
	if err != nil {
		return nil, err
	}

	var resp CreatorsResponse
	if err := json.Unmarshal(respBody, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Connection represents a follow edge with joined profile fields.
type Connection struct {
	ID        string `json:"id"`
	ProfileID string `json:"profile_id"`
	Name      string `json:"name"`
	AvatarURL string `json:"avatar_url,omitempty"`
	Role      string `json:"role"`
	Bio       string `json:"bio,omitempty"`
	CreatedAt string `json:"created_at"`
}

// ConnectionsResponse is the response from listing connections.
type ConnectionsResponse struct {
	Connections []Connection `json:"connections"`
	Total       int          `json:"total"`
}

// ListConnections lists the authenticated member's connections.
func (c *Client) ListConnections(ctx context.Context, limit int) (*ConnectionsResponse, error) {
	respBody, err := c.doRequest(ctx, "GET", fmt.Sprintf("/connections?limit=%d", limit), nil)
	if err != nil {
		return nil, err
	}

	var resp ConnectionsResponse
	if err := json.Unmarshal(respBody, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// FollowResponse is the response from following a creator.
type FollowResponse struct {
	ID        string `json:"id"`
	CreatorID string `json:"creator_id"`
	CreatedAt string `json:"created_at"`
}

// Follow creates a follow connection to a creator.
func (c *Client) Follow(ctx context.Context, creatorID string) (*FollowResponse, error) {
	respBody, err := c.doRequest(ctx, "POST", "/connections/"+creatorID, nil)
	if err != nil {
		return nil, err
	}

	var resp FollowResponse
	if err := json.Unmarshal(respBody, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Unfollow removes a follow connection.
func (c *Client) Unfollow(ctx context.Context, creatorID string) error {
	_, err := c.doRequest(ctx, "DELETE", "/connections/"+creatorID, nil)
	return err
}

// Message represents an inbox message.
type Message struct {
	ID              string `json:"id"`
	SenderID        string `json:"sender_id"`
	SenderName      string `json:"sender_name"`
	SenderAvatarURL string `json:"sender_avatar_url,omitempty"`
	Body            string `json:"body"`
	Timestamp       int64  `json:"ts"`
	Read            bool   `json:"read"`
}

// InboxResponse is the response from fetching the inbox.
type InboxResponse struct {
	Messages []Message `json:"messages"`
	Unread   int64     `json:"unread"`
}

// Inbox fetches the authenticated member's messages, newest first.
func (c *Client) Inbox(ctx context.Context, limit int) (*InboxResponse, error) {
	respBody, err := c.doRequest(ctx, "GET", fmt.Sprintf("/inbox?limit=%d", limit), nil)
	if err != nil {
		return nil, err
	}

	var resp InboxResponse
	if err := json.Unmarshal(respBody, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// SendMessageResponse is the response from sending a message.
type SendMessageResponse struct {
	ID        string `json:"id"`
	Timestamp int64  `json:"ts"`
}

// SendMessage sends a direct message to another profile.
func (c *Client) SendMessage(ctx context.Context, recipientID, body string) (*SendMessageResponse, error) {
	reqBody, _ := json.Marshal(map[string]string{"body": body})
	respBody, err := c.doRequest(ctx, "POST", "/dm/"+recipientID, reqBody)
	if err != nil {
		return nil, err
	}

	var resp SendMessageResponse
	if err := json.Unmarshal(respBody, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// StatsResponse is the response from the stats endpoint.
type StatsResponse struct {
	TotalCreators    int64 `json:"total_creators"`
	TotalConnections int64 `json:"total_connections"`
	TotalMessages    int64 `json:"total_messages"`
}

// Stats fetches platform statistics.
func (c *Client) Stats(ctx context.Context) (*StatsResponse, error) {
	respBody, err := c.doRequest(ctx, "GET", "/stats", nil)
	if err != nil {
		return nil, err
	}

	var resp StatsResponse
	if err := json.Unmarshal(respBody, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// HealthResponse is the response from the health endpoint.
type HealthResponse struct {
	Status    string                 `json:"status"`
	Version   string                 `json:"version"`
	Checks    map[string]interface{} `json:"checks"`
	Timestamp string                 `json:"timestamp"`
}

// Health checks server health.
func (c *Client) Health(ctx context.Context) (*HealthResponse, error) {
	respBody, err := c.doRequest(ctx, "GET", "/health", nil)
	if err != nil {
		return nil, err
	}

	var resp HealthResponse
	if err := json.Unmarshal(respBody, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}
