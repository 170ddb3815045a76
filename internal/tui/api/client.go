package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"amarhadis/pkg/models"
)

// Client handles HTTP API communication
type Client struct {
	baseURL    string
	httpClient *http.Client
	token      string
	userID     string
}

// NewClient creates a new API client
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// SetToken sets the authentication token
func (c *Client) SetToken(token string) {
	c.token = token
}

// GetToken returns the current authentication token
func (c *Client) GetToken() string {
	return c.token
}

// GetUserID returns the current user ID
func (c *Client) GetUserID() string {
	return c.userID
}

// doRequest performs an HTTP request with common handling
func (c *Client) doRequest(ctx context.Context, method, path string, body interface{}) (*http.Response, error) {
	var bodyReader io.Reader
	if body != nil {
		jsonData, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request body: %w", err)
		}
		bodyReader = bytes.NewReader(jsonData)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bodyReader)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}

	return resp, nil
}

type apiResponse struct {
	Success bool            `json:"success"`
	Message string          `json:"message,omitempty"`
	Data    json.RawMessage `json:"data,omitempty"`
	Error   string          `json:"error,omitempty"`
}

// decodeAPIResponse decodes the APIResponse envelope and unmarshals the data field into target
func decodeAPIResponse(resp *http.Response, target interface{}) error {
	defer resp.Body.Close()

	var apiResp apiResponse
	if err := json.NewDecoder(resp.Body).Decode(&apiResp); err != nil {
		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			return fmt.Errorf("API error (status %d)", resp.StatusCode)
		}
		return fmt.Errorf("failed to decode response: %w", err)
	}

	if !apiResp.Success {
		if apiResp.Error != "" {
			return fmt.Errorf("%s", apiResp.Error)
		}
		return fmt.Errorf("request failed (status %d)", resp.StatusCode)
	}

	if target != nil && len(apiResp.Data) > 0 {
		if err := json.Unmarshal(apiResp.Data, target); err != nil {
			return fmt.Errorf("failed to decode response data: %w", err)
		}
	}

	return nil
}

// Auth endpoints

// Register creates a new account and logs straight in
func (c *Client) Register(ctx context.Context, username, password string) (*models.LoginResponse, error) {
	body := map[string]string{
		"username": username,
		"password": password,
	}

	resp, err := c.doRequest(ctx, "POST", "/auth/register", body)
	if err != nil {
		return nil, err
	}

	if err := decodeAPIResponse(resp, nil); err != nil {
		return nil, err
	}

	return c.Login(ctx, username, password)
}

// Login authenticates a user
func (c *Client) Login(ctx context.Context, username, password string) (*models.LoginResponse, error) {
	body := map[string]string{
		"username": username,
		"password": password,
	}

	resp, err := c.doRequest(ctx, "POST", "/auth/login", body)
	if err != nil {
		return nil, err
	}

	var loginResp models.LoginResponse
	if err := decodeAPIResponse(resp, &loginResp); err != nil {
		return nil, err
	}

	c.token = loginResp.Token
	c.userID = loginResp.User.ID
	return &loginResp, nil
}

// Daily endpoints

// GetDaily retrieves today's selection
func (c *Client) GetDaily(ctx context.Context) (*models.DailySelection, error) {
	resp, err := c.doRequest(ctx, "GET", "/daily", nil)
	if err != nil {
		return nil, err
	}

	var selection models.DailySelection
	if err := decodeAPIResponse(resp, &selection); err != nil {
		return nil, err
	}

	return &selection, nil
}

// GetDailyByDate retrieves the selection for a specific date
func (c *Client) GetDailyByDate(ctx context.Context, dateKey string) (*models.DailySelection, error) {
	resp, err := c.doRequest(ctx, "GET", "/daily/"+dateKey, nil)
	if err != nil {
		return nil, err
	}

	var selection models.DailySelection
	if err := decodeAPIResponse(resp, &selection); err != nil {
		return nil, err
	}

	return &selection, nil
}

// Reading endpoints

// MarkRead records a read for the hadith and returns updated stats plus any unlocks
func (c *Client) MarkRead(ctx context.Context, hadithID string) (*models.MarkReadResponse, error) {
	path := fmt.Sprintf("/hadith/%s/read", hadithID)
	resp, err := c.doRequest(ctx, "POST", path, nil)
	if err != nil {
		return nil, err
	}

	var readResp models.MarkReadResponse
	if err := decodeAPIResponse(resp, &readResp); err != nil {
		return nil, err
	}

	return &readResp, nil
}

// LikeHadith likes a hadith
func (c *Client) LikeHadith(ctx context.Context, hadithID string) error {
	path := fmt.Sprintf("/hadith/%s/like", hadithID)
	resp, err := c.doRequest(ctx, "POST", path, nil)
	if err != nil {
		return err
	}
	return decodeAPIResponse(resp, nil)
}

// FavoriteHadith adds a hadith to the user's favorites
func (c *Client) FavoriteHadith(ctx context.Context, hadithID string) error {
	path := fmt.Sprintf("/hadith/%s/favorite", hadithID)
	resp, err := c.doRequest(ctx, "POST", path, nil)
	if err != nil {
		return err
	}
	return decodeAPIResponse(resp, nil)
}

// Profile endpoints

// GetMyStats retrieves the current user's reading statistics
func (c *Client) GetMyStats(ctx context.Context) (*models.UserStatsResponse, error) {
	resp, err := c.doRequest(ctx, "GET", "/me/stats", nil)
	if err != nil {
		return nil, err
	}

	var stats models.UserStatsResponse
	if err := decodeAPIResponse(resp, &stats); err != nil {
		return nil, err
	}

	return &stats, nil
}

// GetMyAchievements retrieves the achievement catalog annotated with the user's state
func (c *Client) GetMyAchievements(ctx context.Context) ([]models.AchievementStatus, error) {
	resp, err := c.doRequest(ctx, "GET", "/me/achievements", nil)
	if err != nil {
		return nil, err
	}

	var achievements []models.AchievementStatus
	if err := decodeAPIResponse(resp, &achievements); err != nil {
		return nil, err
	}

	return achievements, nil
}

// GetTrending retrieves the weekly trending hadiths
func (c *Client) GetTrending(ctx context.Context, limit int) ([]models.TrendingHadith, error) {
	path := fmt.Sprintf("/hadith/trending?limit=%d", limit)
	resp, err := c.doRequest(ctx, "GET", path, nil)
	if err != nil {
		return nil, err
	}

	var trending []models.TrendingHadith
	if err := decodeAPIResponse(resp, &trending); err != nil {
		return nil, err
	}

	return trending, nil
}
