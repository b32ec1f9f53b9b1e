package session

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"quantdesk/internal/domain"
)

// APIClient implements AuthAPI against the platform's HTTP API
type APIClient struct {
	baseURL    string
	httpClient *http.Client
}

// NewAPIClient creates a new platform API client
func NewAPIClient(baseURL string) *APIClient {
	return &APIClient{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// envelope matches the server's standard response wrapper.
type envelope struct {
	Status  string          `json:"status"`
	Message string          `json:"message,omitempty"`
	Data    json.RawMessage `json:"data,omitempty"`
}

// wireUser is the user record as the API serializes it. Entitlement fields
// are flattened per role, so both are optional on the wire.
type wireUser struct {
	ID               string  `json:"id"`
	Email            string  `json:"email"`
	Name             string  `json:"name"`
	Role             string  `json:"role"`
	KYCStatus        *string `json:"kyc_status,omitempty"`
	SubscriptionTier *string `json:"subscription_tier,omitempty"`
	IsTestAccount    bool    `json:"is_test_account"`
}

func (w wireUser) toDomain() *domain.User {
	role := domain.Role(w.Role)
	ent := domain.DefaultEntitlements(role)
	switch role {
	case domain.RoleCustomer:
		e := ent.(domain.CustomerEntitlements)
		if w.KYCStatus != nil {
			e.KYC = domain.KYCStatus(*w.KYCStatus)
		}
		if w.SubscriptionTier != nil {
			e.Tier = domain.SubscriptionTier(*w.SubscriptionTier)
		}
		ent = e
	case domain.RoleTrader:
		e := ent.(domain.TraderEntitlements)
		if w.SubscriptionTier != nil {
			e.Tier = domain.SubscriptionTier(*w.SubscriptionTier)
		}
		ent = e
	}
	return &domain.User{
		ID:            w.ID,
		Email:         w.Email,
		Name:          w.Name,
		Role:          role,
		Entitlements:  ent,
		IsTestAccount: w.IsTestAccount,
	}
}

// Login calls POST /api/auth/login and returns the user plus bearer token.
func (c *APIClient) Login(ctx context.Context, email, password string) (*domain.User, string, error) {
	reqBody := map[string]string{"email": email, "password": password}
	data, err := c.post(ctx, "/api/auth/login", "", reqBody)
	if err != nil {
		return nil, "", err
	}

	var loginResp struct {
		Token string   `json:"token"`
		User  wireUser `json:"user"`
	}
	if err := json.Unmarshal(data, &loginResp); err != nil {
		return nil, "", fmt.Errorf("failed to decode login response: %w", err)
	}
	return loginResp.User.toDomain(), loginResp.Token, nil
}

// Register calls POST /api/auth/register.
func (c *APIClient) Register(ctx context.Context, email, password, name string) error {
	reqBody := map[string]string{"email": email, "password": password, "name": name}
	_, err := c.post(ctx, "/api/auth/register", "", reqBody)
	return err
}

// GetProfile calls GET /api/user/me with the stored bearer token.
func (c *APIClient) GetProfile(ctx context.Context, token string) (*domain.User, error) {
	url := fmt.Sprintf("%s/api/user/me", c.baseURL)
	req, err := http.NewRequestWithContext(ctx, "GET", url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch profile: %w", err)
	}
	defer resp.Body.Close()

	data, err := c.decode(resp)
	if err != nil {
		return nil, err
	}

	var user wireUser
	if err := json.Unmarshal(data, &user); err != nil {
		return nil, fmt.Errorf("failed to decode profile response: %w", err)
	}
	return user.toDomain(), nil
}

func (c *APIClient) post(ctx context.Context, path, token string, body interface{}) (json.RawMessage, error) {
	jsonData, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	url := fmt.Sprintf("%s%s", c.baseURL, path)
	req, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to call platform API: %w", err)
	}
	defer resp.Body.Close()

	return c.decode(resp)
}

func (c *APIClient) decode(resp *http.Response) (json.RawMessage, error) {
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("platform API error: status=%d, body=%s", resp.StatusCode, string(body))
	}

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	if env.Status != "success" {
		return nil, fmt.Errorf("platform API error: %s", env.Message)
	}
	return env.Data, nil
}
