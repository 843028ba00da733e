package services

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/sellport/sellport-api/config"
)

// AuthUserInfo represents the user information returned from the identity
// provider's /userinfo endpoint
type AuthUserInfo struct {
	Sub          string `json:"sub"` // provider user ID
	Email        string `json:"email"`
	Name         string `json:"name"`
	UserMetadata struct {
		Role     string `json:"role"`
		Username string `json:"username"`
	} `json:"user_metadata"`
}

// AuthService handles interactions with the identity provider API
type AuthService struct {
	domain     string
	httpClient *http.Client
}

// NewAuthService creates a new identity provider service instance
func NewAuthService(cfg *config.Config) *AuthService {
	return &AuthService{
		domain: cfg.AuthDomain,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// GetUserInfo fetches user information from the provider's /userinfo endpoint
// accessToken is the JWT access token from the Authorization header
func (s *AuthService) GetUserInfo(accessToken string) (*AuthUserInfo, error) {
	// If domain already includes a protocol (for testing), use it as-is
	var url string
	if strings.HasPrefix(s.domain, "http://") || strings.HasPrefix(s.domain, "https://") {
		url = fmt.Sprintf("%s/userinfo", s.domain)
	} else {
		url = fmt.Sprintf("https://%s/userinfo", s.domain)
	}

	req, err := http.NewRequest("GET", url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Add("Authorization", "Bearer "+accessToken)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to call userinfo endpoint: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("userinfo endpoint returned status %d: %s", resp.StatusCode, string(body))
	}

	var userInfo AuthUserInfo
	if err := json.NewDecoder(resp.Body).Decode(&userInfo); err != nil {
		return nil, fmt.Errorf("failed to decode userinfo response: %w", err)
	}

	return &userInfo, nil
}
