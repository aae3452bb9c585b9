// internal/services/identity_service.go
package services

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/farmdirect/farmdirect-backend/internal/apperr"
	"github.com/farmdirect/farmdirect-backend/internal/config"
	"github.com/farmdirect/farmdirect-backend/internal/i18n"
	"github.com/farmdirect/farmdirect-backend/internal/utils"
)

// IdentityService checks Google access tokens presented by customers.
type IdentityService struct {
	client      *http.Client
	userInfoURL string
	tokenTTL    int
}

type CreateSessionRequest struct {
	AccessToken string `json:"accessToken" validate:"required"`
}

type CustomerProfile struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Email   string `json:"email"`
	Picture string `json:"picture"`
}

type CustomerSession struct {
	User      CustomerProfile `json:"user"`
	Token     string          `json:"token"`
	TokenType string          `json:"tokenType"`
	ExpiresIn int             `json:"expiresIn"` // in seconds
}

type googleUserInfo struct {
	Sub     string `json:"sub"`
	Name    string `json:"name"`
	Email   string `json:"email"`
	Picture string `json:"picture"`
}

func NewIdentityService(cfg *config.Config, client *http.Client) *IdentityService {
	if client == nil {
		client = &http.Client{Timeout: cfg.Identity.Timeout}
	}
	return &IdentityService{
		client:      client,
		userInfoURL: cfg.Identity.UserInfoURL,
		tokenTTL:    cfg.JWT.CustomerTTL,
	}
}

// VerifyGoogleToken resolves the token against the userinfo endpoint and
// issues a customer session token for the profile it returns.
func (s *IdentityService) VerifyGoogleToken(ctx context.Context, accessToken string) (*CustomerSession, error) {
	accessToken = strings.TrimSpace(accessToken)
	if accessToken == "" {
		return nil, apperr.Validation("accessToken is required")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.userInfoURL, nil)
	if err != nil {
		return nil, apperr.Dependency("Google Login failed", err).WithKey(i18n.KeyCustomerLoginFailed)
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)
	req.Header.Set("Accept", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, apperr.Dependency("Google Login failed", err).WithKey(i18n.KeyCustomerLoginFailed)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		logrus.WithField("status", resp.StatusCode).Warn("Google userinfo rejected token")
		return nil, &apperr.Error{Kind: apperr.KindAuth, Message: "Google Login failed", Key: i18n.KeyCustomerLoginFailed}
	}

	var info googleUserInfo
	if err := json.NewDecoder(io.LimitReader(resp.Body, 1<<20)).Decode(&info); err != nil {
		return nil, apperr.Dependency("Google Login failed", fmt.Errorf("decode userinfo: %w", err)).WithKey(i18n.KeyCustomerLoginFailed)
	}
	if info.Sub == "" {
		return nil, &apperr.Error{Kind: apperr.KindAuth, Message: "Google Login failed", Key: i18n.KeyCustomerLoginFailed}
	}

	profile := CustomerProfile{
		ID:      info.Sub,
		Name:    info.Name,
		Email:   info.Email,
		Picture: info.Picture,
	}

	token, err := utils.GenerateJWT(profile.ID, profile.Email, profile.Name, utils.RoleCustomer, s.tokenTTL)
	if err != nil {
		return nil, apperr.Dependency("Google Login failed", err).WithKey(i18n.KeyCustomerLoginFailed)
	}

	return &CustomerSession{
		User:      profile,
		Token:     token,
		TokenType: "Bearer",
		ExpiresIn: s.tokenTTL * 3600,
	}, nil
}
