package services

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"
)

var httpClient = &http.Client{Timeout: 15 * time.Second}

const (
	defaultGoogleTokenURL    = "https://oauth2.googleapis.com/token"
	defaultGoogleUserinfoURL = "https://www.googleapis.com/oauth2/v3/userinfo"

	// Redirect URI registered with the OAuth client.
	googleRedirectURI = "http://localhost:8080/api/v1/users/google-login"
)

// ErrNoAccessToken indicates the provider accepted the request but returned
// no access token.
var ErrNoAccessToken = errors.New("google token response missing access_token")

// GoogleUserInfo is the subset of the userinfo response this service uses.
type GoogleUserInfo struct {
	Email string `json:"email"`
	Name  string `json:"name"`
}

type googleTokenResponse struct {
	AccessToken string `json:"access_token"`
}

// GoogleTokenURL returns the token endpoint, honoring an env override so
// tests can point at a local server.
func GoogleTokenURL() string {
	if endpoint := strings.TrimSpace(os.Getenv("GOOGLE_TOKEN_URL")); endpoint != "" {
		return endpoint
	}
	return defaultGoogleTokenURL
}

// GoogleUserinfoURL returns the userinfo endpoint, honoring an env override.
func GoogleUserinfoURL() string {
	if endpoint := strings.TrimSpace(os.Getenv("GOOGLE_USERINFO_URL")); endpoint != "" {
		return endpoint
	}
	return defaultGoogleUserinfoURL
}

// ExchangeGoogleCode trades an authorization code for a provider access
// token. No retry: any failure surfaces to the caller immediately.
func ExchangeGoogleCode(code, clientID, clientSecret string) (string, error) {
	form := url.Values{
		"code":          {code},
		"client_id":     {clientID},
		"client_secret": {clientSecret},
		"redirect_uri":  {googleRedirectURI},
		"grant_type":    {"authorization_code"},
	}

	resp, err := httpClient.PostForm(GoogleTokenURL(), form)
	if err != nil {
		return "", fmt.Errorf("execute google token request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read google token response: %w", err)
	}

	var tokenResp googleTokenResponse
	if err := json.Unmarshal(respBody, &tokenResp); err != nil {
		return "", fmt.Errorf("unmarshal google token response: %w", err)
	}

	if tokenResp.AccessToken == "" {
		return "", ErrNoAccessToken
	}

	return tokenResp.AccessToken, nil
}

// FetchGoogleUserInfo loads the profile for the obtained access token.
func FetchGoogleUserInfo(accessToken string) (GoogleUserInfo, error) {
	req, err := http.NewRequest(http.MethodGet, GoogleUserinfoURL()+"?alt=json", nil)
	if err != nil {
		return GoogleUserInfo{}, fmt.Errorf("create google userinfo request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)

	resp, err := httpClient.Do(req)
	if err != nil {
		return GoogleUserInfo{}, fmt.Errorf("execute google userinfo request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return GoogleUserInfo{}, fmt.Errorf("read google userinfo response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return GoogleUserInfo{}, fmt.Errorf("google userinfo request failed: status %d, body: %s", resp.StatusCode, string(respBody))
	}

	var info GoogleUserInfo
	if err := json.Unmarshal(respBody, &info); err != nil {
		return GoogleUserInfo{}, fmt.Errorf("unmarshal google userinfo response: %w", err)
	}

	return info, nil
}
