package services

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	config "github.com/avinash2305/wellness_platform/configs"
	"github.com/golang-jwt/jwt/v4"
)

const googleTokenURL = "https://oauth2.googleapis.com/token"

type GoogleProfile struct {
	Subject  string
	Email    string
	FullName string
	Picture  string
}

type googleTokenResponse struct {
	AccessToken string `json:"access_token"`
	IDToken     string `json:"id_token"`
}

// ExchangeGoogleCode swaps an OAuth authorization code for tokens and reads
// the profile out of the ID token. The token arrives straight from Google
// over TLS, so the claims are parsed without a separate JWKS verification
// round trip.
func ExchangeGoogleCode(code string) (*GoogleProfile, error) {
	form := url.Values{}
	form.Set("code", code)
	form.Set("client_id", config.Config("GOOGLE_CLIENT_ID"))
	form.Set("client_secret", config.Config("GOOGLE_CLIENT_SECRET"))
	form.Set("redirect_uri", config.Config("GOOGLE_REDIRECT_URI"))
	form.Set("grant_type", "authorization_code")

	client := &http.Client{Timeout: 10 * time.Second}
	resp, err := client.PostForm(googleTokenURL, form)
	if err != nil {
		return nil, fmt.Errorf("failed to reach Google token endpoint: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("Google token endpoint returned status %d: %s", resp.StatusCode, string(respBody))
	}

	var tokenResp googleTokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&tokenResp); err != nil {
		return nil, fmt.Errorf("failed to decode Google token response: %v", err)
	}
	if tokenResp.IDToken == "" {
		return nil, fmt.Errorf("Google token response carried no id_token")
	}

	claims := jwt.MapClaims{}
	parser := jwt.NewParser()
	if _, _, err := parser.ParseUnverified(tokenResp.IDToken, claims); err != nil {
		return nil, fmt.Errorf("failed to parse Google ID token: %v", err)
	}

	profile := &GoogleProfile{}
	if sub, ok := claims["sub"].(string); ok {
		profile.Subject = sub
	}
	if email, ok := claims["email"].(string); ok {
		profile.Email = email
	}
	if name, ok := claims["name"].(string); ok {
		profile.FullName = name
	}
	if picture, ok := claims["picture"].(string); ok {
		profile.Picture = picture
	}

	if profile.Subject == "" || profile.Email == "" {
		return nil, fmt.Errorf("Google ID token missing subject or email")
	}
	return profile, nil
}
