package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"intellibiz-backend/apperrors"
)

// OAuthProfile is the identity a provider vouches for.
type OAuthProfile struct {
	Email         string
	Name          string
	EmailVerified bool
}

// OAuthVerifier exchanges a provider access token for the account profile.
// Implementations must reject tokens that were issued to another application.
type OAuthVerifier interface {
	Verify(ctx context.Context, accessToken string) (*OAuthProfile, error)
}

type providerClient struct {
	httpClient *http.Client
}

// getJSON performs a GET and decodes a 200 response into dest. 400 and 401
// mean the token was refused.
func (p providerClient) getJSON(ctx context.Context, endpoint, bearer string, dest any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return apperrors.NewInternalError("failed to build provider request", err)
	}
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return apperrors.NewExternalError("provider unreachable", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusBadRequest {
		return apperrors.NewUnauthorizedError("Invalid provider token")
	}
	if resp.StatusCode != http.StatusOK {
		return apperrors.NewExternalError("provider error", fmt.Errorf("status %d", resp.StatusCode))
	}
	if err := json.NewDecoder(resp.Body).Decode(dest); err != nil {
		return apperrors.NewExternalError("malformed provider response", err)
	}
	return nil
}

func withQuery(endpoint string, params url.Values) string {
	sep := "?"
	if strings.Contains(endpoint, "?") {
		sep = "&"
	}
	return endpoint + sep + params.Encode()
}

// GoogleVerifier checks the token audience through the tokeninfo endpoint and
// then reads the profile from userinfo.
type GoogleVerifier struct {
	providerClient
	clientID     string
	tokenInfoURL string
	userInfoURL  string
}

func NewGoogleVerifier(clientID, tokenInfoURL, userInfoURL string, timeout time.Duration) *GoogleVerifier {
	return &GoogleVerifier{
		providerClient: providerClient{httpClient: &http.Client{Timeout: timeout}},
		clientID:       clientID,
		tokenInfoURL:   tokenInfoURL,
		userInfoURL:    userInfoURL,
	}
}

// googleBool accepts both the boolean and the string form Google uses for
// email_verified.
type googleBool bool

func (b *googleBool) UnmarshalJSON(data []byte) error {
	*b = googleBool(strings.Trim(string(data), `"`) == "true")
	return nil
}

func (v *GoogleVerifier) Verify(ctx context.Context, accessToken string) (*OAuthProfile, error) {
	var info struct {
		Aud string `json:"aud"`
		Azp string `json:"azp"`
	}
	if err := v.getJSON(ctx, withQuery(v.tokenInfoURL, url.Values{"access_token": {accessToken}}), "", &info); err != nil {
		return nil, err
	}
	if info.Aud != v.clientID && info.Azp != v.clientID {
		return nil, apperrors.NewUnauthorizedError("Provider token was issued to another application")
	}

	var body struct {
		Email         string     `json:"email"`
		Name          string     `json:"name"`
		EmailVerified googleBool `json:"email_verified"`
	}
	if err := v.getJSON(ctx, v.userInfoURL, accessToken, &body); err != nil {
		return nil, err
	}
	return &OAuthProfile{Email: body.Email, Name: body.Name, EmailVerified: bool(body.EmailVerified)}, nil
}

// FacebookVerifier validates the token with debug_token under the app's own
// credentials before reading /me.
type FacebookVerifier struct {
	providerClient
	appID     string
	appSecret string
	graphURL  string
}

func NewFacebookVerifier(appID, appSecret, graphURL string, timeout time.Duration) *FacebookVerifier {
	return &FacebookVerifier{
		providerClient: providerClient{httpClient: &http.Client{Timeout: timeout}},
		appID:          appID,
		appSecret:      appSecret,
		graphURL:       strings.TrimRight(graphURL, "/"),
	}
}

func (v *FacebookVerifier) Verify(ctx context.Context, accessToken string) (*OAuthProfile, error) {
	var debug struct {
		Data struct {
			AppID   string `json:"app_id"`
			IsValid bool   `json:"is_valid"`
		} `json:"data"`
	}
	params := url.Values{
		"input_token":  {accessToken},
		"access_token": {v.appID + "|" + v.appSecret},
	}
	if err := v.getJSON(ctx, withQuery(v.graphURL+"/debug_token", params), "", &debug); err != nil {
		return nil, err
	}
	if !debug.Data.IsValid {
		return nil, apperrors.NewUnauthorizedError("Invalid provider token")
	}
	if debug.Data.AppID != v.appID {
		return nil, apperrors.NewUnauthorizedError("Provider token was issued to another application")
	}

	var me struct {
		Email string `json:"email"`
		Name  string `json:"name"`
	}
	if err := v.getJSON(ctx, withQuery(v.graphURL+"/me", url.Values{"fields": {"name,email"}}), accessToken, &me); err != nil {
		return nil, err
	}
	// Graph only exposes confirmed addresses.
	return &OAuthProfile{Email: me.Email, Name: me.Name, EmailVerified: me.Email != ""}, nil
}
