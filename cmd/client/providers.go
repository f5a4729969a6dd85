package main

import (
	"fmt"

	"github.com/yeohaeng/travel-client/internal/config"
	"golang.org/x/oauth2"
)

var kakaoEndpoint = oauth2.Endpoint{
	AuthURL:  "https://kauth.kakao.com/oauth/authorize",
	TokenURL: "https://kauth.kakao.com/oauth/token",
}

var googleEndpoint = oauth2.Endpoint{
	AuthURL:  "https://accounts.google.com/o/oauth2/auth",
	TokenURL: "https://oauth2.googleapis.com/token",
}

// authorizeURL builds the provider consent URL. The provider redirects the
// browser back to our callback listener with a one-time authorization code;
// the token exchange itself happens on the backend, never here.
func authorizeURL(c config.OAuthConfig, provider string) (string, error) {
	var clientID string
	var endpoint oauth2.Endpoint

	switch provider {
	case "kakao":
		clientID = c.GetKakaoClientID()
		endpoint = kakaoEndpoint
	case "google":
		clientID = c.GetGoogleClientID()
		endpoint = googleEndpoint
	default:
		return "", fmt.Errorf("unknown provider %q", provider)
	}
	if clientID == "" {
		return "", fmt.Errorf("no client ID configured for %s", provider)
	}

	conf := &oauth2.Config{
		ClientID:    clientID,
		Endpoint:    endpoint,
		RedirectURL: fmt.Sprintf("%s/oauth/%s/callback", c.GetCallbackBaseURL(), provider),
	}
	return conf.AuthCodeURL(""), nil
}
