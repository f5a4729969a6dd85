package config

import (
	"fmt"
	"os"
)

const (
	listenAddrEnvVar = "LISTEN_PORT"
	appNameVar       = "APP_NAME"
	apiBaseURLVar    = "API_BASE_URL"
	credentialFile   = "CREDENTIAL_FILE"
	kakaoClientVar   = "KAKAO_CLIENT_ID"
	googleClientVar  = "GOOGLE_CLIENT_ID"
	callbackBaseVar  = "CALLBACK_BASE_URL"
)

type EnvVars struct{}

var _ EnvConfig = EnvVars{}

func (EnvVars) GetListenAddr() string {
	port := GetEnv(listenAddrEnvVar, "9090")
	if port != "" && port[0] != ':' {
		port = fmt.Sprintf(":%s", port)
	}
	return port
}

func (EnvVars) GetAppName() string {
	return GetEnv(appNameVar, "Yeohaeng")
}

func (EnvVars) GetAPIBaseURL() string {
	return GetEnv(apiBaseURLVar, "http://localhost:8080/api")
}

func (EnvVars) GetCredentialFile() string {
	return GetEnv(credentialFile, "./data/credentials.db")
}

func (EnvVars) GetEnv() string {
	env := os.Getenv("ENV")
	if env == "" {
		return "DEV"
	}
	return env
}

type OAuth struct{}

var _ OAuthConfig = OAuth{}

func (OAuth) GetKakaoClientID() string {
	return GetEnv(kakaoClientVar, "")
}

func (OAuth) GetGoogleClientID() string {
	return GetEnv(googleClientVar, "")
}

// GetCallbackBaseURL is where the identity provider sends the browser back
// to; the local callback listener must be reachable there.
func (OAuth) GetCallbackBaseURL() string {
	return GetEnv(callbackBaseVar, "http://localhost:9090")
}

func GetEnv(envVar, defaultValue string) string {
	value := os.Getenv(envVar)
	if value == "" {
		return defaultValue
	}
	return value
}
