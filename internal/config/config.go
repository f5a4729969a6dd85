package config

type Config interface {
	EnvConfig
	SessionConfig
	OAuthConfig
}

type EnvConfig interface {
	GetAppName() string
	GetEnv() string
	GetAPIBaseURL() string
	GetListenAddr() string
	GetCredentialFile() string
}

type OAuthConfig interface {
	GetKakaoClientID() string
	GetGoogleClientID() string
	GetCallbackBaseURL() string
}

type mainConfig struct {
	EnvVars
	Session
	OAuth
}

func New() Config {
	return mainConfig{}
}
