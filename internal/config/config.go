package config

import (
	"fmt"
	"time"

	"github.com/ZerkerEOD/paytypes-backend/pkg/debug"
	"github.com/ZerkerEOD/paytypes-backend/pkg/env"
	"github.com/dustin/go-humanize"
)

// Environment names accepted by NODE_ENV
const (
	EnvProduction  = "production"
	EnvDevelopment = "development"
	EnvTest        = "test"
)

// ProjectSettings holds the project identity strings
type ProjectSettings struct {
	Name        string
	DisplayName string
	Description string
	FrontendURL string
}

// Constraints holds data validation bounds shared with the user-facing forms
type Constraints struct {
	MinPasswordLength     int
	MaxPasswordLength     int
	MinUsernameLength     int
	MaxUsernameLength     int
	MaxUserFullnameLength int
	MinEmailLength        int
	MaxEmailLength        int
}

// LogSettings holds where and how the application logs
type LogSettings struct {
	Format string
	Dir    string
}

// HTTPSettings holds the HTTP server tuning
type HTTPSettings struct {
	Port             int
	KeepAliveTimeout time.Duration
	ParameterLimit   int
	// MaxBodySize is MAXIMUM_REQUEST_BODY_SIZE in bytes
	MaxBodySize int64
	DomainName  string
}

// CORSSettings holds the cross-origin policy
type CORSSettings struct {
	Origin      string
	Credentials bool
}

// JWTSettings holds the token secret and lifetimes
type JWTSettings struct {
	Secret                  string
	AccessExpiration        time.Duration
	RefreshExpiration       time.Duration
	ResetPasswordExpiration time.Duration
	VerifyEmailExpiration   time.Duration
}

// MailSettings holds the SMTP provider configuration. Only From is required.
type MailSettings struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

// TwilioSettings holds the SMS provider credentials
type TwilioSettings struct {
	AccountSID  string
	AuthToken   string
	PhoneNumber string
}

// Settings holds the validated application configuration.
// It is built once at startup and must not be modified afterwards.
type Settings struct {
	Project     ProjectSettings
	Constraints Constraints
	Env         string
	SecretKey   string
	Log         LogSettings
	HTTP        HTTPSettings
	DatabaseURL string
	CORS        CORSSettings
	JWT         JWTSettings
	Mail        MailSettings
	Twilio      TwilioSettings
	UploadDir   string
	Upload      UploadPolicy
}

// Options controls how Load reads the environment
type Options struct {
	// Root is the directory searched for the .env.<NODE_ENV>.local file
	Root string
	// Environ replaces the process environment when non-nil. No env file is loaded in that case.
	Environ map[string]string
}

// Load reads, validates and binds the environment into Settings.
// The returned error is a *ValidationError when variables are missing or malformed.
func Load(opts Options) (*Settings, error) {
	vars := opts.Environ
	if vars == nil {
		if _, err := LoadEnvFile(opts.Root); err != nil {
			return nil, err
		}
		vars = env.Snapshot()
	}

	raw, err := decodeEnv(vars)
	if err != nil {
		return nil, err
	}

	settings, err := newSettings(raw)
	if err != nil {
		return nil, err
	}

	debug.Info("Configuration loaded for %s (%s)", settings.Project.Name, settings.Env)
	return settings, nil
}

func newSettings(raw *envVars) (*Settings, error) {
	bodySize, err := humanize.ParseBytes(raw.MaximumRequestBodySize)
	if err != nil {
		return nil, &ValidationError{Violations: []Violation{{
			Key:     "MAXIMUM_REQUEST_BODY_SIZE",
			Message: fmt.Sprintf("%q is not a valid size", raw.MaximumRequestBodySize),
		}}}
	}

	return &Settings{
		Project: ProjectSettings{
			Name:        raw.ProjectName,
			DisplayName: raw.ProjectDisplayName,
			Description: raw.ProjectDescription,
			FrontendURL: raw.FrontendURL,
		},
		Constraints: Constraints{
			MinPasswordLength:     raw.MinPasswordLength,
			MaxPasswordLength:     raw.MaxPasswordLength,
			MinUsernameLength:     raw.MinUsernameLength,
			MaxUsernameLength:     raw.MaxUsernameLength,
			MaxUserFullnameLength: raw.MaxUserFullnameLength,
			MinEmailLength:        raw.MinEmailLength,
			MaxEmailLength:        raw.MaxEmailLength,
		},
		Env:       raw.NodeEnv,
		SecretKey: raw.SecretKey,
		Log: LogSettings{
			Format: raw.LogFormat,
			Dir:    raw.LogDir,
		},
		HTTP: HTTPSettings{
			Port:             raw.Port,
			KeepAliveTimeout: time.Duration(raw.KeepAliveTimeout) * time.Millisecond,
			ParameterLimit:   raw.ParameterLimit,
			MaxBodySize:      int64(bodySize),
			DomainName:       raw.DomainName,
		},
		DatabaseURL: raw.DBURL,
		CORS: CORSSettings{
			Origin:      raw.Origin,
			Credentials: raw.Credentials,
		},
		JWT: JWTSettings{
			Secret:                  raw.JWTSecret,
			AccessExpiration:        time.Duration(raw.JWTAccessExpirationMinutes) * time.Minute,
			RefreshExpiration:       time.Duration(raw.JWTRefreshExpirationDays) * 24 * time.Hour,
			ResetPasswordExpiration: time.Duration(raw.JWTResetPasswordExpirationMinutes) * time.Minute,
			VerifyEmailExpiration:   time.Duration(raw.JWTVerifyEmailExpirationMinutes) * time.Minute,
		},
		Mail: MailSettings{
			Host:     raw.SMTPHost,
			Port:     raw.SMTPPort,
			Username: raw.SMTPUsername,
			Password: raw.SMTPPassword,
			From:     raw.EmailFrom,
		},
		Twilio: TwilioSettings{
			AccountSID:  raw.TwilioAccountSID,
			AuthToken:   raw.TwilioAuthToken,
			PhoneNumber: raw.TwilioPhoneNumber,
		},
		UploadDir: raw.UploadDir,
		Upload:    newUploadPolicy(raw),
	}, nil
}

// GetAddress returns the address for the server to listen on
func (s *Settings) GetAddress() string {
	return fmt.Sprintf(":%d", s.HTTP.Port)
}

// IsProduction reports whether NODE_ENV is production
func (s *Settings) IsProduction() bool {
	return s.Env == EnvProduction
}

// LogLevel returns the minimum log level for the environment.
// LOG_LEVEL overrides it when set.
func (s *Settings) LogLevel() debug.LogLevel {
	if level := env.GetOrDefault("LOG_LEVEL", ""); level != "" {
		return debug.ParseLevel(level)
	}
	if s.Env == EnvDevelopment {
		return debug.LevelDebug
	}
	return debug.LevelInfo
}

// SMTPConfigured reports whether enough SMTP settings exist to send mail
func (s *Settings) SMTPConfigured() bool {
	return s.Mail.Host != ""
}
