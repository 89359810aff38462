package config

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"github.com/ZerkerEOD/paytypes-backend/internal/testutil"
	"github.com/ZerkerEOD/paytypes-backend/pkg/debug"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_AppliesDefaults(t *testing.T) {
	settings, err := Load(Options{Environ: testutil.ValidEnv()})
	require.NoError(t, err)

	assert.Equal(t, 3000, settings.HTTP.Port)
	assert.Equal(t, ":3000", settings.GetAddress())
	assert.Equal(t, Constraints{
		MinPasswordLength:     8,
		MaxPasswordLength:     255,
		MinUsernameLength:     1,
		MaxUsernameLength:     50,
		MaxUserFullnameLength: 70,
		MinEmailLength:        3,
		MaxEmailLength:        255,
	}, settings.Constraints)
	assert.False(t, settings.CORS.Credentials)
	assert.Equal(t, 30*time.Minute, settings.JWT.AccessExpiration)
	assert.Equal(t, 30*24*time.Hour, settings.JWT.RefreshExpiration)
	assert.Equal(t, 10*time.Minute, settings.JWT.ResetPasswordExpiration)
	assert.Equal(t, 10*time.Minute, settings.JWT.VerifyEmailExpiration)
	assert.Equal(t, "uploads", settings.UploadDir)
	assert.Zero(t, settings.Mail.Port)
	assert.False(t, settings.SMTPConfigured())
}

func TestLoad_BindsValues(t *testing.T) {
	vars := testutil.ValidEnv()
	vars["PORT"] = "8081"
	vars["CREDENTIALS"] = "true"
	vars["MIN_PASSWORD_LENGTH"] = "12"
	vars["SMTP_HOST"] = "smtp.paytypes.test"
	vars["SMTP_PORT"] = "587"
	vars["JWT_REFRESH_EXPIRATION_DAYS"] = "7"
	vars["UNRELATED_VARIABLE"] = "ignored"

	settings, err := Load(Options{Environ: vars})
	require.NoError(t, err)

	assert.Equal(t, 8081, settings.HTTP.Port)
	assert.True(t, settings.CORS.Credentials)
	assert.Equal(t, 12, settings.Constraints.MinPasswordLength)
	assert.Equal(t, 65*time.Second, settings.HTTP.KeepAliveTimeout)
	assert.Equal(t, 100, settings.HTTP.ParameterLimit)
	assert.Equal(t, int64(10_000_000), settings.HTTP.MaxBodySize)
	assert.Equal(t, 7*24*time.Hour, settings.JWT.RefreshExpiration)
	assert.Equal(t, "smtp.paytypes.test", settings.Mail.Host)
	assert.Equal(t, 587, settings.Mail.Port)
	assert.True(t, settings.SMTPConfigured())
	assert.Equal(t, EnvTest, settings.Env)
	assert.False(t, settings.IsProduction())
}

func TestLoad_IntegersAreDecimal(t *testing.T) {
	vars := testutil.ValidEnv()
	vars["PORT"] = "08080"
	vars["KEEP_ALIVE_TIMEOUT"] = "010"
	vars["PARAMETER_LIMIT"] = " 0100 "

	settings, err := Load(Options{Environ: vars})
	require.NoError(t, err)

	assert.Equal(t, 8080, settings.HTTP.Port)
	assert.Equal(t, 10*time.Millisecond, settings.HTTP.KeepAliveTimeout)
	assert.Equal(t, 100, settings.HTTP.ParameterLimit)
}

func TestLoad_MissingRequiredKey(t *testing.T) {
	required := []string{
		"PROJECT_NAME", "PROJECT_DISPLAY_NAME", "PROJECT_DESCRIPTION", "FRONTEND_URL",
		"NODE_ENV", "SECRET_KEY", "LOG_FORMAT", "LOG_DIR", "KEEP_ALIVE_TIMEOUT",
		"PARAMETER_LIMIT", "MAXIMUM_REQUEST_BODY_SIZE", "DOMAIN_NAME", "DB_URL",
		"ORIGIN", "JWT_SECRET", "EMAIL_FROM",
	}

	for _, key := range required {
		t.Run(key, func(t *testing.T) {
			vars := testutil.ValidEnv()
			delete(vars, key)

			settings, err := Load(Options{Environ: vars})
			require.Error(t, err)
			assert.Nil(t, settings)

			var validationErr *ValidationError
			require.True(t, errors.As(err, &validationErr))
			assert.Equal(t, key, validationErr.First().Key)
			assert.Contains(t, err.Error(), key)
		})
	}
}

func TestLoad_MalformedValues(t *testing.T) {
	tests := []struct {
		name string
		key  string
		val  string
	}{
		{name: "non numeric port", key: "PORT", val: "http"},
		{name: "hex port", key: "PORT", val: "0x1F90"},
		{name: "fractional port", key: "PORT", val: "80.5"},
		{name: "hex keep alive", key: "KEEP_ALIVE_TIMEOUT", val: "0x10"},
		{name: "port out of range", key: "PORT", val: "70000"},
		{name: "unknown environment", key: "NODE_ENV", val: "staging"},
		{name: "non boolean credentials", key: "CREDENTIALS", val: "sometimes"},
		{name: "invalid body size", key: "MAXIMUM_REQUEST_BODY_SIZE", val: "lots"},
		{name: "zero keep alive", key: "KEEP_ALIVE_TIMEOUT", val: "0"},
		{name: "non numeric smtp port", key: "SMTP_PORT", val: "smtp"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			vars := testutil.ValidEnv()
			vars[tt.key] = tt.val

			_, err := Load(Options{Environ: vars})
			require.Error(t, err)

			var validationErr *ValidationError
			require.True(t, errors.As(err, &validationErr))
			assert.Equal(t, []string{tt.key}, validationErr.Keys())
		})
	}
}

func TestLoad_CollectsAllViolationsInSchemaOrder(t *testing.T) {
	vars := testutil.ValidEnv()
	delete(vars, "DB_URL")
	delete(vars, "PROJECT_NAME")
	vars["PORT"] = "abc"

	_, err := Load(Options{Environ: vars})
	require.Error(t, err)

	var validationErr *ValidationError
	require.True(t, errors.As(err, &validationErr))
	assert.Equal(t, []string{"PROJECT_NAME", "PORT", "DB_URL"}, validationErr.Keys())
	assert.Equal(t, "PROJECT_NAME", validationErr.First().Key)
}

func TestLoad_ReadsEnvFile(t *testing.T) {
	root := t.TempDir()
	t.Setenv("NODE_ENV", "development")

	vars := testutil.ValidEnv()
	delete(vars, "NODE_ENV")
	vars["UPLOAD_IMAGE_ALLOWED_FILE_TYPES"] = "png,jpg"

	content := ""
	for key, value := range vars {
		content += key + "=" + value + "\n"
		// godotenv writes into the process environment; t.Setenv restores the unset state afterwards
		t.Setenv(key, "")
		os.Unsetenv(key)
	}
	require.NoError(t, os.WriteFile(filepath.Join(root, ".env.development.local"), []byte(content), 0600))

	// Already-set variables are not overridden by the file
	t.Setenv("PROJECT_NAME", "from-process")

	settings, err := Load(Options{Root: root})
	require.NoError(t, err)

	assert.Equal(t, "from-process", settings.Project.Name)
	assert.Equal(t, EnvDevelopment, settings.Env)
	assert.Equal(t, "paytypes.test", settings.HTTP.DomainName)
	assert.Equal(t, []string{"png", "jpg"}, settings.Upload.Rule(CategoryImage).Allowed)
}

func TestLoadEnvFile_MissingFileIsNotAnError(t *testing.T) {
	t.Setenv("NODE_ENV", "test")

	loaded, err := LoadEnvFile(t.TempDir())
	require.NoError(t, err)
	assert.False(t, loaded)
}

func TestEnvFilePath_DefaultsToProduction(t *testing.T) {
	t.Setenv("NODE_ENV", "")
	os.Unsetenv("NODE_ENV")

	assert.Equal(t, filepath.Join("/srv/app", ".env.production.local"), EnvFilePath("/srv/app"))
}

func TestSchemaCoversEveryField(t *testing.T) {
	keys := make(map[string]bool, len(Schema))
	for _, f := range Schema {
		assert.False(t, keys[f.Key], "duplicate schema key %s", f.Key)
		keys[f.Key] = true
	}

	typ := reflect.TypeOf(envVars{})
	for i := 0; i < typ.NumField(); i++ {
		tag := typ.Field(i).Tag.Get("env")
		assert.True(t, keys[tag], "field %s has no schema entry", tag)
	}
	assert.Equal(t, typ.NumField(), len(Schema))
}

func TestLogLevel(t *testing.T) {
	t.Setenv("LOG_LEVEL", "")

	settings := &Settings{Env: EnvDevelopment}
	assert.Equal(t, debug.LevelDebug, settings.LogLevel())

	settings.Env = EnvProduction
	assert.Equal(t, debug.LevelInfo, settings.LogLevel())

	t.Setenv("LOG_LEVEL", "error")
	assert.Equal(t, debug.LevelError, settings.LogLevel())
}
