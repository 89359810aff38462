package config

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/go-playground/validator/v10"
	"github.com/mitchellh/mapstructure"
)

// Field describes one recognized environment variable
type Field struct {
	Key         string
	Default     string
	Description string
}

// Schema lists every recognized environment variable in validation order.
// Types and rules live on envVars; a Default here is applied before decoding.
var Schema = []Field{
	// Project
	{Key: "PROJECT_NAME", Description: "Project code name (no special chars, no spaces)"},
	{Key: "PROJECT_DISPLAY_NAME", Description: "Project display name"},
	{Key: "PROJECT_DESCRIPTION", Description: "Project description"},
	{Key: "FRONTEND_URL", Description: "Frontend app url, used for password reset"},

	// Data validation constraints
	{Key: "MIN_PASSWORD_LENGTH", Default: "8", Description: "Minimum password length"},
	{Key: "MAX_PASSWORD_LENGTH", Default: "255", Description: "Maximum password length"},
	{Key: "MIN_USERNAME_LENGTH", Default: "1", Description: "Minimum username length"},
	{Key: "MAX_USERNAME_LENGTH", Default: "50", Description: "Maximum username length"},
	{Key: "MAX_USER_FULLNAME_LENGTH", Default: "70", Description: "Maximum user fullname length"},
	{Key: "MIN_EMAIL_LENGTH", Default: "3", Description: "Minimum email length"},
	{Key: "MAX_EMAIL_LENGTH", Default: "255", Description: "Maximum email length"},

	// Runtime
	{Key: "NODE_ENV", Description: "Runtime environment: production, development or test"},
	{Key: "SECRET_KEY", Description: "General purpose secret key"},
	{Key: "LOG_FORMAT", Description: "Log format"},
	{Key: "LOG_DIR", Description: "Log directory"},
	{Key: "PORT", Default: "3000", Description: "Port number to run the server on"},

	// HTTP
	{Key: "KEEP_ALIVE_TIMEOUT", Description: "HTTP keep alive timeout in milliseconds"},
	{Key: "PARAMETER_LIMIT", Description: "HTTP parameter limit"},
	{Key: "MAXIMUM_REQUEST_BODY_SIZE", Description: "HTTP request body size, e.g. 10mb"},
	{Key: "DOMAIN_NAME", Description: "Application full domain name"},

	// Database
	{Key: "DB_URL", Description: "Database connection URL"},

	// CORS
	{Key: "ORIGIN", Description: "CORS origin"},
	{Key: "CREDENTIALS", Default: "false", Description: "CORS credentials"},

	// JWT
	{Key: "JWT_SECRET", Description: "JWT secret key"},
	{Key: "JWT_ACCESS_EXPIRATION_MINUTES", Default: "30", Description: "Minutes after which access tokens expire"},
	{Key: "JWT_REFRESH_EXPIRATION_DAYS", Default: "30", Description: "Days after which refresh tokens expire"},
	{Key: "JWT_RESET_PASSWORD_EXPIRATION_MINUTES", Default: "10", Description: "Minutes after which reset password token expires"},
	{Key: "JWT_VERIFY_EMAIL_EXPIRATION_MINUTES", Default: "10", Description: "Minutes after which verify email token expires"},

	// Email
	{Key: "SMTP_HOST", Description: "Server that will send the emails"},
	{Key: "SMTP_PORT", Description: "Port to connect to the email server"},
	{Key: "SMTP_USERNAME", Description: "Username for email server"},
	{Key: "SMTP_PASSWORD", Description: "Password for email server"},
	{Key: "EMAIL_FROM", Description: "The from field in the emails sent by the app"},

	// Twilio
	{Key: "TWILIO_ACCOUNT_SID", Description: "Twilio account SID"},
	{Key: "TWILIO_AUTH_TOKEN", Description: "Twilio auth token"},
	{Key: "TWILIO_PHONE_NUMBER", Description: "Twilio phone number"},

	// Upload
	{Key: "UPLOAD_DIR", Default: "uploads", Description: "Directory where uploaded files are stored"},
	{Key: "UPLOAD_ALLOWED_FILE_TYPES", Description: "Upload allowed file types"},
	{Key: "UPLOAD_AUDIO_ALLOWED_FILE_TYPES", Description: "Upload allowed audio file types"},
	{Key: "UPLOAD_AUDIO_DISALLOWED_FILE_TYPES", Description: "Upload disallowed audio file types"},
	{Key: "UPLOAD_IMAGE_ALLOWED_FILE_TYPES", Description: "Upload allowed image file types"},
	{Key: "UPLOAD_IMAGE_DISALLOWED_FILE_TYPES", Description: "Upload disallowed image file types"},
	{Key: "UPLOAD_VIDEO_ALLOWED_FILE_TYPES", Description: "Upload allowed video file types"},
	{Key: "UPLOAD_VIDEO_DISALLOWED_FILE_TYPES", Description: "Upload disallowed video file types"},
	{Key: "UPLOAD_DOCUMENT_ALLOWED_FILE_TYPES", Description: "Upload allowed document file types"},
	{Key: "UPLOAD_DOCUMENT_DISALLOWED_FILE_TYPES", Description: "Upload disallowed document file types"},
}

// envVars is the typed, validated shape of the recognized environment
type envVars struct {
	ProjectName        string `env:"PROJECT_NAME" validate:"required"`
	ProjectDisplayName string `env:"PROJECT_DISPLAY_NAME" validate:"required"`
	ProjectDescription string `env:"PROJECT_DESCRIPTION" validate:"required"`
	FrontendURL        string `env:"FRONTEND_URL" validate:"required"`

	MinPasswordLength     int `env:"MIN_PASSWORD_LENGTH" validate:"gte=0"`
	MaxPasswordLength     int `env:"MAX_PASSWORD_LENGTH" validate:"gte=0"`
	MinUsernameLength     int `env:"MIN_USERNAME_LENGTH" validate:"gte=0"`
	MaxUsernameLength     int `env:"MAX_USERNAME_LENGTH" validate:"gte=0"`
	MaxUserFullnameLength int `env:"MAX_USER_FULLNAME_LENGTH" validate:"gte=0"`
	MinEmailLength        int `env:"MIN_EMAIL_LENGTH" validate:"gte=0"`
	MaxEmailLength        int `env:"MAX_EMAIL_LENGTH" validate:"gte=0"`

	NodeEnv   string `env:"NODE_ENV" validate:"required,oneof=production development test"`
	SecretKey string `env:"SECRET_KEY" validate:"required"`
	LogFormat string `env:"LOG_FORMAT" validate:"required"`
	LogDir    string `env:"LOG_DIR" validate:"required"`
	Port      int    `env:"PORT" validate:"gte=1,lte=65535"`

	KeepAliveTimeout       int    `env:"KEEP_ALIVE_TIMEOUT" validate:"required,gt=0"`
	ParameterLimit         int    `env:"PARAMETER_LIMIT" validate:"required,gt=0"`
	MaximumRequestBodySize string `env:"MAXIMUM_REQUEST_BODY_SIZE" validate:"required,bytesize"`
	DomainName             string `env:"DOMAIN_NAME" validate:"required"`

	DBURL string `env:"DB_URL" validate:"required"`

	Origin      string `env:"ORIGIN" validate:"required"`
	Credentials bool   `env:"CREDENTIALS"`

	JWTSecret                         string `env:"JWT_SECRET" validate:"required"`
	JWTAccessExpirationMinutes        int    `env:"JWT_ACCESS_EXPIRATION_MINUTES" validate:"gte=0"`
	JWTRefreshExpirationDays          int    `env:"JWT_REFRESH_EXPIRATION_DAYS" validate:"gte=0"`
	JWTResetPasswordExpirationMinutes int    `env:"JWT_RESET_PASSWORD_EXPIRATION_MINUTES" validate:"gte=0"`
	JWTVerifyEmailExpirationMinutes   int    `env:"JWT_VERIFY_EMAIL_EXPIRATION_MINUTES" validate:"gte=0"`

	SMTPHost     string `env:"SMTP_HOST"`
	SMTPPort     int    `env:"SMTP_PORT" validate:"omitempty,gte=1,lte=65535"`
	SMTPUsername string `env:"SMTP_USERNAME"`
	SMTPPassword string `env:"SMTP_PASSWORD"`
	EmailFrom    string `env:"EMAIL_FROM" validate:"required"`

	TwilioAccountSID  string `env:"TWILIO_ACCOUNT_SID"`
	TwilioAuthToken   string `env:"TWILIO_AUTH_TOKEN"`
	TwilioPhoneNumber string `env:"TWILIO_PHONE_NUMBER"`

	UploadDir                         string `env:"UPLOAD_DIR" validate:"required"`
	UploadAllowedFileTypes            string `env:"UPLOAD_ALLOWED_FILE_TYPES"`
	UploadAudioAllowedFileTypes       string `env:"UPLOAD_AUDIO_ALLOWED_FILE_TYPES"`
	UploadAudioDisallowedFileTypes    string `env:"UPLOAD_AUDIO_DISALLOWED_FILE_TYPES"`
	UploadImageAllowedFileTypes       string `env:"UPLOAD_IMAGE_ALLOWED_FILE_TYPES"`
	UploadImageDisallowedFileTypes    string `env:"UPLOAD_IMAGE_DISALLOWED_FILE_TYPES"`
	UploadVideoAllowedFileTypes       string `env:"UPLOAD_VIDEO_ALLOWED_FILE_TYPES"`
	UploadVideoDisallowedFileTypes    string `env:"UPLOAD_VIDEO_DISALLOWED_FILE_TYPES"`
	UploadDocumentAllowedFileTypes    string `env:"UPLOAD_DOCUMENT_ALLOWED_FILE_TYPES"`
	UploadDocumentDisallowedFileTypes string `env:"UPLOAD_DOCUMENT_DISALLOWED_FILE_TYPES"`
}

// Violation is a single invalid or missing environment variable
type Violation struct {
	Key     string
	Message string
}

// ValidationError reports every violation found while validating the environment
type ValidationError struct {
	Violations []Violation
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Violations))
	for _, v := range e.Violations {
		parts = append(parts, fmt.Sprintf("%s: %s", v.Key, v.Message))
	}
	return "config validation error: " + strings.Join(parts, "; ")
}

// First returns the first violation in schema order
func (e *ValidationError) First() Violation {
	if len(e.Violations) == 0 {
		return Violation{}
	}
	return e.Violations[0]
}

// Keys returns the offending keys in schema order
func (e *ValidationError) Keys() []string {
	keys := make([]string, 0, len(e.Violations))
	for _, v := range e.Violations {
		keys = append(keys, v.Key)
	}
	return keys
}

var quotedKey = regexp.MustCompile(`'([A-Z0-9_]+)'`)

// decodeEnv applies schema defaults to vars, decodes the result into envVars and
// validates it. Unknown keys in vars are ignored.
func decodeEnv(vars map[string]string) (*envVars, error) {
	input := make(map[string]interface{}, len(Schema))
	for _, f := range Schema {
		if value, ok := vars[f.Key]; ok && value != "" {
			input[f.Key] = value
		} else if f.Default != "" {
			input[f.Key] = f.Default
		}
	}

	var out envVars
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:          "env",
		WeaklyTypedInput: true,
		DecodeHook:       decimalIntHook,
		Result:           &out,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create config decoder: %w", err)
	}

	reported := make(map[string]bool)
	var violations []Violation

	if err := decoder.Decode(input); err != nil {
		var decodeErr *mapstructure.Error
		if !errors.As(err, &decodeErr) {
			return nil, fmt.Errorf("failed to decode environment: %w", err)
		}
		for _, msg := range decodeErr.Errors {
			key := msg
			if m := quotedKey.FindStringSubmatch(msg); m != nil {
				key = m[1]
			}
			reported[key] = true
			violations = append(violations, Violation{Key: key, Message: fmt.Sprintf("invalid value %q", input[key])})
		}
	}

	if err := newValidator().Struct(&out); err != nil {
		var fieldErrs validator.ValidationErrors
		if !errors.As(err, &fieldErrs) {
			return nil, fmt.Errorf("failed to validate environment: %w", err)
		}
		for _, fe := range fieldErrs {
			if reported[fe.Field()] {
				continue
			}
			reported[fe.Field()] = true
			violations = append(violations, Violation{Key: fe.Field(), Message: describe(fe)})
		}
	}

	if len(violations) > 0 {
		sortBySchema(violations)
		return nil, &ValidationError{Violations: violations}
	}
	return &out, nil
}

// decimalIntHook parses string input for integer fields as base 10, so a leading
// zero or a 0x prefix is never read as octal or hex
func decimalIntHook(from reflect.Type, to reflect.Type, data interface{}) (interface{}, error) {
	if from.Kind() != reflect.String {
		return data, nil
	}
	switch to.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		s := strings.TrimSpace(data.(string))
		n, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("%q is not a decimal integer", s)
		}
		return n, nil
	}
	return data, nil
}

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		return fld.Tag.Get("env")
	})
	_ = v.RegisterValidation("bytesize", func(fl validator.FieldLevel) bool {
		_, err := humanize.ParseBytes(fl.Field().String())
		return err == nil
	})
	return v
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "oneof":
		return fmt.Sprintf("must be one of [%s]", fe.Param())
	case "bytesize":
		return fmt.Sprintf("%q is not a valid size", fe.Value())
	case "gt", "gte", "lte":
		return fmt.Sprintf("must satisfy %s=%s, got %v", fe.Tag(), fe.Param(), fe.Value())
	default:
		return fmt.Sprintf("failed %s validation", fe.Tag())
	}
}

func sortBySchema(violations []Violation) {
	order := make(map[string]int, len(Schema))
	for i, f := range Schema {
		order[f.Key] = i
	}
	sort.SliceStable(violations, func(i, j int) bool {
		oi, iok := order[violations[i].Key]
		oj, jok := order[violations[j].Key]
		if !iok {
			oi = len(Schema)
		}
		if !jok {
			oj = len(Schema)
		}
		return oi < oj
	})
}
