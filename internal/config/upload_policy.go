package config

import (
	"strings"

	"github.com/ZerkerEOD/paytypes-backend/pkg/env"
)

// Category is a media category with its own upload rules
type Category string

const (
	CategoryAudio    Category = "audio"
	CategoryImage    Category = "image"
	CategoryVideo    Category = "video"
	CategoryDocument Category = "document"
)

// Categories lists every known media category
var Categories = []Category{CategoryAudio, CategoryImage, CategoryVideo, CategoryDocument}

// FileTypeRule holds the allowed and disallowed extensions of one category.
// A nil list means the corresponding variable was not set.
type FileTypeRule struct {
	Allowed    []string
	Disallowed []string
}

// UploadPolicy is the read-only upload configuration derived from the environment
type UploadPolicy struct {
	// AllowedFileTypes is the global allow-list, used when a category has no allow-list of its own
	AllowedFileTypes []string
	FileTypes        map[Category]FileTypeRule
}

func newUploadPolicy(vars *envVars) UploadPolicy {
	return UploadPolicy{
		AllowedFileTypes: env.SplitList(vars.UploadAllowedFileTypes),
		FileTypes: map[Category]FileTypeRule{
			CategoryAudio: {
				Allowed:    env.SplitList(vars.UploadAudioAllowedFileTypes),
				Disallowed: env.SplitList(vars.UploadAudioDisallowedFileTypes),
			},
			CategoryImage: {
				Allowed:    env.SplitList(vars.UploadImageAllowedFileTypes),
				Disallowed: env.SplitList(vars.UploadImageDisallowedFileTypes),
			},
			CategoryVideo: {
				Allowed:    env.SplitList(vars.UploadVideoAllowedFileTypes),
				Disallowed: env.SplitList(vars.UploadVideoDisallowedFileTypes),
			},
			CategoryDocument: {
				Allowed:    env.SplitList(vars.UploadDocumentAllowedFileTypes),
				Disallowed: env.SplitList(vars.UploadDocumentDisallowedFileTypes),
			},
		},
	}
}

// Rule returns the rule of a category. Unknown categories get an empty rule.
func (p UploadPolicy) Rule(category Category) FileTypeRule {
	return p.FileTypes[category]
}

// Permits reports whether a file extension may be uploaded in the given category.
//
// Disallowed entries always win. Otherwise the category allow-list applies when set,
// then the global allow-list, and with neither set every extension is accepted.
// Comparison ignores case and a leading dot.
func (p UploadPolicy) Permits(category Category, ext string) bool {
	ext = NormalizeExtension(ext)
	if ext == "" {
		return false
	}

	rule := p.Rule(category)
	if containsExtension(rule.Disallowed, ext) {
		return false
	}
	if len(rule.Allowed) > 0 {
		return containsExtension(rule.Allowed, ext)
	}
	if len(p.AllowedFileTypes) > 0 {
		return containsExtension(p.AllowedFileTypes, ext)
	}
	return true
}

// NormalizeExtension lower-cases an extension and strips a leading dot
func NormalizeExtension(ext string) string {
	return strings.ToLower(strings.TrimPrefix(strings.TrimSpace(ext), "."))
}

func containsExtension(list []string, ext string) bool {
	for _, token := range list {
		if NormalizeExtension(token) == ext {
			return true
		}
	}
	return false
}
