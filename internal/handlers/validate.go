package handlers

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"profilepages/internal/errs"
)

// Validation limits for profile, template and document fields.
const (
	maxTitleLen       = 300
	maxSlugLen        = 300
	maxDisplayNameLen = 200
	maxEmailLen       = 320
	maxStatusLen      = 32
)

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", errs.ErrInvalidInput, fmt.Sprintf(format, args...))
}

// validateProfile checks profile inputs and returns the first error found.
func validateProfile(displayName, email string) error {
	displayName = strings.TrimSpace(displayName)
	if displayName == "" {
		return invalid("display_name is required")
	}
	if utf8.RuneCountInString(displayName) > maxDisplayNameLen {
		return invalid("display_name is too long (max %d characters)", maxDisplayNameLen)
	}
	if utf8.RuneCountInString(email) > maxEmailLen {
		return invalid("email is too long (max %d characters)", maxEmailLen)
	}
	return nil
}

// validateTemplate checks template inputs and returns the first error found.
func validateTemplate(title, status string) error {
	title = strings.TrimSpace(title)
	if title == "" {
		return invalid("title is required")
	}
	if utf8.RuneCountInString(title) > maxTitleLen {
		return invalid("title is too long (max %d characters)", maxTitleLen)
	}
	if utf8.RuneCountInString(status) > maxStatusLen {
		return invalid("status is too long (max %d characters)", maxStatusLen)
	}
	return nil
}

// validateDocument checks document inputs and returns the first error found.
func validateDocument(title, slug, status string) error {
	title = strings.TrimSpace(title)
	if title == "" {
		return invalid("title is required")
	}
	if utf8.RuneCountInString(title) > maxTitleLen {
		return invalid("title is too long (max %d characters)", maxTitleLen)
	}
	if utf8.RuneCountInString(slug) > maxSlugLen {
		return invalid("slug is too long (max %d characters)", maxSlugLen)
	}
	if utf8.RuneCountInString(status) > maxStatusLen {
		return invalid("status is too long (max %d characters)", maxStatusLen)
	}
	return nil
}
