package service

import (
	"strings"

	"yamdb/internal/microservices/http-api/validators"

	"github.com/gosimple/slug"
)

const maxSlugLength = 50

// resolveSlug returns given, or a slug derived from name when given is
// empty. The result always passes validators.Slug.
func resolveSlug(name, given string) (string, error) {
	value := given
	if value == "" {
		value = slug.Make(name)
		if len(value) > maxSlugLength {
			value = strings.TrimRight(value[:maxSlugLength], "-")
		}
	}
	if err := validators.Slug(value); err != nil {
		return "", NewValidationError("slug", err.Error())
	}
	return value, nil
}
