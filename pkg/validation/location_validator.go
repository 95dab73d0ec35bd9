package validation

import (
	"net/url"
	"path"
	"strings"

	apperrors "go-frame-filters/internal/errors"
)

// LocationValidator checks source and result locations before they reach a
// storage backend. Absolute URLs must use an allowed scheme and host; bare
// object names are accepted only when allowNames is set.
type LocationValidator struct {
	allowedSchemes []string
	allowedHosts   []string
	allowNames     bool
}

// NewURLValidator accepts absolute http and https URLs on any host
func NewURLValidator() *LocationValidator {
	return &LocationValidator{
		allowedSchemes: []string{"http", "https"},
		allowedHosts:   []string{},
	}
}

// NewObjectValidator additionally accepts relative object names, as used by
// the blob and filesystem backends. Blob URLs must be https.
func NewObjectValidator() *LocationValidator {
	return &LocationValidator{
		allowedSchemes: []string{"https"},
		allowedHosts:   []string{},
		allowNames:     true,
	}
}

// NewURLValidatorWithOptions creates a URL validator with custom schemes and
// a host allow-list; an empty host list allows every host
func NewURLValidatorWithOptions(schemes []string, hosts []string) *LocationValidator {
	return &LocationValidator{
		allowedSchemes: schemes,
		allowedHosts:   hosts,
	}
}

// ValidateLocation validates a source location
func (v *LocationValidator) ValidateLocation(location string) error {
	if strings.TrimSpace(location) == "" {
		return apperrors.NewValidationError("location cannot be empty", nil)
	}

	if v.allowNames && !strings.Contains(location, "://") && !strings.HasPrefix(location, "data:") {
		return ValidateObjectName(location)
	}

	parsedURL, err := url.Parse(location)
	if err != nil {
		return apperrors.NewValidationError("invalid URL format", err)
	}

	if !v.isSchemeAllowed(parsedURL.Scheme) {
		return apperrors.NewValidationError("URL scheme not allowed", nil)
	}

	if parsedURL.Host == "" {
		return apperrors.NewValidationError("URL must have a valid host", nil)
	}

	if !v.isHostAllowed(parsedURL.Hostname()) {
		return apperrors.NewValidationError("URL host not allowed", nil)
	}

	return nil
}

// ValidateObjectName rejects names that are absolute or climb out of their
// root with "..".
func ValidateObjectName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return apperrors.NewValidationError("object name cannot be empty", nil)
	}
	if strings.HasPrefix(name, "/") || strings.HasPrefix(name, `\`) {
		return apperrors.NewValidationError("object name must be relative", nil)
	}
	for _, part := range strings.FieldsFunc(name, func(r rune) bool { return r == '/' || r == '\\' }) {
		if part == ".." {
			return apperrors.NewValidationError("object name must not contain '..'", nil)
		}
	}
	if path.Clean(name) == "." {
		return apperrors.NewValidationError("object name must name a file", nil)
	}
	return nil
}

func (v *LocationValidator) isSchemeAllowed(scheme string) bool {
	for _, allowed := range v.allowedSchemes {
		if strings.EqualFold(scheme, allowed) {
			return true
		}
	}
	return false
}

// isHostAllowed returns true if no host restrictions are set
func (v *LocationValidator) isHostAllowed(host string) bool {
	if len(v.allowedHosts) == 0 {
		return true
	}
	for _, allowed := range v.allowedHosts {
		if strings.EqualFold(host, allowed) {
			return true
		}
	}
	return false
}
