package validation

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	"outreach/internal/models"
)

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

func instance() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
	})
	return validate
}

// ValidateURL checks if a URL is valid and uses an allowed scheme (http/https only).
func ValidateURL(urlStr string) (bool, string) {
	if urlStr == "" {
		return false, "URL is required"
	}

	u, err := url.Parse(urlStr)
	if err != nil {
		return false, "Invalid URL format"
	}

	scheme := strings.ToLower(u.Scheme)
	if scheme != "http" && scheme != "https" {
		return false, "URL must use http:// or https:// scheme"
	}

	if u.Host == "" {
		return false, "URL must have a valid host"
	}

	return true, ""
}

// ValidateOrigin checks a CORS origin: "*", or scheme://host[:port] with an
// optional trailing slash and nothing after it.
func ValidateOrigin(origin string) (bool, string) {
	if origin == "*" {
		return true, ""
	}
	if valid, msg := ValidateURL(origin); !valid {
		return false, msg
	}

	u, _ := url.Parse(origin)
	if (u.Path != "" && u.Path != "/") || u.RawQuery != "" || u.Fragment != "" || u.User != nil {
		return false, "origin must not contain a path, query, fragment or credentials"
	}
	return true, ""
}

// ValidateResult checks an outreach result against the published bounds:
// counts are non-negative and both rates lie in [0, 100].
func ValidateResult(r models.OutreachResult) error {
	return structError(instance().Struct(r))
}

// ValidateTriggerRequest checks the optional fields of a trigger body.
func ValidateTriggerRequest(r models.TriggerRequest) error {
	return structError(instance().Struct(r))
}

// structError flattens validator errors into a single readable message.
func structError(err error) error {
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	parts := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		if fe.Param() != "" {
			parts = append(parts, fmt.Sprintf("%s must satisfy %s=%s (got %v)", fe.Field(), fe.Tag(), fe.Param(), fe.Value()))
		} else {
			parts = append(parts, fmt.Sprintf("%s must satisfy %s (got %v)", fe.Field(), fe.Tag(), fe.Value()))
		}
	}
	return errors.New(strings.Join(parts, "; "))
}
