package errors

import (
	"net/url"
	"strings"
	"unicode"
)

const maxIDLength = 1024

// ValidateEntityID checks a class or method id taken from user input
// (URL path, CLI flag) before it is looked up. Ids are fully-qualified
// names, so dots, dollar signs and parentheses are all allowed; only empty,
// oversized and control-character ids are rejected.
func ValidateEntityID(id string) error {
	if id == "" {
		return New(ErrCodeInvalidInput, "id cannot be empty")
	}
	if len(id) > maxIDLength {
		return New(ErrCodeInvalidInput, "id too long (max %d characters)", maxIDLength)
	}
	for _, r := range id {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidInput, "id contains invalid control characters")
		}
	}
	return nil
}

// ValidateURL validates a dataset URL.
// It ensures the URL parses and has an http or https scheme and a host.
func ValidateURL(rawURL string) error {
	if rawURL == "" {
		return New(ErrCodeInvalidSource, "URL cannot be empty")
	}
	if !strings.HasPrefix(rawURL, "http://") && !strings.HasPrefix(rawURL, "https://") {
		return New(ErrCodeInvalidSource, "URL must use http or https scheme")
	}
	u, err := url.Parse(rawURL)
	if err != nil {
		return Wrap(ErrCodeInvalidSource, err, "invalid URL %q", rawURL)
	}
	if u.Host == "" {
		return New(ErrCodeInvalidSource, "URL %q has no host", rawURL)
	}
	return nil
}

// ValidateMongoURI validates a MongoDB connection string.
func ValidateMongoURI(uri string) error {
	if uri == "" {
		return New(ErrCodeInvalidSource, "MongoDB URI cannot be empty")
	}
	if !strings.HasPrefix(uri, "mongodb://") && !strings.HasPrefix(uri, "mongodb+srv://") {
		return New(ErrCodeInvalidSource, "MongoDB URI must use mongodb or mongodb+srv scheme")
	}
	return nil
}
