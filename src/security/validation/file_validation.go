package validation

import (
	"bytes"
	"fmt"
	"net/http"
	"strings"
	"unicode/utf8"

	"github.com/chapati23/morning-briefing/src/logger"
)

// sniffLen matches the number of bytes http.DetectContentType considers.
const sniffLen = 512

// isBinaryContent checks if a buffer contains binary control characters (like null bytes)
// which indicate the payload is not a text document.
func isBinaryContent(buf []byte) bool {
	if bytes.IndexByte(buf, 0) != -1 {
		return true
	}
	return !utf8.Valid(buf)
}

// ValidateHTMLContent checks that a fetched body looks like a text/HTML document before it is
// handed to the row extractor. It returns the detected content type.
func ValidateHTMLContent(body []byte) (string, error) {
	if len(body) == 0 {
		return "", fmt.Errorf("%w: response body is empty", ErrValidationFailed)
	}

	head := body
	if len(head) > sniffLen {
		head = head[:sniffLen]
	}

	// A multi-byte rune can straddle the sniff boundary; only the full body decides UTF-8 validity.
	if bytes.IndexByte(head, 0) != -1 || isBinaryContent(body) {
		logger.L.Warn("Fetched body rejected: binary content detected")
		return "application/octet-stream", fmt.Errorf("%w: response body appears to be binary", ErrValidationFailed)
	}

	detected := http.DetectContentType(head)
	detected = strings.ToLower(strings.Split(detected, ";")[0])

	allowed := map[string]bool{
		"text/html":  true,
		"text/plain": true,
		"text/xml":   true,
	}
	if !allowed[detected] {
		logger.L.Warn("Disallowed detected content type for fetched body", "detectedContentType", detected)
		return detected, fmt.Errorf("%w: detected content type '%s' is not allowed", ErrValidationFailed, detected)
	}

	logger.L.Debug("Fetched body content type validated", "detectedContentType", detected)
	return detected, nil
}
