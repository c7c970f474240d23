package utils

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"mime"
	"strings"

	"github.com/eaglebank/loan-service/shared/models"
	"github.com/shopspring/decimal"
)

var (
	ErrNotANumber = errors.New("not a number")
	ErrNotADate   = errors.New("not a YYYY-MM-DD date")
)

// ParseAmount reads a JSON value as a decimal. Numbers and numeric strings are
// accepted; null, booleans, objects and arrays are not.
func ParseAmount(raw json.RawMessage) (decimal.Decimal, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return decimal.Zero, ErrNotANumber
	}

	var text string
	switch raw[0] {
	case '"':
		if err := json.Unmarshal(raw, &text); err != nil {
			return decimal.Zero, fmt.Errorf("%w: %v", ErrNotANumber, err)
		}
		text = strings.TrimSpace(text)
	case '-', '0', '1', '2', '3', '4', '5', '6', '7', '8', '9':
		text = string(raw)
	default:
		return decimal.Zero, ErrNotANumber
	}

	amount, err := decimal.NewFromString(text)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %q", ErrNotANumber, text)
	}
	return amount, nil
}

// ParseDate reads a JSON string holding a YYYY-MM-DD date.
func ParseDate(raw json.RawMessage) (models.Date, error) {
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return models.Date{}, ErrNotADate
	}
	d, err := models.ParseDate(s)
	if err != nil {
		return models.Date{}, fmt.Errorf("%w: %v", ErrNotADate, err)
	}
	return d, nil
}

// IsJSONContentType reports whether a Content-Type header names JSON,
// including structured suffixes such as application/problem+json.
func IsJSONContentType(contentType string) bool {
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return false
	}
	if mediaType == "application/json" {
		return true
	}
	return strings.HasPrefix(mediaType, "application/") && strings.HasSuffix(mediaType, "+json")
}
