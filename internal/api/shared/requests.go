package shared

import (
	"encoding/json"
	"net/http"

	"github.com/go-playground/validator/v10"
)

// Global validator instance for reuse
var validate = validator.New()

// maxBodyBytes caps the request body read during decoding. Input
// documents have their own tighter limit applied after parsing.
const maxBodyBytes = 2 << 20 // 2MB

// DecodeJSON decodes the request body into the given struct. Reading
// stops at maxBodyBytes so an oversized body fails fast instead of
// being buffered in full.
func DecodeJSON(r *http.Request, v interface{}) error {
	return json.NewDecoder(http.MaxBytesReader(nil, r.Body, maxBodyBytes)).Decode(v)
}

// ValidateRequest validates the given struct. Types that implement
// their own Validate method take precedence over tag-based validation.
func ValidateRequest(v interface{}) error {
	if validator, ok := v.(interface{ Validate() error }); ok {
		return validator.Validate()
	}
	return validate.Struct(v)
}
