package shared

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/go-playground/validator/v10"
)

// MaxBodyBytes caps request bodies; task payloads are a handful of short strings.
const MaxBodyBytes = 1 << 20

var validate = validator.New()

// DecodeJSON decodes the request body into v. Empty bodies and trailing data are rejected.
func DecodeJSON(w http.ResponseWriter, r *http.Request, v interface{}) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, MaxBodyBytes))
	if err := dec.Decode(v); err != nil {
		if errors.Is(err, io.EOF) {
			return fmt.Errorf("request body is empty")
		}
		return err
	}
	if dec.More() {
		return fmt.Errorf("request body must contain a single JSON value")
	}
	return nil
}

// ValidateRequest validates v with its own Validate method if it has one,
// otherwise with the struct tags.
func ValidateRequest(v interface{}) error {
	if validator, ok := v.(interface{ Validate() error }); ok {
		return validator.Validate()
	}
	return validate.Struct(v)
}
