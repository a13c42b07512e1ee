package helpers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// maxBodyBytes caps request bodies read by DecodeAndValidate.
const maxBodyBytes = 1 << 20

// Validator is implemented by request bodies that check their own fields.
// A non-empty result means the body is rejected.
type Validator interface {
	Validate() []string
}

// DecodeAndValidate reads a single JSON object from the body into dest and runs
// its Validate method when it has one. Unknown fields are rejected. On any
// failure the error response is written and false is returned.
func DecodeAndValidate(w http.ResponseWriter, r *http.Request, dest any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()

	err := dec.Decode(dest)
	if err == nil && dec.More() {
		err = errTrailingData
	}
	if err != nil {
		status, msg := decodeFailure(err)
		code := ErrCodeBadRequest
		if status == http.StatusRequestEntityTooLarge {
			code = ErrCodePayloadTooLarge
		}
		WriteJSONError(w, status, code, msg)
		return false
	}

	if v, ok := dest.(Validator); ok {
		if problems := v.Validate(); len(problems) > 0 {
			WriteJSONError(w, http.StatusBadRequest, ErrCodeBadRequest, strings.Join(problems, "; "))
			return false
		}
	}
	return true
}

var errTrailingData = errors.New("request body must contain a single JSON object")

func decodeFailure(err error) (int, string) {
	var (
		syntaxErr  *json.SyntaxError
		typeErr    *json.UnmarshalTypeError
		tooManyErr *http.MaxBytesError
	)
	switch {
	case errors.Is(err, io.EOF):
		return http.StatusBadRequest, "request body is required"
	case errors.Is(err, io.ErrUnexpectedEOF):
		return http.StatusBadRequest, "request body is truncated"
	case errors.As(err, &tooManyErr):
		return http.StatusRequestEntityTooLarge, fmt.Sprintf("request body too large, limit is %d bytes", tooManyErr.Limit)
	case errors.As(err, &syntaxErr):
		return http.StatusBadRequest, fmt.Sprintf("malformed JSON at offset %d", syntaxErr.Offset)
	case errors.As(err, &typeErr):
		return http.StatusBadRequest, fmt.Sprintf("field %q must be %s", typeErr.Field, typeErr.Type)
	}
	return http.StatusBadRequest, err.Error()
}
