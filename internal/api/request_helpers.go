package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/dtd2x/vocabmaster/internal/domain"
)

// maxRequestBodyBytes caps request payloads; no legitimate request here needs
// more than a megabyte.
const maxRequestBodyBytes = 1 << 20

// DecodeJSON decodes a JSON request body into dst, rejecting oversized
// bodies and trailing garbage.
func DecodeJSON(r *http.Request, dst interface{}) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxRequestBodyBytes))
	if err := dec.Decode(dst); err != nil {
		return fmt.Errorf("decoding request body: %w", err)
	}
	if dec.More() {
		return errors.New("unexpected data after JSON body")
	}
	return nil
}

// URLParamUUID parses a UUID route parameter.
func URLParamUUID(r *http.Request, name string) (uuid.UUID, error) {
	raw := chi.URLParam(r, name)
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: %q is not a valid %s", domain.ErrInvalidID, raw, name)
	}
	return id, nil
}
