package handler

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
)

var (
	errNotObject     = errors.New("body is not a JSON object")
	errTrailingData  = errors.New("unexpected data after JSON object")
	errAPIKeyMissing = errors.New("api_key not provided")
)

// decodeCredential reads a body holding exactly one JSON object and returns
// its api_key. Read errors are returned unwrapped so callers can match
// *http.MaxBytesError.
func decodeCredential(body io.Reader) (string, error) {
	data, err := io.ReadAll(body)
	if err != nil {
		return "", err
	}

	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return "", errNotObject
	}

	dec := json.NewDecoder(bytes.NewReader(trimmed))
	var fields map[string]json.RawMessage
	if err := dec.Decode(&fields); err != nil {
		return "", fmt.Errorf("invalid JSON: %w", err)
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return "", errTrailingData
	}

	raw, ok := fields["api_key"]
	if !ok {
		return "", errAPIKeyMissing
	}
	var apiKey string
	if err := json.Unmarshal(raw, &apiKey); err != nil {
		return "", fmt.Errorf("api_key is not a string: %w", err)
	}
	if strings.TrimSpace(apiKey) == "" {
		return "", errAPIKeyMissing
	}
	return apiKey, nil
}
