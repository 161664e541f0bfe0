package cache

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
)

// Key derives the cache key for one provider request.
//
// Format: <namespace>_<endpoint>_<params>
// where params is canonical JSON: object keys are sorted, so two parameter
// maps with the same content always produce the same key regardless of
// insertion order. The namespace is mandatory and keeps collaborators from
// reading each other's entries.
//
// Neither name may contain '{' and the endpoint may not contain '_', so a
// key splits back into exactly one (namespace, endpoint, params) triple.
// Key does not enforce MaxKeyLength: an oversized key still identifies the
// request, and Layer skips caching it.
func Key(namespace, endpoint string, params map[string]any) (string, error) {
	if err := checkName("namespace", namespace, "{"); err != nil {
		return "", err
	}
	if err := checkName("endpoint", endpoint, "{_"); err != nil {
		return "", err
	}

	if params == nil {
		params = map[string]any{}
	}
	canonical, err := canonicalize(params)
	if err != nil {
		return "", fmt.Errorf("cache: failed to canonicalize params: %w", err)
	}

	return namespace + "_" + endpoint + "_" + string(canonical), nil
}

func checkName(what, name, forbidden string) error {
	switch {
	case strings.TrimSpace(name) == "":
		return fmt.Errorf("%w: %s is required", ErrInvalidKey, what)
	case strings.ContainsAny(name, "\n\r"):
		return fmt.Errorf("%w: %s contains a line break", ErrInvalidKey, what)
	case strings.ContainsAny(name, forbidden):
		return fmt.Errorf("%w: %s %q contains one of %q", ErrInvalidKey, what, name, forbidden)
	}
	return nil
}

// canonicalize produces a deterministic JSON representation of v.
func canonicalize(v any) ([]byte, error) {
	switch val := v.(type) {
	case nil:
		return []byte("null"), nil
	case map[string]any:
		return canonicalizeMap(val)
	case []any:
		return canonicalizeSlice(val)
	default:
		return marshal(v)
	}
}

func canonicalizeMap(m map[string]any) ([]byte, error) {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	result := []byte("{")
	for i, k := range keys {
		if i > 0 {
			result = append(result, ',')
		}

		keyBytes, err := marshal(k)
		if err != nil {
			return nil, err
		}
		result = append(result, keyBytes...)
		result = append(result, ':')

		valBytes, err := canonicalize(m[k])
		if err != nil {
			return nil, err
		}
		result = append(result, valBytes...)
	}
	return append(result, '}'), nil
}

func canonicalizeSlice(s []any) ([]byte, error) {
	result := []byte("[")
	for i, v := range s {
		if i > 0 {
			result = append(result, ',')
		}
		valBytes, err := canonicalize(v)
		if err != nil {
			return nil, err
		}
		result = append(result, valBytes...)
	}
	return append(result, ']'), nil
}

// marshal encodes v without HTML escaping, so keys stay readable.
func marshal(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}
