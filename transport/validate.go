package transport

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Validator inspects a parsed 2xx body and rejects responses that do not
// carry the provider's success shape.
type Validator func(body []byte) error

// providerStatus is the provider's application-level envelope.
type providerStatus struct {
	Status  *bool           `json:"status"`
	Message json.RawMessage `json:"message"`
}

// text renders the provider message; non-string messages are kept as JSON.
func (s providerStatus) text() string {
	if len(s.Message) == 0 || string(s.Message) == "null" {
		return ""
	}
	var msg string
	if err := json.Unmarshal(s.Message, &msg); err == nil {
		return msg
	}
	return string(s.Message)
}

// RequireStatus rejects bodies carrying an explicit "status": false. The
// provider message, if any, becomes the error text.
func RequireStatus() Validator {
	return func(body []byte) error {
		var env providerStatus
		if err := json.Unmarshal(body, &env); err != nil {
			// Non-object bodies have no envelope to check.
			return nil
		}
		if env.Status != nil && !*env.Status {
			msg := env.text()
			if msg == "" {
				return ErrStatusFalse
			}
			return fmt.Errorf("%w: %s", ErrStatusFalse, msg)
		}
		return nil
	}
}

// RequireNonEmpty rejects bodies where the value at the given object path
// is missing or is an empty array or object. RequireNonEmpty("data",
// "hotels") requires body.data.hotels to hold at least one element.
func RequireNonEmpty(path ...string) Validator {
	where := strings.Join(path, ".")
	return func(body []byte) error {
		var node any
		if err := json.Unmarshal(body, &node); err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidJSON, err)
		}
		for _, field := range path {
			obj, ok := node.(map[string]any)
			if !ok {
				return fmt.Errorf("%w: %s is not an object", ErrUnexpectedShape, where)
			}
			node, ok = obj[field]
			if !ok || node == nil {
				return fmt.Errorf("%w: %s is missing", ErrUnexpectedShape, where)
			}
		}
		switch val := node.(type) {
		case []any:
			if len(val) == 0 {
				return fmt.Errorf("%w: %s", ErrEmptyCollection, where)
			}
		case map[string]any:
			if len(val) == 0 {
				return fmt.Errorf("%w: %s", ErrEmptyCollection, where)
			}
		default:
			return fmt.Errorf("%w: %s is not a collection", ErrUnexpectedShape, where)
		}
		return nil
	}
}

// All combines validators; the first rejection wins.
func All(validators ...Validator) Validator {
	return func(body []byte) error {
		for _, v := range validators {
			if v == nil {
				continue
			}
			if err := v(body); err != nil {
				return err
			}
		}
		return nil
	}
}
