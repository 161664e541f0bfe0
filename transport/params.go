package transport

import (
	"fmt"
	"net/url"
	"reflect"
	"strconv"
)

// Params holds the query parameters of one provider request. Values are
// scalars passed through to the provider without interpretation.
type Params map[string]any

// Scrub returns a copy of p without nil, nil-pointer or empty-string
// values. Pointers to scalars are dereferenced.
func (p Params) Scrub() Params {
	out := make(Params, len(p))
	for k, v := range p {
		v, ok := scalar(v)
		if !ok {
			continue
		}
		if s, isString := v.(string); isString && s == "" {
			continue
		}
		out[k] = v
	}
	return out
}

// Map returns p as a plain map for key derivation.
func (p Params) Map() map[string]any {
	return map[string]any(p)
}

// Encode renders p as a query string sorted by key. Values that Scrub
// would drop are omitted.
func (p Params) Encode() string {
	values := make(url.Values, len(p))
	for k, v := range p.Scrub() {
		values.Set(k, format(v))
	}
	return values.Encode()
}

// scalar unwraps pointers and reports false for nil values.
func scalar(v any) (any, bool) {
	if v == nil {
		return nil, false
	}
	rv := reflect.ValueOf(v)
	for rv.Kind() == reflect.Pointer || rv.Kind() == reflect.Interface {
		if rv.IsNil() {
			return nil, false
		}
		rv = rv.Elem()
	}
	switch rv.Kind() {
	case reflect.Map, reflect.Slice:
		if rv.IsNil() {
			return nil, false
		}
	}
	return rv.Interface(), true
}

func format(v any) string {
	switch val := v.(type) {
	case string:
		return val
	case bool:
		return strconv.FormatBool(val)
	case int:
		return strconv.Itoa(val)
	case int64:
		return strconv.FormatInt(val, 10)
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(val), 'f', -1, 32)
	case fmt.Stringer:
		return val.String()
	default:
		return fmt.Sprint(val)
	}
}
