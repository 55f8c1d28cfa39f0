package requester

import (
	"encoding/json"
	"fmt"
	"net/url"
	"reflect"
	"regexp"
	"strconv"
	"strings"
)

var placeholderPattern = regexp.MustCompile(`\{([^{}]*)\}`)

// resolvePath substitutes every {name} in template with the escaped value of
// params[name]. Every placeholder must have a non-empty param.
func resolvePath(template string, params map[string]any) (string, error) {
	var firstErr error
	resolved := placeholderPattern.ReplaceAllStringFunc(template, func(token string) string {
		if firstErr != nil {
			return token
		}
		name := token[1 : len(token)-1]
		if name == "" {
			firstErr = Malformed("empty placeholder in path %q", template)
			return token
		}
		value, ok := params[name]
		if !ok {
			firstErr = Malformed("missing path param %q for %q", name, template)
			return token
		}
		s, ok := formatScalar(value)
		if !ok {
			firstErr = Malformed("path param %q must be a string or number, got %T", name, value)
			return token
		}
		if s == "" {
			firstErr = Malformed("path param %q is empty", name)
			return token
		}
		return escapePathValue(s)
	})
	if firstErr != nil {
		return "", firstErr
	}
	if strings.ContainsAny(resolved, "{}") {
		return "", Malformed("unbalanced braces in path %q", template)
	}
	return resolved, nil
}

// escapePathValue percent-encodes everything outside the unreserved set,
// including '/', so a value always stays inside its segment.
func escapePathValue(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}

// formatScalar renders strings, booleans, numbers and Stringers. Pointers are
// followed; a nil value is not a scalar.
func formatScalar(v any) (string, bool) {
	switch x := v.(type) {
	case nil:
		return "", false
	case string:
		return x, true
	case json.Number:
		return x.String(), true
	case fmt.Stringer:
		rv := reflect.ValueOf(v)
		if rv.Kind() == reflect.Pointer && rv.IsNil() {
			return "", false
		}
		return x.String(), true
	}

	rv := reflect.ValueOf(v)
	for rv.Kind() == reflect.Pointer || rv.Kind() == reflect.Interface {
		if rv.IsNil() {
			return "", false
		}
		rv = rv.Elem()
	}

	switch rv.Kind() {
	case reflect.String:
		return rv.String(), true
	case reflect.Bool:
		return strconv.FormatBool(rv.Bool()), true
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return strconv.FormatInt(rv.Int(), 10), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return strconv.FormatUint(rv.Uint(), 10), true
	case reflect.Float32:
		return strconv.FormatFloat(rv.Float(), 'f', -1, 32), true
	case reflect.Float64:
		return strconv.FormatFloat(rv.Float(), 'f', -1, 64), true
	default:
		return "", false
	}
}
