package requester

import (
	"encoding/json"
	"fmt"
	"net/url"
	"reflect"
	"sort"
	"strings"

	"github.com/google/go-querystring/query"
)

// encodeQuery serializes the descriptor's query params. Keys are sorted;
// array elements keep their order. An empty result means no query string.
func encodeQuery(desc *Descriptor) (string, error) {
	values := make(map[string][]string)

	if desc.QueryOptions != nil {
		opts, err := query.Values(desc.QueryOptions)
		if err != nil {
			return "", Malformed("invalid query options %T: %v", desc.QueryOptions, err)
		}
		for key, vals := range opts {
			if _, overridden := desc.QueryParams[key]; overridden {
				continue
			}
			values[key] = append(values[key], vals...)
		}
	}

	for name, raw := range desc.QueryParams {
		if isOmitted(raw) {
			continue
		}
		if err := appendQueryValue(values, name, raw, desc.QueryStyles[name]); err != nil {
			return "", err
		}
	}

	keys := make([]string, 0, len(values))
	for key, vals := range values {
		if len(vals) > 0 {
			keys = append(keys, key)
		}
	}
	sort.Strings(keys)

	var b strings.Builder
	for _, key := range keys {
		for _, v := range values[key] {
			if b.Len() > 0 {
				b.WriteByte('&')
			}
			b.WriteString(url.QueryEscape(key))
			b.WriteByte('=')
			b.WriteString(url.QueryEscape(v))
		}
	}
	return b.String(), nil
}

func isOmitted(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Interface, reflect.Map, reflect.Slice:
		return rv.IsNil()
	}
	return false
}

func appendQueryValue(values map[string][]string, name string, raw any, style QueryStyle) error {
	if s, ok := formatScalar(raw); ok {
		values[name] = append(values[name], s)
		return nil
	}

	rv := reflect.ValueOf(raw)
	for rv.Kind() == reflect.Pointer {
		rv = rv.Elem()
	}

	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		items, err := scalarItems(name, rv)
		if err != nil {
			return err
		}
		switch style {
		case QueryStyleComma:
			if len(items) > 0 {
				values[name] = append(values[name], strings.Join(items, ","))
			}
		case QueryStyleDefault, QueryStyleRepeat:
			values[name] = append(values[name], items...)
		default:
			return Malformed("query param %q: style %d does not apply to arrays", name, style)
		}
		return nil

	case reflect.Map, reflect.Struct:
		switch style {
		case QueryStyleDefault, QueryStyleJSON:
			encoded, err := json.Marshal(rv.Interface())
			if err != nil {
				return Malformed("query param %q: %v", name, err)
			}
			values[name] = append(values[name], string(encoded))
			return nil
		case QueryStyleExplode:
			return explodeObject(values, name, rv)
		default:
			return Malformed("query param %q: style %d does not apply to objects", name, style)
		}
	}

	return Malformed("query param %q has unsupported type %T", name, raw)
}

func scalarItems(name string, rv reflect.Value) ([]string, error) {
	items := make([]string, 0, rv.Len())
	for i := 0; i < rv.Len(); i++ {
		item := rv.Index(i).Interface()
		s, ok := formatScalar(item)
		if !ok {
			return nil, Malformed("query param %q[%d] must be a scalar, got %T", name, i, item)
		}
		items = append(items, s)
	}
	return items, nil
}

// explodeObject writes each entry of a map, or each tagged field of a struct,
// as a top level parameter.
func explodeObject(values map[string][]string, name string, rv reflect.Value) error {
	if rv.Kind() == reflect.Struct {
		fields, err := query.Values(rv.Interface())
		if err != nil {
			return Malformed("query param %q: %v", name, err)
		}
		for key, vals := range fields {
			values[key] = append(values[key], vals...)
		}
		return nil
	}

	iter := rv.MapRange()
	for iter.Next() {
		key := fmt.Sprint(iter.Key().Interface())
		entry := iter.Value().Interface()
		if isOmitted(entry) {
			continue
		}
		if err := appendQueryValue(values, key, entry, QueryStyleRepeat); err != nil {
			return err
		}
	}
	return nil
}
