package cache

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"time"
)

// KeySeparator delimits cache key segments. Identical logical requests must
// collide to the same key regardless of call site, so every argument is
// serialized deterministically.
const KeySeparator = ":"

// Key builds a cache key of the form prefix:arg1:arg2:... .
func Key(prefix string, args ...any) string {
	if len(args) == 0 {
		return prefix
	}

	parts := make([]string, 0, len(args)+1)
	parts = append(parts, prefix)
	for _, arg := range args {
		parts = append(parts, serializeValue(arg))
	}
	return strings.Join(parts, KeySeparator)
}

// serializeValue renders a single key argument. Basic types use their string
// representation; pointers dereference; slices serialize element-wise with a
// stable order. Anything else falls back to %v, which is acceptable here
// because key arguments are identifiers and small scalars.
func serializeValue(v any) string {
	switch x := v.(type) {
	case nil:
		return "nil"
	case string:
		return x
	case bool:
		return strconv.FormatBool(x)
	case int:
		return strconv.Itoa(x)
	case int64:
		return strconv.FormatInt(x, 10)
	case float64:
		return strconv.FormatFloat(x, 'g', -1, 64)
	case time.Time:
		return x.UTC().Format(time.RFC3339)
	case fmt.Stringer:
		return x.String()
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Ptr:
		if rv.IsNil() {
			return "nil"
		}
		return serializeValue(rv.Elem().Interface())
	case reflect.Slice, reflect.Array:
		parts := make([]string, rv.Len())
		for i := 0; i < rv.Len(); i++ {
			parts[i] = serializeValue(rv.Index(i).Interface())
		}
		return "[" + strings.Join(parts, ",") + "]"
	}

	return fmt.Sprintf("%v", v)
}
