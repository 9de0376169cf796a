package runtime

import (
	"fmt"
	"strconv"
	"strings"
)

// ToString renders a value for display. Strings render bare; inside
// containers they are quoted. Object fields are sorted by name.
func ToString(val Value) string {
	if s, ok := val.(StringValue); ok {
		return s.Val
	}
	return Inspect(val)
}

// Inspect renders a value unambiguously.
func Inspect(val Value) string {
	switch v := val.(type) {
	case StringValue:
		return strconv.Quote(v.Val)
	case IntegerValue:
		return strconv.FormatInt(int64(v.Val), 10)
	case FloatValue:
		return strconv.FormatFloat(float64(v.Val), 'g', -1, 32)
	case BoolValue:
		if v.Val {
			return "true"
		}
		return "false"
	case NoneValue:
		return "none"
	case *ListValue:
		parts := make([]string, 0, v.Len())
		for _, el := range v.elements {
			parts = append(parts, Inspect(el))
		}
		return fmt.Sprintf("[%s]", strings.Join(parts, ", "))
	case *ObjectValue:
		keys := v.Keys()
		parts := make([]string, 0, len(keys))
		for _, k := range keys {
			parts = append(parts, fmt.Sprintf("%s: %s", k, Inspect(v.fields[k])))
		}
		return fmt.Sprintf("{%s}", strings.Join(parts, ", "))
	case nil:
		return "<nil>"
	default:
		return fmt.Sprintf("<%s>", val.Kind())
	}
}
