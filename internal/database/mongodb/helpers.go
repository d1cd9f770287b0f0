package mongodb

import (
	"fmt"
	"strconv"
	"strings"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// convertBSONValue converts BSON containers to plain Go maps and slices.
func convertBSONValue(v any) any {
	switch val := v.(type) {
	case bson.M:
		result := make(map[string]any, len(val))
		for k, v := range val {
			result[k] = convertBSONValue(v)
		}
		return result
	case map[string]any:
		result := make(map[string]any, len(val))
		for k, v := range val {
			result[k] = convertBSONValue(v)
		}
		return result
	case bson.A:
		result := make([]any, len(val))
		for i, v := range val {
			result[i] = convertBSONValue(v)
		}
		return result
	case bson.D:
		result := make(map[string]any, len(val))
		for _, elem := range val {
			result[elem.Key] = convertBSONValue(elem.Value)
		}
		return result
	default:
		return v
	}
}

func normalizeDocument(doc bson.D) map[string]any {
	return convertBSONValue(doc).(map[string]any)
}

// lookupPath walks a dotted path such as "Client.email".
func lookupPath(doc map[string]any, path string) (any, bool) {
	var cur any = doc
	for _, part := range strings.Split(path, ".") {
		m, ok := cur.(map[string]any)
		if !ok {
			return nil, false
		}
		if cur, ok = m[part]; !ok {
			return nil, false
		}
	}
	return cur, true
}

// keyString renders a stored natural-key value the way Record.NaturalKey does.
func keyString(v any) string {
	switch val := v.(type) {
	case string:
		return val
	case int32:
		return strconv.FormatInt(int64(val), 10)
	case int64:
		return strconv.FormatInt(val, 10)
	case int:
		return strconv.Itoa(val)
	default:
		return fmt.Sprint(val)
	}
}

// extractDBName returns the database named in the URI path, or "" when the
// path is empty or names the admin database.
func extractDBName(uri string) string {
	rest := uri
	for _, prefix := range []string{"mongodb+srv://", "mongodb://"} {
		if strings.HasPrefix(rest, prefix) {
			rest = rest[len(prefix):]
			break
		}
	}
	if at := strings.LastIndex(rest, "@"); at >= 0 {
		rest = rest[at+1:]
	}
	slash := strings.Index(rest, "/")
	if slash < 0 {
		return ""
	}
	name := rest[slash+1:]
	if q := strings.Index(name, "?"); q >= 0 {
		name = name[:q]
	}
	if name == "admin" {
		return ""
	}
	return name
}
