// Package schema derives dotted key paths from decoded JSON documents.
package schema

// arraySampleLimit bounds how many elements of an object array are descended
// into when collecting nested paths. The array marker itself is always
// recorded; elements past the limit are never inspected.
const arraySampleLimit = 3

// Flatten returns the set of key paths reachable in obj. Nested objects
// contribute dotted paths ("a.b"). An array whose elements are all objects
// contributes a "path[]" marker plus the union of paths found in its first
// few elements. Any other array (empty, scalar, or mixed) contributes its
// own path only.
func Flatten(obj map[string]any) map[string]struct{} {
	paths := make(map[string]struct{})
	flattenInto(obj, "", paths)
	return paths
}

func flattenInto(obj map[string]any, prefix string, paths map[string]struct{}) {
	for key, value := range obj {
		path := key
		if prefix != "" {
			path = prefix + "." + key
		}
		paths[path] = struct{}{}
		switch v := value.(type) {
		case map[string]any:
			flattenInto(v, path, paths)
		case []any:
			if !allObjects(v) {
				continue
			}
			marker := path + "[]"
			paths[marker] = struct{}{}
			for i, item := range v {
				if i == arraySampleLimit {
					break
				}
				flattenInto(item.(map[string]any), marker, paths)
			}
		}
	}
}

// allObjects reports whether v is non-empty and holds only JSON objects.
func allObjects(v []any) bool {
	if len(v) == 0 {
		return false
	}
	for _, item := range v {
		if _, ok := item.(map[string]any); !ok {
			return false
		}
	}
	return true
}
