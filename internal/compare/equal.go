package compare

// Equal reports structural equality over the JSON value model: numbers,
// strings, booleans, null, ordered arrays and key-unordered objects. Values
// of mismatched kinds are never equal; there is no type coercion.
func Equal(a, b any) bool {
	switch av := a.(type) {
	case nil:
		return b == nil
	case bool:
		bv, ok := b.(bool)
		return ok && av == bv
	case float64:
		bv, ok := b.(float64)
		return ok && av == bv
	case string:
		bv, ok := b.(string)
		return ok && av == bv
	case []any:
		bv, ok := b.([]any)
		if !ok || len(av) != len(bv) {
			return false
		}
		for i := range av {
			if !Equal(av[i], bv[i]) {
				return false
			}
		}
		return true
	case map[string]any:
		bv, ok := b.(map[string]any)
		if !ok || len(av) != len(bv) {
			return false
		}
		for k, v := range av {
			bvv, present := bv[k]
			if !present || !Equal(v, bvv) {
				return false
			}
		}
		return true
	default:
		// Values outside the JSON model only occur on programmer error;
		// treat them as never equal rather than guessing.
		return false
	}
}
