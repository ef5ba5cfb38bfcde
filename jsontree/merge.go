package jsontree

// Merge deep-merges src into the value pointed at by dst.
//
// When both sides are objects, every key of src is merged recursively into
// the corresponding (or newly created) entry of dst; keys present only in dst
// are preserved untouched. In every other pairing src replaces the
// destination wholesale: a scalar overwrites an object, an object overwrites
// an array, and so on. The merge is structural, non-commutative, depth-first,
// and never fails.
func Merge(dst *any, src any) {
	dstObj, dstIsObj := (*dst).(map[string]any)
	srcObj, srcIsObj := src.(map[string]any)

	if dstIsObj && srcIsObj {
		for k, v := range srcObj {
			entry := dstObj[k]
			Merge(&entry, v)
			dstObj[k] = entry
		}
		return
	}

	*dst = src
}
