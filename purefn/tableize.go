package purefn

// Tableize memoizes pureFn by its argument.
func Tableize[I ComparableOrStringer, O any](
	pureFn func(I) O,
	maxTableSize uint32,
) func(I) O {
	memo := NewTable[O](maxTableSize)
	return func(in I) O {
		if v, ok := memo.Load(in); ok {
			return v
		}
		v := pureFn(in)
		memo.Store(in, v)
		return v
	}
}
