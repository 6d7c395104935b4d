package reader

import "github.com/on-the-ground/fxbox/purefn"

// Tableize memoizes r by environment, keeping at most maxTableSize entries
// per generation. The environment must be comparable or a fmt.Stringer, and
// r must be pure: a memoized run does not run r again.
func Tableize[E purefn.ComparableOrStringer, T any](r Reader[E, T], maxTableSize uint32) Reader[E, T] {
	return New(purefn.Tableize(r.Run, maxTableSize))
}
