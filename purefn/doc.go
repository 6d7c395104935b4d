// Package purefn memoizes pure functions by their input.
//
// Tableize is not just a utility to add memoization. It forces the caller
// to ask whether a function really is pure: referentially transparent, not
// merely deterministic. reader.Tableize builds on it to turn a Reader into a
// lazy table indexed by environment.
//
// Tables are bounded. Entries live in two generations; when the active one
// is full the generations rotate and the older entries are dropped.
//
// WARNING: Do not use Tableize on impure functions (e.g., those depending on
// time, I/O, or a mutable environment).
package purefn
