package tofu

import "strconv"

// binder assigns unique bound-variable names during one compilation pass.
// Every sub-renderer invoked by a compile call shares the same binder, so
// _fN names never collide across nested subqueries. A fresh binder is
// created per compile call, which keeps compilation a pure function of
// builder state.
type binder struct {
	n    int
	vars map[string]any
}

func newBinder() *binder {
	return &binder{vars: make(map[string]any)}
}

// next reserves the next positional slot, binds value to it, and returns
// the generated name (without the $ sigil).
func (b *binder) next(value any) string {
	name := "_f" + strconv.Itoa(b.n)
	b.n++
	b.vars[name] = value
	return name
}

// put binds value under a fixed name. Used by the search, vector, and geo
// clauses, whose variable names are part of the query grammar.
func (b *binder) put(name string, value any) {
	b.vars[name] = value
}
