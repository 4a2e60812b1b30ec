package rescache

import "strings"

// Classifier decides the shape of a request from its arguments.
type Classifier struct {
	// CollectionArgs identify the canonical "find everything" request.
	CollectionArgs Args
}

// IsFullCollection reports whether args are exactly the collection arguments.
func (c Classifier) IsFullCollection(args Args) bool {
	if len(args) != len(c.CollectionArgs) {
		return false
	}
	for i := range args {
		if argKey(args[i]) != argKey(c.CollectionArgs[i]) {
			return false
		}
	}
	return true
}

// IsAnyCollection reports whether args plausibly return more than one record:
// every collection argument is present in any position, or the All marker is.
// It is broader than IsFullCollection.
func (c Classifier) IsAnyCollection(args Args) bool {
	present := make(map[string]struct{}, len(args))
	for _, a := range args {
		if s, ok := a.(string); ok && strings.EqualFold(strings.TrimSpace(s), All) {
			return true
		}
		present[argKey(a)] = struct{}{}
	}
	if len(c.CollectionArgs) == 0 {
		return false
	}
	for _, want := range c.CollectionArgs {
		if _, ok := present[argKey(want)]; !ok {
			return false
		}
	}
	return true
}
