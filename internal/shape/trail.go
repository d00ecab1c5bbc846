package shape

import (
	"reflect"
	"slices"
)

// Trail tracks the types currently being resolved, outermost first.
type Trail struct {
	types []reflect.Type
}

// Push appends t unless it is already on the trail, in which case it reports false.
func (tr *Trail) Push(t reflect.Type) bool {
	if slices.Contains(tr.types, t) {
		return false
	}

	tr.types = append(tr.types, t)

	return true
}

func (tr *Trail) Pop() {
	if len(tr.types) > 0 {
		tr.types = tr.types[:len(tr.types)-1]
	}
}

func (tr *Trail) Depth() int { return len(tr.types) }

// Path renders the trail, e.g. "A -> B -> A" when closing a cycle with t.
func (tr *Trail) Path(t reflect.Type) string {
	var res string
	for _, x := range append(slices.Clone(tr.types), t) {
		if res != "" {
			res += " -> "
		}

		res += x.String()
	}

	return res
}
