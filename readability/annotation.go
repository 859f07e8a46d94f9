package readability

import "golang.org/x/net/html"

// annotationFlag is the per-node bitset described here.
type annotationFlag uint8

const (
	flagToScore annotationFlag = 1 << iota
	flagInitialized
	flagCandidate
	flagTopCandidate
	flagDataTable
)

// annotation is the auxiliary record the side table attaches to element
// nodes: a score plus a small flag bitset. One way to track this is by
// serializing it into a "data-readability-score" DOM attribute, but
// that leaks engine bookkeeping into the tree and requires string
// round-tripping float64 scores. Here annotations instead live in an
// external map keyed by node identity, owned by one extraction call;
// destroying the call's session discards them without ever touching
// the DOM.
type annotation struct {
	score float64
	flags annotationFlag
}

// annotations is the side-table described above. It is never shared
// across extraction calls.
type annotations map[*html.Node]*annotation

func newAnnotations() annotations {
	return make(annotations)
}

func (a annotations) get(n *html.Node) *annotation {
	return a[n]
}

func (a annotations) ensure(n *html.Node) *annotation {
	ann := a[n]
	if ann == nil {
		ann = &annotation{}
		a[n] = ann
	}
	return ann
}

func (a annotations) has(n *html.Node) bool {
	_, ok := a[n]
	return ok
}

func (a annotations) score(n *html.Node) float64 {
	if ann := a[n]; ann != nil {
		return ann.score
	}
	return 0
}

func (a annotations) setScore(n *html.Node, score float64) {
	a.ensure(n).score = score
}

func (a annotations) addScore(n *html.Node, delta float64) {
	a.ensure(n).score += delta
}

func (a annotations) is(n *html.Node, f annotationFlag) bool {
	if ann := a[n]; ann != nil {
		return ann.flags&f != 0
	}
	return false
}

func (a annotations) setFlag(n *html.Node, f annotationFlag) {
	a.ensure(n).flags |= f
}
