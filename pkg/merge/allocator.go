package merge

import (
	"strconv"
	"strings"

	"github.com/rangen-network/rangen/pkg/cmdata"
)

// NextSuffix returns one greater than the largest trailing numeric suffix
// carried by any managed object of the given class, or 1 when the document
// has none. Distinguished names without a parsable suffix are ignored.
// Inserting a subtree renumbered to this value can never collide with an
// existing identifier.
func NextSuffix(doc *cmdata.Document, class string) int {
	max := 0
	for _, mo := range doc.FindByClassSuffix(class) {
		if n, ok := cmdata.SegmentSuffix(cmdata.LastSegment(mo.DN)); ok && n > max {
			max = n
		}
	}
	return max + 1
}

// Renumber returns a deep copy of the subtree with the numeric suffix of its
// root distinguished name rewritten to the given value. Every descendant name
// embedding the root's segment as a path segment is rewritten transitively;
// class names and unrelated path segments are untouched. The input subtree is
// never modified.
func Renumber(node *cmdata.ManagedObject, suffix int) *cmdata.ManagedObject {
	oldSeg := cmdata.LastSegment(node.DN)
	newSeg := cmdata.SegmentBase(oldSeg) + "-" + strconv.Itoa(suffix)

	c := node.Copy()
	c.Walk(func(mo *cmdata.ManagedObject) {
		segs := cmdata.SplitDN(mo.DN)
		for i, s := range segs {
			if s == oldSeg {
				segs[i] = newSeg
			}
		}
		mo.DN = cmdata.JoinDN(segs)
	})
	return c
}

// Reparent returns a deep copy of the subtree re-rooted beneath anchorDN with
// the given numeric suffix: the copy's root name becomes
// anchorDN/<base>-<suffix> and every descendant name has the old root prefix
// replaced accordingly. The input subtree is never modified.
func Reparent(node *cmdata.ManagedObject, anchorDN string, suffix int) *cmdata.ManagedObject {
	oldDN := node.DN
	newDN := anchorDN + "/" + cmdata.SegmentBase(cmdata.LastSegment(oldDN)) + "-" + strconv.Itoa(suffix)

	c := node.Copy()
	c.Walk(func(mo *cmdata.ManagedObject) {
		if mo.DN == oldDN {
			mo.DN = newDN
			return
		}
		if strings.HasPrefix(mo.DN, oldDN+"/") {
			mo.DN = newDN + strings.TrimPrefix(mo.DN, oldDN)
		}
	})
	return c
}
