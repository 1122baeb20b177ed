// Package merge produces station configuration documents by splicing
// parametrized managed-object subtrees from a reference document into a
// target document. It supports two operations: modernization (adding a new
// technology to a deployed station) and rollout (generating a complete
// document for a new station).
package merge

import (
	"github.com/rangen-network/rangen/pkg/cmdata"
	"github.com/rangen-network/rangen/pkg/util"
)

// Extract returns a detached deep copy of the first managed object of each
// requested class, in the caller's class order. A class with zero matches is
// fatal (ClassNotFoundError): a missing template subtree means the generated
// document cannot be complete. Mutating the returned subtrees never affects
// the reference document.
func Extract(ref *cmdata.Document, classes []string) ([]*cmdata.ManagedObject, error) {
	out := make([]*cmdata.ManagedObject, 0, len(classes))
	for _, class := range classes {
		matches := ref.FindByClassSuffix(class)
		if len(matches) == 0 {
			return nil, &util.ClassNotFoundError{Class: class}
		}
		out = append(out, matches[0].Copy())
	}
	return out, nil
}

// ExtractAll returns detached deep copies of every managed object of the
// given class in document order, failing like Extract when there are none.
func ExtractAll(ref *cmdata.Document, class string) ([]*cmdata.ManagedObject, error) {
	matches := ref.FindByClassSuffix(class)
	if len(matches) == 0 {
		return nil, &util.ClassNotFoundError{Class: class}
	}
	out := make([]*cmdata.ManagedObject, len(matches))
	for i, mo := range matches {
		out[i] = mo.Copy()
	}
	return out, nil
}
