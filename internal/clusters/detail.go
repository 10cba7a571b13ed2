package clusters

import (
	"errors"
	"slices"

	"github.com/JaimeStill/regtriage/internal/categories"
)

// Selectors accepted by ErrorTestcases in addition to the bucket names.
const (
	SelectAll = "all"
	SelectTag = "tag"
)

// ErrUnknownSelector indicates an error type that is neither a bucket nor
// one of the extra selectors. The command line rejects it; the HTTP surface
// answers with an empty selection.
var ErrUnknownSelector = errors.New("unknown error type")

// ValidSelector reports whether errorType is a bucket name or one of the
// extra selectors.
func ValidSelector(errorType string) bool {
	if errorType == SelectAll || errorType == SelectTag {
		return true
	}
	_, ok := categories.ParseBucket(errorType)
	return ok
}

// ErrorTestcases returns the sorted testcases of command selected by
// errorType: a bucket name, "all" for every distinct testcase, or "tag" for
// the cluster of (command, tag). An unknown command, tag or error type
// yields an empty list.
func ErrorTestcases(c *Clusters, m categories.Membership, command, errorType, tag string) []string {
	var ids []string

	switch errorType {
	case SelectAll:
		ids = c.Testcases(command)
	case SelectTag:
		if cl, ok := c.Cluster(command, tag); ok {
			ids = cl.Testcases
		}
	default:
		if b, ok := categories.ParseBucket(errorType); ok {
			ids = c.Partition(command, m)[b]
		}
	}

	out := slices.Clone(ids)
	if out == nil {
		out = []string{}
	}
	slices.Sort(out)
	return out
}
