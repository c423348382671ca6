package trace

import (
	"strings"

	"github.com/google/uuid"
)

type NodeID string

// RootID is reserved for the synthetic root, since owner ids
// of recorded objects are not unique across a record.
const RootID = NodeID("root-root-root")

const provisionalPrefix = "~"

// IsProvisional reports whether id was assigned to a node that
// has not been finalized.
func (id NodeID) IsProvisional() bool {
	return strings.HasPrefix(string(id), provisionalPrefix)
}

// FinalizedID is the stable identity of a finalized node.
func FinalizedID(owner, method, class string, span TimeRange) NodeID {
	return NodeID(strings.Join([]string{
		owner, method, class, span.Start.ISO(), span.Finish.ISO(),
	}, "-"))
}

// ProvisionalID identifies a node created for an ancestor frame.
// It is unstable and superseded once the node finalizes.
func ProvisionalID(token, method, path string) NodeID {
	return NodeID(provisionalPrefix + token + "-" + method + "-" + path)
}

// NewToken returns a fresh random token for provisional ids.
func NewToken() string { return uuid.NewString() }
