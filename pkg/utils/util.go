package utils

import (
	"strings"

	"github.com/pingcap-inc/sfadapter/pkg/relation"
)

// SplitRelationFQN splits a dotted relation name into its parts, right to left:
// "db.schema.table", "schema.table" and "table" are accepted.
// Note: quoted parts containing dots are not supported
func SplitRelationFQN(fqn string) (relation.Relation, bool) {
	parts := strings.Split(fqn, ".")
	for _, p := range parts {
		if p == "" {
			return relation.Relation{}, false
		}
	}
	switch len(parts) {
	case 1:
		return relation.Relation{Identifier: parts[0]}, true
	case 2:
		return relation.Relation{Schema: parts[0], Identifier: parts[1]}, true
	case 3:
		return relation.Relation{Database: parts[0], Schema: parts[1], Identifier: parts[2]}, true
	default:
		return relation.Relation{}, false
	}
}
