package objectstore

import (
	"fmt"
	"strconv"
	"strings"
)

// Properties accepted by ParseOrderBy.
const (
	PropertyName             = "cmis:name"
	PropertyObjectID         = "cmis:objectId"
	PropertyCreationDate     = "cmis:creationDate"
	PropertyLastModification = "cmis:lastModificationDate"
)

// LessFunc orders two versioned documents.
type LessFunc func(a, b *VersionedDocument) bool

// ParseOrderBy turns an order clause of the form "<property> [ASC|DESC]"
// into a LessFunc. An empty clause orders by identifier.
func ParseOrderBy(orderBy string) (LessFunc, error) {
	fields := strings.Fields(orderBy)
	if len(fields) == 0 {
		return byID, nil
	}
	if len(fields) > 2 {
		return nil, fmt.Errorf("%w: malformed order by clause %q", ErrInvalidArgument, orderBy)
	}

	var less LessFunc
	switch fields[0] {
	case PropertyName:
		less = func(a, b *VersionedDocument) bool { return a.Name < b.Name }
	case PropertyObjectID:
		less = byID
	case PropertyCreationDate:
		less = func(a, b *VersionedDocument) bool { return a.CreatedAt.Before(b.CreatedAt) }
	case PropertyLastModification:
		less = func(a, b *VersionedDocument) bool { return a.ModifiedAt.Before(b.ModifiedAt) }
	default:
		return nil, fmt.Errorf("%w: cannot order by %q", ErrInvalidArgument, fields[0])
	}

	if len(fields) == 2 {
		switch strings.ToUpper(fields[1]) {
		case "ASC":
		case "DESC":
			asc := less
			less = func(a, b *VersionedDocument) bool { return asc(b, a) }
		default:
			return nil, fmt.Errorf("%w: unknown sort direction %q", ErrInvalidArgument, fields[1])
		}
	}
	return less, nil
}

func byID(a, b *VersionedDocument) bool {
	return compareIDs(a.ID, b.ID) < 0
}

// compareIDs orders numeric identifiers numerically and falls back to
// string order for anything else.
func compareIDs(a, b string) int {
	na, errA := strconv.ParseInt(a, 10, 64)
	nb, errB := strconv.ParseInt(b, 10, 64)
	if errA == nil && errB == nil {
		switch {
		case na < nb:
			return -1
		case na > nb:
			return 1
		}
		return 0
	}
	return strings.Compare(a, b)
}
