package postgres

import (
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/dtroode/jobtracker-server/internal/model"
)

var (
	errMissingOwner = errors.New("job query without owner scope")
	errMissingJobID = errors.New("job query without job id")
)

// whereScope renders the ownership predicate used by every job query.
// Placeholders start at $first. A zero OwnerID is rejected so that no query
// can run unscoped.
func whereScope(scope model.Scope, first int, requireJob bool) (string, []any, error) {
	if scope.OwnerID == uuid.Nil {
		return "", nil, errMissingOwner
	}
	if requireJob && scope.JobID == uuid.Nil {
		return "", nil, errMissingJobID
	}

	clause := fmt.Sprintf("WHERE owner_id = $%d", first)
	args := []any{scope.OwnerID}
	if scope.JobID != uuid.Nil {
		clause += fmt.Sprintf(" AND id = $%d", first+1)
		args = append(args, scope.JobID)
	}

	return clause, args, nil
}
