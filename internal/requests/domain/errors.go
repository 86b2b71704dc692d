package domain

import (
	"fmt"

	"procurement_backend/platform/apperr"
)

// illegalTransition builds the error every guard failure reports: the
// attempted operation and the status it was attempted from.
func illegalTransition(op string, status fmt.Stringer) *apperr.Error {
	return apperr.Conflict(fmt.Sprintf("%s not allowed in status %s", op, status))
}

func (s RequestStatus) String() string { return string(s) }

func (s RfqItemStatus) String() string { return string(s) }
