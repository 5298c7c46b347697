package quote

import (
	"errors"
	"fmt"

	"github.com/cabinetquote/backend/internal/domain/shared"
)

// SaveFailedError reports that the gateway rejected a save. The session
// keeps its snapshot so the caller may retry.
type SaveFailedError struct {
	QuoteID string
	Err     error
}

func (e *SaveFailedError) Error() string {
	if e.QuoteID == "" {
		return fmt.Sprintf("save new quote: %v", e.Err)
	}
	return fmt.Sprintf("save quote %s: %v", e.QuoteID, e.Err)
}

func (e *SaveFailedError) Unwrap() error {
	return e.Err
}

// Is makes every SaveFailedError match shared.ErrSaveFailed
func (e *SaveFailedError) Is(target error) bool {
	return target == shared.ErrSaveFailed
}

// IsSaveFailed returns true if err is or wraps a SaveFailedError
func IsSaveFailed(err error) bool {
	var saveErr *SaveFailedError
	return errors.As(err, &saveErr)
}
