package campaign

import (
	"fmt"

	"github.com/google/uuid"
)

// ErrJobNotFound indicates the referenced job does not exist.
type ErrJobNotFound struct {
	JobID uuid.UUID
}

func (e *ErrJobNotFound) Error() string {
	return fmt.Sprintf("job not found: %s", e.JobID)
}

// ErrNotAllowed indicates the caller's company does not own the job.
type ErrNotAllowed struct {
	JobID uuid.UUID
}

func (e *ErrNotAllowed) Error() string {
	return fmt.Sprintf("not allowed to access job: %s", e.JobID)
}
