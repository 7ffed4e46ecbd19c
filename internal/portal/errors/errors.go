package errors

import (
	"fmt"
)

var (
	ErrNotFound         = fmt.Errorf("not found")
	ErrInvalidInput     = fmt.Errorf("invalid input")
	ErrDuplicateName    = fmt.Errorf("duplicate name")
	ErrDuplicatePending = fmt.Errorf("pending request already exists")
	ErrStatusConflict   = fmt.Errorf("request status changed concurrently")
	ErrCredentialTaken  = fmt.Errorf("credential already assigned")
	ErrForbidden        = fmt.Errorf("forbidden")
)
