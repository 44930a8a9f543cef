package common

import "fmt"

var (
	ErrFileNotFoundError         = fmt.Errorf("file not found")
	ErrInvalidFileNameError      = fmt.Errorf("invalid file name")
	ErrUnknownCounterDriverError = fmt.Errorf("unknown counter driver")
)
