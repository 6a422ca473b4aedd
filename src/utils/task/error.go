package task

import "errors"

var ErrAlreadyStarted = errors.New("task already started")
