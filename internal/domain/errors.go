package domain

import "errors"

var (
	ErrEmptyName          = errors.New("please enter a name")
	ErrNoUserSelected     = errors.New("please select your name first")
	ErrUnknownParticipant = errors.New("participant not found")
	ErrNoReading          = errors.New("no reading assigned for this date")
	ErrFutureReading      = errors.New("reading is not due yet")
	ErrParticipantExists  = errors.New("this participant already exists")
	ErrAlreadyCompleted   = errors.New("already marked complete")
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrInvalidWeek        = errors.New("week must look like 2026-W01")
)
