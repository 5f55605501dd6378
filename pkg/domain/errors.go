package domain

import "errors"

// ErrPrerequisiteMissing is returned when a fatal host prerequisite (the interpreter) is absent.
var ErrPrerequisiteMissing = errors.New("prerequisite missing")

// ErrReportNotFound is returned when a report ID cannot be found in the store.
var ErrReportNotFound = errors.New("report not found")

// ErrInvalidPlan is returned when a provisioning plan fails validation.
var ErrInvalidPlan = errors.New("invalid plan")

// ErrNativeAudioUnavailable is returned when the binary was built without PortAudio support.
var ErrNativeAudioUnavailable = errors.New("native audio enumeration not available")
