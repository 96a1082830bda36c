package site

import (
	"time"

	"github.com/google/uuid"
)

// BuildOutcome is the terminal state of a build.
type BuildOutcome string

const (
	OutcomeSuccess  BuildOutcome = "success"
	OutcomeFailed   BuildOutcome = "failed"
	OutcomeCanceled BuildOutcome = "canceled"
)

// BuildReport summarizes one pipeline run. It is logged, never written
// into the output root, so generated artifacts stay reproducible.
type BuildReport struct {
	BuildID        string
	Posts          int
	StaticCopied   int
	Outcome        BuildOutcome
	Duration       time.Duration
	StageDurations map[string]time.Duration
	Warnings       []*StageError
	Errors         []*StageError
}

func newBuildReport() *BuildReport {
	return &BuildReport{
		BuildID:        uuid.NewString(),
		StageDurations: make(map[string]time.Duration),
	}
}
