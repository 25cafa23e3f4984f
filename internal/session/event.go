package session

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/alanbriolat/swarmkeeper/internal/engine"
)

type LogKind string

const (
	LogJobAdded          LogKind = "job_added"
	LogAddFailed         LogKind = "add_failed"
	LogMetadataReceived  LogKind = "metadata_received"
	LogJobFinished       LogKind = "job_finished"
	LogJobPaused         LogKind = "job_paused"
	LogJobResumed        LogKind = "job_resumed"
	LogJobRemoved        LogKind = "job_removed"
	LogResumeLoadFailed  LogKind = "resume_load_failed"
	LogResumeSaveFailed  LogKind = "resume_save_failed"
	LogResumeWriteFailed LogKind = "resume_write_failed"
)

// IsFailure is true for kinds that report something going wrong.
func (k LogKind) IsFailure() bool {
	switch k {
	case LogAddFailed, LogResumeLoadFailed, LogResumeSaveFailed, LogResumeWriteFailed:
		return true
	default:
		return false
	}
}

// LogEntry is one lifecycle record, as kept by the log ring and sent to subscribers.
type LogEntry struct {
	ID      uuid.UUID
	Time    time.Time
	Kind    LogKind
	Job     engine.Identity
	Message string
}

func (e LogEntry) String() string {
	if e.Job == "" {
		return fmt.Sprintf("%s %s: %s", e.Time.Format(time.RFC3339), e.Kind, e.Message)
	}
	return fmt.Sprintf("%s %s [%s]: %s", e.Time.Format(time.RFC3339), e.Kind, e.Job, e.Message)
}
