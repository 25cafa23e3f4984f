package resume

import (
	"github.com/google/uuid"

	"github.com/alanbriolat/swarmkeeper/internal/engine"
	"github.com/alanbriolat/swarmkeeper/internal/sync_"
)

type Status uint8

const (
	NoResume Status = iota
	Requested
	Written
)

func (s Status) String() string {
	switch s {
	case NoResume:
		return "no_resume"
	case Requested:
		return "requested"
	case Written:
		return "written"
	default:
		return "unknown"
	}
}

// JobState is the resume state of one job.
type JobState struct {
	Status Status
	// RequestID identifies the most recent save request, for correlating log lines.
	RequestID uuid.UUID
	Flags     engine.ResumeFlags
	Requests  int
	Writes    int
}

// Tracker follows each job through NoResume -> Requested -> Written. Any later trigger moves it back to Requested.
type Tracker struct {
	jobs *sync_.RWMutexed[map[engine.Identity]JobState]
}

func NewTracker() *Tracker {
	return &Tracker{jobs: sync_.NewRWMutexed(make(map[engine.Identity]JobState))}
}

// Requested records a save request for id, returning the new request's ID.
func (t *Tracker) Requested(id engine.Identity, flags engine.ResumeFlags) uuid.UUID {
	requestID := uuid.New()
	_ = t.jobs.Locked(func(jobs *map[engine.Identity]JobState) error {
		s := (*jobs)[id]
		s.Status = Requested
		s.RequestID = requestID
		s.Flags = flags
		s.Requests++
		(*jobs)[id] = s
		return nil
	})
	return requestID
}

// Written records a successful write for id, returning the ID of the request it answers, if any.
func (t *Tracker) Written(id engine.Identity) (requestID uuid.UUID) {
	_ = t.jobs.Locked(func(jobs *map[engine.Identity]JobState) error {
		s := (*jobs)[id]
		s.Status = Written
		s.Writes++
		requestID = s.RequestID
		(*jobs)[id] = s
		return nil
	})
	return requestID
}

// Get returns the state for id; unknown jobs are in NoResume.
func (t *Tracker) Get(id engine.Identity) JobState {
	var s JobState
	_ = t.jobs.RLocked(func(jobs *map[engine.Identity]JobState) error {
		s = (*jobs)[id]
		return nil
	})
	return s
}

// Forget drops id. The resume file itself is left in place, so a re-added job picks it up.
func (t *Tracker) Forget(id engine.Identity) {
	_ = t.jobs.Locked(func(jobs *map[engine.Identity]JobState) error {
		delete(*jobs, id)
		return nil
	})
}
