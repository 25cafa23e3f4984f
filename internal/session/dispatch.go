package session

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/alanbriolat/swarmkeeper/internal/engine"
	"github.com/alanbriolat/swarmkeeper/internal/resume"
)

// dispatch applies one event. Must be called with dispatchMu held.
func (s *Session) dispatch(ev engine.Event) {
	switch e := ev.(type) {
	case engine.StatsEvent:
		s.caches.Stats.Update(e.Time, e.Counters)
		s.waiters.resolve(waitKey{kind: engine.KindStats})
	case engine.JobStatusBatchEvent:
		for _, status := range e.Statuses {
			s.caches.Jobs.Update(status.ID, status)
			s.waiters.resolve(waitKey{kind: engine.KindJobStatusBatch, id: status.ID})
		}
		s.waiters.resolve(waitKey{kind: engine.KindJobStatusBatch})
	case engine.DHTStatsEvent:
		s.caches.DHT.Update(e.Stats)
		s.waiters.resolve(waitKey{kind: engine.KindDHTStats})
	case engine.PeerListEvent:
		s.caches.Peers.Update(e.ID, e.Peers)
		s.waiters.resolve(waitKey{kind: e.Kind(), id: e.ID})
	case engine.FileProgressEvent:
		s.caches.FileProgress.Update(e.ID, e.Progress)
		s.waiters.resolve(waitKey{kind: e.Kind(), id: e.ID})
	case engine.PieceInfoEvent:
		s.caches.PieceInfo.Update(e.ID, e.Info)
		s.waiters.resolve(waitKey{kind: e.Kind(), id: e.ID})
	case engine.PieceAvailabilityEvent:
		s.caches.PieceAvailability.Update(e.ID, e.Availability)
		s.waiters.resolve(waitKey{kind: e.Kind(), id: e.ID})
	case engine.TrackerListEvent:
		s.caches.Trackers.Update(e.ID, e.Trackers)
		s.waiters.resolve(waitKey{kind: e.Kind(), id: e.ID})

	case engine.AddJobCompletedEvent:
		if e.Err != nil {
			s.record(LogAddFailed, e.Params.Identity(), fmt.Sprintf("failed to add %s: %v", describe(e.Params), e.Err))
			return
		}
		s.record(LogJobAdded, handleID(e.Handle, e.Params.Identity()), fmt.Sprintf("added %s", describe(e.Params)))
		s.requestResume(ev)
	case engine.MetadataReceivedEvent:
		s.record(LogMetadataReceived, handleID(e.Handle, ""), "metadata received")
		s.requestResume(ev)
	case engine.JobFinishedEvent:
		s.record(LogJobFinished, handleID(e.Handle, ""), "finished")
		s.requestResume(ev)
	case engine.JobPausedEvent:
		s.record(LogJobPaused, handleID(e.Handle, ""), "paused")
		s.requestResume(ev)
	case engine.JobResumedEvent:
		s.record(LogJobResumed, handleID(e.Handle, ""), "resumed")
	case engine.JobRemovedEvent:
		s.caches.RemoveJob(e.ID)
		s.tracker.Forget(e.ID)
		s.waiters.failJob(e.ID, engine.ErrUnknownJob)
		s.record(LogJobRemoved, e.ID, "removed")

	case engine.ResumeDataReadyEvent:
		s.writeResume(e)
	case engine.ResumeDataFailedEvent:
		if errors.Is(e.Err, engine.ErrResumeNotModified) {
			return
		}
		s.record(LogResumeSaveFailed, e.ID, fmt.Sprintf("resume save failed: %v", e.Err))

	case engine.PeerConnectEvent, engine.LogEvent:
		// Too frequent to be worth keeping
	default:
		s.log.Debugf("dropping unhandled event %v", ev.Kind())
	}
}

// requestResume asks the engine for resume data if ev calls for it.
func (s *Session) requestResume(ev engine.Event) {
	job, flags, ok := resume.Trigger(ev)
	if !ok || job == nil || !job.IsValid() {
		return
	}
	requestID := s.tracker.Requested(job.Identity(), flags)
	s.log.Debugw("requesting resume data", "job", job.Identity(), "flags", flags, "request", requestID)
	job.SaveResumeData(flags)
}

// writeResume encodes and stores a resume record. Failures are recorded but never retried; the job is saved again on
// its next lifecycle transition.
func (s *Session) writeResume(e engine.ResumeDataReadyEvent) {
	id := e.ID
	if id == "" {
		id = e.Params.Identity()
	}
	data, err := s.engine.WriteResumeData(e.Params)
	if err == nil {
		err = s.resumes.Write(id, data)
	}
	if err != nil {
		s.record(LogResumeWriteFailed, id, fmt.Sprintf("resume write failed: %v", err))
		return
	}
	requestID := s.tracker.Written(id)
	s.log.Debugw("resume data written", "job", id, "bytes", len(data), "request", requestID)
}

// record keeps a lifecycle record, publishes it to subscribers and logs it.
func (s *Session) record(kind LogKind, id engine.Identity, message string) {
	entry := LogEntry{
		ID:      uuid.New(),
		Time:    time.Now(),
		Kind:    kind,
		Job:     id,
		Message: message,
	}
	s.logs.push(entry)
	s.events.Send(entry)
	log := s.log
	if id != "" {
		log = log.With("job", id)
	}
	if kind.IsFailure() {
		log.Warnf("%s", message)
	} else {
		log.Infof("%s", message)
	}
}

func handleID(h engine.JobHandle, fallback engine.Identity) engine.Identity {
	if h == nil {
		return fallback
	}
	return h.Identity()
}

// describe names a job for log messages.
func describe(params engine.AddParams) string {
	if params.Name != "" {
		return fmt.Sprintf("%q", params.Name)
	}
	if id := params.Identity(); id != "" {
		return id.String()
	}
	return "job"
}
