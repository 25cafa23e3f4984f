package resume

import "github.com/alanbriolat/swarmkeeper/internal/engine"

// Trigger decides whether ev should cause a resume save, returning the job to save and what the save must include.
// Only lifecycle transitions trigger a save; status updates never do.
func Trigger(ev engine.Event) (job engine.JobHandle, flags engine.ResumeFlags, ok bool) {
	switch e := ev.(type) {
	case engine.MetadataReceivedEvent:
		return e.Handle, engine.ResumeSaveInfoDict, e.Handle != nil
	case engine.AddJobCompletedEvent:
		if e.Err != nil {
			return nil, 0, false
		}
		return e.Handle, engine.ResumeSaveInfoDict | engine.ResumeIfMetadataChanged, e.Handle != nil
	case engine.JobFinishedEvent:
		return e.Handle, engine.ResumeSaveInfoDict | engine.ResumeIfDownloadProgress, e.Handle != nil
	case engine.JobPausedEvent:
		return e.Handle, engine.ResumeSaveInfoDict, e.Handle != nil
	default:
		return nil, 0, false
	}
}
