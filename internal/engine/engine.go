// Package engine describes the boundary between the session layer and the transfer engine that does the actual
// network and disk work. The session layer only ever talks to an engine through these interfaces.
package engine

import "errors"

//go:generate mockgen -destination=mocks/engine.go -package=mocks . Engine,JobHandle

var (
	ErrInvalidIdentity = errors.New("invalid identity")
	ErrUnknownJob      = errors.New("unknown job")
	ErrAborted         = errors.New("engine aborted")
	// ErrResumeNotModified is carried by a ResumeDataFailedEvent when a conditional save found nothing to write.
	ErrResumeNotModified = errors.New("resume data not modified")
)

// Factory creates engines, and describes the settings an engine understands before one exists.
type Factory interface {
	// SettingDescriptors enumerates every setting name the engine accepts, with its type.
	SettingDescriptors() []SettingDescriptor
	DefaultSessionParams() SessionParams
	Create(params SessionParams) (Engine, error)
}

// Engine is a running transfer engine. All methods are safe for concurrent use. Commands return once accepted; their
// effects and any requested snapshots are delivered later through DrainEvents.
type Engine interface {
	// AddAsync submits a job. Success or failure is reported by an AddJobCompletedEvent.
	AddAsync(params AddParams)
	Find(id Identity) (JobHandle, bool)
	Jobs() []JobHandle
	Remove(job JobHandle, flags RemoveFlags)

	PostSessionStats()
	PostJobUpdates()
	PostDHTStats()
	// DrainEvents returns every event queued since the previous call, in delivery order.
	DrainEvents() []Event

	Pause()
	Resume()
	IsPaused() bool
	ApplySettings(pack SettingsPack) error
	SessionState(flags SaveStateFlags) SessionParams
	// Abort starts engine shutdown and returns without waiting for it to complete.
	Abort()

	StatsMetrics() []StatsMetric
	ParseJobFile(data []byte) (AddParams, error)
	ParseURI(uri string) (AddParams, error)
	ReadResumeData(data []byte) (AddParams, error)
	WriteResumeData(params AddParams) ([]byte, error)
}

// JobHandle is the engine's reference to one job. A handle outlives the job it refers to; IsValid reports whether the
// job still exists.
type JobHandle interface {
	Identity() Identity
	InfoHashes() InfoHashes
	IsValid() bool
	// Info returns the job's static metadata, if the info dictionary is known.
	Info() (JobInfo, bool)

	Flags() Flags
	SetFlags(flags Flags)
	SetFlagsMask(flags Flags, mask Flags)
	UnsetFlags(flags Flags)

	UploadLimit() int
	SetUploadLimit(limit int)
	DownloadLimit() int
	SetDownloadLimit(limit int)
	MaxUploads() int
	SetMaxUploads(limit int)
	MaxConnections() int
	SetMaxConnections(limit int)

	AddTracker(entry AnnounceEntry)
	ForceRecheck()
	ForceReannounce(seconds int, trackerIndex int)
	ScrapeTracker(trackerIndex int)
	ClearError()
	ClearPeers()
	Pause(flags PauseFlags)
	Resume()

	PostStatus()
	PostPeerInfo()
	PostFileProgress(flags FileProgressFlags)
	PostPieceInfo()
	PostPieceAvailability()
	PostTrackers()

	SaveResumeData(flags ResumeFlags)
}
