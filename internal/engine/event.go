package engine

import "time"

type EventKind string

const (
	KindStats             EventKind = "stats"
	KindJobStatusBatch    EventKind = "job_status_batch"
	KindDHTStats          EventKind = "dht_stats"
	KindPeerList          EventKind = "peer_list"
	KindFileProgress      EventKind = "file_progress"
	KindPieceInfo         EventKind = "piece_info"
	KindPieceAvailability EventKind = "piece_availability"
	KindTrackerList       EventKind = "tracker_list"
	KindMetadataReceived  EventKind = "metadata_received"
	KindAddJobCompleted   EventKind = "add_job_completed"
	KindJobFinished       EventKind = "job_finished"
	KindJobPaused         EventKind = "job_paused"
	KindJobResumed        EventKind = "job_resumed"
	KindJobRemoved        EventKind = "job_removed"
	KindResumeDataReady   EventKind = "resume_data_ready"
	KindResumeDataFailed  EventKind = "resume_data_failed"
	KindPeerConnect       EventKind = "peer_connect"
	KindLog               EventKind = "log"
)

// Event is a notification drained from the engine.
type Event interface {
	Kind() EventKind
}

type StatsEvent struct {
	Time     time.Time
	Counters []int64
}

type JobStatusBatchEvent struct {
	Statuses []JobStatus
}

type DHTStatsEvent struct {
	Stats DHTStats
}

type PeerListEvent struct {
	ID    Identity
	Peers []PeerInfo
}

type FileProgressEvent struct {
	ID Identity
	// Progress holds bytes downloaded per file, in file order.
	Progress []int64
}

type PieceInfoEvent struct {
	ID   Identity
	Info PieceInfo
}

type PieceAvailabilityEvent struct {
	ID Identity
	// Availability holds the number of peers that have each piece.
	Availability []int
}

type TrackerListEvent struct {
	ID       Identity
	Trackers []AnnounceEntry
}

type MetadataReceivedEvent struct {
	Handle JobHandle
}

// AddJobCompletedEvent reports the outcome of AddAsync. On failure Handle is nil and Err is set.
type AddJobCompletedEvent struct {
	Handle JobHandle
	Params AddParams
	Err    error
}

type JobFinishedEvent struct {
	Handle JobHandle
}

type JobPausedEvent struct {
	Handle JobHandle
}

type JobResumedEvent struct {
	Handle JobHandle
}

type JobRemovedEvent struct {
	ID Identity
}

type ResumeDataReadyEvent struct {
	ID     Identity
	Params AddParams
}

type ResumeDataFailedEvent struct {
	ID  Identity
	Err error
}

// PeerConnectEvent is emitted for every peer connection, and is discarded before dispatch.
type PeerConnectEvent struct {
	ID   Identity
	Addr string
}

type LogEvent struct {
	Message string
}

func (StatsEvent) Kind() EventKind             { return KindStats }
func (JobStatusBatchEvent) Kind() EventKind    { return KindJobStatusBatch }
func (DHTStatsEvent) Kind() EventKind          { return KindDHTStats }
func (PeerListEvent) Kind() EventKind          { return KindPeerList }
func (FileProgressEvent) Kind() EventKind      { return KindFileProgress }
func (PieceInfoEvent) Kind() EventKind         { return KindPieceInfo }
func (PieceAvailabilityEvent) Kind() EventKind { return KindPieceAvailability }
func (TrackerListEvent) Kind() EventKind       { return KindTrackerList }
func (MetadataReceivedEvent) Kind() EventKind  { return KindMetadataReceived }
func (AddJobCompletedEvent) Kind() EventKind   { return KindAddJobCompleted }
func (JobFinishedEvent) Kind() EventKind       { return KindJobFinished }
func (JobPausedEvent) Kind() EventKind         { return KindJobPaused }
func (JobResumedEvent) Kind() EventKind        { return KindJobResumed }
func (JobRemovedEvent) Kind() EventKind        { return KindJobRemoved }
func (ResumeDataReadyEvent) Kind() EventKind   { return KindResumeDataReady }
func (ResumeDataFailedEvent) Kind() EventKind  { return KindResumeDataFailed }
func (PeerConnectEvent) Kind() EventKind       { return KindPeerConnect }
func (LogEvent) Kind() EventKind               { return KindLog }
