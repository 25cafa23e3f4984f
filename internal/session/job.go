package session

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/alanbriolat/swarmkeeper/generic"
	"github.com/alanbriolat/swarmkeeper/internal/engine"
	"github.com/alanbriolat/swarmkeeper/internal/resume"
	"github.com/alanbriolat/swarmkeeper/internal/state"
)

// Job is the facade for one job. Commands are handed to the engine and return once accepted. Get reads request a
// fresh snapshot and return whatever is cached right now, which may be stale or missing; Fetch reads wait for the
// fresh snapshot.
type Job struct {
	session *Session
	handle  engine.JobHandle
	id      engine.Identity
	log     *zap.SugaredLogger
}

func newJob(s *Session, h engine.JobHandle) *Job {
	id := h.Identity()
	return &Job{
		session: s,
		handle:  h,
		id:      id,
		log:     zap.S().Named("job").With("job", id),
	}
}

func (j *Job) Identity() engine.Identity {
	return j.id
}

func (j *Job) InfoHashes() engine.InfoHashes {
	return j.handle.InfoHashes()
}

// IsValid is false once the engine has removed the job.
func (j *Job) IsValid() bool {
	return j.handle.IsValid()
}

// Info returns the job's metadata, if its info dictionary is known.
func (j *Job) Info() (engine.JobInfo, bool) {
	return j.handle.Info()
}

// ResumePath is where this job's resume record is stored.
func (j *Job) ResumePath() string {
	return j.session.resumes.Path(j.id)
}

func (j *Job) ResumeState() resume.JobState {
	return j.session.tracker.Get(j.id)
}

func (j *Job) Flags() engine.Flags {
	return j.handle.Flags()
}

func (j *Job) SetFlags(flags engine.Flags) {
	j.handle.SetFlags(flags)
}

// SetFlagsWithMask sets the bits of flags selected by mask, leaving the others alone.
func (j *Job) SetFlagsWithMask(flags engine.Flags, mask engine.Flags) {
	j.handle.SetFlagsMask(flags, mask)
}

func (j *Job) UnsetFlags(flags engine.Flags) {
	j.handle.UnsetFlags(flags)
}

func (j *Job) UploadLimit() int {
	return j.handle.UploadLimit()
}

func (j *Job) SetUploadLimit(limit int) {
	j.handle.SetUploadLimit(limit)
}

func (j *Job) DownloadLimit() int {
	return j.handle.DownloadLimit()
}

func (j *Job) SetDownloadLimit(limit int) {
	j.handle.SetDownloadLimit(limit)
}

func (j *Job) MaxUploads() int {
	return j.handle.MaxUploads()
}

func (j *Job) SetMaxUploads(limit int) {
	j.handle.SetMaxUploads(limit)
}

func (j *Job) MaxConnections() int {
	return j.handle.MaxConnections()
}

func (j *Job) SetMaxConnections(limit int) {
	j.handle.SetMaxConnections(limit)
}

func (j *Job) AddTracker(url string, tier uint8) {
	j.log.Debugf("adding tracker %s (tier %d)", url, tier)
	j.handle.AddTracker(engine.AnnounceEntry{URL: url, Tier: tier, Source: engine.TrackerSourceClient})
}

func (j *Job) ForceRecheck() {
	j.handle.ForceRecheck()
}

// ForceReannounce announces to the tracker at trackerIndex (-1 for all) after seconds.
func (j *Job) ForceReannounce(seconds int, trackerIndex int) {
	j.handle.ForceReannounce(seconds, trackerIndex)
}

func (j *Job) ScrapeTracker(trackerIndex int) {
	j.handle.ScrapeTracker(trackerIndex)
}

func (j *Job) ClearError() {
	j.handle.ClearError()
}

func (j *Job) ClearPeers() {
	j.handle.ClearPeers()
}

func (j *Job) Pause(graceful bool) {
	var flags engine.PauseFlags
	if graceful {
		flags |= engine.PauseGraceful
	}
	j.handle.Pause(flags)
}

func (j *Job) Resume() {
	j.handle.Resume()
}

// SaveResume asks the engine for resume data outside the usual lifecycle triggers.
func (j *Job) SaveResume(flags engine.ResumeFlags) {
	j.session.tracker.Requested(j.id, flags)
	j.handle.SaveResumeData(flags)
}

// getCached posts a snapshot request, drains whatever is already queued, and reads the cache.
func getCached[V any](j *Job, post func(), cache *state.Cache[V]) generic.Option[V] {
	post()
	j.session.drain()
	return cache.Get(j.id)
}

// fetchCached posts a snapshot request and waits until the dispatcher has applied the answer.
func fetchCached[V any](ctx context.Context, j *Job, kind engine.EventKind, post func(), cache *state.Cache[V]) (V, error) {
	var zero V
	if err := j.session.await(ctx, waitKey{kind: kind, id: j.id}, post); err != nil {
		return zero, err
	}
	v, ok := cache.Get(j.id).Get()
	if !ok {
		return zero, fmt.Errorf("%w: %s", engine.ErrUnknownJob, j.id)
	}
	return v, nil
}

func (j *Job) postFileProgress(pieceGranularity bool) func() {
	var flags engine.FileProgressFlags
	if pieceGranularity {
		flags |= engine.FileProgressPieceGranularity
	}
	return func() { j.handle.PostFileProgress(flags) }
}

func (j *Job) GetStatus() generic.Option[engine.JobStatus] {
	return getCached(j, j.handle.PostStatus, j.session.caches.Jobs)
}

func (j *Job) GetPeers() generic.Option[[]engine.PeerInfo] {
	return getCached(j, j.handle.PostPeerInfo, j.session.caches.Peers)
}

func (j *Job) GetFileProgress(pieceGranularity bool) generic.Option[[]int64] {
	return getCached(j, j.postFileProgress(pieceGranularity), j.session.caches.FileProgress)
}

func (j *Job) GetPieceInfo() generic.Option[engine.PieceInfo] {
	return getCached(j, j.handle.PostPieceInfo, j.session.caches.PieceInfo)
}

func (j *Job) GetPieceAvailability() generic.Option[[]int] {
	return getCached(j, j.handle.PostPieceAvailability, j.session.caches.PieceAvailability)
}

func (j *Job) GetTrackers() generic.Option[[]engine.AnnounceEntry] {
	return getCached(j, j.handle.PostTrackers, j.session.caches.Trackers)
}

func (j *Job) FetchStatus(ctx context.Context) (engine.JobStatus, error) {
	return fetchCached(ctx, j, engine.KindJobStatusBatch, j.handle.PostStatus, j.session.caches.Jobs)
}

func (j *Job) FetchPeers(ctx context.Context) ([]engine.PeerInfo, error) {
	return fetchCached(ctx, j, engine.KindPeerList, j.handle.PostPeerInfo, j.session.caches.Peers)
}

func (j *Job) FetchFileProgress(ctx context.Context, pieceGranularity bool) ([]int64, error) {
	return fetchCached(ctx, j, engine.KindFileProgress, j.postFileProgress(pieceGranularity), j.session.caches.FileProgress)
}

func (j *Job) FetchPieceInfo(ctx context.Context) (engine.PieceInfo, error) {
	return fetchCached(ctx, j, engine.KindPieceInfo, j.handle.PostPieceInfo, j.session.caches.PieceInfo)
}

func (j *Job) FetchPieceAvailability(ctx context.Context) ([]int, error) {
	return fetchCached(ctx, j, engine.KindPieceAvailability, j.handle.PostPieceAvailability, j.session.caches.PieceAvailability)
}

func (j *Job) FetchTrackers(ctx context.Context) ([]engine.AnnounceEntry, error) {
	return fetchCached(ctx, j, engine.KindTrackerList, j.handle.PostTrackers, j.session.caches.Trackers)
}
