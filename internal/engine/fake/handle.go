package fake

import (
	"fmt"

	"github.com/alanbriolat/swarmkeeper/internal/engine"
)

// Handle is a fake job. All state is guarded by the owning engine's mutex.
type Handle struct {
	e        *Engine
	params   engine.AddParams
	id       engine.Identity
	valid    bool
	metadata bool
	finished bool
	dirty    bool
	err      string
	done     int64
	total    int64
	peers    []engine.PeerInfo
	trackers []engine.AnnounceEntry
}

func newHandle(e *Engine, params engine.AddParams) *Handle {
	h := &Handle{
		e:        e,
		params:   params,
		id:       params.Identity(),
		valid:    true,
		metadata: len(params.InfoBytes) > 0,
		total:    DefaultJobSize,
	}
	for _, url := range params.Trackers {
		h.trackers = append(h.trackers, engine.AnnounceEntry{URL: url, Source: engine.TrackerSourceTorrent})
	}
	pieceDone := 0
	for _, have := range params.Pieces {
		if have {
			pieceDone++
		}
	}
	h.done = min(int64(pieceDone)*DefaultPieceLength, h.total)
	h.finished = h.done == h.total
	return h
}

func (h *Handle) lock() func() {
	h.e.mu.Lock()
	return h.e.mu.Unlock
}

// SetPeers sets the peer list returned by later PostPeerInfo calls.
func (h *Handle) SetPeers(peers []engine.PeerInfo) {
	defer h.lock()()
	h.peers = peers
}

// SetError puts the job in an error state until ClearError.
func (h *Handle) SetError(msg string) {
	defer h.lock()()
	h.err = msg
}

// running must be called with the engine mutex held.
func (h *Handle) running() bool {
	if h.e.paused || h.err != "" {
		return false
	}
	return !h.params.Flags.Has(engine.FlagPaused) || h.params.Flags.Has(engine.FlagAutoManaged)
}

// advance moves a running job forward by step bytes, emitting lifecycle events as it crosses them.
func (h *Handle) advance(step int64) {
	if step <= 0 || !h.running() {
		return
	}
	if !h.metadata {
		h.metadata = true
		h.dirty = true
		h.e.emit(engine.MetadataReceivedEvent{Handle: h})
		return
	}
	if h.finished {
		h.e.sent += step
		return
	}
	h.done = min(h.done+step, h.total)
	h.dirty = true
	if h.done == h.total {
		h.finished = true
		h.e.emit(engine.JobFinishedEvent{Handle: h})
	}
}

func (h *Handle) numPieces() int {
	return int((h.total + DefaultPieceLength - 1) / DefaultPieceLength)
}

func (h *Handle) pieces() []bool {
	pieces := make([]bool, h.numPieces())
	for i := range pieces {
		pieces[i] = int64(i+1)*DefaultPieceLength <= h.done
	}
	return pieces
}

func (h *Handle) status() engine.JobStatus {
	state := engine.JobStateDownloading
	switch {
	case !h.metadata:
		state = engine.JobStateDownloadingMetadata
	case h.finished:
		state = engine.JobStateSeeding
	}
	progress := float32(h.done) / float32(h.total)
	return engine.JobStatus{
		ID:              h.id,
		Name:            h.params.Name,
		SavePath:        h.params.SavePath,
		State:           state,
		Flags:           h.params.Flags,
		Error:           h.err,
		Progress:        progress,
		ProgressPPM:     int32(progress * 1000000),
		TotalDone:       h.done,
		Total:           h.total,
		TotalWantedDone: h.done,
		TotalWanted:     h.total,
		NumPeers:        int32(len(h.peers)),
		NumPieces:       int32(h.done / DefaultPieceLength),
		UploadsLimit:    int32(h.params.MaxUploads),
		HasMetadata:     h.metadata,
		IsFinished:      h.finished,
		IsSeeding:       h.finished,
		NeedSaveResume:  h.dirty,
	}
}

func (h *Handle) Identity() engine.Identity {
	return h.id
}

func (h *Handle) InfoHashes() engine.InfoHashes {
	return h.params.InfoHashes
}

func (h *Handle) IsValid() bool {
	defer h.lock()()
	return h.valid
}

func (h *Handle) Info() (engine.JobInfo, bool) {
	defer h.lock()()
	if !h.metadata {
		return engine.JobInfo{}, false
	}
	name := h.params.Name
	if name == "" {
		name = h.id.String()
	}
	return engine.JobInfo{
		InfoHash:       h.id,
		Name:           name,
		Files:          []engine.FileEntry{{Path: name, Name: name, Size: h.total}},
		Trackers:       append([]string(nil), h.params.Trackers...),
		WebSeeds:       append([]string(nil), h.params.WebSeeds...),
		Nodes:          append([]engine.DHTNode(nil), h.params.DHTNodes...),
		TotalSize:      h.total,
		PieceLength:    DefaultPieceLength,
		NumPieces:      int32(h.numPieces()),
		BlocksPerPiece: DefaultPieceLength / (16 << 10),
		NumFiles:       1,
	}, true
}

func (h *Handle) Flags() engine.Flags {
	defer h.lock()()
	return h.params.Flags
}

func (h *Handle) SetFlags(flags engine.Flags) {
	defer h.lock()()
	h.e.record("SetFlags")
	h.params.Flags |= flags
	h.dirty = true
}

func (h *Handle) SetFlagsMask(flags engine.Flags, mask engine.Flags) {
	defer h.lock()()
	h.e.record("SetFlagsMask")
	h.params.Flags = h.params.Flags.WithMask(flags, mask)
	h.dirty = true
}

func (h *Handle) UnsetFlags(flags engine.Flags) {
	defer h.lock()()
	h.e.record("UnsetFlags")
	h.params.Flags &^= flags
	h.dirty = true
}

func (h *Handle) intField(field *int) int {
	defer h.lock()()
	return *field
}

func (h *Handle) setIntField(call string, field *int, v int) {
	defer h.lock()()
	h.e.record(call)
	*field = v
	h.dirty = true
}

func (h *Handle) UploadLimit() int        { return h.intField(&h.params.UploadLimit) }
func (h *Handle) DownloadLimit() int      { return h.intField(&h.params.DownloadLimit) }
func (h *Handle) MaxUploads() int         { return h.intField(&h.params.MaxUploads) }
func (h *Handle) MaxConnections() int     { return h.intField(&h.params.MaxConnections) }
func (h *Handle) SetUploadLimit(v int)    { h.setIntField("SetUploadLimit", &h.params.UploadLimit, v) }
func (h *Handle) SetDownloadLimit(v int)  { h.setIntField("SetDownloadLimit", &h.params.DownloadLimit, v) }
func (h *Handle) SetMaxUploads(v int)     { h.setIntField("SetMaxUploads", &h.params.MaxUploads, v) }
func (h *Handle) SetMaxConnections(v int) { h.setIntField("SetMaxConnections", &h.params.MaxConnections, v) }

func (h *Handle) AddTracker(entry engine.AnnounceEntry) {
	defer h.lock()()
	h.e.record("AddTracker")
	for _, t := range h.trackers {
		if t.URL == entry.URL {
			return
		}
	}
	h.trackers = append(h.trackers, entry)
	h.params.Trackers = append(h.params.Trackers, entry.URL)
	h.dirty = true
}

func (h *Handle) ForceRecheck() {
	defer h.lock()()
	h.e.record("ForceRecheck")
}

func (h *Handle) ForceReannounce(seconds int, trackerIndex int) {
	defer h.lock()()
	h.e.record("ForceReannounce")
}

func (h *Handle) ScrapeTracker(trackerIndex int) {
	defer h.lock()()
	h.e.record("ScrapeTracker")
	h.e.emit(engine.TrackerListEvent{ID: h.id, Trackers: cloneTrackers(h.trackers)})
}

func (h *Handle) ClearError() {
	defer h.lock()()
	h.e.record("ClearError")
	h.err = ""
}

func (h *Handle) ClearPeers() {
	defer h.lock()()
	h.e.record("ClearPeers")
	h.peers = nil
}

func (h *Handle) Pause(flags engine.PauseFlags) {
	defer h.lock()()
	h.e.record("JobPause")
	h.params.Flags = (h.params.Flags | engine.FlagPaused) &^ engine.FlagAutoManaged
	h.dirty = true
	h.e.emit(engine.JobPausedEvent{Handle: h})
}

func (h *Handle) Resume() {
	defer h.lock()()
	h.e.record("JobResume")
	h.params.Flags &^= engine.FlagPaused
	h.dirty = true
	h.e.emit(engine.JobResumedEvent{Handle: h})
}

func (h *Handle) PostStatus() {
	defer h.lock()()
	h.e.emit(engine.JobStatusBatchEvent{Statuses: []engine.JobStatus{h.status()}})
}

func (h *Handle) PostPeerInfo() {
	defer h.lock()()
	peers := make([]engine.PeerInfo, len(h.peers))
	copy(peers, h.peers)
	h.e.emit(engine.PeerListEvent{ID: h.id, Peers: peers})
}

func (h *Handle) PostFileProgress(flags engine.FileProgressFlags) {
	defer h.lock()()
	done := h.done
	if flags&engine.FileProgressPieceGranularity != 0 {
		done -= done % DefaultPieceLength
	}
	h.e.emit(engine.FileProgressEvent{ID: h.id, Progress: []int64{done}})
}

func (h *Handle) PostPieceInfo() {
	defer h.lock()()
	var info engine.PieceInfo
	if !h.finished && h.metadata {
		next := int32(h.done / DefaultPieceLength)
		info.PartialPieces = []engine.PartialPieceInfo{{PieceIndex: next, BlocksInPiece: DefaultPieceLength / (16 << 10)}}
	}
	h.e.emit(engine.PieceInfoEvent{ID: h.id, Info: info})
}

func (h *Handle) PostPieceAvailability() {
	defer h.lock()()
	availability := make([]int, h.numPieces())
	for i := range availability {
		availability[i] = len(h.peers)
	}
	h.e.emit(engine.PieceAvailabilityEvent{ID: h.id, Availability: availability})
}

func (h *Handle) PostTrackers() {
	defer h.lock()()
	h.e.emit(engine.TrackerListEvent{ID: h.id, Trackers: cloneTrackers(h.trackers)})
}

// SaveResumeData answers with the job's current params. OnlyIfModified requests for an unchanged job fail with
// ErrResumeNotModified.
func (h *Handle) SaveResumeData(flags engine.ResumeFlags) {
	defer h.lock()()
	h.e.record(fmt.Sprintf("SaveResumeData(%v)", flags))
	switch {
	case h.e.resumeErr != nil:
		h.e.emit(engine.ResumeDataFailedEvent{ID: h.id, Err: h.e.resumeErr})
	case flags.Has(engine.ResumeOnlyIfModified) && !h.dirty:
		h.e.emit(engine.ResumeDataFailedEvent{ID: h.id, Err: engine.ErrResumeNotModified})
	default:
		params := h.params.Clone()
		params.Pieces = h.pieces()
		if !flags.Has(engine.ResumeSaveInfoDict) {
			params.InfoBytes = nil
		}
		h.dirty = false
		h.e.emit(engine.ResumeDataReadyEvent{ID: h.id, Params: params})
	}
}

func cloneTrackers(trackers []engine.AnnounceEntry) []engine.AnnounceEntry {
	return append([]engine.AnnounceEntry(nil), trackers...)
}
