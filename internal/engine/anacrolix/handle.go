package anacrolix

import (
	"fmt"
	"time"

	"github.com/anacrolix/torrent"
	"github.com/anacrolix/torrent/storage"

	"github.com/alanbriolat/swarmkeeper/internal/engine"
)

const blockSize = 16 << 10

// Handle is one torrent. Everything except t is guarded by the owning engine's mutex.
type Handle struct {
	e      *Engine
	t      *torrent.Torrent
	store  storage.ClientImplCloser
	params engine.AddParams
	id     engine.Identity

	valid    bool
	metadata bool
	finished bool
	dirty    bool
	err      string
	trackers []engine.AnnounceEntry

	added     time.Time
	completed time.Time
	sampled   time.Time
	lastRead  int64
	lastWrite int64
	downRate  int32
	upRate    int32
	last      engine.JobStatus
}

func newHandle(e *Engine, t *torrent.Torrent, params engine.AddParams, store storage.ClientImplCloser) *Handle {
	h := &Handle{
		e:      e,
		t:      t,
		store:  store,
		params: params,
		id:     params.Identity(),
		valid:  true,
		added:  time.Now(),
	}
	// A job added with its info dictionary never receives metadata.
	h.metadata = t.Info() != nil
	for _, url := range params.Trackers {
		h.trackers = append(h.trackers, engine.AnnounceEntry{URL: url, Source: engine.TrackerSourceTorrent})
	}
	return h
}

func (h *Handle) lock() func() {
	h.e.mu.Lock()
	return h.e.mu.Unlock
}

// awaitInfo starts the download as soon as the info dictionary is known.
func (h *Handle) awaitInfo() {
	select {
	case <-h.t.GotInfo():
	case <-h.t.Closed():
		return
	}
	defer h.lock()()
	if h.valid {
		h.apply()
	}
}

// running must be called with the engine mutex held.
func (h *Handle) running() bool {
	if h.e.paused || h.err != "" {
		return false
	}
	return !h.params.Flags.Has(engine.FlagPaused) || h.params.Flags.Has(engine.FlagAutoManaged)
}

// apply brings the torrent in line with the job's flags and limits. Must be called with the engine mutex held.
func (h *Handle) apply() {
	if !h.running() {
		h.t.DisallowDataDownload()
		h.t.DisallowDataUpload()
		h.t.SetMaxEstablishedConns(0)
		return
	}
	h.t.SetMaxEstablishedConns(h.maxConns())
	if h.params.Flags.Has(engine.FlagUploadMode) || h.params.Flags.Has(engine.FlagSeedMode) {
		h.t.DisallowDataDownload()
	} else {
		h.t.AllowDataDownload()
	}
	h.t.AllowDataUpload()
	if h.t.Info() != nil && !h.params.Flags.Has(engine.FlagDefaultDontDownload) {
		h.t.DownloadAll()
	}
}

func (h *Handle) maxConns() int {
	if h.params.MaxConnections > 0 {
		return h.params.MaxConnections
	}
	return h.e.config.EstablishedConnsPerTorrent
}

// update detects lifecycle transitions. Must be called with the engine mutex held.
func (h *Handle) update() {
	if !h.metadata && h.t.Info() != nil {
		h.metadata = true
		h.dirty = true
		h.e.emit(engine.MetadataReceivedEvent{Handle: h})
	}
	if h.metadata && !h.finished && h.t.BytesMissing() == 0 {
		h.finished = true
		h.completed = time.Now()
		h.dirty = true
		h.e.emit(engine.JobFinishedEvent{Handle: h})
	}
}

// changed reports whether status differs from the last reported one, ignoring the rates' sampling jitter.
func (h *Handle) changed(status engine.JobStatus) bool {
	prev := h.last
	h.last = status
	return prev.State != status.State ||
		prev.TotalDone != status.TotalDone ||
		prev.TotalPayloadUp != status.TotalPayloadUp ||
		prev.NumPeers != status.NumPeers ||
		prev.Flags != status.Flags ||
		prev.Error != status.Error ||
		prev.HasMetadata != status.HasMetadata ||
		prev.NeedSaveResume != status.NeedSaveResume
}

func (h *Handle) pieces() []bool {
	if h.t.Info() == nil {
		return nil
	}
	pieces := make([]bool, h.t.NumPieces())
	for i := range pieces {
		pieces[i] = h.t.PieceState(i).Complete
	}
	return pieces
}

func (h *Handle) status(now time.Time) engine.JobStatus {
	stats := h.t.Stats()
	read := stats.BytesReadData.Int64()
	written := stats.BytesWrittenData.Int64()
	if elapsed := now.Sub(h.sampled).Seconds(); !h.sampled.IsZero() && elapsed > 0 {
		h.downRate = int32(float64(read-h.lastRead) / elapsed)
		h.upRate = int32(float64(written-h.lastWrite) / elapsed)
	}
	h.sampled, h.lastRead, h.lastWrite = now, read, written

	state := engine.JobStateDownloading
	switch {
	case !h.metadata:
		state = engine.JobStateDownloadingMetadata
	case h.finished && h.e.config.Seed:
		state = engine.JobStateSeeding
	case h.finished:
		state = engine.JobStateFinished
	}
	var done, total int64
	numPieces := 0
	if h.metadata {
		total = h.t.Length()
		done = h.t.BytesCompleted()
		for _, have := range h.pieces() {
			if have {
				numPieces++
			}
		}
	}
	var progress float32
	if total > 0 {
		progress = float32(done) / float32(total)
	}
	name := h.params.Name
	if h.metadata {
		name = h.t.Name()
	}
	var tracker string
	if len(h.trackers) > 0 {
		tracker = h.trackers[0].URL
	}
	return engine.JobStatus{
		ID:               h.id,
		Name:             name,
		SavePath:         h.params.SavePath,
		State:            state,
		Flags:            h.params.Flags,
		Error:            h.err,
		Progress:         progress,
		ProgressPPM:      int32(progress * 1000000),
		TotalDone:        done,
		Total:            total,
		TotalWantedDone:  done,
		TotalWanted:      total,
		TotalDownload:    stats.BytesRead.Int64(),
		TotalUpload:      stats.BytesWritten.Int64(),
		TotalPayloadDown: read,
		TotalPayloadUp:   written,
		AllTimeDownload:  read,
		AllTimeUpload:    written,
		DownloadRate:     h.downRate,
		UploadRate:       h.upRate,
		DownloadPayload:  h.downRate,
		UploadPayload:    h.upRate,
		NumPeers:         int32(stats.ActivePeers),
		NumSeeds:         int32(stats.ConnectedSeeders),
		NumComplete:      int32(stats.ConnectedSeeders),
		NumIncomplete:    int32(stats.ActivePeers - stats.ConnectedSeeders),
		NumPieces:        int32(numPieces),
		NumConnections:   int32(stats.ActivePeers),
		UploadsLimit:     int32(h.params.MaxUploads),
		ConnectionsLimit: int32(h.maxConns()),
		QueuePosition:    -1,
		CurrentTracker:   tracker,
		AddedTime:        h.added,
		CompletedTime:    h.completed,
		HasMetadata:      h.metadata,
		IsFinished:       h.finished,
		IsSeeding:        state == engine.JobStateSeeding,
		NeedSaveResume:   h.dirty,
		AnnouncingToDHT:  !h.e.config.NoDHT && !h.params.Flags.Has(engine.FlagDisableDHT),
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
	info := h.t.Info()
	if info == nil {
		return engine.JobInfo{}, false
	}
	mi := h.t.Metainfo()
	var files []engine.FileEntry
	for _, f := range h.t.Files() {
		files = append(files, engine.FileEntry{Path: f.Path(), Name: f.DisplayPath(), Size: f.Length()})
	}
	ji := engine.JobInfo{
		InfoHash:       h.id,
		Name:           info.Name,
		Files:          files,
		Trackers:       flatten(mi.UpvertedAnnounceList()),
		WebSeeds:       append([]string(nil), mi.UrlList...),
		TotalSize:      info.TotalLength(),
		PieceLength:    int32(info.PieceLength),
		NumPieces:      int32(info.NumPieces()),
		BlocksPerPiece: int32((info.PieceLength + blockSize - 1) / blockSize),
		NumFiles:       int32(len(files)),
		Creator:        mi.CreatedBy,
		Comment:        mi.Comment,
		IsPrivate:      info.Private != nil && *info.Private,
	}
	if mi.CreationDate != 0 {
		ji.CreationDate = time.Unix(mi.CreationDate, 0)
	}
	nodes, err := parseNodes(nodeStrings(mi.Nodes))
	if err == nil {
		ji.Nodes = nodes
	}
	return ji, true
}

func (h *Handle) Flags() engine.Flags {
	defer h.lock()()
	return h.params.Flags
}

func (h *Handle) setFlags(flags engine.Flags) {
	defer h.lock()()
	h.params.Flags = flags
	h.dirty = true
	h.apply()
}

func (h *Handle) SetFlags(flags engine.Flags) {
	h.setFlags(h.Flags() | flags)
}

func (h *Handle) SetFlagsMask(flags engine.Flags, mask engine.Flags) {
	h.setFlags(h.Flags().WithMask(flags, mask))
}

func (h *Handle) UnsetFlags(flags engine.Flags) {
	h.setFlags(h.Flags() &^ flags)
}

func (h *Handle) intField(field *int) int {
	defer h.lock()()
	return *field
}

func (h *Handle) setIntField(field *int, v int) {
	defer h.lock()()
	*field = v
	h.dirty = true
	h.apply()
}

// The library only limits rates client-wide, so per-job rate limits are recorded but not enforced.
func (h *Handle) UploadLimit() int        { return h.intField(&h.params.UploadLimit) }
func (h *Handle) DownloadLimit() int      { return h.intField(&h.params.DownloadLimit) }
func (h *Handle) MaxUploads() int         { return h.intField(&h.params.MaxUploads) }
func (h *Handle) MaxConnections() int     { return h.intField(&h.params.MaxConnections) }
func (h *Handle) SetUploadLimit(v int)    { h.setIntField(&h.params.UploadLimit, v) }
func (h *Handle) SetDownloadLimit(v int)  { h.setIntField(&h.params.DownloadLimit, v) }
func (h *Handle) SetMaxUploads(v int)     { h.setIntField(&h.params.MaxUploads, v) }
func (h *Handle) SetMaxConnections(v int) { h.setIntField(&h.params.MaxConnections, v) }

func (h *Handle) AddTracker(entry engine.AnnounceEntry) {
	defer h.lock()()
	for _, t := range h.trackers {
		if t.URL == entry.URL {
			return
		}
	}
	h.trackers = append(h.trackers, entry)
	h.params.Trackers = append(h.params.Trackers, entry.URL)
	h.dirty = true
	h.t.AddTrackers([][]string{{entry.URL}})
}

func (h *Handle) ForceRecheck() {
	go h.t.VerifyData()
}

// ForceReannounce is a no-op: the library announces on its own schedule.
func (h *Handle) ForceReannounce(seconds int, trackerIndex int) {
	h.e.log.Debugw("reannounce not supported", "job", h.id, "tracker", trackerIndex)
}

// ScrapeTracker answers with the current tracker list, as the library does not expose scrape results.
func (h *Handle) ScrapeTracker(trackerIndex int) {
	h.PostTrackers()
}

func (h *Handle) ClearError() {
	defer h.lock()()
	h.err = ""
	h.apply()
}

// ClearPeers is a no-op: the library keeps its peer list private.
func (h *Handle) ClearPeers() {
	h.e.log.Debugw("clear peers not supported", "job", h.id)
}

func (h *Handle) Pause(flags engine.PauseFlags) {
	defer h.lock()()
	h.params.Flags = (h.params.Flags | engine.FlagPaused) &^ engine.FlagAutoManaged
	h.dirty = true
	h.apply()
	h.e.emit(engine.JobPausedEvent{Handle: h})
}

func (h *Handle) Resume() {
	defer h.lock()()
	h.params.Flags &^= engine.FlagPaused
	h.dirty = true
	h.apply()
	h.e.emit(engine.JobResumedEvent{Handle: h})
}

func (h *Handle) PostStatus() {
	defer h.lock()()
	h.update()
	status := h.status(time.Now())
	h.last = status
	h.e.emit(engine.JobStatusBatchEvent{Statuses: []engine.JobStatus{status}})
}

func (h *Handle) PostPeerInfo() {
	conns := h.t.PeerConns()
	peers := make([]engine.PeerInfo, 0, len(conns))
	for _, pc := range conns {
		stats := pc.Stats()
		peer := engine.PeerInfo{
			PeerID:           fmt.Sprintf("%x", pc.PeerID[:]),
			Addr:             pc.RemoteAddr.String(),
			TotalDownload:    stats.BytesReadData.Int64(),
			TotalUpload:      stats.BytesWrittenData.Int64(),
			DownSpeed:        int32(stats.DownloadRate),
			UpSpeed:          int32(stats.LastWriteUploadRate),
			PayloadDownSpeed: int32(stats.DownloadRate),
			PayloadUpSpeed:   int32(stats.LastWriteUploadRate),
			NumPieces:        int32(stats.RemotePieceCount),
		}
		if name, ok := pc.PeerClientName.Load().(string); ok {
			peer.Client = name
		}
		if n := h.t.NumPieces(); n > 0 {
			peer.Progress = float32(stats.RemotePieceCount) / float32(n)
			peer.ProgressPPM = int32(peer.Progress * 1000000)
			if stats.RemotePieceCount == n {
				peer.Flags |= engine.PeerSeed
			}
		}
		peers = append(peers, peer)
	}
	defer h.lock()()
	h.e.emit(engine.PeerListEvent{ID: h.id, Peers: peers})
}

// PostFileProgress reports bytes per file. With piece granularity only bytes in complete pieces are counted.
func (h *Handle) PostFileProgress(flags engine.FileProgressFlags) {
	var progress []int64
	if info := h.t.Info(); info != nil {
		pieces := h.pieces()
		for _, f := range h.t.Files() {
			if flags&engine.FileProgressPieceGranularity == 0 {
				progress = append(progress, f.BytesCompleted())
				continue
			}
			progress = append(progress, completeBytes(pieces, info.PieceLength, f.Offset(), f.Length()))
		}
	}
	defer h.lock()()
	h.e.emit(engine.FileProgressEvent{ID: h.id, Progress: progress})
}

// completeBytes counts the bytes of [offset, offset+length) that fall in complete pieces.
func completeBytes(pieces []bool, pieceLength int64, offset int64, length int64) int64 {
	if pieceLength <= 0 || length <= 0 {
		return 0
	}
	var n int64
	end := offset + length
	for i := offset / pieceLength; i < int64(len(pieces)) && i*pieceLength < end; i++ {
		if !pieces[i] {
			continue
		}
		begin := max(offset, i*pieceLength)
		n += min(end, (i+1)*pieceLength) - begin
	}
	return n
}

func (h *Handle) PostPieceInfo() {
	var info engine.PieceInfo
	if mi := h.t.Info(); mi != nil {
		blocks := int32((mi.PieceLength + blockSize - 1) / blockSize)
		for i := 0; i < h.t.NumPieces(); i++ {
			if state := h.t.PieceState(i); state.Partial && !state.Complete {
				info.PartialPieces = append(info.PartialPieces, engine.PartialPieceInfo{PieceIndex: int32(i), BlocksInPiece: blocks})
			}
		}
	}
	defer h.lock()()
	h.e.emit(engine.PieceInfoEvent{ID: h.id, Info: info})
}

// PostPieceAvailability counts connected seeds against every piece, plus one for pieces held locally. The library
// does not expose per-peer bitfields.
func (h *Handle) PostPieceAvailability() {
	seeds := h.t.Stats().ConnectedSeeders
	pieces := h.pieces()
	availability := make([]int, len(pieces))
	for i, have := range pieces {
		availability[i] = seeds
		if have {
			availability[i]++
		}
	}
	defer h.lock()()
	h.e.emit(engine.PieceAvailabilityEvent{ID: h.id, Availability: availability})
}

func (h *Handle) PostTrackers() {
	defer h.lock()()
	h.e.emit(engine.TrackerListEvent{ID: h.id, Trackers: append([]engine.AnnounceEntry(nil), h.trackers...)})
}

// SaveResumeData answers immediately, since every piece of resume state is already in memory.
func (h *Handle) SaveResumeData(flags engine.ResumeFlags) {
	pieces := h.pieces()
	var infoBytes []byte
	if flags.Has(engine.ResumeSaveInfoDict) && h.t.Info() != nil {
		infoBytes = h.t.Metainfo().InfoBytes
	}
	defer h.lock()()
	if flags.Has(engine.ResumeOnlyIfModified) && !h.dirty {
		h.e.emit(engine.ResumeDataFailedEvent{ID: h.id, Err: engine.ErrResumeNotModified})
		return
	}
	params := h.params.Clone()
	params.Pieces = pieces
	params.InfoBytes = append([]byte(nil), infoBytes...)
	if h.metadata {
		params.Name = h.t.Name()
	}
	h.dirty = false
	h.e.emit(engine.ResumeDataReadyEvent{ID: h.id, Params: params})
}
