package engine

import "time"

// JobState is the overall state of a job.
type JobState uint8

const (
	JobStateCheckingFiles       JobState = 1
	JobStateDownloadingMetadata JobState = 2
	JobStateDownloading         JobState = 3
	JobStateFinished            JobState = 4
	JobStateSeeding             JobState = 5
	JobStateCheckingResumeData  JobState = 7
)

func (s JobState) String() string {
	switch s {
	case JobStateCheckingFiles:
		return "checking_files"
	case JobStateDownloadingMetadata:
		return "downloading_metadata"
	case JobStateDownloading:
		return "downloading"
	case JobStateFinished:
		return "finished"
	case JobStateSeeding:
		return "seeding"
	case JobStateCheckingResumeData:
		return "checking_resume_data"
	default:
		return "unknown"
	}
}

// JobStatus is a snapshot of a job's status, as delivered in a JobStatusBatchEvent.
type JobStatus struct {
	ID       Identity
	Name     string
	SavePath string
	State    JobState
	Flags    Flags
	Error    string

	// Progress is in [0, 1]; ProgressPPM is the same value in parts per million.
	Progress    float32
	ProgressPPM int32

	TotalDone          int64
	Total              int64
	TotalWantedDone    int64
	TotalWanted        int64
	TotalDownload      int64
	TotalUpload        int64
	TotalPayloadDown   int64
	TotalPayloadUp     int64
	AllTimeDownload    int64
	AllTimeUpload      int64
	DownloadRate       int32
	UploadRate         int32
	DownloadPayload    int32
	UploadPayload      int32
	NumPeers           int32
	NumSeeds           int32
	NumComplete        int32
	NumIncomplete      int32
	NumPieces          int32
	NumConnections     int32
	UploadsLimit       int32
	ConnectionsLimit   int32
	QueuePosition      int32
	DistributedCopies  float32
	CurrentTracker     string
	NextAnnounce       time.Duration
	AddedTime          time.Time
	CompletedTime      time.Time
	HasMetadata        bool
	IsFinished         bool
	IsSeeding          bool
	NeedSaveResume     bool
	MovingStorage      bool
	AnnouncingToDHT    bool
	AnnouncingTrackers bool
}

// PeerInfo holds information and statistics about one connected peer.
type PeerInfo struct {
	Client        string
	PeerID        string
	Addr          string // ip:port
	LocalEndpoint string // ip:port
	Flags         PeerFlags
	Source        PeerSource
	// Pieces has one entry per piece, true if the peer has it.
	Pieces           []bool
	TotalDownload    int64
	TotalUpload      int64
	UpSpeed          int32
	DownSpeed        int32
	PayloadUpSpeed   int32
	PayloadDownSpeed int32
	QueueBytes       int32
	NumHashfails     int32
	NumPieces        int32
	RTT              int32
	Progress         float32
	ProgressPPM      int32
	ConnectionType   uint8
	LastRequest      time.Duration
	LastActive       time.Duration
}

type BlockState uint8

const (
	BlockNone BlockState = iota
	BlockRequested
	BlockWriting
	BlockFinished
)

// BlockInfo holds the state of one block in a partially downloaded piece.
type BlockInfo struct {
	BytesProgress uint32
	BlockSize     uint32
	State         BlockState
	NumPeers      uint32
}

// PartialPieceInfo describes a piece with outstanding requests or writes.
type PartialPieceInfo struct {
	PieceIndex    int32
	BlocksInPiece int32
	Finished      int32
	Writing       int32
	Requested     int32
	Blocks        []BlockInfo
}

// PieceInfo is the download queue of a job.
type PieceInfo struct {
	PartialPieces []PartialPieceInfo
	Blocks        []BlockInfo
}

// AnnounceInfoHash is the announce state of one endpoint for one hash variant.
type AnnounceInfoHash struct {
	Message          string
	LastError        string
	NextAnnounce     time.Time
	MinAnnounce      time.Time
	ScrapeIncomplete int32
	ScrapeComplete   int32
	ScrapeDownloaded int32
	Fails            uint8
	Updating         bool
	StartSent        bool
	CompleteSent     bool
}

type AnnounceEndpoint struct {
	LocalEndpoint string
	// InfoHashes[0] is the v1 state, InfoHashes[1] the v2 state.
	InfoHashes []AnnounceInfoHash
	Enabled    bool
}

// AnnounceEntry holds information about one tracker as it relates to one job.
type AnnounceEntry struct {
	URL       string
	TrackerID string
	Endpoints []AnnounceEndpoint
	Tier      uint8
	FailLimit uint8
	Source    TrackerSource
	Verified  bool
}

type DHTLookup struct {
	Type            string
	OutstandingReqs int32
	Timeouts        int32
	Responses       int32
	Branching       int32
	NodesLeft       int32
	LastSent        int32
	FirstTimeout    int32
	Target          string
}

type DHTRoutingBucket struct {
	NumNodes        int32
	NumReplacements int32
	LastActive      int32
}

// DHTStats is a snapshot of the DHT node. Only the most recent snapshot is kept.
type DHTStats struct {
	ActiveLookups []DHTLookup
	RoutingTable  []DHTRoutingBucket
	NodeID        string
	LocalEndpoint string
}

type FileEntry struct {
	Path string
	Name string
	Size int64
}

type DHTNode struct {
	Host string `json:"host"`
	Port int    `json:"port"`
}

// JobInfo is the static metadata of a job, available once its info dictionary is known.
type JobInfo struct {
	InfoHash       Identity
	Name           string
	Files          []FileEntry
	Trackers       []string
	SimilarJobs    []Identity
	Collections    []string
	WebSeeds       []string
	Nodes          []DHTNode
	TotalSize      int64
	PieceLength    int32
	NumPieces      int32
	BlocksPerPiece int32
	NumFiles       int32
	CreationDate   time.Time
	Creator        string
	Comment        string
	IsPrivate      bool
	IsI2P          bool
}

type MetricType uint8

const (
	MetricCounter MetricType = iota
	MetricGauge
)

// StatsMetric describes one entry of the session counter vector.
type StatsMetric struct {
	Name  string
	Index int
	Type  MetricType
}
