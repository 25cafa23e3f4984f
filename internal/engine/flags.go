package engine

import (
	"strings"
)

// Flags is the per-job flag bitset.
type Flags uint64

const (
	FlagSeedMode            Flags = 1 << 0
	FlagUploadMode          Flags = 1 << 1
	FlagShareMode           Flags = 1 << 2
	FlagApplyIPFilter       Flags = 1 << 3
	FlagPaused              Flags = 1 << 4
	FlagAutoManaged         Flags = 1 << 5
	FlagDuplicateIsError    Flags = 1 << 6
	FlagUpdateSubscribe     Flags = 1 << 7
	FlagSuperSeeding        Flags = 1 << 8
	FlagSequentialDownload  Flags = 1 << 9
	FlagStopWhenReady       Flags = 1 << 10
	FlagOverrideTrackers    Flags = 1 << 11
	FlagOverrideWebSeeds    Flags = 1 << 12
	FlagNeedSaveResume      Flags = 1 << 13
	FlagDisableDHT          Flags = 1 << 19
	FlagDisableLSD          Flags = 1 << 20
	FlagDisablePEX          Flags = 1 << 21
	FlagNoVerifyFiles       Flags = 1 << 22
	FlagDefaultDontDownload Flags = 1 << 23
	FlagI2PTorrent          Flags = 1 << 24

	DefaultFlags = FlagUpdateSubscribe | FlagAutoManaged | FlagPaused | FlagApplyIPFilter | FlagNeedSaveResume
)

var flagNames = []struct {
	flag Flags
	name string
}{
	{FlagSeedMode, "seed_mode"},
	{FlagUploadMode, "upload_mode"},
	{FlagShareMode, "share_mode"},
	{FlagApplyIPFilter, "apply_ip_filter"},
	{FlagPaused, "paused"},
	{FlagAutoManaged, "auto_managed"},
	{FlagDuplicateIsError, "duplicate_is_error"},
	{FlagUpdateSubscribe, "update_subscribe"},
	{FlagSuperSeeding, "super_seeding"},
	{FlagSequentialDownload, "sequential_download"},
	{FlagStopWhenReady, "stop_when_ready"},
	{FlagOverrideTrackers, "override_trackers"},
	{FlagOverrideWebSeeds, "override_web_seeds"},
	{FlagNeedSaveResume, "need_save_resume"},
	{FlagDisableDHT, "disable_dht"},
	{FlagDisableLSD, "disable_lsd"},
	{FlagDisablePEX, "disable_pex"},
	{FlagNoVerifyFiles, "no_verify_files"},
	{FlagDefaultDontDownload, "default_dont_download"},
	{FlagI2PTorrent, "i2p_torrent"},
}

func (f Flags) Has(other Flags) bool {
	return f&other == other
}

// WithMask returns f with the bits selected by mask replaced by the matching bits of value.
func (f Flags) WithMask(value Flags, mask Flags) Flags {
	return (f &^ mask) | (value & mask)
}

func (f Flags) String() string {
	var names []string
	for _, n := range flagNames {
		if f&n.flag != 0 {
			names = append(names, n.name)
		}
	}
	return strings.Join(names, "|")
}

// ResumeFlags selects what a resume-save request must capture, and under which condition it is skipped.
type ResumeFlags uint8

const (
	ResumeFlushDiskCache     ResumeFlags = 1 << 0
	ResumeSaveInfoDict       ResumeFlags = 1 << 1
	ResumeOnlyIfModified     ResumeFlags = 1 << 2
	ResumeIfCountersChanged  ResumeFlags = 1 << 3
	ResumeIfDownloadProgress ResumeFlags = 1 << 4
	ResumeIfConfigChanged    ResumeFlags = 1 << 5
	ResumeIfStateChanged     ResumeFlags = 1 << 6
	ResumeIfMetadataChanged  ResumeFlags = 1 << 7
)

func (f ResumeFlags) Has(other ResumeFlags) bool {
	return f&other == other
}

func (f ResumeFlags) String() string {
	names := []string{}
	for _, n := range []struct {
		flag ResumeFlags
		name string
	}{
		{ResumeFlushDiskCache, "flush_disk_cache"},
		{ResumeSaveInfoDict, "save_info_dict"},
		{ResumeOnlyIfModified, "only_if_modified"},
		{ResumeIfCountersChanged, "if_counters_changed"},
		{ResumeIfDownloadProgress, "if_download_progress"},
		{ResumeIfConfigChanged, "if_config_changed"},
		{ResumeIfStateChanged, "if_state_changed"},
		{ResumeIfMetadataChanged, "if_metadata_changed"},
	} {
		if f&n.flag != 0 {
			names = append(names, n.name)
		}
	}
	return strings.Join(names, "|")
}

type PauseFlags uint8

const (
	PauseGraceful PauseFlags = 1 << 0
)

type RemoveFlags uint8

const (
	RemoveDeleteFiles    RemoveFlags = 1 << 0
	RemoveDeletePartfile RemoveFlags = 1 << 1
)

type FileProgressFlags uint8

const (
	// FileProgressPieceGranularity only counts fully downloaded pieces, which is cheaper to compute.
	FileProgressPieceGranularity FileProgressFlags = 1 << 0
)

// SaveStateFlags selects which parts of the session state are written to the session state file.
type SaveStateFlags uint32

const (
	SaveSettings       SaveStateFlags = 1 << 0
	SaveDHTState       SaveStateFlags = 1 << 2
	SaveExtensionState SaveStateFlags = 1 << 11
	SaveIPFilter       SaveStateFlags = 1 << 12

	SaveAll SaveStateFlags = ^SaveStateFlags(0)
)

func (f SaveStateFlags) Has(other SaveStateFlags) bool {
	return f&other == other
}

// AlertCategory is a bitmask of event categories the engine should emit, set through the "alert_mask" setting.
type AlertCategory uint32

const (
	AlertError              AlertCategory = 1 << 0
	AlertPeer               AlertCategory = 1 << 1
	AlertPortMapping        AlertCategory = 1 << 2
	AlertStorage            AlertCategory = 1 << 3
	AlertTracker            AlertCategory = 1 << 4
	AlertConnect            AlertCategory = 1 << 5
	AlertStatus             AlertCategory = 1 << 6
	AlertIPBlock            AlertCategory = 1 << 8
	AlertPerformanceWarning AlertCategory = 1 << 9
	AlertDHT                AlertCategory = 1 << 10
	AlertStats              AlertCategory = 1 << 11
	AlertSessionLog         AlertCategory = 1 << 13
	AlertTorrentLog         AlertCategory = 1 << 14
	AlertPeerLog            AlertCategory = 1 << 15
	AlertIncomingRequest    AlertCategory = 1 << 16
	AlertDHTLog             AlertCategory = 1 << 17
	AlertDHTOperation       AlertCategory = 1 << 18
	AlertPortMappingLog     AlertCategory = 1 << 19
	AlertPickerLog          AlertCategory = 1 << 20
	AlertFileProgress       AlertCategory = 1 << 21
	AlertPieceProgress      AlertCategory = 1 << 22
	AlertUpload             AlertCategory = 1 << 23
	AlertBlockProgress      AlertCategory = 1 << 24

	AlertAll AlertCategory = 0x7fffffff
)

// AlertCategories maps the names accepted in an "alert_mask" list to their bits.
var AlertCategories = map[string]AlertCategory{
	"error":               AlertError,
	"peer":                AlertPeer,
	"port_mapping":        AlertPortMapping,
	"storage":             AlertStorage,
	"tracker":             AlertTracker,
	"connect":             AlertConnect,
	"status":              AlertStatus,
	"ip_block":            AlertIPBlock,
	"performance_warning": AlertPerformanceWarning,
	"dht":                 AlertDHT,
	"stats":               AlertStats,
	"session_log":         AlertSessionLog,
	"torrent_log":         AlertTorrentLog,
	"peer_log":            AlertPeerLog,
	"incoming_request":    AlertIncomingRequest,
	"dht_log":             AlertDHTLog,
	"dht_operation":       AlertDHTOperation,
	"port_mapping_log":    AlertPortMappingLog,
	"picker_log":          AlertPickerLog,
	"file_progress":       AlertFileProgress,
	"piece_progress":      AlertPieceProgress,
	"upload":              AlertUpload,
	"block_progress":      AlertBlockProgress,
	"all":                 AlertAll,
}

// PeerFlags describes the state of a peer connection.
type PeerFlags uint32

const (
	PeerInteresting        PeerFlags = 1 << 0
	PeerChoked             PeerFlags = 1 << 1
	PeerRemoteInterested   PeerFlags = 1 << 2
	PeerRemoteChoked       PeerFlags = 1 << 3
	PeerSupportsExtensions PeerFlags = 1 << 4
	PeerOutgoing           PeerFlags = 1 << 5
	PeerHandshake          PeerFlags = 1 << 6
	PeerConnecting         PeerFlags = 1 << 7
	PeerOnParole           PeerFlags = 1 << 9
	PeerSeed               PeerFlags = 1 << 10
	PeerOptimisticUnchoke  PeerFlags = 1 << 11
	PeerSnubbed            PeerFlags = 1 << 12
	PeerUploadOnly         PeerFlags = 1 << 13
	PeerEndgameMode        PeerFlags = 1 << 14
	PeerHolepunched        PeerFlags = 1 << 15
	PeerI2PSocket          PeerFlags = 1 << 16
	PeerUTPSocket          PeerFlags = 1 << 17
	PeerSSLSocket          PeerFlags = 1 << 18
	PeerRC4Encrypted       PeerFlags = 1 << 19
	PeerPlaintextEncrypted PeerFlags = 1 << 20
)

// PeerSource records where a peer was learned from.
type PeerSource uint8

const (
	PeerSourceTracker    PeerSource = 1 << 0
	PeerSourceDHT        PeerSource = 1 << 1
	PeerSourcePEX        PeerSource = 1 << 2
	PeerSourceLSD        PeerSource = 1 << 3
	PeerSourceResumeData PeerSource = 1 << 4
	PeerSourceIncoming   PeerSource = 1 << 5
)

// TrackerSource records where a tracker was learned from.
type TrackerSource uint8

const (
	TrackerSourceTorrent    TrackerSource = 1 << 0
	TrackerSourceClient     TrackerSource = 1 << 1
	TrackerSourceMagnetLink TrackerSource = 1 << 2
	TrackerSourceTEX        TrackerSource = 1 << 3
)
