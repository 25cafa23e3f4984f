package anacrolix

import (
	"bytes"
	"fmt"
	"net"
	"strconv"

	"github.com/anacrolix/torrent"
	"github.com/anacrolix/torrent/bencode"
	"github.com/anacrolix/torrent/metainfo"
	"github.com/anacrolix/torrent/storage"

	"github.com/alanbriolat/swarmkeeper/internal/engine"
)

// ParseJobFile reads a .torrent file.
func (e *Engine) ParseJobFile(data []byte) (engine.AddParams, error) {
	return parseMetainfo(data)
}

func parseMetainfo(data []byte) (engine.AddParams, error) {
	var params engine.AddParams
	mi, err := metainfo.Load(bytes.NewReader(data))
	if err != nil {
		return params, fmt.Errorf("decode torrent file: %w", err)
	}
	info, err := mi.UnmarshalInfo()
	if err != nil {
		return params, fmt.Errorf("decode info dictionary: %w", err)
	}
	ih := mi.HashInfoBytes()
	if params.InfoHashes.V1, err = engine.IdentityFromBytes(ih[:]); err != nil {
		return params, err
	}
	if params.DHTNodes, err = parseNodes(nodeStrings(mi.Nodes)); err != nil {
		return params, err
	}
	params.Name = info.Name
	params.Trackers = flatten(mi.UpvertedAnnounceList())
	params.WebSeeds = append(params.WebSeeds, mi.UrlList...)
	params.InfoBytes = append([]byte(nil), mi.InfoBytes...)
	return params, nil
}

// ParseURI reads a magnet link. Only v1 (btih) exact topics are understood.
func (e *Engine) ParseURI(uri string) (engine.AddParams, error) {
	return parseMagnet(uri)
}

func parseMagnet(uri string) (engine.AddParams, error) {
	var params engine.AddParams
	m, err := metainfo.ParseMagnetUri(uri)
	if err != nil {
		return params, fmt.Errorf("parse magnet link: %w", err)
	}
	if params.InfoHashes.V1, err = engine.IdentityFromBytes(m.InfoHash[:]); err != nil {
		return params, err
	}
	params.Name = m.DisplayName
	params.Trackers = append(params.Trackers, m.Trackers...)
	params.WebSeeds = append(params.WebSeeds, m.Params["ws"]...)
	return params, nil
}

func flatten(tiers [][]string) []string {
	var out []string
	for _, tier := range tiers {
		out = append(out, tier...)
	}
	return out
}

func nodeStrings(nodes []metainfo.Node) []string {
	out := make([]string, len(nodes))
	for i, n := range nodes {
		out[i] = string(n)
	}
	return out
}

// parseNodes fails on the first node that is not host:port.
func parseNodes(addrs []string) ([]engine.DHTNode, error) {
	var nodes []engine.DHTNode
	for _, addr := range addrs {
		host, port, err := net.SplitHostPort(addr)
		if err != nil {
			return nil, fmt.Errorf("dht node %q: %w", addr, err)
		}
		n, err := strconv.Atoi(port)
		if err != nil {
			return nil, fmt.Errorf("dht node %q: invalid port", addr)
		}
		nodes = append(nodes, engine.DHTNode{Host: host, Port: n})
	}
	return nodes, nil
}

// newSpec builds the library's add request. Jobs with their own save path get their own file storage, which the
// caller must close once the torrent is dropped.
func newSpec(params engine.AddParams, dataDir string) (*torrent.TorrentSpec, storage.ClientImplCloser, error) {
	var hash metainfo.Hash
	copy(hash[:], params.InfoHashes.V1.Bytes())
	if len(params.InfoBytes) > 0 && metainfo.HashBytes(params.InfoBytes) != hash {
		return nil, nil, fmt.Errorf("%w: info dictionary does not match %s", engine.ErrInvalidIdentity, params.InfoHashes.V1)
	}
	spec := &torrent.TorrentSpec{}
	spec.InfoHash = hash
	spec.InfoBytes = params.InfoBytes
	spec.DisplayName = params.Name
	spec.Webseeds = params.WebSeeds
	for _, url := range params.Trackers {
		spec.Trackers = append(spec.Trackers, []string{url})
	}
	for _, n := range params.DHTNodes {
		spec.DhtNodes = append(spec.DhtNodes, net.JoinHostPort(n.Host, strconv.Itoa(n.Port)))
	}
	spec.DisableInitialPieceCheck = params.Flags.Has(engine.FlagNoVerifyFiles)
	spec.DisallowDataDownload = true
	spec.DisallowDataUpload = true
	var store storage.ClientImplCloser
	if params.SavePath != "" && params.SavePath != dataDir {
		store = storage.NewFile(params.SavePath)
		spec.Storage = store
	}
	return spec, store, nil
}

// resumeRecord is the on-disk form of a job's resume state.
type resumeRecord struct {
	InfoHash       string   `bencode:"info-hash"`
	Name           string   `bencode:"name,omitempty"`
	SavePath       string   `bencode:"save-path,omitempty"`
	Trackers       []string `bencode:"trackers,omitempty"`
	WebSeeds       []string `bencode:"url-list,omitempty"`
	Nodes          []string `bencode:"nodes,omitempty"`
	Info           []byte   `bencode:"info,omitempty"`
	StorageMode    string   `bencode:"storage-mode,omitempty"`
	Flags          uint64   `bencode:"flags"`
	MaxUploads     int      `bencode:"max-uploads"`
	MaxConnections int      `bencode:"max-connections"`
	UploadLimit    int      `bencode:"upload-limit"`
	DownloadLimit  int      `bencode:"download-limit"`
	NumPieces      int      `bencode:"num-pieces"`
	Pieces         []byte   `bencode:"pieces,omitempty"`
}

// WriteResumeData encodes params as a bencoded dictionary, with pieces packed into a bitfield.
func (e *Engine) WriteResumeData(params engine.AddParams) ([]byte, error) {
	return encodeResume(params)
}

func encodeResume(params engine.AddParams) ([]byte, error) {
	if !params.InfoHashes.HasV1() {
		return nil, fmt.Errorf("%w: no v1 hash", engine.ErrInvalidIdentity)
	}
	r := resumeRecord{
		InfoHash:       params.InfoHashes.V1.String(),
		Name:           params.Name,
		SavePath:       params.SavePath,
		Trackers:       params.Trackers,
		WebSeeds:       params.WebSeeds,
		Info:           params.InfoBytes,
		StorageMode:    params.StorageMode.String(),
		Flags:          uint64(params.Flags),
		MaxUploads:     params.MaxUploads,
		MaxConnections: params.MaxConnections,
		UploadLimit:    params.UploadLimit,
		DownloadLimit:  params.DownloadLimit,
		NumPieces:      len(params.Pieces),
		Pieces:         packBits(params.Pieces),
	}
	for _, n := range params.DHTNodes {
		r.Nodes = append(r.Nodes, net.JoinHostPort(n.Host, strconv.Itoa(n.Port)))
	}
	return bencode.Marshal(r)
}

func (e *Engine) ReadResumeData(data []byte) (engine.AddParams, error) {
	return decodeResume(data)
}

func decodeResume(data []byte) (engine.AddParams, error) {
	var params engine.AddParams
	var r resumeRecord
	if err := bencode.Unmarshal(data, &r); err != nil {
		return params, fmt.Errorf("decode resume data: %w", err)
	}
	var err error
	if params.InfoHashes.V1, err = engine.ParseIdentity(r.InfoHash); err != nil {
		return params, err
	}
	if params.DHTNodes, err = parseNodes(r.Nodes); err != nil {
		return params, err
	}
	if r.StorageMode != "" {
		if params.StorageMode, err = engine.ParseStorageMode(r.StorageMode); err != nil {
			return params, err
		}
	}
	if r.NumPieces > len(r.Pieces)*8 {
		return params, fmt.Errorf("decode resume data: %d pieces in a %d byte bitfield", r.NumPieces, len(r.Pieces))
	}
	params.Name = r.Name
	params.SavePath = r.SavePath
	params.Trackers = r.Trackers
	params.WebSeeds = r.WebSeeds
	params.InfoBytes = r.Info
	params.Flags = engine.Flags(r.Flags)
	params.MaxUploads = r.MaxUploads
	params.MaxConnections = r.MaxConnections
	params.UploadLimit = r.UploadLimit
	params.DownloadLimit = r.DownloadLimit
	params.Pieces = unpackBits(r.Pieces, r.NumPieces)
	return params, nil
}

// packBits packs most significant bit first, as in a BitTorrent bitfield.
func packBits(bits []bool) []byte {
	if len(bits) == 0 {
		return nil
	}
	out := make([]byte, (len(bits)+7)/8)
	for i, b := range bits {
		if b {
			out[i/8] |= 0x80 >> (i % 8)
		}
	}
	return out
}

func unpackBits(packed []byte, n int) []bool {
	if n == 0 {
		return nil
	}
	bits := make([]bool, n)
	for i := range bits {
		bits[i] = packed[i/8]&(0x80>>(i%8)) != 0
	}
	return bits
}
