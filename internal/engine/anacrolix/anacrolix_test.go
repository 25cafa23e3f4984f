package anacrolix

import (
	"testing"

	"github.com/anacrolix/torrent/bencode"
	"github.com/anacrolix/torrent/metainfo"
	assert_ "github.com/stretchr/testify/assert"
	require_ "github.com/stretchr/testify/require"
	"golang.org/x/time/rate"

	"github.com/alanbriolat/swarmkeeper/internal/engine"
)

const idA = engine.Identity("aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa")

func torrentFile(t *testing.T) ([]byte, engine.Identity) {
	info := metainfo.Info{
		Name:        "thing.bin",
		PieceLength: 1 << 14,
		Length:      40000,
		Pieces:      make([]byte, 3*20),
	}
	infoBytes, err := bencode.Marshal(info)
	require_.NoError(t, err)
	mi := metainfo.MetaInfo{
		InfoBytes:    infoBytes,
		Announce:     "udp://a:1",
		AnnounceList: [][]string{{"udp://a:1"}, {"udp://b:2"}},
		Nodes:        []metainfo.Node{"router.example:6881"},
		UrlList:      []string{"http://seed/"},
	}
	data, err := bencode.Marshal(mi)
	require_.NoError(t, err)
	hash := mi.HashInfoBytes()
	id, err := engine.IdentityFromBytes(hash[:])
	require_.NoError(t, err)
	return data, id
}

func TestParseMetainfo(t *testing.T) {
	assert := assert_.New(t)
	data, id := torrentFile(t)

	params, err := parseMetainfo(data)
	require_.NoError(t, err)
	assert.Equal(id, params.Identity())
	assert.Equal("thing.bin", params.Name)
	assert.Equal([]string{"udp://a:1", "udp://b:2"}, params.Trackers)
	assert.Equal([]string{"http://seed/"}, params.WebSeeds)
	assert.Equal([]engine.DHTNode{{Host: "router.example", Port: 6881}}, params.DHTNodes)
	assert.Equal(id, engine.Identity(metainfo.HashBytes(params.InfoBytes).HexString()))

	_, err = parseMetainfo([]byte("not bencode"))
	assert.Error(err)
}

func TestParseMagnet(t *testing.T) {
	assert := assert_.New(t)

	params, err := parseMagnet("magnet:?xt=urn:btih:" + string(idA) + "&dn=thing&tr=udp%3A%2F%2Ft%3A1&ws=http%3A%2F%2Fseed%2F")
	require_.NoError(t, err)
	assert.Equal(idA, params.Identity())
	assert.Equal("thing", params.Name)
	assert.Equal([]string{"udp://t:1"}, params.Trackers)
	assert.Equal([]string{"http://seed/"}, params.WebSeeds)
	assert.Empty(params.InfoBytes)

	for _, uri := range []string{
		"http://example.com/",
		"magnet:?dn=nothing",
	} {
		_, err := parseMagnet(uri)
		assert.Error(err, uri)
	}
}

func TestParseNodes(t *testing.T) {
	assert := assert_.New(t)
	nodes, err := parseNodes([]string{"a:1", "[::1]:2"})
	assert.NoError(err)
	assert.Equal([]engine.DHTNode{{Host: "a", Port: 1}, {Host: "::1", Port: 2}}, nodes)
	_, err = parseNodes([]string{"a:1", "b"})
	assert.Error(err)
	_, err = parseNodes([]string{"a:b"})
	assert.Error(err)
}

func TestResumeRoundTrip(t *testing.T) {
	assert := assert_.New(t)
	params := engine.AddParams{
		InfoHashes:     engine.InfoHashes{V1: idA},
		Name:           "thing",
		SavePath:       "/tmp/x",
		Trackers:       []string{"udp://t:1"},
		DHTNodes:       []engine.DHTNode{{Host: "n", Port: 1}},
		StorageMode:    engine.StorageModeAllocate,
		Flags:          engine.FlagPaused | engine.FlagSequentialDownload,
		MaxConnections: 30,
		UploadLimit:    1000,
		Pieces:         []bool{true, false, true, true, false, false, false, false, true},
	}
	data, err := encodeResume(params)
	require_.NoError(t, err)
	back, err := decodeResume(data)
	require_.NoError(t, err)
	assert.Equal(params, back)

	_, err = encodeResume(engine.AddParams{InfoHashes: engine.InfoHashes{V2: engine.Identity(string(idA) + "aaaaaaaaaaaaaaaaaaaaaaaa")}})
	assert.ErrorIs(err, engine.ErrInvalidIdentity)
	_, err = decodeResume([]byte("d4:name1:xe"))
	assert.ErrorIs(err, engine.ErrInvalidIdentity)
	_, err = decodeResume([]byte("garbage"))
	assert.Error(err)
}

func TestBits(t *testing.T) {
	assert := assert_.New(t)
	bits := []bool{true, false, false, false, false, false, false, true, true}
	packed := packBits(bits)
	assert.Equal([]byte{0x81, 0x80}, packed)
	assert.Equal(bits, unpackBits(packed, len(bits)))
	assert.Nil(packBits(nil))
	assert.Nil(unpackBits(nil, 0))
}

func TestCompleteBytes(t *testing.T) {
	assert := assert_.New(t)
	pieces := []bool{true, false, true}
	// A file spanning the middle of all three pieces
	assert.Equal(int64(5+5), completeBytes(pieces, 10, 5, 20))
	assert.Equal(int64(0), completeBytes(pieces, 10, 10, 10))
	assert.Equal(int64(10), completeBytes(pieces, 10, 0, 10))
	assert.Equal(int64(0), completeBytes(pieces, 0, 0, 10))
}

func TestNewSpec(t *testing.T) {
	assert := assert_.New(t)
	data, id := torrentFile(t)
	params, err := parseMetainfo(data)
	require_.NoError(t, err)

	spec, store, err := newSpec(params, "downloads")
	require_.NoError(t, err)
	assert.Nil(store)
	assert.Equal(string(id), spec.InfoHash.HexString())
	assert.Equal([][]string{{"udp://a:1"}, {"udp://b:2"}}, spec.Trackers)
	assert.Equal([]string{"router.example:6881"}, spec.DhtNodes)

	params.SavePath = t.TempDir()
	_, store, err = newSpec(params, "downloads")
	require_.NoError(t, err)
	assert.NotNil(store)
	assert.NoError(store.Close())

	params.InfoBytes = []byte("d4:name1:xe")
	_, _, err = newSpec(params, "downloads")
	assert.ErrorIs(err, engine.ErrInvalidIdentity)
}

func TestClientConfig(t *testing.T) {
	assert := assert_.New(t)
	settings := NewFactory().DefaultSessionParams().Settings
	settings.SetInt("upload_rate_limit", 1<<20)
	settings.SetBool("enable_dht", false)

	config, err := newClientConfig(settings)
	require_.NoError(t, err)
	assert.Equal(DefaultSavePath, config.DataDir)
	assert.Equal(42069, config.ListenPort)
	assert.True(config.NoDHT)
	assert.Equal(50, config.EstablishedConnsPerTorrent)
	assert.Equal(rate.Limit(1<<20), config.UploadRateLimiter.Limit())
	assert.Equal(rate.Inf, config.DownloadRateLimiter.Limit())

	settings.SetString("listen_interfaces", "nonsense")
	_, err = newClientConfig(settings)
	assert.Error(err)
}

func TestListenPort(t *testing.T) {
	assert := assert_.New(t)
	port, err := listenPort("0.0.0.0:6881,[::]:6882")
	assert.NoError(err)
	assert.Equal(6881, port)
	_, err = listenPort("0.0.0.0:99999")
	assert.Error(err)
}
