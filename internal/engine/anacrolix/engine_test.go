package anacrolix

import (
	"crypto/sha1"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/anacrolix/torrent/bencode"
	"github.com/anacrolix/torrent/metainfo"
	assert_ "github.com/stretchr/testify/assert"
	require_ "github.com/stretchr/testify/require"

	"github.com/alanbriolat/swarmkeeper/internal/engine"
)

// newTestEngine starts a client on a random port, with DHT off and data under a temporary directory.
func newTestEngine(t *testing.T) *Engine {
	params := NewFactory().DefaultSessionParams()
	params.Settings.SetString("save_path", t.TempDir())
	params.Settings.SetString("listen_interfaces", "127.0.0.1:0")
	params.Settings.SetBool("enable_dht", false)
	eng, err := NewFactory().Create(params)
	require_.NoError(t, err)
	e := eng.(*Engine)
	t.Cleanup(func() {
		e.adding.Wait()
		e.client.Close()
	})
	return e
}

// seededTorrent writes a file with real content into dir and returns a .torrent describing it.
func seededTorrent(t *testing.T, dir string) ([]byte, engine.Identity) {
	const pieceLength = 1 << 14
	content := make([]byte, 40000)
	for i := range content {
		content[i] = byte(i * 7)
	}
	require_.NoError(t, os.WriteFile(filepath.Join(dir, "seeded.bin"), content, 0o644))
	var pieces []byte
	for off := 0; off < len(content); off += pieceLength {
		sum := sha1.Sum(content[off:min(off+pieceLength, len(content))])
		pieces = append(pieces, sum[:]...)
	}
	infoBytes, err := bencode.Marshal(metainfo.Info{Name: "seeded.bin", PieceLength: pieceLength, Length: int64(len(content)), Pieces: pieces})
	require_.NoError(t, err)
	data, err := bencode.Marshal(metainfo.MetaInfo{InfoBytes: infoBytes})
	require_.NoError(t, err)
	hash := metainfo.HashBytes(infoBytes)
	id, err := engine.IdentityFromBytes(hash[:])
	require_.NoError(t, err)
	return data, id
}

func eventsOf[T engine.Event](events []engine.Event) []T {
	var matched []T
	for _, ev := range events {
		if e, ok := ev.(T); ok {
			matched = append(matched, e)
		}
	}
	return matched
}

func TestEngine_ConcurrentDuplicateAdds(t *testing.T) {
	assert := assert_.New(t)
	e := newTestEngine(t)
	params, err := e.ParseURI("magnet:?xt=urn:btih:" + string(idA))
	require_.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			e.AddAsync(params)
		}()
	}
	wg.Wait()
	e.adding.Wait()

	completed := eventsOf[engine.AddJobCompletedEvent](e.DrainEvents())
	require_.Len(t, completed, 32)
	first := completed[0].Handle
	for _, ev := range completed {
		assert.NoError(ev.Err)
		assert.Same(first, ev.Handle, "every add resolves to one job")
	}
	assert.Equal([]engine.Identity{idA}, e.order)
	assert.Len(e.Jobs(), 1)

	e.Remove(first, 0)
	assert.Empty(e.order)
	assert.NotPanics(e.PostJobUpdates)
	assert.Len(eventsOf[engine.JobRemovedEvent](e.DrainEvents()), 1)
	_, ok := e.Find(idA)
	assert.False(ok)

	// Adding again after removal gives a fresh job
	e.AddAsync(params)
	e.adding.Wait()
	again := eventsOf[engine.AddJobCompletedEvent](e.DrainEvents())
	require_.Len(t, again, 1)
	assert.NoError(again[0].Err)
	assert.NotSame(first, again[0].Handle)

	params.Flags |= engine.FlagDuplicateIsError
	e.AddAsync(params)
	e.adding.Wait()
	dup := eventsOf[engine.AddJobCompletedEvent](e.DrainEvents())
	require_.Len(t, dup, 1)
	assert.ErrorIs(dup[0].Err, ErrDuplicateJob)
}

func TestEngine_MetadataFromMagnet(t *testing.T) {
	assert := assert_.New(t)
	e := newTestEngine(t)
	data, id := torrentFile(t)
	withInfo, err := parseMetainfo(data)
	require_.NoError(t, err)
	params, err := e.ParseURI("magnet:?xt=urn:btih:" + string(id))
	require_.NoError(t, err)

	e.AddAsync(params)
	e.adding.Wait()
	e.PostJobUpdates()
	assert.Empty(eventsOf[engine.MetadataReceivedEvent](e.DrainEvents()))

	job, ok := e.Find(id)
	require_.True(t, ok)
	_, ok = job.Info()
	assert.False(ok)
	require_.NoError(t, job.(*Handle).t.SetInfoBytes(withInfo.InfoBytes))

	e.PostJobUpdates()
	received := eventsOf[engine.MetadataReceivedEvent](e.DrainEvents())
	require_.Len(t, received, 1)
	assert.Equal(id, received[0].Handle.Identity())
	e.PostJobUpdates()
	assert.Empty(eventsOf[engine.MetadataReceivedEvent](e.DrainEvents()), "reported once")
	info, ok := job.Info()
	assert.True(ok)
	assert.Equal("thing.bin", info.Name)
}

func TestEngine_Lifecycle(t *testing.T) {
	assert := assert_.New(t)
	e := newTestEngine(t)
	data, id := seededTorrent(t, e.config.DataDir)
	params, err := e.ParseJobFile(data)
	require_.NoError(t, err)

	e.AddAsync(params)
	e.adding.Wait()
	events := e.DrainEvents()
	completed := eventsOf[engine.AddJobCompletedEvent](events)
	require_.Len(t, completed, 1)
	require_.NoError(t, completed[0].Err)
	h := completed[0].Handle.(*Handle)
	assert.Equal(id, h.Identity())
	assert.Equal(e.config.DataDir, h.params.SavePath)

	// Added with its info dictionary, so only finishing is reported
	h.ForceRecheck()
	var finished []engine.JobFinishedEvent
	require_.Eventually(t, func() bool {
		e.PostJobUpdates()
		events := e.DrainEvents()
		assert.Empty(eventsOf[engine.MetadataReceivedEvent](events))
		finished = append(finished, eventsOf[engine.JobFinishedEvent](events)...)
		return len(finished) > 0
	}, 10*time.Second, 10*time.Millisecond)
	assert.Len(finished, 1)
	e.PostJobUpdates()
	assert.Empty(eventsOf[engine.JobFinishedEvent](e.DrainEvents()))

	h.Pause(engine.PauseGraceful)
	assert.True(h.Flags().Has(engine.FlagPaused))
	assert.Len(eventsOf[engine.JobPausedEvent](e.DrainEvents()), 1)
	e.mu.Lock()
	assert.False(h.running())
	e.mu.Unlock()
	h.Resume()
	assert.False(h.Flags().Has(engine.FlagPaused))
	assert.Len(eventsOf[engine.JobResumedEvent](e.DrainEvents()), 1)

	e.Pause()
	assert.True(e.IsPaused())
	e.mu.Lock()
	assert.False(h.running(), "a paused engine stops every job")
	e.mu.Unlock()
	e.Resume()
	assert.False(e.IsPaused())
	e.mu.Lock()
	assert.True(h.running())
	e.mu.Unlock()

	e.Remove(h, engine.RemoveDeleteFiles)
	assert.False(h.IsValid())
	removed := eventsOf[engine.JobRemovedEvent](e.DrainEvents())
	require_.Len(t, removed, 1)
	assert.Equal(id, removed[0].ID)
	_, err = os.Stat(filepath.Join(e.config.DataDir, "seeded.bin"))
	assert.True(os.IsNotExist(err), "files deleted")

	// Removing twice is a no-op
	e.Remove(h, engine.RemoveDeleteFiles)
	assert.Empty(e.DrainEvents())
}

func TestEngine_AddErrors(t *testing.T) {
	assert := assert_.New(t)
	e := newTestEngine(t)

	for _, tc := range []struct {
		params engine.AddParams
		err    error
	}{
		{engine.AddParams{InfoHashes: engine.InfoHashes{V2: engine.Identity(string(idA) + "aaaaaaaaaaaaaaaaaaaaaaaa")}}, ErrV2Unsupported},
		{engine.AddParams{}, engine.ErrInvalidIdentity},
	} {
		e.AddAsync(tc.params)
		e.adding.Wait()
		completed := eventsOf[engine.AddJobCompletedEvent](e.DrainEvents())
		require_.Len(t, completed, 1)
		assert.Nil(completed[0].Handle)
		assert.ErrorIs(completed[0].Err, tc.err)
	}
	assert.Empty(e.Jobs())
}
