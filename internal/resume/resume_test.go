package resume

import (
	"bytes"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/google/uuid"
	assert_ "github.com/stretchr/testify/assert"
	require_ "github.com/stretchr/testify/require"

	"github.com/alanbriolat/swarmkeeper/internal/engine"
)

const testID = engine.Identity("0123456789abcdef0123456789abcdef01234567")

func TestStore_RoundTrip(t *testing.T) {
	assert := assert_.New(t)
	s := NewStore(t.TempDir(), 0)

	assert.Equal(filepath.Join(s.Dir(), string(testID)+".resume"), s.Path(testID))

	_, ok, err := s.Read(testID)
	assert.NoError(err)
	assert.False(ok)
	assert.False(s.Exists(testID))

	data := []byte{0, 1, 2, 'd', 'e', 0xff}
	require_.NoError(t, s.Write(testID, data))
	read, ok, err := s.Read(testID)
	assert.NoError(err)
	assert.True(ok)
	assert.Equal(data, read)
	assert.True(s.Exists(testID))

	// A shorter record replaces the old one completely
	require_.NoError(t, s.Write(testID, []byte("x")))
	read, _, _ = s.Read(testID)
	assert.Equal([]byte("x"), read)
}

func TestStore_SizeLimit(t *testing.T) {
	assert := assert_.New(t)
	s := NewStore(t.TempDir(), 4)

	require_.NoError(t, s.Write(testID, []byte("1234")))
	_, ok, err := s.Read(testID)
	assert.NoError(err)
	assert.True(ok)

	require_.NoError(t, s.Write(testID, []byte("12345")))
	_, ok, err = s.Read(testID)
	assert.ErrorIs(err, ErrTooLarge)
	assert.False(ok)
}

func TestStore_WriteError(t *testing.T) {
	s := NewStore(filepath.Join(t.TempDir(), "missing"), 0)
	assert_.Error(t, s.Write(testID, []byte("x")))
}

func TestStore_ConcurrentWrites(t *testing.T) {
	assert := assert_.New(t)
	s := NewStore(t.TempDir(), 0)
	records := [][]byte{
		bytes.Repeat([]byte("a"), 64*1024),
		bytes.Repeat([]byte("b"), 32*1024),
		bytes.Repeat([]byte("c"), 128*1024),
	}
	var wg sync.WaitGroup
	for i := 0; i < 30; i++ {
		wg.Add(1)
		go func(data []byte) {
			defer wg.Done()
			assert.NoError(s.Write(testID, data))
		}(records[i%len(records)])
	}
	wg.Wait()

	// Whichever write came last, the file holds exactly one complete record
	data, err := os.ReadFile(s.Path(testID))
	require_.NoError(t, err)
	matched := false
	for _, r := range records {
		if bytes.Equal(r, data) {
			matched = true
		}
	}
	assert.True(matched)
}

func TestTracker(t *testing.T) {
	assert := assert_.New(t)
	tr := NewTracker()

	assert.Equal(NoResume, tr.Get(testID).Status)

	r1 := tr.Requested(testID, engine.ResumeSaveInfoDict)
	assert.NotEqual(uuid.Nil, r1)
	st := tr.Get(testID)
	assert.Equal(Requested, st.Status)
	assert.Equal(engine.ResumeSaveInfoDict, st.Flags)

	assert.Equal(r1, tr.Written(testID))
	assert.Equal(Written, tr.Get(testID).Status)

	// A later trigger re-enters Requested
	r2 := tr.Requested(testID, engine.ResumeSaveInfoDict|engine.ResumeIfDownloadProgress)
	assert.NotEqual(r1, r2)
	st = tr.Get(testID)
	assert.Equal(Requested, st.Status)
	assert.Equal(2, st.Requests)
	assert.Equal(1, st.Writes)

	tr.Forget(testID)
	assert.Equal(NoResume, tr.Get(testID).Status)
	assert.Equal("requested", Requested.String())
}

type handle struct {
	engine.JobHandle
}

func TestTrigger(t *testing.T) {
	assert := assert_.New(t)
	h := handle{}

	cases := []struct {
		event engine.Event
		ok    bool
		flags engine.ResumeFlags
	}{
		{engine.MetadataReceivedEvent{Handle: h}, true, engine.ResumeSaveInfoDict},
		{engine.AddJobCompletedEvent{Handle: h}, true, engine.ResumeSaveInfoDict | engine.ResumeIfMetadataChanged},
		{engine.AddJobCompletedEvent{Err: os.ErrInvalid}, false, 0},
		{engine.JobFinishedEvent{Handle: h}, true, engine.ResumeSaveInfoDict | engine.ResumeIfDownloadProgress},
		{engine.JobPausedEvent{Handle: h}, true, engine.ResumeSaveInfoDict},
		{engine.JobResumedEvent{Handle: h}, false, 0},
		{engine.JobStatusBatchEvent{}, false, 0},
		{engine.StatsEvent{}, false, 0},
		{engine.JobRemovedEvent{ID: testID}, false, 0},
		{engine.MetadataReceivedEvent{}, false, engine.ResumeSaveInfoDict},
	}
	for _, c := range cases {
		job, flags, ok := Trigger(c.event)
		assert.Equal(c.ok, ok, "%T", c.event)
		if c.ok {
			assert.Equal(c.flags, flags, "%T", c.event)
			assert.Equal(h, job)
		}
	}
}
