package session

import (
	"context"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	assert_ "github.com/stretchr/testify/assert"
	require_ "github.com/stretchr/testify/require"

	"github.com/alanbriolat/swarmkeeper/internal/engine"
	"github.com/alanbriolat/swarmkeeper/internal/engine/mocks"
)

type mockFactory struct {
	eng *mocks.MockEngine
}

func (f mockFactory) SettingDescriptors() []engine.SettingDescriptor { return nil }
func (f mockFactory) DefaultSessionParams() engine.SessionParams     { return engine.SessionParams{} }
func (f mockFactory) Create(engine.SessionParams) (engine.Engine, error) {
	return f.eng, nil
}

func newMockSession(t *testing.T) (*Session, *mocks.MockEngine, *gomock.Controller) {
	ctrl := gomock.NewController(t)
	eng := mocks.NewMockEngine(ctrl)
	eng.EXPECT().StatsMetrics().Return(nil)
	eng.EXPECT().DrainEvents().Return(nil).AnyTimes()
	eng.EXPECT().Abort()

	config := testConfig(t)
	config.Factory = mockFactory{eng}
	config.SaveStateFlags = 0
	s, err := New(config, context.Background())
	require_.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s, eng, ctrl
}

func newMockJob(t *testing.T, s *Session, eng *mocks.MockEngine, ctrl *gomock.Controller) (*Job, *mocks.MockJobHandle) {
	h := mocks.NewMockJobHandle(ctrl)
	h.EXPECT().Identity().Return(idA).AnyTimes()
	h.EXPECT().IsValid().Return(true)
	eng.EXPECT().Find(idA).Return(h, true)
	j, ok := s.Job(idA)
	require_.True(t, ok)
	return j, h
}

func TestJob_Delegates(t *testing.T) {
	assert := assert_.New(t)
	s, eng, ctrl := newMockSession(t)
	j, h := newMockJob(t, s, eng, ctrl)

	gomock.InOrder(
		h.EXPECT().SetFlags(engine.FlagSequentialDownload),
		h.EXPECT().SetFlagsMask(engine.FlagUploadMode, engine.FlagUploadMode|engine.FlagShareMode),
		h.EXPECT().UnsetFlags(engine.FlagPaused),
		h.EXPECT().SetUploadLimit(1000),
		h.EXPECT().SetDownloadLimit(2000),
		h.EXPECT().SetMaxUploads(3),
		h.EXPECT().SetMaxConnections(40),
		h.EXPECT().AddTracker(engine.AnnounceEntry{URL: "udp://t:1", Tier: 2, Source: engine.TrackerSourceClient}),
		h.EXPECT().ForceRecheck(),
		h.EXPECT().ForceReannounce(0, -1),
		h.EXPECT().ScrapeTracker(1),
		h.EXPECT().ClearError(),
		h.EXPECT().ClearPeers(),
		h.EXPECT().Pause(engine.PauseGraceful),
		h.EXPECT().Resume(),
	)
	j.SetFlags(engine.FlagSequentialDownload)
	j.SetFlagsWithMask(engine.FlagUploadMode, engine.FlagUploadMode|engine.FlagShareMode)
	j.UnsetFlags(engine.FlagPaused)
	j.SetUploadLimit(1000)
	j.SetDownloadLimit(2000)
	j.SetMaxUploads(3)
	j.SetMaxConnections(40)
	j.AddTracker("udp://t:1", 2)
	j.ForceRecheck()
	j.ForceReannounce(0, -1)
	j.ScrapeTracker(1)
	j.ClearError()
	j.ClearPeers()
	j.Pause(true)
	j.Resume()

	h.EXPECT().UploadLimit().Return(1000)
	h.EXPECT().DownloadLimit().Return(2000)
	h.EXPECT().MaxUploads().Return(3)
	h.EXPECT().MaxConnections().Return(40)
	h.EXPECT().Flags().Return(engine.FlagUploadMode)
	assert.Equal(1000, j.UploadLimit())
	assert.Equal(2000, j.DownloadLimit())
	assert.Equal(3, j.MaxUploads())
	assert.Equal(40, j.MaxConnections())
	assert.Equal(engine.FlagUploadMode, j.Flags())
	assert.Equal(idA, j.Identity())
}

func TestJob_GetIsEventuallyConsistent(t *testing.T) {
	assert := assert_.New(t)
	s, eng, ctrl := newMockSession(t)
	j, h := newMockJob(t, s, eng, ctrl)

	// The request is posted, but nothing has arrived yet
	h.EXPECT().PostPeerInfo()
	assert.True(j.GetPeers().IsNone())

	// An older snapshot is returned as is
	s.caches.Peers.Update(idA, []engine.PeerInfo{{Addr: "old"}})
	h.EXPECT().PostPeerInfo()
	assert.Equal("old", j.GetPeers().Unwrap()[0].Addr)

	h.EXPECT().PostFileProgress(engine.FileProgressPieceGranularity)
	assert.True(j.GetFileProgress(true).IsNone())
}

func TestJob_FetchHonoursContext(t *testing.T) {
	assert := assert_.New(t)
	s, eng, ctrl := newMockSession(t)
	j, h := newMockJob(t, s, eng, ctrl)

	h.EXPECT().PostTrackers()
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err := j.FetchTrackers(ctx)
	assert.ErrorIs(err, context.DeadlineExceeded)
	assert.Equal(0, s.waiters.len())

	eng.EXPECT().PostSessionStats()
	ctx, cancel = context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err = s.FetchStats(ctx)
	assert.ErrorIs(err, context.DeadlineExceeded)
}

func TestJob_FetchFailsOnRemoval(t *testing.T) {
	assert := assert_.New(t)
	s, eng, ctrl := newMockSession(t)
	j, h := newMockJob(t, s, eng, ctrl)

	// The job is removed while the request is outstanding
	h.EXPECT().PostPieceInfo().Do(func() {
		go func() {
			s.dispatchMu.Lock()
			defer s.dispatchMu.Unlock()
			s.dispatch(engine.JobRemovedEvent{ID: idA})
		}()
	})
	_, err := j.FetchPieceInfo(context.Background())
	assert.ErrorIs(err, engine.ErrUnknownJob)
}

func TestJob_FetchFailsOnClose(t *testing.T) {
	assert := assert_.New(t)
	s, eng, ctrl := newMockSession(t)
	j, h := newMockJob(t, s, eng, ctrl)

	h.EXPECT().PostPieceAvailability().Do(func() {
		go func() { _ = s.Close() }()
	})
	_, err := j.FetchPieceAvailability(context.Background())
	assert.ErrorIs(err, ErrSessionClosed)
}
