// Package session owns a transfer engine and mirrors its state. A background pump pulls events from the engine and
// the dispatcher applies them to the caches; commands go straight to the engine, and reads come from the caches.
package session

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/hashicorp/go-multierror"
	"go.uber.org/zap"

	"github.com/alanbriolat/swarmkeeper/generic"
	"github.com/alanbriolat/swarmkeeper/internal/boltdb"
	"github.com/alanbriolat/swarmkeeper/internal/engine"
	"github.com/alanbriolat/swarmkeeper/internal/pubsub"
	"github.com/alanbriolat/swarmkeeper/internal/resume"
	"github.com/alanbriolat/swarmkeeper/internal/settings"
	"github.com/alanbriolat/swarmkeeper/internal/state"
	"github.com/alanbriolat/swarmkeeper/internal/sync_"
)

var (
	ErrSessionClosed = errors.New("session closed")
	ErrNoFactory     = errors.New("no engine factory configured")
)

// Lifecycle records are buffered this deep before the publisher blocks the dispatcher.
const eventBufSize = 64

type Config struct {
	Factory engine.Factory
	// Settings are applied in order over the loaded (or default) session settings.
	Settings       []settings.Pair
	StatePath      string
	ResumeDir      string
	JobDir         string
	SaveStateFlags engine.SaveStateFlags
	// Interval between background pump ticks. Zero disables the pump, leaving only Poll.
	PollInterval time.Duration
	// Number of lifecycle records kept for Logs.
	LogCapacity     int
	ResumeSizeLimit int64
}

var DefaultConfig = Config{
	StatePath:       ".swarmkeeper/session.db",
	ResumeDir:       ".swarmkeeper/resume",
	JobDir:          ".swarmkeeper/jobs",
	SaveStateFlags:  engine.SaveAll,
	PollInterval:    500 * time.Millisecond,
	LogCapacity:     20,
	ResumeSizeLimit: resume.DefaultSizeLimit,
}

type Session struct {
	config    Config
	ctx       context.Context
	ctxCancel context.CancelFunc
	log       *zap.SugaredLogger

	engine   engine.Engine
	registry *settings.Registry
	caches   *state.Caches
	resumes  *resume.Store
	tracker  *resume.Tracker
	logs     *logRing
	events   pubsub.Publisher[LogEntry]
	waiters  *waiters

	// dispatchMu serializes draining and dispatching, so there is only ever one writer to the caches.
	dispatchMu sync.Mutex
	pumpDone   chan struct{}
	closed     sync_.Event
}

// New creates the engine and starts the pump. Persisted session state is loaded from config.StatePath if it exists,
// and config.Settings are applied over it.
func New(config Config, ctx context.Context) (*Session, error) {
	log := zap.S().Named("session")
	if config.Factory == nil {
		return nil, ErrNoFactory
	}
	registry := settings.NewRegistry(config.Factory.SettingDescriptors())
	if err := registry.Validate(config.Settings); err != nil {
		return nil, fmt.Errorf("invalid settings: %w", err)
	}

	params := config.Factory.DefaultSessionParams()
	params.Settings = params.Settings.Clone()
	if loaded, found, err := boltdb.Load(config.StatePath, config.SaveStateFlags); err != nil {
		log.Warnf("ignoring unreadable session state: %v", err)
	} else if found {
		log.Debugf("loaded session state from %s (%d settings)", config.StatePath, loaded.Settings.Len())
		params.Settings.Merge(loaded.Settings)
		if loaded.DHTState != nil {
			params.DHTState = loaded.DHTState
		}
	}

	if err := ensureDirs(config); err != nil {
		return nil, err
	}

	// Already validated, but applied one at a time so a failure would leave earlier items in place
	if err := registry.Apply(&params.Settings, config.Settings); err != nil {
		return nil, err
	}

	eng, err := config.Factory.Create(params)
	if err != nil {
		return nil, fmt.Errorf("create engine: %w", err)
	}

	ctx, cancel := context.WithCancel(ctx)
	s := &Session{
		config:    config,
		ctx:       ctx,
		ctxCancel: cancel,
		log:       log,

		engine:   eng,
		registry: registry,
		caches:   state.NewCaches(eng.StatsMetrics()),
		resumes:  resume.NewStore(config.ResumeDir, config.ResumeSizeLimit),
		tracker:  resume.NewTracker(),
		logs:     newLogRing(config.LogCapacity),
		events:   pubsub.NewPublisherBufSize[LogEntry](eventBufSize),
		waiters:  newWaiters(),
	}
	if config.PollInterval > 0 {
		s.pumpDone = make(chan struct{})
		go s.runPump(config.PollInterval)
	}
	return s, nil
}

func ensureDirs(config Config) error {
	dirs := []string{config.ResumeDir, config.JobDir}
	if parent := filepath.Dir(config.StatePath); config.StatePath != "" && parent != "." {
		dirs = append(dirs, parent)
	}
	for _, dir := range dirs {
		if dir == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory: %w", err)
		}
	}
	return nil
}

func (s *Session) Config() Config {
	return s.config
}

// Registry is the settings registry built from the engine's setting descriptors.
func (s *Session) Registry() *settings.Registry {
	return s.registry
}

// Subscribe streams lifecycle records as they happen. Slow subscribers miss records rather than stall the session.
func (s *Session) Subscribe() (pubsub.ReceiverCloser[LogEntry], error) {
	return s.SubscribeKinds()
}

// SubscribeKinds is like Subscribe, but only delivers records of the given kinds. No kinds means every kind.
func (s *Session) SubscribeKinds(kinds ...LogKind) (pubsub.ReceiverCloser[LogEntry], error) {
	ch := pubsub.NewChannel[LogEntry](eventBufSize)
	var sender pubsub.SenderCloser[LogEntry] = pubsub.NewLossySender(ch)
	if len(kinds) > 0 {
		wanted := generic.NewSet(kinds...)
		sender = pubsub.NewFilteredSender(sender, func(e LogEntry) bool { return wanted.Contains(e.Kind) })
	}
	if err := s.events.AddSubscriber(sender, true); err != nil {
		return nil, err
	}
	return ch, nil
}

// Logs returns the most recent lifecycle records, oldest first.
func (s *Session) Logs() []LogEntry {
	return s.logs.list()
}

// Poll runs one pump tick on the calling goroutine: request fresh snapshots, then drain and dispatch.
func (s *Session) Poll() error {
	if s.closed.IsSet() {
		return ErrSessionClosed
	}
	s.tick()
	return nil
}

func (s *Session) Pause() {
	s.engine.Pause()
}

func (s *Session) Resume() {
	s.engine.Resume()
}

func (s *Session) IsPaused() bool {
	return s.engine.IsPaused()
}

// ApplySettings changes settings on the running engine. Nothing is applied unless every pair is valid.
func (s *Session) ApplySettings(pairs []settings.Pair) error {
	if s.closed.IsSet() {
		return ErrSessionClosed
	}
	if err := s.registry.Validate(pairs); err != nil {
		return err
	}
	pack := engine.NewSettingsPack()
	if err := s.registry.Apply(&pack, pairs); err != nil {
		return err
	}
	return s.engine.ApplySettings(pack)
}

// SaveState writes the session state selected by the configured SaveStateFlags to the state file.
func (s *Session) SaveState() error {
	if s.closed.IsSet() {
		return ErrSessionClosed
	}
	return s.saveState()
}

func (s *Session) saveState() error {
	if s.config.StatePath == "" || s.config.SaveStateFlags == 0 {
		return nil
	}
	params := s.engine.SessionState(s.config.SaveStateFlags)
	return boltdb.Save(s.config.StatePath, params, s.config.SaveStateFlags)
}

// Stats returns both generations of session counters.
func (s *Session) Stats() state.StatsSnapshot {
	return s.caches.Stats.Snapshot()
}

func (s *Session) StatsMetrics() []engine.StatsMetric {
	return s.caches.Stats.Metrics()
}

// FetchStats requests fresh session counters and waits for them to arrive.
func (s *Session) FetchStats(ctx context.Context) (state.StatsSnapshot, error) {
	err := s.await(ctx, waitKey{kind: engine.KindStats}, s.engine.PostSessionStats)
	if err != nil {
		return state.StatsSnapshot{}, err
	}
	return s.Stats(), nil
}

func (s *Session) DHTStats() generic.Option[engine.DHTStats] {
	return s.caches.DHT.Get()
}

// JobStatuses returns the cached status of every job.
func (s *Session) JobStatuses() map[engine.Identity]engine.JobStatus {
	return s.caches.Jobs.All()
}

// Jobs returns the metadata of every job whose info dictionary is known.
func (s *Session) Jobs() []engine.JobInfo {
	var list []engine.JobInfo
	for _, h := range s.engine.Jobs() {
		if info, ok := h.Info(); ok {
			list = append(list, info)
		}
	}
	return list
}

// JobMetadata returns the metadata of one job, or the zero JobInfo if it is unknown or has no metadata yet.
func (s *Session) JobMetadata(id string) (engine.JobInfo, error) {
	j, err := s.lookup(id)
	if err != nil || j == nil {
		return engine.JobInfo{}, err
	}
	info, _ := j.Info()
	return info, nil
}

// Job returns the facade for id, if the engine knows the job.
func (s *Session) Job(id engine.Identity) (*Job, bool) {
	h, ok := s.engine.Find(id)
	if !ok || !h.IsValid() {
		return nil, false
	}
	return newJob(s, h), true
}

// lookup parses id and finds the job. An unknown job is (nil, nil).
func (s *Session) lookup(id string) (*Job, error) {
	identity, err := engine.ParseIdentity(id)
	if err != nil {
		return nil, err
	}
	j, _ := s.Job(identity)
	return j, nil
}

// RemoveJob removes a job from the engine, optionally deleting its files. Caches are cleared when the engine reports
// the removal.
func (s *Session) RemoveJob(id string, deleteFiles bool) error {
	j, err := s.lookup(id)
	if err != nil {
		return err
	} else if j == nil {
		return fmt.Errorf("%w: %s", engine.ErrUnknownJob, id)
	}
	var flags engine.RemoveFlags
	if deleteFiles {
		flags |= engine.RemoveDeleteFiles
	}
	s.engine.Remove(j.handle, flags)
	return nil
}

// Close stops the pump and waits for it to exit, saves session state, and starts engine shutdown without waiting for
// it. Resume saves still in flight may be lost.
func (s *Session) Close() error {
	if !s.closed.Set() {
		return nil
	}
	s.ctxCancel()
	if s.pumpDone != nil {
		<-s.pumpDone
	}

	var result *multierror.Error
	if err := s.saveState(); err != nil {
		result = multierror.Append(result, err)
	}
	s.dispatchMu.Lock()
	s.engine.Abort()
	s.dispatchMu.Unlock()

	s.waiters.close(ErrSessionClosed)
	s.events.Close()
	s.caches.Clear()
	s.log.Debugf("session closed")
	return result.ErrorOrNil()
}

// Done is closed once Close has been called.
func (s *Session) Done() <-chan struct{} {
	return s.closed.Wait()
}

// await registers a waiter for key, runs post, then drains until the waiter is resolved or ctx is done.
func (s *Session) await(ctx context.Context, key waitKey, post func()) error {
	c, err := s.waiters.add(key)
	if err != nil {
		return err
	}
	defer s.waiters.remove(c)
	post()
	retry := time.NewTicker(fetchRetryInterval)
	defer retry.Stop()
	for {
		s.drain()
		select {
		case <-c.Done():
			_, err := c.Wait()
			return err
		case <-ctx.Done():
			return ctx.Err()
		case <-s.closed.Wait():
			return ErrSessionClosed
		case <-retry.C:
		}
	}
}

// How often an awaited fetch drains the engine itself, so it also works without the background pump.
const fetchRetryInterval = 50 * time.Millisecond
