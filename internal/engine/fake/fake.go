// Package fake is an in-memory engine with no network or disk activity. Every command is recorded, every snapshot
// request queues a synthetic event, and tests can queue arbitrary events with Emit. Jobs only make progress when the
// factory's Step is non-zero, in which case each PostJobUpdates advances every running job by Step bytes.
package fake

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/alanbriolat/swarmkeeper/internal/engine"
)

const (
	DefaultJobSize     = 1 << 20
	DefaultPieceLength = 1 << 16
)

var ErrDuplicateJob = errors.New("duplicate job")

var Descriptors = []engine.SettingDescriptor{
	{Name: "user_agent", Type: engine.SettingString},
	{Name: "listen_interfaces", Type: engine.SettingString},
	{Name: "enable_dht", Type: engine.SettingBool},
	{Name: "enable_lsd", Type: engine.SettingBool},
	{Name: "connections_limit", Type: engine.SettingInt},
	{Name: "choking_algorithm", Type: engine.SettingInt},
	{Name: "alert_mask", Type: engine.SettingInt},
	{Name: "upload_rate_limit", Type: engine.SettingInt},
	{Name: "download_rate_limit", Type: engine.SettingInt},
}

var Metrics = []engine.StatsMetric{
	{Name: "net.sent_payload_bytes", Index: 0, Type: engine.MetricCounter},
	{Name: "net.recv_payload_bytes", Index: 1, Type: engine.MetricCounter},
	{Name: "ses.num_downloading_torrents", Index: 2, Type: engine.MetricGauge},
	{Name: "ses.num_seeding_torrents", Index: 3, Type: engine.MetricGauge},
	{Name: "peer.num_peers_connected", Index: 4, Type: engine.MetricGauge},
}

type Factory struct {
	// Step is the number of bytes each running job advances per PostJobUpdates.
	Step      int64
	CreateErr error

	mu      sync.Mutex
	engines []*Engine
}

func NewFactory() *Factory {
	return &Factory{}
}

func (f *Factory) SettingDescriptors() []engine.SettingDescriptor {
	return append([]engine.SettingDescriptor(nil), Descriptors...)
}

func (f *Factory) DefaultSessionParams() engine.SessionParams {
	settings := engine.NewSettingsPack()
	settings.SetString("user_agent", "swarmkeeper/fake")
	settings.SetBool("enable_dht", true)
	settings.SetInt("connections_limit", 200)
	return engine.SessionParams{Settings: settings}
}

func (f *Factory) Create(params engine.SessionParams) (engine.Engine, error) {
	if f.CreateErr != nil {
		return nil, f.CreateErr
	}
	e := New(params, f.Step)
	f.mu.Lock()
	defer f.mu.Unlock()
	f.engines = append(f.engines, e)
	return e, nil
}

// Last returns the most recently created engine, or nil.
func (f *Factory) Last() *Engine {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.engines) == 0 {
		return nil
	}
	return f.engines[len(f.engines)-1]
}

type Engine struct {
	mu        sync.Mutex
	log       *zap.SugaredLogger
	params    engine.SessionParams
	step      int64
	jobs      map[engine.Identity]*Handle
	order     []engine.Identity
	queue     []engine.Event
	added     []engine.AddParams
	calls     []string
	sent      int64
	paused    bool
	aborted   bool
	addErr    error
	resumeErr error
}

func New(params engine.SessionParams, step int64) *Engine {
	params.Settings = params.Settings.Clone()
	return &Engine{
		log:    zap.S().Named("engine.fake"),
		params: params,
		step:   step,
		jobs:   make(map[engine.Identity]*Handle),
	}
}

// Emit queues events to be returned by the next DrainEvents.
func (e *Engine) Emit(events ...engine.Event) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.queue = append(e.queue, events...)
}

// Added returns a copy of the params passed to every AddAsync call, in order.
func (e *Engine) Added() []engine.AddParams {
	e.mu.Lock()
	defer e.mu.Unlock()
	added := make([]engine.AddParams, len(e.added))
	for i, p := range e.added {
		added[i] = p.Clone()
	}
	return added
}

// Calls returns the name of every command received, in order.
func (e *Engine) Calls() []string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]string(nil), e.calls...)
}

// CallCount counts commands received with the given name.
func (e *Engine) CallCount(name string) int {
	n := 0
	for _, c := range e.Calls() {
		if c == name {
			n++
		}
	}
	return n
}

// SetAddError makes every later AddAsync fail with err. A nil err restores normal behaviour.
func (e *Engine) SetAddError(err error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.addErr = err
}

// SetResumeError makes every later SaveResumeData fail with err.
func (e *Engine) SetResumeError(err error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.resumeErr = err
}

func (e *Engine) Settings() engine.SettingsPack {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.params.Settings.Clone()
}

func (e *Engine) IsAborted() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.aborted
}

// record must be called with mu held.
func (e *Engine) record(call string) {
	e.calls = append(e.calls, call)
}

func (e *Engine) emit(ev engine.Event) {
	e.queue = append(e.queue, ev)
}

func (e *Engine) AddAsync(params engine.AddParams) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.record("AddAsync")
	params = params.Clone()
	e.added = append(e.added, params)

	id := params.Identity()
	switch {
	case e.aborted:
		e.emit(engine.AddJobCompletedEvent{Params: params, Err: engine.ErrAborted})
		return
	case e.addErr != nil:
		e.emit(engine.AddJobCompletedEvent{Params: params, Err: e.addErr})
		return
	case id == "":
		e.emit(engine.AddJobCompletedEvent{Params: params, Err: engine.ErrInvalidIdentity})
		return
	}
	if h, ok := e.jobs[id]; ok {
		if params.Flags.Has(engine.FlagDuplicateIsError) {
			e.emit(engine.AddJobCompletedEvent{Params: params, Err: fmt.Errorf("%w: %s", ErrDuplicateJob, id)})
		} else {
			e.emit(engine.AddJobCompletedEvent{Handle: h, Params: params})
		}
		return
	}
	h := newHandle(e, params)
	e.jobs[id] = h
	e.order = append(e.order, id)
	e.log.Debugw("added job", "job", id, "name", params.Name)
	e.emit(engine.AddJobCompletedEvent{Handle: h, Params: params})
}

func (e *Engine) Find(id engine.Identity) (engine.JobHandle, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	for _, h := range e.jobs {
		if h.params.InfoHashes.Has(id) {
			return h, true
		}
	}
	return nil, false
}

func (e *Engine) Jobs() []engine.JobHandle {
	e.mu.Lock()
	defer e.mu.Unlock()
	handles := make([]engine.JobHandle, 0, len(e.order))
	for _, id := range e.order {
		handles = append(handles, e.jobs[id])
	}
	return handles
}

func (e *Engine) Remove(job engine.JobHandle, flags engine.RemoveFlags) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.record("Remove")
	id := job.Identity()
	h, ok := e.jobs[id]
	if !ok {
		return
	}
	h.valid = false
	delete(e.jobs, id)
	for i, other := range e.order {
		if other == id {
			e.order = append(e.order[:i], e.order[i+1:]...)
			break
		}
	}
	e.log.Debugw("removed job", "job", id, "delete_files", flags&engine.RemoveDeleteFiles != 0)
	e.emit(engine.JobRemovedEvent{ID: id})
}

func (e *Engine) PostSessionStats() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.record("PostSessionStats")
	var recv, downloading, seeding int64
	for _, h := range e.jobs {
		recv += h.done
		if h.finished {
			seeding++
		} else {
			downloading++
		}
	}
	e.emit(engine.StatsEvent{Time: time.Now(), Counters: []int64{e.sent, recv, downloading, seeding, 0}})
}

// PostJobUpdates advances running jobs by the configured step, then reports every job's status.
func (e *Engine) PostJobUpdates() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.record("PostJobUpdates")
	statuses := make([]engine.JobStatus, 0, len(e.order))
	for _, id := range e.order {
		h := e.jobs[id]
		h.advance(e.step)
		statuses = append(statuses, h.status())
	}
	if len(statuses) > 0 {
		e.emit(engine.JobStatusBatchEvent{Statuses: statuses})
	}
}

func (e *Engine) PostDHTStats() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.record("PostDHTStats")
	nodes := 0
	for _, h := range e.jobs {
		nodes += len(h.params.DHTNodes)
	}
	e.emit(engine.DHTStatsEvent{Stats: engine.DHTStats{
		NodeID:        "fake",
		LocalEndpoint: "127.0.0.1:6881",
		RoutingTable:  []engine.DHTRoutingBucket{{NumNodes: int32(nodes)}},
	}})
}

func (e *Engine) DrainEvents() []engine.Event {
	e.mu.Lock()
	defer e.mu.Unlock()
	events := e.queue
	e.queue = nil
	return events
}

func (e *Engine) Pause() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.record("Pause")
	e.paused = true
}

func (e *Engine) Resume() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.record("Resume")
	e.paused = false
}

func (e *Engine) IsPaused() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.paused
}

func (e *Engine) ApplySettings(pack engine.SettingsPack) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.record("ApplySettings")
	if e.aborted {
		return engine.ErrAborted
	}
	e.params.Settings.Merge(pack)
	return nil
}

func (e *Engine) SessionState(flags engine.SaveStateFlags) engine.SessionParams {
	e.mu.Lock()
	defer e.mu.Unlock()
	var params engine.SessionParams
	if flags.Has(engine.SaveSettings) {
		params.Settings = e.params.Settings.Clone()
	}
	if flags.Has(engine.SaveDHTState) {
		params.DHTState = []byte(fmt.Sprintf("fake-dht:%d", len(e.jobs)))
	}
	return params
}

func (e *Engine) Abort() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.record("Abort")
	e.aborted = true
}

func (e *Engine) StatsMetrics() []engine.StatsMetric {
	return append([]engine.StatsMetric(nil), Metrics...)
}

// ParseJobFile decodes a JSON encoded AddParams.
func (e *Engine) ParseJobFile(data []byte) (engine.AddParams, error) {
	var params engine.AddParams
	if err := json.Unmarshal(data, &params); err != nil {
		return params, fmt.Errorf("decode job file: %w", err)
	}
	if err := validateHashes(params.InfoHashes); err != nil {
		return params, err
	}
	return params, nil
}

// ParseURI understands magnet links with btih (v1) and btmh (v2, multihash 1220 prefix) exact topics.
func (e *Engine) ParseURI(uri string) (engine.AddParams, error) {
	var params engine.AddParams
	u, err := url.Parse(uri)
	if err != nil {
		return params, err
	}
	if u.Scheme != "magnet" {
		return params, fmt.Errorf("not a magnet link: %q", uri)
	}
	q := u.Query()
	for _, xt := range q["xt"] {
		switch {
		case strings.HasPrefix(xt, "urn:btih:"):
			params.InfoHashes.V1 = engine.Identity(strings.TrimPrefix(xt, "urn:btih:"))
		case strings.HasPrefix(xt, "urn:btmh:1220"):
			params.InfoHashes.V2 = engine.Identity(strings.TrimPrefix(xt, "urn:btmh:1220"))
		}
	}
	if params.InfoHashes.IsZero() {
		return params, fmt.Errorf("%w: magnet link has no exact topic", engine.ErrInvalidIdentity)
	}
	if err := validateHashes(params.InfoHashes); err != nil {
		return params, err
	}
	params.Name = q.Get("dn")
	params.Trackers = q["tr"]
	params.Flags = engine.DefaultFlags
	return params, nil
}

func validateHashes(hashes engine.InfoHashes) error {
	for _, id := range []engine.Identity{hashes.V1, hashes.V2} {
		if id == "" {
			continue
		}
		if parsed, err := engine.ParseIdentity(string(id)); err != nil {
			return err
		} else if parsed != id {
			return fmt.Errorf("%w: %q is not lower case", engine.ErrInvalidIdentity, id)
		}
	}
	if hashes.IsZero() {
		return fmt.Errorf("%w: no info hash", engine.ErrInvalidIdentity)
	}
	return nil
}

func (e *Engine) ReadResumeData(data []byte) (engine.AddParams, error) {
	var params engine.AddParams
	if err := json.Unmarshal(data, &params); err != nil {
		return params, fmt.Errorf("decode resume data: %w", err)
	}
	if params.InfoHashes.IsZero() {
		return params, fmt.Errorf("%w: resume data has no info hash", engine.ErrInvalidIdentity)
	}
	return params, nil
}

func (e *Engine) WriteResumeData(params engine.AddParams) ([]byte, error) {
	return json.Marshal(params)
}
