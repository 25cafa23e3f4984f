// Package anacrolix runs jobs on github.com/anacrolix/torrent. The library has no notification queue of its own, so
// the engine builds one: commands and snapshot requests queue events that DrainEvents hands back in order, and
// lifecycle transitions (metadata arriving, a job finishing) are detected when job updates are posted.
package anacrolix

import (
	"errors"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/anacrolix/torrent"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/alanbriolat/swarmkeeper/internal/engine"
	"github.com/alanbriolat/swarmkeeper/internal/sync_"
)

const DefaultSavePath = "downloads"

var (
	ErrDuplicateJob  = errors.New("duplicate job")
	ErrV2Unsupported = errors.New("v2-only jobs are not supported")
)

var Descriptors = []engine.SettingDescriptor{
	{Name: "save_path", Type: engine.SettingString},
	{Name: "user_agent", Type: engine.SettingString},
	{Name: "listen_interfaces", Type: engine.SettingString},
	{Name: "enable_dht", Type: engine.SettingBool},
	{Name: "enable_lsd", Type: engine.SettingBool},
	{Name: "enable_pex", Type: engine.SettingBool},
	{Name: "seed", Type: engine.SettingBool},
	{Name: "connections_limit", Type: engine.SettingInt},
	{Name: "choking_algorithm", Type: engine.SettingInt},
	{Name: "alert_mask", Type: engine.SettingInt},
	{Name: "upload_rate_limit", Type: engine.SettingInt},
	{Name: "download_rate_limit", Type: engine.SettingInt},
}

const (
	metricSentPayload = iota
	metricRecvPayload
	metricSent
	metricRecv
	metricDownloading
	metricSeeding
	metricPeers
)

var Metrics = []engine.StatsMetric{
	{Name: "net.sent_payload_bytes", Index: metricSentPayload, Type: engine.MetricCounter},
	{Name: "net.recv_payload_bytes", Index: metricRecvPayload, Type: engine.MetricCounter},
	{Name: "net.sent_bytes", Index: metricSent, Type: engine.MetricCounter},
	{Name: "net.recv_bytes", Index: metricRecv, Type: engine.MetricCounter},
	{Name: "ses.num_downloading_torrents", Index: metricDownloading, Type: engine.MetricGauge},
	{Name: "ses.num_seeding_torrents", Index: metricSeeding, Type: engine.MetricGauge},
	{Name: "peer.num_peers_connected", Index: metricPeers, Type: engine.MetricGauge},
}

type Factory struct{}

func NewFactory() *Factory {
	return &Factory{}
}

func (f *Factory) SettingDescriptors() []engine.SettingDescriptor {
	return append([]engine.SettingDescriptor(nil), Descriptors...)
}

func (f *Factory) DefaultSessionParams() engine.SessionParams {
	settings := engine.NewSettingsPack()
	settings.SetString("save_path", DefaultSavePath)
	settings.SetString("user_agent", "swarmkeeper/1.0")
	settings.SetString("listen_interfaces", "0.0.0.0:42069")
	settings.SetBool("enable_dht", true)
	settings.SetBool("enable_pex", true)
	settings.SetBool("seed", true)
	settings.SetInt("connections_limit", 50)
	return engine.SessionParams{Settings: settings}
}

func (f *Factory) Create(params engine.SessionParams) (engine.Engine, error) {
	params.Settings = params.Settings.Clone()
	config, err := newClientConfig(params.Settings)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(config.DataDir, 0o755); err != nil {
		return nil, fmt.Errorf("create save path: %w", err)
	}
	client, err := torrent.NewClient(config)
	if err != nil {
		return nil, fmt.Errorf("create torrent client: %w", err)
	}
	e := &Engine{
		log:      zap.S().Named("engine.anacrolix"),
		client:   client,
		config:   config,
		params:   params,
		jobs:     make(map[engine.Identity]*Handle),
		busy:     make(map[engine.Identity]*sync_.Event),
		upload:   config.UploadRateLimiter,
		download: config.DownloadRateLimiter,
	}
	e.log.Infow("torrent client started", "save_path", config.DataDir, "port", config.ListenPort, "dht", !config.NoDHT)
	return e, nil
}

// newClientConfig maps session settings onto the library's client configuration.
func newClientConfig(settings engine.SettingsPack) (*torrent.ClientConfig, error) {
	config := torrent.NewDefaultClientConfig()
	config.DataDir = DefaultSavePath
	if v, ok := settings.GetString("save_path"); ok && v != "" {
		config.DataDir = v
	}
	if v, ok := settings.GetString("user_agent"); ok && v != "" {
		config.HTTPUserAgent = v
	}
	if v, ok := settings.GetString("listen_interfaces"); ok && v != "" {
		port, err := listenPort(v)
		if err != nil {
			return nil, fmt.Errorf("listen_interfaces: %w", err)
		}
		config.ListenPort = port
	}
	if v, ok := settings.GetBool("enable_dht"); ok {
		config.NoDHT = !v
	}
	if v, ok := settings.GetBool("enable_pex"); ok {
		config.DisablePEX = !v
	}
	if v, ok := settings.GetBool("seed"); ok {
		config.Seed = v
	}
	if v, ok := settings.GetInt("connections_limit"); ok && v > 0 {
		config.EstablishedConnsPerTorrent = v
	}
	up, _ := settings.GetInt("upload_rate_limit")
	down, _ := settings.GetInt("download_rate_limit")
	config.UploadRateLimiter = rate.NewLimiter(rateLimit(up), rateBurst(up))
	config.DownloadRateLimiter = rate.NewLimiter(rateLimit(down), rateBurst(down))
	return config, nil
}

// listenPort takes the port of the first entry of a comma separated list of host:port pairs.
func listenPort(interfaces string) (int, error) {
	first := strings.TrimSpace(strings.Split(interfaces, ",")[0])
	_, port, err := net.SplitHostPort(first)
	if err != nil {
		return 0, err
	}
	n, err := strconv.Atoi(port)
	if err != nil || n < 0 || n > 65535 {
		return 0, fmt.Errorf("invalid port %q", port)
	}
	return n, nil
}

// rateLimit treats zero or less as unlimited, in bytes per second.
func rateLimit(n int) rate.Limit {
	if n <= 0 {
		return rate.Inf
	}
	return rate.Limit(n)
}

// rateBurst must be at least one request chunk, or the client can never satisfy a wait.
func rateBurst(n int) int {
	return max(n, 1<<16)
}

// sessionSettings are the settings that only take effect when the client is created.
var sessionSettings = map[string]bool{
	"save_path":         true,
	"user_agent":        true,
	"listen_interfaces": true,
	"enable_dht":        true,
	"enable_pex":        true,
	"seed":              true,
	"connections_limit": true,
}

type Engine struct {
	mu       sync.Mutex
	log      *zap.SugaredLogger
	client   *torrent.Client
	config   *torrent.ClientConfig
	params   engine.SessionParams
	jobs     map[engine.Identity]*Handle
	// busy marks identities with an add or remove in flight.
	busy     map[engine.Identity]*sync_.Event
	order    []engine.Identity
	queue    []engine.Event
	upload   *rate.Limiter
	download *rate.Limiter
	adding   sync.WaitGroup
	paused   bool
	aborted  bool
}

func (e *Engine) emit(ev engine.Event) {
	e.queue = append(e.queue, ev)
}

func (e *Engine) AddAsync(params engine.AddParams) {
	params = params.Clone()
	e.adding.Add(1)
	go func() {
		defer e.adding.Done()
		h, err := e.add(params)
		e.mu.Lock()
		defer e.mu.Unlock()
		if err != nil {
			e.log.Debugw("add failed", "job", params.Identity(), "error", err)
			e.emit(engine.AddJobCompletedEvent{Params: params, Err: err})
			return
		}
		e.emit(engine.AddJobCompletedEvent{Handle: h, Params: params})
	}()
}

func (e *Engine) add(params engine.AddParams) (*Handle, error) {
	id := params.Identity()
	if id == "" {
		return nil, engine.ErrInvalidIdentity
	}
	if !params.InfoHashes.HasV1() {
		return nil, fmt.Errorf("%w: %s", ErrV2Unsupported, id)
	}
	done, h, err := e.reserve(id, params.Flags)
	if done == nil {
		return h, err
	}
	defer e.release(id, done)

	spec, store, err := newSpec(params, e.config.DataDir)
	if err != nil {
		return nil, err
	}
	t, _, err := e.client.AddTorrentSpec(spec)
	if err != nil {
		if store != nil {
			_ = store.Close()
		}
		return nil, fmt.Errorf("add torrent: %w", err)
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if params.SavePath == "" {
		params.SavePath = e.config.DataDir
	}
	h = newHandle(e, t, params, store)
	e.jobs[id] = h
	e.order = append(e.order, id)
	h.apply()
	go h.awaitInfo()
	e.log.Debugw("added job", "job", id, "name", params.Name, "save_path", params.SavePath)
	return h, nil
}

// reserve claims id for an add. While another add or a remove holds the claim it waits. If the job already exists the
// claim is not taken, and the existing handle (or ErrDuplicateJob) is returned with a nil done.
func (e *Engine) reserve(id engine.Identity, flags engine.Flags) (done *sync_.Event, existing *Handle, err error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	for {
		if e.aborted {
			return nil, nil, engine.ErrAborted
		}
		if h, ok := e.jobs[id]; ok {
			if flags.Has(engine.FlagDuplicateIsError) {
				return nil, nil, fmt.Errorf("%w: %s", ErrDuplicateJob, id)
			}
			return nil, h, nil
		}
		busy, ok := e.busy[id]
		if !ok {
			break
		}
		e.mu.Unlock()
		<-busy.Wait()
		e.mu.Lock()
	}
	done = sync_.NewEvent()
	e.busy[id] = done
	return done, nil, nil
}

func (e *Engine) release(id engine.Identity, done *sync_.Event) {
	e.mu.Lock()
	delete(e.busy, id)
	e.mu.Unlock()
	done.Set()
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

// Remove forgets the job at once. The torrent is dropped and files are deleted after the engine mutex is released,
// with the identity held busy so a concurrent add of the same job waits for the cleanup.
func (e *Engine) Remove(job engine.JobHandle, flags engine.RemoveFlags) {
	e.mu.Lock()
	id := job.Identity()
	h, ok := e.jobs[id]
	if !ok {
		e.mu.Unlock()
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
	var paths []string
	if flags&engine.RemoveDeleteFiles != 0 && h.t.Info() != nil {
		for _, f := range h.t.Files() {
			paths = append(paths, filepath.Join(h.params.SavePath, f.Path()))
		}
	}
	done := sync_.NewEvent()
	e.busy[id] = done
	e.emit(engine.JobRemovedEvent{ID: id})
	e.mu.Unlock()
	defer e.release(id, done)

	h.t.Drop()
	if h.store != nil {
		if err := h.store.Close(); err != nil {
			e.log.Warnw("close storage", "job", id, "error", err)
		}
	}
	for _, path := range paths {
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			e.log.Warnw("delete file", "job", id, "path", path, "error", err)
		}
	}
	e.log.Debugw("removed job", "job", id, "deleted_files", len(paths))
}

func (e *Engine) PostSessionStats() {
	stats := e.client.Stats()
	counters := make([]int64, len(Metrics))
	counters[metricSentPayload] = stats.BytesWrittenData.Int64()
	counters[metricRecvPayload] = stats.BytesReadData.Int64()
	counters[metricSent] = stats.BytesWritten.Int64()
	counters[metricRecv] = stats.BytesRead.Int64()

	e.mu.Lock()
	defer e.mu.Unlock()
	for _, h := range e.jobs {
		if h.finished {
			counters[metricSeeding]++
		} else {
			counters[metricDownloading]++
		}
		counters[metricPeers] += int64(h.t.Stats().ActivePeers)
	}
	e.emit(engine.StatsEvent{Time: time.Now(), Counters: counters})
}

// PostJobUpdates reports the status of every job whose status changed since the last call.
func (e *Engine) PostJobUpdates() {
	e.mu.Lock()
	defer e.mu.Unlock()
	now := time.Now()
	var statuses []engine.JobStatus
	for _, id := range e.order {
		h := e.jobs[id]
		h.update()
		status := h.status(now)
		if h.changed(status) {
			statuses = append(statuses, status)
		}
	}
	if len(statuses) > 0 {
		e.emit(engine.JobStatusBatchEvent{Statuses: statuses})
	}
}

func (e *Engine) PostDHTStats() {
	var stats engine.DHTStats
	for _, s := range e.client.DhtServers() {
		id := s.ID()
		if stats.NodeID == "" {
			stats.NodeID = fmt.Sprintf("%x", id[:])
			stats.LocalEndpoint = s.Addr().String()
		}
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	e.emit(engine.DHTStatsEvent{Stats: stats})
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
	e.paused = true
	for _, h := range e.jobs {
		h.apply()
	}
}

func (e *Engine) Resume() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.paused = false
	for _, h := range e.jobs {
		h.apply()
	}
}

func (e *Engine) IsPaused() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.paused
}

// ApplySettings changes rate limits immediately. Settings the client only reads at startup are kept, and take effect
// through the saved session state on the next start.
func (e *Engine) ApplySettings(pack engine.SettingsPack) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.aborted {
		return engine.ErrAborted
	}
	if v, ok := pack.GetString("listen_interfaces"); ok {
		if _, err := listenPort(v); err != nil {
			return fmt.Errorf("listen_interfaces: %w", err)
		}
	}
	if v, ok := pack.GetInt("upload_rate_limit"); ok {
		e.upload.SetLimit(rateLimit(v))
		e.upload.SetBurst(rateBurst(v))
	}
	if v, ok := pack.GetInt("download_rate_limit"); ok {
		e.download.SetLimit(rateLimit(v))
		e.download.SetBurst(rateBurst(v))
	}
	for _, name := range pack.Names() {
		if sessionSettings[name] {
			e.log.Infof("setting %q takes effect on restart", name)
		}
	}
	e.params.Settings.Merge(pack)
	return nil
}

// SessionState never includes DHT state, because the library keeps its routing table private.
func (e *Engine) SessionState(flags engine.SaveStateFlags) engine.SessionParams {
	e.mu.Lock()
	defer e.mu.Unlock()
	var params engine.SessionParams
	if flags.Has(engine.SaveSettings) {
		params.Settings = e.params.Settings.Clone()
	}
	return params
}

func (e *Engine) Abort() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.aborted {
		return
	}
	e.aborted = true
	go func() {
		e.adding.Wait()
		for _, err := range e.client.Close() {
			e.log.Warnw("close torrent client", "error", err)
		}
		e.log.Info("torrent client closed")
	}()
}

func (e *Engine) StatsMetrics() []engine.StatsMetric {
	return append([]engine.StatsMetric(nil), Metrics...)
}
