package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/r3labs/diff/v3"
	"github.com/urfave/cli/v2"
	"go.uber.org/zap"

	"github.com/alanbriolat/swarmkeeper/generic"
	"github.com/alanbriolat/swarmkeeper/internal/engine"
	"github.com/alanbriolat/swarmkeeper/internal/pubsub"
	"github.com/alanbriolat/swarmkeeper/internal/session"
)

// jobView is the part of a job's status worth reporting changes of.
type jobView struct {
	Name     string `diff:"name"`
	State    string `diff:"state"`
	Flags    string `diff:"flags"`
	Error    string `diff:"error"`
	Progress string `diff:"progress"`
	Peers    int32  `diff:"peers"`
	Seeds    int32  `diff:"seeds"`
	Finished bool   `diff:"finished"`
}

func viewOf(status engine.JobStatus) jobView {
	return jobView{
		Name:     status.Name,
		State:    status.State.String(),
		Flags:    status.Flags.String(),
		Error:    status.Error,
		Progress: fmt.Sprintf("%.1f%%", status.Progress*100),
		Peers:    status.NumPeers,
		Seeds:    status.NumSeeds,
		Finished: status.IsFinished,
	}
}

// statusDiffer remembers the last view of every job, to report what changed between snapshots.
type statusDiffer struct {
	last map[engine.Identity]jobView
}

func newStatusDiffer() *statusDiffer {
	return &statusDiffer{last: make(map[engine.Identity]jobView)}
}

// changes describes every field that changed since the previous call, sorted by job. Jobs seen for the first time
// report nothing; jobs no longer present are forgotten.
func (d *statusDiffer) changes(statuses map[engine.Identity]engine.JobStatus) ([]string, error) {
	var lines []string
	for id, status := range statuses {
		view := viewOf(status)
		prev, ok := d.last[id]
		d.last[id] = view
		if !ok {
			continue
		}
		changelog, err := diff.Diff(prev, view)
		if err != nil {
			return nil, err
		}
		for _, change := range changelog {
			lines = append(lines, fmt.Sprintf("%s: %s: %v -> %v", id, strings.Join(change.Path, "."), change.From, change.To))
		}
	}
	for id := range d.last {
		if _, ok := statuses[id]; !ok {
			delete(d.last, id)
		}
	}
	sort.Strings(lines)
	return lines, nil
}

// isJobFile skips directories and hidden files, which include partial fetches.
func isJobFile(path string, info os.FileInfo) bool {
	return info.Mode().IsRegular() && !strings.HasPrefix(filepath.Base(path), ".")
}

func addJobFile(s *session.Session, path string) {
	info, err := os.Stat(path)
	if err != nil || !isJobFile(path, info) {
		return
	}
	if id, err := s.AddJob(path, nil); err != nil {
		zap.S().Warnf("Skipping %s: %v", path, err)
	} else {
		zap.S().Debugf("Adding %s as %s", path, id)
	}
}

// How long a watched file must go without events before it is added.
const settleDelay = 500 * time.Millisecond

// jobWatch debounces watcher events, so a file being copied into the job directory is added once, after the copy.
type jobWatch struct {
	delay   time.Duration
	pending map[string]time.Time
	added   generic.Set[string]
}

func newJobWatch(delay time.Duration, added ...string) *jobWatch {
	return &jobWatch{delay: delay, pending: make(map[string]time.Time), added: generic.NewSet(added...)}
}

// touch notes activity on path. Files already added are ignored.
func (w *jobWatch) touch(path string, now time.Time) {
	if w.added.Contains(path) {
		return
	}
	w.pending[path] = now
}

// ready returns the paths that have settled by now, sorted, and marks them added.
func (w *jobWatch) ready(now time.Time) []string {
	var paths []string
	for path, last := range w.pending {
		if now.Sub(last) >= w.delay {
			paths = append(paths, path)
			delete(w.pending, path)
			w.added.Add(path)
		}
	}
	sort.Strings(paths)
	return paths
}

// reportFinished prints a line for every record received, until the subscription ends.
func reportFinished(w io.Writer, events pubsub.Receiver[session.LogEntry]) {
	for entry := range events.Receive() {
		fmt.Fprintf(w, "finished: %s\n", entry.Job)
	}
}

func runCommand(ctx context.Context, c *cli.Context) error {
	logger := zap.S()
	o, err := loadOptions(c)
	if err != nil {
		return err
	}
	s, err := openSession(ctx, o)
	if err != nil {
		return err
	}
	defer closeSession(s)

	events, err := s.SubscribeKinds(session.LogJobFinished)
	if err != nil {
		return err
	}
	defer events.Close()
	go reportFinished(c.App.Writer, events)

	entries, err := os.ReadDir(o.JobDir)
	if err != nil {
		return err
	}
	var existing []string
	for _, entry := range entries {
		path := filepath.Join(o.JobDir, entry.Name())
		addJobFile(s, path)
		existing = append(existing, path)
	}
	watch := newJobWatch(settleDelay, existing...)

	var fsEvents <-chan fsnotify.Event
	var fsErrors <-chan error
	if c.Bool("watch") {
		watcher, err := fsnotify.NewWatcher()
		if err != nil {
			return err
		}
		defer watcher.Close()
		if err := watcher.Add(o.JobDir); err != nil {
			return err
		}
		fsEvents, fsErrors = watcher.Events, watcher.Errors
		logger.Infof("Watching %s for new jobs", o.JobDir)
	}

	differ := newStatusDiffer()
	ticker := time.NewTicker(o.Interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			logger.Info("Exiting gracefully...")
			return nil
		case <-s.Done():
			return session.ErrSessionClosed
		case ev := <-fsEvents:
			if ev.Op&(fsnotify.Create|fsnotify.Write) != 0 {
				watch.touch(ev.Name, time.Now())
			}
		case err := <-fsErrors:
			logger.Warnf("watch failed: %v", err)
		case now := <-ticker.C:
			for _, path := range watch.ready(now) {
				addJobFile(s, path)
			}
			lines, err := differ.changes(s.JobStatuses())
			if err != nil {
				logger.Errorf("failed to diff job status: %v", err)
				continue
			}
			for _, line := range lines {
				logger.Debug(line)
			}
		}
	}
}
