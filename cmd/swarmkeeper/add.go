package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/hashicorp/go-multierror"
	"github.com/schollz/progressbar/v3"
	"github.com/urfave/cli/v2"
	"go.uber.org/zap"

	"github.com/alanbriolat/swarmkeeper/internal/engine"
	"github.com/alanbriolat/swarmkeeper/internal/pubsub"
	"github.com/alanbriolat/swarmkeeper/internal/session"
	"github.com/alanbriolat/swarmkeeper/internal/settings"
	"github.com/alanbriolat/swarmkeeper/util"
)

const fetchTimeout = time.Minute

func openSession(ctx context.Context, o options) (*session.Session, error) {
	if o.Interval <= 0 {
		return nil, fmt.Errorf("interval must be positive, got %v", o.Interval)
	}
	return session.New(o.sessionConfig(), ctx)
}

func closeSession(s *session.Session) {
	if err := s.Close(); err != nil {
		zap.S().Warnf("failed to close session cleanly: %v", err)
	}
}

// addSource adds a magnet link, a remote job file (fetched into the job directory first) or a local job file.
func addSource(ctx context.Context, s *session.Session, source string, overrides []settings.Pair) (engine.Identity, error) {
	switch {
	case strings.HasPrefix(source, "magnet:"):
		return s.AddJobByURI(source, overrides)
	case util.IsRemote(source):
		ctx, cancel := context.WithTimeout(ctx, fetchTimeout)
		defer cancel()
		config := s.Config()
		path, err := util.Fetch(ctx, http.DefaultClient, source, config.JobDir, config.ResumeSizeLimit)
		if err != nil {
			return "", err
		}
		zap.S().Infof("Fetched %s into %s", source, path)
		return s.AddJob(path, overrides)
	default:
		return s.AddJob(source, overrides)
	}
}

// awaitAdded blocks until every job has been accepted or rejected by the engine.
func awaitAdded(ctx context.Context, events pubsub.Receiver[session.LogEntry], ids []engine.Identity) error {
	pending := make(map[engine.Identity]bool, len(ids))
	for _, id := range ids {
		pending[id] = true
	}
	var result error
	for len(pending) > 0 {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case entry, ok := <-events.Receive():
			if !ok {
				return session.ErrSessionClosed
			}
			if !pending[entry.Job] {
				continue
			}
			switch entry.Kind {
			case session.LogJobAdded:
				delete(pending, entry.Job)
			case session.LogAddFailed:
				delete(pending, entry.Job)
				result = multierror.Append(result, errors.New(entry.Message))
			}
		}
	}
	return result
}

// waitFinished shows a progress bar for the job until it finishes.
func waitFinished(ctx context.Context, s *session.Session, id engine.Identity) error {
	bar := progressbar.DefaultBytes(-1, id.String()[:8])
	defer bar.Finish()
	ticker := time.NewTicker(s.Config().PollInterval)
	defer ticker.Stop()
	for {
		status, err := s.JobStatus(id.String())
		if err != nil {
			return err
		}
		if st, ok := status.Get(); ok {
			if st.Name != "" {
				bar.Describe(st.Name)
			}
			if st.Total > 0 && bar.GetMax64() != st.Total {
				bar.ChangeMax64(st.Total)
			}
			_ = bar.Set64(st.TotalDone)
			if st.IsFinished {
				return nil
			}
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

func addCommand(ctx context.Context, c *cli.Context) error {
	logger := zap.S()
	if c.NArg() == 0 {
		return errors.New("nothing to add")
	}
	o, err := loadOptions(c)
	if err != nil {
		return err
	}
	overrides, err := parsePairs(c.StringSlice("opt"))
	if err != nil {
		return err
	}
	s, err := openSession(ctx, o)
	if err != nil {
		return err
	}
	defer closeSession(s)

	events, err := s.SubscribeKinds(session.LogJobAdded, session.LogAddFailed)
	if err != nil {
		return err
	}
	defer events.Close()

	var ids []engine.Identity
	for _, source := range c.Args().Slice() {
		id, err := addSource(ctx, s, source, overrides)
		if err != nil {
			return fmt.Errorf("%s: %w", source, err)
		}
		logger.Infof("Adding %s as %s", source, id)
		ids = append(ids, id)
	}
	if err := awaitAdded(ctx, events, ids); err != nil {
		return err
	}
	if !c.Bool("wait") {
		return nil
	}
	for _, id := range ids {
		if err := waitFinished(ctx, s, id); err != nil {
			return fmt.Errorf("%s: %w", id, err)
		}
	}
	logger.Info("All jobs finished")
	return nil
}
