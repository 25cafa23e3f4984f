package session

import (
	"fmt"
	"os"

	"github.com/alanbriolat/swarmkeeper/internal/engine"
	"github.com/alanbriolat/swarmkeeper/internal/settings"
)

// AddJob parses the job file at path and submits it. The result of the add is only known later, through the
// lifecycle log.
func (s *Session) AddJob(path string, overrides []settings.Pair) (engine.Identity, error) {
	if err := settings.ValidateOverrides(overrides); err != nil {
		return "", err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read job file: %w", err)
	}
	params, err := s.engine.ParseJobFile(data)
	if err != nil {
		return "", fmt.Errorf("parse job file %s: %w", path, err)
	}
	return s.submit(params, overrides)
}

// AddJobByURI parses uri (a magnet link) and submits it.
func (s *Session) AddJobByURI(uri string, overrides []settings.Pair) (engine.Identity, error) {
	if err := settings.ValidateOverrides(overrides); err != nil {
		return "", err
	}
	params, err := s.engine.ParseURI(uri)
	if err != nil {
		return "", fmt.Errorf("parse URI: %w", err)
	}
	return s.submit(params, overrides)
}

// submit prefers a stored resume record over freshly parsed params, then applies overrides on top of whichever was
// chosen.
func (s *Session) submit(params engine.AddParams, overrides []settings.Pair) (engine.Identity, error) {
	if s.closed.IsSet() {
		return "", ErrSessionClosed
	}
	id := params.Identity()
	if id != "" {
		params = s.loadResume(id, params)
	}
	if err := settings.ApplyOverrides(&params, overrides); err != nil {
		return "", err
	}
	s.log.Debugw("submitting job", "job", id, "name", params.Name, "save_path", params.SavePath)
	s.engine.AddAsync(params)
	return id, nil
}

func (s *Session) loadResume(id engine.Identity, fresh engine.AddParams) engine.AddParams {
	data, ok, err := s.resumes.Read(id)
	if err != nil {
		s.record(LogResumeLoadFailed, id, fmt.Sprintf("ignoring resume file: %v", err))
		return fresh
	} else if !ok {
		return fresh
	}
	resumed, err := s.engine.ReadResumeData(data)
	if err != nil {
		s.record(LogResumeLoadFailed, id, fmt.Sprintf("ignoring resume file: %v", err))
		return fresh
	}
	s.log.Debugw("using resume data", "job", id, "bytes", len(data))
	return resumed
}
