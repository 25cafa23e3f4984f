package main

import (
	"fmt"
	"os"
	"time"

	"github.com/urfave/cli/v2"
	"gopkg.in/yaml.v3"

	"github.com/alanbriolat/swarmkeeper/internal/engine"
	"github.com/alanbriolat/swarmkeeper/internal/engine/anacrolix"
	"github.com/alanbriolat/swarmkeeper/internal/engine/fake"
	"github.com/alanbriolat/swarmkeeper/internal/session"
	"github.com/alanbriolat/swarmkeeper/internal/settings"
)

const (
	engineAnacrolix = "anacrolix"
	engineFake      = "fake"
)

// options is the command line configuration. The YAML config file uses the same keys as the flags.
type options struct {
	StatePath string          `yaml:"state"`
	ResumeDir string          `yaml:"resume-dir"`
	JobDir    string          `yaml:"job-dir"`
	Engine    string          `yaml:"engine"`
	Interval  time.Duration   `yaml:"interval"`
	Settings  []settings.Pair `yaml:"settings"`
}

func defaultOptions() options {
	return options{
		StatePath: session.DefaultConfig.StatePath,
		ResumeDir: session.DefaultConfig.ResumeDir,
		JobDir:    session.DefaultConfig.JobDir,
		Engine:    engineAnacrolix,
		Interval:  session.DefaultConfig.PollInterval,
	}
}

func readOptionsFile(path string, o *options) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, o); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}
	return nil
}

// loadOptions starts from the defaults, applies the config file if any, then any flags that were set explicitly.
// Settings from --set are appended after the file's, so they win.
func loadOptions(c *cli.Context) (options, error) {
	o := defaultOptions()
	if path := c.String("config"); path != "" {
		if err := readOptionsFile(path, &o); err != nil {
			return o, err
		}
	}
	if c.IsSet("state") {
		o.StatePath = c.String("state")
	}
	if c.IsSet("resume-dir") {
		o.ResumeDir = c.String("resume-dir")
	}
	if c.IsSet("job-dir") {
		o.JobDir = c.String("job-dir")
	}
	if c.IsSet("engine") {
		o.Engine = c.String("engine")
	}
	if c.IsSet("interval") {
		o.Interval = c.Duration("interval")
	}
	pairs, err := parsePairs(c.StringSlice("set"))
	if err != nil {
		return o, err
	}
	o.Settings = append(o.Settings, pairs...)
	if o.Engine != engineAnacrolix && o.Engine != engineFake {
		return o, fmt.Errorf("unknown engine %q", o.Engine)
	}
	return o, nil
}

func (o options) factory() engine.Factory {
	if o.Engine == engineFake {
		f := fake.NewFactory()
		f.Step = fake.DefaultPieceLength
		return f
	}
	return anacrolix.NewFactory()
}

func (o options) sessionConfig() session.Config {
	config := session.DefaultConfig
	config.Factory = o.factory()
	config.Settings = o.Settings
	config.StatePath = o.StatePath
	config.ResumeDir = o.ResumeDir
	config.JobDir = o.JobDir
	config.PollInterval = o.Interval
	return config
}

func parsePairs(items []string) ([]settings.Pair, error) {
	pairs := make([]settings.Pair, 0, len(items))
	for _, item := range items {
		p, err := settings.ParsePair(item)
		if err != nil {
			return nil, err
		}
		pairs = append(pairs, p)
	}
	return pairs, nil
}
