package boltdb

import (
	"os"
	"path/filepath"
	"testing"

	assert_ "github.com/stretchr/testify/assert"
	require_ "github.com/stretchr/testify/require"

	"github.com/alanbriolat/swarmkeeper/internal/engine"
)

func testParams() engine.SessionParams {
	p := engine.SessionParams{Settings: engine.NewSettingsPack(), DHTState: []byte("d1:id20:aaaaaaaaaaaaaaaaaaaae")}
	p.Settings.SetString("user_agent", "swarmkeeper")
	p.Settings.SetInt("connections_limit", 123)
	p.Settings.SetBool("enable_dht", true)
	return p
}

func TestLoad_Missing(t *testing.T) {
	assert := assert_.New(t)

	params, found, err := Load(filepath.Join(t.TempDir(), "nothing.db"), engine.SaveAll)
	assert.NoError(err)
	assert.False(found)
	assert.Equal(0, params.Settings.Len())
}

func TestSaveLoad(t *testing.T) {
	assert := assert_.New(t)
	path := filepath.Join(t.TempDir(), "session.db")

	require_.NoError(t, Save(path, testParams(), engine.SaveAll))
	params, found, err := Load(path, engine.SaveAll)
	require_.NoError(t, err)
	assert.True(found)
	assert.Equal(testParams().Settings, params.Settings)
	assert.Equal(testParams().DHTState, params.DHTState)

	// Loading only settings skips the DHT state
	params, _, err = Load(path, engine.SaveSettings)
	require_.NoError(t, err)
	assert.Nil(params.DHTState)
	assert.Equal(3, params.Settings.Len())
}

func TestSave_Partial(t *testing.T) {
	assert := assert_.New(t)
	path := filepath.Join(t.TempDir(), "session.db")

	require_.NoError(t, Save(path, testParams(), engine.SaveAll))

	// Saving only settings replaces them, and keeps the DHT state from before
	replacement := engine.SessionParams{Settings: engine.NewSettingsPack()}
	replacement.Settings.SetInt("connections_limit", 7)
	require_.NoError(t, Save(path, replacement, engine.SaveSettings))

	params, _, err := Load(path, engine.SaveAll)
	require_.NoError(t, err)
	assert.Equal(1, params.Settings.Len())
	n, _ := params.Settings.GetInt("connections_limit")
	assert.Equal(7, n)
	assert.Equal(testParams().DHTState, params.DHTState)
}

func TestLoad_Corrupt(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.db")
	require_.NoError(t, os.WriteFile(path, []byte("not a bolt database"), 0600))
	_, found, err := Load(path, engine.SaveAll)
	assert_.Error(t, err)
	assert_.False(t, found)
}
