package engine

import (
	"testing"

	assert_ "github.com/stretchr/testify/assert"
)

func TestFlags(t *testing.T) {
	assert := assert_.New(t)

	assert.True(DefaultFlags.Has(FlagPaused))
	assert.True(DefaultFlags.Has(FlagAutoManaged | FlagNeedSaveResume))
	assert.False(DefaultFlags.Has(FlagSeedMode))

	f := FlagPaused | FlagSequentialDownload
	assert.Equal("paused|sequential_download", f.String())

	// Only the masked bits change
	f = f.WithMask(FlagUploadMode, FlagUploadMode|FlagPaused)
	assert.Equal(FlagUploadMode|FlagSequentialDownload, f)
}

func TestResumeFlags(t *testing.T) {
	assert := assert_.New(t)

	f := ResumeSaveInfoDict | ResumeIfDownloadProgress
	assert.True(f.Has(ResumeSaveInfoDict))
	assert.False(f.Has(ResumeIfMetadataChanged))
	assert.Equal("save_info_dict|if_download_progress", f.String())
	assert.Equal("", ResumeFlags(0).String())
}

func TestSaveStateFlags(t *testing.T) {
	assert := assert_.New(t)

	assert.True(SaveAll.Has(SaveSettings | SaveDHTState))
	assert.False(SaveSettings.Has(SaveDHTState))
}

func TestStorageMode(t *testing.T) {
	assert := assert_.New(t)

	m, err := ParseStorageMode("storage_mode_allocate")
	assert.NoError(err)
	assert.Equal(StorageModeAllocate, m)
	assert.Equal("storage_mode_allocate", m.String())

	_, err = ParseStorageMode("storage_mode_compact")
	assert.Error(err)
}

func TestSettingsPack(t *testing.T) {
	assert := assert_.New(t)

	var p SettingsPack
	p.SetString("user_agent", "swarmkeeper")
	p.SetInt("connections_limit", 200)
	p.SetBool("enable_dht", false)
	assert.Equal(3, p.Len())
	assert.Equal([]string{"connections_limit", "enable_dht", "user_agent"}, p.Names())

	v, ok := p.GetBool("enable_dht")
	assert.True(ok)
	assert.False(v)
	_, ok = p.GetInt("missing")
	assert.False(ok)

	c := p.Clone()
	c.SetInt("connections_limit", 50)
	n, _ := p.GetInt("connections_limit")
	assert.Equal(200, n)
}

func TestAddParams_Clone(t *testing.T) {
	assert := assert_.New(t)

	p := AddParams{InfoHashes: InfoHashes{V1: testV1}, Trackers: []string{"udp://a"}}
	c := p.Clone()
	c.Trackers[0] = "udp://b"
	assert.Equal("udp://a", p.Trackers[0])
	assert.Equal(Identity(testV1), c.Identity())
}
