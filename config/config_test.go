package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidate(t *testing.T) {
	cfg := Config{APIID: 12345, APIHash: "hash", BotToken: "token"}
	assert.NoError(t, cfg.Validate())

	assert.Error(t, Config{APIHash: "hash", BotToken: "token"}.Validate())
	assert.Error(t, Config{APIID: 12345, BotToken: "token"}.Validate())
	assert.Error(t, Config{APIID: 12345, APIHash: "hash"}.Validate())
}

func TestAllowedIDs(t *testing.T) {
	cfg := Config{AllowedUsers: "111, 222,junk,,333"}
	assert.Equal(t, []int64{111, 222, 333}, cfg.AllowedIDs())

	assert.Nil(t, Config{}.AllowedIDs())
}

func TestAdminIDsFallsBackToAllowed(t *testing.T) {
	cfg := Config{AllowedUsers: "111,222", AdminUsers: "333"}
	assert.Equal(t, []int64{333}, cfg.AdminIDs())

	cfg = Config{AllowedUsers: "111,222"}
	assert.Equal(t, []int64{111, 222}, cfg.AdminIDs())

	assert.Nil(t, Config{}.AdminIDs())
}

func TestGetReturnsDefaults(t *testing.T) {
	cfg := Get()
	assert.Equal(t, "/tmp/ytdl", cfg.TempDir)
	assert.Equal(t, 1800, cfg.MaxDuration)
	assert.Equal(t, int64(1500000000), cfg.MaxFileSize)
	assert.Equal(t, 1, cfg.MaxConcurrentDownloads)
}
