package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_WithValidConfigFile(t *testing.T) {
	t.Cleanup(viper.Reset)

	dir := t.TempDir()
	cfg := `
logLevel: debug
server:
  name: Harbor
  port: 9000
  tickRate: 30
  saveEvery: 1m
rules:
  entityDrops: false
ship:
  invulnerable: true
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "skyships.yaml"), []byte(cfg), 0644))

	require.NoError(t, Load(dir))

	s := Server()
	assert.Equal(t, "Harbor", s.Name)
	assert.Equal(t, uint(9000), s.Port)
	assert.Equal(t, 30, s.TickRate)
	assert.Equal(t, time.Minute, s.SaveEvery)
	assert.Equal(t, "debug", s.LogLevel)
	assert.False(t, s.EntityDrops)
	assert.True(t, Ship().Invulnerable)
	assert.Equal(t, 1.375, Ship().Width, "unset keys keep their defaults")
}

func TestLoad_DefaultValues(t *testing.T) {
	t.Cleanup(viper.Reset)

	require.NoError(t, Load(""))

	s := Server()
	assert.Equal(t, "Skyships Server", s.Name)
	assert.Equal(t, uint(7373), s.Port)
	assert.Equal(t, 20, s.TickRate)
	assert.Equal(t, "", s.Version)
	assert.Equal(t, "assets/worlds/harbor.tmx", s.WorldMap)
	assert.Equal(t, "assets/loot/tables.yaml", s.LootTables)
	assert.Equal(t, uint64(1), s.LootSeed)
	assert.Equal(t, "skyships", s.DataApp)
	assert.Equal(t, 30*time.Second, s.SaveEvery)
	assert.Equal(t, "info", s.LogLevel)
	assert.Equal(t, 16, s.MaxPilots)
	assert.True(t, s.EntityDrops)

	ship := Ship()
	assert.Equal(t, 1.375, ship.Width)
	assert.Equal(t, 0.5625, ship.Height)
	assert.False(t, ship.NoGravity)

	c := Client()
	assert.Equal(t, "localhost:7373", c.Address)
	assert.Equal(t, "pilot", c.PilotName)
}

func TestLoad_EnvironmentOverrides(t *testing.T) {
	t.Cleanup(viper.Reset)
	t.Setenv("SKYSHIPS_SERVER_TICKRATE", "40")
	t.Setenv("SKYSHIPS_CLIENT_ADDRESS", "sky.example:7000")

	require.NoError(t, Load(""))

	assert.Equal(t, 40, Server().TickRate)
	assert.Equal(t, "sky.example:7000", Client().Address)
}

func TestLoad_MissingFile(t *testing.T) {
	t.Cleanup(viper.Reset)

	err := Load("/nonexistent/path")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "error reading config file")
}
