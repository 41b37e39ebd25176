// Package config loads server and pilot settings through viper. Defaults are
// always present; a skyships.yaml in the config directory and SKYSHIPS_*
// environment variables override them.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const (
	fileName  = "skyships"
	envPrefix = "SKYSHIPS"
)

// ServerConfig is the typed view of the server settings.
type ServerConfig struct {
	Name        string
	Port        uint
	TickRate    int
	Version     string
	WorldMap    string
	LootTables  string
	LootSeed    uint64
	DataApp     string
	SaveEvery   time.Duration
	LogLevel    string
	MaxPilots   int
	EntityDrops bool
}

// ShipConfig holds the spawn parameters of ships.
type ShipConfig struct {
	Width        float64
	Height       float64
	NoGravity    bool
	Invulnerable bool
}

// ClientConfig is the typed view of the pilot client settings.
type ClientConfig struct {
	Address   string
	PilotName string
	Version   string
	WorldMap  string
	LogLevel  string
}

func setDefaults() {
	viper.SetDefault("logLevel", "info")

	viper.SetDefault("server.name", "Skyships Server")
	viper.SetDefault("server.port", 7373)
	viper.SetDefault("server.tickRate", 20)
	viper.SetDefault("server.version", "")
	viper.SetDefault("server.worldMap", "assets/worlds/harbor.tmx")
	viper.SetDefault("server.lootTables", "assets/loot/tables.yaml")
	viper.SetDefault("server.lootSeed", 1)
	viper.SetDefault("server.dataApp", "skyships")
	viper.SetDefault("server.saveEvery", "30s")
	viper.SetDefault("server.maxPilots", 16)

	viper.SetDefault("rules.entityDrops", true)

	viper.SetDefault("ship.width", 1.375)
	viper.SetDefault("ship.height", 0.5625)
	viper.SetDefault("ship.noGravity", false)
	viper.SetDefault("ship.invulnerable", false)

	viper.SetDefault("client.address", "localhost:7373")
	viper.SetDefault("client.pilotName", "pilot")
	viper.SetDefault("client.worldMap", "assets/worlds/harbor.tmx")
}

// Load installs the defaults and reads skyships.yaml from configDir. An empty
// configDir skips the file and uses defaults plus environment only.
func Load(configDir string) error {
	setDefaults()

	viper.SetEnvPrefix(envPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if configDir == "" {
		return nil
	}

	viper.SetConfigName(fileName)
	viper.AddConfigPath(configDir)
	viper.SetConfigType("yaml")

	if err := viper.ReadInConfig(); err != nil {
		return fmt.Errorf("error reading config file: %v", err)
	}
	return nil
}

// Server returns the current server settings.
func Server() ServerConfig {
	return ServerConfig{
		Name:        viper.GetString("server.name"),
		Port:        viper.GetUint("server.port"),
		TickRate:    viper.GetInt("server.tickRate"),
		Version:     viper.GetString("server.version"),
		WorldMap:    viper.GetString("server.worldMap"),
		LootTables:  viper.GetString("server.lootTables"),
		LootSeed:    viper.GetUint64("server.lootSeed"),
		DataApp:     viper.GetString("server.dataApp"),
		SaveEvery:   viper.GetDuration("server.saveEvery"),
		LogLevel:    viper.GetString("logLevel"),
		MaxPilots:   viper.GetInt("server.maxPilots"),
		EntityDrops: viper.GetBool("rules.entityDrops"),
	}
}

// Ship returns the ship spawn settings.
func Ship() ShipConfig {
	return ShipConfig{
		Width:        viper.GetFloat64("ship.width"),
		Height:       viper.GetFloat64("ship.height"),
		NoGravity:    viper.GetBool("ship.noGravity"),
		Invulnerable: viper.GetBool("ship.invulnerable"),
	}
}

// Client returns the pilot client settings.
func Client() ClientConfig {
	return ClientConfig{
		Address:   viper.GetString("client.address"),
		PilotName: viper.GetString("client.pilotName"),
		Version:   viper.GetString("server.version"),
		WorldMap:  viper.GetString("client.worldMap"),
		LogLevel:  viper.GetString("logLevel"),
	}
}
