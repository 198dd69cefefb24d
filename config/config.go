/*
 * Copyright 2025 tomoncle.
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

// Package config loads the server configuration from a YAML file.
package config

import (
	"fmt"
	"os"

	"github.com/tomoncle/rostersearch/database"
	"github.com/tomoncle/rostersearch/utils"
	"gopkg.in/yaml.v3"
)

// Config is the whole runtime configuration tree.
type Config struct {
	Server   ServerConfig    `yaml:"server"`
	Log      LogConfig       `yaml:"log"`
	Database database.Config `yaml:"database"`
}

// ServerConfig holds HTTP listener settings.
type ServerConfig struct {
	Addr string `yaml:"addr"`
	Mode string `yaml:"mode"` // gin mode: debug, release, test
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"` // text or json
}

// Default returns the configuration used when no file is given: an in-memory
// SQLite database with tables bootstrapped and seed data stored.
func Default() *Config {
	db := database.DefaultConfig()
	db.ConnectionConfig.Type = "sqlite"
	db.ConnectionConfig.DBName = database.SQLiteMemory
	db.DataInitConfig.AutoInitOnStartup = true
	return &Config{
		Server:   ServerConfig{Addr: ":8080", Mode: "release"},
		Log:      LogConfig{Level: "info", Format: "text"},
		Database: *db,
	}
}

// Load reads path over the defaults and applies environment overrides. An
// empty path yields the defaults with overrides.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	}
	cfg.applyEnv()
	return cfg, nil
}

func (c *Config) applyEnv() {
	c.Server.Addr = utils.EnvDefaultString("SERVER_ADDR", c.Server.Addr)
	c.Server.Mode = utils.EnvDefaultString("GIN_MODE", c.Server.Mode)
	c.Log.Level = utils.EnvDefaultString("LOG_LEVEL", c.Log.Level)
	c.Log.Format = utils.EnvDefaultString("CONSOLE_LOG_FORMAT", c.Log.Format)
	c.Database.DataInitConfig.AutoInitOnStartup = utils.EnvDefaultBool("SEED_ON_STARTUP", c.Database.DataInitConfig.AutoInitOnStartup)
}

// ConfigLoader returns the database section, so a *Config can be handed to
// database.InitDB.
func (c *Config) ConfigLoader() *database.Config {
	return &c.Database
}
