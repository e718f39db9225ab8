package basedb

import (
	"fmt"
	"net"
	"os"
	"strconv"
	"time"

	"github.com/go-sql-driver/mysql"
	"gopkg.in/yaml.v3"

	"github.com/ido50/basedb/cache"
)

// Config holds the parameters for the database connection.
type Config struct {
	Driver   string            `yaml:"driver"`
	Host     string            `yaml:"host"`
	Port     int               `yaml:"port"`
	User     string            `yaml:"user"`
	Password string            `yaml:"password"`
	Database string            `yaml:"database"`
	Timeout  time.Duration     `yaml:"timeout"`
	Params   map[string]string `yaml:"params"`
}

// DefaultConfig returns the fixed configuration used by GetInstance when
// nothing else was registered with Configure.
func DefaultConfig() Config {
	return Config{
		Driver:   "mysql",
		Host:     "10.138.26.22",
		Port:     8360,
		User:     "root",
		Password: "123456",
		Database: "test",
	}
}

// Addr returns the host:port address of the server.
func (cfg Config) Addr() string {
	return net.JoinHostPort(cfg.Host, strconv.Itoa(cfg.Port))
}

// DSN formats the configuration as a go-sql-driver/mysql data source name.
func (cfg Config) DSN() string {
	mc := mysql.NewConfig()
	mc.User = cfg.User
	mc.Passwd = cfg.Password
	mc.Net = "tcp"
	mc.Addr = cfg.Addr()
	mc.DBName = cfg.Database
	if cfg.Timeout > 0 {
		mc.Timeout = cfg.Timeout
	}
	if len(cfg.Params) > 0 {
		mc.Params = make(map[string]string, len(cfg.Params))
		for k, v := range cfg.Params {
			mc.Params[k] = v
		}
	}
	return mc.FormatDSN()
}

// Settings is the layout of a settings file, holding the database and
// cache sections.
type Settings struct {
	Database Config       `yaml:"database"`
	Cache    cache.Config `yaml:"cache"`
}

// LoadSettings reads a YAML settings file. Sections and keys missing from
// the file keep the values of DefaultConfig and cache.DefaultConfig.
func LoadSettings(path string) (*Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed reading settings: %w", err)
	}

	settings := &Settings{
		Database: DefaultConfig(),
		Cache:    cache.DefaultConfig(),
	}
	if err := yaml.Unmarshal(data, settings); err != nil {
		return nil, fmt.Errorf("failed parsing settings %s: %w", path, err)
	}

	if settings.Database.Driver == "" {
		settings.Database.Driver = "mysql"
	}

	return settings, nil
}
