package config

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/ilyakaznacheev/cleanenv"
)

const defaultConfigPath = "./config/local.yaml"

type Config struct {
	Env        string `yaml:"env" env:"ENV" env-default:"prod"`
	HTTPServer `yaml:"http_server"`
	DB         `yaml:"db"`

	AdminLogin string `yaml:"admin_login" env:"ADMIN_LOGIN"`
	AdminPass  string `yaml:"admin_pass" env:"ADMIN_PASS"`

	Budget   Budget   `yaml:"budget"`
	Lookup   Lookup   `yaml:"lookup"`
	Autosave Autosave `yaml:"autosave"`
	History  History  `yaml:"history"`
	Images   Images   `yaml:"images"`
}

type HTTPServer struct {
	Address        string        `yaml:"address" env:"HTTP_ADDRESS" env-default:"localhost:4001"`
	Timeout        time.Duration `yaml:"timeout" env-default:"4s"`
	IdleTimeout    time.Duration `yaml:"idle_timeout" env-default:"60s"`
	ExportTimeout  time.Duration `yaml:"export_timeout" env-default:"20s"`
	AllowedOrigins []string      `yaml:"allowed_origins" env-default:"http://localhost:5173"`
}

type DB struct {
	User      string `yaml:"user" env:"DB_USER" env-required:"true"`
	Password  string `yaml:"password" env:"DB_PASSWORD"`
	Host      string `yaml:"host" env:"DB_HOST" env-default:"localhost"`
	Port      int    `yaml:"port" env:"DB_PORT" env-default:"3306"`
	Name      string `yaml:"name" env:"DB_NAME" env-required:"true"`
	ParseTime bool   `yaml:"parse_time" env-default:"true"`
}

// DSN builds the go-sql-driver connection string.
func (d DB) DSN() string {
	c := mysql.NewConfig()
	c.User = d.User
	c.Passwd = d.Password
	c.Net = "tcp"
	c.Addr = fmt.Sprintf("%s:%d", d.Host, d.Port)
	c.DBName = d.Name
	c.ParseTime = d.ParseTime
	return c.FormatDSN()
}

type Budget struct {
	// Policy is tax_inclusive or flat_total.
	Policy  string  `yaml:"policy" env:"BUDGET_POLICY" env-default:"tax_inclusive"`
	TaxRate float64 `yaml:"tax_rate" env-default:"0.18"`
}

type Lookup struct {
	BaseURL string        `yaml:"base_url" env-default:"https://api.apis.net.pe"`
	Token   string        `yaml:"token" env:"LOOKUP_TOKEN"`
	Timeout time.Duration `yaml:"timeout" env-default:"10s"`
}

type Autosave struct {
	Schedule string        `yaml:"schedule" env-default:"@every 30s"`
	Timeout  time.Duration `yaml:"timeout" env-default:"5s"`
}

type History struct {
	Limit int `yaml:"limit" env-default:"50"`
}

type Images struct {
	MaxBytes int64 `yaml:"max_bytes" env-default:"5242880"`
	MaxCount int   `yaml:"max_count" env-default:"20"`
}

func MustConfig() *Config {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = defaultConfigPath
	}

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		log.Fatalf("config file does not exist: %s", configPath)
	}

	var cfg Config
	if err := cleanenv.ReadConfig(configPath, &cfg); err != nil {
		log.Fatalf("cannot read config: %s", err)
	}

	return &cfg
}
