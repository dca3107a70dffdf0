package config

import (
	"log"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

type Config struct {
	Env         string      `yaml:"env" env-default:"local"`
	HTTPServer  HTTPServer  `yaml:"http_server"`
	Postgres    Postgres    `yaml:"postgres"`
	JWT         JWT         `yaml:"jwt"`
	ES          ES          `yaml:"elasticsearch"`
	Minio       Minio       `yaml:"minio"`
	Certificate Certificate `yaml:"certificate"`
}

type HTTPServer struct {
	Address     string        `yaml:"address" env-default:"localhost:8080"`
	Timeout     time.Duration `yaml:"timeout" env-default:"5s"`
	IdleTimeout time.Duration `yaml:"idle_timeout" env-default:"60s"`
}

type Postgres struct {
	Host     string `yaml:"host"`
	Port     string `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	DBName   string `yaml:"dbname"`
}

type JWT struct {
	SecretKey string        `yaml:"secret_key"`
	AccessTTL time.Duration `yaml:"access_token_ttl" env-default:"15m"`
}

type ES struct {
	Hosts    []string `yaml:"hosts"`
	Index    string   `yaml:"index" env-default:"courses"`
	Password string   `yaml:"password"`
}

type Minio struct {
	Endpoint          string `yaml:"endpoint" env-default:"minio:9000"`
	AccessKey         string `yaml:"access_key"`
	SecretKey         string `yaml:"secret_key"`
	UseSSL            bool   `yaml:"use_ssl"`
	CertificateBucket string `yaml:"certificate_bucket" env-default:"certificates"`
}

type Certificate struct {
	TempDir       string        `yaml:"temp_dir"`
	RenderTimeout time.Duration `yaml:"render_timeout" env-default:"30s"`
}

func MustLoad() *Config {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		log.Fatal("CONFIG_PATH is not set")
	}

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		log.Fatalf("Config file not exist: %s", configPath)
	}

	var cfg Config

	if err := cleanenv.ReadConfig(configPath, &cfg); err != nil {
		log.Fatalf("Can not read config file %s", err)
	}

	return &cfg
}
