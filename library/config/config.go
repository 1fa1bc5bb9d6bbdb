package config

import (
	"encoding/json"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/Astemirdum/library-borrow/pkg/auth"
	"github.com/Astemirdum/library-borrow/pkg/circuit_breaker"
	"github.com/Astemirdum/library-borrow/pkg/kafka"
	"github.com/Astemirdum/library-borrow/pkg/logger"
	"github.com/Astemirdum/library-borrow/pkg/postgres"
	"github.com/kelseyhightower/envconfig"
)

type HTTPServer struct {
	Host         string        `yaml:"host" envconfig:"LIBRARY_HTTP_HOST" default:"0.0.0.0"`
	Port         string        `yaml:"port" envconfig:"LIBRARY_HTTP_PORT" default:"8080"`
	ReadTimeout  time.Duration `yaml:"readTimeout" envconfig:"HTTP_READ" default:"10s"`
	WriteTimeout time.Duration `yaml:"writeTimeout" envconfig:"HTTP_WRITE" default:"10s"`
	RateLimit    float64       `yaml:"rateLimit" envconfig:"HTTP_RATE_LIMIT" default:"50"`
	CORSOrigins  []string      `yaml:"corsOrigins" envconfig:"HTTP_CORS_ORIGINS" default:"*"`
}

type Borrow struct {
	// MaxAttempts bounds retries of a transition aborted by a serialization conflict.
	MaxAttempts int           `envconfig:"BORROW_MAX_ATTEMPTS" default:"5"`
	RetryBase   time.Duration `envconfig:"BORROW_RETRY_BASE" default:"20ms"`
}

type Ledger struct {
	Schedule string `envconfig:"LEDGER_SCHEDULE" default:"@every 10m"`
}

type Config struct {
	Server   HTTPServer  `yaml:"server"`
	Database postgres.DB `yaml:"db"`
	Kafka    kafka.Config
	Breaker  circuit_breaker.Settings
	Auth     auth.Config
	Borrow   Borrow
	Ledger   Ledger
	Log      logger.Log `yaml:"log"`
}

var (
	once sync.Once
	cfg  *Config
)

// NewConfig reads config from environment.
func NewConfig(ops ...Option) *Config {
	once.Do(func() {
		var config Config
		err := envconfig.Process("", &config)
		if err != nil {
			log.Fatal("NewConfig ", err)
		}
		for _, op := range ops {
			op(&config)
		}
		cfg = &config
		printConfig(cfg)
	})

	return cfg
}

func printConfig(cfg *Config) {
	masked := *cfg
	masked.Database.Password = "***"
	masked.Auth.Secret = "***"
	jscfg, _ := json.MarshalIndent(masked, "", "	") //nolint:errcheck
	fmt.Println(string(jscfg))
}
