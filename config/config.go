package config

import (
	"context"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
)

// Config holds the runtime configuration, populated from the environment.
type Config struct {
	Port        string `env:"PORT,default=8080"`
	AWSRegion   string `env:"AWS_REGION,default=us-east-1"`
	S3Bucket    string `env:"S3_BUCKET_NAME"`
	TablePrefix string `env:"TABLE_PREFIX"`

	SweepInterval time.Duration `env:"SWEEP_INTERVAL,default=15s"`
	CycleInterval time.Duration `env:"CYCLE_INTERVAL,default=24h"`
}

// Load reads the configuration from environment variables.
func Load(ctx context.Context) (Config, error) {
	cfg := Config{}
	if err := envconfig.Process(ctx, &cfg); err != nil {
		return Config{}, fmt.Errorf("parsing env vars: %w", err)
	}
	return cfg, nil
}
