package config

import (
	"errors"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

// Config defines the app configuration.
type Config struct {
	Server struct {
		Port int    `yaml:"port" env:"PORT" env-default:"4000"`
		Env  string `yaml:"env" env:"ENV" env-default:"development"`
	} `yaml:"server"`
	Database struct {
		URI            string        `yaml:"uri" env:"MONGODB_URI" env-default:"mongodb://localhost:27017"`
		Name           string        `yaml:"name" env:"MONGODB_DATABASE" env-default:"booklister"`
		ConnectTimeout time.Duration `yaml:"connect_timeout" env:"MONGODB_CONNECT_TIMEOUT" env-default:"10s"`
	} `yaml:"database"`
	JWT struct {
		Secret string        `yaml:"secret" env:"JWT_SECRET"`
		Expiry time.Duration `yaml:"expiry" env:"JWT_EXPIRY" env-default:"168h"`
	} `yaml:"jwt"`
	Auth struct {
		// RequireAuthForMutations controls whether catalog mutations
		// (createBook, updateBook, deleteBook, rateBook) demand an
		// authenticated identity. Queries are always public.
		RequireAuthForMutations bool `yaml:"require_auth_for_mutations" env:"REQUIRE_AUTH_FOR_MUTATIONS" env-default:"false"`
	} `yaml:"auth"`
	S3 struct {
		AccessKeyID     string `yaml:"access_key_id" env:"AWSACCESSKEYID"`
		SecretAccessKey string `yaml:"secret_access_key" env:"AWSSECRETACCESSKEY"`
		Region          string `yaml:"region" env:"AWSS3REGION"`
		Bucket          string `yaml:"bucket" env:"AWSS3BUCKET"`
	} `yaml:"s3"`
	Limiter struct {
		RPS     float64 `yaml:"rps" env:"LIMITER_RPS" env-default:"4"`
		Burst   int     `yaml:"burst" env:"LIMITER_BURST" env-default:"8"`
		Enabled bool    `yaml:"enabled" env:"LIMITER_ENABLED" env-default:"true"`
	} `yaml:"limiter"`
	Cors struct {
		TrustedOrigins []string `yaml:"trusted_origins" env:"CORS_TRUSTED_ORIGINS"`
	} `yaml:"cors"`
	Metrics struct {
		Enabled bool `yaml:"enabled" env:"METRICS_ENABLED" env-default:"false"`
	} `yaml:"metrics"`
	BasicAuth struct {
		Username string `yaml:"username" env:"BASICAUTH_USERNAME"`
		Password string `yaml:"password" env:"BASICAUTH_PASSWORD"`
	} `yaml:"basic_auth"`
}

// Decode reads the app configuration from the environment. A .env file in the
// working directory is loaded first if one exists, so local development does
// not need to export variables manually.
func Decode() (Config, error) {
	var cfg Config
	if _, err := os.Stat(".env"); err == nil {
		if err := godotenv.Load(); err != nil {
			return cfg, err
		}
	}
	err := cleanenv.ReadEnv(&cfg)
	if err != nil {
		return cfg, err
	}
	if cfg.JWT.Secret == "" {
		return cfg, errors.New("config: JWT_SECRET must be set")
	}
	return cfg, nil
}
