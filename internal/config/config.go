package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/bryanwahyu/mould-triage/internal/domain/triage"
)

type Config struct {
	Server struct {
		Port               int      `yaml:"port"`
		CORSAllowedOrigins []string `yaml:"corsAllowedOrigins"`
	} `yaml:"server"`

	Vision struct {
		Endpoint   string `yaml:"endpoint"`
		APIKey     string `yaml:"apiKey"`
		Deployment string `yaml:"deployment"`
		APIVersion string `yaml:"apiVersion"`
	} `yaml:"vision"`

	Queue struct {
		ConnectionString string            `yaml:"connectionString"`
		Names            triage.QueueNames `yaml:"names"`
	} `yaml:"queue"`

	Upload struct {
		Backend  string `yaml:"backend"` // local | minio
		Dir      string `yaml:"dir"`
		MaxBytes int64  `yaml:"maxBytes"`
	} `yaml:"upload"`

	Minio struct {
		Endpoint   string `yaml:"endpoint"`
		AccessKey  string `yaml:"accessKey"`
		SecretKey  string `yaml:"secretKey"`
		BucketName string `yaml:"bucketName"`
		Region     string `yaml:"region"`
		UseSSL     bool   `yaml:"useSSL"`
	} `yaml:"minio"`

	RateLimit struct {
		Capacity   int `yaml:"capacity"`
		RefillRate int `yaml:"refillRate"`
	} `yaml:"rateLimit"`
}

// Load reads .env (if any), then the YAML file at path (if any), then applies
// environment overrides and defaults. It does not validate; call Validate.
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, fs.ErrNotExist):
		case err != nil:
			return nil, err
		default:
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return nil, fmt.Errorf("parse %s: %w", path, err)
			}
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	cfg.applyDefaults()
	return &cfg, nil
}

func (c *Config) applyEnv() error {
	setString(&c.Vision.Endpoint, "ENDPOINT_URL")
	setString(&c.Vision.APIKey, "AZURE_OPENAI_API_KEY")
	setString(&c.Vision.Deployment, "DEPLOYMENT_NAME")
	setString(&c.Vision.APIVersion, "OPENAI_API_VERSION")

	// older deployments name it after Service Bus
	setString(&c.Queue.ConnectionString, "SERVICE_BUS_CONNECTION_STRING")
	setString(&c.Queue.ConnectionString, "QUEUE_CONNECTION_STRING")
	setString(&c.Queue.Names.Urgent, "URGENT_QUEUE_NAME")
	setString(&c.Queue.Names.Standard, "STANDARD_QUEUE_NAME")
	setString(&c.Queue.Names.NoMould, "NO_MOULD_QUEUE_NAME")

	setString(&c.Upload.Backend, "UPLOAD_BACKEND")
	setString(&c.Upload.Dir, "UPLOAD_FOLDER")

	setString(&c.Minio.Endpoint, "MINIO_ENDPOINT")
	setString(&c.Minio.AccessKey, "MINIO_ACCESS_KEY")
	setString(&c.Minio.SecretKey, "MINIO_SECRET_KEY")
	setString(&c.Minio.BucketName, "MINIO_BUCKET")
	setString(&c.Minio.Region, "MINIO_REGION")

	if v := os.Getenv("CORS_ALLOWED_ORIGINS"); v != "" {
		c.Server.CORSAllowedOrigins = nil
		for _, o := range strings.Split(v, ",") {
			if o = strings.TrimSpace(o); o != "" {
				c.Server.CORSAllowedOrigins = append(c.Server.CORSAllowedOrigins, o)
			}
		}
	}

	var errs []error
	errs = append(errs,
		setInt(&c.Server.Port, "PORT"),
		setInt(&c.RateLimit.Capacity, "RATE_LIMIT_CAPACITY"),
		setInt(&c.RateLimit.RefillRate, "RATE_LIMIT_REFILL"),
		setInt64(&c.Upload.MaxBytes, "UPLOAD_MAX_BYTES"),
		setBool(&c.Minio.UseSSL, "MINIO_USE_SSL"),
	)
	return errors.Join(errs...)
}

func (c *Config) applyDefaults() {
	if c.Server.Port == 0 {
		c.Server.Port = 8080
	}
	if c.Vision.Deployment == "" {
		c.Vision.Deployment = "gpt-4.1"
	}
	if c.Vision.APIVersion == "" {
		c.Vision.APIVersion = "2025-01-01-preview"
	}
	if c.Queue.Names.Urgent == "" {
		c.Queue.Names.Urgent = triage.DefaultQueueNames.Urgent
	}
	if c.Queue.Names.Standard == "" {
		c.Queue.Names.Standard = triage.DefaultQueueNames.Standard
	}
	if c.Queue.Names.NoMould == "" {
		c.Queue.Names.NoMould = triage.DefaultQueueNames.NoMould
	}
	if c.Upload.Backend == "" {
		c.Upload.Backend = "local"
	}
	if c.Upload.Dir == "" {
		c.Upload.Dir = "uploads"
	}
	if c.Upload.MaxBytes == 0 {
		c.Upload.MaxBytes = 16 << 20
	}
	if c.Minio.BucketName == "" {
		c.Minio.BucketName = "mould-uploads"
	}
	if c.RateLimit.Capacity == 0 {
		c.RateLimit.Capacity = 20
	}
	if c.RateLimit.RefillRate == 0 {
		c.RateLimit.RefillRate = 1
	}
}

// Validate fails fast on absent credentials rather than letting a request go
// out unauthenticated.
func (c *Config) Validate() error {
	var missing []string
	if strings.TrimSpace(c.Vision.Endpoint) == "" {
		missing = append(missing, "ENDPOINT_URL")
	}
	if strings.TrimSpace(c.Vision.APIKey) == "" {
		missing = append(missing, "AZURE_OPENAI_API_KEY")
	}
	if strings.TrimSpace(c.Queue.ConnectionString) == "" {
		missing = append(missing, "QUEUE_CONNECTION_STRING")
	}
	switch c.Upload.Backend {
	case "local":
	case "minio":
		if c.Minio.Endpoint == "" {
			missing = append(missing, "MINIO_ENDPOINT")
		}
		if c.Minio.AccessKey == "" || c.Minio.SecretKey == "" {
			missing = append(missing, "MINIO_ACCESS_KEY/MINIO_SECRET_KEY")
		}
	default:
		return fmt.Errorf("unknown upload backend %q (want local or minio)", c.Upload.Backend)
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: %s", triage.ErrMissingConfiguration, strings.Join(missing, ", "))
	}
	return nil
}

func setString(dst *string, key string) {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		*dst = v
	}
}

func setInt(dst *int, key string) error {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fmt.Errorf("%s: %w", key, err)
	}
	*dst = n
	return nil
}

func setInt64(dst *int64, key string) error {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return fmt.Errorf("%s: %w", key, err)
	}
	*dst = n
	return nil
}

func setBool(dst *bool, key string) error {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fmt.Errorf("%s: %w", key, err)
	}
	*dst = b
	return nil
}
