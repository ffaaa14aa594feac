package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/weiawesome/wes-image-enhancer/pkg/cloud"
	pkgconfig "github.com/weiawesome/wes-image-enhancer/pkg/config"
	"github.com/weiawesome/wes-image-enhancer/pkg/database"
	pkglog "github.com/weiawesome/wes-image-enhancer/pkg/log"
	"github.com/weiawesome/wes-image-enhancer/pkg/storage"
)

// ErrMissingConfig is returned when a required setting is absent.
var ErrMissingConfig = errors.New("missing required configuration")

const (
	MetadataDriverDynamoDB = "dynamodb"
	MetadataDriverSQL      = "sql"

	NotifyDriverSNS   = "sns"
	NotifyDriverKafka = "kafka"
	NotifyDriverNone  = "none"

	StorageTypeS3    = "s3"
	StorageTypeLocal = "local"
)

// StorageConfig mirrors the nested structure used by other services.
type StorageConfig struct {
	Type  string              `mapstructure:"type"`
	S3    storage.S3Config    `mapstructure:"s3"`
	Local storage.LocalConfig `mapstructure:"local"`
}

type Config struct {
	Log       pkglog.Config   `mapstructure:"log"`
	AWS       cloud.AWSConfig `mapstructure:"aws"`
	Storage   StorageConfig   `mapstructure:"storage"`
	Metadata  MetadataConfig  `mapstructure:"metadata"`
	Notify    NotifyConfig    `mapstructure:"notify"`
	Enhancer  EnhancerConfig  `mapstructure:"enhancer"`
	Kafka     KafkaConfig     `mapstructure:"kafka"`
	Processor ProcessorConfig `mapstructure:"processor"`
	Database  database.Config `mapstructure:"database"`
	Redis     RedisConfig     `mapstructure:"redis"`
	Cache     CacheConfig     `mapstructure:"cache"`
	Server    ServerConfig    `mapstructure:"server"`
	Metrics   MetricsConfig   `mapstructure:"metrics"`
}

// MetadataConfig selects where outcome and image metadata records live.
type MetadataConfig struct {
	Driver         string `mapstructure:"driver"`
	TableName      string `mapstructure:"table_name"`
	ImageTableName string `mapstructure:"image_table_name"`
}

type NotifyConfig struct {
	Driver      string `mapstructure:"driver"`
	SNSTopicARN string `mapstructure:"sns_topic_arn"`
}

type EnhancerConfig struct {
	TargetBucket   string `mapstructure:"target_bucket"`
	EnhancedPrefix string `mapstructure:"enhanced_prefix"`
	TempDir        string `mapstructure:"temp_dir"`
}

type KafkaConfig struct {
	Brokers         string `mapstructure:"brokers"`
	ConsumerTopic   string `mapstructure:"consumer_topic"`
	ConsumerGroupID string `mapstructure:"consumer_group_id"`
	ProducerTopic   string `mapstructure:"producer_topic"`
}

// ProcessorConfig filters stream notifications before they reach the dispatcher.
type ProcessorConfig struct {
	BucketFilter     string   `mapstructure:"bucket_filter"`
	EventNameFilters []string `mapstructure:"event_name_filters"`
}

type RedisConfig struct {
	Address  string `mapstructure:"address"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

type CacheConfig struct {
	Enabled bool          `mapstructure:"enabled"`
	Prefix  string        `mapstructure:"prefix"`
	TTL     time.Duration `mapstructure:"ttl"`
}

type ServerConfig struct {
	Host string `mapstructure:"host"`
	Port string `mapstructure:"port"`
}

type MetricsConfig struct {
	Address string `mapstructure:"address"`
}

// Load reads config/config.yaml (optional), .env (optional) and the environment.
func Load() (*Config, error) {
	v, err := pkgconfig.Load("./config", "config")
	if err != nil {
		return nil, err
	}

	// Defaults
	v.SetDefault("log.level", "info")
	v.SetDefault("aws.region", "us-east-1")
	v.SetDefault("storage.type", StorageTypeS3)
	v.SetDefault("storage.local.base_path", "./data/storage")
	v.SetDefault("metadata.driver", MetadataDriverDynamoDB)
	v.SetDefault("metadata.image_table_name", "ImageMetadata")
	v.SetDefault("notify.driver", NotifyDriverSNS)
	v.SetDefault("enhancer.enhanced_prefix", "enhanced/")
	v.SetDefault("kafka.brokers", "localhost:9092")
	v.SetDefault("kafka.consumer_topic", "minio-events")
	v.SetDefault("kafka.consumer_group_id", "image-enhancer")
	v.SetDefault("kafka.producer_topic", "image-enhanced")
	v.SetDefault("processor.event_name_filters", []string{"s3:ObjectCreated:Put", "s3:ObjectCreated:CompleteMultipartUpload"})
	v.SetDefault("database.driver", "sqlite")
	v.SetDefault("database.file_path", "./data/enhancer.db")
	v.SetDefault("database.ssl_mode", "disable")
	v.SetDefault("database.max_idle_conns", 5)
	v.SetDefault("database.max_open_conns", 20)
	v.SetDefault("database.conn_max_lifetime", 30)
	v.SetDefault("redis.address", "localhost:6379")
	v.SetDefault("cache.enabled", true)
	v.SetDefault("cache.prefix", "outcome:")
	v.SetDefault("cache.ttl", 30*time.Second)
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", "8080")
	v.SetDefault("metrics.address", ":9090")

	// Env bindings
	err = pkgconfig.BindEnvs(v, map[string]string{
		"log.level":                    "LOG_LEVEL",
		"log.pretty":                   "LOG_PRETTY",
		"aws.region":                   "AWS_REGION",
		"aws.endpoint":                 "AWS_ENDPOINT_URL",
		"metadata.table_name":          "TABLE_NAME",
		"metadata.image_table_name":    "DYNAMODB_TABLE_NAME",
		"metadata.driver":              "METADATA_DRIVER",
		"enhancer.target_bucket":       "TARGET_BUCKET_NAME",
		"enhancer.enhanced_prefix":     "ENHANCED_PREFIX",
		"enhancer.temp_dir":            "ENHANCER_TEMP_DIR",
		"notify.driver":                "NOTIFY_DRIVER",
		"notify.sns_topic_arn":         "SNS_TOPIC_ARN",
		"storage.type":                 "STORAGE_TYPE",
		"storage.s3.endpoint":          "S3_ENDPOINT",
		"storage.s3.region":            "S3_REGION",
		"storage.s3.access_key_id":     "S3_ACCESS_KEY_ID",
		"storage.s3.secret_access_key": "S3_SECRET_ACCESS_KEY",
		"storage.s3.use_path_style":    "S3_USE_PATH_STYLE",
		"storage.s3.public_url":        "S3_PUBLIC_URL",
		"storage.local.base_path":      "STORAGE_LOCAL_PATH",
		"kafka.brokers":                "KAFKA_BROKERS",
		"kafka.consumer_topic":         "KAFKA_CONSUMER_TOPIC",
		"kafka.consumer_group_id":      "KAFKA_CONSUMER_GROUP_ID",
		"kafka.producer_topic":         "KAFKA_PRODUCER_TOPIC",
		"processor.bucket_filter":      "PROCESSOR_BUCKET_FILTER",
		"processor.event_name_filters": "PROCESSOR_EVENT_NAME_FILTERS",
		"database.driver":              "DB_DRIVER",
		"database.host":                "DB_HOST",
		"database.port":                "DB_PORT",
		"database.user":                "DB_USER",
		"database.password":            "DB_PASSWORD",
		"database.db_name":             "DB_NAME",
		"database.file_path":           "DB_FILE_PATH",
		"redis.address":                "REDIS_ADDRESS",
		"redis.password":               "REDIS_PASSWORD",
		"cache.enabled":                "CACHE_ENABLED",
		"cache.ttl":                    "CACHE_TTL",
		"server.port":                  "PORT",
		"metrics.address":              "METRICS_ADDRESS",
	})
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks the settings the enhancement pipeline cannot start without.
func (c *Config) Validate() error {
	if c.Metadata.TableName == "" {
		return fmt.Errorf("%w: TABLE_NAME", ErrMissingConfig)
	}
	if c.Enhancer.TargetBucket == "" {
		return fmt.Errorf("%w: TARGET_BUCKET_NAME", ErrMissingConfig)
	}
	// Without a prefix enhanced objects overwrite their sources.
	if c.Enhancer.EnhancedPrefix == "" {
		return fmt.Errorf("%w: ENHANCED_PREFIX", ErrMissingConfig)
	}
	if c.Notify.Driver == NotifyDriverKafka && c.Kafka.ProducerTopic == "" {
		return fmt.Errorf("%w: KAFKA_PRODUCER_TOPIC", ErrMissingConfig)
	}
	return nil
}

// ValidateIndexer checks the settings needed by the metadata indexer.
func (c *Config) ValidateIndexer() error {
	if c.Metadata.Driver == MetadataDriverDynamoDB && c.Metadata.ImageTableName == "" {
		return fmt.Errorf("%w: DYNAMODB_TABLE_NAME", ErrMissingConfig)
	}
	return nil
}

// ValidateAPI checks the settings needed by the read API.
func (c *Config) ValidateAPI() error {
	if c.Metadata.Driver == MetadataDriverDynamoDB {
		if c.Metadata.TableName == "" {
			return fmt.Errorf("%w: TABLE_NAME", ErrMissingConfig)
		}
		if c.Metadata.ImageTableName == "" {
			return fmt.Errorf("%w: DYNAMODB_TABLE_NAME", ErrMissingConfig)
		}
	}
	return nil
}

// Address returns the HTTP listen address.
func (s ServerConfig) Address() string {
	return s.Host + ":" + s.Port
}
