// Package app builds the clients and components shared by the service binaries
// from configuration.
package app

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/sns"

	"github.com/weiawesome/wes-image-enhancer/internal/config"
	"github.com/weiawesome/wes-image-enhancer/internal/mq"
	"github.com/weiawesome/wes-image-enhancer/internal/notify"
	"github.com/weiawesome/wes-image-enhancer/internal/processor"
	"github.com/weiawesome/wes-image-enhancer/internal/repository"
	"github.com/weiawesome/wes-image-enhancer/pkg/cloud"
	"github.com/weiawesome/wes-image-enhancer/pkg/database"
	pkglog "github.com/weiawesome/wes-image-enhancer/pkg/log"
	"github.com/weiawesome/wes-image-enhancer/pkg/storage"
)

// InitLogger initialises the global logger for the named service.
func InitLogger(cfg *config.Config, service string) {
	logCfg := cfg.Log
	if logCfg.ServiceName == "" {
		logCfg.ServiceName = service
	}
	pkglog.Init(logCfg)
}

// NewStorage returns the configured object store.
func NewStorage(ctx context.Context, cfg *config.Config) (storage.Storage, error) {
	switch cfg.Storage.Type {
	case config.StorageTypeS3:
		s3Cfg := cfg.Storage.S3
		if s3Cfg.Region == "" {
			s3Cfg.Region = cfg.AWS.Region
		}
		if s3Cfg.Endpoint == "" {
			s3Cfg.Endpoint = cfg.AWS.Endpoint
		}
		return storage.NewS3Storage(ctx, s3Cfg)
	case config.StorageTypeLocal:
		return storage.NewLocalStorage(cfg.Storage.Local)
	default:
		return nil, fmt.Errorf("unsupported storage type: %s", cfg.Storage.Type)
	}
}

// Repositories bundles the metadata stores and their cleanup.
type Repositories struct {
	Outcomes repository.OutcomeRepository
	Images   repository.ImageRepository
	close    func() error
}

// Close releases database connections, if any.
func (r *Repositories) Close() error {
	if r.close == nil {
		return nil
	}
	return r.close()
}

// NewRepositories returns the outcome and image repositories for the
// configured metadata driver.
func NewRepositories(ctx context.Context, cfg *config.Config) (*Repositories, error) {
	switch cfg.Metadata.Driver {
	case config.MetadataDriverDynamoDB:
		awsCfg, err := loadAWS(ctx, cfg)
		if err != nil {
			return nil, err
		}
		client := dynamodb.NewFromConfig(awsCfg, func(o *dynamodb.Options) {
			o.BaseEndpoint = cloud.EndpointOverride(cfg.AWS.Endpoint)
		})
		return &Repositories{
			Outcomes: repository.NewDynamoOutcomeRepository(client, cfg.Metadata.TableName),
			Images:   repository.NewDynamoImageRepository(client, cfg.Metadata.ImageTableName),
		}, nil

	case config.MetadataDriverSQL:
		db, err := database.New(&cfg.Database)
		if err != nil {
			return nil, err
		}
		if err := repository.Migrate(db); err != nil {
			return nil, fmt.Errorf("failed to migrate database: %w", err)
		}
		sqlDB, err := db.DB()
		if err != nil {
			return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
		}
		return &Repositories{
			Outcomes: repository.NewGormOutcomeRepository(db),
			Images:   repository.NewGormImageRepository(db),
			close:    sqlDB.Close,
		}, nil

	default:
		return nil, fmt.Errorf("unsupported metadata driver: %s", cfg.Metadata.Driver)
	}
}

// Notifier is a processor.Notifier that may hold resources.
type Notifier interface {
	processor.Notifier
	Close() error
}

// NewNotifier returns the configured enhanced-event sink. The SNS driver
// without a topic ARN disables notifications.
func NewNotifier(ctx context.Context, cfg *config.Config) (Notifier, error) {
	switch cfg.Notify.Driver {
	case config.NotifyDriverSNS:
		if cfg.Notify.SNSTopicARN == "" {
			return nopCloser{notify.NopNotifier{}}, nil
		}
		awsCfg, err := loadAWS(ctx, cfg)
		if err != nil {
			return nil, err
		}
		client := sns.NewFromConfig(awsCfg, func(o *sns.Options) {
			o.BaseEndpoint = cloud.EndpointOverride(cfg.AWS.Endpoint)
		})
		return nopCloser{notify.NewSNSNotifier(client, cfg.Notify.SNSTopicARN)}, nil

	case config.NotifyDriverKafka:
		return mq.NewKafkaPublisher(cfg.Kafka.Brokers, cfg.Kafka.ProducerTopic)

	case config.NotifyDriverNone, "":
		return nopCloser{notify.NopNotifier{}}, nil

	default:
		return nil, fmt.Errorf("unsupported notify driver: %s", cfg.Notify.Driver)
	}
}

func loadAWS(ctx context.Context, cfg *config.Config) (aws.Config, error) {
	return cloud.LoadAWSConfig(ctx, cfg.AWS)
}

type nopCloser struct {
	processor.Notifier
}

func (nopCloser) Close() error { return nil }
