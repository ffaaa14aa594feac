package app

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/weiawesome/wes-image-enhancer/internal/config"
	"github.com/weiawesome/wes-image-enhancer/internal/notify"
	"github.com/weiawesome/wes-image-enhancer/internal/repository"
	"github.com/weiawesome/wes-image-enhancer/pkg/database"
	"github.com/weiawesome/wes-image-enhancer/pkg/storage"
)

func TestNewStorage_Local(t *testing.T) {
	cfg := &config.Config{Storage: config.StorageConfig{
		Type:  config.StorageTypeLocal,
		Local: storage.LocalConfig{BasePath: t.TempDir()},
	}}

	st, err := NewStorage(context.Background(), cfg)
	require.NoError(t, err)
	assert.IsType(t, &storage.LocalStorage{}, st)
}

func TestNewStorage_S3(t *testing.T) {
	cfg := &config.Config{Storage: config.StorageConfig{
		Type: config.StorageTypeS3,
		S3: storage.S3Config{
			AccessKeyID:     "minio",
			SecretAccessKey: "minio123",
			UsePathStyle:    true,
		},
	}}
	cfg.AWS.Region = "ap-northeast-1"
	cfg.AWS.Endpoint = "http://localhost:9000"

	st, err := NewStorage(context.Background(), cfg)
	require.NoError(t, err)
	assert.IsType(t, &storage.S3Storage{}, st)
}

func TestNewStorage_Unsupported(t *testing.T) {
	_, err := NewStorage(context.Background(), &config.Config{Storage: config.StorageConfig{Type: "ftp"}})
	assert.Error(t, err)
}

func TestNewRepositories_SQL(t *testing.T) {
	cfg := &config.Config{
		Metadata: config.MetadataConfig{Driver: config.MetadataDriverSQL},
		Database: database.Config{
			Driver:   "sqlite",
			FilePath: filepath.Join(t.TempDir(), "enhancer.db"),
			LogLevel: "silent",
		},
	}

	repos, err := NewRepositories(context.Background(), cfg)
	require.NoError(t, err)
	defer repos.Close()

	assert.IsType(t, &repository.GormOutcomeRepository{}, repos.Outcomes)
	assert.IsType(t, &repository.GormImageRepository{}, repos.Images)
}

func TestNewRepositories_DynamoDB(t *testing.T) {
	cfg := &config.Config{
		Metadata: config.MetadataConfig{
			Driver:         config.MetadataDriverDynamoDB,
			TableName:      "ImageOutcomes",
			ImageTableName: "ImageMetadata",
		},
	}
	cfg.AWS.Region = "eu-west-1"
	cfg.AWS.AccessKeyID = "test"
	cfg.AWS.SecretAccessKey = "test"

	repos, err := NewRepositories(context.Background(), cfg)
	require.NoError(t, err)
	assert.IsType(t, &repository.DynamoOutcomeRepository{}, repos.Outcomes)
	assert.NoError(t, repos.Close())
}

func TestNewNotifier_WithoutTopicIsNop(t *testing.T) {
	n, err := NewNotifier(context.Background(), &config.Config{
		Notify: config.NotifyConfig{Driver: config.NotifyDriverSNS},
	})
	require.NoError(t, err)
	assert.Equal(t, nopCloser{notify.NopNotifier{}}, n)
	assert.NoError(t, n.Close())
}

func TestNewNotifier_SNS(t *testing.T) {
	cfg := &config.Config{Notify: config.NotifyConfig{
		Driver:      config.NotifyDriverSNS,
		SNSTopicARN: "arn:aws:sns:us-east-1:123456789012:image-enhanced",
	}}
	cfg.AWS.AccessKeyID = "test"
	cfg.AWS.SecretAccessKey = "test"

	n, err := NewNotifier(context.Background(), cfg)
	require.NoError(t, err)
	assert.IsType(t, &notify.SNSNotifier{}, n.(nopCloser).Notifier)
}

func TestNewNotifier_Unsupported(t *testing.T) {
	_, err := NewNotifier(context.Background(), &config.Config{Notify: config.NotifyConfig{Driver: "carrier-pigeon"}})
	assert.Error(t, err)
}
