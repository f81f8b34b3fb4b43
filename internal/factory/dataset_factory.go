package factory

import (
	"context"
	"fmt"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/mikey/nb-spam-filter/internal/config"
	"github.com/mikey/nb-spam-filter/internal/dataset"
	"go.uber.org/zap"
)

// DatasetFactory creates dataset sources based on configuration
type DatasetFactory struct {
	cfg    *config.Config
	logger *zap.Logger
}

// NewDatasetFactory creates a new dataset factory
func NewDatasetFactory(cfg *config.Config, logger *zap.Logger) *DatasetFactory {
	return &DatasetFactory{
		cfg:    cfg,
		logger: logger,
	}
}

// CreateSource creates a dataset source. An S3 client is only built for
// s3:// paths.
func (f *DatasetFactory) CreateSource(ctx context.Context) (*dataset.Source, error) {
	dc := f.cfg.GetDataset()
	if _, err := dataset.Decoder(dc.Encoding); err != nil {
		return nil, err
	}

	var remote dataset.Opener
	if dataset.IsS3Location(dc.Path) {
		awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(dc.S3Region))
		if err != nil {
			return nil, fmt.Errorf("failed to load AWS configuration: %w", err)
		}
		remote = dataset.NewS3Opener(s3.NewFromConfig(awsCfg))
	}

	return dataset.NewSource(dataset.Options{
		Path:            dc.Path,
		Encoding:        dc.Encoding,
		FallbackBuiltin: dc.FallbackBuiltin,
	}, dataset.FileOpener{}, remote, f.logger), nil
}
