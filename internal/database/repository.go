package database

import (
	"context"
	"fmt"

	"github.com/ANIKETSHETTY47/air-quality-monitoring-system/internal/cloud"
	"github.com/ANIKETSHETTY47/air-quality-monitoring-system/internal/config"
	"github.com/ANIKETSHETTY47/air-quality-monitoring-system/internal/repository"
)

// OpenRepository builds the reading store chosen by DB_DRIVER. The returned
// close func releases the SQL pool and is a no-op for DynamoDB.
func OpenRepository(ctx context.Context) (repository.AQIRepository, func() error, error) {
	if config.DBDriver() == "dynamodb" {
		repo, err := cloud.NewDynamoDBRepository(ctx, config.AWSRegion(), config.DynamoDBTable())
		if err != nil {
			return nil, nil, fmt.Errorf("dynamodb repository: %w", err)
		}
		return repo, func() error { return nil }, nil
	}

	db, err := Connect()
	if err != nil {
		return nil, nil, err
	}
	return repository.New(db), db.Close, nil
}
