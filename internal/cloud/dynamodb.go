package cloud

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/ANIKETSHETTY47/air-quality-monitoring-system/internal/domain"
	"github.com/ANIKETSHETTY47/air-quality-monitoring-system/internal/repository"
)

const (
	readingPartition = "AQI"
	counterPartition = "AQI#SEQ"
)

// DynamoDBAPI is the slice of the DynamoDB client the repository uses.
type DynamoDBAPI interface {
	GetItem(ctx context.Context, in *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
	PutItem(ctx context.Context, in *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
	UpdateItem(ctx context.Context, in *dynamodb.UpdateItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.UpdateItemOutput, error)
	Query(ctx context.Context, in *dynamodb.QueryInput, optFns ...func(*dynamodb.Options)) (*dynamodb.QueryOutput, error)
}

// DynamoDBRepository keeps readings in a single table keyed by a constant
// partition ("pk") and the numeric reading id ("id"). Ids come from an
// atomic counter item in a separate partition.
type DynamoDBRepository struct {
	svc   DynamoDBAPI
	table string
	now   repository.Clock
}

// NewDynamoDBRepository creates a repository backed by AWS DynamoDB
func NewDynamoDBRepository(ctx context.Context, region, table string) (*DynamoDBRepository, error) {
	// Load AWS configuration from environment/credentials
	cfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("unable to load SDK config: %w", err)
	}

	return NewDynamoDBRepositoryWithAPI(dynamodb.NewFromConfig(cfg), table), nil
}

// NewDynamoDBRepositoryWithAPI wires an existing client, e.g. one pointed at
// DynamoDB Local.
func NewDynamoDBRepositoryWithAPI(svc DynamoDBAPI, table string) *DynamoDBRepository {
	return &DynamoDBRepository{svc: svc, table: table, now: time.Now}
}

// WithClock replaces the insert clock.
func (r *DynamoDBRepository) WithClock(now repository.Clock) *DynamoDBRepository {
	r.now = now
	return r
}

// readingItem is the stored shape; timestamps are unix nanoseconds so the
// range filter compares numbers.
type readingItem struct {
	PK        string  `dynamodbav:"pk"`
	ID        int64   `dynamodbav:"id"`
	Timestamp int64   `dynamodbav:"timestamp"`
	PM25      float64 `dynamodbav:"pm2_5"`
	PM10      float64 `dynamodbav:"pm10"`
	NO2       float64 `dynamodbav:"no2"`
	O3        float64 `dynamodbav:"o3"`
	CO        float64 `dynamodbav:"co"`
	SO2       float64 `dynamodbav:"so2"`
	NH3       float64 `dynamodbav:"nh3"`
	PB        float64 `dynamodbav:"pb"`
}

func (it readingItem) toDomain() domain.Reading {
	return domain.Reading{
		ID:        it.ID,
		PM25:      domain.Float(it.PM25),
		PM10:      domain.Float(it.PM10),
		NO2:       domain.Float(it.NO2),
		O3:        domain.Float(it.O3),
		CO:        domain.Float(it.CO),
		SO2:       domain.Float(it.SO2),
		NH3:       domain.Float(it.NH3),
		PB:        domain.Float(it.PB),
		Timestamp: time.Unix(0, it.Timestamp).UTC(),
	}
}

func (r *DynamoDBRepository) Get(ctx context.Context, id int64) (*domain.Reading, error) {
	out, err := r.svc.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.table),
		Key: map[string]types.AttributeValue{
			"pk": &types.AttributeValueMemberS{Value: readingPartition},
			"id": &types.AttributeValueMemberN{Value: strconv.FormatInt(id, 10)},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get item from DynamoDB: %w", err)
	}
	if len(out.Item) == 0 {
		return nil, nil
	}

	var item readingItem
	if err := attributevalue.UnmarshalMap(out.Item, &item); err != nil {
		return nil, fmt.Errorf("failed to unmarshal reading: %w", err)
	}
	reading := item.toDomain()
	return &reading, nil
}

func (r *DynamoDBRepository) GetAll(ctx context.Context) ([]domain.Reading, error) {
	return r.query(ctx, nil, nil)
}

func (r *DynamoDBRepository) GetAllByDate(ctx context.Context, day time.Time) ([]domain.Reading, error) {
	start := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, day.Location())
	end := start.AddDate(0, 0, 1).Add(-time.Millisecond)
	return r.GetByDateRange(ctx, start, end)
}

func (r *DynamoDBRepository) GetByDateRange(ctx context.Context, start, end time.Time) ([]domain.Reading, error) {
	return r.query(ctx, &start, &end)
}

func (r *DynamoDBRepository) query(ctx context.Context, start, end *time.Time) ([]domain.Reading, error) {
	input := &dynamodb.QueryInput{
		TableName:              aws.String(r.table),
		KeyConditionExpression: aws.String("pk = :pk"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":pk": &types.AttributeValueMemberS{Value: readingPartition},
		},
		ScanIndexForward: aws.Bool(false), // Sort descending (newest first)
	}
	if start != nil && end != nil {
		input.FilterExpression = aws.String("#ts BETWEEN :start AND :end")
		input.ExpressionAttributeNames = map[string]string{"#ts": "timestamp"}
		input.ExpressionAttributeValues[":start"] = &types.AttributeValueMemberN{Value: strconv.FormatInt(start.UnixNano(), 10)}
		input.ExpressionAttributeValues[":end"] = &types.AttributeValueMemberN{Value: strconv.FormatInt(end.UnixNano(), 10)}
	}

	readings := []domain.Reading{}
	paginator := dynamodb.NewQueryPaginator(r.svc, input)
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to query DynamoDB: %w", err)
		}

		var items []readingItem
		if err := attributevalue.UnmarshalListOfMaps(page.Items, &items); err != nil {
			return nil, fmt.Errorf("failed to unmarshal readings: %w", err)
		}
		for _, it := range items {
			readings = append(readings, it.toDomain())
		}
	}

	sort.SliceStable(readings, func(i, j int) bool {
		return readings[i].Timestamp.After(readings[j].Timestamp)
	})
	return readings, nil
}

func (r *DynamoDBRepository) Create(ctx context.Context, req domain.CreateRequest) (*domain.Reading, error) {
	id, err := r.nextID(ctx)
	if err != nil {
		return nil, err
	}

	n := req.Normalized()
	item := readingItem{
		PK:        readingPartition,
		ID:        id,
		Timestamp: r.now().UTC().UnixNano(),
		PM25:      *n.PM25,
		PM10:      *n.PM10,
		NO2:       *n.NO2,
		O3:        *n.O3,
		CO:        *n.CO,
		SO2:       *n.SO2,
		NH3:       *n.NH3,
		PB:        *n.PB,
	}

	av, err := attributevalue.MarshalMap(item)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal reading: %w", err)
	}

	_, err = r.svc.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(r.table),
		Item:      av,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to put item in DynamoDB: %w", err)
	}

	reading := item.toDomain()
	return &reading, nil
}

func (r *DynamoDBRepository) nextID(ctx context.Context) (int64, error) {
	out, err := r.svc.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName: aws.String(r.table),
		Key: map[string]types.AttributeValue{
			"pk": &types.AttributeValueMemberS{Value: counterPartition},
			"id": &types.AttributeValueMemberN{Value: "0"},
		},
		UpdateExpression: aws.String("ADD seq :one"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":one": &types.AttributeValueMemberN{Value: "1"},
		},
		ReturnValues: types.ReturnValueUpdatedNew,
	})
	if err != nil {
		return 0, fmt.Errorf("failed to allocate reading id: %w", err)
	}

	var seq struct {
		Seq int64 `dynamodbav:"seq"`
	}
	if err := attributevalue.UnmarshalMap(out.Attributes, &seq); err != nil {
		return 0, fmt.Errorf("failed to unmarshal reading id: %w", err)
	}
	return seq.Seq, nil
}

var _ repository.AQIRepository = (*DynamoDBRepository)(nil)
