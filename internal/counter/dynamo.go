package counter

import (
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/aws/smithy-go"
)

const (
	// PartitionKey is the hash key attribute of the counter table.
	PartitionKey = "visitor_count"
	// CountAttribute holds the number. "count" is a DynamoDB reserved word,
	// so expressions refer to it through #count.
	CountAttribute = "count"
)

// DynamoAPI is the subset of *dynamodb.Client the counter calls.
type DynamoAPI interface {
	UpdateItem(ctx context.Context, params *dynamodb.UpdateItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.UpdateItemOutput, error)
	GetItem(ctx context.Context, params *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
}

var _ ReadCounter = (*DynamoCounter)(nil)

type DynamoCounter struct {
	api   DynamoAPI
	table string
}

func NewDynamoCounter(api DynamoAPI, table string) *DynamoCounter {
	return &DynamoCounter{api: api, table: table}
}

type countRecord struct {
	Count *int64 `dynamodbav:"count"`
}

func (c *DynamoCounter) key() map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		PartitionKey: &types.AttributeValueMemberS{Value: Key},
	}
}

// Up issues a single UpdateItem with ADD, which DynamoDB applies atomically and
// which treats a missing item or attribute as 0.
func (c *DynamoCounter) Up(ctx context.Context) (int64, error) {
	out, err := c.api.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:                aws.String(c.table),
		Key:                      c.key(),
		UpdateExpression:         aws.String("ADD #count :inc"),
		ExpressionAttributeNames: map[string]string{"#count": CountAttribute},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":inc": &types.AttributeValueMemberN{Value: "1"},
		},
		ReturnValues: types.ReturnValueUpdatedNew,
	})
	if err != nil {
		return 0, dynamoError("UpdateItem", c.table, err)
	}

	var rec countRecord
	if err := attributevalue.UnmarshalMap(out.Attributes, &rec); err != nil {
		return 0, Unexpected("dynamodb.UpdateItem", fmt.Errorf("attributevalue.UnmarshalMap: %w", err))
	}
	if rec.Count == nil {
		return 0, Unexpected("dynamodb.UpdateItem", fmt.Errorf("attribute %q missing in response", CountAttribute))
	}
	return *rec.Count, nil
}

func (c *DynamoCounter) Get(ctx context.Context) (int64, error) {
	out, err := c.api.GetItem(ctx, &dynamodb.GetItemInput{
		TableName:            aws.String(c.table),
		Key:                  c.key(),
		ConsistentRead:       aws.Bool(true),
		ProjectionExpression: aws.String("#count"),
		ExpressionAttributeNames: map[string]string{
			"#count": CountAttribute,
		},
	})
	if err != nil {
		return 0, dynamoError("GetItem", c.table, err)
	}
	if out.Item == nil {
		return 0, nil
	}

	var rec countRecord
	if err := attributevalue.UnmarshalMap(out.Item, &rec); err != nil {
		return 0, Unexpected("dynamodb.GetItem", fmt.Errorf("attributevalue.UnmarshalMap: %w", err))
	}
	if rec.Count == nil {
		return 0, nil
	}
	return *rec.Count, nil
}

func dynamoError(op, table string, err error) error {
	var rnf *types.ResourceNotFoundException
	if errors.As(err, &rnf) {
		return Unavailable("dynamodb."+op, fmt.Errorf("table %s: %w", table, err))
	}
	var ae smithy.APIError
	if errors.As(err, &ae) {
		return Unavailable("dynamodb."+op, fmt.Errorf("code=%s: %w", ae.ErrorCode(), err))
	}
	return Unavailable("dynamodb."+op, err)
}
