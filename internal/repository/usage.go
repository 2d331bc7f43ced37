// Package repository persists the daily usage counters in a DynamoDB
// table. This is the only mutable state the service touches, and it is
// only ever read as an aggregate or bumped through an atomic increment;
// the handlers never hold counter state in process.
package repository

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"lingobuddy/internal/domain"
)

const (
	pkPrefix      = "USER#"
	skPrefixUsage = "USAGE#"
	dayLayout     = "2006-01-02"

	// Counter rows only matter for the day they cover; 48h leaves room
	// for clock skew before DynamoDB TTL reaps them.
	counterTTL = 48 * time.Hour
)

// dynamodbAPI is the minimal DynamoDB interface required by Ledger.
// Defined here for testability.
type dynamodbAPI interface {
	Query(ctx context.Context, in *dynamodb.QueryInput, optFns ...func(*dynamodb.Options)) (*dynamodb.QueryOutput, error)
	UpdateItem(ctx context.Context, in *dynamodb.UpdateItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.UpdateItemOutput, error)
}

// Ledger wraps the usage-counter table. Keys rotate with the calendar
// date, which is what resets the daily quota; nothing ever decrements.
type Ledger struct {
	api       dynamodbAPI
	tableName string
}

func New(api dynamodbAPI, tableName string) (*Ledger, error) {
	if api == nil {
		return nil, errors.New("repository: api must not be nil")
	}
	if strings.TrimSpace(tableName) == "" {
		return nil, errors.New("repository: table name must not be empty")
	}
	return &Ledger{api: api, tableName: tableName}, nil
}

func userPK(userID string) string {
	return pkPrefix + userID
}

func usageSK(day time.Time, feature domain.Feature) string {
	return usageDayPrefix(day) + string(feature)
}

func usageDayPrefix(day time.Time) string {
	return skPrefixUsage + day.UTC().Format(dayLayout) + "#"
}

// TotalForDay sums the user's counters across every feature for the given
// day. The daily cap is global, so reads always aggregate.
func (l *Ledger) TotalForDay(ctx context.Context, userID string, day time.Time) (int, error) {
	out, err := l.api.Query(ctx, &dynamodb.QueryInput{
		TableName:              aws.String(l.tableName),
		KeyConditionExpression: aws.String("PK = :pk AND begins_with(SK, :prefix)"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":pk":     &types.AttributeValueMemberS{Value: userPK(userID)},
			":prefix": &types.AttributeValueMemberS{Value: usageDayPrefix(day)},
		},
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return 0, fmt.Errorf("repository: TotalForDay query: %w", err)
	}

	total := 0
	for _, item := range out.Items {
		n, err := intAttr(item, "count")
		if err != nil {
			return 0, fmt.Errorf("repository: TotalForDay decode count: %w", err)
		}
		total += n
	}
	return total, nil
}

// Increment bumps the per-feature counter by one in a single atomic
// UpdateItem, creating the row on first use of the day.
func (l *Ledger) Increment(ctx context.Context, userID string, feature domain.Feature, day time.Time) error {
	if !feature.IsValid() {
		return fmt.Errorf("repository: Increment: unknown feature %q", feature)
	}

	ttl := day.UTC().Add(counterTTL).Unix()
	_, err := l.api.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName: aws.String(l.tableName),
		Key: map[string]types.AttributeValue{
			"PK": &types.AttributeValueMemberS{Value: userPK(userID)},
			"SK": &types.AttributeValueMemberS{Value: usageSK(day, feature)},
		},
		UpdateExpression: aws.String("SET #ttl = if_not_exists(#ttl, :ttl) ADD #count :one"),
		ExpressionAttributeNames: map[string]string{
			"#count": "count",
			"#ttl":   "ttl",
		},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":one": &types.AttributeValueMemberN{Value: "1"},
			":ttl": &types.AttributeValueMemberN{Value: strconv.FormatInt(ttl, 10)},
		},
	})
	if err != nil {
		return fmt.Errorf("repository: Increment: %w", err)
	}
	return nil
}

func intAttr(item map[string]types.AttributeValue, key string) (int, error) {
	v, ok := item[key]
	if !ok {
		return 0, fmt.Errorf("repository: missing attribute %q", key)
	}
	n, ok := v.(*types.AttributeValueMemberN)
	if !ok {
		return 0, fmt.Errorf("repository: attribute %q is not a number", key)
	}
	parsed, err := strconv.Atoi(n.Value)
	if err != nil {
		return 0, fmt.Errorf("repository: parse attribute %q: %w", key, err)
	}
	return parsed, nil
}
