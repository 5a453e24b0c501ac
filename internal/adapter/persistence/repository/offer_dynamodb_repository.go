package repository

import (
	"context"
	"errors"
	"time"

	"offer_negotiation/internal/domain/entities"
	"offer_negotiation/internal/usecase/interfaces"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

const defaultOffersTableName = "offers"

type offerItem struct {
	ID         string `dynamodbav:"id"`
	SeekerID   string `dynamodbav:"seeker_id"`
	ProviderID string `dynamodbav:"provider_id"`
	Status     string `dynamodbav:"status"`
	CreatedAt  string `dynamodbav:"created_at"`
	UpdatedAt  string `dynamodbav:"updated_at"`
}

// OfferDynamoRepository persists Offer entities in DynamoDB.
//
// Table requirements:
//   - PK: id (string)
type OfferDynamoRepository struct {
	ddb       *dynamodb.Client
	tableName string
}

var _ interfaces.IOfferRepository = (*OfferDynamoRepository)(nil)

func NewOfferDynamoRepository(ddb *dynamodb.Client) *OfferDynamoRepository {
	return &OfferDynamoRepository{
		ddb:       ddb,
		tableName: getenvDefault("OFFERS_TABLE", defaultOffersTableName),
	}
}

func (r *OfferDynamoRepository) Create(ctx context.Context, o entities.Offer) (entities.Offer, error) {
	av, err := attributevalue.MarshalMap(toOfferItem(o))
	if err != nil {
		return entities.Offer{}, err
	}

	_, err = r.ddb.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:           aws.String(r.tableName),
		Item:                av,
		ConditionExpression: aws.String("attribute_not_exists(#id)"),
		ExpressionAttributeNames: map[string]string{
			"#id": "id",
		},
	})
	if err != nil {
		var cfe *types.ConditionalCheckFailedException
		if errors.As(err, &cfe) {
			return entities.Offer{}, interfaces.ErrOfferConflict
		}
		return entities.Offer{}, err
	}
	return o, nil
}

func (r *OfferDynamoRepository) GetByID(ctx context.Context, id string) (entities.Offer, error) {
	out, err := r.ddb.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.tableName),
		Key: map[string]types.AttributeValue{
			"id": &types.AttributeValueMemberS{Value: id},
		},
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return entities.Offer{}, err
	}
	if len(out.Item) == 0 {
		return entities.Offer{}, nil
	}

	var it offerItem
	if err := attributevalue.UnmarshalMap(out.Item, &it); err != nil {
		return entities.Offer{}, err
	}
	return fromOfferItem(it), nil
}

func (r *OfferDynamoRepository) UpdateStatus(ctx context.Context, id string, status entities.OfferStatus) (entities.Offer, error) {
	out, err := r.ddb.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName: aws.String(r.tableName),
		Key: map[string]types.AttributeValue{
			"id": &types.AttributeValueMemberS{Value: id},
		},
		ConditionExpression: aws.String("attribute_exists(#id)"),
		UpdateExpression:    aws.String("SET #status = :status, #updated_at = :updated_at"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":status":     &types.AttributeValueMemberS{Value: string(status)},
			":updated_at": &types.AttributeValueMemberS{Value: formatTime(time.Now())},
		},
		ExpressionAttributeNames: map[string]string{
			"#id":         "id",
			"#status":     "status",
			"#updated_at": "updated_at",
		},
		ReturnValues: types.ReturnValueAllNew,
	})
	if err != nil {
		var cfe *types.ConditionalCheckFailedException
		if errors.As(err, &cfe) {
			return entities.Offer{}, nil
		}
		return entities.Offer{}, err
	}
	if len(out.Attributes) == 0 {
		return entities.Offer{}, nil
	}
	var it offerItem
	if err := attributevalue.UnmarshalMap(out.Attributes, &it); err != nil {
		return entities.Offer{}, err
	}
	return fromOfferItem(it), nil
}

func toOfferItem(o entities.Offer) offerItem {
	return offerItem{
		ID:         o.ID,
		SeekerID:   o.SeekerID,
		ProviderID: o.ProviderID,
		Status:     string(o.Status),
		CreatedAt:  formatTime(o.CreatedAt),
		UpdatedAt:  formatTime(o.UpdatedAt),
	}
}

func fromOfferItem(it offerItem) entities.Offer {
	return entities.Offer{
		ID:         it.ID,
		SeekerID:   it.SeekerID,
		ProviderID: it.ProviderID,
		Status:     entities.OfferStatus(it.Status),
		CreatedAt:  parseTime(it.CreatedAt),
		UpdatedAt:  parseTime(it.UpdatedAt),
	}
}

func (r *OfferDynamoRepository) TableName() string {
	return r.tableName
}
