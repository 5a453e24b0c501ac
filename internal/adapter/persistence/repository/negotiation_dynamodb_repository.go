package repository

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"offer_negotiation/internal/domain/entities"
	"offer_negotiation/internal/usecase/interfaces"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

const (
	defaultNegotiationsTableName       = "negotiations"
	defaultNegotiationHistoryTableName = "negotiation_history"
)

type negotiationItem struct {
	OfferID             string  `dynamodbav:"offer_id"`
	Price               *string `dynamodbav:"price,omitempty"`
	Date                *string `dynamodbav:"date,omitempty"`
	Time                *string `dynamodbav:"time,omitempty"`
	Materials           *string `dynamodbav:"materials,omitempty"`
	Scope               *string `dynamodbav:"scope,omitempty"`
	SeekerConfirmed     bool    `dynamodbav:"seeker_confirmed"`
	ProviderConfirmed   bool    `dynamodbav:"provider_confirmed"`
	LastUpdatedBy       string  `dynamodbav:"last_updated_by"`
	LastUpdatedByUserID string  `dynamodbav:"last_updated_by_user_id"`
	Status              string  `dynamodbav:"status"`
	Version             int64   `dynamodbav:"version"`
	LastSeq             int64   `dynamodbav:"last_seq"`
	CreatedAt           string  `dynamodbav:"created_at"`
	UpdatedAt           string  `dynamodbav:"updated_at"`
}

type historyItem struct {
	OfferID         string  `dynamodbav:"offer_id"`
	Seq             int64   `dynamodbav:"seq"`
	ID              string  `dynamodbav:"id"`
	Field           string  `dynamodbav:"field,omitempty"`
	OldValue        *string `dynamodbav:"old_value,omitempty"`
	NewValue        *string `dynamodbav:"new_value,omitempty"`
	ChangedBy       string  `dynamodbav:"changed_by"`
	ChangedByUserID string  `dynamodbav:"changed_by_user_id"`
	Timestamp       string  `dynamodbav:"timestamp"`
	Note            *string `dynamodbav:"note,omitempty"`
}

// NegotiationDynamoRepository persists negotiation snapshots and their history
// ledger in two DynamoDB tables.
//
// Table requirements:
//   - negotiations: PK offer_id (string)
//   - negotiation_history: PK offer_id (string), SK seq (number)
//
// The snapshot's last_seq is the commit marker. Snapshot and history rows are
// written in one transaction, so loads only read rows up to it.
type NegotiationDynamoRepository struct {
	ddb          *dynamodb.Client
	stateTable   string
	historyTable string
}

var _ interfaces.INegotiationRepository = (*NegotiationDynamoRepository)(nil)

func NewNegotiationDynamoRepository(ddb *dynamodb.Client) *NegotiationDynamoRepository {
	return &NegotiationDynamoRepository{
		ddb:          ddb,
		stateTable:   getenvDefault("NEGOTIATIONS_TABLE", defaultNegotiationsTableName),
		historyTable: getenvDefault("NEGOTIATION_HISTORY_TABLE", defaultNegotiationHistoryTableName),
	}
}

func (r *NegotiationDynamoRepository) LoadState(ctx context.Context, offerID string) (entities.NegotiationState, error) {
	out, err := r.ddb.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.stateTable),
		Key: map[string]types.AttributeValue{
			"offer_id": &types.AttributeValueMemberS{Value: offerID},
		},
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return entities.NegotiationState{}, err
	}
	if len(out.Item) == 0 {
		return entities.NegotiationState{}, nil
	}

	var it negotiationItem
	if err := attributevalue.UnmarshalMap(out.Item, &it); err != nil {
		return entities.NegotiationState{}, err
	}
	st, err := fromNegotiationItem(it)
	if err != nil {
		return entities.NegotiationState{}, err
	}
	st.History, err = r.loadHistory(ctx, offerID, it.LastSeq)
	if err != nil {
		return entities.NegotiationState{}, err
	}
	return st, nil
}

func (r *NegotiationDynamoRepository) loadHistory(ctx context.Context, offerID string, lastSeq int64) ([]entities.NegotiationHistoryEntry, error) {
	entries := make([]entities.NegotiationHistoryEntry, 0, lastSeq)
	if lastSeq == 0 {
		return entries, nil
	}

	p := dynamodb.NewQueryPaginator(r.ddb, &dynamodb.QueryInput{
		TableName:              aws.String(r.historyTable),
		KeyConditionExpression: aws.String("#offer_id = :offer_id AND #seq <= :last_seq"),
		ExpressionAttributeNames: map[string]string{
			"#offer_id": "offer_id",
			"#seq":      "seq",
		},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":offer_id": &types.AttributeValueMemberS{Value: offerID},
			":last_seq": &types.AttributeValueMemberN{Value: strconv.FormatInt(lastSeq, 10)},
		},
		ConsistentRead:   aws.Bool(true),
		ScanIndexForward: aws.Bool(true),
	})
	for p.HasMorePages() {
		page, err := p.NextPage(ctx)
		if err != nil {
			return nil, err
		}
		var items []historyItem
		if err := attributevalue.UnmarshalListOfMaps(page.Items, &items); err != nil {
			return nil, err
		}
		for _, it := range items {
			entries = append(entries, fromHistoryItem(it))
		}
	}
	if int64(len(entries)) != lastSeq {
		return nil, fmt.Errorf("negotiation %s: expected %d history rows, found %d", offerID, lastSeq, len(entries))
	}
	return entries, nil
}

func (r *NegotiationDynamoRepository) LoadVersion(ctx context.Context, offerID string) (int64, error) {
	out, err := r.ddb.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.stateTable),
		Key: map[string]types.AttributeValue{
			"offer_id": &types.AttributeValueMemberS{Value: offerID},
		},
		ProjectionExpression:     aws.String("#version"),
		ExpressionAttributeNames: map[string]string{"#version": "version"},
		ConsistentRead:           aws.Bool(true),
	})
	if err != nil {
		return 0, err
	}
	if len(out.Item) == 0 {
		return 0, nil
	}
	var it struct {
		Version int64 `dynamodbav:"version"`
	}
	if err := attributevalue.UnmarshalMap(out.Item, &it); err != nil {
		return 0, err
	}
	return it.Version, nil
}

// Commit writes the snapshot and the new history rows in one transaction. The
// snapshot put is conditioned on the expected version and every history put on
// its seq not existing yet; any failed condition cancels the whole write.
func (r *NegotiationDynamoRepository) Commit(ctx context.Context, state entities.NegotiationState, entries []entities.NegotiationHistoryEntry, expectedVersion int64) error {
	av, err := attributevalue.MarshalMap(toNegotiationItem(state))
	if err != nil {
		return err
	}

	snapshot := &types.Put{
		TableName: aws.String(r.stateTable),
		Item:      av,
	}
	if expectedVersion == 0 {
		snapshot.ConditionExpression = aws.String("attribute_not_exists(#offer_id)")
		snapshot.ExpressionAttributeNames = map[string]string{"#offer_id": "offer_id"}
	} else {
		snapshot.ConditionExpression = aws.String("#version = :expected")
		snapshot.ExpressionAttributeNames = map[string]string{"#version": "version"}
		snapshot.ExpressionAttributeValues = map[string]types.AttributeValue{
			":expected": &types.AttributeValueMemberN{Value: strconv.FormatInt(expectedVersion, 10)},
		}
	}

	items := make([]types.TransactWriteItem, 0, len(entries)+1)
	items = append(items, types.TransactWriteItem{Put: snapshot})
	for _, e := range entries {
		it := toHistoryItem(e)
		it.OfferID = state.OfferID
		hav, err := attributevalue.MarshalMap(it)
		if err != nil {
			return err
		}
		items = append(items, types.TransactWriteItem{Put: &types.Put{
			TableName:                aws.String(r.historyTable),
			Item:                     hav,
			ConditionExpression:      aws.String("attribute_not_exists(#seq)"),
			ExpressionAttributeNames: map[string]string{"#seq": "seq"},
		}})
	}

	_, err = r.ddb.TransactWriteItems(ctx, &dynamodb.TransactWriteItemsInput{TransactItems: items})
	if err != nil {
		if isConditionalCancel(err) {
			return interfaces.ErrStaleVersion
		}
		return err
	}
	return nil
}

// isConditionalCancel reports whether a transaction was cancelled by a failed
// condition. Throttling and transaction conflicts stay retryable.
func isConditionalCancel(err error) bool {
	var tce *types.TransactionCanceledException
	if !errors.As(err, &tce) {
		return false
	}
	for _, reason := range tce.CancellationReasons {
		if aws.ToString(reason.Code) == "ConditionalCheckFailed" {
			return true
		}
	}
	return false
}

func toNegotiationItem(s entities.NegotiationState) negotiationItem {
	cols := toTermColumns(s.CurrentTerms)
	return negotiationItem{
		OfferID:             s.OfferID,
		Price:               cols.Price,
		Date:                cols.Date,
		Time:                cols.Time,
		Materials:           cols.Materials,
		Scope:               cols.Scope,
		SeekerConfirmed:     s.ConfirmationStatus.Seeker,
		ProviderConfirmed:   s.ConfirmationStatus.Provider,
		LastUpdatedBy:       string(s.LastUpdatedBy),
		LastUpdatedByUserID: s.LastUpdatedByUserID,
		Status:              string(s.Status),
		Version:             s.Version,
		LastSeq:             s.LastSeq(),
		CreatedAt:           formatTime(s.CreatedAt),
		UpdatedAt:           formatTime(s.UpdatedAt),
	}
}

func fromNegotiationItem(it negotiationItem) (entities.NegotiationState, error) {
	terms, err := termColumns{
		Price:     it.Price,
		Date:      it.Date,
		Time:      it.Time,
		Materials: it.Materials,
		Scope:     it.Scope,
	}.terms()
	if err != nil {
		return entities.NegotiationState{}, fmt.Errorf("negotiation %s: %w", it.OfferID, err)
	}
	return entities.NegotiationState{
		OfferID:      it.OfferID,
		CurrentTerms: terms,
		ConfirmationStatus: entities.ConfirmationStatus{
			Seeker:   it.SeekerConfirmed,
			Provider: it.ProviderConfirmed,
		},
		LastUpdatedBy:       entities.Party(it.LastUpdatedBy),
		LastUpdatedByUserID: it.LastUpdatedByUserID,
		Status:              entities.OfferStatus(it.Status),
		Version:             it.Version,
		CreatedAt:           parseTime(it.CreatedAt),
		UpdatedAt:           parseTime(it.UpdatedAt),
	}, nil
}

func toHistoryItem(e entities.NegotiationHistoryEntry) historyItem {
	return historyItem{
		OfferID:         e.OfferID,
		Seq:             e.Seq,
		ID:              e.ID,
		Field:           string(e.Field),
		OldValue:        e.OldValue,
		NewValue:        e.NewValue,
		ChangedBy:       string(e.ChangedBy),
		ChangedByUserID: e.ChangedByUserID,
		Timestamp:       formatTime(e.Timestamp),
		Note:            e.Note,
	}
}

func fromHistoryItem(it historyItem) entities.NegotiationHistoryEntry {
	return entities.NegotiationHistoryEntry{
		Seq:             it.Seq,
		ID:              it.ID,
		OfferID:         it.OfferID,
		Field:           entities.TermField(it.Field),
		OldValue:        it.OldValue,
		NewValue:        it.NewValue,
		ChangedBy:       entities.Party(it.ChangedBy),
		ChangedByUserID: it.ChangedByUserID,
		Timestamp:       parseTime(it.Timestamp),
		Note:            it.Note,
	}
}

func (r *NegotiationDynamoRepository) TableNames() (state, history string) {
	return r.stateTable, r.historyTable
}
