package repository

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"

	"quotation_service/internal/domain/entities"
	"quotation_service/internal/usecase/interfaces"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

const (
	DefaultQuotationsTableName = "quotations"
	OwnerIndexName             = "created_by-created_at-index"

	proposalGuardPrefix = "proposal#"
)

// DynamoAPI is the subset of the DynamoDB client the repository uses.
type DynamoAPI interface {
	GetItem(ctx context.Context, in *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
	PutItem(ctx context.Context, in *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
	UpdateItem(ctx context.Context, in *dynamodb.UpdateItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.UpdateItemOutput, error)
	Query(ctx context.Context, in *dynamodb.QueryInput, optFns ...func(*dynamodb.Options)) (*dynamodb.QueryOutput, error)
	TransactWriteItems(ctx context.Context, in *dynamodb.TransactWriteItemsInput, optFns ...func(*dynamodb.Options)) (*dynamodb.TransactWriteItemsOutput, error)
}

type lineItemAttr struct {
	ServiceName string  `dynamodbav:"service_name"`
	Description string  `dynamodbav:"description,omitempty"`
	Quantity    float64 `dynamodbav:"quantity"`
	UnitPrice   float64 `dynamodbav:"unit_price"`
	TotalPrice  float64 `dynamodbav:"total_price"`
}

type hourlyRateAttr struct {
	Role string  `dynamodbav:"role,omitempty"`
	Rate float64 `dynamodbav:"rate"`
}

type quotationItem struct {
	ID                 string           `dynamodbav:"id"`
	ProposalID         string           `dynamodbav:"proposal_id"`
	CustomerName       string           `dynamodbav:"customer_name"`
	CustomerEmail      string           `dynamodbav:"customer_email"`
	CustomerPhone      string           `dynamodbav:"customer_phone,omitempty"`
	CustomerAddress    string           `dynamodbav:"customer_address,omitempty"`
	DevelopmentAddress string           `dynamodbav:"development_address,omitempty"`
	SiteAddress        string           `dynamodbav:"site_address"`
	JobType            []string         `dynamodbav:"job_type"`
	ProjectTitle       string           `dynamodbav:"project_title,omitempty"`
	ProjectDescription string           `dynamodbav:"project_description,omitempty"`
	QuotationType      string           `dynamodbav:"quotation_type,omitempty"`
	Scope              string           `dynamodbav:"scope,omitempty"`
	QuotationDate      string           `dynamodbav:"quotation_date,omitempty"`
	Items              []lineItemAttr   `dynamodbav:"items"`
	Subtotal           float64          `dynamodbav:"subtotal"`
	VATRate            float64          `dynamodbav:"vat_rate"`
	VATAmount          float64          `dynamodbav:"vat_amount"`
	TotalAmount        float64          `dynamodbav:"total_amount"`
	Exclusions         []string         `dynamodbav:"exclusions,omitempty"`
	PaymentTerms       string           `dynamodbav:"payment_terms,omitempty"`
	HourlyRates        []hourlyRateAttr `dynamodbav:"hourly_rates,omitempty"`
	ValidUntil         string           `dynamodbav:"valid_until,omitempty"`
	Details            map[string]any   `dynamodbav:"details,omitempty"`
	Status             string           `dynamodbav:"status"`
	CreatedBy          string           `dynamodbav:"created_by"`
	Version            int64            `dynamodbav:"version"`
	CreatedAt          string           `dynamodbav:"created_at"`
	UpdatedAt          string           `dynamodbav:"updated_at"`
}

// proposalGuardItem reserves a proposal id. It shares the table with the
// quotations and points back at the owning quotation.
type proposalGuardItem struct {
	ID          string `dynamodbav:"id"`
	QuotationID string `dynamodbav:"quotation_id"`
}

// QuotationDynamoRepository persists quotations in DynamoDB.
//
// Table requirements:
//   - PK: id (string)
//   - GSI created_by-created_at-index: PK created_by, SK created_at (strings)
//
// Proposal id uniqueness is enforced by a guard item keyed "proposal#<id>",
// written and deleted in the same transaction as the quotation. Public lookups
// go through the guard with consistent reads.
type QuotationDynamoRepository struct {
	ddb       DynamoAPI
	tableName string
}

var _ interfaces.IQuotationRepository = (*QuotationDynamoRepository)(nil)

func NewQuotationDynamoRepository(ddb DynamoAPI, tableName string) *QuotationDynamoRepository {
	if strings.TrimSpace(tableName) == "" {
		tableName = DefaultQuotationsTableName
	}
	return &QuotationDynamoRepository{ddb: ddb, tableName: tableName}
}

func (r *QuotationDynamoRepository) Create(ctx context.Context, q entities.Quotation) (entities.Quotation, error) {
	av, err := attributevalue.MarshalMap(toQuotationItem(q))
	if err != nil {
		return entities.Quotation{}, err
	}
	guard, err := attributevalue.MarshalMap(proposalGuardItem{ID: proposalGuardPrefix + q.ProposalID, QuotationID: q.ID})
	if err != nil {
		return entities.Quotation{}, err
	}

	names := map[string]string{"#id": "id"}
	_, err = r.ddb.TransactWriteItems(ctx, &dynamodb.TransactWriteItemsInput{
		TransactItems: []types.TransactWriteItem{
			{Put: &types.Put{
				TableName:                aws.String(r.tableName),
				Item:                     av,
				ConditionExpression:      aws.String("attribute_not_exists(#id)"),
				ExpressionAttributeNames: names,
			}},
			{Put: &types.Put{
				TableName:                aws.String(r.tableName),
				Item:                     guard,
				ConditionExpression:      aws.String("attribute_not_exists(#id)"),
				ExpressionAttributeNames: names,
			}},
		},
	})
	if err != nil {
		if conditionFailedAt(err, 1) {
			return entities.Quotation{}, interfaces.ErrProposalIDConflict
		}
		return entities.Quotation{}, err
	}
	return q, nil
}

func (r *QuotationDynamoRepository) GetByID(ctx context.Context, id string) (entities.Quotation, error) {
	if id == "" || strings.HasPrefix(id, proposalGuardPrefix) {
		return entities.Quotation{}, nil
	}

	out, err := r.ddb.GetItem(ctx, &dynamodb.GetItemInput{
		TableName:      aws.String(r.tableName),
		Key:            keyOf(id),
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return entities.Quotation{}, err
	}
	if len(out.Item) == 0 {
		return entities.Quotation{}, nil
	}

	var it quotationItem
	if err := attributevalue.UnmarshalMap(out.Item, &it); err != nil {
		return entities.Quotation{}, err
	}
	return fromQuotationItem(it), nil
}

func (r *QuotationDynamoRepository) GetByProposalID(ctx context.Context, proposalID string) (entities.Quotation, error) {
	out, err := r.ddb.GetItem(ctx, &dynamodb.GetItemInput{
		TableName:      aws.String(r.tableName),
		Key:            keyOf(proposalGuardPrefix + proposalID),
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return entities.Quotation{}, err
	}
	if len(out.Item) == 0 {
		return entities.Quotation{}, nil
	}

	var guard proposalGuardItem
	if err := attributevalue.UnmarshalMap(out.Item, &guard); err != nil {
		return entities.Quotation{}, err
	}
	q, err := r.GetByID(ctx, guard.QuotationID)
	if err != nil {
		return entities.Quotation{}, err
	}
	if q.ProposalID != proposalID {
		// dangling guard
		return entities.Quotation{}, nil
	}
	return q, nil
}

func (r *QuotationDynamoRepository) ListByOwner(ctx context.Context, ownerID string) ([]entities.Quotation, error) {
	paginator := dynamodb.NewQueryPaginator(r.ddb, &dynamodb.QueryInput{
		TableName:              aws.String(r.tableName),
		IndexName:              aws.String(OwnerIndexName),
		KeyConditionExpression: aws.String("#created_by = :owner"),
		ExpressionAttributeNames: map[string]string{
			"#created_by": "created_by",
		},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":owner": &types.AttributeValueMemberS{Value: ownerID},
		},
		ScanIndexForward: aws.Bool(false),
	})

	out := []entities.Quotation{}
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, err
		}
		var items []quotationItem
		if err := attributevalue.UnmarshalListOfMaps(page.Items, &items); err != nil {
			return nil, err
		}
		for _, it := range items {
			out = append(out, fromQuotationItem(it))
		}
	}
	return out, nil
}

// Update replaces the stored document when its version and status are still
// the ones the caller read.
func (r *QuotationDynamoRepository) Update(ctx context.Context, q entities.Quotation) (entities.Quotation, error) {
	av, err := attributevalue.MarshalMap(toQuotationItem(q))
	if err != nil {
		return entities.Quotation{}, err
	}

	_, err = r.ddb.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:           aws.String(r.tableName),
		Item:                av,
		ConditionExpression: aws.String("attribute_exists(#id) AND #version = :read_version AND #status = :status"),
		ExpressionAttributeNames: map[string]string{
			"#id":      "id",
			"#version": "version",
			"#status":  "status",
		},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":read_version": &types.AttributeValueMemberN{Value: strconv.FormatInt(q.Version-1, 10)},
			":status":       &types.AttributeValueMemberS{Value: string(q.Status)},
		},
		ReturnValuesOnConditionCheckFailure: types.ReturnValuesOnConditionCheckFailureAllOld,
	})
	if err != nil {
		var cfe *types.ConditionalCheckFailedException
		if errors.As(err, &cfe) {
			if len(cfe.Item) == 0 {
				return entities.Quotation{}, nil
			}
			return entities.Quotation{}, interfaces.ErrStaleQuotation
		}
		return entities.Quotation{}, err
	}
	return q, nil
}

func (r *QuotationDynamoRepository) UpdateStatus(ctx context.Context, id string, from, to entities.QuotationStatus) (entities.Quotation, error) {
	return r.update(ctx, id, func(now string) updateSpec {
		return updateSpec{
			expr:      "SET #status = :to, #updated_at = :updated_at ADD #version :one",
			condition: "#status = :from",
			values: map[string]types.AttributeValue{
				":to":         &types.AttributeValueMemberS{Value: string(to)},
				":from":       &types.AttributeValueMemberS{Value: string(from)},
				":updated_at": &types.AttributeValueMemberS{Value: now},
				":one":        &types.AttributeValueMemberN{Value: "1"},
			},
			names: map[string]string{
				"#status":     "status",
				"#updated_at": "updated_at",
				"#version":    "version",
			},
		}
	})
}

// Delete removes the quotation and its proposal guard. It reports false when
// the quotation was already gone.
func (r *QuotationDynamoRepository) Delete(ctx context.Context, q entities.Quotation) (bool, error) {
	_, err := r.ddb.TransactWriteItems(ctx, &dynamodb.TransactWriteItemsInput{
		TransactItems: []types.TransactWriteItem{
			{Delete: &types.Delete{
				TableName:                aws.String(r.tableName),
				Key:                      keyOf(q.ID),
				ConditionExpression:      aws.String("attribute_exists(#id)"),
				ExpressionAttributeNames: map[string]string{"#id": "id"},
			}},
			{Delete: &types.Delete{
				TableName: aws.String(r.tableName),
				Key:       keyOf(proposalGuardPrefix + q.ProposalID),
			}},
		},
	})
	if err != nil {
		if conditionFailedAt(err, 0) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

type updateSpec struct {
	expr      string
	condition string
	values    map[string]types.AttributeValue
	names     map[string]string
}

func (r *QuotationDynamoRepository) update(ctx context.Context, id string, build func(now string) updateSpec) (entities.Quotation, error) {
	spec := build(formatTime(time.Now()))

	condition := "attribute_exists(#id)"
	if spec.condition != "" {
		condition += " AND " + spec.condition
	}

	out, err := r.ddb.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:                 aws.String(r.tableName),
		Key:                       keyOf(id),
		ConditionExpression:       aws.String(condition),
		UpdateExpression:          aws.String(spec.expr),
		ExpressionAttributeValues: spec.values,
		ExpressionAttributeNames:  mergeNames(spec.names, map[string]string{"#id": "id"}),
		ReturnValues:              types.ReturnValueAllNew,
	})
	if err != nil {
		var cfe *types.ConditionalCheckFailedException
		if errors.As(err, &cfe) {
			return entities.Quotation{}, nil
		}
		return entities.Quotation{}, err
	}
	if len(out.Attributes) == 0 {
		return entities.Quotation{}, nil
	}
	var it quotationItem
	if err := attributevalue.UnmarshalMap(out.Attributes, &it); err != nil {
		return entities.Quotation{}, err
	}
	return fromQuotationItem(it), nil
}

func keyOf(id string) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		"id": &types.AttributeValueMemberS{Value: id},
	}
}

// conditionFailedAt reports whether a cancelled transaction failed the
// condition of its i-th item.
func conditionFailedAt(err error, i int) bool {
	var tce *types.TransactionCanceledException
	if !errors.As(err, &tce) || len(tce.CancellationReasons) <= i {
		return false
	}
	return aws.ToString(tce.CancellationReasons[i].Code) == "ConditionalCheckFailed"
}

func toQuotationItem(q entities.Quotation) quotationItem {
	jobTypes := make([]string, 0, len(q.JobType))
	for _, jt := range q.JobType {
		jobTypes = append(jobTypes, string(jt))
	}
	items := make([]lineItemAttr, 0, len(q.Items))
	for _, li := range q.Items {
		items = append(items, lineItemAttr(li))
	}
	rates := make([]hourlyRateAttr, 0, len(q.HourlyRates))
	for _, hr := range q.HourlyRates {
		rates = append(rates, hourlyRateAttr(hr))
	}

	it := quotationItem{
		ID:                 q.ID,
		ProposalID:         q.ProposalID,
		CustomerName:       q.CustomerName,
		CustomerEmail:      q.CustomerEmail,
		CustomerPhone:      q.CustomerPhone,
		CustomerAddress:    q.CustomerAddress,
		DevelopmentAddress: q.DevelopmentAddress,
		SiteAddress:        q.SiteAddress,
		JobType:            jobTypes,
		ProjectTitle:       q.ProjectTitle,
		ProjectDescription: q.ProjectDescription,
		QuotationType:      q.QuotationType,
		Scope:              q.Scope,
		Items:              items,
		Subtotal:           q.Subtotal,
		VATRate:            q.VATRate,
		VATAmount:          q.VATAmount,
		TotalAmount:        q.TotalAmount,
		Exclusions:         q.Exclusions,
		PaymentTerms:       q.PaymentTerms,
		HourlyRates:        rates,
		Details:            q.Details,
		Status:             string(q.Status),
		CreatedBy:          q.CreatedBy,
		Version:            q.Version,
		CreatedAt:          formatTime(q.CreatedAt),
		UpdatedAt:          formatTime(q.UpdatedAt),
	}
	if !q.QuotationDate.IsZero() {
		it.QuotationDate = formatTime(q.QuotationDate)
	}
	if q.ValidUntil != nil {
		it.ValidUntil = formatTime(*q.ValidUntil)
	}
	return it
}

func fromQuotationItem(it quotationItem) entities.Quotation {
	jobTypes := make([]entities.JobType, 0, len(it.JobType))
	for _, jt := range it.JobType {
		jobTypes = append(jobTypes, entities.JobType(jt))
	}
	items := make([]entities.LineItem, 0, len(it.Items))
	for _, li := range it.Items {
		items = append(items, entities.LineItem(li))
	}
	var rates []entities.HourlyRate
	for _, hr := range it.HourlyRates {
		rates = append(rates, entities.HourlyRate(hr))
	}

	q := entities.Quotation{
		ID:                 it.ID,
		ProposalID:         it.ProposalID,
		CustomerName:       it.CustomerName,
		CustomerEmail:      it.CustomerEmail,
		CustomerPhone:      it.CustomerPhone,
		CustomerAddress:    it.CustomerAddress,
		DevelopmentAddress: it.DevelopmentAddress,
		SiteAddress:        it.SiteAddress,
		JobType:            jobTypes,
		ProjectTitle:       it.ProjectTitle,
		ProjectDescription: it.ProjectDescription,
		QuotationType:      it.QuotationType,
		Scope:              it.Scope,
		QuotationDate:      parseTime(it.QuotationDate),
		Items:              items,
		Subtotal:           it.Subtotal,
		VATRate:            it.VATRate,
		VATAmount:          it.VATAmount,
		TotalAmount:        it.TotalAmount,
		Exclusions:         it.Exclusions,
		PaymentTerms:       it.PaymentTerms,
		HourlyRates:        rates,
		Details:            it.Details,
		Status:             entities.QuotationStatus(it.Status),
		CreatedBy:          it.CreatedBy,
		Version:            it.Version,
		CreatedAt:          parseTime(it.CreatedAt),
		UpdatedAt:          parseTime(it.UpdatedAt),
	}
	if it.ValidUntil != "" {
		t := parseTime(it.ValidUntil)
		q.ValidUntil = &t
	}
	return q
}
