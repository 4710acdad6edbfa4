package aws

import (
	"context"
	"errors"
	"fmt"

	"genomics-annotation-service/internal/domain"
	"genomics-annotation-service/internal/domain/model"
	"genomics-annotation-service/internal/domain/ports/repository"

	awssdk "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

var _ repository.JobRepository = (*DynamoJobRepo)(nil)

// jobItem is the table-level shape of a job record. The attribute names are
// the wire contract shared with the message payloads.
type jobItem struct {
	JobID              string          `dynamodbav:"job_id"`
	UserID             string          `dynamodbav:"user_id"`
	InputFileName      string          `dynamodbav:"input_file_name"`
	InputsBucket       string          `dynamodbav:"s3_inputs_bucket"`
	InputKey           string          `dynamodbav:"s3_key_input_file"`
	SubmitTime         int64           `dynamodbav:"submit_time"`
	Status             model.JobStatus `dynamodbav:"job_status"`
	CompleteTime       int64           `dynamodbav:"complete_time,omitempty"`
	ResultsBucket      string          `dynamodbav:"s3_results_bucket,omitempty"`
	ResultKey          string          `dynamodbav:"s3_key_result_file,omitempty"`
	LogKey             string          `dynamodbav:"s3_key_log_file,omitempty"`
	ArchiveID          string          `dynamodbav:"results_file_archive_id,omitempty"`
	AvailableInGlacier bool            `dynamodbav:"available_in_glacier,omitempty"`
}

func (it *jobItem) toModel() *model.AnnotationJob {
	return &model.AnnotationJob{
		ID:                 it.JobID,
		UserID:             it.UserID,
		InputFileName:      it.InputFileName,
		InputsBucket:       it.InputsBucket,
		InputKey:           it.InputKey,
		SubmitTime:         it.SubmitTime,
		Status:             it.Status,
		CompleteTime:       it.CompleteTime,
		ResultsBucket:      it.ResultsBucket,
		ResultKey:          it.ResultKey,
		LogKey:             it.LogKey,
		ArchiveID:          it.ArchiveID,
		AvailableInGlacier: it.AvailableInGlacier,
	}
}

// DynamoJobRepo implements the job table over DynamoDB. The conditional
// writes here are the pipeline's only concurrency control.
type DynamoJobRepo struct {
	client    *dynamodb.Client
	table     string
	userIndex string
}

func NewDynamoJobRepo(client *dynamodb.Client, table, userIndex string) *DynamoJobRepo {
	return &DynamoJobRepo{client: client, table: table, userIndex: userIndex}
}

func (r *DynamoJobRepo) Create(ctx context.Context, job *model.AnnotationJob) error {
	item, err := attributevalue.MarshalMap(jobItem{
		JobID:         job.ID,
		UserID:        job.UserID,
		InputFileName: job.InputFileName,
		InputsBucket:  job.InputsBucket,
		InputKey:      job.InputKey,
		SubmitTime:    job.SubmitTime,
		Status:        job.Status,
	})
	if err != nil {
		return err
	}
	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:           awssdk.String(r.table),
		Item:                item,
		ConditionExpression: awssdk.String("attribute_not_exists(job_id)"),
	})
	if isConditionalCheckFailed(err) {
		return domain.ErrAlreadyExists
	}
	return err
}

func (r *DynamoJobRepo) FindByID(ctx context.Context, jobID string) (*model.AnnotationJob, error) {
	out, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: awssdk.String(r.table),
		Key:       jobKey(jobID),
	})
	if err != nil {
		return nil, err
	}
	if len(out.Item) == 0 {
		return nil, domain.ErrNotFound
	}
	var it jobItem
	if err := attributevalue.UnmarshalMap(out.Item, &it); err != nil {
		return nil, err
	}
	return it.toModel(), nil
}

func (r *DynamoJobRepo) ListByUser(ctx context.Context, userID string) ([]*model.AnnotationJob, error) {
	var jobs []*model.AnnotationJob
	var startKey map[string]types.AttributeValue
	for {
		out, err := r.client.Query(ctx, &dynamodb.QueryInput{
			TableName:              awssdk.String(r.table),
			IndexName:              awssdk.String(r.userIndex),
			KeyConditionExpression: awssdk.String("user_id = :uid"),
			ExpressionAttributeValues: map[string]types.AttributeValue{
				":uid": &types.AttributeValueMemberS{Value: userID},
			},
			ExclusiveStartKey: startKey,
		})
		if err != nil {
			return nil, err
		}
		var items []jobItem
		if err := attributevalue.UnmarshalListOfMaps(out.Items, &items); err != nil {
			return nil, err
		}
		for i := range items {
			jobs = append(jobs, items[i].toModel())
		}
		if out.LastEvaluatedKey == nil {
			return jobs, nil
		}
		startKey = out.LastEvaluatedKey
	}
}

func (r *DynamoJobRepo) TransitionStatus(ctx context.Context, jobID string, from, to model.JobStatus) error {
	if !model.ValidTransition(from, to) {
		return fmt.Errorf("%w: %s -> %s", domain.ErrInvalidArgument, from, to)
	}
	_, err := r.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:           awssdk.String(r.table),
		Key:                 jobKey(jobID),
		UpdateExpression:    awssdk.String("SET job_status = :to"),
		ConditionExpression: awssdk.String("job_status = :from"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":to":   &types.AttributeValueMemberS{Value: string(to)},
			":from": &types.AttributeValueMemberS{Value: string(from)},
		},
	})
	if isConditionalCheckFailed(err) {
		return domain.ErrPreconditionFailed
	}
	return err
}

func (r *DynamoJobRepo) SetCompletion(ctx context.Context, jobID string, c repository.Completion) error {
	_, err := r.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName: awssdk.String(r.table),
		Key:       jobKey(jobID),
		UpdateExpression: awssdk.String(
			"SET job_status = :status, complete_time = :ct, s3_results_bucket = :rb, s3_key_result_file = :rk, s3_key_log_file = :lk"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":status": &types.AttributeValueMemberS{Value: string(model.JobStatusCompleted)},
			":ct":     &types.AttributeValueMemberN{Value: fmt.Sprintf("%d", c.CompleteTime)},
			":rb":     &types.AttributeValueMemberS{Value: c.ResultsBucket},
			":rk":     &types.AttributeValueMemberS{Value: c.ResultKey},
			":lk":     &types.AttributeValueMemberS{Value: c.LogKey},
		},
	})
	return err
}

func (r *DynamoJobRepo) SetArchived(ctx context.Context, jobID, archiveID string) error {
	_, err := r.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:        awssdk.String(r.table),
		Key:              jobKey(jobID),
		UpdateExpression: awssdk.String("SET results_file_archive_id = :aid, available_in_glacier = :avail"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":aid":   &types.AttributeValueMemberS{Value: archiveID},
			":avail": &types.AttributeValueMemberBOOL{Value: true},
		},
	})
	return err
}

func (r *DynamoJobRepo) SetRestored(ctx context.Context, jobID string) error {
	_, err := r.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:        awssdk.String(r.table),
		Key:              jobKey(jobID),
		UpdateExpression: awssdk.String("SET available_in_glacier = :avail"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":avail": &types.AttributeValueMemberBOOL{Value: false},
		},
	})
	return err
}

func jobKey(jobID string) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		"job_id": &types.AttributeValueMemberS{Value: jobID},
	}
}

func isConditionalCheckFailed(err error) bool {
	var cfe *types.ConditionalCheckFailedException
	return errors.As(err, &cfe)
}
