package aws

import (
	"context"
	"strconv"

	"genomics-annotation-service/internal/domain/ports/adapter"

	awssdk "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/aws/aws-sdk-go-v2/service/sqs/types"
)

var _ adapter.QueueChannel = (*SQSChannel)(nil)

// SQSChannel wraps one SQS queue with long-poll receive semantics. Bodies of
// SNS-fed queues are unwrapped before they reach consumers.
type SQSChannel struct {
	client      *sqs.Client
	queueURL    string
	waitSeconds int32
}

func NewSQSChannel(client *sqs.Client, queueURL string, waitSeconds int) *SQSChannel {
	return &SQSChannel{
		client:      client,
		queueURL:    queueURL,
		waitSeconds: int32(waitSeconds),
	}
}

func (c *SQSChannel) Receive(ctx context.Context) (*adapter.Message, error) {
	out, err := c.client.ReceiveMessage(ctx, &sqs.ReceiveMessageInput{
		QueueUrl:            awssdk.String(c.queueURL),
		MaxNumberOfMessages: 1,
		WaitTimeSeconds:     c.waitSeconds,
		MessageSystemAttributeNames: []types.MessageSystemAttributeName{
			types.MessageSystemAttributeNameApproximateReceiveCount,
		},
	})
	if err != nil {
		return nil, err
	}
	if len(out.Messages) == 0 {
		return nil, nil
	}

	m := out.Messages[0]
	received := 0
	if v, ok := m.Attributes[string(types.MessageSystemAttributeNameApproximateReceiveCount)]; ok {
		received, _ = strconv.Atoi(v)
	}
	return &adapter.Message{
		ID:           awssdk.ToString(m.MessageId),
		Receipt:      awssdk.ToString(m.ReceiptHandle),
		Body:         unwrapNotification([]byte(awssdk.ToString(m.Body))),
		ReceiveCount: received,
	}, nil
}

func (c *SQSChannel) Delete(ctx context.Context, receipt string) error {
	_, err := c.client.DeleteMessage(ctx, &sqs.DeleteMessageInput{
		QueueUrl:      awssdk.String(c.queueURL),
		ReceiptHandle: awssdk.String(receipt),
	})
	return err
}

func (c *SQSChannel) Send(ctx context.Context, body []byte) error {
	_, err := c.client.SendMessage(ctx, &sqs.SendMessageInput{
		QueueUrl:    awssdk.String(c.queueURL),
		MessageBody: awssdk.String(string(body)),
	})
	return err
}
