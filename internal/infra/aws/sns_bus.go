package aws

import (
	"context"
	"encoding/json"

	"genomics-annotation-service/internal/domain/ports/adapter"

	awssdk "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sns"
)

var _ adapter.NotificationBus = (*SNSBus)(nil)

// SNSBus publishes JSON payloads to one topic.
type SNSBus struct {
	client   *sns.Client
	topicARN string
}

func NewSNSBus(client *sns.Client, topicARN string) *SNSBus {
	return &SNSBus{client: client, topicARN: topicARN}
}

func (b *SNSBus) Publish(ctx context.Context, payload any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	_, err = b.client.Publish(ctx, &sns.PublishInput{
		TopicArn: awssdk.String(b.topicARN),
		Message:  awssdk.String(string(body)),
	})
	return err
}
