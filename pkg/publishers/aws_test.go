package publishers

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/samvad-hq/samvad-news-feed/internal/domain"
	"github.com/samvad-hq/samvad-news-feed/internal/logger"
)

type fakeSQS struct {
	input *sqs.SendMessageInput
	err   error
}

func (f *fakeSQS) SendMessage(_ context.Context, in *sqs.SendMessageInput, _ ...func(*sqs.Options)) (*sqs.SendMessageOutput, error) {
	f.input = in
	if f.err != nil {
		return nil, f.err
	}
	return &sqs.SendMessageOutput{MessageId: aws.String("m-1")}, nil
}

type fakeSNS struct {
	input *sns.PublishInput
	err   error
}

func (f *fakeSNS) Publish(_ context.Context, in *sns.PublishInput, _ ...func(*sns.Options)) (*sns.PublishOutput, error) {
	f.input = in
	if f.err != nil {
		return nil, f.err
	}
	return &sns.PublishOutput{MessageId: aws.String("n-1")}, nil
}

func sampleEvent() Event {
	return NewEvent("football", domain.Result{
		StatusCode: 200,
		Articles:   []domain.Article{{Title: "A", DetailURL: "https://x/a"}},
	})
}

func TestSQSPublisherSendsSnapshot(t *testing.T) {
	client := &fakeSQS{}
	pub := &sqsPublisher{id: "q", queueURL: "https://sqs.local/q", client: client, log: logger.NopLogger{}}

	if err := pub.Publish(context.Background(), sampleEvent()); err != nil {
		t.Fatalf("Publish: %v", err)
	}
	if aws.ToString(client.input.QueueUrl) != "https://sqs.local/q" {
		t.Fatalf("unexpected queue url %q", aws.ToString(client.input.QueueUrl))
	}
	if got := aws.ToString(client.input.MessageAttributes["feed_id"].StringValue); got != "football" {
		t.Fatalf("expected feed_id attribute, got %q", got)
	}

	var evt Event
	if err := json.Unmarshal([]byte(aws.ToString(client.input.MessageBody)), &evt); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if len(evt.Articles) != 1 || evt.Articles[0].Title != "A" || evt.StatusCode != 200 {
		t.Fatalf("unexpected body %#v", evt)
	}
}

func TestSQSPublisherWrapsClientError(t *testing.T) {
	boom := errors.New("throttled")
	pub := &sqsPublisher{id: "q", queueURL: "u", client: &fakeSQS{err: boom}, log: logger.NopLogger{}}
	if err := pub.Publish(context.Background(), sampleEvent()); !errors.Is(err, boom) {
		t.Fatalf("expected wrapped client error, got %v", err)
	}
}

func TestSNSPublisherSendsSnapshot(t *testing.T) {
	client := &fakeSNS{}
	pub := &snsPublisher{id: "t", topicARN: "arn:aws:sns:x:1:feed", client: client, log: logger.NopLogger{}}

	if err := pub.Publish(context.Background(), sampleEvent()); err != nil {
		t.Fatalf("Publish: %v", err)
	}
	if aws.ToString(client.input.TopicArn) != "arn:aws:sns:x:1:feed" {
		t.Fatalf("unexpected topic %q", aws.ToString(client.input.TopicArn))
	}
	if aws.ToString(client.input.Message) == "" {
		t.Fatalf("expected message payload")
	}
}

func TestSNSPublisherWrapsClientError(t *testing.T) {
	boom := errors.New("denied")
	pub := &snsPublisher{id: "t", client: &fakeSNS{err: boom}, log: logger.NopLogger{}}
	if err := pub.Publish(context.Background(), sampleEvent()); !errors.Is(err, boom) {
		t.Fatalf("expected wrapped client error, got %v", err)
	}
}

func TestNewSQSPublisherWithStaticCredentials(t *testing.T) {
	pub, err := newSQSPublisher(context.Background(), PublisherConfig{
		ID:   "q",
		Type: TypeSQS,
		SQS: &SQSPublisherConfig{
			QueueURL: "http://localhost:4566/000000000000/feed",
			AWSAccess: AWSAccess{
				Region:          "us-east-1",
				AccessKeyID:     "test",
				SecretAccessKey: "test",
				Endpoint:        "http://localhost:4566",
			},
		},
	}, nil)
	if err != nil {
		t.Fatalf("newSQSPublisher: %v", err)
	}
	if pub.Type() != TypeSQS || pub.ID() != "q" {
		t.Fatalf("unexpected publisher %s/%s", pub.Type(), pub.ID())
	}
}

func TestNewEventNormalizesNilArticles(t *testing.T) {
	evt := NewEvent("f", domain.Result{StatusCode: 500, Err: errors.New("unexpected status")})
	if evt.Articles == nil || len(evt.Articles) != 0 {
		t.Fatalf("expected empty non-nil articles, got %#v", evt.Articles)
	}
	if evt.Error == "" || evt.DeliveredAt.IsZero() {
		t.Fatalf("expected error text and timestamp, got %#v", evt)
	}
}
