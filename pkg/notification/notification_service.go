package notification

import (
	"context"
	"encoding/json"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/aws/aws-sdk-go-v2/service/sns/types"
)

const (
	EventUserFollowed   = "user.followed"
	EventRecipeCreated  = "recipe.created"
	EventRecipeFavorite = "recipe.favorited"
)

type (
	Event struct {
		Type      string    `json:"type"`
		ActorID   string    `json:"actor_id"`
		SubjectID string    `json:"subject_id"`
		Occurred  time.Time `json:"occurred"`
	}

	// Publisher fans activity events out to subscribers. Publishing is best
	// effort: callers log failures and carry on.
	Publisher interface {
		Publish(ctx context.Context, event Event) error
	}

	SNSAPI interface {
		Publish(ctx context.Context, params *sns.PublishInput, optFns ...func(*sns.Options)) (*sns.PublishOutput, error)
	}

	snsPublisher struct {
		sns      SNSAPI
		topicArn string
	}

	noopPublisher struct{}
)

func NewEvent(eventType, actorID, subjectID string) Event {
	return Event{
		Type:      eventType,
		ActorID:   actorID,
		SubjectID: subjectID,
		Occurred:  time.Now().UTC(),
	}
}

func NewSNSPublisher(client SNSAPI, topicArn string) Publisher {
	return &snsPublisher{sns: client, topicArn: topicArn}
}

func NewNoopPublisher() Publisher {
	return noopPublisher{}
}

func (p *snsPublisher) Publish(ctx context.Context, event Event) error {
	body, err := json.Marshal(event)
	if err != nil {
		return err
	}

	_, err = p.sns.Publish(ctx, &sns.PublishInput{
		TopicArn: aws.String(p.topicArn),
		Message:  aws.String(string(body)),
		MessageAttributes: map[string]types.MessageAttributeValue{
			"event_type": {
				DataType:    aws.String("String"),
				StringValue: aws.String(event.Type),
			},
		},
	})
	return err
}

func (noopPublisher) Publish(context.Context, Event) error {
	return nil
}
