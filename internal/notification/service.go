package notification

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"time"

	authrepo "github.com/wsabol/psychic-chat-poc-sub000/internal/auth/repository"
	oracledomain "github.com/wsabol/psychic-chat-poc-sub000/internal/oracle/domain"
	"github.com/wsabol/psychic-chat-poc-sub000/pkg/fcm"
	"github.com/wsabol/psychic-chat-poc-sub000/pkg/sse"

	"cloud.google.com/go/pubsub"
	"google.golang.org/api/option"
)

// ContentReadyEvent is the message published when a fresh reading lands.
type ContentReadyEvent struct {
	UserID    string `json:"userId"`
	ReadingID string `json:"readingId"`
	Kind      string `json:"kind"`
	SubKey    string `json:"subKey,omitempty"`
	Brief     string `json:"brief"`
	LocalDate string `json:"localDate"`
	Timestamp string `json:"timestamp"`
}

// Service publishes content-ready events to Pub/Sub and fans received
// events out to SSE streams and FCM devices. Publishing is best-effort:
// the generation pipeline logs failures and moves on.
type Service struct {
	pubsubClient *pubsub.Client
	sseManager   *sse.Manager
	deviceRepo   authrepo.DeviceTokenRepository
	fcmClient    *fcm.Client
	projectID    string
	topicName    string
	subName      string
}

func NewService(projectID, topicName, credentialsFile string, sseManager *sse.Manager, deviceRepo authrepo.DeviceTokenRepository, fcmClient *fcm.Client) (*Service, error) {
	ctx := context.Background()

	var opts []option.ClientOption
	if credentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsFile))
	}

	client, err := pubsub.NewClient(ctx, projectID, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create pubsub client: %v", err)
	}

	return &Service{
		pubsubClient: client,
		sseManager:   sseManager,
		deviceRepo:   deviceRepo,
		fcmClient:    fcmClient,
		projectID:    projectID,
		topicName:    topicName,
		subName:      topicName + "-sub", // Convention: topic-sub
	}, nil
}

// NotifyContentReady implements the generation pipeline's Notifier.
func (s *Service) NotifyContentReady(userID string, reading *oracledomain.Reading) error {
	event := ContentReadyEvent{
		UserID:    userID,
		ReadingID: reading.ID,
		Kind:      string(reading.Variant.Kind()),
		SubKey:    reading.Variant.SubKey(),
		Brief:     reading.Content.Brief,
		LocalDate: reading.Stamp.LocalDate,
		Timestamp: reading.Stamp.LocalTimestamp,
	}
	data, err := json.Marshal(event)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	topic := s.pubsubClient.Topic(s.topicName)
	defer topic.Stop()

	result := topic.Publish(ctx, &pubsub.Message{Data: data})
	if _, err := result.Get(ctx); err != nil {
		return fmt.Errorf("failed to publish content-ready event: %v", err)
	}
	return nil
}

// Start subscribes and fans events out until ctx is cancelled. Run it in
// its own goroutine.
func (s *Service) Start(ctx context.Context) {
	log.Printf("[PubSub] Starting notification service with topic: %s, subscription: %s", s.topicName, s.subName)

	sub := s.pubsubClient.Subscription(s.subName)
	exists, err := sub.Exists(ctx)
	if err != nil {
		log.Printf("[PubSub] Error checking subscription existence: %v", err)
		return
	}

	if !exists {
		topic := s.pubsubClient.Topic(s.topicName)
		topicExists, err := topic.Exists(ctx)
		if err != nil {
			log.Printf("[PubSub] Error checking topic existence: %v", err)
			return
		}
		if !topicExists {
			if topic, err = s.pubsubClient.CreateTopic(ctx, s.topicName); err != nil {
				log.Printf("[PubSub] Failed to create topic: %v", err)
				return
			}
		}

		sub, err = s.pubsubClient.CreateSubscription(ctx, s.subName, pubsub.SubscriptionConfig{
			Topic:       topic,
			AckDeadline: 10 * time.Second,
		})
		if err != nil {
			log.Printf("[PubSub] Failed to create subscription: %v", err)
			return
		}
		log.Printf("[PubSub] Created subscription: %s", s.subName)
	}

	err = sub.Receive(ctx, func(ctx context.Context, msg *pubsub.Message) {
		s.handleMessage(ctx, msg)
		msg.Ack()
	})
	if err != nil {
		log.Printf("[PubSub] Error receiving messages: %v", err)
	}
}

func (s *Service) handleMessage(ctx context.Context, msg *pubsub.Message) {
	var event ContentReadyEvent
	if err := json.Unmarshal(msg.Data, &event); err != nil {
		log.Printf("[PubSub] Failed to unmarshal content-ready event: %v", err)
		return
	}

	log.Printf("[PubSub] Content ready for user %s: %s", event.UserID, event.Kind)

	s.sseManager.SendToUser(event.UserID, "content_ready", map[string]interface{}{
		"readingId": event.ReadingID,
		"kind":      event.Kind,
		"subKey":    event.SubKey,
		"brief":     event.Brief,
		"timestamp": event.Timestamp,
	})

	if s.fcmClient == nil || s.deviceRepo == nil {
		return
	}

	go func() {
		tokens, err := s.deviceRepo.GetTokensByUserID(event.UserID)
		if err != nil {
			log.Printf("[FCM] Error getting device tokens for user %s: %v", event.UserID, err)
			return
		}
		if len(tokens) == 0 {
			return
		}

		var tokenStrings []string
		for _, t := range tokens {
			tokenStrings = append(tokenStrings, t.Token)
		}

		body := event.Brief
		if len(body) > 150 {
			body = body[:147] + "..."
		}

		failedTokens, err := s.fcmClient.SendToDevices(context.Background(), tokenStrings, fcm.Notification{
			Title: notificationTitle(event.Kind),
			Body:  body,
			Data: map[string]string{
				"type":         "content_ready",
				"readingId":    event.ReadingID,
				"kind":         event.Kind,
				"click_action": buildClickAction(event.Kind, event.ReadingID),
			},
		})
		if err != nil {
			log.Printf("[FCM] Error sending notifications: %v", err)
			return
		}

		// Tokens the push service rejected are stale; drop them
		for _, token := range failedTokens {
			if err := s.deviceRepo.DeleteToken(token); err != nil {
				log.Printf("[FCM] Failed to delete stale token: %v", err)
			}
		}
	}()
}

func notificationTitle(kind string) string {
	switch kind {
	case string(oracledomain.KindHoroscope):
		return "Your horoscope is ready"
	case string(oracledomain.KindMoonPhase):
		return "The moon has something to say"
	case string(oracledomain.KindCosmicWeather):
		return "Today's cosmic weather"
	case string(oracledomain.KindVoidOfCourse):
		return "Void-of-course moon alert"
	}
	return "A new reading awaits"
}

// buildClickAction returns the URL path for opening a reading
func buildClickAction(kind, readingID string) string {
	if readingID == "" {
		return "/readings"
	}
	return fmt.Sprintf("/readings/%s/%s", strings.ReplaceAll(kind, "_", "-"), readingID)
}
