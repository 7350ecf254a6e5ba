package kafkahandlers

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/confluentinc/confluent-kafka-go/v2/kafka"
	"github.com/google/uuid"

	"github.com/teamlattice/lattice/internal/service"
)

// AccountCreatedMessage is the shape of an account-created notification on
// the platform account stream.
type AccountCreatedMessage struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

// AccountCreatedConsumerLogic mirrors announced accounts into the local
// directory, which in turn triggers the upgrade reactor via the event bus.
type AccountCreatedConsumerLogic struct {
	accounts *service.AccountService
}

func NewAccountCreatedConsumerLogic(accounts *service.AccountService) *AccountCreatedConsumerLogic {
	return &AccountCreatedConsumerLogic{accounts: accounts}
}

// HandleAccountCreated is the MessageHandler passed to the Kafka consumer.
// Malformed messages are skipped, not retried; mirror failures are
// returned so the offset is not committed and the message is redelivered.
func (h *AccountCreatedConsumerLogic) HandleAccountCreated(ctx context.Context, msg *kafka.Message) error {
	var acMsg AccountCreatedMessage
	if err := json.Unmarshal(msg.Value, &acMsg); err != nil {
		slog.WarnContext(ctx, "skipping malformed account-created message",
			"error", err, "value", string(msg.Value))
		return nil
	}

	id, err := uuid.Parse(acMsg.ID)
	if err != nil {
		slog.WarnContext(ctx, "skipping account-created message with invalid id",
			"error", err, "id", acMsg.ID)
		return nil
	}

	if acMsg.Email == "" || acMsg.Username == "" {
		slog.WarnContext(ctx, "skipping account-created message with missing identity fields",
			"id", acMsg.ID)
		return nil
	}

	return h.accounts.Mirror(ctx, id, acMsg.Username, acMsg.Email)
}
