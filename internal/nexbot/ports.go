package nexbot

import (
	"context"
	"time"

	"github.com/amitanshusahu/NexSync/db/models"
)

// Inbound is one chat message as seen by the dispatcher.
type Inbound struct {
	RawText      string
	SenderHandle string
	SenderID     int64
	ChatID       int64
}

// Transport sends replies back to the chat platform. SendToUser targets the
// participant's private channel.
type Transport interface {
	SendToChat(ctx context.Context, chatID int64, text string) error
	SendToUser(ctx context.Context, userID int64, text string) error
}

// Store is the persistence port. Ensure* operations are atomic
// insert-or-fetch: uniqueness is enforced by the store, and the loser of a
// concurrent create converges on the winner's row.
type Store interface {
	EnsureUser(ctx context.Context, username, password string) (user *models.User, created bool, err error)
	EnsureProject(ctx context.Context, name, createdBy string) (project *models.Project, created bool, err error)
	CreateTask(ctx context.Context, task *models.Task) error
	CreateNote(ctx context.Context, note *models.Note) error
	CreateAuthKey(ctx context.Context, key *models.AuthKey) error
	CompletedTasksBetween(ctx context.Context, from, to time.Time) ([]models.Task, error)
}
