package nexbot

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"strings"
	"time"

	"github.com/amitanshusahu/NexSync/db/models"
)

// DefaultPassword is the fixed placeholder credential issued on first
// sighting of a handle. Downstream first-login flows depend on this value.
const DefaultPassword = "12345678"

const (
	msgNoSender        = "Error: Could not retrieve user information."
	msgNoUsername      = "Error: You don't have a Telegram username set. Please set one in your Telegram settings."
	msgPrivateRetry    = "Error: Please start a private chat with me by sending /start, then try again."
	msgCheckPrivate    = "Check your private messages for your credentials!"
	msgStoreFailure    = "Something went wrong, please try again."
	msgSavedInGeneral  = "Saved in GENERAL"
	msgInvalidPriority = "Invalid priority: %s. Please use P1, P2, P3, UI, UX, or BUG."
)

// Options wires a Dispatcher. Store and Transport are required; the rest
// default to production values.
type Options struct {
	Store     Store
	Transport Transport
	Logger    *slog.Logger
	Location  *time.Location
	SiteURL   string
	Now       func() time.Time
	Pick      func(n int) int
}

// Dispatcher maps recognized slash commands to their side effects. All
// collaborators are injected; there is no module-level bot state.
type Dispatcher struct {
	store   Store
	chat    Transport
	logger  *slog.Logger
	loc     *time.Location
	siteURL string
	now     func() time.Time
	pick    func(n int) int
}

func New(opts Options) *Dispatcher {
	d := &Dispatcher{
		store:   opts.Store,
		chat:    opts.Transport,
		logger:  opts.Logger,
		loc:     opts.Location,
		siteURL: strings.TrimSpace(opts.SiteURL),
		now:     opts.Now,
		pick:    opts.Pick,
	}
	if d.logger == nil {
		d.logger = slog.Default()
	}
	if d.loc == nil {
		d.loc = time.UTC
	}
	if d.siteURL == "" {
		d.siteURL = "https://nexsync.vercel.app"
	}
	if d.now == nil {
		d.now = time.Now
	}
	if d.pick == nil {
		d.pick = rand.IntN
	}
	return d
}

// Handle runs one inbound message to completion. Every failure is terminal
// for that message only: the user has already been replied to by the time an
// error comes back, and nothing is retried here.
func (d *Dispatcher) Handle(ctx context.Context, in Inbound) error {
	cmd, _ := SplitCommand(in.RawText)
	switch NormalizeCommand(cmd) {
	case "/start":
		return d.send(ctx, in.ChatID, startText())
	case "/help":
		return d.send(ctx, in.ChatID, helpText())
	case "/task":
		return d.createTask(ctx, in)
	case "/update":
		return d.queryUpdates(ctx, in)
	case "/note":
		return d.createNote(ctx, in)
	case "/auth":
		return d.createAuthKey(ctx, in)
	case "/login":
		return d.issueCredentials(ctx, in)
	}
	return nil
}

func (d *Dispatcher) createTask(ctx context.Context, in Inbound) error {
	ex := Extract(in.RawText, true)

	user, err := d.resolveIdentity(ctx, in)
	if err != nil {
		return err
	}

	// Unreachable with the closed-set extraction regex, but the guard is part
	// of the flow: a token that is extracted yet fails set membership is
	// rejected, never coerced to the default.
	if !ValidPriority(ex.Priority) {
		_ = d.send(ctx, in.ChatID, fmt.Sprintf(msgInvalidPriority, ex.Priority))
		return &ValidationError{Field: "priority", Value: ex.Priority}
	}

	if ex.Body == "" {
		return nil
	}

	project, err := d.resolveProject(ctx, in, ex.Tag, user.Username)
	if err != nil {
		return err
	}

	task := &models.Task{
		Description: ex.Body,
		Priority:    ex.Priority,
		ProjectID:   &project.ID,
		CreatedBy:   user.Username,
	}
	if err := d.store.CreateTask(ctx, task); err != nil {
		_ = d.send(ctx, in.ChatID, msgStoreFailure)
		return &PersistenceError{Op: "create task", Err: err}
	}
	return d.send(ctx, in.ChatID, taskAcks[d.pick(len(taskAcks))])
}

func (d *Dispatcher) createNote(ctx context.Context, in Inbound) error {
	ex := Extract(in.RawText, false)

	user, err := d.resolveIdentity(ctx, in)
	if err != nil {
		return err
	}
	if ex.Body == "" {
		return nil
	}

	project, err := d.resolveProject(ctx, in, ex.Tag, user.Username)
	if err != nil {
		return err
	}

	note := &models.Note{
		Content:   ex.Body,
		ProjectID: &project.ID,
		CreatedBy: user.Username,
	}
	if err := d.store.CreateNote(ctx, note); err != nil {
		_ = d.send(ctx, in.ChatID, msgStoreFailure)
		return &PersistenceError{Op: "create note", Err: err}
	}
	return d.send(ctx, in.ChatID, "📝 Noted")
}

func (d *Dispatcher) createAuthKey(ctx context.Context, in Inbound) error {
	ex := Extract(in.RawText, false)

	user, err := d.resolveIdentity(ctx, in)
	if err != nil {
		return err
	}
	// Auth keys keep the tag inside the stored content. The tag still routes
	// the key to its project.
	if ex.Raw == "" {
		return nil
	}

	project, err := d.resolveProject(ctx, in, ex.Tag, user.Username)
	if err != nil {
		return err
	}

	key := &models.AuthKey{
		Content:   ex.Raw,
		ProjectID: &project.ID,
		CreatedBy: user.Username,
	}
	if err := d.store.CreateAuthKey(ctx, key); err != nil {
		_ = d.send(ctx, in.ChatID, msgStoreFailure)
		return &PersistenceError{Op: "create auth key", Err: err}
	}
	return d.send(ctx, in.ChatID, "🔑 Noted")
}

func (d *Dispatcher) queryUpdates(ctx context.Context, in Inbound) error {
	if _, err := d.resolveIdentity(ctx, in); err != nil {
		return err
	}

	from, to := DayWindow(d.now().In(d.loc))
	tasks, err := d.store.CompletedTasksBetween(ctx, from, to)
	if err != nil {
		_ = d.send(ctx, in.ChatID, msgStoreFailure)
		return &PersistenceError{Op: "list updates", Err: err}
	}
	return d.send(ctx, in.ChatID, FormatUpdates(tasks))
}

func (d *Dispatcher) issueCredentials(ctx context.Context, in Inbound) error {
	user, err := d.resolveIdentity(ctx, in)
	if err != nil {
		return err
	}

	dm := fmt.Sprintf("Your credentials are:\nUsername: %s\nPassword: %s\ngo to %s to login",
		user.Username, user.Password, d.siteLink())
	if err := d.chat.SendToUser(ctx, in.SenderID, dm); err != nil {
		d.logger.Warn("credential_send_failed", "handle", user.Username, "error", err.Error())
		_ = d.send(ctx, in.ChatID, msgPrivateRetry)
		return &DeliveryError{Err: err}
	}
	return d.send(ctx, in.ChatID, msgCheckPrivate)
}

// resolveIdentity returns the sender's account, provisioning it on first
// sighting. A provisioning write survives a failed credential delivery; in
// that case the user is told how to retry and the current command stops.
func (d *Dispatcher) resolveIdentity(ctx context.Context, in Inbound) (*models.User, error) {
	if in.SenderID == 0 {
		_ = d.send(ctx, in.ChatID, msgNoSender)
		return nil, ErrNoSender
	}
	handle := strings.TrimSpace(in.SenderHandle)
	if handle == "" {
		_ = d.send(ctx, in.ChatID, msgNoUsername)
		return nil, ErrNoHandle
	}

	user, created, err := d.store.EnsureUser(ctx, handle, DefaultPassword)
	if err != nil {
		_ = d.send(ctx, in.ChatID, msgStoreFailure)
		return nil, &PersistenceError{Op: "ensure user", Err: err}
	}
	if !created {
		return user, nil
	}

	d.logger.Info("user_provisioned", "handle", handle)
	dm := fmt.Sprintf("Hmm..%s, you look new here! I created your user profile.\nYour credentials are:\nUsername: %s\nPassword: %s\ngo to %s to login",
		handle, handle, DefaultPassword, d.siteLink())
	if err := d.chat.SendToUser(ctx, in.SenderID, dm); err != nil {
		d.logger.Warn("credential_send_failed", "handle", handle, "error", err.Error())
		_ = d.send(ctx, in.ChatID, msgPrivateRetry)
		return nil, &DeliveryError{Err: err}
	}
	if err := d.send(ctx, in.ChatID, msgCheckPrivate); err != nil {
		return nil, err
	}
	return user, nil
}

// resolveProject maps a tag (or its absence) to a project row, creating it on
// first reference. The two creation notices are deliberately different: new
// named projects get the louder one.
func (d *Dispatcher) resolveProject(ctx context.Context, in Inbound, tag, creator string) (*models.Project, error) {
	name := tag
	if name == "" {
		name = GeneralProject
	}

	project, created, err := d.store.EnsureProject(ctx, name, creator)
	if err != nil {
		_ = d.send(ctx, in.ChatID, msgStoreFailure)
		return nil, &PersistenceError{Op: "ensure project", Err: err}
	}
	if created {
		if name != GeneralProject {
			_ = d.send(ctx, in.ChatID, fmt.Sprintf("hmm.. %s sounds new\ncreated %s project", name, name))
		} else {
			_ = d.send(ctx, in.ChatID, msgSavedInGeneral)
		}
	}
	return project, nil
}

func (d *Dispatcher) send(ctx context.Context, chatID int64, text string) error {
	if err := d.chat.SendToChat(ctx, chatID, text); err != nil {
		d.logger.Warn("reply_send_failed", "chat_id", chatID, "error", err.Error())
		return err
	}
	return nil
}

func (d *Dispatcher) siteLink() string {
	return "[Site Link](" + d.siteURL + ")"
}
