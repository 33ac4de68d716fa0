package db

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/amitanshusahu/NexSync/db/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ErrNotFound is returned by lookup methods when no row matches.
var ErrNotFound = errors.New("db: not found")

// Store wraps a gorm handle with the operations the bot core needs. All
// create-if-missing paths go through ON CONFLICT DO NOTHING so that two
// concurrent commands referencing the same unseen name converge on one row:
// the loser re-reads the winner's row instead of erroring the command.
type Store struct {
	gdb *gorm.DB
}

func NewStore(gdb *gorm.DB) *Store {
	return &Store{gdb: gdb}
}

// EnsureUser returns the user with the given username, creating it with the
// supplied password when absent. created reports whether this call inserted
// the row.
func (s *Store) EnsureUser(ctx context.Context, username, password string) (*models.User, bool, error) {
	user := models.User{Username: username, Password: password}
	res := s.gdb.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "username"}},
			DoNothing: true,
		}).
		Create(&user)
	if res.Error != nil {
		return nil, false, fmt.Errorf("ensure user: %w", res.Error)
	}
	if res.RowsAffected == 1 {
		return &user, true, nil
	}
	existing, err := s.FindUserByUsername(ctx, username)
	if err != nil {
		return nil, false, err
	}
	return existing, false, nil
}

func (s *Store) FindUserByUsername(ctx context.Context, username string) (*models.User, error) {
	var user models.User
	err := s.gdb.WithContext(ctx).Where("username = ?", username).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find user: %w", err)
	}
	return &user, nil
}

// EnsureProject returns the project with the given (already normalized) name,
// creating it when absent. Name uniqueness is enforced by the unique index.
func (s *Store) EnsureProject(ctx context.Context, name, createdBy string) (*models.Project, bool, error) {
	project := models.Project{Name: name, CreatedBy: createdBy}
	res := s.gdb.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "name"}},
			DoNothing: true,
		}).
		Create(&project)
	if res.Error != nil {
		return nil, false, fmt.Errorf("ensure project: %w", res.Error)
	}
	if res.RowsAffected == 1 {
		return &project, true, nil
	}
	var existing models.Project
	err := s.gdb.WithContext(ctx).Where("name = ?", name).First(&existing).Error
	if err != nil {
		return nil, false, fmt.Errorf("find project: %w", err)
	}
	return &existing, false, nil
}

func (s *Store) CreateTask(ctx context.Context, task *models.Task) error {
	if err := s.gdb.WithContext(ctx).Create(task).Error; err != nil {
		return fmt.Errorf("create task: %w", err)
	}
	return nil
}

func (s *Store) CreateNote(ctx context.Context, note *models.Note) error {
	if err := s.gdb.WithContext(ctx).Create(note).Error; err != nil {
		return fmt.Errorf("create note: %w", err)
	}
	return nil
}

func (s *Store) CreateAuthKey(ctx context.Context, key *models.AuthKey) error {
	if err := s.gdb.WithContext(ctx).Create(key).Error; err != nil {
		return fmt.Errorf("create auth key: %w", err)
	}
	return nil
}

// CompletedTasksBetween lists completed tasks whose updated_at falls inside
// [from, to], most recently updated first, with the project preloaded.
func (s *Store) CompletedTasksBetween(ctx context.Context, from, to time.Time) ([]models.Task, error) {
	var tasks []models.Task
	err := s.gdb.WithContext(ctx).
		Preload("Project").
		Where("completed = ? AND updated_at BETWEEN ? AND ?", true, from, to).
		Order("updated_at DESC").
		Find(&tasks).Error
	if err != nil {
		return nil, fmt.Errorf("list completed tasks: %w", err)
	}
	return tasks, nil
}
