package db

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/amitanshusahu/NexSync/db/models"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	cfg := DefaultConfig()
	cfg.DSN = filepath.Join(t.TempDir(), "nexsync.sqlite")
	gdb, err := Open(cfg)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := gdb.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return NewStore(gdb)
}

func TestEnsureUserIdempotent(t *testing.T) {
	t.Parallel()

	store := openTestStore(t)
	ctx := context.Background()

	first, created, err := store.EnsureUser(ctx, "alice", "12345678")
	if err != nil {
		t.Fatalf("EnsureUser() error = %v", err)
	}
	if !created {
		t.Fatal("first EnsureUser should insert")
	}

	// Second call must not overwrite the password, even with a new one.
	second, created, err := store.EnsureUser(ctx, "alice", "replacement")
	if err != nil {
		t.Fatalf("EnsureUser() error = %v", err)
	}
	if created {
		t.Fatal("second EnsureUser must not insert")
	}
	if second.ID != first.ID {
		t.Fatalf("second call returned id %d, want %d", second.ID, first.ID)
	}
	if second.Password != "12345678" {
		t.Fatalf("password = %q, want original", second.Password)
	}
}

func TestEnsureProjectConcurrent(t *testing.T) {
	t.Parallel()

	store := openTestStore(t)
	ctx := context.Background()

	const workers = 8
	var (
		wg          sync.WaitGroup
		mu          sync.Mutex
		createdN    int
		ids         = make(map[uint]struct{})
		firstErrSet bool
		firstErr    error
	)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			project, created, err := store.EnsureProject(ctx, "TGAF", "alice")
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				if !firstErrSet {
					firstErr, firstErrSet = err, true
				}
				return
			}
			if created {
				createdN++
			}
			ids[project.ID] = struct{}{}
		}()
	}
	wg.Wait()

	if firstErrSet {
		t.Fatalf("EnsureProject() error = %v", firstErr)
	}
	if createdN != 1 {
		t.Fatalf("created reported %d times, want exactly 1", createdN)
	}
	if len(ids) != 1 {
		t.Fatalf("callers saw %d distinct rows, want 1", len(ids))
	}
}

func TestFindUserByUsernameNotFound(t *testing.T) {
	t.Parallel()

	store := openTestStore(t)

	_, err := store.FindUserByUsername(context.Background(), "nobody")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("error = %v, want ErrNotFound", err)
	}
}

func TestTasksAttachToProject(t *testing.T) {
	t.Parallel()

	store := openTestStore(t)
	ctx := context.Background()

	project, _, err := store.EnsureProject(ctx, "TGAF", "alice")
	if err != nil {
		t.Fatalf("EnsureProject() error = %v", err)
	}

	for _, desc := range []string{"fix login", "ship release"} {
		task := &models.Task{Description: desc, Priority: "P1", ProjectID: &project.ID, CreatedBy: "alice"}
		if err := store.CreateTask(ctx, task); err != nil {
			t.Fatalf("CreateTask(%q) error = %v", desc, err)
		}
		if task.ID == 0 {
			t.Fatal("CreateTask must backfill the id")
		}
	}

	note := &models.Note{Content: "remember the milk", ProjectID: &project.ID, CreatedBy: "alice"}
	if err := store.CreateNote(ctx, note); err != nil {
		t.Fatalf("CreateNote() error = %v", err)
	}
	key := &models.AuthKey{Content: "#tgaf api key abc123", ProjectID: &project.ID, CreatedBy: "alice"}
	if err := store.CreateAuthKey(ctx, key); err != nil {
		t.Fatalf("CreateAuthKey() error = %v", err)
	}
}

func TestCompletedTasksBetween(t *testing.T) {
	t.Parallel()

	store := openTestStore(t)
	ctx := context.Background()

	project, _, err := store.EnsureProject(ctx, "TGAF", "alice")
	if err != nil {
		t.Fatalf("EnsureProject() error = %v", err)
	}

	day := time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)
	insert := func(desc string, completed bool, updatedAt time.Time) {
		t.Helper()
		task := &models.Task{Description: desc, Priority: "P3", ProjectID: &project.ID, CreatedBy: "alice"}
		if err := store.CreateTask(ctx, task); err != nil {
			t.Fatalf("CreateTask(%q) error = %v", desc, err)
		}
		// UpdateColumns skips gorm's updated_at hook so the window can be
		// pinned deterministically.
		err := store.gdb.Model(&models.Task{}).Where("id = ?", task.ID).
			UpdateColumns(map[string]any{"completed": completed, "updated_at": updatedAt}).Error
		if err != nil {
			t.Fatalf("pin task %q: %v", desc, err)
		}
	}

	insert("inside early", true, day.Add(9*time.Hour))
	insert("inside late", true, day.Add(17*time.Hour))
	insert("not completed", false, day.Add(12*time.Hour))
	insert("previous day", true, day.Add(-2*time.Hour))

	tasks, err := store.CompletedTasksBetween(ctx, day, day.Add(24*time.Hour-time.Nanosecond))
	if err != nil {
		t.Fatalf("CompletedTasksBetween() error = %v", err)
	}
	if len(tasks) != 2 {
		t.Fatalf("tasks = %d, want 2", len(tasks))
	}
	if tasks[0].Description != "inside late" || tasks[1].Description != "inside early" {
		t.Fatalf("order = [%q, %q], want most recent first", tasks[0].Description, tasks[1].Description)
	}
	for _, task := range tasks {
		if task.Project == nil || task.Project.Name != "TGAF" {
			t.Fatalf("task %q project not preloaded", task.Description)
		}
	}
}
