package stagehand

import (
	"context"
	"fmt"

	"github.com/hay-kot/criterio"
	"github.com/rs/zerolog"

	"github.com/colonyops/stagehand/internal/core/todo"
	"github.com/colonyops/stagehand/internal/core/validate"
)

// TodoService wraps todo.Store with input validation and logging.
type TodoService struct {
	store *todo.Store
	log   zerolog.Logger
}

// NewTodoService creates a new TodoService.
func NewTodoService(store *todo.Store, log zerolog.Logger) *TodoService {
	return &TodoService{
		store: store,
		log:   log.With().Str("cmp", "todo-service").Logger(),
	}
}

// Create validates and creates a new record. Status defaults to "open".
func (s *TodoService) Create(ctx context.Context, title string, tags []string, status, body string) (todo.Record, error) {
	if err := validate.TodoTitleField("title", title); err != nil {
		return todo.Record{}, err
	}

	if status == "" {
		status = "open"
	}

	record, err := s.store.Create(ctx, title, tags, status, body)
	if err != nil {
		return todo.Record{}, fmt.Errorf("create todo: %w", err)
	}

	s.log.Info().Str("id", record.ID).Str("title", record.Title).Msg("todo created")
	return record, nil
}

// Get returns one record by id reference.
func (s *TodoService) Get(ctx context.Context, id string) (todo.Record, error) {
	if err := validate.TodoIDField("id", id); err != nil {
		return todo.Record{}, err
	}
	return s.store.Get(ctx, id)
}

// Update applies a patch to a record. At least one patch field must be set.
func (s *TodoService) Update(ctx context.Context, id string, patch todo.Patch) (todo.Record, error) {
	if err := validate.TodoIDField("id", id); err != nil {
		return todo.Record{}, err
	}
	if patch.Title == nil && patch.Tags == nil && patch.Status == nil && patch.Body == nil {
		return todo.Record{}, criterio.NewFieldErrors("patch", fmt.Errorf("nothing to update"))
	}
	if patch.Title != nil {
		if err := validate.TodoTitleField("title", *patch.Title); err != nil {
			return todo.Record{}, err
		}
	}

	record, err := s.store.Update(ctx, id, patch)
	if err != nil {
		return todo.Record{}, err
	}

	s.log.Info().Str("id", record.ID).Msg("todo updated")
	return record, nil
}

// Append adds a free-text block to a record's body.
func (s *TodoService) Append(ctx context.Context, id, text string) (todo.Record, error) {
	if err := validate.TodoIDField("id", id); err != nil {
		return todo.Record{}, err
	}
	return s.store.Append(ctx, id, text)
}

// Delete removes a record and returns its final contents.
func (s *TodoService) Delete(ctx context.Context, id string) (todo.Record, error) {
	if err := validate.TodoIDField("id", id); err != nil {
		return todo.Record{}, err
	}

	record, err := s.store.Delete(ctx, id)
	if err != nil {
		return todo.Record{}, err
	}

	s.log.Info().Str("id", record.ID).Msg("todo deleted")
	return record, nil
}

// List returns open records in creation order.
func (s *TodoService) List(ctx context.Context) ([]todo.Record, error) {
	return s.store.List(ctx)
}

// ListAll returns every record, open before closed.
func (s *TodoService) ListAll(ctx context.Context) ([]todo.Record, error) {
	return s.store.ListAll(ctx)
}

// Search fuzzy-matches records against a free-form query.
func (s *TodoService) Search(ctx context.Context, query string) ([]todo.Record, error) {
	if query == "" {
		return s.store.ListAll(ctx)
	}
	return s.store.Search(ctx, query)
}

// GC removes closed records older than the directory's retention settings.
// Returns the ids of removed records.
func (s *TodoService) GC(ctx context.Context) ([]string, error) {
	removed, err := s.store.GarbageCollect(ctx)
	if err != nil {
		return nil, fmt.Errorf("todo gc: %w", err)
	}
	if len(removed) > 0 {
		s.log.Info().Int("removed", len(removed)).Msg("todo gc complete")
	}
	return removed, nil
}
