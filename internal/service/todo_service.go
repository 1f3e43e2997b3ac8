package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"sync/atomic"
	"time"
	"unicode/utf8"

	"todoassign/internal/cache"
	dom "todoassign/internal/domain"
	"todoassign/internal/ids"
	"todoassign/internal/logfields"
	"todoassign/internal/metrics"
	"todoassign/internal/repo"

	"golang.org/x/sync/singleflight"
)

const (
	todoIDPrefix    = "todo-"
	maxTitleLen     = 120
	defaultAttempts = 3

	cmdCreateTodo = "create_todo"
	cmdAssignTodo = "assign_todo"
	cmdMarkDone   = "mark_done_todo"
)

// Locker serializes transitions of one todo. Release must be called once.
type Locker interface {
	Acquire(ctx context.Context, key string) (release func(context.Context) error, err error)
}

type TodoService struct {
	todos    repo.TodoRepo
	statuses repo.TodoStatusRepo
	users    repo.UserRepo
	assigned repo.AssignedTodoFinder
	ids      ids.IDGenerator
	clock    ids.Clock

	cache    *cache.TodoCache
	locker   Locker
	rec      metrics.Recorder
	log      *slog.Logger
	attempts int
	sf       singleflight.Group
	// writes counts completed writes; a cached read only fills the cache if
	// no write finished while it was reading the store.
	writes atomic.Uint64
	fill   sync.RWMutex
}

// Option configures optional TodoService collaborators.
type Option func(*TodoService)

// WithCache enables Redis caching of reads. A nil cache disables it.
func WithCache(c *cache.TodoCache) Option { return func(s *TodoService) { s.cache = c } }

// WithLocker serializes transitions per todo through l.
func WithLocker(l Locker) Option { return func(s *TodoService) { s.locker = l } }

func WithRecorder(r metrics.Recorder) Option {
	return func(s *TodoService) {
		if r != nil {
			s.rec = r
		}
	}
}

func WithLogger(l *slog.Logger) Option {
	return func(s *TodoService) {
		if l != nil {
			s.log = l
		}
	}
}

// WithAttempts bounds how often a transition is recomputed after losing a
// conditional write to a concurrent request.
func WithAttempts(n int) Option {
	return func(s *TodoService) {
		if n > 0 {
			s.attempts = n
		}
	}
}

func NewTodoService(r repo.Repos, gen ids.IDGenerator, clock ids.Clock, opts ...Option) *TodoService {
	s := &TodoService{
		todos:    r.Todos,
		statuses: r.Statuses,
		users:    r.Users,
		assigned: r.Assigned,
		ids:      gen,
		clock:    clock,
		rec:      metrics.NoopRecorder{},
		log:      slog.Default(),
		attempts: defaultAttempts,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CreateTodo stores a new, unassigned todo.
func (s *TodoService) CreateTodo(ctx context.Context, title string) (dom.Todo, error) {
	start := time.Now()
	t, err := s.createTodo(ctx, title)
	s.observe(cmdCreateTodo, start, err)
	return t, err
}

func (s *TodoService) createTodo(ctx context.Context, title string) (dom.Todo, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return dom.Todo{}, fmt.Errorf("%w: title is required", ErrInvalidInput)
	}
	if utf8.RuneCountInString(title) > maxTitleLen {
		return dom.Todo{}, fmt.Errorf("%w: title is longer than %d characters", ErrInvalidInput, maxTitleLen)
	}

	t := dom.Todo{
		ID:         todoIDPrefix + s.ids.Generate(),
		Timestamp:  s.clock.Now(),
		Title:      title,
		IsDone:     false,
		AssignedTo: nil,
	}
	if err := s.todos.Save(ctx, t); err != nil {
		return dom.Todo{}, fmt.Errorf("save todo: %w", err)
	}
	s.invalidateCache(ctx, "")
	return t, nil
}

func (s *TodoService) ListTodos(ctx context.Context) ([]dom.Todo, error) {
	if s.cache != nil {
		v, err, _ := s.sf.Do(listFlight(), func() (interface{}, error) {
			gen := s.writes.Load()
			if list, err := s.cache.GetList(ctx); err == nil && list != nil {
				return list, nil
			}
			list, err := s.todos.List(ctx)
			if err != nil {
				return nil, err
			}
			s.fillCache(gen, func() { _ = s.cache.SetList(ctx, list) })
			return list, nil
		})
		if err != nil {
			return nil, fmt.Errorf("list todos: %w", err)
		}
		return v.([]dom.Todo), nil
	}
	list, err := s.todos.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list todos: %w", err)
	}
	return list, nil
}

// GetTodoByID returns the todo joined with its assignee's name. Todos with no
// assignee, or whose assignee is missing, are reported as not found.
func (s *TodoService) GetTodoByID(ctx context.Context, todoID string) (dom.AssignedTodo, error) {
	todoID = strings.TrimSpace(todoID)
	if todoID == "" {
		return dom.AssignedTodo{}, fmt.Errorf("%w: todo id is required", ErrInvalidInput)
	}
	if s.cache != nil {
		v, err, _ := s.sf.Do(viewFlight(todoID), func() (interface{}, error) {
			gen := s.writes.Load()
			if view, err := s.cache.GetView(ctx, todoID); err == nil && view != nil {
				return *view, nil
			}
			view, err := s.findAssigned(ctx, todoID)
			if err != nil {
				return nil, err
			}
			s.fillCache(gen, func() { _ = s.cache.SetView(ctx, view) })
			return view, nil
		})
		if err != nil {
			return dom.AssignedTodo{}, err
		}
		return v.(dom.AssignedTodo), nil
	}
	return s.findAssigned(ctx, todoID)
}

func (s *TodoService) findAssigned(ctx context.Context, todoID string) (dom.AssignedTodo, error) {
	view, ok, err := s.assigned.FindAssigned(ctx, todoID)
	if err != nil {
		return dom.AssignedTodo{}, fmt.Errorf("find assigned todo: %w", err)
	}
	if !ok {
		return dom.AssignedTodo{}, ErrTodoNotFound
	}
	return view, nil
}

// AssignTodo assigns an unassigned todo to an existing user.
func (s *TodoService) AssignTodo(ctx context.Context, todoID, userID string) (dom.TodoStatus, error) {
	start := time.Now()
	next, err := s.transition(ctx, cmdAssignTodo, todoID, userID, dom.Assign, s.requireUser)
	s.observe(cmdAssignTodo, start, err)
	return next, err
}

// MarkDoneTodo completes a todo on behalf of its assignee.
func (s *TodoService) MarkDoneTodo(ctx context.Context, todoID, userID string) (dom.TodoStatus, error) {
	start := time.Now()
	next, err := s.transition(ctx, cmdMarkDone, todoID, userID, dom.MarkDone, nil)
	s.observe(cmdMarkDone, start, err)
	return next, err
}

func (s *TodoService) requireUser(ctx context.Context, userID string) error {
	_, ok, err := s.users.Lookup(ctx, userID)
	if err != nil {
		return fmt.Errorf("lookup user: %w", err)
	}
	if !ok {
		return ErrUserNotFound
	}
	return nil
}

// transition runs lookup, the pure transition and a conditional save as one
// unit per todo. Losing the conditional save to a concurrent writer re-reads
// and recomputes, up to s.attempts times.
func (s *TodoService) transition(
	ctx context.Context,
	command, todoID, userID string,
	next dom.Transition,
	precheck func(ctx context.Context, userID string) error,
) (dom.TodoStatus, error) {
	todoID, userID = strings.TrimSpace(todoID), strings.TrimSpace(userID)
	if todoID == "" || userID == "" {
		return nil, fmt.Errorf("%w: todo id and user id are required", ErrInvalidInput)
	}

	if s.locker != nil {
		release, err := s.locker.Acquire(ctx, todoID)
		if err != nil {
			return nil, fmt.Errorf("lock todo: %w", err)
		}
		defer func() {
			if err := release(context.WithoutCancel(ctx)); err != nil {
				s.log.Warn("release todo lock", logfields.TodoID(todoID), logfields.Error(err))
			}
		}()
	}

	for attempt := 1; ; attempt++ {
		current, ok, err := s.statuses.Lookup(ctx, todoID)
		if err != nil {
			return nil, fmt.Errorf("lookup todo status: %w", err)
		}
		if !ok {
			return nil, ErrTodoNotFound
		}
		if attempt == 1 && precheck != nil {
			if err := precheck(ctx, userID); err != nil {
				return nil, err
			}
		}

		updated, err := next(current, userID)
		if err != nil {
			var te *dom.TransitionError
			if errors.As(err, &te) {
				return nil, newConflict(te.Op, te)
			}
			return nil, err
		}

		err = s.statuses.CompareAndSave(ctx, current, updated)
		if err == nil {
			s.log.Debug("todo status saved",
				logfields.Command(command),
				logfields.TodoID(todoID),
				logfields.UserID(userID),
				logfields.Status(updated.Tag()))
			s.invalidateCache(ctx, todoID)
			return updated, nil
		}
		if !errors.Is(err, repo.ErrStaleStatus) || attempt >= s.attempts {
			return nil, fmt.Errorf("save todo status: %w", err)
		}
		s.rec.IncStaleRetry(command)
		s.log.Debug("todo status changed concurrently, retrying",
			logfields.Command(command), logfields.TodoID(todoID), logfields.Attempt(attempt))
	}
}

// fillCache runs set unless a write finished after gen was read. A fill that
// wins the race with a write lands before its Invalidate.
func (s *TodoService) fillCache(gen uint64, set func()) {
	s.fill.RLock()
	defer s.fill.RUnlock()
	if s.writes.Load() == gen {
		set()
	}
}

func listFlight() string { return "list" }

func viewFlight(todoID string) string { return "view:" + todoID }

// invalidateCache runs after every successful write. Bumping writes first
// keeps reads that started before the write from caching what they loaded,
// and Forget stops later callers from joining those reads.
func (s *TodoService) invalidateCache(ctx context.Context, todoID string) {
	if s.cache == nil {
		return
	}
	s.fill.Lock()
	s.writes.Add(1)
	s.fill.Unlock()
	if err := s.cache.Invalidate(ctx, todoID); err != nil {
		s.log.Warn("invalidate todo cache", logfields.TodoID(todoID), logfields.Error(err))
	}
	s.sf.Forget(listFlight())
	if todoID != "" {
		s.sf.Forget(viewFlight(todoID))
	}
}

func (s *TodoService) observe(command string, start time.Time, err error) {
	s.rec.ObserveCommand(command, time.Since(start), outcomeOf(err))
}

func outcomeOf(err error) string {
	switch KindOf(err) {
	case KindNone:
		return metrics.OutcomeApplied
	case KindInvalid:
		return metrics.OutcomeInvalid
	case KindNotFound:
		return metrics.OutcomeNotFound
	case KindConflict:
		return metrics.OutcomeConflict
	}
	return metrics.OutcomeError
}
