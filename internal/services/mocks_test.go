package services

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"sync"

	"github.com/google/uuid"

	"github.com/anyidea-app/anyidea/internal/models"
)

// fakeDB implements DB for tests. Unset funcs return errors, except Exec,
// which defaults to success so transactional loops stay terse. Begin hands
// back a fakeTx that shares the same funcs and records commits/rollbacks.
type fakeDB struct {
	QueryRowFunc func(ctx context.Context, sql string, args ...any) Row
	QueryFunc    func(ctx context.Context, sql string, args ...any) (Rows, error)
	ExecFunc     func(ctx context.Context, sql string, args ...any) (CommandTag, error)
	BeginFunc    func(ctx context.Context) (Tx, error)
	CommitErr    error

	mu        sync.Mutex
	commits   int
	rollbacks int
}

func (d *fakeDB) QueryRow(ctx context.Context, sql string, args ...any) Row {
	if d.QueryRowFunc != nil {
		return d.QueryRowFunc(ctx, sql, args...)
	}
	return fakeRow{scanFunc: func(dest ...any) error {
		return errors.New("unexpected QueryRow")
	}}
}

func (d *fakeDB) Query(ctx context.Context, sql string, args ...any) (Rows, error) {
	if d.QueryFunc != nil {
		return d.QueryFunc(ctx, sql, args...)
	}
	return nil, errors.New("unexpected Query")
}

func (d *fakeDB) Exec(ctx context.Context, sql string, args ...any) (CommandTag, error) {
	if d.ExecFunc != nil {
		return d.ExecFunc(ctx, sql, args...)
	}
	return fakeCommandTag{rowsAffected: 1}, nil
}

func (d *fakeDB) Begin(ctx context.Context) (Tx, error) {
	if d.BeginFunc != nil {
		return d.BeginFunc(ctx)
	}
	return fakeTx{db: d}, nil
}

func (d *fakeDB) commitCount() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.commits
}

func (d *fakeDB) rollbackCount() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.rollbacks
}

type fakeTx struct {
	db *fakeDB
}

func (t fakeTx) Exec(ctx context.Context, sql string, args ...any) (CommandTag, error) {
	return t.db.Exec(ctx, sql, args...)
}

func (t fakeTx) QueryRow(ctx context.Context, sql string, args ...any) Row {
	return t.db.QueryRow(ctx, sql, args...)
}

func (t fakeTx) Query(ctx context.Context, sql string, args ...any) (Rows, error) {
	return t.db.Query(ctx, sql, args...)
}

func (t fakeTx) Commit(ctx context.Context) error {
	t.db.mu.Lock()
	defer t.db.mu.Unlock()
	if t.db.CommitErr != nil {
		return t.db.CommitErr
	}
	t.db.commits++
	return nil
}

func (t fakeTx) Rollback(ctx context.Context) error {
	t.db.mu.Lock()
	defer t.db.mu.Unlock()
	t.db.rollbacks++
	return nil
}

type fakeRow struct {
	scanFunc func(dest ...any) error
}

func (r fakeRow) Scan(dest ...any) error { return r.scanFunc(dest...) }

// rowFromValues builds a Row whose Scan copies the given values in order.
func rowFromValues(values ...any) fakeRow {
	return fakeRow{scanFunc: func(dest ...any) error {
		if len(dest) != len(values) {
			return fmt.Errorf("expected %d scan destinations, got %d", len(values), len(dest))
		}
		for i, v := range values {
			if err := assignValue(dest[i], v); err != nil {
				return err
			}
		}
		return nil
	}}
}

type fakeRows struct {
	rows   [][]any
	idx    int
	err    error
	closed bool
}

func rowsFromValues(rows ...[]any) *fakeRows {
	return &fakeRows{rows: rows}
}

func (r *fakeRows) Close()     { r.closed = true }
func (r *fakeRows) Err() error { return r.err }

func (r *fakeRows) Next() bool {
	if r.idx >= len(r.rows) {
		return false
	}
	r.idx++
	return true
}

func (r *fakeRows) Scan(dest ...any) error {
	values := r.rows[r.idx-1]
	if len(dest) != len(values) {
		return fmt.Errorf("expected %d scan destinations, got %d", len(values), len(dest))
	}
	for i, v := range values {
		if err := assignValue(dest[i], v); err != nil {
			return err
		}
	}
	return nil
}

type fakeCommandTag struct {
	rowsAffected int64
}

func (t fakeCommandTag) RowsAffected() int64 { return t.rowsAffected }

// assignValue copies value into the pointer dest, converting when needed.
// A nil value zeroes the destination, mirroring a SQL NULL into a pointer.
func assignValue(dest, value any) error {
	dv := reflect.ValueOf(dest)
	if dv.Kind() != reflect.Pointer || dv.IsNil() {
		return errors.New("scan destination must be a non-nil pointer")
	}
	target := dv.Elem()
	if value == nil {
		target.Set(reflect.Zero(target.Type()))
		return nil
	}
	sv := reflect.ValueOf(value)
	if sv.Type().AssignableTo(target.Type()) {
		target.Set(sv)
		return nil
	}
	if sv.Type().ConvertibleTo(target.Type()) {
		target.Set(sv.Convert(target.Type()))
		return nil
	}
	return fmt.Errorf("cannot assign %T to %T", value, dest)
}

func ptr[T any](v T) *T { return &v }

// fakeUsers implements SessionUsers. Unset funcs resolve to a stable user
// derived from the session id.
type fakeUsers struct {
	GetOrCreateFunc  func(ctx context.Context, sessionID string) (*models.User, error)
	GetBySessionFunc func(ctx context.Context, sessionID string) (*models.User, error)
	userID           uuid.UUID
}

func (u *fakeUsers) defaultUser(sessionID string) *models.User {
	if u.userID == uuid.Nil {
		u.userID = uuid.New()
	}
	return &models.User{ID: u.userID, SessionID: sessionID}
}

func (u *fakeUsers) GetOrCreate(ctx context.Context, sessionID string) (*models.User, error) {
	if u.GetOrCreateFunc != nil {
		return u.GetOrCreateFunc(ctx, sessionID)
	}
	return u.defaultUser(sessionID), nil
}

func (u *fakeUsers) GetBySession(ctx context.Context, sessionID string) (*models.User, error) {
	if u.GetBySessionFunc != nil {
		return u.GetBySessionFunc(ctx, sessionID)
	}
	return u.defaultUser(sessionID), nil
}

// Pipeline collaborator fakes.

type fakeWeather struct {
	configured  bool
	CurrentFunc func(ctx context.Context, lat, lon float64) (*models.WeatherSnapshot, error)
	calls       int
}

func (w *fakeWeather) IsConfigured() bool { return w.configured }

func (w *fakeWeather) Current(ctx context.Context, lat, lon float64) (*models.WeatherSnapshot, error) {
	w.calls++
	if w.CurrentFunc != nil {
		return w.CurrentFunc(ctx, lat, lon)
	}
	return nil, errors.New("unexpected weather call")
}

type fakeAI struct {
	configured  bool
	model       string
	SuggestFunc func(ctx context.Context, prompt string) ([]models.Suggestion, *models.AIMetadata, error)
	prompts     []string
}

func (a *fakeAI) IsConfigured() bool { return a.configured }

func (a *fakeAI) Model() string {
	if a.model == "" {
		return "test/model"
	}
	return a.model
}

func (a *fakeAI) Suggest(ctx context.Context, prompt string) ([]models.Suggestion, *models.AIMetadata, error) {
	a.prompts = append(a.prompts, prompt)
	if a.SuggestFunc != nil {
		return a.SuggestFunc(ctx, prompt)
	}
	return nil, nil, errors.New("unexpected AI call")
}

type fakeSuggestionLogger struct {
	LogFunc func(ctx context.Context, params models.CreateLogParams) (uuid.UUID, error)

	mu     sync.Mutex
	logged []models.CreateLogParams
}

func (l *fakeSuggestionLogger) LogSuggestion(ctx context.Context, params models.CreateLogParams) (uuid.UUID, error) {
	l.mu.Lock()
	l.logged = append(l.logged, params)
	l.mu.Unlock()
	if l.LogFunc != nil {
		return l.LogFunc(ctx, params)
	}
	return uuid.New(), nil
}

func (l *fakeSuggestionLogger) loggedParams() []models.CreateLogParams {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]models.CreateLogParams, len(l.logged))
	copy(out, l.logged)
	return out
}
