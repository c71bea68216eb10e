// Package service implements the rehabdesk operations on top of the document
// store: project CRUD and its embedded entries, the analyzer merges, the
// expense and income ledgers, and tasks.
package service

import (
	"context"
	"errors"
	"time"

	"github.com/iwvelando/rehabdesk/internal/apperr"
	"github.com/iwvelando/rehabdesk/internal/brrrr"
	"github.com/iwvelando/rehabdesk/internal/flip"
	"github.com/iwvelando/rehabdesk/internal/geocode"
	"github.com/iwvelando/rehabdesk/internal/model"
	"github.com/iwvelando/rehabdesk/internal/store"
	"go.uber.org/zap"
)

// Collection names.
const (
	CollectionProjects  = "projects"
	CollectionAccounts  = "accounts"
	CollectionCompanies = "companies"
	CollectionTaskLists = "taskLists"
	CollectionTasks     = "tasks"
)

// Geocoder resolves an address. A nil location means the address could not
// be resolved.
type Geocoder interface {
	Geocode(ctx context.Context, address string) (*geocode.Location, error)
}

// Options tunes the analyzers.
type Options struct {
	FlipFinalStep      int
	MaxProjectionYears int
	Now                func() time.Time
}

// Services bundles every service over one store.
type Services struct {
	Projects *ProjectService
	Ledger   *LedgerService
	Tasks    *TaskService
}

// New wires the services.
func New(s store.Store, geo Geocoder, opts Options, logger *zap.Logger) *Services {
	if logger == nil {
		logger = zap.NewNop()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	projects := &ProjectService{
		projects: store.NewCollection[model.Project](s, CollectionProjects).WithClock(opts.Now),
		geocoder: geo,
		brrrr:    brrrr.NewEngine(logger, opts.MaxProjectionYears),
		flip:     flip.NewWizard(logger, opts.FlipFinalStep),
		locks:    newKeyedMutex(),
		logger:   logger,
		now:      opts.Now,
	}
	return &Services{
		Projects: projects,
		Ledger: &LedgerService{
			projects:  projects,
			accounts:  store.NewCollection[model.Account](s, CollectionAccounts).WithClock(opts.Now),
			companies: store.NewCollection[model.Company](s, CollectionCompanies).WithClock(opts.Now),
			logger:    logger,
		},
		Tasks: &TaskService{
			lists:  store.NewCollection[model.TaskList](s, CollectionTaskLists).WithClock(opts.Now),
			tasks:  store.NewCollection[model.Task](s, CollectionTasks).WithClock(opts.Now),
			logger: logger,
		},
	}
}

// storeError translates a store failure into the error taxonomy. entity
// names the document in not-found messages.
func storeError(logger *zap.Logger, op, entity string, err error) error {
	switch {
	case errors.Is(err, store.ErrNotFound):
		return apperr.NotFound(entity)
	case errors.Is(err, store.ErrConflict):
		return apperr.Conflict(entity+" was modified by another request; reload and try again", err)
	case errors.Is(err, store.ErrDuplicate):
		return apperr.Wrap(apperr.CodeValidation, entity+" already exists", err)
	default:
		logger.Error("store operation failed",
			zap.String("op", op),
			zap.String("entity", entity),
			zap.Error(err),
		)
		return apperr.Internal("failed to access "+entity, err)
	}
}
