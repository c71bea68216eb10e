package service

import (
	"context"
	"encoding/json"
	"slices"
	"strings"
	"time"

	"github.com/iwvelando/rehabdesk/internal/apperr"
	"github.com/iwvelando/rehabdesk/internal/brrrr"
	"github.com/iwvelando/rehabdesk/internal/flip"
	"github.com/iwvelando/rehabdesk/internal/model"
	"github.com/iwvelando/rehabdesk/internal/store"
	"github.com/iwvelando/rehabdesk/pkg/datetime"
	"go.uber.org/zap"
)

// ErrGeocodeMessage is returned when an address cannot be resolved.
const ErrGeocodeMessage = "Could not geocode address. Please enter a valid, complete address."

// ProjectService manages projects and everything embedded in them.
type ProjectService struct {
	projects *store.Collection[model.Project, *model.Project]
	geocoder Geocoder
	brrrr    *brrrr.Engine
	flip     *flip.Wizard
	locks    *keyedMutex
	logger   *zap.Logger
	now      func() time.Time
}

// List returns every project in creation order.
func (s *ProjectService) List(ctx context.Context) ([]model.Project, error) {
	projects, err := s.projects.List(ctx, "")
	if err != nil {
		return nil, storeError(s.logger, "service.ListProjects", "Project", err)
	}
	return projects, nil
}

// Get returns the project with id.
func (s *ProjectService) Get(ctx context.Context, id string) (*model.Project, error) {
	p, err := s.projects.Get(ctx, id)
	if err != nil {
		return nil, storeError(s.logger, "service.GetProject", "Project", err)
	}
	return p, nil
}

// Create validates and geocodes a new project. Only the address and
// descriptive fields of input are used.
func (s *ProjectService) Create(ctx context.Context, input model.Project) (*model.Project, error) {
	const op = "service.CreateProject"

	p := &model.Project{
		Address1:    input.Address1,
		Address2:    input.Address2,
		City:        input.City,
		State:       input.State,
		PostalCode:  input.PostalCode,
		Country:     input.Country,
		ProjectName: input.ProjectName,
		Strategy:    input.Strategy,
		Stage:       input.Stage,
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}

	loc, err := s.locate(ctx, op, p.Address())
	if err != nil {
		return nil, err
	}
	p.Location = loc

	if err := s.projects.Insert(ctx, p); err != nil {
		return nil, storeError(s.logger, op, "Project", err)
	}
	s.logger.Info("created project",
		zap.String("op", op),
		zap.String("project_id", p.ID),
		zap.String("name", p.ProjectName),
	)
	return p, nil
}

// Update applies patch to the project, geocoding again when an address
// field changes.
func (s *ProjectService) Update(ctx context.Context, id string, patch model.ProjectPatch) (*model.Project, error) {
	const op = "service.UpdateProject"
	return s.mutate(ctx, id, op, func(p *model.Project) error {
		readdress := patch.ChangesAddress(*p)
		patch.ApplyTo(p)
		if !readdress {
			return nil
		}
		loc, err := s.locate(ctx, op, p.Address())
		if err != nil {
			return err
		}
		p.Location = loc
		return nil
	})
}

// Delete removes the project with id.
func (s *ProjectService) Delete(ctx context.Context, id string) error {
	const op = "service.DeleteProject"
	unlock := s.locks.Lock(id)
	defer unlock()

	if err := s.projects.Delete(ctx, id); err != nil {
		return storeError(s.logger, op, "Project", err)
	}
	s.logger.Info("deleted project", zap.String("op", op), zap.String("project_id", id))
	return nil
}

// Duplicate copies a project under a new id and the name "Copy of <name>".
// The copy is never archived.
func (s *ProjectService) Duplicate(ctx context.Context, id string) (*model.Project, error) {
	const op = "service.DuplicateProject"

	original, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	data, err := json.Marshal(original)
	if err != nil {
		return nil, apperr.Internal("failed to copy project", err)
	}
	var dup model.Project
	if err := json.Unmarshal(data, &dup); err != nil {
		return nil, apperr.Internal("failed to copy project", err)
	}
	dup.Meta = model.Meta{}
	dup.Archived = false
	dup.ProjectName = "Copy of " + original.ProjectName

	if err := s.projects.Insert(ctx, &dup); err != nil {
		return nil, storeError(s.logger, op, "Project", err)
	}
	s.logger.Info("duplicated project",
		zap.String("op", op),
		zap.String("project_id", id),
		zap.String("copy_id", dup.ID),
	)
	return &dup, nil
}

// mutate loads the project, applies fn and writes it back while holding the
// project's lock. The store's version check catches writers outside this
// process.
func (s *ProjectService) mutate(ctx context.Context, id, op string, fn func(p *model.Project) error) (*model.Project, error) {
	unlock := s.locks.Lock(id)
	defer unlock()

	p, err := s.projects.Get(ctx, id)
	if err != nil {
		return nil, storeError(s.logger, op, "Project", err)
	}
	if err := fn(p); err != nil {
		return nil, err
	}
	if err := s.projects.Replace(ctx, p); err != nil {
		return nil, storeError(s.logger, op, "Project", err)
	}
	return p, nil
}

func (s *ProjectService) locate(ctx context.Context, op, address string) (*model.Location, error) {
	if s.geocoder == nil {
		return nil, apperr.Validation(ErrGeocodeMessage)
	}
	loc, err := s.geocoder.Geocode(ctx, address)
	if err != nil {
		s.logger.Warn("geocoding failed",
			zap.String("op", op),
			zap.String("address", address),
			zap.Error(err),
		)
		return nil, apperr.Wrap(apperr.CodeValidation, ErrGeocodeMessage, err)
	}
	if loc == nil {
		return nil, apperr.Validation(ErrGeocodeMessage)
	}
	return &model.Location{Lat: loc.Lat, Lng: loc.Lng}, nil
}

// UpdateInput is a new progress note.
type UpdateInput struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Photos      []string `json:"photos"`
	DisplayAt   string   `json:"displayAt"`
}

// ListUpdates returns the project's updates, newest first.
func (s *ProjectService) ListUpdates(ctx context.Context, id string) ([]model.Update, error) {
	p, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	updates := slices.Clone(p.Updates)
	slices.Reverse(updates)
	if updates == nil {
		updates = []model.Update{}
	}
	return updates, nil
}

// AddUpdate appends a progress note written by author. An unparseable
// displayAt falls back to now.
func (s *ProjectService) AddUpdate(ctx context.Context, id, author string, input UpdateInput) (model.Update, error) {
	if strings.TrimSpace(input.Title) == "" || strings.TrimSpace(input.Description) == "" {
		return model.Update{}, apperr.Validation("Title and description are required.")
	}
	if strings.TrimSpace(author) == "" {
		return model.Update{}, apperr.Validation("An update author is required.")
	}

	now := store.Timestamp(s.now())
	update := model.Update{
		ID:          model.NewID(),
		Title:       input.Title,
		Description: input.Description,
		Author:      author,
		CreatedAt:   now,
		Photos:      input.Photos,
		DisplayAt:   datetime.ParseOrDefault(input.DisplayAt, now),
	}
	if update.Photos == nil {
		update.Photos = []string{}
	}

	_, err := s.mutate(ctx, id, "service.AddUpdate", func(p *model.Project) error {
		p.Updates = append(p.Updates, update)
		return nil
	})
	if err != nil {
		return model.Update{}, err
	}
	return update, nil
}

// EditUpdate merges the JSON object body into an existing update.
func (s *ProjectService) EditUpdate(ctx context.Context, id, updateID string, body []byte) (model.Update, error) {
	var edited model.Update
	_, err := s.mutate(ctx, id, "service.EditUpdate", func(p *model.Project) error {
		idx := p.FindUpdate(updateID)
		if idx < 0 {
			return apperr.NotFound("Update")
		}
		u := p.Updates[idx]
		if err := json.Unmarshal(body, &u); err != nil {
			return apperr.Wrap(apperr.CodeValidation, "invalid update: "+err.Error(), err)
		}
		u.ID = updateID
		if strings.TrimSpace(u.Title) == "" || strings.TrimSpace(u.Description) == "" {
			return apperr.Validation("Title and description are required.")
		}
		p.Updates[idx] = u
		edited = u
		return nil
	})
	return edited, err
}

// DeleteUpdate removes an update.
func (s *ProjectService) DeleteUpdate(ctx context.Context, id, updateID string) error {
	_, err := s.mutate(ctx, id, "service.DeleteUpdate", func(p *model.Project) error {
		idx := p.FindUpdate(updateID)
		if idx < 0 {
			return apperr.NotFound("Update")
		}
		p.Updates = slices.Delete(p.Updates, idx, idx+1)
		return nil
	})
	return err
}

// PropertySpecs returns the project's property specs.
func (s *ProjectService) PropertySpecs(ctx context.Context, id string) (model.PropertySpecs, error) {
	p, err := s.Get(ctx, id)
	if err != nil {
		return model.PropertySpecs{}, err
	}
	return p.PropertySpecs, nil
}

// SetPropertySpecs replaces the project's property specs.
func (s *ProjectService) SetPropertySpecs(ctx context.Context, id string, specs model.PropertySpecs) (model.PropertySpecs, error) {
	p, err := s.mutate(ctx, id, "service.SetPropertySpecs", func(p *model.Project) error {
		p.PropertySpecs = specs
		return nil
	})
	if err != nil {
		return model.PropertySpecs{}, err
	}
	return p.PropertySpecs, nil
}

// OwnerData returns the project's owner data.
func (s *ProjectService) OwnerData(ctx context.Context, id string) (model.OwnerData, error) {
	p, err := s.Get(ctx, id)
	if err != nil {
		return model.OwnerData{}, err
	}
	return p.OwnerData, nil
}

// SetOwnerData replaces the project's owner data.
func (s *ProjectService) SetOwnerData(ctx context.Context, id string, data model.OwnerData) (model.OwnerData, error) {
	p, err := s.mutate(ctx, id, "service.SetOwnerData", func(p *model.Project) error {
		p.OwnerData = data
		return nil
	})
	if err != nil {
		return model.OwnerData{}, err
	}
	return p.OwnerData, nil
}

// Budget returns the project's budget.
func (s *ProjectService) Budget(ctx context.Context, id string) (model.Budget, error) {
	p, err := s.Get(ctx, id)
	if err != nil {
		return model.Budget{}, err
	}
	return p.Budget, nil
}

// SetBudget replaces the project's budget.
func (s *ProjectService) SetBudget(ctx context.Context, id string, budget model.Budget) (model.Budget, error) {
	p, err := s.mutate(ctx, id, "service.SetBudget", func(p *model.Project) error {
		p.Budget = budget
		return nil
	})
	if err != nil {
		return model.Budget{}, err
	}
	return p.Budget, nil
}
