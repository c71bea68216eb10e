package service

import (
	"context"
	"slices"
	"strings"

	"github.com/iwvelando/rehabdesk/internal/apperr"
	"github.com/iwvelando/rehabdesk/internal/model"
	"github.com/iwvelando/rehabdesk/internal/store"
	"github.com/iwvelando/rehabdesk/pkg/datetime"
)

// PhotoPatch edits photo metadata. A nil field was absent.
type PhotoPatch struct {
	Date        *string `json:"date"`
	Description *string `json:"description"`
}

// PhotoInput registers a photo that is already hosted at URL.
type PhotoInput struct {
	URL         string `json:"url"`
	Filename    string `json:"filename"`
	Description string `json:"description"`
	Date        string `json:"date"`
}

// AddPhotos appends photo log entries. Every entry needs a URL.
func (s *ProjectService) AddPhotos(ctx context.Context, id string, inputs []PhotoInput) ([]model.PhotoLogEntry, error) {
	if len(inputs) == 0 {
		return nil, apperr.Validation("No photos provided")
	}
	now := store.Timestamp(s.now())
	entries := make([]model.PhotoLogEntry, 0, len(inputs))
	for _, in := range inputs {
		if strings.TrimSpace(in.URL) == "" {
			return nil, apperr.Validation("Every photo needs a url")
		}
		entries = append(entries, model.PhotoLogEntry{
			ID:          model.NewID(),
			URL:         in.URL,
			Date:        datetime.ParseOrDefault(in.Date, now),
			Description: in.Description,
			Filename:    in.Filename,
		})
	}

	_, err := s.mutate(ctx, id, "service.AddPhotos", func(p *model.Project) error {
		p.PhotoLog = append(p.PhotoLog, entries...)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return entries, nil
}

// Photos returns the project's photo log.
func (s *ProjectService) Photos(ctx context.Context, id string) ([]model.PhotoLogEntry, error) {
	p, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if p.PhotoLog == nil {
		return []model.PhotoLogEntry{}, nil
	}
	return p.PhotoLog, nil
}

// UpdatePhoto changes a photo's date or description. An empty date is
// ignored.
func (s *ProjectService) UpdatePhoto(ctx context.Context, id, photoID string, patch PhotoPatch) (model.PhotoLogEntry, error) {
	var photo model.PhotoLogEntry
	_, err := s.mutate(ctx, id, "service.UpdatePhoto", func(p *model.Project) error {
		idx := p.FindPhoto(photoID)
		if idx < 0 {
			return apperr.NotFound("Photo")
		}
		entry := p.PhotoLog[idx]
		if patch.Date != nil && *patch.Date != "" {
			date, err := datetime.ParseTimestamp(*patch.Date)
			if err != nil {
				return apperr.Wrap(apperr.CodeValidation, "invalid photo date: "+*patch.Date, err)
			}
			entry.Date = date
		}
		if patch.Description != nil {
			entry.Description = *patch.Description
		}
		p.PhotoLog[idx] = entry
		photo = entry
		return nil
	})
	return photo, err
}

// DeletePhoto removes a photo log entry. The stored file is not touched.
func (s *ProjectService) DeletePhoto(ctx context.Context, id, photoID string) error {
	_, err := s.mutate(ctx, id, "service.DeletePhoto", func(p *model.Project) error {
		idx := p.FindPhoto(photoID)
		if idx < 0 {
			return apperr.NotFound("Photo")
		}
		p.PhotoLog = slices.Delete(p.PhotoLog, idx, idx+1)
		return nil
	})
	return err
}
