package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/iwvelando/rehabdesk/internal/brrrr"
	"github.com/iwvelando/rehabdesk/internal/model"
	"github.com/iwvelando/rehabdesk/internal/service"
)

func (h *handler) projectRoutes(r chi.Router) {
	r.Get("/", h.handleListProjects)
	r.Post("/", h.handleCreateProject)

	r.Route("/{id}", func(r chi.Router) {
		r.Get("/", h.handleGetProject)
		r.Put("/", h.handleUpdateProject)
		r.Delete("/", h.handleDeleteProject)
		r.Post("/duplicate", h.handleDuplicateProject)

		r.Get("/updates", h.handleListUpdates)
		r.Post("/updates", h.handleAddUpdate)
		r.Put("/updates/{updateId}", h.handleEditUpdate)
		r.Delete("/updates/{updateId}", h.handleDeleteUpdate)

		r.Get("/property-specs", h.handleGetPropertySpecs)
		r.Put("/property-specs", h.handleSetPropertySpecs)
		r.Get("/owner-data", h.handleGetOwnerData)
		r.Put("/owner-data", h.handleSetOwnerData)
		r.Get("/budget", h.handleGetBudget)
		r.Put("/budget", h.handleSetBudget)

		r.Get("/flip-analyzer", h.handleGetFlipAnalyzer)
		r.Put("/flip-analyzer", h.handleUpdateFlipAnalyzer)
		r.Get("/flip-analyzer/evaluation", h.handleEvaluateFlip)
		r.Get("/brrrr-analyzer", h.handleGetBrrrrAnalyzer)
		r.Put("/brrrr-analyzer", h.handleUpdateBrrrrAnalyzer)

		r.Get("/photo-log", h.handleListPhotos)
		r.Post("/photo-log", h.handleAddPhotos)
		r.Put("/photo-log/{photoId}", h.handleUpdatePhoto)
		r.Delete("/photo-log/{photoId}", h.handleDeletePhoto)
	})
}

func (h *handler) handleListProjects(w http.ResponseWriter, r *http.Request) {
	projects, err := h.svc.Projects.List(r.Context())
	if err != nil {
		h.respond(w, err, "server.handleListProjects")
		return
	}
	h.writeJSON(w, http.StatusOK, projects)
}

func (h *handler) handleCreateProject(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleCreateProject"
	var input model.Project
	if err := h.decodeJSON(w, r, &input); err != nil {
		h.respond(w, err, op)
		return
	}
	p, err := h.svc.Projects.Create(r.Context(), input)
	if err != nil {
		h.respond(w, err, op)
		return
	}
	h.writeJSON(w, http.StatusOK, p)
}

func (h *handler) handleGetProject(w http.ResponseWriter, r *http.Request) {
	p, err := h.svc.Projects.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.respond(w, err, "server.handleGetProject")
		return
	}
	h.writeJSON(w, http.StatusOK, p)
}

func (h *handler) handleUpdateProject(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleUpdateProject"
	var patch model.ProjectPatch
	if err := h.decodeJSON(w, r, &patch); err != nil {
		h.respond(w, err, op)
		return
	}
	p, err := h.svc.Projects.Update(r.Context(), chi.URLParam(r, "id"), patch)
	if err != nil {
		h.respond(w, err, op)
		return
	}
	h.writeJSON(w, http.StatusOK, p)
}

func (h *handler) handleDeleteProject(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Projects.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		h.respond(w, err, "server.handleDeleteProject")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *handler) handleDuplicateProject(w http.ResponseWriter, r *http.Request) {
	p, err := h.svc.Projects.Duplicate(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.respond(w, err, "server.handleDuplicateProject")
		return
	}
	h.writeJSON(w, http.StatusOK, p)
}

func (h *handler) handleListUpdates(w http.ResponseWriter, r *http.Request) {
	updates, err := h.svc.Projects.ListUpdates(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.respond(w, err, "server.handleListUpdates")
		return
	}
	h.writeJSON(w, http.StatusOK, updates)
}

func (h *handler) handleAddUpdate(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleAddUpdate"
	var input service.UpdateInput
	if err := h.decodeJSON(w, r, &input); err != nil {
		h.respond(w, err, op)
		return
	}
	update, err := h.svc.Projects.AddUpdate(r.Context(), chi.URLParam(r, "id"), author(r), input)
	if err != nil {
		h.respond(w, err, op)
		return
	}
	h.writeJSON(w, http.StatusOK, update)
}

func (h *handler) handleEditUpdate(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleEditUpdate"
	body, err := h.readBody(w, r)
	if err != nil {
		h.respond(w, err, op)
		return
	}
	update, err := h.svc.Projects.EditUpdate(r.Context(), chi.URLParam(r, "id"), chi.URLParam(r, "updateId"), body)
	if err != nil {
		h.respond(w, err, op)
		return
	}
	h.writeJSON(w, http.StatusOK, update)
}

func (h *handler) handleDeleteUpdate(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Projects.DeleteUpdate(r.Context(), chi.URLParam(r, "id"), chi.URLParam(r, "updateId")); err != nil {
		h.respond(w, err, "server.handleDeleteUpdate")
		return
	}
	h.writeSuccess(w)
}

func (h *handler) handleGetPropertySpecs(w http.ResponseWriter, r *http.Request) {
	specs, err := h.svc.Projects.PropertySpecs(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.respond(w, err, "server.handleGetPropertySpecs")
		return
	}
	h.writeJSON(w, http.StatusOK, specs)
}

func (h *handler) handleSetPropertySpecs(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleSetPropertySpecs"
	var specs model.PropertySpecs
	if err := h.decodeJSON(w, r, &specs); err != nil {
		h.respond(w, err, op)
		return
	}
	saved, err := h.svc.Projects.SetPropertySpecs(r.Context(), chi.URLParam(r, "id"), specs)
	if err != nil {
		h.respond(w, err, op)
		return
	}
	h.writeJSON(w, http.StatusOK, saved)
}

func (h *handler) handleGetOwnerData(w http.ResponseWriter, r *http.Request) {
	data, err := h.svc.Projects.OwnerData(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.respond(w, err, "server.handleGetOwnerData")
		return
	}
	h.writeJSON(w, http.StatusOK, data)
}

func (h *handler) handleSetOwnerData(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleSetOwnerData"
	var data model.OwnerData
	if err := h.decodeJSON(w, r, &data); err != nil {
		h.respond(w, err, op)
		return
	}
	saved, err := h.svc.Projects.SetOwnerData(r.Context(), chi.URLParam(r, "id"), data)
	if err != nil {
		h.respond(w, err, op)
		return
	}
	h.writeJSON(w, http.StatusOK, saved)
}

func (h *handler) handleGetBudget(w http.ResponseWriter, r *http.Request) {
	budget, err := h.svc.Projects.Budget(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.respond(w, err, "server.handleGetBudget")
		return
	}
	h.writeJSON(w, http.StatusOK, budget)
}

func (h *handler) handleSetBudget(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleSetBudget"
	var budget model.Budget
	if err := h.decodeJSON(w, r, &budget); err != nil {
		h.respond(w, err, op)
		return
	}
	saved, err := h.svc.Projects.SetBudget(r.Context(), chi.URLParam(r, "id"), budget)
	if err != nil {
		h.respond(w, err, op)
		return
	}
	h.writeJSON(w, http.StatusOK, saved)
}

func (h *handler) handleGetFlipAnalyzer(w http.ResponseWriter, r *http.Request) {
	a, err := h.svc.Projects.FlipAnalyzer(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.respond(w, err, "server.handleGetFlipAnalyzer")
		return
	}
	h.writeJSON(w, http.StatusOK, a)
}

func (h *handler) handleUpdateFlipAnalyzer(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleUpdateFlipAnalyzer"
	body, err := h.readBody(w, r)
	if err != nil {
		h.respond(w, err, op)
		return
	}
	a, err := h.svc.Projects.UpdateFlipAnalyzer(r.Context(), chi.URLParam(r, "id"), body)
	if err != nil {
		h.respond(w, err, op)
		return
	}
	h.writeJSON(w, http.StatusOK, a)
}

func (h *handler) handleEvaluateFlip(w http.ResponseWriter, r *http.Request) {
	eval, err := h.svc.Projects.EvaluateFlip(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.respond(w, err, "server.handleEvaluateFlip")
		return
	}
	h.writeJSON(w, http.StatusOK, eval)
}

func (h *handler) handleGetBrrrrAnalyzer(w http.ResponseWriter, r *http.Request) {
	a, err := h.svc.Projects.BrrrrAnalyzer(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.respond(w, err, "server.handleGetBrrrrAnalyzer")
		return
	}
	h.writeJSON(w, http.StatusOK, a)
}

func (h *handler) handleUpdateBrrrrAnalyzer(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleUpdateBrrrrAnalyzer"
	var upd brrrr.Update
	if err := h.decodeJSON(w, r, &upd); err != nil {
		h.respond(w, err, op)
		return
	}
	a, err := h.svc.Projects.UpdateBrrrrAnalyzer(r.Context(), chi.URLParam(r, "id"), upd)
	if err != nil {
		h.respond(w, err, op)
		return
	}
	h.writeJSON(w, http.StatusOK, a)
}

func (h *handler) handleListPhotos(w http.ResponseWriter, r *http.Request) {
	photos, err := h.svc.Projects.Photos(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.respond(w, err, "server.handleListPhotos")
		return
	}
	h.writeJSON(w, http.StatusOK, photos)
}

func (h *handler) handleAddPhotos(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleAddPhotos"
	var req struct {
		Photos []service.PhotoInput `json:"photos"`
	}
	if err := h.decodeJSON(w, r, &req); err != nil {
		h.respond(w, err, op)
		return
	}
	photos, err := h.svc.Projects.AddPhotos(r.Context(), chi.URLParam(r, "id"), req.Photos)
	if err != nil {
		h.respond(w, err, op)
		return
	}
	h.writeJSON(w, http.StatusCreated, photos)
}

func (h *handler) handleUpdatePhoto(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleUpdatePhoto"
	var patch service.PhotoPatch
	if err := h.decodeJSON(w, r, &patch); err != nil {
		h.respond(w, err, op)
		return
	}
	photo, err := h.svc.Projects.UpdatePhoto(r.Context(), chi.URLParam(r, "id"), chi.URLParam(r, "photoId"), patch)
	if err != nil {
		h.respond(w, err, op)
		return
	}
	h.writeJSON(w, http.StatusOK, photo)
}

func (h *handler) handleDeletePhoto(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Projects.DeletePhoto(r.Context(), chi.URLParam(r, "id"), chi.URLParam(r, "photoId")); err != nil {
		h.respond(w, err, "server.handleDeletePhoto")
		return
	}
	h.writeSuccess(w)
}
