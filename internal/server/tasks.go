package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/iwvelando/rehabdesk/internal/model"
)

func (h *handler) taskListRoutes(r chi.Router) {
	r.Get("/", h.handleListTaskLists)
	r.Post("/", h.handleCreateTaskList)
	r.Get("/counts", h.handleTaskCounts)
	r.Delete("/{id}", h.handleDeleteTaskList)
}

func (h *handler) taskRoutes(r chi.Router) {
	r.Get("/", h.handleListTasks)
	r.Post("/", h.handleCreateTask)
	r.Put("/{id}", h.handleUpdateTask)
	r.Delete("/{id}", h.handleDeleteTask)
}

func (h *handler) handleListTaskLists(w http.ResponseWriter, r *http.Request) {
	lists, err := h.svc.Tasks.Lists(r.Context())
	if err != nil {
		h.respond(w, err, "server.handleListTaskLists")
		return
	}
	h.writeJSON(w, http.StatusOK, lists)
}

func (h *handler) handleCreateTaskList(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleCreateTaskList"
	var l model.TaskList
	if err := h.decodeJSON(w, r, &l); err != nil {
		h.respond(w, err, op)
		return
	}
	if l.CreatedBy == "" {
		l.CreatedBy = author(r)
	}
	saved, err := h.svc.Tasks.CreateList(r.Context(), l)
	if err != nil {
		h.respond(w, err, op)
		return
	}
	h.writeJSON(w, http.StatusCreated, saved)
}

func (h *handler) handleTaskCounts(w http.ResponseWriter, r *http.Request) {
	counts, err := h.svc.Tasks.Counts(r.Context())
	if err != nil {
		h.respond(w, err, "server.handleTaskCounts")
		return
	}
	h.writeJSON(w, http.StatusOK, counts)
}

func (h *handler) handleDeleteTaskList(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Tasks.DeleteList(r.Context(), chi.URLParam(r, "id")); err != nil {
		h.respond(w, err, "server.handleDeleteTaskList")
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]string{"message": "Task list deleted"})
}

func (h *handler) handleListTasks(w http.ResponseWriter, r *http.Request) {
	tasks, err := h.svc.Tasks.Tasks(r.Context(), r.URL.Query().Get("list"))
	if err != nil {
		h.respond(w, err, "server.handleListTasks")
		return
	}
	h.writeJSON(w, http.StatusOK, tasks)
}

func (h *handler) handleCreateTask(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleCreateTask"
	var t model.Task
	if err := h.decodeJSON(w, r, &t); err != nil {
		h.respond(w, err, op)
		return
	}
	saved, err := h.svc.Tasks.CreateTask(r.Context(), t)
	if err != nil {
		h.respond(w, err, op)
		return
	}
	h.writeJSON(w, http.StatusCreated, saved)
}

func (h *handler) handleUpdateTask(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleUpdateTask"
	body, err := h.readBody(w, r)
	if err != nil {
		h.respond(w, err, op)
		return
	}
	t, err := h.svc.Tasks.UpdateTask(r.Context(), chi.URLParam(r, "id"), body)
	if err != nil {
		h.respond(w, err, op)
		return
	}
	h.writeJSON(w, http.StatusOK, t)
}

func (h *handler) handleDeleteTask(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Tasks.DeleteTask(r.Context(), chi.URLParam(r, "id")); err != nil {
		h.respond(w, err, "server.handleDeleteTask")
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]string{"message": "Task deleted"})
}
