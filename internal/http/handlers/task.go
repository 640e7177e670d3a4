package handlers

import (
	"net/http"

	"taskboard/internal/domain"
	"taskboard/internal/repository"
	"taskboard/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

func (h *Handler) CreateTask(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "Not authenticated"})
		return
	}

	var in service.CreateTaskInput
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c, err.Error())
		return
	}

	task, err := h.Tasks.Create(c.Request.Context(), in, userID)
	if err != nil {
		respondError(c, err)
		return
	}

	h.Hub.BroadcastTaskCreated(task)
	if task.Assignee != nil {
		h.Hub.NotifyTaskAssigned(task.Assignee.ID(), task)
	}

	respond(c, http.StatusCreated, "Task created successfully", gin.H{"task": task})
}

func (h *Handler) ListTasks(c *gin.Context) {
	filter, sort, err := parseTaskQuery(c)
	if err != nil {
		respondError(c, err)
		return
	}

	tasks, err := h.Tasks.List(c.Request.Context(), filter, sort)
	if err != nil {
		respondError(c, err)
		return
	}
	if tasks == nil {
		tasks = []*domain.Task{}
	}

	respond(c, http.StatusOK, "", gin.H{"tasks": tasks, "count": len(tasks)})
}

func (h *Handler) GetTask(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondError(c, domain.ErrTaskNotFound)
		return
	}

	task, err := h.Tasks.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, "", gin.H{"task": task})
}

func (h *Handler) UpdateTask(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "Not authenticated"})
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondError(c, domain.ErrTaskNotFound)
		return
	}

	var in service.UpdateTaskInput
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c, err.Error())
		return
	}

	task, previousAssignee, err := h.Tasks.Update(c.Request.Context(), id, in, userID)
	if err != nil {
		respondError(c, err)
		return
	}

	h.Hub.BroadcastTaskUpdated(task)

	// notify the new assignee when the assignment actually changed hands
	if task.Assignee != nil {
		newAssignee := task.Assignee.ID()
		if previousAssignee == nil || *previousAssignee != newAssignee {
			h.Hub.NotifyTaskAssigned(newAssignee, task)
		}
	}

	data := gin.H{"task": task}
	if previousAssignee != nil {
		data["previousAssignee"] = previousAssignee.String()
	}
	respond(c, http.StatusOK, "Task updated successfully", data)
}

func (h *Handler) DeleteTask(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "Not authenticated"})
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondError(c, domain.ErrTaskNotFound)
		return
	}

	if err := h.Tasks.Delete(c.Request.Context(), id, userID); err != nil {
		respondError(c, err)
		return
	}

	h.Hub.BroadcastTaskDeleted(id)
	respond(c, http.StatusOK, "Task deleted successfully", nil)
}

func (h *Handler) Dashboard(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "Not authenticated"})
		return
	}

	dashboard, err := h.Tasks.GetDashboard(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, "", dashboard)
}

// parseTaskQuery builds the typed filter and sort config from the query
// string, rejecting unrecognized enum values.
func parseTaskQuery(c *gin.Context) (repository.TaskFilter, repository.TaskSort, error) {
	var filter repository.TaskFilter
	var sort repository.TaskSort

	if v := c.Query("status"); v != "" {
		status := domain.Status(v)
		if !status.Valid() {
			return filter, sort, domain.Validation("invalid status filter")
		}
		filter.Status = &status
	}
	if v := c.Query("priority"); v != "" {
		priority := domain.Priority(v)
		if !priority.Valid() {
			return filter, sort, domain.Validation("invalid priority filter")
		}
		filter.Priority = &priority
	}
	if v := c.Query("assignedToId"); v != "" {
		id, err := uuid.Parse(v)
		if err != nil {
			return filter, sort, domain.Validation("invalid assignedToId filter")
		}
		filter.AssignedToID = &id
	}
	if v := c.Query("creatorId"); v != "" {
		id, err := uuid.Parse(v)
		if err != nil {
			return filter, sort, domain.Validation("invalid creatorId filter")
		}
		filter.CreatorID = &id
	}
	filter.Overdue = c.Query("overdue") == "true"

	sort.Field = repository.SortDueDate
	if v := c.Query("sortBy"); v != "" {
		sort.Field = repository.SortField(v)
	}
	sort.Desc = c.Query("sortOrder") == "desc"

	return filter, sort, nil
}
