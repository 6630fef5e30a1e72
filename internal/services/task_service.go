package services

import (
	"errors"
	"fmt"

	"github.com/yukikurage/taskflow-api/internal/models"
	"github.com/yukikurage/taskflow-api/internal/repository"
	"gorm.io/gorm"
)

var (
	// ErrTaskNotFound covers both a missing task and a task owned by another
	// user; the two cases are deliberately indistinguishable.
	ErrTaskNotFound  = errors.New("task not found")
	ErrTitleRequired = errors.New("title is required")
	ErrInvalidStatus = errors.New("invalid task status")
)

// TaskService handles task business logic. Every operation is scoped by the
// owning user's ID, which must come from the authorization guard.
type TaskService struct {
	taskRepo repository.TaskRepository
}

// NewTaskService creates a new TaskService.
func NewTaskService(taskRepo repository.TaskRepository) *TaskService {
	return &TaskService{
		taskRepo: taskRepo,
	}
}

// ListTasks returns all tasks belonging to the user in creation order.
func (s *TaskService) ListTasks(userID string) ([]models.Task, error) {
	tasks, err := s.taskRepo.ListByOwner(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	return tasks, nil
}

// GetTask returns a task by ID, or nil when it does not exist under this
// owner. A miss is not an error for reads.
func (s *TaskService) GetTask(userID, taskID string) (*models.Task, error) {
	task, err := s.taskRepo.FindByOwner(userID, taskID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find task: %w", err)
	}
	return task, nil
}

// CreateTaskInput represents the fields for a new task.
type CreateTaskInput struct {
	Title       string
	Description string
	Status      string
}

// CreateTask validates the input and persists a new task owned by the user.
// An empty status defaults to pending.
func (s *TaskService) CreateTask(userID string, input CreateTaskInput) (*models.Task, error) {
	if input.Title == "" {
		return nil, ErrTitleRequired
	}

	status := models.TaskStatusPending
	if input.Status != "" {
		status = models.TaskStatus(input.Status)
		if !status.Valid() {
			return nil, ErrInvalidStatus
		}
	}

	task := &models.Task{
		Title:       input.Title,
		Description: input.Description,
		Status:      status,
		UserID:      userID,
	}

	if err := s.taskRepo.Create(task); err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}

	return task, nil
}

// UpdateTaskInput carries the fields of a partial update. A nil field was not
// provided and leaves the stored value untouched; a non-nil field is set even
// when it points at an empty string.
type UpdateTaskInput struct {
	Title       *string
	Description *string
	Status      *string
}

// UpdateTask applies the provided fields to a task under this owner.
func (s *TaskService) UpdateTask(userID, taskID string, input UpdateTaskInput) (*models.Task, error) {
	task, err := s.taskRepo.FindByOwner(userID, taskID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to find task: %w", err)
	}

	if input.Title != nil {
		if *input.Title == "" {
			return nil, ErrTitleRequired
		}
		task.Title = *input.Title
	}
	if input.Description != nil {
		task.Description = *input.Description
	}
	if input.Status != nil {
		status := models.TaskStatus(*input.Status)
		if !status.Valid() {
			return nil, ErrInvalidStatus
		}
		task.Status = status
	}

	if err := s.taskRepo.Update(task); err != nil {
		return nil, fmt.Errorf("failed to update task: %w", err)
	}

	return task, nil
}

// DeleteTask hard-deletes a task under this owner. Deleting a task that no
// longer exists fails with ErrTaskNotFound.
func (s *TaskService) DeleteTask(userID, taskID string) error {
	if err := s.taskRepo.DeleteByOwner(userID, taskID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrTaskNotFound
		}
		return fmt.Errorf("failed to delete task: %w", err)
	}
	return nil
}
