package repository

import (
	"github.com/yukikurage/taskflow-api/internal/models"
)

// UserRepository defines the interface for user data access
type UserRepository interface {
	// Create creates a new user
	Create(user *models.User) error

	// FindByID finds a user by ID
	FindByID(id string) (*models.User, error)

	// FindByEmail finds a user by their normalized email
	FindByEmail(email string) (*models.User, error)
}

// TaskRepository defines the interface for task data access. Every lookup is
// scoped by the owning user so a task belonging to someone else is
// indistinguishable from a missing one.
type TaskRepository interface {
	// Create creates a new task
	Create(task *models.Task) error

	// FindByOwner finds a task by ID under the given owner
	FindByOwner(userID, taskID string) (*models.Task, error)

	// ListByOwner retrieves all tasks belonging to the user in creation order
	ListByOwner(userID string) ([]models.Task, error)

	// Update persists changes to a task
	Update(task *models.Task) error

	// DeleteByOwner hard-deletes a task under the given owner
	DeleteByOwner(userID, taskID string) error
}
