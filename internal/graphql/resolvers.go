package graphql

import (
	"context"
	"errors"

	"github.com/gin-contrib/sessions"
	"github.com/graphql-go/graphql"
	"github.com/yukikurage/taskflow-api/internal/constants"
	"github.com/yukikurage/taskflow-api/internal/dto"
	"github.com/yukikurage/taskflow-api/internal/guard"
	"github.com/yukikurage/taskflow-api/internal/services"
)

// Wire-level error messages. Missing and foreign tasks share one message so
// the existence of other users' tasks never leaks.
var (
	errAuthRequired   = errors.New("Authentication required. Please log in.")
	errTaskNotModify  = errors.New("Task does not exist or you do not have permission to modify it.")
	errTaskNotDelete  = errors.New("Task does not exist or you do not have permission to delete it.")
	errSessionFailure = errors.New("Failed to save session")
	errInternal       = errors.New("Internal server error")
)

// Resolver implements the GraphQL operations on top of the same services the
// REST façade uses.
type Resolver struct {
	authService *services.AuthService
	taskService *services.TaskService
}

// NewResolver creates a new Resolver.
func NewResolver(authService *services.AuthService, taskService *services.TaskService) *Resolver {
	return &Resolver{
		authService: authService,
		taskService: taskService,
	}
}

func requireUser(ctx context.Context) (guard.CurrentUser, error) {
	current := guard.FromContext(ctx)
	if err := guard.Require(current); err != nil {
		return guard.CurrentUser{}, errAuthRequired
	}
	return current, nil
}

func stringArg(p graphql.ResolveParams, name string) string {
	v, _ := p.Args[name].(string)
	return v
}

func optionalStringArg(p graphql.ResolveParams, name string) *string {
	if v, ok := p.Args[name].(string); ok {
		return &v
	}
	return nil
}

func (r *Resolver) saveSessionUser(ctx context.Context, userID string) error {
	c, ok := ginContext(ctx)
	if !ok {
		return errSessionFailure
	}
	session := sessions.Default(c)
	session.Set(constants.ContextKeyUserID, userID)
	if err := session.Save(); err != nil {
		return errSessionFailure
	}
	return nil
}

// Me resolves the authenticated user.
func (r *Resolver) Me(p graphql.ResolveParams) (interface{}, error) {
	current, err := requireUser(p.Context)
	if err != nil {
		return nil, err
	}

	user, err := r.authService.GetUser(current.ID)
	if err != nil {
		return nil, errInternal
	}

	return dto.ToUserDTO(*user), nil
}

// GetTasks resolves all tasks of the authenticated user.
func (r *Resolver) GetTasks(p graphql.ResolveParams) (interface{}, error) {
	current, err := requireUser(p.Context)
	if err != nil {
		return nil, err
	}

	tasks, err := r.taskService.ListTasks(current.ID)
	if err != nil {
		return nil, errInternal
	}

	return dto.ToTaskDTOs(tasks), nil
}

// GetTask resolves a single task by ID, or null when it does not exist under
// this owner.
func (r *Resolver) GetTask(p graphql.ResolveParams) (interface{}, error) {
	current, err := requireUser(p.Context)
	if err != nil {
		return nil, err
	}

	task, err := r.taskService.GetTask(current.ID, stringArg(p, "id"))
	if err != nil {
		return nil, errInternal
	}
	if task == nil {
		return nil, nil
	}

	return dto.ToTaskDTO(*task), nil
}

// Signup registers a new user and starts their session.
func (r *Resolver) Signup(p graphql.ResolveParams) (interface{}, error) {
	user, err := r.authService.Signup(services.SignupInput{
		Name:     stringArg(p, "name"),
		Email:    stringArg(p, "email"),
		Password: stringArg(p, "password"),
	})
	if err != nil {
		switch {
		case errors.Is(err, services.ErrEmailTaken):
			return nil, errors.New("Email already exists")
		case errors.Is(err, services.ErrNameRequired),
			errors.Is(err, services.ErrEmailRequired),
			errors.Is(err, services.ErrPasswordRequired):
			return nil, err
		default:
			return nil, errInternal
		}
	}

	if err := r.saveSessionUser(p.Context, user.ID); err != nil {
		return nil, err
	}

	return dto.ToUserDTO(*user), nil
}

// Login verifies credentials and initializes the session.
func (r *Resolver) Login(p graphql.ResolveParams) (interface{}, error) {
	user, err := r.authService.Login(services.LoginInput{
		Email:    stringArg(p, "email"),
		Password: stringArg(p, "password"),
	})
	if err != nil {
		if errors.Is(err, services.ErrInvalidCredentials) {
			return nil, errors.New("Invalid credentials")
		}
		return nil, errInternal
	}

	if err := r.saveSessionUser(p.Context, user.ID); err != nil {
		return nil, err
	}

	return "Login successful", nil
}

// Logout destroys the session.
func (r *Resolver) Logout(p graphql.ResolveParams) (interface{}, error) {
	c, ok := ginContext(p.Context)
	if !ok {
		return nil, errInternal
	}

	session := sessions.Default(c)
	session.Clear()
	session.Options(sessions.Options{Path: "/", MaxAge: -1})
	if err := session.Save(); err != nil {
		return nil, errors.New("Logout failed")
	}

	return "Logout successful", nil
}

// CreateTask creates a new task owned by the authenticated user.
func (r *Resolver) CreateTask(p graphql.ResolveParams) (interface{}, error) {
	current, err := requireUser(p.Context)
	if err != nil {
		return nil, err
	}

	input := services.CreateTaskInput{
		Title: stringArg(p, "title"),
	}
	if description := optionalStringArg(p, "description"); description != nil {
		input.Description = *description
	}
	if status := optionalStringArg(p, "status"); status != nil {
		input.Status = *status
	}

	task, err := r.taskService.CreateTask(current.ID, input)
	if err != nil {
		return nil, taskWriteError(err, errTaskNotModify)
	}

	return dto.ToTaskDTO(*task), nil
}

// UpdateTask applies the provided fields to a task of the authenticated user.
func (r *Resolver) UpdateTask(p graphql.ResolveParams) (interface{}, error) {
	current, err := requireUser(p.Context)
	if err != nil {
		return nil, err
	}

	input := services.UpdateTaskInput{
		Title:       optionalStringArg(p, "title"),
		Description: optionalStringArg(p, "description"),
		Status:      optionalStringArg(p, "status"),
	}

	task, err := r.taskService.UpdateTask(current.ID, stringArg(p, "id"), input)
	if err != nil {
		return nil, taskWriteError(err, errTaskNotModify)
	}

	return dto.ToTaskDTO(*task), nil
}

// DeleteTask removes a task of the authenticated user.
func (r *Resolver) DeleteTask(p graphql.ResolveParams) (interface{}, error) {
	current, err := requireUser(p.Context)
	if err != nil {
		return nil, err
	}

	if err := r.taskService.DeleteTask(current.ID, stringArg(p, "id")); err != nil {
		return nil, taskWriteError(err, errTaskNotDelete)
	}

	return "Task deleted successfully", nil
}

func taskWriteError(err error, notFound error) error {
	switch {
	case errors.Is(err, services.ErrTaskNotFound):
		return notFound
	case errors.Is(err, services.ErrTitleRequired),
		errors.Is(err, services.ErrInvalidStatus):
		return err
	default:
		return errInternal
	}
}
