package commands

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/mamadbah2/hatchery/internal/domain/models"
	"github.com/mamadbah2/hatchery/internal/repository"
)

// ErrInvalidArguments indicates the command payload could not be parsed.
var ErrInvalidArguments = errors.New("invalid command arguments")

// ErrUnsupportedCommand indicates we do not support the requested command.
var ErrUnsupportedCommand = errors.New("unsupported command")

// Digest renders the summaries behind /today and /status.
type Digest interface {
	PendingTasks(ctx context.Context) (string, error)
	BatchStatuses(ctx context.Context) (string, error)
}

// Tasks is the slice of the batch service the dispatcher needs to toggle tasks.
type Tasks interface {
	FindTask(ctx context.Context, taskID string) (models.Batch, models.Task, error)
	SetTaskCompleted(ctx context.Context, batchID, taskID string, completed bool) (models.Task, error)
}

// Dispatcher executes parsed commands and returns the reply text.
type Dispatcher interface {
	HandleCommand(ctx context.Context, cmd models.Command, sender string) (string, error)
}

// Service implements the Dispatcher interface.
type Service struct {
	tasks  Tasks
	digest Digest
	logger *zap.Logger
}

// NewService constructs a command dispatcher.
func NewService(tasks Tasks, digest Digest, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		tasks:  tasks,
		digest: digest,
		logger: logger,
	}
}

var helpReply = models.AutomationReply{
	Title: "Hatchery commands",
	Message: strings.Join([]string{
		"/today - pending tasks for today",
		"/status - where every batch stands",
		"/done <task id> - mark a task as done",
		"/undo <task id> - reopen a task",
		"/help - this message",
	}, "\n"),
}

// HelpText is the reply to /help and to unknown commands.
func HelpText() string {
	return fmt.Sprintf("%s\n%s", helpReply.Title, helpReply.Message)
}

// HandleCommand runs the command and renders its reply.
func (s *Service) HandleCommand(ctx context.Context, cmd models.Command, sender string) (string, error) {
	s.logger.Debug("dispatching command", zap.String("command", string(cmd.Type)), zap.String("sender", sender), zap.Strings("args", cmd.Args))

	switch cmd.Type {
	case models.CommandToday:
		return s.digest.PendingTasks(ctx)
	case models.CommandStatus:
		return s.digest.BatchStatuses(ctx)
	case models.CommandDone:
		return s.toggle(ctx, cmd, true)
	case models.CommandUndo:
		return s.toggle(ctx, cmd, false)
	case models.CommandHelp:
		return HelpText(), nil
	default:
		return "", ErrUnsupportedCommand
	}
}

func (s *Service) toggle(ctx context.Context, cmd models.Command, completed bool) (string, error) {
	if len(cmd.Args) != 1 {
		return "", ErrInvalidArguments
	}
	taskID := cmd.Args[0]

	batch, task, err := s.tasks.FindTask(ctx, taskID)
	if errors.Is(err, repository.ErrNotFound) {
		return fmt.Sprintf("No task with id %s.", taskID), nil
	}
	if err != nil {
		return "", fmt.Errorf("find task: %w", err)
	}

	if task.Completed == completed {
		return fmt.Sprintf("%s (%s) is already %s.", task.Description, batch.Name, stateWord(completed)), nil
	}

	task, err = s.tasks.SetTaskCompleted(ctx, batch.ID, taskID, completed)
	if err != nil {
		return "", fmt.Errorf("update task: %w", err)
	}

	s.logger.Info("task toggled from chat", zap.String("task_id", taskID), zap.Bool("completed", completed))
	return fmt.Sprintf("%s (%s) marked %s.", task.Description, batch.Name, stateWord(completed)), nil
}

func stateWord(completed bool) string {
	if completed {
		return "done"
	}
	return "pending"
}
