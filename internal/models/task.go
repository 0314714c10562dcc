package models

import (
	"math"
	"strings"
	"time"

	"gorm.io/gorm"
)

type TaskStatus string

const (
	TaskStatusTodo       TaskStatus = "to-do"
	TaskStatusInProgress TaskStatus = "in-progress"
	TaskStatusDone       TaskStatus = "done"
)

// TaskStatuses lists every valid status in display order.
var TaskStatuses = []TaskStatus{TaskStatusTodo, TaskStatusInProgress, TaskStatusDone}

// Valid reports whether s is one of the known statuses.
func (s TaskStatus) Valid() bool {
	switch s {
	case TaskStatusTodo, TaskStatusInProgress, TaskStatusDone:
		return true
	}
	return false
}

// ParseTaskStatus returns the status named by s and whether it is valid.
func ParseTaskStatus(s string) (TaskStatus, bool) {
	status := TaskStatus(s)
	return status, status.Valid()
}

// TimestampLayout is the layout used for subtask timestamps and console output.
const TimestampLayout = "2006-01-02 15:04:05"

type Task struct {
	ID          uint64     `gorm:"primarykey" json:"id"`
	UserID      uint64     `gorm:"not null;index" json:"user_id"`
	Title       string     `gorm:"type:varchar(100);not null" json:"title"`
	Description string     `gorm:"type:text;not null" json:"description"`
	Status      TaskStatus `gorm:"type:varchar(20);not null;default:'to-do'" json:"status"`
	IsPublished bool       `gorm:"not null;default:false" json:"is_published"`
	ImagePath   *string    `gorm:"type:varchar(255)" json:"image_path"`
	Subtasks    []Subtask  `gorm:"serializer:json;type:text" json:"subtasks"`
	// LastSubtaskID is the highest subtask id ever handed out for this task.
	LastSubtaskID int            `gorm:"not null;default:0" json:"-"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"deleted_at"`

	// Relations
	User User `gorm:"foreignKey:UserID" json:"-"`
}

// Subtask is an item of a task's checklist. It only exists inside its parent task.
type Subtask struct {
	ID          int    `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Completed   bool   `json:"completed"`
	CreatedAt   string `json:"created_at"`
	UpdatedAt   string `json:"updated_at,omitempty"`
}

// SubtasksCount returns the number of subtasks.
func (t *Task) SubtasksCount() int {
	return len(t.Subtasks)
}

// CompletedSubtasksCount returns the number of completed subtasks.
func (t *Task) CompletedSubtasksCount() int {
	n := 0
	for _, s := range t.Subtasks {
		if s.Completed {
			n++
		}
	}
	return n
}

// SubtasksProgress returns the completed share of subtasks as a rounded percentage.
func (t *Task) SubtasksProgress() int {
	total := t.SubtasksCount()
	if total == 0 {
		return 0
	}
	return int(math.Round(float64(t.CompletedSubtasksCount()) / float64(total) * 100))
}

// FindSubtask returns the subtask with the given id.
func (t *Task) FindSubtask(id int) (*Subtask, bool) {
	for i := range t.Subtasks {
		if t.Subtasks[i].ID == id {
			return &t.Subtasks[i], true
		}
	}
	return nil, false
}

// AddSubtask appends an incomplete subtask and returns it.
//
// Ids come from LastSubtaskID, so an id freed by RemoveSubtask is never reused.
// For tasks that never lost a subtask this matches count+1.
func (t *Task) AddSubtask(title, description string, now time.Time) Subtask {
	next := t.LastSubtaskID
	if n := t.maxSubtaskID(); n > next {
		next = n
	}
	next++

	subtask := Subtask{
		ID:          next,
		Title:       title,
		Description: description,
		Completed:   false,
		CreatedAt:   now.Format(TimestampLayout),
	}
	t.Subtasks = append(t.Subtasks, subtask)
	t.LastSubtaskID = next
	return subtask
}

// UpdateSubtaskStatus sets the completion flag of a subtask. Unknown ids are ignored.
// When every subtask ends up completed the task status becomes done.
func (t *Task) UpdateSubtaskStatus(id int, completed bool, now time.Time) {
	subtask, ok := t.FindSubtask(id)
	if !ok {
		return
	}
	subtask.Completed = completed
	subtask.UpdatedAt = now.Format(TimestampLayout)

	if total := t.SubtasksCount(); total > 0 && t.CompletedSubtasksCount() == total {
		t.Status = TaskStatusDone
	}
}

// RemoveSubtask drops a subtask, keeping the order and ids of the others.
// Unknown ids are ignored.
func (t *Task) RemoveSubtask(id int) {
	kept := make([]Subtask, 0, len(t.Subtasks))
	for _, s := range t.Subtasks {
		if s.ID != id {
			kept = append(kept, s)
		}
	}
	t.Subtasks = kept
}

func (t *Task) maxSubtaskID() int {
	highest := 0
	for _, s := range t.Subtasks {
		if s.ID > highest {
			highest = s.ID
		}
	}
	return highest
}

// IsTrashed reports whether the task is soft deleted.
func (t *Task) IsTrashed() bool {
	return t.DeletedAt.Valid
}

// ImageURL returns the public URL of the task image, or nil without an image.
func (t *Task) ImageURL(baseURL string) *string {
	if t.ImagePath == nil || *t.ImagePath == "" {
		return nil
	}
	url := BuildImageURL(baseURL, *t.ImagePath)
	return &url
}

// BuildImageURL turns a stored path into a public URL under baseURL/storage.
// Absolute URLs are returned unchanged.
func BuildImageURL(baseURL, path string) string {
	if strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") {
		return path
	}
	path = strings.TrimPrefix(path, "/")
	path = strings.TrimPrefix(path, "storage/")
	return strings.TrimRight(baseURL, "/") + "/storage/" + path
}
