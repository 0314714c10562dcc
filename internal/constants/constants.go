package constants

// Session and request context
const (
	ContextKeyUserID  = "user_id"
	ContextKeyTask    = "task"
	SessionCookieName = "task_tracker_session"
)

// Auth
const (
	MinPasswordLength = 8
	MaxUsernameLength = 50
)

// Task field limits
const (
	MaxTaskTitleLength          = 100
	MaxSubtaskTitleLength       = 255
	MaxSubtaskDescriptionLength = 1000
)

// Pagination
const (
	MinPage         = 1
	DefaultPageSize = 10
)

// AllowedPageSizes are the only page sizes a listing accepts.
var AllowedPageSizes = []int{10, 20, 50, 100}

// Ordering
const (
	OrderByCreatedAt = "created_at"
	OrderByDeletedAt = "deleted_at"
	OrderByTitle     = "title"
)

// Storage
const (
	TaskImageDir = "task-images"
	// DefaultSeedCount is the number of tasks seeded per status.
	DefaultSeedCount = 10
)
