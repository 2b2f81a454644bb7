package models

import "time"

const (
	RewardStatic  = "static"
	RewardDynamic = "dynamic"
)

type Task struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Title        string    `gorm:"size:150;not null" json:"title"`
	URL          string    `gorm:"size:500;not null" json:"url"`
	RewardAmount float64   `gorm:"type:decimal(15,2);not null" json:"reward_amount"`
	RewardType   string    `gorm:"size:10;not null;default:'static'" json:"reward_type"`
	IsActive     bool      `gorm:"not null;default:true" json:"is_active"`
	Category     string    `gorm:"size:50" json:"category,omitempty"`
	Platform     string    `gorm:"size:50" json:"platform,omitempty"`
	ImageURL     *string   `gorm:"size:500" json:"image_url,omitempty"`
	Description  *string   `gorm:"type:text" json:"description,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func (Task) TableName() string {
	return "tasks"
}

// TaskCompletion records one claimed task per user per calendar day. The
// composite unique index is the invariant: concurrent duplicate submissions
// cannot both insert.
type TaskCompletion struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	UserID       uint      `gorm:"not null;uniqueIndex:idx_user_task_day" json:"user_id"`
	TaskID       uint      `gorm:"not null;uniqueIndex:idx_user_task_day" json:"task_id"`
	TaskDate     string    `gorm:"size:10;not null;uniqueIndex:idx_user_task_day;index" json:"task_date"`
	RewardEarned float64   `gorm:"type:decimal(15,2);not null" json:"reward_earned"`
	CompletedAt  time.Time `json:"completed_at"`
}

func (TaskCompletion) TableName() string {
	return "task_completions"
}
