package handlers

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dannielcanaryquipia/capstone-project2-sub000/internal/apperr"
	"github.com/dannielcanaryquipia/capstone-project2-sub000/internal/domain"
	"github.com/dannielcanaryquipia/capstone-project2-sub000/internal/logx"
	"github.com/dannielcanaryquipia/capstone-project2-sub000/internal/service/assignment"
)

type stubAdminUsecase struct {
	sweepFn        func(ctx context.Context, actor domain.Actor) (domain.SweepReport, error)
	manualAssignFn func(ctx context.Context, orderID, riderID string, actor domain.Actor) error
	reassignFn     func(ctx context.Context, orderID, newRiderID string, actor domain.Actor) error
	overviewFn     func(ctx context.Context, actor domain.Actor) (*assignment.Dashboard, error)
	getSettingsFn  func(ctx context.Context, actor domain.Actor) (assignment.Settings, error)
	setSettingsFn  func(ctx context.Context, next assignment.Settings, actor domain.Actor) error
}

func (s *stubAdminUsecase) Sweep(ctx context.Context, actor domain.Actor) (domain.SweepReport, error) {
	if s.sweepFn == nil {
		panic("Sweep not expected in this test")
	}
	return s.sweepFn(ctx, actor)
}

func (s *stubAdminUsecase) ManualAssign(ctx context.Context, orderID, riderID string, actor domain.Actor) error {
	if s.manualAssignFn == nil {
		panic("ManualAssign not expected in this test")
	}
	return s.manualAssignFn(ctx, orderID, riderID, actor)
}

func (s *stubAdminUsecase) Reassign(ctx context.Context, orderID, newRiderID string, actor domain.Actor) error {
	if s.reassignFn == nil {
		panic("Reassign not expected in this test")
	}
	return s.reassignFn(ctx, orderID, newRiderID, actor)
}

func (s *stubAdminUsecase) Overview(ctx context.Context, actor domain.Actor) (*assignment.Dashboard, error) {
	if s.overviewFn == nil {
		panic("Overview not expected in this test")
	}
	return s.overviewFn(ctx, actor)
}

func (s *stubAdminUsecase) CurrentSettings(ctx context.Context, actor domain.Actor) (assignment.Settings, error) {
	if s.getSettingsFn == nil {
		panic("CurrentSettings not expected in this test")
	}
	return s.getSettingsFn(ctx, actor)
}

func (s *stubAdminUsecase) UpdateSettings(ctx context.Context, next assignment.Settings, actor domain.Actor) error {
	if s.setSettingsFn == nil {
		panic("UpdateSettings not expected in this test")
	}
	return s.setSettingsFn(ctx, next, actor)
}

func TestAdminHandler_Sweep_ReportsPartialFailure(t *testing.T) {
	t.Parallel()

	uc := &stubAdminUsecase{
		sweepFn: func(_ context.Context, actor domain.Actor) (domain.SweepReport, error) {
			require.Equal(t, domain.RoleAdmin, actor.Role)
			return domain.SweepReport{
				Assigned:   2,
				Unassigned: 1,
				Failed:     1,
				Errors:     []string{"order ord-9: conflict: rider r1 at capacity"},
			}, nil
		},
	}
	h := NewAdminHandler(logx.Nop(), uc)

	req := httptest.NewRequest(http.MethodPost, "/admin/assignments/sweep", nil)
	req = asActor(req, "adm-1", "admin")
	rr := httptest.NewRecorder()

	h.Sweep(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{
        "assigned": 2,
        "unassigned": 1,
        "failed": 1,
        "errors": ["order ord-9: conflict: rider r1 at capacity"]
    }`, rr.Body.String())
}

func TestAdminHandler_ManualAssign_Conflict(t *testing.T) {
	t.Parallel()

	uc := &stubAdminUsecase{
		manualAssignFn: func(_ context.Context, orderID, riderID string, _ domain.Actor) error {
			require.Equal(t, "ord-1", orderID)
			require.Equal(t, "r1", riderID)
			return fmt.Errorf("%w: order ord-1 already assigned", apperr.ErrConflict)
		},
	}
	h := NewAdminHandler(logx.Nop(), uc)

	body := `{"order_id":"ord-1","rider_id":"r1"}`
	req := httptest.NewRequest(http.MethodPost, "/admin/assignments", strings.NewReader(body))
	req = asActor(req, "adm-1", "admin")
	rr := httptest.NewRecorder()

	h.ManualAssign(rr, req)

	assert.Equal(t, http.StatusConflict, rr.Code)
}

func TestAdminHandler_Reassign_OK(t *testing.T) {
	t.Parallel()

	uc := &stubAdminUsecase{
		reassignFn: func(_ context.Context, orderID, newRiderID string, _ domain.Actor) error {
			require.Equal(t, "ord-1", orderID)
			require.Equal(t, "r2", newRiderID)
			return nil
		},
	}
	h := NewAdminHandler(logx.Nop(), uc)

	body := `{"order_id":"ord-1","rider_id":"r2"}`
	req := httptest.NewRequest(http.MethodPost, "/admin/assignments/reassign", strings.NewReader(body))
	req = asActor(req, "adm-1", "admin")
	rr := httptest.NewRecorder()

	h.Reassign(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"status":"reassigned"}`, rr.Body.String())
}

func TestAdminHandler_UpdateSettings_Validation(t *testing.T) {
	t.Parallel()

	uc := &stubAdminUsecase{
		setSettingsFn: func(_ context.Context, next assignment.Settings, _ domain.Actor) error {
			require.Equal(t, 0, next.MaxOrdersPerRider)
			return fmt.Errorf("%w: max orders per rider must be at least 1", apperr.ErrValidation)
		},
	}
	h := NewAdminHandler(logx.Nop(), uc)

	body := `{"max_orders_per_rider":0,"radius_km":10,"distance_weight":0.4,"availability_weight":0.3,"urgency_weight":0.3}`
	req := httptest.NewRequest(http.MethodPut, "/admin/assignments/settings", strings.NewReader(body))
	req = asActor(req, "adm-1", "admin")
	rr := httptest.NewRecorder()

	h.UpdateSettings(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestAdminHandler_Overview_ForbiddenForNonAdmin(t *testing.T) {
	t.Parallel()

	uc := &stubAdminUsecase{
		overviewFn: func(context.Context, domain.Actor) (*assignment.Dashboard, error) {
			return nil, fmt.Errorf("%w: admin action invoked by rider", apperr.ErrPermission)
		},
	}
	h := NewAdminHandler(logx.Nop(), uc)

	req := httptest.NewRequest(http.MethodGet, "/admin/dashboard", nil)
	req = asActor(req, "r1", "rider")
	rr := httptest.NewRecorder()

	h.Overview(rr, req)

	assert.Equal(t, http.StatusForbidden, rr.Code)
}
