package service_test

import (
	"context"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/autoshop/shop-api/internal/auth"
	"github.com/autoshop/shop-api/internal/domain"
	"github.com/autoshop/shop-api/internal/repository"
	"github.com/autoshop/shop-api/internal/service"
	"github.com/autoshop/shop-api/internal/testutil"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestAuditLogService_RecordAndList(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := service.NewAuditLogService(repository.NewAuditLogRepository(db), zap.NewNop())

	userID := uuid.New()
	ctx := auth.WithUserContext(context.Background(), &auth.UserContext{UserID: userID, Username: "casier", Role: domain.RoleStaff})
	req := httptest.NewRequest("POST", "/add_payment", nil)
	req.Header.Set("X-Forwarded-For", "10.0.0.7, 172.16.0.1")
	req.Header.Set("User-Agent", "shop-desktop/1.0")

	require.NoError(t, svc.Record(ctx, req, service.RequestRecord{
		Method:     "POST",
		Path:       "/add_payment",
		StatusCode: 200,
		RequestID:  "req-1",
		Body:       []byte(strings.Repeat("ă", 3000)),
		Duration:   25 * time.Millisecond,
	}))
	require.NoError(t, svc.Record(context.Background(), nil, service.RequestRecord{Method: "DELETE", Path: "/delete_vehicle/1", StatusCode: 200}))

	logs, err := svc.List(context.Background(), &repository.AuditLogFilter{UserID: userID.String()}, 0)
	require.NoError(t, err)
	require.Len(t, logs, 1)
	assert.Equal(t, "casier", logs[0].Username)
	assert.Equal(t, "10.0.0.7", logs[0].IPAddress)
	assert.Equal(t, int64(25), logs[0].DurationMs)
	assert.LessOrEqual(t, len(logs[0].Body), 4096+len("…"))

	all, err := svc.List(context.Background(), &repository.AuditLogFilter{PathLike: "vehicle"}, 10)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, "DELETE", all[0].Method)
}

func TestAuditLogService_CleanupOldLogs(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx := context.Background()
	repo := repository.NewAuditLogRepository(db)
	svc := service.NewAuditLogService(repo, zap.NewNop())

	require.NoError(t, repo.Create(ctx, &domain.AuditLog{Method: "POST", Path: "/old", StatusCode: 200, PerformedAt: time.Now().UTC().AddDate(0, 0, -100)}))
	require.NoError(t, repo.Create(ctx, &domain.AuditLog{Method: "POST", Path: "/new", StatusCode: 200, PerformedAt: time.Now().UTC()}))

	deleted, err := svc.CleanupOldLogs(ctx, 90)
	require.NoError(t, err)
	assert.Equal(t, int64(1), deleted)
}

func TestClientIP(t *testing.T) {
	req := httptest.NewRequest("GET", "/", nil)
	req.RemoteAddr = "192.168.1.5:51234"
	assert.Equal(t, "192.168.1.5", service.ClientIP(req))

	req.Header.Set("X-Real-IP", "10.1.1.1")
	assert.Equal(t, "10.1.1.1", service.ClientIP(req))

	req.Header.Set("X-Forwarded-For", "203.0.113.9")
	assert.Equal(t, "203.0.113.9", service.ClientIP(req))
}
