package routes

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/tsrs-robotics/robolab-backend/internal/auth"
	"github.com/tsrs-robotics/robolab-backend/internal/dashboard"
	"github.com/tsrs-robotics/robolab-backend/internal/inventory"
	"github.com/tsrs-robotics/robolab-backend/internal/items"
	"github.com/tsrs-robotics/robolab-backend/internal/kits"
	"github.com/tsrs-robotics/robolab-backend/internal/ledger"
	"github.com/tsrs-robotics/robolab-backend/internal/users"
	pkgAuth "github.com/tsrs-robotics/robolab-backend/pkg/auth"
	"github.com/tsrs-robotics/robolab-backend/pkg/auth/session"
	"github.com/tsrs-robotics/robolab-backend/pkg/config"
	"github.com/tsrs-robotics/robolab-backend/pkg/db/models"
	"github.com/tsrs-robotics/robolab-backend/pkg/enums"
	"github.com/tsrs-robotics/robolab-backend/pkg/logger"
	"github.com/tsrs-robotics/robolab-backend/pkg/pagination"
)

type stubPinger struct{}

func (stubPinger) Ping(context.Context) error {
	return nil
}

type stubSessionChecker struct{}

func (stubSessionChecker) HasSession(ctx context.Context, accessID string) (bool, error) {
	return true, nil
}

type stubAuthService struct{}

func (stubAuthService) Login(ctx context.Context, req auth.LoginRequest) (*auth.LoginResponse, error) {
	return nil, fmt.Errorf("not implemented")
}

func (stubAuthService) Refresh(ctx context.Context, req auth.RefreshRequest) (*auth.RefreshResponse, error) {
	return nil, fmt.Errorf("not implemented")
}

func (stubAuthService) Logout(ctx context.Context, accessToken string) error {
	return nil
}

type stubDashboardService struct{}

func (stubDashboardService) Summary(ctx context.Context) (*dashboard.Summary, error) {
	return &dashboard.Summary{
		LowStock:   []items.LowStockItem{},
		Categories: []dashboard.CategoryCount{},
	}, nil
}

type stubItemsService struct{}

func (stubItemsService) Create(ctx context.Context, input items.CreateItemInput, actor string) (*models.Item, error) {
	return &models.Item{ID: uuid.New(), Name: input.Name}, nil
}

func (stubItemsService) Get(ctx context.Context, id uuid.UUID) (*models.Item, error) {
	panic("unimplemented")
}

func (stubItemsService) List(ctx context.Context, filters items.Filters) ([]models.Item, error) {
	return []models.Item{}, nil
}

func (stubItemsService) Update(ctx context.Context, id uuid.UUID, input items.UpdateItemInput) (*models.Item, error) {
	panic("unimplemented")
}

func (stubItemsService) LowStock(ctx context.Context) ([]items.LowStockItem, error) {
	return []items.LowStockItem{}, nil
}

func (stubItemsService) PurchaseOrderCSV(ctx context.Context) ([]byte, error) {
	panic("unimplemented")
}

func (stubItemsService) ImportCSV(ctx context.Context, r io.Reader, actor string) (*items.ImportSummary, error) {
	panic("unimplemented")
}

type stubKitsService struct{}

func (stubKitsService) Create(ctx context.Context, input kits.CreateKitInput) (*models.Kit, error) {
	panic("unimplemented")
}

func (stubKitsService) Get(ctx context.Context, id uuid.UUID) (*kits.KitDetail, error) {
	panic("unimplemented")
}

func (stubKitsService) List(ctx context.Context) ([]kits.KitSummary, error) {
	return []kits.KitSummary{}, nil
}

func (stubKitsService) LinkItem(ctx context.Context, kitID uuid.UUID, input kits.LinkItemInput) (*kits.KitDetail, error) {
	panic("unimplemented")
}

func (stubKitsService) UnlinkItem(ctx context.Context, kitID, itemID uuid.UUID) error {
	panic("unimplemented")
}

type stubInventoryService struct{}

func (stubInventoryService) Adjust(ctx context.Context, input inventory.AdjustInput) (*models.Transaction, error) {
	panic("unimplemented")
}

func (stubInventoryService) IssueKit(ctx context.Context, input inventory.IssueKitInput) (*inventory.IssueResult, error) {
	panic("unimplemented")
}

type stubLedgerService struct{}

func (stubLedgerService) Record(ctx context.Context, input ledger.RecordTransactionInput) (*models.Transaction, error) {
	panic("unimplemented")
}

func (stubLedgerService) List(ctx context.Context, params pagination.Params, filters ledger.Filters) (*ledger.TransactionList, error) {
	return &ledger.TransactionList{Transactions: []models.Transaction{}}, nil
}

func (stubLedgerService) ListByItem(ctx context.Context, itemID uuid.UUID) ([]models.Transaction, error) {
	return []models.Transaction{}, nil
}

func (stubLedgerService) Report(ctx context.Context, windowDays int) (*ledger.Report, error) {
	panic("unimplemented")
}

func (stubLedgerService) ReportCSV(ctx context.Context, windowDays int) ([]byte, error) {
	panic("unimplemented")
}

type stubUsersService struct{}

func (stubUsersService) Create(ctx context.Context, input users.CreateUserInput) (*users.UserDTO, error) {
	panic("unimplemented")
}

func (stubUsersService) Get(ctx context.Context, username string) (*users.UserDTO, error) {
	return &users.UserDTO{Username: username}, nil
}

func (stubUsersService) List(ctx context.Context) ([]users.UserDTO, error) {
	return []users.UserDTO{}, nil
}

func (stubUsersService) ChangePassword(ctx context.Context, username string, input users.ChangePasswordInput) error {
	panic("unimplemented")
}

func (stubUsersService) UpdateProfile(ctx context.Context, username string, input users.UpdateProfileInput) (*users.UserDTO, error) {
	panic("unimplemented")
}

func (stubUsersService) SetAvatar(ctx context.Context, username string, avatar []byte) error {
	panic("unimplemented")
}

func (stubUsersService) GetAvatar(ctx context.Context, username string) ([]byte, error) {
	return []byte{0x89, 0x50, 0x4e, 0x47}, nil
}

func (stubUsersService) EnsureDefaultAdmin(ctx context.Context, cfg config.BootstrapConfig) error {
	return nil
}

func testConfig() *config.Config {
	return &config.Config{
		App: config.AppConfig{Env: "test", Port: "0"},
		JWT: config.JWTConfig{Secret: "secret", Issuer: "issuer", ExpirationMinutes: 10},
	}
}

func newTestRouter(cfg *config.Config) http.Handler {
	logg := logger.New(logger.Options{ServiceName: "test", Level: logger.ParseLevel("debug"), Output: io.Discard})
	return NewRouter(Deps{
		Config:           cfg,
		Logger:           logg,
		DB:               stubPinger{},
		Redis:            stubPinger{},
		SessionChecker:   stubSessionChecker{},
		AuthService:      stubAuthService{},
		DashboardService: stubDashboardService{},
		ItemsService:     stubItemsService{},
		KitsService:      stubKitsService{},
		InventoryService: stubInventoryService{},
		LedgerService:    stubLedgerService{},
		UsersService:     stubUsersService{},
	})
}

func buildToken(t *testing.T, cfg *config.Config, role enums.UserRole) string {
	t.Helper()
	token, err := pkgAuth.MintAccessToken(cfg.JWT, time.Now(), pkgAuth.AccessTokenPayload{
		Username: "jsmith",
		Role:     role,
		JTI:      session.NewAccessID(),
	})
	if err != nil {
		t.Fatalf("mint access token: %v", err)
	}
	return token
}

func TestHealthLive(t *testing.T) {
	router := newTestRouter(testConfig())

	req := httptest.NewRequest(http.MethodGet, "/health/live", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
}

func TestItemsRequireAuth(t *testing.T) {
	cfg := testConfig()
	router := newTestRouter(cfg)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/items/", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token got %d", resp.Code)
	}

	authed := httptest.NewRequest(http.MethodGet, "/api/v1/items/", nil)
	authed.Header.Set("Authorization", "Bearer "+buildToken(t, cfg, enums.UserRoleLabAssistant))
	resp = httptest.NewRecorder()
	router.ServeHTTP(resp, authed)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 with token got %d", resp.Code)
	}
}

func TestItemCreateRequiresAdminRole(t *testing.T) {
	cfg := testConfig()
	router := newTestRouter(cfg)
	body := `{"name":"Arduino Uno","category":"Microcontrollers","quantity":10,"threshold":3,"location":"Shelf A"}`

	assistant := httptest.NewRequest(http.MethodPost, "/api/v1/items/", strings.NewReader(body))
	assistant.Header.Set("Content-Type", "application/json")
	assistant.Header.Set("Authorization", "Bearer "+buildToken(t, cfg, enums.UserRoleLabAssistant))
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, assistant)
	if resp.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for lab assistant got %d", resp.Code)
	}

	admin := httptest.NewRequest(http.MethodPost, "/api/v1/items/", strings.NewReader(body))
	admin.Header.Set("Content-Type", "application/json")
	admin.Header.Set("Authorization", "Bearer "+buildToken(t, cfg, enums.UserRoleAdmin))
	resp = httptest.NewRecorder()
	router.ServeHTTP(resp, admin)
	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201 for admin got %d", resp.Code)
	}
}

func TestUserManagementRequiresAdminRole(t *testing.T) {
	cfg := testConfig()
	router := newTestRouter(cfg)

	assistant := httptest.NewRequest(http.MethodGet, "/api/v1/users/", nil)
	assistant.Header.Set("Authorization", "Bearer "+buildToken(t, cfg, enums.UserRoleLabAssistant))
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, assistant)
	if resp.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for lab assistant got %d", resp.Code)
	}

	admin := httptest.NewRequest(http.MethodGet, "/api/v1/users/", nil)
	admin.Header.Set("Authorization", "Bearer "+buildToken(t, cfg, enums.UserRoleAdmin))
	resp = httptest.NewRecorder()
	router.ServeHTTP(resp, admin)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 for admin got %d", resp.Code)
	}
}

func TestNoDeleteEndpointsForCatalogOrUsers(t *testing.T) {
	cfg := testConfig()
	router := newTestRouter(cfg)
	token := buildToken(t, cfg, enums.UserRoleAdmin)

	targets := []struct {
		path string
		want int
	}{
		{"/api/v1/items/" + uuid.NewString(), http.StatusMethodNotAllowed},
		{"/api/v1/kits/" + uuid.NewString(), http.StatusMethodNotAllowed},
		{"/api/v1/users/jsmith", http.StatusNotFound},
	}
	for _, target := range targets {
		req := httptest.NewRequest(http.MethodDelete, target.path, nil)
		req.Header.Set("Authorization", "Bearer "+token)
		resp := httptest.NewRecorder()
		router.ServeHTTP(resp, req)
		if resp.Code != target.want {
			t.Fatalf("expected %d for DELETE %s got %d", target.want, target.path, resp.Code)
		}
	}
}

func TestAvatarReadableByAnyRole(t *testing.T) {
	cfg := testConfig()
	router := newTestRouter(cfg)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/users/jsmith/avatar", nil)
	req.Header.Set("Authorization", "Bearer "+buildToken(t, cfg, enums.UserRoleLabAssistant))
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
}

func TestDashboardSummaryWithToken(t *testing.T) {
	cfg := testConfig()
	router := newTestRouter(cfg)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/dashboard/summary", nil)
	req.Header.Set("Authorization", "Bearer "+buildToken(t, cfg, enums.UserRoleLabAssistant))
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
}

func TestTransactionsListWithToken(t *testing.T) {
	cfg := testConfig()
	router := newTestRouter(cfg)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/transactions/?limit=10", nil)
	req.Header.Set("Authorization", "Bearer "+buildToken(t, cfg, enums.UserRoleAdmin))
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
}
