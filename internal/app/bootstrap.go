package app

import (
	"context"
	"log/slog"

	"crepe_admin/internal/api"
	"crepe_admin/internal/auth"
	"crepe_admin/internal/domain"
	"crepe_admin/internal/infra"
	"crepe_admin/internal/infra/storage"
	"crepe_admin/internal/service"
)

// Bootstrap orchestrates the application startup sequence
type Bootstrap struct {
	Config  *infra.Config
	Storage *storage.Storage

	Client   *api.Client
	Users    *api.UserService
	Banks    *api.BankService
	Products *api.ProductService
	Tokens   *api.TokenService

	Session  *auth.SessionManager
	Store    *service.TickerStore
	Accounts *service.AccountService
}

// NewBootstrap creates a new Bootstrap instance
func NewBootstrap() *Bootstrap {
	return &Bootstrap{}
}

// Initialize performs core system initialization (Config, Logger, DB, wiring)
func (b *Bootstrap) Initialize() error {
	slog.Info("🚀 Bootstrapping Crepe Admin...")

	// 1. Load Config
	cfg, err := infra.LoadConfig("configs/config.yaml")
	if err != nil {
		return err // Let main handle the error
	}
	b.Config = cfg

	// 2. Setup Logger
	logger := infra.NewLogger(cfg)
	slog.SetDefault(logger)

	// 3. Initialize Storage (DB)
	store, err := storage.NewStorage()
	if err != nil {
		return err
	}
	b.Storage = store
	slog.Info("✅ Database initialized")

	// 4. Backend client + endpoint services
	b.Client = api.NewClient(cfg)
	b.Users = api.NewUserService(b.Client)
	b.Banks = api.NewBankService(b.Client)
	b.Products = api.NewProductService(b.Client)
	b.Tokens = api.NewTokenService(b.Client)

	// 5. Session manager over the token vault; restore any persisted session
	b.Session = auth.NewSessionManager(b.Storage, b.Users)
	b.Client.SetTokenSource(b.Session)
	if err := b.Session.Restore(); err != nil {
		slog.Warn("Session restore failed", slog.Any("error", err))
	}

	// 6. Live price state
	b.Store = service.NewTickerStore()
	b.Accounts = service.NewAccountService(b.Store)

	slog.Info("✅ Services wired")
	return nil
}

// SeedCoins caches the static coin-name table in the background.
func (b *Bootstrap) SeedCoins(ctx context.Context) {
	select {
	case <-ctx.Done():
		return
	default:
	}

	if err := b.Storage.SeedCoins(domain.KnownCurrencies()); err != nil {
		slog.Error("Failed to seed coin metadata", slog.Any("error", err))
		return
	}
	slog.Info("✨ Coin metadata seeded")
}

// EnsureSession logs in with configured credentials, or seeds a fixed dev
// session when dev mode is on. A restored session is kept as-is.
func (b *Bootstrap) EnsureSession(ctx context.Context) error {
	if b.Session.IsAuthenticated() {
		return nil
	}

	if b.Config.Auth.DevMode {
		slog.Warn("Dev mode: seeding default session")
		return b.Session.SeedDev("dev-access-token", "dev-refresh-token")
	}

	return b.Session.Login(ctx, b.Config.Auth.BankID, b.Config.Auth.Password)
}
