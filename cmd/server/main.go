package main

import (
	"context"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/shopspring/decimal"

	"github.com/tiendamx/pos-mostrador/internal/application/auth"
	"github.com/tiendamx/pos-mostrador/internal/application/backup"
	"github.com/tiendamx/pos-mostrador/internal/application/cashbox"
	"github.com/tiendamx/pos-mostrador/internal/application/catalog"
	"github.com/tiendamx/pos-mostrador/internal/application/credit"
	"github.com/tiendamx/pos-mostrador/internal/application/customers"
	"github.com/tiendamx/pos-mostrador/internal/application/fiscal"
	"github.com/tiendamx/pos-mostrador/internal/application/inventory"
	"github.com/tiendamx/pos-mostrador/internal/application/layaway"
	"github.com/tiendamx/pos-mostrador/internal/application/reports"
	"github.com/tiendamx/pos-mostrador/internal/application/sales"
	"github.com/tiendamx/pos-mostrador/internal/application/syncsvc"
	"github.com/tiendamx/pos-mostrador/internal/infrastructure/sqlite"
	"github.com/tiendamx/pos-mostrador/internal/infrastructure/storage"
	httpRouter "github.com/tiendamx/pos-mostrador/internal/interfaces/http"
	"github.com/tiendamx/pos-mostrador/internal/multicaja"
	"github.com/tiendamx/pos-mostrador/pkg/config"
	"github.com/tiendamx/pos-mostrador/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: "info",
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("db", cfg.DB.Path).
		Msg("iniciando servidor")

	ctx := context.Background()
	db, err := sqlite.Open(ctx, cfg.DB.DSN())
	if err != nil {
		log.Fatal().Err(err).Msg("abrir base SQLite")
	}
	defer db.Close()

	if err := sqlite.Migrate(db); err != nil {
		log.Fatal().Err(err).Msg("aplicar migraciones")
	}

	productRepo := sqlite.NewProductRepository(db)
	stockRepo := sqlite.NewStockRepository(db)
	invLogRepo := sqlite.NewInventoryLogRepository(db)
	customerRepo := sqlite.NewCustomerRepository(db)
	creditRepo := sqlite.NewCreditRepository(db)
	saleRepo := sqlite.NewSaleRepository(db)
	layawayRepo := sqlite.NewLayawayRepository(db)
	turnRepo := sqlite.NewTurnRepository(db)
	moveRepo := sqlite.NewCashMovementRepository(db)
	userRepo := sqlite.NewUserRepository(db)
	branchRepo := sqlite.NewBranchRepository(db)
	tokenRepo := sqlite.NewAPITokenRepository(db)
	fiscalRepo := sqlite.NewFiscalRepository(db)
	backupRepo := sqlite.NewBackupLogRepository(db)
	syncEventRepo := sqlite.NewSyncEventRepository(db)
	reportRepo := sqlite.NewReportRepository(db)
	txRunner := sqlite.NewTxRunner(db)

	taxRate := decimal.NewFromFloat(cfg.Tax.Rate)

	branch, err := branchRepo.GetDefault()
	if err != nil {
		log.Fatal().Err(err).Msg("sucursal por defecto no encontrada; corre cmd/initdb")
	}

	authUC := auth.New(userRepo, branchRepo, tokenRepo, cfg.JWT.Secret, cfg.JWT.Issuer, cfg.JWT.Expiration, log)
	catalogUC := catalog.New(txRunner, productRepo, log)
	customersUC := customers.New(txRunner, customerRepo, log)
	salesUC := sales.New(txRunner, saleRepo, turnRepo, taxRate, log)
	layawayUC := layaway.New(txRunner, layawayRepo, log)
	creditUC := credit.New(txRunner, customerRepo, creditRepo, saleRepo, log)
	cashboxUC := cashbox.New(txRunner, turnRepo, moveRepo, saleRepo, layawayRepo, creditRepo, log)
	inventoryUC := inventory.New(txRunner, stockRepo, invLogRepo, log)
	reportsUC := reports.New(reportRepo)
	syncUC := syncsvc.New(productRepo, invLogRepo, saleRepo, customerRepo, syncEventRepo, log)
	fiscalUC := fiscal.New(txRunner, fiscalRepo, saleRepo, customerRepo, productRepo,
		filepath.Join(cfg.App.DataDir, "cfdi"), taxRate, log)

	var uploader backup.Uploader
	if cfg.Backup.CloudEnabled && cfg.Backup.S3Endpoint != "" {
		s3, err := storage.NewS3Client(storage.S3Options{
			Endpoint:  cfg.Backup.S3Endpoint,
			AccessKey: cfg.Backup.S3AccessKey,
			SecretKey: cfg.Backup.S3SecretKey,
			Bucket:    cfg.Backup.S3Bucket,
			Prefix:    cfg.Backup.S3Prefix,
			UseSSL:    true,
		})
		if err != nil {
			log.Fatal().Err(err).Msg("cliente S3 de respaldos")
		}
		uploader = s3
	}
	backupUC := backup.New(backupRepo, cfg.DB.Path, cfg.Backup, uploader, log)

	// Modo cliente MultiCaja: cada venta local se reporta al servidor y un
	// loop de fondo drena las colas offline y trae el pull incremental.
	if cfg.App.Mode == "client" && cfg.Sync.ServerURL != "" {
		mcClient := multicaja.NewClient(cfg.Sync.ServerURL, cfg.Sync.Token,
			cfg.Sync.CacheDir, time.Duration(cfg.Sync.TimeoutSeconds)*time.Second)
		mc := multicaja.New(mcClient,
			multicaja.NewOfflineQueue(cfg.Sync.SalesQueue),
			multicaja.NewOfflineQueue(cfg.Sync.InventoryQueue),
			log)
		salesUC.SetNotifier(&saleForwarder{mc: mc, log: log})
		go syncLoop(mc, log)
	}

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:      authUC,
		CatalogUC:   catalogUC,
		CustomersUC: customersUC,
		SalesUC:     salesUC,
		LayawayUC:   layawayUC,
		CreditUC:    creditUC,
		CashboxUC:   cashboxUC,
		InventoryUC: inventoryUC,
		ReportsUC:   reportsUC,
		FiscalUC:    fiscalUC,
		BackupUC:    backupUC,
		SyncUC:      syncUC,
		JWTSecret:   cfg.JWT.Secret,
		BranchID:    branch.ID,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("servidor detenido")
}

// saleForwarder reporta cada venta local al servidor MultiCaja. Los fallos
// de red los absorbe la cola offline; solo un fallo al encolar se loguea.
type saleForwarder struct {
	mc  *multicaja.MultiCaja
	log *logger.Logger
}

func (f *saleForwarder) SaleRegistered(ctx context.Context, items []sales.LineInput) {
	lines := make([]multicaja.SaleLine, 0, len(items))
	for _, it := range items {
		if it.ProductID == 0 {
			continue
		}
		lines = append(lines, multicaja.SaleLine{ProductID: it.ProductID, Qty: it.Qty})
	}
	if len(lines) == 0 {
		return
	}
	if _, err := f.mc.PostSale(ctx, lines); err != nil {
		f.log.Error().Err(err).Msg("no se pudo encolar la venta para sync")
	}
}

// syncLoop drena las colas offline y corre el pull incremental cada medio
// minuto mientras el proceso viva.
func syncLoop(mc *multicaja.MultiCaja, log *logger.Logger) {
	ticker := time.NewTicker(30 * time.Second)
	defer ticker.Stop()
	for range ticker.C {
		ctx, cancel := context.WithTimeout(context.Background(), 20*time.Second)
		if err := mc.FlushQueues(ctx); err != nil {
			log.Warn().Err(err).Msg("flush de colas offline")
		}
		if _, err := mc.SyncIncremental(ctx); err != nil {
			log.Warn().Err(err).Msg("pull incremental")
		}
		cancel()
	}
}
