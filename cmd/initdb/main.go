// Command initdb prepara una instalación nueva: crea los directorios de
// datos, aplica el esquema y siembra la sucursal y el usuario administrador.
package main

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"flag"
	"os"
	"path/filepath"

	"github.com/tiendamx/pos-mostrador/internal/application/auth"
	"github.com/tiendamx/pos-mostrador/internal/domain"
	"github.com/tiendamx/pos-mostrador/internal/domain/entity"
	"github.com/tiendamx/pos-mostrador/internal/infrastructure/sqlite"
	"github.com/tiendamx/pos-mostrador/pkg/config"
	"github.com/tiendamx/pos-mostrador/pkg/logger"
)

func main() {
	var (
		adminUser  = flag.String("admin-user", "admin", "usuario administrador inicial")
		adminPass  = flag.String("admin-pass", "", "contraseña del administrador (obligatoria si el usuario no existe)")
		branchName = flag.String("branch", "Mostrador", "nombre de la sucursal principal")
		withToken  = flag.Bool("api-token", false, "genera un token X-Token para una caja cliente")
	)
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: "info"})

	for _, dir := range []string{
		cfg.App.DataDir,
		filepath.Join(cfg.App.DataDir, "cfdi"),
		cfg.Backup.Dir,
		cfg.Sync.CacheDir,
		filepath.Dir(cfg.DB.Path),
	} {
		if dir == "" || dir == "." {
			continue
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			log.Fatal().Err(err).Str("dir", dir).Msg("crear directorio")
		}
	}

	ctx := context.Background()
	db, err := sqlite.Open(ctx, cfg.DB.DSN())
	if err != nil {
		log.Fatal().Err(err).Msg("abrir base SQLite")
	}
	defer db.Close()

	if err := sqlite.Migrate(db); err != nil {
		log.Fatal().Err(err).Msg("aplicar migraciones")
	}
	log.Info().Str("db", cfg.DB.Path).Msg("esquema aplicado")

	branchRepo := sqlite.NewBranchRepository(db)
	userRepo := sqlite.NewUserRepository(db)
	tokenRepo := sqlite.NewAPITokenRepository(db)

	branch, err := branchRepo.GetDefault()
	if errors.Is(err, domain.ErrNotFound) {
		id, err := branchRepo.Create(&entity.Branch{
			Name:      *branchName,
			Currency:  "MXN",
			Timezone:  "America/Mexico_City",
			IsDefault: true,
		})
		if err != nil {
			log.Fatal().Err(err).Msg("crear sucursal")
		}
		branch = &entity.Branch{ID: id, Name: *branchName}
		log.Info().Int64("branch_id", id).Str("name", *branchName).Msg("sucursal creada")
	} else if err != nil {
		log.Fatal().Err(err).Msg("consultar sucursal")
	} else {
		log.Info().Int64("branch_id", branch.ID).Str("name", branch.Name).Msg("sucursal existente")
	}

	admin, err := userRepo.GetByUsername(*adminUser)
	if errors.Is(err, domain.ErrNotFound) {
		if *adminPass == "" {
			log.Fatal().Msg("se requiere -admin-pass para crear el administrador")
		}
		hash, err := auth.HashPassword(*adminPass)
		if err != nil {
			log.Fatal().Err(err).Msg("hash de contraseña")
		}
		id, err := userRepo.Create(&entity.User{
			Username:     *adminUser,
			PasswordHash: hash,
			FullName:     "Administrador",
			Role:         entity.RoleAdmin,
			IsActive:     true,
		})
		if err != nil {
			log.Fatal().Err(err).Msg("crear administrador")
		}
		admin = &entity.User{ID: id, Username: *adminUser}
		log.Info().Int64("user_id", id).Str("username", *adminUser).Msg("administrador creado")
	} else if err != nil {
		log.Fatal().Err(err).Msg("consultar administrador")
	} else {
		log.Info().Str("username", admin.Username).Msg("administrador existente, no se modifica")
	}

	if *withToken {
		raw := make([]byte, 24)
		if _, err := rand.Read(raw); err != nil {
			log.Fatal().Err(err).Msg("generar token")
		}
		token := hex.EncodeToString(raw)
		if _, err := tokenRepo.Create(&entity.APIToken{
			UserID:      admin.ID,
			Token:       token,
			Role:        entity.RoleCashier,
			Description: "caja cliente",
			IsActive:    true,
		}); err != nil {
			log.Fatal().Err(err).Msg("guardar token")
		}
		log.Info().Str("token", token).Msg("token de caja generado (guárdalo, no se vuelve a mostrar)")
	}

	log.Info().Msg("instalación lista")
}
