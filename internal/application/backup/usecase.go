package backup

import (
	"archive/zip"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/tiendamx/pos-mostrador/internal/domain"
	"github.com/tiendamx/pos-mostrador/internal/domain/entity"
	"github.com/tiendamx/pos-mostrador/internal/domain/repository"
	"github.com/tiendamx/pos-mostrador/pkg/config"
	"github.com/tiendamx/pos-mostrador/pkg/logger"
)

// Uploader sube un respaldo a almacenamiento remoto.
type Uploader interface {
	Upload(ctx context.Context, localPath, name string) (string, error)
}

// Usecase genera, lista y restaura respaldos de la base. Un respaldo es un
// zip del archivo SQLite, opcionalmente cifrado, replicado a NAS y nube según
// configuración.
type Usecase struct {
	repo     repository.BackupLogRepository
	dbPath   string
	cfg      config.BackupConfig
	uploader Uploader // nil si la nube está deshabilitada
	log      *logger.Logger
}

// New construye el motor de respaldos. uploader puede ser nil.
func New(repo repository.BackupLogRepository, dbPath string, cfg config.BackupConfig, uploader Uploader, log *logger.Logger) *Usecase {
	return &Usecase{repo: repo, dbPath: dbPath, cfg: cfg, uploader: uploader, log: log}
}

// Create genera un respaldo nuevo y lo registra en la bitácora. Las réplicas
// a NAS y nube son best-effort: su falla queda en las notas, no tumba el
// respaldo local.
func (uc *Usecase) Create(ctx context.Context, notes string) (*entity.BackupLog, error) {
	if err := os.MkdirAll(uc.cfg.Dir, 0o755); err != nil {
		return nil, fmt.Errorf("crear directorio de respaldos: %w", err)
	}

	stamp := time.Now().Format("20060102_150405")
	name := fmt.Sprintf("pos_backup_%s.zip", stamp)
	zipPath := filepath.Join(uc.cfg.Dir, name)

	if err := zipFile(uc.dbPath, zipPath); err != nil {
		return nil, err
	}

	finalPath := zipPath
	if uc.cfg.Encrypt && uc.cfg.EncryptKey != "" {
		encPath := zipPath + ".enc"
		if err := encryptFile(zipPath, encPath, uc.cfg.EncryptKey); err != nil {
			return nil, err
		}
		if err := os.Remove(zipPath); err != nil {
			uc.log.Warn().Err(err).Str("path", zipPath).Msg("no se pudo borrar el zip sin cifrar")
		}
		finalPath = encPath
		name += ".enc"
	}

	sum, size, err := hashFile(finalPath)
	if err != nil {
		return nil, err
	}

	var problems []string
	nasOK := false
	if uc.cfg.NASEnabled && uc.cfg.NASPath != "" {
		if err := copyFile(finalPath, filepath.Join(uc.cfg.NASPath, name)); err != nil {
			problems = append(problems, fmt.Sprintf("NAS: %v", err))
			uc.log.Warn().Err(err).Msg("réplica a NAS falló")
		} else {
			nasOK = true
		}
	}
	cloudOK := false
	if uc.cfg.CloudEnabled && uc.uploader != nil {
		if _, err := uc.uploader.Upload(ctx, finalPath, name); err != nil {
			problems = append(problems, fmt.Sprintf("nube: %v", err))
			uc.log.Warn().Err(err).Msg("réplica a nube falló")
		} else {
			cloudOK = true
		}
	}

	allNotes := notes
	if len(problems) > 0 {
		if allNotes != "" {
			allNotes += "; "
		}
		allNotes += strings.Join(problems, "; ")
	}

	b := &entity.BackupLog{
		Filename:     name,
		SHA256:       sum,
		SizeBytes:    size,
		StorageLocal: true,
		StorageNAS:   nasOK,
		StorageCloud: cloudOK,
		Notes:        allNotes,
	}
	id, err := uc.repo.Create(b)
	if err != nil {
		return nil, err
	}
	b.ID = id
	b.CreatedAt = time.Now()

	uc.log.Info().
		Str("file", name).
		Int64("bytes", size).
		Bool("nas", nasOK).
		Bool("cloud", cloudOK).
		Msg("respaldo generado")

	if uc.cfg.RetentionOn {
		uc.applyRetention()
	}
	return b, nil
}

// List devuelve la bitácora de respaldos, el más reciente primero.
func (uc *Usecase) List(ctx context.Context) ([]*entity.BackupLog, error) {
	return uc.repo.List()
}

// Verify recalcula el SHA-256 del archivo y lo compara con la bitácora.
func (uc *Usecase) Verify(ctx context.Context, backupID int64) error {
	b, err := uc.repo.GetByID(backupID)
	if err != nil {
		return err
	}
	sum, _, err := hashFile(filepath.Join(uc.cfg.Dir, b.Filename))
	if err != nil {
		return err
	}
	if sum != b.SHA256 {
		return fmt.Errorf("%w: el respaldo %s no coincide con su hash registrado", domain.ErrConflict, b.Filename)
	}
	return nil
}

// Restore extrae el respaldo indicado y deja la base restaurada en dstPath.
// No toca la base viva: el reemplazo del archivo activo se hace con la
// aplicación detenida.
func (uc *Usecase) Restore(ctx context.Context, backupID int64, dstPath string) error {
	b, err := uc.repo.GetByID(backupID)
	if err != nil {
		return err
	}
	src := filepath.Join(uc.cfg.Dir, b.Filename)

	zipPath := src
	if strings.HasSuffix(b.Filename, ".enc") {
		if uc.cfg.EncryptKey == "" {
			return fmt.Errorf("%w: el respaldo está cifrado y no hay llave configurada", domain.ErrConflict)
		}
		tmp, err := os.CreateTemp("", "pos_restore_*.zip")
		if err != nil {
			return err
		}
		tmp.Close()
		defer os.Remove(tmp.Name())
		if err := decryptFile(src, tmp.Name(), uc.cfg.EncryptKey); err != nil {
			return err
		}
		zipPath = tmp.Name()
	}

	if err := unzipFirst(zipPath, dstPath); err != nil {
		return err
	}
	uc.log.Info().Str("file", b.Filename).Str("dst", dstPath).Msg("respaldo restaurado")
	return nil
}

// applyRetention borra respaldos locales más viejos que la retención
// configurada, junto con su fila en la bitácora.
func (uc *Usecase) applyRetention() {
	if uc.cfg.RetentionDays <= 0 {
		return
	}
	cutoff := time.Now().AddDate(0, 0, -uc.cfg.RetentionDays)
	logs, err := uc.repo.List()
	if err != nil {
		uc.log.Warn().Err(err).Msg("retención: no se pudo leer la bitácora")
		return
	}
	for _, b := range logs {
		if !b.CreatedAt.Before(cutoff) {
			continue
		}
		path := filepath.Join(uc.cfg.Dir, b.Filename)
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			uc.log.Warn().Err(err).Str("file", b.Filename).Msg("retención: no se pudo borrar")
			continue
		}
		if err := uc.repo.Delete(b.ID); err != nil {
			uc.log.Warn().Err(err).Int64("id", b.ID).Msg("retención: no se pudo quitar de la bitácora")
		}
	}
}

// zipFile empaqueta un solo archivo en un zip con compresión deflate.
func zipFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("abrir %s: %w", src, err)
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return fmt.Errorf("crear %s: %w", dst, err)
	}
	defer out.Close()

	zw := zip.NewWriter(out)
	w, err := zw.Create(filepath.Base(src))
	if err != nil {
		zw.Close()
		return err
	}
	if _, err := io.Copy(w, in); err != nil {
		zw.Close()
		return fmt.Errorf("comprimir %s: %w", src, err)
	}
	return zw.Close()
}

// unzipFirst extrae el primer archivo del zip a dst.
func unzipFirst(zipPath, dst string) error {
	zr, err := zip.OpenReader(zipPath)
	if err != nil {
		return fmt.Errorf("abrir zip %s: %w", zipPath, err)
	}
	defer zr.Close()

	if len(zr.File) == 0 {
		return fmt.Errorf("zip vacío: %s", zipPath)
	}
	rc, err := zr.File[0].Open()
	if err != nil {
		return err
	}
	defer rc.Close()

	out, err := os.Create(dst)
	if err != nil {
		return fmt.Errorf("crear %s: %w", dst, err)
	}
	defer out.Close()

	if _, err := io.Copy(out, rc); err != nil {
		return fmt.Errorf("extraer a %s: %w", dst, err)
	}
	return nil
}

func hashFile(path string) (string, int64, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", 0, fmt.Errorf("abrir %s: %w", path, err)
	}
	defer f.Close()

	h := sha256.New()
	size, err := io.Copy(h, f)
	if err != nil {
		return "", 0, err
	}
	return hex.EncodeToString(h.Sum(nil)), size, nil
}

func copyFile(src, dst string) error {
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return err
	}
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
