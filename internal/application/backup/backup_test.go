package backup

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tiendamx/pos-mostrador/internal/domain"
	"github.com/tiendamx/pos-mostrador/internal/domain/entity"
	"github.com/tiendamx/pos-mostrador/pkg/config"
	"github.com/tiendamx/pos-mostrador/pkg/logger"
)

// ──────────────────────────────────────────────────────────────────────────────
// Primitivas: cifrado y zip
// ──────────────────────────────────────────────────────────────────────────────

// TestEncryptDecrypt_Roundtrip: cifrar y descifrar con la misma passphrase
// recupera el archivo byte a byte.
func TestEncryptDecrypt_Roundtrip(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "src.bin")
	enc := filepath.Join(dir, "src.enc")
	out := filepath.Join(dir, "out.bin")
	content := []byte("contenido del respaldo de la base")
	require.NoError(t, os.WriteFile(src, content, 0o600))

	require.NoError(t, encryptFile(src, enc, "mi-passphrase"))
	require.NoError(t, decryptFile(enc, out, "mi-passphrase"))

	got, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, content, got)

	cipher, err := os.ReadFile(enc)
	require.NoError(t, err)
	assert.NotContains(t, string(cipher), "respaldo", "el cifrado no debe dejar texto plano")
}

// TestDecrypt_LlaveIncorrecta: una passphrase equivocada falla en lugar de
// producir basura.
func TestDecrypt_LlaveIncorrecta(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "src.bin")
	enc := filepath.Join(dir, "src.enc")
	require.NoError(t, os.WriteFile(src, []byte("datos"), 0o600))
	require.NoError(t, encryptFile(src, enc, "correcta"))

	err := decryptFile(enc, filepath.Join(dir, "out.bin"), "equivocada")

	assert.Error(t, err)
}

func TestZipUnzip_Roundtrip(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "pos.db")
	z := filepath.Join(dir, "pos.zip")
	out := filepath.Join(dir, "restored.db")
	content := []byte("SQLite format 3\x00simulado")
	require.NoError(t, os.WriteFile(src, content, 0o600))

	require.NoError(t, zipFile(src, z))
	require.NoError(t, unzipFirst(z, out))

	got, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, content, got)
}

// ──────────────────────────────────────────────────────────────────────────────
// Flujo completo con bitácora en memoria
// ──────────────────────────────────────────────────────────────────────────────

type fakeBackupLogs struct {
	byID   map[int64]*entity.BackupLog
	nextID int64
}

func (f *fakeBackupLogs) Create(b *entity.BackupLog) (int64, error) {
	f.nextID++
	clone := *b
	clone.ID = f.nextID
	f.byID[f.nextID] = &clone
	return f.nextID, nil
}

func (f *fakeBackupLogs) GetByID(id int64) (*entity.BackupLog, error) {
	b, ok := f.byID[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return b, nil
}

func (f *fakeBackupLogs) List() ([]*entity.BackupLog, error) {
	var out []*entity.BackupLog
	for _, b := range f.byID {
		out = append(out, b)
	}
	return out, nil
}

func (f *fakeBackupLogs) Delete(id int64) error {
	delete(f.byID, id)
	return nil
}

func newBackupFixture(t *testing.T, cfg config.BackupConfig) (*Usecase, *fakeBackupLogs, string) {
	t.Helper()
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "pos.db")
	require.NoError(t, os.WriteFile(dbPath, []byte("SQLite format 3\x00datos de prueba"), 0o600))
	if cfg.Dir == "" {
		cfg.Dir = filepath.Join(dir, "backups")
	}
	repo := &fakeBackupLogs{byID: map[int64]*entity.BackupLog{}}
	return New(repo, dbPath, cfg, nil, logger.Nop()), repo, dbPath
}

// TestCreate_RespaldoLocalYVerify: el respaldo queda en disco con hash
// registrado y Verify lo acepta; tras manipular el archivo, Verify lo rechaza.
func TestCreate_RespaldoLocalYVerify(t *testing.T) {
	uc, _, _ := newBackupFixture(t, config.BackupConfig{})

	b, err := uc.Create(context.Background(), "respaldo de prueba")
	require.NoError(t, err)
	assert.True(t, b.StorageLocal)
	assert.False(t, b.StorageNAS)
	assert.NotEmpty(t, b.SHA256)
	assert.Positive(t, b.SizeBytes)

	require.NoError(t, uc.Verify(context.Background(), b.ID))

	// Manipular el archivo debe romper la verificación.
	path := filepath.Join(uc.cfg.Dir, b.Filename)
	require.NoError(t, os.WriteFile(path, []byte("alterado"), 0o600))
	assert.ErrorIs(t, uc.Verify(context.Background(), b.ID), domain.ErrConflict)
}

// TestCreate_CifradoYRestore: con cifrado activo el zip plano no sobrevive y
// Restore recupera la base original desde el .enc.
func TestCreate_CifradoYRestore(t *testing.T) {
	uc, _, dbPath := newBackupFixture(t, config.BackupConfig{
		Encrypt:    true,
		EncryptKey: "llave-de-respaldo",
	})

	b, err := uc.Create(context.Background(), "")
	require.NoError(t, err)
	assert.Contains(t, b.Filename, ".enc")

	entries, err := os.ReadDir(uc.cfg.Dir)
	require.NoError(t, err)
	for _, e := range entries {
		assert.NotEqual(t, ".zip", filepath.Ext(e.Name()),
			"el zip sin cifrar no debe quedar en disco")
	}

	restored := filepath.Join(t.TempDir(), "restored.db")
	require.NoError(t, uc.Restore(context.Background(), b.ID, restored))

	original, err := os.ReadFile(dbPath)
	require.NoError(t, err)
	got, err := os.ReadFile(restored)
	require.NoError(t, err)
	assert.Equal(t, original, got)
}

// TestCreate_NASCaidoNoTumbaElRespaldo: una ruta NAS inexistente deja nota
// pero el respaldo local procede.
func TestCreate_NASCaidoNoTumbaElRespaldo(t *testing.T) {
	uc, _, _ := newBackupFixture(t, config.BackupConfig{
		NASEnabled: true,
		NASPath:    "/ruta/nas/que/no/existe",
	})

	b, err := uc.Create(context.Background(), "")

	require.NoError(t, err)
	assert.True(t, b.StorageLocal)
	assert.False(t, b.StorageNAS)
	assert.Contains(t, b.Notes, "NAS", "la falla de réplica queda en las notas")
}
