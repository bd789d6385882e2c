package config

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Config agrupa la configuración de la aplicación (lectura vía Viper desde
// config.json en el directorio de datos y variables de entorno; las env vars
// tienen prioridad).
type Config struct {
	App    AppConfig
	DB     DBConfig
	JWT    JWTConfig
	HTTP   HTTPConfig
	Sync   SyncConfig
	Backup BackupConfig
	Tax    TaxConfig
}

// AppConfig configuración general de la aplicación.
type AppConfig struct {
	Env     string // development, staging, production
	Name    string
	DataDir string // directorio base: base de datos, colas offline, caché, respaldos
	Mode    string // "standalone" | "server" | "client" (MultiCaja)
}

// DBConfig configuración de la base SQLite (archivo único).
type DBConfig struct {
	Path string
}

// DSN devuelve el connection string para modernc.org/sqlite con WAL y
// foreign keys activados por conexión.
func (c DBConfig) DSN() string {
	return fmt.Sprintf("file:%s?_pragma=journal_mode(WAL)&_pragma=foreign_keys(ON)&_pragma=busy_timeout(5000)", c.Path)
}

// JWTConfig configuración de JWT.
type JWTConfig struct {
	Secret     string
	Expiration int // minutos
	Issuer     string
}

// HTTPConfig configuración del servidor HTTP (modo server).
type HTTPConfig struct {
	Host string
	Port int
}

// Addr devuelve la dirección de escucha (host:port).
func (c HTTPConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// SyncConfig configuración del cliente MultiCaja (modo client).
type SyncConfig struct {
	ServerURL      string
	Token          string
	TimeoutSeconds int
	CacheDir       string
	SalesQueue     string
	InventoryQueue string
}

// BackupConfig configuración del motor de respaldos.
type BackupConfig struct {
	Dir           string
	AutoOnClose   bool
	Encrypt       bool
	EncryptKey    string
	NASEnabled    bool
	NASPath       string
	CloudEnabled  bool
	S3Endpoint    string
	S3AccessKey   string
	S3SecretKey   string
	S3Bucket      string
	S3Prefix      string
	RetentionDays int
	RetentionOn   bool
}

// TaxConfig tasa de IVA aplicada por el ledger de ventas.
type TaxConfig struct {
	Rate float64 // 0.16 = IVA 16% (México)
}

// Load lee la configuración desde config.json (si existe en el directorio de
// datos o el actual) y variables de entorno con prefijo POS_.
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("json")
	v.AddConfigPath(".")
	v.AddConfigPath("./data")
	_ = v.ReadInConfig() // ignoramos error si no existe

	v.SetEnvPrefix("POS")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	dataDir := getString(v, "data_dir", "data")

	cfg := &Config{
		App: AppConfig{
			Env:     getString(v, "env", "development"),
			Name:    getString(v, "app_name", "pos-mostrador"),
			DataDir: dataDir,
			Mode:    getString(v, "mode", "standalone"),
		},
		DB: DBConfig{
			Path: getString(v, "db_path", filepath.Join(dataDir, "pos.db")),
		},
		JWT: JWTConfig{
			Secret:     getString(v, "secret_key", ""),
			Expiration: getInt(v, "token_expires_minutes", 240),
			Issuer:     getString(v, "jwt_issuer", "pos-mostrador"),
		},
		HTTP: HTTPConfig{
			Host: getString(v, "http_host", "0.0.0.0"),
			Port: getInt(v, "http_port", 8080),
		},
		Sync: SyncConfig{
			ServerURL:      getString(v, "server_url", "http://localhost:8080"),
			Token:          getString(v, "api_token", ""),
			TimeoutSeconds: getInt(v, "sync_timeout_seconds", 5),
			CacheDir:       getString(v, "cache_dir", filepath.Join(dataDir, "cache")),
			SalesQueue:     getString(v, "sales_queue", filepath.Join(dataDir, "offline_sales_queue.json")),
			InventoryQueue: getString(v, "inventory_queue", filepath.Join(dataDir, "offline_inventory_queue.json")),
		},
		Backup: BackupConfig{
			Dir:           getString(v, "backup_dir", filepath.Join(dataDir, "backups")),
			AutoOnClose:   v.GetBool("backup_auto_on_close"),
			Encrypt:       v.GetBool("backup_encrypt"),
			EncryptKey:    getString(v, "backup_encrypt_key", ""),
			NASEnabled:    v.GetBool("backup_nas_enabled"),
			NASPath:       getString(v, "backup_nas_path", ""),
			CloudEnabled:  v.GetBool("backup_cloud_enabled"),
			S3Endpoint:    getString(v, "backup_s3_endpoint", ""),
			S3AccessKey:   getString(v, "backup_s3_access_key", ""),
			S3SecretKey:   getString(v, "backup_s3_secret_key", ""),
			S3Bucket:      getString(v, "backup_s3_bucket", ""),
			S3Prefix:      getString(v, "backup_s3_prefix", ""),
			RetentionDays: getInt(v, "backup_retention_days", 30),
			RetentionOn:   v.GetBool("backup_retention_enabled"),
		},
		Tax: TaxConfig{
			Rate: getFloat(v, "tax_rate", 0.16),
		},
	}

	return cfg, nil
}

func getString(v *viper.Viper, key, def string) string {
	if v.IsSet(key) {
		return v.GetString(key)
	}
	return def
}

func getInt(v *viper.Viper, key string, def int) int {
	if v.IsSet(key) {
		return v.GetInt(key)
	}
	return def
}

func getFloat(v *viper.Viper, key string, def float64) float64 {
	if v.IsSet(key) {
		return v.GetFloat64(key)
	}
	return def
}
