package config

import (
	"os"
	"strconv"
	"strings"
)

// Defaults applied when the corresponding environment variable is unset.
const (
	DefaultSheetName         = "ETL_Pipeline"
	DefaultCredentialsFile   = "./credentials.json"
	DefaultRowStoreProvider  = "gsheets"
	DefaultStorageProvider   = "gdrive"
	DefaultRendererProvider  = "sample"
	DefaultHTTPPort          = "8080"
	DefaultDispatchWorkers   = 4
	DefaultDispatchQueueSize = 64
)

// Config carries every knob the binaries read from the environment.
// Load never fails: requiredness depends on which providers are selected,
// so the factories validate what they actually need.
type Config struct {
	ServiceName string
	HTTPPort    string

	// Row store selection and settings.
	RowStoreProvider string // "gsheets" or "xlsx"
	SheetID          string
	SheetName        string
	XLSXPath         string

	// Google credentials. An inline service-account JSON blob wins over the
	// file path; the OAuth trio is the fallback for user-grant setups.
	CredentialsJSON   string
	CredentialsFile   string
	OAuthClientID     string
	OAuthClientSecret string
	OAuthRefreshToken string

	// Artifact storage selection and settings.
	StorageProvider string // "gdrive" or "localfs"
	DriveFolderID   string
	LocalRoot       string

	// Renderer selection and settings.
	RendererProvider string // "sample" or "remote"
	SampleURL        string
	RendererBaseURL  string

	// Scratch directory for rendered files awaiting upload.
	TempDir string

	// Dispatcher sizing for the HTTP-triggered path.
	DispatchWorkers   int
	DispatchQueueSize int

	CORSAllowedOrigins []string
}

// Load reads the full configuration from the environment.
func Load() Config {
	return Config{
		ServiceName: Env("SERVICE_NAME", "factory"),
		HTTPPort:    Env("HTTP_PORT", DefaultHTTPPort),

		RowStoreProvider: Env("ROW_STORE_PROVIDER", DefaultRowStoreProvider),
		SheetID:          Env("GOOGLE_SHEET_ID", ""),
		SheetName:        Env("GOOGLE_SHEET_NAME", DefaultSheetName),
		XLSXPath:         Env("ROW_STORE_XLSX_PATH", ""),

		CredentialsJSON:   os.Getenv("GOOGLE_CREDENTIALS"),
		CredentialsFile:   Env("GOOGLE_CREDENTIALS_FILE", DefaultCredentialsFile),
		OAuthClientID:     Env("GOOGLE_OAUTH_CLIENT_ID", ""),
		OAuthClientSecret: Env("GOOGLE_OAUTH_CLIENT_SECRET", ""),
		OAuthRefreshToken: Env("GOOGLE_OAUTH_REFRESH_TOKEN", ""),

		StorageProvider: Env("STORAGE_PROVIDER", DefaultStorageProvider),
		DriveFolderID:   Env("GOOGLE_DRIVE_FOLDER_ID", ""),
		LocalRoot:       Env("STORAGE_LOCAL_ROOT", ""),

		RendererProvider: Env("RENDERER_PROVIDER", DefaultRendererProvider),
		SampleURL:        Env("RENDERER_SAMPLE_URL", ""),
		RendererBaseURL:  Env("RENDERER_HTTP_BASEURL", ""),

		TempDir: Env("TEMP_DIR", os.TempDir()),

		DispatchWorkers:   EnvInt("DISPATCH_WORKERS", DefaultDispatchWorkers),
		DispatchQueueSize: EnvInt("DISPATCH_QUEUE_SIZE", DefaultDispatchQueueSize),

		CORSAllowedOrigins: EnvList("CORS_ALLOWED_ORIGINS"),
	}
}

// Env returns the trimmed value of an environment variable, or def when
// the variable is unset or blank.
func Env(k, def string) string {
	v := strings.TrimSpace(os.Getenv(k))
	if v == "" {
		return def
	}
	return v
}

// EnvInt parses an integer environment variable, falling back to def on
// unset, blank, or unparsable values.
func EnvInt(k string, def int) int {
	v := strings.TrimSpace(os.Getenv(k))
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

// EnvList splits a comma-separated environment variable into trimmed,
// non-empty entries.
func EnvList(k string) []string {
	raw := os.Getenv(k)
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
