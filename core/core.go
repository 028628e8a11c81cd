package core

import (
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/lanbeam/lanbeam/models"
)

// timestampLayout matches the text format persisted in history rows so that
// lexicographic ordering equals chronological ordering.
const timestampLayout = "2006-01-02 15:04:05"

// HistoryStore is the persistence boundary for the append-only transfer
// history. Implemented by storage.History; faked in tests.
type HistoryStore interface {
	Append(entry *models.HistoryEntry) error
	UpdateStatus(id, status string) error
	ListAll() ([]models.HistoryEntry, error)
	ListByDevice(deviceID string) ([]models.HistoryEntry, error)
	GetByID(id string) (*models.HistoryEntry, error)
}

// Options configures a Core instance.
type Options struct {
	History      HistoryStore
	TokenTTL     time.Duration
	SessionTTL   time.Duration
	MaxUpload    int64
	DownloadDir  string
	TransientDir string
	// InitialToken seeds the pairing token slot so the URL printed at boot
	// stays exchangeable. Empty means mint on first issue.
	InitialToken string
	Logger       *zap.SugaredLogger
}

type clientEntry struct {
	conn      ClientConn
	isDesktop bool
	deviceID  string
}

// Core owns every piece of mutable shared state: the token slot, sessions,
// the device registry, live transfer records and the connection registry.
// One mutex guards the whole domain; critical sections never perform I/O.
// History persistence and disk streaming always happen outside the lock.
type Core struct {
	mu sync.Mutex

	token          models.PairingToken
	sessions       map[string]*models.Session
	deviceNames    map[string]string
	latestMobileID string

	live    map[string]*models.TransferRecord
	clients map[string]clientEntry

	// Runtime-mutable settings, guarded by mu like everything else.
	maxUpload   int64
	downloadDir string

	tokenTTL     time.Duration
	sessionTTL   time.Duration
	transientDir string

	history HistoryStore
	log     *zap.SugaredLogger
}

// New builds a Core. Multiple instances can coexist; nothing is ambient.
func New(opts Options) *Core {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	tokenTTL := opts.TokenTTL
	if tokenTTL <= 0 {
		tokenTTL = 2 * time.Minute
	}
	sessionTTL := opts.SessionTTL
	if sessionTTL <= 0 {
		sessionTTL = 8 * time.Hour
	}

	c := &Core{
		sessions:     make(map[string]*models.Session),
		deviceNames:  make(map[string]string),
		live:         make(map[string]*models.TransferRecord),
		clients:      make(map[string]clientEntry),
		maxUpload:    opts.MaxUpload,
		downloadDir:  opts.DownloadDir,
		tokenTTL:     tokenTTL,
		sessionTTL:   sessionTTL,
		transientDir: opts.TransientDir,
		history:      opts.History,
		log:          logger,
	}
	if opts.InitialToken != "" {
		c.token = models.PairingToken{
			Value:     opts.InitialToken,
			ExpiresAt: time.Now().Add(tokenTTL),
		}
	}
	return c
}

// MaxUploadBytes returns the current upload byte cap.
func (c *Core) MaxUploadBytes() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.maxUpload
}

// SetMaxUploadBytes replaces the upload byte cap.
func (c *Core) SetMaxUploadBytes(limit int64) {
	c.mu.Lock()
	c.maxUpload = limit
	c.mu.Unlock()
}

// DownloadDir returns the current save-to-folder target directory.
func (c *Core) DownloadDir() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.downloadDir
}

// SetDownloadDir replaces the save-to-folder target directory.
func (c *Core) SetDownloadDir(dir string) {
	c.mu.Lock()
	c.downloadDir = dir
	c.mu.Unlock()
}

// SessionTTL returns the configured session time-to-live.
func (c *Core) SessionTTL() time.Duration {
	return c.sessionTTL
}

func nowTimestamp() string {
	return time.Now().Format(timestampLayout)
}
