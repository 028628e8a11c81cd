package core

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/lanbeam/lanbeam/models"
)

const uploadChunkSize = 1 << 20

// UploadInput carries one inbound upload through the coordinator.
type UploadInput struct {
	Trusted    bool
	DeviceID   string
	DeviceName string
	FileName   string
	Body       io.Reader
	// ContentLength is the declared request size, or a negative value when
	// unknown. Used only for the early reject; the real cap is enforced
	// per chunk while streaming.
	ContentLength int64
}

// DownloadResult tells the transport layer what to stream.
type DownloadResult struct {
	Path string
	Name string
	Size int64
}

// SaveResult reports where a record landed after save-to-folder.
type SaveResult struct {
	SavedPath   string
	FileName    string
	DownloadDir string
}

// Upload streams an incoming file to disk under the byte cap, creates the
// transfer record and publishes a new_record event scoped to the owning
// device. Trusted-origin uploads are pushes meant for the latest mobile
// device: they land in the transient holding directory under a
// collision-proof generated name. Mobile uploads land in the download
// directory under the original filename with collision suffixing.
func (c *Core) Upload(in UploadInput) (*models.RecordView, error) {
	var (
		deviceID   string
		deviceName string
		err        error
	)
	source := models.SourceMobile
	if in.Trusted {
		source = models.SourceDesktop
		deviceID, deviceName = c.PreferredMobileDevice()
	} else {
		deviceID, deviceName, err = c.ResolveDevice(false, in.DeviceID, in.DeviceName)
		if err != nil {
			return nil, err
		}
	}

	maxBytes := c.MaxUploadBytes()
	// Reject obviously oversized requests before touching disk; allow some
	// slack for multipart framing.
	if in.ContentLength > maxBytes+uploadChunkSize {
		return nil, &LimitExceededError{Limit: maxBytes}
	}

	transferID := newID()
	isTransient := in.Trusted
	var (
		out         *os.File
		destination string
		storedName  string
	)
	if isTransient {
		if err := os.MkdirAll(c.transientDir, 0o755); err != nil {
			return nil, &IOError{Op: "create dir", Path: c.transientDir, Err: err}
		}
		generated := fmt.Sprintf("%d_%s_%s", time.Now().Unix(), transferID, SanitizeFileName(in.FileName))
		destination = filepath.Join(c.transientDir, generated)
		storedName = strings.TrimSpace(in.FileName)
		out, err = os.Create(destination)
		if err != nil {
			return nil, &IOError{Op: "create", Path: destination, Err: err}
		}
	} else {
		dir := c.DownloadDir()
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, &IOError{Op: "create dir", Path: dir, Err: err}
		}
		out, err = CreateUniqueFile(dir, in.FileName)
		if err != nil {
			return nil, &IOError{Op: "create", Path: dir, Err: err}
		}
		destination = out.Name()
		storedName = filepath.Base(destination)
	}

	size, err := c.streamToDisk(out, in.Body, maxBytes)
	if err != nil {
		return nil, err
	}

	rec := &models.TransferRecord{
		ID:          transferID,
		DeviceID:    deviceID,
		DeviceName:  deviceName,
		FileName:    storedName,
		FilePath:    destination,
		Direction:   models.DirectionUpload,
		Status:      models.StatusSuccess,
		SizeBytes:   size,
		Source:      source,
		CreatedAt:   nowTimestamp(),
		IsTransient: isTransient,
	}
	if err := c.CreateRecord(rec); err != nil {
		if rmErr := os.Remove(destination); rmErr != nil && !os.IsNotExist(rmErr) {
			c.log.Warnw("upload rollback cleanup failed", "path", destination, "error", rmErr)
		}
		return nil, err
	}

	c.publishHistoryEvent(transferID, deviceID)
	view := c.recordView(historyRowFor(rec), in.Trusted)
	return &view, nil
}

// UploadLocalPath registers an existing local file as a transfer record
// without copying it. Trusted-origin only; the record is attributed to the
// latest mobile device so the phone sees it appear.
func (c *Core) UploadLocalPath(rawPath string) (*models.RecordView, error) {
	path := strings.TrimSpace(rawPath)
	if path == "" || !filepath.IsAbs(path) {
		return nil, &IOError{Op: "resolve", Path: rawPath, Err: fmt.Errorf("absolute path required")}
	}
	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		return nil, ErrNotFound
	}

	deviceID, deviceName := c.PreferredMobileDevice()
	rec := &models.TransferRecord{
		ID:          newID(),
		DeviceID:    deviceID,
		DeviceName:  deviceName,
		FileName:    filepath.Base(path),
		FilePath:    path,
		Direction:   models.DirectionUpload,
		Status:      models.StatusSuccess,
		SizeBytes:   info.Size(),
		Source:      models.SourceDesktop,
		CreatedAt:   nowTimestamp(),
		IsTransient: false,
	}
	if err := c.CreateRecord(rec); err != nil {
		return nil, err
	}

	c.publishHistoryEvent(rec.ID, deviceID)
	view := c.recordView(historyRowFor(rec), true)
	return &view, nil
}

// Download authorizes the requesting device against the record, marks the
// originating row downloaded, appends a separate download history row and
// returns what the transport should stream. Transient records survive
// downloads; only an explicit save reclaims them, so a phone can fetch the
// same desktop push more than once.
func (c *Core) Download(trusted bool, declaredID, declaredName, recordID string) (*DownloadResult, error) {
	rec, ok := c.GetRecord(recordID)
	if !ok {
		return nil, ErrNotFound
	}

	reqDeviceID, reqDeviceName := DesktopDeviceID, DesktopDeviceName
	source := models.SourceDesktop
	if !trusted {
		var err error
		reqDeviceID, reqDeviceName, err = c.ResolveDevice(false, declaredID, declaredName)
		if err != nil {
			return nil, err
		}
		if rec.DeviceID != reqDeviceID {
			return nil, ErrForbidden
		}
		source = models.SourceMobile
	}

	if err := c.UpdateRecordStatus(recordID, models.StatusDownloaded); err != nil {
		return nil, err
	}
	downloadRow := &models.HistoryEntry{
		ID:         newID(),
		DeviceID:   reqDeviceID,
		DeviceName: reqDeviceName,
		FileName:   rec.FileName,
		FilePath:   rec.FilePath,
		Direction:  models.DirectionDownload,
		Timestamp:  nowTimestamp(),
		Status:     models.StatusSuccess,
		FileSize:   rec.SizeBytes,
		Source:     source,
	}
	if err := c.history.Append(downloadRow); err != nil {
		return nil, &StorageError{Op: "append", Err: err}
	}

	c.publishHistoryEvent(downloadRow.ID, reqDeviceID)
	return &DownloadResult{Path: rec.FilePath, Name: rec.FileName, Size: rec.SizeBytes}, nil
}

// SaveToFolder copies a record's backing file into the download directory
// (or treats it as already in place when it lives there), marks the record
// saved and reclaims transient records. Only the trusted origin or the
// owning device may save.
func (c *Core) SaveToFolder(trusted bool, declaredID, declaredName, recordID string) (*SaveResult, error) {
	rec, ok := c.GetRecord(recordID)
	if !ok {
		return nil, ErrNotFound
	}
	if !trusted {
		reqDeviceID, _, err := c.ResolveDevice(false, declaredID, declaredName)
		if err != nil {
			return nil, err
		}
		if rec.DeviceID != reqDeviceID {
			return nil, ErrForbidden
		}
	}

	if rec.FilePath == "" {
		return nil, ErrNotFound
	}
	if _, err := os.Stat(rec.FilePath); err != nil {
		return nil, ErrNotFound
	}

	downloadDir := c.DownloadDir()
	if err := os.MkdirAll(downloadDir, 0o755); err != nil {
		return nil, &IOError{Op: "create dir", Path: downloadDir, Err: err}
	}

	var targetPath string
	if filepath.Dir(rec.FilePath) == filepath.Clean(downloadDir) {
		targetPath = rec.FilePath
	} else {
		targetPath = AllocateUniquePath(downloadDir, rec.FileName)
		if err := copyFile(rec.FilePath, targetPath); err != nil {
			return nil, &IOError{Op: "copy", Path: targetPath, Err: err}
		}
	}

	if err := c.UpdateRecordStatus(recordID, models.StatusSaved); err != nil {
		return nil, err
	}
	savedRow := &models.HistoryEntry{
		ID:         newID(),
		DeviceID:   DesktopDeviceID,
		DeviceName: DesktopDeviceName,
		FileName:   filepath.Base(targetPath),
		FilePath:   targetPath,
		Direction:  models.DirectionDownload,
		Timestamp:  nowTimestamp(),
		Status:     models.StatusSuccess,
		FileSize:   rec.SizeBytes,
		Source:     models.SourceDesktop,
	}
	if err := c.history.Append(savedRow); err != nil {
		return nil, &StorageError{Op: "append", Err: err}
	}

	if rec.IsTransient {
		c.RemoveAndReclaim(recordID)
	}
	c.publishHistoryEvent(savedRow.ID, DesktopDeviceID)

	return &SaveResult{
		SavedPath:   targetPath,
		FileName:    filepath.Base(targetPath),
		DownloadDir: downloadDir,
	}, nil
}

// streamToDisk copies body into the already-open out file enforcing
// maxBytes per chunk, so an oversized upload aborts promptly instead of
// landing fully on disk. On any failure the partial file is removed before
// returning.
func (c *Core) streamToDisk(out *os.File, body io.Reader, maxBytes int64) (int64, error) {
	destination := out.Name()

	cleanup := func() {
		_ = out.Close()
		if rmErr := os.Remove(destination); rmErr != nil && !os.IsNotExist(rmErr) {
			c.log.Warnw("partial upload cleanup failed", "path", destination, "error", rmErr)
		}
	}

	var total int64
	buf := make([]byte, uploadChunkSize)
	for {
		n, readErr := body.Read(buf)
		if n > 0 {
			total += int64(n)
			if maxBytes > 0 && total > maxBytes {
				cleanup()
				return 0, &LimitExceededError{Limit: maxBytes}
			}
			if _, writeErr := out.Write(buf[:n]); writeErr != nil {
				cleanup()
				return 0, &IOError{Op: "write", Path: destination, Err: writeErr}
			}
		}
		if readErr == io.EOF {
			break
		}
		if readErr != nil {
			cleanup()
			return 0, &IOError{Op: "read", Path: destination, Err: readErr}
		}
	}

	if err := out.Close(); err != nil {
		cleanup()
		return 0, &IOError{Op: "close", Path: destination, Err: err}
	}
	return total, nil
}

func copyFile(src, dst string) error {
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
		_ = out.Close()
		_ = os.Remove(dst)
		return err
	}
	return out.Close()
}

func historyRowFor(rec *models.TransferRecord) *models.HistoryEntry {
	return &models.HistoryEntry{
		ID:         rec.ID,
		DeviceID:   rec.DeviceID,
		DeviceName: rec.DeviceName,
		FileName:   rec.FileName,
		FilePath:   rec.FilePath,
		Direction:  rec.Direction,
		Timestamp:  rec.CreatedAt,
		Status:     rec.Status,
		FileSize:   rec.SizeBytes,
		Source:     rec.Source,
	}
}

func newID() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")
}
