package core

import (
	"os"

	"github.com/lanbeam/lanbeam/models"
)

// CreateRecord appends the record's history row and, only if that
// succeeds, publishes the record into the live map. The history append is
// I/O and runs outside the lock; a failure means nothing became visible, so
// the live map and the history log never diverge.
func (c *Core) CreateRecord(rec *models.TransferRecord) error {
	entry := &models.HistoryEntry{
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
	if err := c.history.Append(entry); err != nil {
		return &StorageError{Op: "append", Err: err}
	}

	stored := *rec
	c.mu.Lock()
	c.live[rec.ID] = &stored
	c.mu.Unlock()
	return nil
}

// GetRecord returns a copy of the live record with the given id.
func (c *Core) GetRecord(id string) (models.TransferRecord, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	rec, ok := c.live[id]
	if !ok {
		return models.TransferRecord{}, false
	}
	return *rec, true
}

// UpdateRecordStatus advances a record's status on both the live record (if
// still present) and its history row. Transitions are one-directional:
// success -> downloaded -> saved. A request to move backwards is ignored on
// the live side and not persisted.
func (c *Core) UpdateRecordStatus(id, newStatus string) error {
	c.mu.Lock()
	if rec, ok := c.live[id]; ok {
		if statusRank(newStatus) > statusRank(rec.Status) {
			rec.Status = newStatus
		} else {
			newStatus = rec.Status
		}
	}
	c.mu.Unlock()

	if err := c.history.UpdateStatus(id, newStatus); err != nil {
		return &StorageError{Op: "update status", Err: err}
	}
	return nil
}

// RemoveAndReclaim drops the live record and, for transient records,
// deletes the backing file. A missing file is not an error; any other
// deletion failure is logged and suppressed so the outer operation never
// fails because cleanup did.
func (c *Core) RemoveAndReclaim(id string) {
	c.mu.Lock()
	rec, ok := c.live[id]
	if ok {
		delete(c.live, id)
	}
	c.mu.Unlock()
	if !ok {
		return
	}

	if rec.IsTransient && rec.FilePath != "" {
		if err := os.Remove(rec.FilePath); err != nil && !os.IsNotExist(err) {
			c.log.Warnw("transient file reclaim failed", "id", id, "path", rec.FilePath, "error", err)
		}
	}
}

// ListVisibleRecords returns the history view scoped for the caller:
// desktop callers see every row including filesystem paths, mobile callers
// see only rows attributed to their own device and never raw paths. Rows
// are ordered (timestamp, id) ascending.
func (c *Core) ListVisibleRecords(isDesktop bool, deviceID string) ([]models.RecordView, error) {
	var (
		rows []models.HistoryEntry
		err  error
	)
	if isDesktop {
		rows, err = c.history.ListAll()
	} else {
		rows, err = c.history.ListByDevice(deviceID)
	}
	if err != nil {
		return nil, &StorageError{Op: "list", Err: err}
	}

	views := make([]models.RecordView, 0, len(rows))
	c.mu.Lock()
	for i := range rows {
		views = append(views, c.viewLocked(&rows[i], isDesktop))
	}
	c.mu.Unlock()
	return views, nil
}

// recordView builds the scoped client view for a single history row.
func (c *Core) recordView(row *models.HistoryEntry, includeFilePath bool) models.RecordView {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.viewLocked(row, includeFilePath)
}

func (c *Core) viewLocked(row *models.HistoryEntry, includeFilePath bool) models.RecordView {
	v := models.RecordView{
		ID:         row.ID,
		DeviceID:   row.DeviceID,
		DeviceName: row.DeviceName,
		Name:       row.FileName,
		Direction:  row.Direction,
		Status:     row.Status,
		Size:       row.FileSize,
		Source:     row.Source,
		CreatedAt:  row.Timestamp,
	}
	if includeFilePath {
		v.FilePath = row.FilePath
	}
	if _, live := c.live[row.ID]; live {
		v.DownloadURL = "/files/" + row.ID
	}
	return v
}

func statusRank(status string) int {
	switch status {
	case models.StatusSuccess:
		return 1
	case models.StatusDownloaded:
		return 2
	case models.StatusSaved:
		return 3
	default:
		return 0
	}
}
