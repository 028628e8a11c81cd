package models

// HistoryEntry is one append-only row in the persisted transfer history.
// Rows are never deleted; only the status field of an originating upload row
// is ever updated. Timestamps are stored as "2006-01-02 15:04:05" text so
// the (timestamp, id) ordering is stable across restarts.
type HistoryEntry struct {
	ID         string `gorm:"primaryKey;size:64" json:"id"`
	DeviceID   string `gorm:"size:120;not null;index:idx_transfer_history_device_ts,priority:1" json:"device_id"`
	DeviceName string `gorm:"size:80;not null" json:"device_name"`
	FileName   string `gorm:"size:512;not null" json:"file_name"`
	FilePath   string `gorm:"size:1024;not null" json:"file_path"`
	Direction  string `gorm:"size:16;not null" json:"direction"`
	Timestamp  string `gorm:"size:32;not null;index:idx_transfer_history_device_ts,priority:2;index:idx_transfer_history_ts" json:"timestamp"`
	Status     string `gorm:"size:16;not null" json:"status"`
	FileSize   int64  `gorm:"not null;default:0" json:"file_size"`
	Source     string `gorm:"size:16;not null;default:mobile" json:"source"`
}

// TableName pins the table name so migrations stay stable.
func (HistoryEntry) TableName() string {
	return "transfer_history"
}
