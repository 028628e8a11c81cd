package models

// Transfer record directions.
const (
	DirectionUpload   = "upload"
	DirectionDownload = "download"
)

// Transfer record statuses. Transitions are one-directional:
// success -> downloaded -> saved; never backwards.
const (
	StatusSuccess    = "success"
	StatusDownloaded = "downloaded"
	StatusSaved      = "saved"
)

// Transfer record sources.
const (
	SourceDesktop = "desktop"
	SourceMobile  = "mobile"
)

// TransferRecord is a live, in-memory transfer entry backed by a file on
// disk. Transient records (desktop pushes to a phone) lose their backing
// file once saved; persistent records keep it.
type TransferRecord struct {
	ID          string
	DeviceID    string
	DeviceName  string
	FileName    string
	FilePath    string
	Direction   string
	Status      string
	SizeBytes   int64
	Source      string
	CreatedAt   string
	IsTransient bool
}

// RecordView is the client-facing shape of a record. FilePath is populated
// only for desktop callers; mobile clients never see filesystem paths.
type RecordView struct {
	ID          string `json:"id"`
	DeviceID    string `json:"device_id"`
	DeviceName  string `json:"device_name"`
	Name        string `json:"name"`
	FilePath    string `json:"file_path"`
	Direction   string `json:"direction"`
	Status      string `json:"status"`
	Size        int64  `json:"size"`
	Source      string `json:"source"`
	CreatedAt   string `json:"created_at"`
	DownloadURL string `json:"download_url"`
}
