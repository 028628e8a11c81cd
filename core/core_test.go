package core

import (
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/lanbeam/lanbeam/models"
)

// fakeHistory is an in-memory HistoryStore with switchable failures.
type fakeHistory struct {
	mu         sync.Mutex
	rows       []models.HistoryEntry
	failAppend bool
	failUpdate bool
}

var errFakeHistory = errors.New("history backend down")

func (f *fakeHistory) Append(entry *models.HistoryEntry) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failAppend {
		return errFakeHistory
	}
	f.rows = append(f.rows, *entry)
	return nil
}

func (f *fakeHistory) UpdateStatus(id, status string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failUpdate {
		return errFakeHistory
	}
	for i := range f.rows {
		if f.rows[i].ID == id {
			f.rows[i].Status = status
		}
	}
	return nil
}

func (f *fakeHistory) ListAll() ([]models.HistoryEntry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]models.HistoryEntry, len(f.rows))
	copy(out, f.rows)
	sortRows(out)
	return out, nil
}

func (f *fakeHistory) ListByDevice(deviceID string) ([]models.HistoryEntry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.HistoryEntry
	for _, r := range f.rows {
		if r.DeviceID == deviceID {
			out = append(out, r)
		}
	}
	sortRows(out)
	return out, nil
}

func (f *fakeHistory) GetByID(id string) (*models.HistoryEntry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, r := range f.rows {
		if r.ID == id {
			row := r
			return &row, nil
		}
	}
	return nil, nil
}

func (f *fakeHistory) rowByID(id string) *models.HistoryEntry {
	row, _ := f.GetByID(id)
	return row
}

func sortRows(rows []models.HistoryEntry) {
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Timestamp != rows[j].Timestamp {
			return rows[i].Timestamp < rows[j].Timestamp
		}
		return rows[i].ID < rows[j].ID
	})
}

func newTestCore(opts Options) (*Core, *fakeHistory) {
	hist := &fakeHistory{}
	if opts.History == nil {
		opts.History = hist
	} else {
		hist = opts.History.(*fakeHistory)
	}
	if opts.TokenTTL == 0 {
		opts.TokenTTL = 2 * time.Minute
	}
	if opts.SessionTTL == 0 {
		opts.SessionTTL = time.Hour
	}
	if opts.MaxUpload == 0 {
		opts.MaxUpload = 1 << 30
	}
	return New(opts), hist
}

// fakeConn records everything the hub hands it.
type fakeConn struct {
	mu       sync.Mutex
	messages [][]byte
	failNext bool
}

func (f *fakeConn) WriteText(data []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failNext {
		return errors.New("peer gone")
	}
	buf := make([]byte, len(data))
	copy(buf, data)
	f.messages = append(f.messages, buf)
	return nil
}

func (f *fakeConn) Close() error { return nil }

func (f *fakeConn) received() [][]byte {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([][]byte, len(f.messages))
	copy(out, f.messages)
	return out
}

func (f *fakeConn) setFail(v bool) {
	f.mu.Lock()
	f.failNext = v
	f.mu.Unlock()
}
