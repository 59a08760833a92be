package scanner

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"sync"
	"time"
)

const EventProgress = "scanner:progress"

var ErrScanInProgress = errors.New("scan already in progress")

type Progress struct {
	Phase   string `json:"phase"`
	Message string `json:"message"`
	Path    string `json:"path,omitempty"`
	Percent int    `json:"percent"`
	Status  string `json:"status"`
	At      string `json:"at"`
}

type Status struct {
	Running       bool   `json:"running"`
	Watching      bool   `json:"watching"`
	LastRunAt     string `json:"lastRunAt"`
	LastError     string `json:"lastError,omitempty"`
	LastFilesSeen int    `json:"lastFilesSeen"`
	LastIndexed   int    `json:"lastIndexed"`
	LastSkipped   int    `json:"lastSkipped"`
}

type Failure struct {
	Path string
	Err  error
}

type Totals struct {
	FilesSeen int
	Indexed   int
	Skipped   int
	Failures  []Failure
}

type Emitter func(eventName string, payload any)

// Visitor handles one accepted file. A returned error marks the file as
// skipped; the scan carries on.
type Visitor func(ctx context.Context, path string) error

type Service struct {
	mu            sync.Mutex
	running       bool
	watching      bool
	lastRun       time.Time
	lastError     string
	lastFilesSeen int
	lastIndexed   int
	lastSkipped   int
	emit          Emitter
	accept        func(path string) bool
}

func NewService(accept func(path string) bool) *Service {
	return &Service{accept: accept}
}

func (s *Service) SetEmitter(emitter Emitter) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.emit = emitter
}

func (s *Service) GetStatus() Status {
	s.mu.Lock()
	defer s.mu.Unlock()

	status := Status{
		Running:       s.running,
		Watching:      s.watching,
		LastError:     s.lastError,
		LastFilesSeen: s.lastFilesSeen,
		LastIndexed:   s.lastIndexed,
		LastSkipped:   s.lastSkipped,
	}
	if !s.lastRun.IsZero() {
		status.LastRunAt = s.lastRun.UTC().Format(time.RFC3339)
	}

	return status
}

// Collect expands roots into the sorted, de-duplicated list of accepted
// files. Explicit file roots are kept even when their extension is not
// accepted so the visitor can report them.
func (s *Service) Collect(roots []string) ([]string, int, error) {
	seen := make(map[string]struct{})
	var paths []string
	skipped := 0

	add := func(path string) {
		if _, ok := seen[path]; ok {
			return
		}
		seen[path] = struct{}{}
		paths = append(paths, path)
	}

	for _, root := range roots {
		cleaned := filepath.Clean(root)
		info, err := os.Stat(cleaned)
		if err != nil {
			return nil, 0, fmt.Errorf("stat root %s: %w", root, err)
		}

		if !info.IsDir() {
			add(cleaned)
			continue
		}

		err = filepath.WalkDir(cleaned, func(path string, entry fs.DirEntry, walkErr error) error {
			if walkErr != nil {
				skipped++
				return nil
			}
			if entry.IsDir() {
				return nil
			}
			if !s.accept(path) {
				return nil
			}
			add(path)
			return nil
		})
		if err != nil {
			return nil, 0, fmt.Errorf("walk root %s: %w", root, err)
		}
	}

	slices.Sort(paths)
	return paths, skipped, nil
}

// Run collects every file under roots and hands each one to visit,
// emitting progress along the way.
func (s *Service) Run(ctx context.Context, roots []string, visit Visitor) (Totals, error) {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return Totals{}, ErrScanInProgress
	}
	s.running = true
	s.lastError = ""
	s.mu.Unlock()

	totals, err := s.performScan(ctx, roots, visit)

	s.mu.Lock()
	s.running = false
	if err != nil {
		s.lastError = err.Error()
	} else {
		s.lastRun = time.Now().UTC()
		s.lastFilesSeen = totals.FilesSeen
		s.lastIndexed = totals.Indexed
		s.lastSkipped = totals.Skipped
	}
	s.mu.Unlock()

	if err != nil {
		s.emitProgress(Progress{
			Phase:   "failed",
			Message: err.Error(),
			Percent: 100,
			Status:  "failed",
		})
		return totals, err
	}

	s.emitProgress(Progress{
		Phase: "done",
		Message: fmt.Sprintf(
			"Scan complete: %d files seen, %d extracted, %d skipped",
			totals.FilesSeen,
			totals.Indexed,
			totals.Skipped,
		),
		Percent: 100,
		Status:  "completed",
	})

	return totals, nil
}

func (s *Service) performScan(ctx context.Context, roots []string, visit Visitor) (Totals, error) {
	s.emitProgress(Progress{
		Phase:   "start",
		Message: "Collecting files",
		Percent: 0,
		Status:  "running",
	})

	paths, walkSkipped, err := s.Collect(roots)
	if err != nil {
		return Totals{}, err
	}

	totals := Totals{Skipped: walkSkipped}
	for i, path := range paths {
		if err := ctx.Err(); err != nil {
			return totals, err
		}

		totals.FilesSeen++
		s.emitProgress(Progress{
			Phase:   "scan",
			Message: fmt.Sprintf("Extracting %s", filepath.Base(path)),
			Path:    path,
			Percent: (i * 100) / len(paths),
			Status:  "running",
		})

		if visitErr := visit(ctx, path); visitErr != nil {
			totals.Skipped++
			totals.Failures = append(totals.Failures, Failure{Path: path, Err: visitErr})
			continue
		}
		totals.Indexed++
	}

	return totals, nil
}

func (s *Service) emitProgress(progress Progress) {
	s.mu.Lock()
	emitter := s.emit
	s.mu.Unlock()

	if emitter == nil {
		return
	}
	if progress.At == "" {
		progress.At = time.Now().UTC().Format(time.RFC3339)
	}
	emitter(EventProgress, progress)
}
