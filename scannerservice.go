package main

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/schollz/progressbar/v3"

	"prominent/internal/scanner"
)

type ScannerService struct {
	scanner *scanner.Service
	logger  *slog.Logger
}

func NewScannerService(covers *CoverService, logger *slog.Logger) *ScannerService {
	return &ScannerService{
		scanner: scanner.NewService(covers.IsSupported),
		logger:  logger,
	}
}

// ExtractAll hands every supported file under roots to visit. When
// progressOut is set a progress bar is drawn on it.
func (s *ScannerService) ExtractAll(ctx context.Context, roots []string, progressOut io.Writer, visit scanner.Visitor) (scanner.Totals, error) {
	var bar *progressbar.ProgressBar
	if progressOut != nil {
		bar = progressbar.NewOptions(100,
			progressbar.OptionSetWriter(progressOut),
			progressbar.OptionSetDescription("extracting"),
			progressbar.OptionClearOnFinish(),
		)
	}

	s.scanner.SetEmitter(func(eventName string, payload any) {
		progress, ok := payload.(scanner.Progress)
		if !ok {
			return
		}
		s.logger.Debug(progress.Message, "event", eventName, "phase", progress.Phase, "percent", progress.Percent)
		if bar == nil {
			return
		}
		bar.Describe(progress.Phase)
		_ = bar.Set(progress.Percent)
	})
	defer s.scanner.SetEmitter(nil)

	totals, err := s.scanner.Run(ctx, roots, visit)
	if bar != nil {
		_ = bar.Finish()
	}

	for _, failure := range totals.Failures {
		s.logger.Warn("skipping cover", "path", failure.Path, "err", failure.Err)
	}

	return totals, err
}

func (s *ScannerService) Watch(ctx context.Context, roots []string, delay time.Duration, onChange func(path string)) error {
	s.scanner.SetEmitter(func(eventName string, payload any) {
		progress, ok := payload.(scanner.Progress)
		if !ok {
			return
		}
		if progress.Status == "failed" {
			s.logger.Warn("watch error", "err", progress.Message)
			return
		}
		s.logger.Info(progress.Message, "roots", roots)
	})
	defer s.scanner.SetEmitter(nil)

	return s.scanner.Watch(ctx, roots, delay, onChange)
}

func (s *ScannerService) GetStatus() scanner.Status {
	return s.scanner.GetStatus()
}
