// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

package service

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sync"
	"syscall"
	"time"

	"github.com/go-co-op/gocron/v2"

	"github.com/zathras777/wxconnector/internal/accumulator"
	"github.com/zathras777/wxconnector/internal/config"
	"github.com/zathras777/wxconnector/internal/logger"
	"github.com/zathras777/wxconnector/internal/measurement"
	"github.com/zathras777/wxconnector/internal/report"
	"github.com/zathras777/wxconnector/internal/unit"
)

const maxLineSize = 1024 * 1024

type Service struct {
	SignalSrc signalSource

	config    *config.Config
	logger    *logger.Logger
	registry  *unit.Registry
	reporter  *report.Reporter
	scheduler gocron.Scheduler

	statsLock sync.Mutex
	stats     *accumulator.Stats
	rejected  int

	outputLock sync.Mutex
	output     io.Writer
}

func New(conf *config.Config, log *logger.Logger) (*Service, error) {
	if log == nil {
		return nil, errors.New("logger is required")
	}

	scheduler, err := gocron.NewScheduler()
	if err != nil {
		return nil, fmt.Errorf("failed to create scheduler: %w", err)
	}

	stats, err := accumulator.New(conf.TrackingConfig())
	if err != nil {
		return nil, fmt.Errorf("failed to create statistics accumulator: %w", err)
	}

	rep, err := report.New(conf.Units, conf.Locale)
	if err != nil {
		return nil, fmt.Errorf("failed to create reporter: %w", err)
	}

	registry := unit.Default()
	for _, diag := range registry.Check() {
		log.Warn("unit table defect", slog.String("diagnostic", diag))
	}

	service := &Service{
		SignalSrc: stdLibSignalSource{},
		config:    conf,
		logger:    log,
		registry:  registry,
		reporter:  rep,
		scheduler: scheduler,
		stats:     stats,
		output:    os.Stdout,
	}
	return service, nil
}

// Run reads newline delimited observation records from in and feeds them into the
// statistics accumulator. A summary is written to out on every report interval, on
// SIGUSR1 and once more when the input ends or the context is cancelled.
func (s *Service) Run(ctx context.Context, in io.Reader, out io.Writer) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	s.outputLock.Lock()
	s.output = out
	s.outputLock.Unlock()

	if err := s.createScheduledJob(ctx, s.config.Intervals.Report, s.printSummary,
		"summary_output_job"); err != nil {
		return err
	}
	s.scheduler.Start()

	sigChan := make(chan os.Signal, 1)
	s.SignalSrc.Notify(sigChan, syscall.SIGUSR1, syscall.SIGUSR2)
	go func() {
		defer s.SignalSrc.Stop(sigChan)
		s.HandleSignals(ctx, sigChan)
	}()

	readErr := make(chan error, 1)
	go func() {
		readErr <- s.readObservations(ctx, in)
	}()

	var err error
	select {
	case <-ctx.Done():
	case err = <-readErr:
	}

	s.printSummary(ctx)
	if shutdownErr := s.scheduler.Shutdown(); shutdownErr != nil {
		err = errors.Join(err, fmt.Errorf("failed to shut down scheduler: %w", shutdownErr))
	}
	return err
}

// Ingest adds the observation to the statistics. Observations that carry a tracked
// measurement in a unit incompatible with earlier values are rejected as a whole.
func (s *Service) Ingest(obs *measurement.Observation) error {
	s.statsLock.Lock()
	defer s.statsLock.Unlock()

	if err := s.stats.AddObservation(obs); err != nil {
		s.rejected++
		return err
	}
	return nil
}

// Summary returns a snapshot of the statistics accumulated so far.
func (s *Service) Summary() accumulator.Summary {
	s.statsLock.Lock()
	defer s.statsLock.Unlock()
	return s.stats.Summary()
}

func (s *Service) createScheduledJob(ctx context.Context, interval time.Duration, task func(context.Context),
	jobName string,
) error {
	_, err := s.scheduler.NewJob(
		gocron.DurationJob(interval),
		gocron.NewTask(task),
		gocron.WithContext(ctx),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
		gocron.WithName(jobName),
	)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", jobName, err)
	}
	return nil
}

// readObservations decodes one observation record per line until the input is exhausted
// or the context is cancelled. Lines that fail to decode or to be ingested are logged and
// skipped.
func (s *Service) readObservations(ctx context.Context, in io.Reader) error {
	scanner := bufio.NewScanner(in)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	line := 0
	for scanner.Scan() {
		if ctx.Err() != nil {
			return nil
		}
		line++
		data := scanner.Bytes()
		if len(data) == 0 {
			continue
		}

		var rec measurement.ObservationRecord
		if err := json.Unmarshal(data, &rec); err != nil {
			s.logger.Error("failed to decode observation", logger.Err(err), slog.Int("line", line))
			continue
		}
		obs := measurement.FromRecord(s.registry, rec)
		if err := s.Ingest(obs); err != nil {
			s.logger.Error("observation rejected", logger.Err(err), slog.Int("line", line),
				slog.Int64("when", obs.When))
			continue
		}
		s.logger.Debug("observation ingested", slog.Int("line", line), slog.Int64("when", obs.When),
			slog.Int("measurements", obs.Count()))
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("failed to read observations: %w", err)
	}
	return nil
}

// printSummary writes the current statistics in the configured output format.
func (s *Service) printSummary(context.Context) {
	sum := s.Summary()

	s.outputLock.Lock()
	defer s.outputLock.Unlock()

	var err error
	switch s.config.Output {
	case "text":
		err = s.reporter.WriteText(s.output, sum)
	default:
		err = s.reporter.WriteJSON(s.output, sum)
	}
	if err != nil {
		s.logger.Error("failed to write summary", logger.Err(err))
		return
	}
	s.logger.Debug("summary written", slog.Int("observations", sum.Observations))
}

// logState logs the number of accepted and rejected observations.
func (s *Service) logState() {
	s.statsLock.Lock()
	count, rejected, span := s.stats.Count(), s.rejected, s.stats.Span()
	s.statsLock.Unlock()

	s.logger.Info("current statistics state", slog.Int("observations", count),
		slog.Int("rejected", rejected), slog.Int64("span", span))
}
