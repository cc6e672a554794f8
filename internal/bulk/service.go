package bulk

import (
	"context"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/samber/lo"

	"github.com/cuongdevv/track/internal/metrics"
	"github.com/cuongdevv/track/internal/notifier"
	"github.com/cuongdevv/track/internal/trackstat"
)

// Invalidator drops cached player-list data after the dataset is mutated.
type Invalidator interface {
	InvalidateCurrent()
}

// Service runs bulk operations against the stats server. Items are processed
// strictly one at a time so a mass delete cannot hammer the server, and a
// single bad item never aborts the rest.
type Service struct {
	client   trackstat.Client
	inval    Invalidator
	metrics  metrics.Metrics
	notifier notifier.Notifier
}

// New creates a bulk operation service.
func New(client trackstat.Client, inval Invalidator, metricsSvc metrics.Metrics, n notifier.Notifier) *Service {
	return &Service{
		client:   client,
		inval:    inval,
		metrics:  metricsSvc,
		notifier: n,
	}
}

// DeletePlayers removes the named players one by one. Duplicated names are
// collapsed first. Per-item failures are collected, never fatal; the cache is
// invalidated whenever at least one delete went through so the next load
// shows the real server state. With dryRun set nothing is deleted and the
// report counts what would have been.
func (s *Service) DeletePlayers(ctx context.Context, names []string, dryRun bool) (DeleteReport, error) {
	names = lo.Uniq(lo.Filter(names, func(n string, _ int) bool {
		return strings.TrimSpace(n) != ""
	}))

	report := DeleteReport{Requested: len(names)}
	for _, name := range names {
		if err := ctx.Err(); err != nil {
			return report, err
		}
		if dryRun {
			log.Info("DRY RUN: Would delete player", "player", name)
			report.Deleted++
			continue
		}
		res, err := s.client.DeletePlayer(ctx, name)
		if err != nil {
			log.Error("Failed to delete player", "player", name, "error", err)
			report.Failures = append(report.Failures, ItemError{Name: name, Reason: err.Error()})
			continue
		}
		if !res.Success {
			log.Warn("Server refused player delete", "player", name, "reason", res.ErrorMessage())
			report.Failures = append(report.Failures, ItemError{Name: name, Reason: res.ErrorMessage()})
			continue
		}
		report.Deleted++
	}

	if !dryRun {
		if report.Deleted > 0 {
			s.metrics.AddPlayersDeleted(report.Deleted)
		}
		// Invalidate even after partial failure: some deletes landed and
		// the cached pages no longer reflect the server.
		s.inval.InvalidateCurrent()
	}

	if err := s.notifier.SendDeleteSummary(notifier.DeleteSummary{
		Requested: report.Requested,
		Deleted:   report.Deleted,
		Failed:    failureNames(report.Failures),
	}, dryRun); err != nil {
		log.Error("Failed to send delete summary", "error", err)
	}

	log.Info("Bulk delete finished", "requested", report.Requested, "deleted", report.Deleted, "failed", len(report.Failures))
	return report, nil
}

// ExportAccounts fetches the session cookie for each username and assembles
// username:cookie lines. Accounts without a retrievable cookie are reported
// and left out of the export. The export itself is read-only, so dryRun only
// affects the summary notification.
func (s *Service) ExportAccounts(ctx context.Context, usernames []string, dryRun bool) (ExportReport, error) {
	usernames = lo.Uniq(lo.Filter(usernames, func(u string, _ int) bool {
		return strings.TrimSpace(u) != ""
	}))

	report := ExportReport{Requested: len(usernames)}
	for _, username := range usernames {
		if err := ctx.Err(); err != nil {
			return report, err
		}
		cookie, err := s.client.GetAccountCookie(ctx, username)
		if err != nil {
			log.Error("Failed to fetch account cookie", "username", username, "error", err)
			report.Failures = append(report.Failures, ItemError{Name: username, Reason: err.Error()})
			continue
		}
		report.Lines = append(report.Lines, username+":"+cookie)
		report.Exported++
	}

	if report.Exported > 0 {
		s.metrics.AddAccountsExported(report.Exported)
	}

	if err := s.notifier.SendExportSummary(notifier.ExportSummary{
		Requested: report.Requested,
		Exported:  report.Exported,
		Failed:    failureNames(report.Failures),
	}, dryRun); err != nil {
		log.Error("Failed to send export summary", "error", err)
	}

	log.Info("Account export finished", "requested", report.Requested, "exported", report.Exported, "failed", len(report.Failures))
	return report, nil
}

// ImportAccounts forwards raw username:password lines to the server and
// summarizes its per-line results. With dryRun set nothing is sent upstream;
// the lines are only validated locally.
func (s *Service) ImportAccounts(ctx context.Context, payload string, dryRun bool) (ImportReport, error) {
	var report ImportReport
	if dryRun {
		report = validateImportLines(payload)
		log.Info("DRY RUN: Would import accounts", "total", report.Total, "malformed", report.Failed)
	} else {
		result, err := s.client.ImportAccounts(ctx, payload)
		if err != nil {
			return ImportReport{}, err
		}
		report = ImportReport{
			Added:  result.Successful,
			Failed: result.Failed,
			Total:  result.Total,
		}
		for _, line := range result.Results {
			if !line.Success {
				report.Failures = append(report.Failures, ItemError{Name: line.Username, Reason: line.Message})
			}
		}
	}

	if err := s.notifier.SendImportSummary(notifier.ImportSummary{
		Added:   report.Added,
		Skipped: report.Total - report.Added - report.Failed,
		Failed:  report.Failed,
	}, dryRun); err != nil {
		log.Error("Failed to send import summary", "error", err)
	}

	log.Info("Account import finished", "added", report.Added, "failed", report.Failed, "total", report.Total)
	return report, nil
}

// validateImportLines checks username:password lines without submitting them.
// Well-formed lines count as Added so a dry-run summary mirrors the expected
// outcome.
func validateImportLines(payload string) ImportReport {
	var report ImportReport
	for _, line := range strings.Split(payload, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		report.Total++
		parts := strings.SplitN(line, ":", 2)
		if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
			report.Failed++
			report.Failures = append(report.Failures, ItemError{Name: parts[0], Reason: "expected username:password"})
			continue
		}
		report.Added++
	}
	return report
}

func failureNames(failures []ItemError) []string {
	return lo.Map(failures, func(f ItemError, _ int) string {
		return f.Name
	})
}
