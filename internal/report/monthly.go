// Package report holds the unattended jobs: the monthly spreadsheet mailed
// to super admins and the nightly database backup. Both swallow their own
// failures so the cron timer is never interrupted.
package report

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/rs/zerolog"
	"github.com/wneessen/go-mail"
	"github.com/xuri/excelize/v2"

	"github.com/nudriin/antrian-rest-api/internal/config"
	"github.com/nudriin/antrian-rest-api/internal/dates"
	"github.com/nudriin/antrian-rest-api/internal/models"
	"github.com/nudriin/antrian-rest-api/internal/repository"
	"github.com/nudriin/antrian-rest-api/internal/service"
)

const reportSheet = "Queue Report"

type Monthly struct {
	queues *service.QueueService
	users  repository.UserRepository
	dates  *dates.Service
	cfg    config.Config
	log    zerolog.Logger
}

func NewMonthly(queues *service.QueueService, users repository.UserRepository, d *dates.Service, cfg config.Config, log zerolog.Logger) *Monthly {
	return &Monthly{queues: queues, users: users, dates: d, cfg: cfg, log: log}
}

// Run snapshots last month's per-locket daily counts, writes the xlsx, and
// mails it to every super admin. The temp file is removed whether or not the
// send worked; the send is not retried.
func (m *Monthly) Run(ctx context.Context) {
	counts, err := m.queues.DailyCountsByLocketLastMonth(ctx)
	if err != nil {
		m.log.Error().Err(err).Msg("monthly report: aggregate failed")
		return
	}

	emails, err := m.users.EmailsByRole(ctx, models.RoleSuperAdmin)
	if err != nil {
		m.log.Error().Err(err).Msg("monthly report: recipient lookup failed")
		return
	}
	if len(emails) == 0 {
		m.log.Warn().Msg("monthly report: no super admins to mail")
		return
	}

	f := BuildWorkbook(counts)
	path := filepath.Join(os.TempDir(), fmt.Sprintf("queue-report-%s.xlsx", m.dates.Today()))
	if err := f.SaveAs(path); err != nil {
		m.log.Error().Err(err).Msg("monthly report: write failed")
		return
	}
	defer os.Remove(path)

	if err := m.send(path, emails); err != nil {
		m.log.Error().Err(err).Msg("monthly report: send failed")
		return
	}
	m.log.Info().Int("recipients", len(emails)).Msg("monthly report sent")
}

// BuildWorkbook pivots locket/day counts into a dates-by-lockets sheet:
// first column the ISO date, one column per locket, zero-filled.
func BuildWorkbook(counts models.LocketDailyCounts) *excelize.File {
	names := make([]string, 0, len(counts))
	dateSet := map[string]struct{}{}
	for name, byDate := range counts {
		names = append(names, name)
		for d := range byDate {
			dateSet[d] = struct{}{}
		}
	}
	sort.Strings(names)

	days := make([]string, 0, len(dateSet))
	for d := range dateSet {
		days = append(days, d)
	}
	sort.Strings(days)

	f := excelize.NewFile()
	f.SetSheetName("Sheet1", reportSheet)

	_ = f.SetCellValue(reportSheet, "A1", "Date")
	for i, name := range names {
		cell, _ := excelize.CoordinatesToCellName(i+2, 1)
		_ = f.SetCellValue(reportSheet, cell, name)
	}
	for r, day := range days {
		cell, _ := excelize.CoordinatesToCellName(1, r+2)
		_ = f.SetCellValue(reportSheet, cell, day)
		for c, name := range names {
			cell, _ = excelize.CoordinatesToCellName(c+2, r+2)
			_ = f.SetCellValue(reportSheet, cell, counts[name][day])
		}
	}
	return f
}

func (m *Monthly) send(path string, to []string) error {
	msg := mail.NewMsg()
	if err := msg.From(m.cfg.MailFrom); err != nil {
		return err
	}
	if err := msg.To(to...); err != nil {
		return err
	}
	msg.Subject("Monthly queue report " + m.dates.Today())
	msg.SetBodyString(mail.TypeTextPlain, "Attached: per-locket daily served-ticket counts for the last month.")
	msg.AttachFile(path)

	opts := []mail.Option{mail.WithPort(m.cfg.SMTPPort)}
	if m.cfg.SMTPUser != "" {
		opts = append(opts,
			mail.WithSMTPAuth(mail.SMTPAuthPlain),
			mail.WithUsername(m.cfg.SMTPUser),
			mail.WithPassword(m.cfg.SMTPPass),
		)
	}
	client, err := mail.NewClient(m.cfg.SMTPHost, opts...)
	if err != nil {
		return err
	}
	return client.DialAndSend(msg)
}
