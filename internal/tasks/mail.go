package tasks

import (
	"context"
	"log/slog"
	"time"

	"flightreport/internal/mailer"
	"flightreport/internal/report"
)

// MailTask sends every artifact of the run in one message
type MailTask struct {
	sender     mailer.Sender
	from       string
	recipients []string
	day        time.Time
	artifacts  *Artifacts
}

func NewMailTask(sender mailer.Sender, from string, recipients []string, day time.Time, artifacts *Artifacts) *MailTask {
	return &MailTask{
		sender:     sender,
		from:       from,
		recipients: recipients,
		day:        day,
		artifacts:  artifacts,
	}
}

func (t *MailTask) Name() string {
	return "mail"
}

func (t *MailTask) Run(ctx context.Context) error {
	paths := t.artifacts.Paths()
	if len(paths) == 0 {
		slog.Warn("No reports to mail")
		return nil
	}

	return t.sender.Send(ctx, mailer.Delivery{
		Sender:      t.from,
		Recipients:  t.recipients,
		Subject:     "Flight Report for " + report.ReportDate(t.day),
		Attachments: paths,
	})
}
