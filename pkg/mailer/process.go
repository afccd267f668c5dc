package mailer

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/oksasatya/marketplace-api/pkg/mailer/templates"
)

// ErrInvalidJob marks jobs that can never be delivered and must not be retried.
var ErrInvalidJob = errors.New("invalid email job")

// Deliver renders job (when templated) and hands it to s. subjectFor supplies
// a subject for templated jobs that did not carry one.
func Deliver(ctx context.Context, s Sender, job EmailJob, subjectFor func(*EmailJob) string) error {
	if strings.TrimSpace(job.To) == "" {
		return ErrInvalidJob
	}
	subject, text, html := job.Subject, job.Text, job.HTML
	if job.Template != "" {
		name := strings.ToLower(job.Template)
		if !templates.Known(name) {
			return fmt.Errorf("%w: unknown template %q", ErrInvalidJob, job.Template)
		}
		t, h, err := templates.Render(name, job.Data)
		if err != nil {
			return errors.Join(ErrInvalidJob, err)
		}
		text, html = t, h
		if subject == "" && subjectFor != nil {
			subject = subjectFor(&job)
		}
	}
	if subject == "" || (text == "" && html == "") {
		return ErrInvalidJob
	}
	return s.Send(ctx, job.To, subject, text, html)
}
