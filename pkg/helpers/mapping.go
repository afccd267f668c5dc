package helpers

import (
	"fmt"
	"strings"

	"github.com/oksasatya/marketplace-api/pkg/mailer"
	mailtpl "github.com/oksasatya/marketplace-api/pkg/mailer/templates"
)

// SubjectFor picks a subject line for templated jobs that did not set one.
func SubjectFor(job *mailer.EmailJob) string {
	if strings.TrimSpace(job.Subject) != "" {
		return job.Subject
	}
	switch strings.ToLower(job.Template) {
	case mailtpl.OrderPlaced:
		if n := fmt.Sprintf("%v", job.Data["OrderNumber"]); n != "" && n != "<nil>" {
			return "Order " + n + " received"
		}
		return "Your order was received"
	case mailtpl.OrderPaid:
		return "Payment confirmed"
	case mailtpl.ProductApproved:
		return "Your product is now live"
	case mailtpl.ProductRejected:
		return "Your product was not approved"
	default:
		return "Notification"
	}
}

// EnsureRecipient copies the job recipient into the template data.
func EnsureRecipient(job *mailer.EmailJob) {
	if job.Data == nil {
		job.Data = map[string]any{}
	}
	if v, ok := job.Data["Email"]; !ok || fmt.Sprintf("%v", v) == "" {
		job.Data["Email"] = job.To
	}
}
