package application

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/marketplace-api/internal/domain/entity"
	"github.com/oksasatya/marketplace-api/pkg/helpers"
	"github.com/oksasatya/marketplace-api/pkg/mailer"
	tpl "github.com/oksasatya/marketplace-api/pkg/mailer/templates"
)

// Notifier queues transactional emails. A nil Notifier or one without a
// publisher drops jobs silently; delivery problems never fail the request.
type Notifier struct {
	Jobs    JobPublisher
	AppName string
	Logger  *logrus.Logger
}

func NewNotifier(jobs JobPublisher, appName string, logger *logrus.Logger) *Notifier {
	return &Notifier{Jobs: jobs, AppName: appName, Logger: logger}
}

func (n *Notifier) enqueue(ctx context.Context, job mailer.EmailJob) {
	if n == nil || n.Jobs == nil || job.To == "" {
		return
	}
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 3*time.Second)
	defer cancel()
	if err := n.Jobs.PublishJSON(ctx, job); err != nil {
		helpers.LogError(n.Logger, "enqueue email failed", err, logrus.Fields{"template": job.Template, "to": job.To})
	}
}

func (n *Notifier) OrderPlaced(ctx context.Context, buyer *entity.User, o *entity.Order, paymentURL string) {
	if n == nil || buyer == nil {
		return
	}
	lines := make([]tpl.OrderLine, 0, len(o.Items))
	for _, it := range o.Items {
		lines = append(lines, tpl.OrderLine{Name: it.ProductName, Quantity: it.Quantity, Price: it.Price.StringFixed(2)})
	}
	n.enqueue(ctx, mailer.EmailJob{
		To:       buyer.Email,
		Template: tpl.OrderPlaced,
		Data:     tpl.NewOrderPlacedData(n.AppName, buyer.Name, o.OrderNumber, o.TotalAmount.StringFixed(2), lines, paymentURL),
	})
}

func (n *Notifier) OrderPaid(ctx context.Context, buyer *entity.User, o *entity.Order) {
	if n == nil || buyer == nil {
		return
	}
	n.enqueue(ctx, mailer.EmailJob{
		To:       buyer.Email,
		Template: tpl.OrderPaid,
		Data:     tpl.NewOrderPaidData(n.AppName, buyer.Name, o.OrderNumber, o.TotalAmount.StringFixed(2)),
	})
}

// ProductReviewed tells the seller about a moderation decision.
func (n *Notifier) ProductReviewed(ctx context.Context, seller *entity.User, p *entity.Product) {
	if n == nil || seller == nil {
		return
	}
	name := tpl.ProductApproved
	reason := ""
	if p.Status == entity.StatusRejected {
		name = tpl.ProductRejected
		if p.RejectionReason != nil {
			reason = *p.RejectionReason
		}
	}
	n.enqueue(ctx, mailer.EmailJob{
		To:       seller.Email,
		Template: name,
		Data:     tpl.NewProductReviewedData(n.AppName, seller.Name, p.Name, reason),
	})
}
