package application

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/marketplace-api/internal/domain/entity"
	"github.com/oksasatya/marketplace-api/pkg/helpers"
)

func TestDashboardStats_WithoutCache(t *testing.T) {
	users := newMemUsers()
	products := newMemProducts()
	orders := newMemOrders(products)

	users.add(&entity.User{Email: "a@x.co", Role: entity.RoleBuyer})
	users.add(&entity.User{Email: "b@x.co", Role: entity.RoleSeller})
	users.add(&entity.User{Email: "admin@x.co", Role: entity.RoleAdmin})
	products.add(&entity.Product{Status: entity.StatusPending})
	products.add(&entity.Product{Status: entity.StatusApproved, IsActive: true})
	orders.orders["ORD-1"] = &entity.Order{OrderNumber: "ORD-1", OrderStatus: entity.OrderPending}
	orders.orders["ORD-2"] = &entity.Order{OrderNumber: "ORD-2", OrderStatus: entity.OrderProcessing}

	svc := NewDashboardService(users, products, orders, nil, helpers.NewDiscardLogger())
	st, err := svc.Stats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, entity.DashboardStats{
		TotalUsers: 2, TotalProducts: 2, PendingProducts: 1, TotalOrders: 2, PendingOrders: 1,
	}, *st)
}

func TestNotifier_NilSafe(t *testing.T) {
	var n *Notifier
	assert.NotPanics(t, func() {
		n.OrderPaid(context.Background(), &entity.User{Email: "a@x.co"}, &entity.Order{})
	})

	jobs := &recordingJobs{}
	n = NewNotifier(jobs, "Shop", helpers.NewDiscardLogger())
	n.OrderPaid(context.Background(), &entity.User{}, &entity.Order{})
	assert.Empty(t, jobs.templates())
}
