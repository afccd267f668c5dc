package entity

// DashboardStats is the admin overview.
type DashboardStats struct {
	TotalUsers      int64 `json:"totalUsers"`
	TotalProducts   int64 `json:"totalProducts"`
	PendingProducts int64 `json:"pendingProducts"`
	TotalOrders     int64 `json:"totalOrders"`
	PendingOrders   int64 `json:"pendingOrders"`
}
