package templates

// OrderLine is one row of the order summary table.
type OrderLine struct {
	Name     string `json:"Name"`
	Quantity int    `json:"Quantity"`
	Price    string `json:"Price"`
}

func NewOrderPlacedData(appName, name, orderNumber, total string, lines []OrderLine, paymentURL string) map[string]any {
	items := make([]any, 0, len(lines))
	for _, l := range lines {
		items = append(items, map[string]any{"Name": l.Name, "Quantity": l.Quantity, "Price": l.Price})
	}
	return map[string]any{
		"AppName":     appName,
		"Name":        name,
		"OrderNumber": orderNumber,
		"Total":       total,
		"Items":       items,
		"PaymentURL":  paymentURL,
	}
}

func NewOrderPaidData(appName, name, orderNumber, total string) map[string]any {
	return map[string]any{
		"AppName":     appName,
		"Name":        name,
		"OrderNumber": orderNumber,
		"Total":       total,
	}
}

func NewProductReviewedData(appName, name, productName, reason string) map[string]any {
	return map[string]any{
		"AppName":     appName,
		"Name":        name,
		"ProductName": productName,
		"Reason":      reason,
	}
}
