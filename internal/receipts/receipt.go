package receipts

import (
	"fmt"
	"strings"

	"github.com/openretail/pos-checkout/internal/domain"
)

// Render produces the plain-text receipt body emailed to the customer.
func Render(event domain.OrderPlacedEvent) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Receipt %s\n", event.OrderNumber)
	fmt.Fprintf(&b, "Placed %s\n\n", event.Timestamp.Format("2006-01-02 15:04:05 MST"))

	for _, item := range event.Items {
		name := item.ProductName
		if name == "" {
			name = item.ProductID
		}
		fmt.Fprintf(&b, "%-30s %3d x %9s %12s\n",
			name, item.Quantity, formatCents(item.Price), formatCents(item.Price*int64(item.Quantity)))
	}

	fmt.Fprintf(&b, "\n%-44s %12s\n", "Subtotal", formatCents(event.Subtotal))
	fmt.Fprintf(&b, "%-44s %12s\n", "Tax", formatCents(event.Tax))
	fmt.Fprintf(&b, "%-44s %12s\n", "Total", formatCents(event.Amount))

	return b.String()
}

func formatCents(cents int64) string {
	sign := ""
	if cents < 0 {
		sign = "-"
		cents = -cents
	}
	return fmt.Sprintf("%s$%d.%02d", sign, cents/100, cents%100)
}
