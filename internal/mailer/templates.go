package mailer

import (
	"fmt"
	"strings"

	"storefront/internal/models"
)

// BuildOrderNotificationBody builds the plain-text body for the operator
// order notification.
func BuildOrderNotificationBody(summary *models.OrderSummary) string {
	var b strings.Builder

	fmt.Fprintf(&b, "A checkout was completed.\r\n\r\n")
	fmt.Fprintf(&b, "Checkout session: %s\r\n", summary.CheckoutSessionID)
	fmt.Fprintf(&b, "Customer email:   %s\r\n\r\n", summary.CustomerEmail)

	b.WriteString("Ship to:\r\n")
	if summary.ShippingName != "" {
		fmt.Fprintf(&b, "  %s\r\n", summary.ShippingName)
	}
	addr := summary.ShippingAddress
	if addr.Line1 != "" {
		fmt.Fprintf(&b, "  %s\r\n", addr.Line1)
	}
	if addr.Line2 != "" {
		fmt.Fprintf(&b, "  %s\r\n", addr.Line2)
	}
	cityLine := strings.TrimSpace(strings.Join(nonEmpty(addr.City, addr.State, addr.PostalCode), " "))
	if cityLine != "" {
		fmt.Fprintf(&b, "  %s\r\n", cityLine)
	}
	if addr.Country != "" {
		fmt.Fprintf(&b, "  %s\r\n", addr.Country)
	}

	b.WriteString("\r\nItems:\r\n")
	total := 0
	for _, item := range summary.Items {
		fmt.Fprintf(&b, "  %d x %s\r\n", item.Qty, item.Color)
		total += item.Qty
	}
	fmt.Fprintf(&b, "\r\n%d item(s) total.\r\n", total)

	return b.String()
}

func nonEmpty(values ...string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v != "" {
			out = append(out, v)
		}
	}
	return out
}
