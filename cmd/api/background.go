package main

import (
	"context"
	"fmt"
	"time"

	"vairanya/internal/mailer"
)

// fulfillmentKinds are the work items spawned per confirmed order.
var fulfillmentKinds = []string{"quality_check", "pack", "dispatch"}

func formatCents(cents int64) string {
	return fmt.Sprintf("$%d.%02d", cents/100, cents%100)
}

// sendOrderConfirmation emails the customer off the request path. Failures
// are logged, never surfaced to the admin who confirmed the order.
func (app *application) sendOrderConfirmation(orderID int64) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		detail, err := app.store.Orders.GetDetail(ctx, orderID)
		if err != nil {
			app.logger.Errorw("order confirmation: load order", "order_id", orderID, "error", err)
			return
		}

		user, err := app.store.Users.GetByID(ctx, detail.Order.UserID)
		if err != nil {
			app.logger.Errorw("order confirmation: load user", "order_id", orderID, "error", err)
			return
		}

		vars := struct {
			Username    string
			OrderNumber string
			Items       any
			Total       string
		}{
			Username:    user.FirstName,
			OrderNumber: detail.Order.OrderNumber,
			Items:       detail.Items,
			Total:       formatCents(detail.Order.TotalCents),
		}

		status, err := app.mailer.Send(mailer.OrderConfirmationTemplate, user.FirstName, user.Email, vars)
		if err != nil {
			app.logger.Errorw("order confirmation: send email", "order_id", orderID, "error", err)
			return
		}

		app.logger.Infow("order confirmation sent", "order_number", detail.Order.OrderNumber, "status code", status)
	}()
}
