package clients

import (
	"context"
	"fmt"

	"storefront/internal/domain"

	"github.com/sirupsen/logrus"
	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/client"
)

var _ domain.PaymentGateway = (*StripePaymentGateway)(nil)

// checkoutSessionCreator is the part of the Stripe API used here.
type checkoutSessionCreator interface {
	New(params *stripe.CheckoutSessionParams) (*stripe.CheckoutSession, error)
}

type StripePaymentGateway struct {
	sessions checkoutSessionCreator
	currency string
	log      *logrus.Logger
}

func NewStripePaymentGateway(secretKey, currency string, logger *logrus.Logger) *StripePaymentGateway {
	sc := client.New(secretKey, nil)
	return &StripePaymentGateway{
		sessions: sc.CheckoutSessions,
		currency: currency,
		log:      logger,
	}
}

func (g *StripePaymentGateway) CreateSession(ctx context.Context, req domain.PaymentSessionRequest) (*domain.PaymentSession, error) {
	params := g.sessionParams(req)
	params.Context = ctx

	g.log.Infof("Payments: Creating checkout session with %d line items", len(req.LineItems))
	session, err := g.sessions.New(params)
	if err != nil {
		g.log.Errorf("Payments: Stripe rejected checkout session: %v", err)
		return nil, fmt.Errorf("stripe checkout session: %w", err)
	}

	return &domain.PaymentSession{ID: session.ID, RedirectURL: session.URL}, nil
}

func (g *StripePaymentGateway) sessionParams(req domain.PaymentSessionRequest) *stripe.CheckoutSessionParams {
	lineItems := make([]*stripe.CheckoutSessionLineItemParams, 0, len(req.LineItems))
	for _, item := range req.LineItems {
		product := &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
			Name: stripe.String(item.Name),
		}
		if item.Description != "" {
			product.Description = stripe.String(item.Description)
		}
		lineItems = append(lineItems, &stripe.CheckoutSessionLineItemParams{
			PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
				Currency:    stripe.String(g.currency),
				ProductData: product,
				UnitAmount:  stripe.Int64(item.UnitPrice),
			},
			Quantity: stripe.Int64(int64(item.Quantity)),
		})
	}

	params := &stripe.CheckoutSessionParams{
		PaymentMethodTypes: stripe.StringSlice([]string{"card"}),
		Mode:               stripe.String(string(stripe.CheckoutSessionModePayment)),
		LineItems:          lineItems,
		SuccessURL:         stripe.String(req.SuccessURL),
		CancelURL:          stripe.String(req.CancelURL),
	}
	for k, v := range req.Metadata {
		params.AddMetadata(k, v)
	}
	return params
}
