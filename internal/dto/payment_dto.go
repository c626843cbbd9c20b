package dto

// --- Stripe ---

// StripeEvent is the envelope of a Stripe webhook delivery. Only
// checkout.session.completed events drive a credit grant; everything
// else is acknowledged and ignored.
type StripeEvent struct {
	Id   string `json:"id"`
	Type string `json:"type"`
	Data struct {
		Object StripeCheckoutSession `json:"object"`
	} `json:"data"`
}

type StripeCheckoutSession struct {
	Id            string            `json:"id"`
	PaymentIntent string            `json:"payment_intent"`
	PaymentStatus string            `json:"payment_status"`
	AmountTotal   int64             `json:"amount_total"`
	Currency      string            `json:"currency"`
	Metadata      map[string]string `json:"metadata"`
}

// --- MercadoPago ---

// MercadoPagoWebhookRequest is the thin notification MercadoPago
// delivers; full payment details are fetched back by id.
type MercadoPagoWebhookRequest struct {
	Type string `json:"type"`
	Data struct {
		Id string `json:"id"`
	} `json:"data"`
}

// CheckoutReference is the JSON blob the application sets as
// external_reference at checkout time and receives back on the payment
// resource.
type CheckoutReference struct {
	UserId          string `json:"user_id"`
	PackageId       string `json:"package_id"`
	PackageName     string `json:"package_name"`
	NumberOfClasses int    `json:"number_of_classes"`
	ValidityDays    int    `json:"validity_days"`
}
