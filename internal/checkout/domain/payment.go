package domain

import "strings"

const (
	maxCardDigits   = 16
	maxExpiryDigits = 4
	maxCVVDigits    = 3
)

// PaymentInput is the raw payment form input before normalization.
type PaymentInput struct {
	CardNumber string `json:"card_number"`
	CardName   string `json:"card_name"`
	Expiry     string `json:"expiry"`
	CVV        string `json:"cvv"`
}

// PaymentInfo is the normalized payment form data held until submission.
// It is cosmetic only: nothing here is ever validated against a payment
// network, and only the last four card digits survive into the order payload.
type PaymentInfo struct {
	CardNumber string `json:"card_number"`
	CardName   string `json:"card_name"`
	Expiry     string `json:"expiry"`
	CVV        string `json:"cvv"`
}

// Normalize applies the display formatting transforms to raw input.
func (in PaymentInput) Normalize() PaymentInfo {
	return PaymentInfo{
		CardNumber: FormatCardNumber(in.CardNumber),
		CardName:   strings.TrimSpace(in.CardName),
		Expiry:     FormatExpiry(in.Expiry),
		CVV:        digitsOnly(in.CVV, maxCVVDigits),
	}
}

// CardLastFour returns the last four digits of the card number.
func (p PaymentInfo) CardLastFour() string {
	digits := digitsOnly(p.CardNumber, maxCardDigits)
	if len(digits) <= 4 {
		return digits
	}
	return digits[len(digits)-4:]
}

// FormatCardNumber strips non-digits, caps at sixteen digits, and groups
// the remainder in blocks of four separated by single spaces.
func FormatCardNumber(raw string) string {
	digits := digitsOnly(raw, maxCardDigits)

	var b strings.Builder
	for i, r := range digits {
		if i > 0 && i%4 == 0 {
			b.WriteByte(' ')
		}
		b.WriteRune(r)
	}
	return b.String()
}

// FormatExpiry strips non-digits and forces the MM/YY shape: a slash after
// the first two digits, at most two more digits after it. Inputs shorter
// than two digits pass through unslashed.
func FormatExpiry(raw string) string {
	digits := digitsOnly(raw, maxExpiryDigits)
	if len(digits) < 2 {
		return digits
	}
	return digits[:2] + "/" + digits[2:]
}

func digitsOnly(raw string, max int) string {
	var b strings.Builder
	for _, r := range raw {
		if r < '0' || r > '9' {
			continue
		}
		b.WriteRune(r)
		if b.Len() == max {
			break
		}
	}
	return b.String()
}
