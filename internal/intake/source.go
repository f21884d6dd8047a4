package intake

// Source is the validated payment credential passed to gateway operations.
// The nonce is single-use on the processor side; the remaining fields ride
// along for vaulting and fraud checks.
type Source struct {
	Nonce               string
	PaymentType         string
	PaypalFundingSource string
	DeviceData          string
	Email               string
}
