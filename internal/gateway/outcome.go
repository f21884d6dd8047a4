package gateway

import "github.com/orderstack/braintree-gateway/internal/braintree"

// Outcome is the normalized result of every gateway operation. Callers branch
// on Success and GatewayRejection; the processor's native result shape is
// never re-exposed.
type Outcome struct {
	Success                bool
	ProcessorTransactionID string
	AVSResultCode          string
	CVVResultCode          string
	DeclineCode            string
	Message                string

	// GatewayRejection marks unsuccessful results the processor produced
	// itself (declines, fraud filters, bad nonces) as opposed to transport
	// failures, which surface as errors instead of an Outcome.
	GatewayRejection bool
}

// newOutcome folds a processor result into the one shape callers see.
func newOutcome(res *braintree.Result) *Outcome {
	o := &Outcome{
		Success: res.Success,
		Message: res.Message,
	}
	if txn := res.Transaction; txn != nil {
		o.ProcessorTransactionID = txn.ID
		o.AVSResultCode = txn.AVSResponseCode
		o.CVVResultCode = txn.CVVResponseCode
		if !res.Success {
			o.DeclineCode = txn.ProcessorResponseCode
		}
	}
	if !res.Success {
		o.GatewayRejection = true
	}
	return o
}
