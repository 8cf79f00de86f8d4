package metrics

import (
	"context"

	cryptoDomain "github.com/allisson/assetvault/internal/crypto/domain"
)

// DecryptObserver reports secret codec outcomes as the "crypto"/"secret_decrypt"
// business operation. The status label is "success" or the failure reason code.
type DecryptObserver struct {
	metrics BusinessMetrics
}

// NewDecryptObserver creates a DecryptObserver recording into m.
func NewDecryptObserver(m BusinessMetrics) *DecryptObserver {
	return &DecryptObserver{metrics: m}
}

// ObserveDecrypt implements the codec observer interface.
func (o *DecryptObserver) ObserveDecrypt(reason cryptoDomain.FailureReason) {
	status := StatusSuccess
	if reason != cryptoDomain.ReasonNone {
		status = reason.String()
	}
	o.metrics.RecordOperation(context.Background(), "crypto", "secret_decrypt", status)
}
