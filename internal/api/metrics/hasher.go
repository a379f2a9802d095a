package metrics

import (
	"time"

	"github.com/snailsoup/auth-service/internal/core/ports"
)

type instrumentedHasher struct {
	next ports.PasswordHasher
}

// InstrumentHasher records PasswordHashDuration around every call to h.
func InstrumentHasher(h ports.PasswordHasher) ports.PasswordHasher {
	return &instrumentedHasher{next: h}
}

func (h *instrumentedHasher) Hash(plaintext string) (string, error) {
	start := time.Now()
	defer func() {
		PasswordHashDuration.WithLabelValues("hash").Observe(time.Since(start).Seconds())
	}()
	return h.next.Hash(plaintext)
}

func (h *instrumentedHasher) Verify(plaintext, encoded string) (bool, error) {
	start := time.Now()
	defer func() {
		PasswordHashDuration.WithLabelValues("verify").Observe(time.Since(start).Seconds())
	}()
	return h.next.Verify(plaintext, encoded)
}
