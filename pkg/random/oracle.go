package random

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"fairdeal-server/internal/rng"
)

// ErrNotConnected is an error when a request arrives before a fulfiller is attached
var ErrNotConnected = errors.New("oracle is not connected to a fulfiller")

const defaultNumBytes = 32

// LocalOracle is an in-process randomness oracle. It draws entropy from
// crypto/rand and delivers fulfillments asynchronously on a goroutine after
// a configurable delay.
type LocalOracle struct {
	rng       rng.Crypto
	delay     time.Duration
	fulfiller Fulfiller
	logger    logrus.FieldLogger
}

// NewLocalOracle returns a LocalOracle that fulfills after the given delay
func NewLocalOracle(logger logrus.FieldLogger, delay time.Duration) *LocalOracle {
	return &LocalOracle{
		delay:  delay,
		logger: logger,
	}
}

// Connect attaches the fulfiller that receives fulfillments.
// Must be called before the first Request.
func (o *LocalOracle) Connect(f Fulfiller) {
	o.fulfiller = f
}

// Request issues a randomness request and schedules its fulfillment
func (o *LocalOracle) Request(seed Seed) (uuid.UUID, error) {
	if o.fulfiller == nil {
		return uuid.Nil, ErrNotConnected
	}

	numBytes := seed.NumBytes
	if numBytes <= 0 {
		numBytes = defaultNumBytes
	}

	requestID := uuid.New()

	go func() {
		if o.delay > 0 {
			time.Sleep(o.delay)
		}

		value := o.rng.Bytes(numBytes)
		if err := o.fulfiller.OnRandomnessFulfilled(requestID, value); err != nil {
			o.logger.WithError(err).WithField("requestId", requestID).Error("fulfillment was rejected")
		}
	}()

	return requestID, nil
}
