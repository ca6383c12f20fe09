package test

import (
	"math/rand"
	"sync"
	"time"

	"github.com/polkiloo/savingsvault/internal/domain/model"
)

const nonceAlphabet = "abcdefghijklmnopqrstuvwxyz0123456789"

var (
	rngMu sync.Mutex
	rng   = rand.New(rand.NewSource(time.Now().UnixNano()))
)

// RandomNonce returns a pseudo-random deposit nonce of the given length.
func RandomNonce(length int) string {
	if length <= 0 {
		length = 1
	}
	rngMu.Lock()
	defer rngMu.Unlock()
	buf := make([]byte, length)
	for i := range buf {
		buf[i] = nonceAlphabet[rng.Intn(len(nonceAlphabet))]
	}
	return string(buf)
}

// RandomAddress returns a pseudo-random address; it is not guaranteed to be a valid public key.
func RandomAddress() model.Address {
	rngMu.Lock()
	defer rngMu.Unlock()
	var a model.Address
	_, _ = rng.Read(a[:])
	return a
}
