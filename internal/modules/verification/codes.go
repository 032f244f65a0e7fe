package verification

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

func generateJobCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(10000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%04d", n.Int64()), nil
}

// newCodePair mints two independent codes. They may coincide; each party only
// ever checks the other's.
func newCodePair() (customer, cleaner string, err error) {
	if customer, err = generateJobCode(); err != nil {
		return "", "", err
	}
	if cleaner, err = generateJobCode(); err != nil {
		return "", "", err
	}
	return customer, cleaner, nil
}
