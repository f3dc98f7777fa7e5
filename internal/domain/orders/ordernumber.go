package orders

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base32"
	"fmt"
	"strings"

	"github.com/speps/go-hashids/v2"
)

// NumberGenerator produces customer-facing order numbers. The hashid encodes
// the order ID so support can decode a number back to a row, and the HMAC tag
// keeps numbers unguessable without making them long.
type NumberGenerator struct {
	secret string
	h      *hashids.HashID
}

func NewNumberGenerator(secret string) (*NumberGenerator, error) {
	hd := hashids.NewData()
	hd.Salt = secret
	hd.MinLength = 6
	hd.Alphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

	h, err := hashids.NewWithData(hd)
	if err != nil {
		return nil, fmt.Errorf("init hashids: %w", err)
	}
	return &NumberGenerator{secret: secret, h: h}, nil
}

func (g *NumberGenerator) tag(orderID int64) string {
	mac := hmac.New(sha256.New, []byte(g.secret))
	fmt.Fprintf(mac, "order:%d", orderID)
	sum := base32.StdEncoding.WithPadding(base32.NoPadding).EncodeToString(mac.Sum(nil))
	return sum[:4]
}

// Generate builds "VAIR-<hashid>-<tag>" for the given order row ID.
func (g *NumberGenerator) Generate(orderID int64) (string, error) {
	encoded, err := g.h.EncodeInt64([]int64{orderID})
	if err != nil {
		return "", fmt.Errorf("encode order id: %w", err)
	}
	return fmt.Sprintf("VAIR-%s-%s", strings.ToUpper(encoded), g.tag(orderID)), nil
}

// Decode recovers the order row ID from a number, rejecting any number whose
// HMAC tag was not produced for that ID under this secret.
func (g *NumberGenerator) Decode(orderNumber string) (int64, bool) {
	parts := strings.Split(orderNumber, "-")
	if len(parts) != 3 || parts[0] != "VAIR" {
		return 0, false
	}
	ids, err := g.h.DecodeInt64WithError(parts[1])
	if err != nil || len(ids) != 1 {
		return 0, false
	}
	if !hmac.Equal([]byte(parts[2]), []byte(g.tag(ids[0]))) {
		return 0, false
	}
	return ids[0], true
}
