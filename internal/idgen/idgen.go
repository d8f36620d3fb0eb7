// Package idgen produces compact task identifiers.
//
// An id is the creation time in milliseconds followed by a random
// component, both written in base 36, e.g. "mgx0k9q4" + "1x3f9...". Ids
// sort roughly by creation time but are otherwise opaque.
package idgen

import (
	"encoding/binary"
	"strconv"
	"time"

	"github.com/google/uuid"
)

// Generator creates ids using its clock for the timestamp component.
type Generator struct {
	now func() time.Time
}

// NewGenerator returns a Generator reading time from now. A nil now uses time.Now.
func NewGenerator(now func() time.Time) *Generator {
	if now == nil {
		now = time.Now
	}
	return &Generator{now: now}
}

var defaultGenerator = NewGenerator(nil)

// New returns a fresh id using the wall clock.
func New() string {
	return defaultGenerator.New()
}

// New returns a fresh id.
func (g *Generator) New() string {
	ts := strconv.FormatInt(g.now().UnixMilli(), 36)
	return ts + randomComponent()
}

// randomComponent formats the low half of a v4 uuid, which carries 62
// random bits (the top two bits of byte 8 are the variant).
func randomComponent() string {
	u := uuid.New()
	return strconv.FormatUint(binary.BigEndian.Uint64(u[8:]), 36)
}
