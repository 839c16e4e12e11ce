package core

import (
	"time"

	"github.com/undid-go/undid/schema"
)

// comparison is one staggered row before its dates are formatted.
type comparison struct {
	silo  string
	g     time.Time // cohort
	t     time.Time // post period
	pre   time.Time // baseline, one step before g
	treat schema.Treat
}

// key identifies a comparison within one silo.
type key struct {
	g, t, pre time.Time
}

func (c comparison) key() key {
	return key{g: c.g, t: c.t, pre: c.pre}
}
