package idgen

import (
	"strconv"
	"strings"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
)

// Generator hands out record identifiers. The per-process sequence makes every id
// unique for the lifetime of the Generator; the uuid suffix keeps ids from two
// processes sharing a database apart.
type Generator struct {
	seq atomic.Uint64
	now func() time.Time
}

func New() *Generator {
	return &Generator{now: time.Now}
}

// New returns "<prefix>_<millis><seq>_<rand>". An empty prefix yields "doc_…".
func (g *Generator) New(prefix string) string {
	if prefix == "" {
		prefix = "doc"
	}
	n := g.seq.Add(1)

	var b strings.Builder
	b.Grow(len(prefix) + 24)
	b.WriteString(prefix)
	b.WriteByte('_')
	b.WriteString(strconv.FormatInt(g.now().UnixMilli(), 36))
	b.WriteString(strconv.FormatUint(n, 36))
	b.WriteByte('_')
	b.WriteString(shortRandom())
	return b.String()
}

// BookingNumber is the reference shown to customers and cleaners, e.g. HC-K3F9Q2.
func (g *Generator) BookingNumber() string {
	n := g.seq.Add(1)
	raw := strconv.FormatInt(g.now().UnixMilli()%1_000_000_000, 36) + strconv.FormatUint(n%1296, 36)
	raw = strings.ToUpper(raw)
	if len(raw) > 6 {
		raw = raw[len(raw)-6:]
	}
	return "HC-" + raw
}

func shortRandom() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
}
