package source

import (
	"crypto/sha256"
	"encoding/hex"
	"strconv"
	"strings"

	"github.com/theirongolddev/dealcast/internal/model"
)

// keyer derives stable deal keys from row content. Exact duplicate rows get
// a "-2", "-3", ... suffix in input order.
type keyer struct {
	seen map[string]int
}

func newKeyer() *keyer {
	return &keyer{seen: make(map[string]int)}
}

func (k *keyer) key(d model.Deal) string {
	base := ContentKey(d)
	k.seen[base]++
	if n := k.seen[base]; n > 1 {
		return base + "-" + strconv.Itoa(n)
	}
	return base
}

// ContentKey hashes the identifying fields of a deal.
func ContentKey(d model.Deal) string {
	date := ""
	if d.HasCloseDate() {
		date = d.CloseDate.Format("2006-01-02")
	}
	h := sha256.Sum256([]byte(strings.Join([]string{
		d.Name, d.Value.String(), d.StageLabel, date,
	}, "\x1f")))
	return hex.EncodeToString(h[:6])
}
