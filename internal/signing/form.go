package signing

import (
	"net/url"
	"strings"
)

// Pair is one key/value element of a form body.
type Pair struct {
	Key   string
	Value string
}

// Form is an ordered list of key/value pairs destined for an
// application/x-www-form-urlencoded request body.
//
// Order is significant twice over: the encoded bytes feed directly into the
// signature hash, and the server recomputes that hash over the body exactly as
// received. net/url's Values.Encode sorts keys alphabetically and therefore
// cannot be used here.
type Form []Pair

// Add appends a pair, preserving insertion order.
func (f *Form) Add(key, value string) {
	*f = append(*f, Pair{Key: key, Value: value})
}

// Encode serializes the form as percent-encoded key=value segments joined by
// "&", in insertion order. Spaces encode as "+"; "&", "=" and "%" inside keys
// or values are always escaped. Every string input is encodable, so there is
// no error path.
func (f Form) Encode() string {
	var b strings.Builder
	for i, p := range f {
		if i > 0 {
			b.WriteByte('&')
		}
		b.WriteString(url.QueryEscape(p.Key))
		b.WriteByte('=')
		b.WriteString(url.QueryEscape(p.Value))
	}
	return b.String()
}
