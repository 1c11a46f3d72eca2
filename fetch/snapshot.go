package fetch

import (
	"encoding/json"

	"github.com/cockroachdb/errors"
)

// ErrMalformedResponse indicates the decoded body is missing the expected
// item list or cannot be decoded at all. Never retried.
var ErrMalformedResponse = errors.New("malformed forecast response")

// Snapshot is the flat projection of one forecast run: short field name to
// scalar value. Categories absent upstream are simply absent here.
type Snapshot map[string]string

var categoryFields = map[string]string{
	"PTY": "pty", // precipitation type
	"REH": "reh", // humidity
	"SKY": "sky", // sky condition
	"TMN": "tmn", // daily minimum temperature
	"TMX": "tmx", // daily maximum temperature
	"VEC": "vec", // wind direction
	"WSD": "wsd", // wind speed
}

// Snapshot projects the item list into a flat field map. Unrecognized
// categories are ignored; a repeated category keeps its last value.
func (r *Response) Snapshot() (Snapshot, error) {
	items := r.Body.Items.Item
	if len(items) == 0 {
		return nil, errors.Wrap(ErrMalformedResponse, "response.body.items.item missing or empty")
	}

	snap := Snapshot{}
	for _, item := range items {
		if field, ok := categoryFields[item.Category]; ok {
			snap[field] = item.FcstValue
		}
	}
	return snap, nil
}

// Encode serializes the snapshot as a canonical JSON object in UTF-8.
func (s Snapshot) Encode() ([]byte, error) {
	return json.Marshal(s)
}
