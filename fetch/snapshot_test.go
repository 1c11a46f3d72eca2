package fetch

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

func responseWithItems(items ...Item) *Response {
	r := &Response{}
	r.Body.Items.Item = items
	return r
}

func TestSnapshotExtraction(t *testing.T) {
	resp := responseWithItems(
		Item{Category: "PTY", FcstValue: "0"},
		Item{Category: "REH", FcstValue: "55"},
		Item{Category: "SKY", FcstValue: "1"},
		Item{Category: "TMN", FcstValue: "10"},
		Item{Category: "TMX", FcstValue: "20"},
		Item{Category: "VEC", FcstValue: "270"},
		Item{Category: "WSD", FcstValue: "3"},
		Item{Category: "FOO", FcstValue: "99"},
	)

	snap, err := resp.Snapshot()
	require.NoError(t, err)
	require.Equal(t, Snapshot{
		"pty": "0",
		"reh": "55",
		"sky": "1",
		"tmn": "10",
		"tmx": "20",
		"vec": "270",
		"wsd": "3",
	}, snap)
}

func TestSnapshotOmitsAbsentCategories(t *testing.T) {
	resp := responseWithItems(
		Item{Category: "REH", FcstValue: "80"},
		Item{Category: "WSD", FcstValue: "7"},
	)

	snap, err := resp.Snapshot()
	require.NoError(t, err)
	require.Equal(t, Snapshot{"reh": "80", "wsd": "7"}, snap)
}

func TestSnapshotLastWriteWins(t *testing.T) {
	resp := responseWithItems(
		Item{Category: "REH", FcstValue: "55"},
		Item{Category: "REH", FcstValue: "60"},
	)

	snap, err := resp.Snapshot()
	require.NoError(t, err)
	require.Equal(t, "60", snap["reh"])
}

func TestSnapshotMissingItemsIsMalformed(t *testing.T) {
	_, err := (&Response{}).Snapshot()
	require.ErrorIs(t, err, ErrMalformedResponse)
}

func TestSnapshotEncodeRoundTrip(t *testing.T) {
	snap := Snapshot{
		"pty": "0",
		"reh": "55",
		"sky": "1",
		"tmn": "10",
		"tmx": "20",
		"vec": "270",
		"wsd": "3",
	}

	payload, err := snap.Encode()
	require.NoError(t, err)

	decoded := Snapshot{}
	require.NoError(t, json.Unmarshal(payload, &decoded))
	require.Equal(t, snap, decoded)
}
