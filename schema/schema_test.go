package schema

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateServerTime(t *testing.T) {
	v, err := NewValidator()
	require.NoError(t, err)

	valid := []byte(`{"unixtime":1688669448,"rfc1123":"Thu, 06 Jul 23 18:50:48 +0000"}`)
	assert.NoError(t, v.Validate(ServerTime, valid))

	invalid := []byte(`{"unixtime":"soon"}`)
	err = v.Validate(ServerTime, invalid)

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, ServerTime, verr.Schema)

	// Both the type violation and the missing field must be reported.
	require.GreaterOrEqual(t, len(verr.Violations), 2, "violations: %v", verr.Violations)
	joined := strings.Join(verr.Violations, "\n")
	assert.Contains(t, joined, "unixtime")
	assert.Contains(t, joined, "rfc1123")
	assert.Contains(t, verr.Error(), ServerTime)
}

func TestValidateAssetPairs(t *testing.T) {
	v, err := NewValidator()
	require.NoError(t, err)

	valid := []byte(`{
		"XXBTZUSD": {
			"altname": "XBTUSD",
			"wsname": "XBT/USD",
			"base": "XXBT",
			"quote": "ZUSD",
			"status": "online",
			"pair_decimals": 1,
			"lot_decimals": 8,
			"ordermin": "0.0001",
			"costmin": "0.5",
			"tick_size": "0.1"
		}
	}`)
	assert.NoError(t, v.Validate(AssetPairs, valid))

	invalid := []byte(`{"XXBTZUSD": {"altname": "", "base": "XXBT", "status": "paused"}}`)
	err = v.Validate(AssetPairs, invalid)

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	joined := strings.Join(verr.Violations, "\n")
	assert.Contains(t, joined, "XXBTZUSD")

	err = v.Validate(AssetPairs, []byte(`{}`))
	assert.Error(t, err, "an empty pair map should fail minProperties")
}

func TestValidateEnvelope(t *testing.T) {
	v, err := NewValidator()
	require.NoError(t, err)

	cases := []struct {
		name    string
		payload string
		wantErr bool
	}{
		{"empty error array", `{"error":[],"result":{"unixtime":1688669448}}`, false},
		{"error strings", `{"error":["EAPI:Invalid key","WGeneral:Degraded"]}`, false},
		{"missing error key", `{"result":{}}`, true},
		{"unprefixed error string", `{"error":["something broke"]}`, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := v.Validate(Envelope, []byte(tc.payload))
			if tc.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidateUnknownSchema(t *testing.T) {
	v, err := NewValidator()
	require.NoError(t, err)

	err = v.Validate("no_such_schema", []byte(`{}`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown schema")
}

func TestValidateMalformedPayload(t *testing.T) {
	v, err := NewValidator()
	require.NoError(t, err)

	err = v.Validate(ServerTime, []byte(`{not json`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decoding payload")
}
