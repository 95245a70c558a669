package qrcode

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerator_PickupPNG(t *testing.T) {
	g := NewGenerator(256, "M")

	png, err := g.PickupPNG("E2R-7A8B9C2D", "SC-0011223344556677")
	require.NoError(t, err)
	assert.NotEmpty(t, png)

	// PNG magic number
	assert.Equal(t, byte(0x89), png[0])
	assert.Equal(t, byte(0x50), png[1])
	assert.Equal(t, byte(0x4E), png[2])
	assert.Equal(t, byte(0x47), png[3])
}

func TestGenerator_ErrorCorrectionLevels(t *testing.T) {
	for _, level := range []string{"L", "M", "Q", "H", "unknown"} {
		t.Run(level, func(t *testing.T) {
			g := NewGenerator(128, level)
			png, err := g.PickupPNG("E2R-00000001", "SC-1")
			require.NoError(t, err)
			assert.NotEmpty(t, png)
		})
	}
}

func TestParsePickup_RoundTrip(t *testing.T) {
	payload, err := json.Marshal(PickupPayload{
		UniqueCode: "E2R-7A8B9C2D",
		SecretCode: "SC-0011223344556677",
		Type:       "pickup",
	})
	require.NoError(t, err)

	parsed, err := ParsePickup(string(payload))
	require.NoError(t, err)
	assert.Equal(t, "E2R-7A8B9C2D", parsed.UniqueCode)
	assert.Equal(t, "SC-0011223344556677", parsed.SecretCode)
}

func TestParsePickup_Invalid(t *testing.T) {
	_, err := ParsePickup("not json")
	assert.Error(t, err)

	_, err = ParsePickup(`{"unique_code":"x","type":"subscription"}`)
	assert.Error(t, err)
}
