package qrcode

import (
	"encoding/json"
	"fmt"

	"github.com/skip2/go-qrcode"
)

// Generator renders pickup QR codes for recycling requests.
type Generator struct {
	size  int
	level qrcode.RecoveryLevel
}

// PickupPayload is the machine-readable content embedded in a pickup QR.
type PickupPayload struct {
	UniqueCode string `json:"unique_code"`
	SecretCode string `json:"secret_code"`
	Type       string `json:"type"`
}

const payloadType = "pickup"

// NewGenerator creates a Generator. Size is the PNG edge length in pixels;
// errorCorrectionLevel is one of L, M, Q, H (default M).
func NewGenerator(size int, errorCorrectionLevel string) *Generator {
	var level qrcode.RecoveryLevel
	switch errorCorrectionLevel {
	case "L":
		level = qrcode.Low
	case "M":
		level = qrcode.Medium
	case "Q":
		level = qrcode.High
	case "H":
		level = qrcode.Highest
	default:
		level = qrcode.Medium
	}

	return &Generator{size: size, level: level}
}

// PickupPNG renders the pickup payload for a request as a PNG image.
func (g *Generator) PickupPNG(uniqueCode, secretCode string) ([]byte, error) {
	payload, err := json.Marshal(PickupPayload{
		UniqueCode: uniqueCode,
		SecretCode: secretCode,
		Type:       payloadType,
	})
	if err != nil {
		return nil, fmt.Errorf("marshal pickup payload: %w", err)
	}

	code, err := qrcode.New(string(payload), g.level)
	if err != nil {
		return nil, fmt.Errorf("create qr code: %w", err)
	}

	png, err := code.PNG(g.size)
	if err != nil {
		return nil, fmt.Errorf("render png: %w", err)
	}
	return png, nil
}

// ParsePickup decodes a scanned pickup payload back into its codes.
func ParsePickup(data string) (*PickupPayload, error) {
	var payload PickupPayload
	if err := json.Unmarshal([]byte(data), &payload); err != nil {
		return nil, fmt.Errorf("unmarshal pickup payload: %w", err)
	}
	if payload.Type != payloadType {
		return nil, fmt.Errorf("invalid payload type: %s", payload.Type)
	}
	return &payload, nil
}
