// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package notify

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/Divyansh7131/Rakshak/internal/domain/alert/model"
	"golang.org/x/text/unicode/norm"
)

const mapsSearchURL = "https://www.google.com/maps/search/?api=1&query="

// FormatMessage renders the SOS text sent to contacts.
func FormatMessage(message string, pos model.Position) string {
	message = strings.TrimSpace(norm.NFC.String(message))
	if message == "" {
		message = model.DefaultMessage
	}
	return fmt.Sprintf("🚨 SOS Alert! %s Location: %s", message, MapsLink(pos))
}

// MapsLink returns a maps search URL for pos.
func MapsLink(pos model.Position) string {
	return mapsSearchURL +
		strconv.FormatFloat(pos.Latitude, 'f', -1, 64) + "," +
		strconv.FormatFloat(pos.Longitude, 'f', -1, 64)
}
