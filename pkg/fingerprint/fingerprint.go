// Package fingerprint hashes room records and stamps them with the outcome of validation.
package fingerprint

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"roomcheck/internal/models"
)

// StampKey is the extra-field key a stamp is stored under.
const StampKey = "validation"

// Stamp verification errors.
var (
	ErrNoStamp      = errors.New("no validation stamp found")
	ErrNoHashFound  = errors.New("no hash found in stamp")
	ErrHashMismatch = errors.New("hash mismatch")
)

// Stamp records which version of a room was validated and how it fared.
type Stamp struct {
	ValidatedAt time.Time `json:"validated_at"`
	Strictness  string    `json:"strictness"`
	Hash        string    `json:"hash"`
	Valid       bool      `json:"valid"`
}

// Of returns the SHA-256 of the room's canonical JSON form. Any stamp is
// excluded, so signing a room does not change its fingerprint.
func Of(room *models.Room) (string, error) {
	clean := room.Clone()
	if clean == nil {
		clean = &models.Room{}
	}

	delete(clean.Extra, StampKey)

	if len(clean.Extra) == 0 {
		clean.Extra = nil
	}

	// encoding/json sorts map keys, which keeps Extra stable
	data, err := json.Marshal(clean)
	if err != nil {
		return "", fmt.Errorf("failed to encode room: %w", err)
	}

	hash := sha256.Sum256(data)

	return hex.EncodeToString(hash[:]), nil
}

// Sign returns a copy of room carrying a fresh stamp for report.
func Sign(room *models.Room, report models.Report, now time.Time) (*models.Room, error) {
	hash, err := Of(room)
	if err != nil {
		return nil, err
	}

	signed := room.Clone()
	if signed == nil {
		signed = &models.Room{}
	}

	if signed.Extra == nil {
		signed.Extra = map[string]any{}
	}

	signed.Extra[StampKey] = map[string]any{
		"validated_at": now.UTC().Format(time.RFC3339),
		"strictness":   report.Strictness,
		"hash":         hash,
		"valid":        report.Valid,
	}

	return signed, nil
}

// Extract reads the stamp stored on room, if any.
func Extract(room *models.Room) (*Stamp, bool) {
	if room == nil {
		return nil, false
	}

	raw, ok := room.Extra[StampKey].(map[string]any)
	if !ok {
		return nil, false
	}

	stamp := &Stamp{}
	stamp.Hash, _ = raw["hash"].(string)
	stamp.Strictness, _ = raw["strictness"].(string)
	stamp.Valid, _ = raw["valid"].(bool)

	if s, ok := raw["validated_at"].(string); ok {
		if t, err := time.Parse(time.RFC3339, s); err == nil {
			stamp.ValidatedAt = t
		}
	}

	return stamp, true
}

// Verify checks that room has not changed since it was stamped.
func Verify(room *models.Room) (*Stamp, error) {
	stamp, ok := Extract(room)
	if !ok {
		return nil, ErrNoStamp
	}

	if stamp.Hash == "" {
		return stamp, ErrNoHashFound
	}

	calculated, err := Of(room)
	if err != nil {
		return stamp, err
	}

	if calculated != stamp.Hash {
		return stamp, fmt.Errorf("%w: expected %s, got %s", ErrHashMismatch, stamp.Hash, calculated)
	}

	return stamp, nil
}
