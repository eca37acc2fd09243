package fingerprint

import (
	"errors"
	"testing"
	"time"

	"roomcheck/internal/models"
)

func sampleRoom() *models.Room {
	return &models.Room{
		ID:    "calm_start",
		Tier:  "free",
		Title: models.Bilingual{En: "Calm Start", Vi: "Khởi đầu bình yên"},
		Entries: []models.Entry{
			{Slug: "breathe", Copy: models.Bilingual{En: "Breathe in.", Vi: "Hít vào."}},
		},
		Extra: map[string]any{"legacy_rating": 4.5, "author": "team"},
	}
}

func TestOf_Stable(t *testing.T) {
	a, err := Of(sampleRoom())
	if err != nil {
		t.Fatalf("Of failed: %v", err)
	}

	b, _ := Of(sampleRoom())
	if a != b {
		t.Errorf("fingerprint not stable: %s != %s", a, b)
	}

	if len(a) != 64 {
		t.Errorf("len = %d, want 64 hex chars", len(a))
	}

	changed := sampleRoom()
	changed.Entries[0].Copy.Vi = "Thở ra."

	c, _ := Of(changed)
	if c == a {
		t.Error("fingerprint did not change with content")
	}
}

func TestSignAndVerify(t *testing.T) {
	room := sampleRoom()
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	signed, err := Sign(room, models.Report{Strictness: models.StrictnessStrict, Valid: true}, now)
	if err != nil {
		t.Fatalf("Sign failed: %v", err)
	}

	if _, ok := room.Extra[StampKey]; ok {
		t.Error("Sign mutated its input")
	}

	stamp, err := Verify(signed)
	if err != nil {
		t.Fatalf("Verify failed: %v", err)
	}

	if !stamp.Valid || stamp.Strictness != models.StrictnessStrict || !stamp.ValidatedAt.Equal(now) {
		t.Errorf("stamp = %+v", stamp)
	}

	before, _ := Of(room)
	after, _ := Of(signed)

	if before != after {
		t.Error("stamp changed the fingerprint")
	}
}

func TestVerify_Errors(t *testing.T) {
	signed, _ := Sign(sampleRoom(), models.Report{}, time.Now())
	signed.Title.En = "Edited"

	tests := []struct {
		name string
		room *models.Room
		want error
	}{
		{"no stamp", sampleRoom(), ErrNoStamp},
		{"nil room", nil, ErrNoStamp},
		{"no hash", &models.Room{Extra: map[string]any{StampKey: map[string]any{"valid": true}}}, ErrNoHashFound},
		{"edited after signing", signed, ErrHashMismatch},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Verify(tt.room); !errors.Is(err, tt.want) {
				t.Errorf("Verify() error = %v, want %v", err, tt.want)
			}
		})
	}
}
