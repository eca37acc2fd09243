package loader

import (
	"reflect"
	"testing"

	"roomcheck/internal/models"
)

func TestAdapt_Canonical(t *testing.T) {
	doc, err := ReadFile("testdata/calm_start.json")
	if err != nil {
		t.Fatalf("ReadFile failed: %v", err)
	}

	room := Adapt(doc)

	if room.ID != "calm_start" || room.Tier != "VIP1" {
		t.Errorf("id/tier = %q/%q", room.ID, room.Tier)
	}

	if room.Title.Vi != "Khởi đầu bình yên" {
		t.Errorf("Title.Vi = %q", room.Title.Vi)
	}

	if len(room.Entries) != 2 || room.Entries[1].Audio != "calm_start_02_en.mp3" {
		t.Fatalf("Entries = %+v", room.Entries)
	}

	if room.Content != nil {
		t.Errorf("Content = %+v, want nil", room.Content)
	}

	if room.Extra["legacy_rating"] != 4.5 {
		t.Errorf("Extra = %v, want legacy_rating kept", room.Extra)
	}
}

func TestAdapt_LegacyYAML(t *testing.T) {
	doc, err := ReadFile("testdata/legacy_focus.yaml")
	if err != nil {
		t.Fatalf("ReadFile failed: %v", err)
	}

	room := Adapt(doc)

	if room.ID != "legacy_focus" {
		t.Errorf("ID = %q, want legacy_focus", room.ID)
	}

	if room.Tier != "vip3" {
		t.Errorf("Tier = %q, want vip3", room.Tier)
	}

	if room.Title != (models.Bilingual{En: "Focus Basics", Vi: "Tập trung cơ bản"}) {
		t.Errorf("Title = %+v", room.Title)
	}

	if room.Content == nil || room.Content.Vi != "Một lời giới thiệu ngắn." {
		t.Errorf("Content = %+v, want intro", room.Content)
	}

	if len(room.Entries) != 2 {
		t.Fatalf("got %d entries, want 2", len(room.Entries))
	}

	first := room.Entries[0]
	if first.Slug != "Single_Task" {
		t.Errorf("Slug = %q", first.Slug)
	}

	if !reflect.DeepEqual(first.KeywordsEn, []string{"focus", "work", "attention"}) {
		t.Errorf("KeywordsEn = %v", first.KeywordsEn)
	}

	if !reflect.DeepEqual(first.Tags, []string{"focus", "work"}) {
		t.Errorf("Tags = %v", first.Tags)
	}

	if first.Audio != "legacy_focus_01_en.mp3" || first.Copy.Vi != "Làm một việc mỗi lần." {
		t.Errorf("entry = %+v", first)
	}

	second := room.Entries[1]
	if !reflect.DeepEqual(second.KeywordsVi, []string{"nghỉ", "giải lao", "năng lượng"}) {
		t.Errorf("KeywordsVi = %v", second.KeywordsVi)
	}
}

func TestAdapt_Variants(t *testing.T) {
	tests := []struct {
		name  string
		doc   Document
		check func(*testing.T, *models.Room)
	}{
		{
			name: "numeric zero tier is free",
			doc:  Document{"tier": 0.0},
			check: func(t *testing.T, r *models.Room) {
				if r.Tier != "free" {
					t.Errorf("Tier = %q, want free", r.Tier)
				}
			},
		},
		{
			name: "plain string title is english",
			doc:  Document{"title": "Hello"},
			check: func(t *testing.T, r *models.Room) {
				if r.Title != (models.Bilingual{En: "Hello"}) {
					t.Errorf("Title = %+v", r.Title)
				}
			},
		},
		{
			name: "non-object entries are skipped",
			doc:  Document{"entries": []any{"junk", map[string]any{"slug": "ok"}, 7.0}},
			check: func(t *testing.T, r *models.Room) {
				if len(r.Entries) != 1 || r.Entries[0].Slug != "ok" {
					t.Errorf("Entries = %+v", r.Entries)
				}
			},
		},
		{
			name: "unknown entry keys kept",
			doc:  Document{"entries": []any{map[string]any{"slug": "a", "duration_sec": 90.0}}},
			check: func(t *testing.T, r *models.Room) {
				if r.Entries[0].Extra["duration_sec"] != 90.0 {
					t.Errorf("Extra = %v", r.Entries[0].Extra)
				}
			},
		},
		{
			name: "disclaimer and footer",
			doc: Document{
				"safety_disclaimer": map[string]any{"en": "Be safe"},
				"crisis_footer":     map[string]any{"en": "Call", "vi": "Gọi"},
			},
			check: func(t *testing.T, r *models.Room) {
				if r.SafetyDisclaimer == nil || r.SafetyDisclaimer.En != "Be safe" || r.SafetyDisclaimer.Vi != "" {
					t.Errorf("SafetyDisclaimer = %+v", r.SafetyDisclaimer)
				}

				if r.CrisisFooter == nil || r.CrisisFooter.Vi != "Gọi" {
					t.Errorf("CrisisFooter = %+v", r.CrisisFooter)
				}
			},
		},
		{
			name: "empty document",
			doc:  Document{},
			check: func(t *testing.T, r *models.Room) {
				if r.ID != "" || r.Entries != nil || r.Extra != nil {
					t.Errorf("room = %+v, want zero", r)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.check(t, Adapt(tt.doc))
		})
	}
}

func TestToDocument_RoundTrip(t *testing.T) {
	room := &models.Room{
		ID:               "calm_start",
		Tier:             "vip5",
		Domain:           "sleep",
		Title:            models.Bilingual{En: "Calm", Vi: "Bình yên"},
		Content:          &models.Bilingual{En: "Intro.", Vi: "Giới thiệu."},
		SafetyDisclaimer: &models.Bilingual{En: "Not medical advice.", Vi: "Không phải lời khuyên y tế."},
		Keywords:         []string{"sleep"},
		Extra:            map[string]any{"legacy_rating": 4.5},
		Entries: []models.Entry{{
			Slug:       "breathe",
			Audio:      "calm_start_01_en.mp3",
			Copy:       models.Bilingual{En: "Breathe.", Vi: "Thở."},
			KeywordsEn: []string{"breath"},
			KeywordsVi: []string{"thở"},
			Tags:       []string{"sleep"},
			Extra:      map[string]any{"note": "draft"},
		}},
	}

	doc, err := ToDocument(room)
	if err != nil {
		t.Fatalf("ToDocument failed: %v", err)
	}

	if _, ok := doc["extra"]; ok {
		t.Error("extra key not flattened")
	}

	if doc["legacy_rating"] != 4.5 {
		t.Errorf("legacy_rating = %v", doc["legacy_rating"])
	}

	if got := Adapt(doc); !reflect.DeepEqual(got, room) {
		t.Errorf("Adapt(ToDocument(room)) =\n%+v\nwant\n%+v", got, room)
	}
}

func TestAdapt_UnreadAliasesKept(t *testing.T) {
	doc := Document{
		"id":          "calm_start",
		"room_id":     "old_calm",
		"tier":        "free",
		"access_tier": 3.0,
		"content":     map[string]any{"en": "Intro.", "vi": "Giới thiệu."},
		"intro":       "legacy intro",
		"entries":     []any{map[string]any{"slug": "breathe", "id": "legacy-7", "keywords_en": []any{"a"}, "keywords": "x, y"}},
		"items":       []any{"stale"},
	}

	room := Adapt(doc)

	if room.ID != "calm_start" || room.Tier != "free" || len(room.Entries) != 1 {
		t.Fatalf("room = %+v", room)
	}

	want := map[string]any{
		"room_id":     "old_calm",
		"access_tier": 3.0,
		"intro":       "legacy intro",
		"items":       []any{"stale"},
	}
	if !reflect.DeepEqual(room.Extra, want) {
		t.Errorf("Extra = %v, want %v", room.Extra, want)
	}

	entryWant := map[string]any{"id": "legacy-7", "keywords": "x, y"}
	if !reflect.DeepEqual(room.Entries[0].Extra, entryWant) {
		t.Errorf("entry Extra = %v, want %v", room.Entries[0].Extra, entryWant)
	}

	out, err := ToDocument(room)
	if err != nil {
		t.Fatal(err)
	}

	if out["access_tier"] != 3.0 || out["room_id"] != "old_calm" {
		t.Errorf("ToDocument dropped aliases: %v", out)
	}
}

func TestAdapt_ReadAliasesConsumed(t *testing.T) {
	doc, err := ReadFile("testdata/legacy_focus.yaml")
	if err != nil {
		t.Fatalf("ReadFile failed: %v", err)
	}

	room := Adapt(doc)

	if room.Extra != nil {
		t.Errorf("Extra = %v, want nil", room.Extra)
	}

	for i, e := range room.Entries {
		if e.Extra != nil {
			t.Errorf("entry %d Extra = %v, want nil", i, e.Extra)
		}
	}
}
