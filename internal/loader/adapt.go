package loader

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"roomcheck/internal/models"
)

// Keys always consumed at the room and entry level. Legacy aliases (room_id,
// access_tier, items, intro, an entry's id and untagged keywords) are consumed
// only when their value was the one read; anything else is kept in Extra.
var (
	roomKeys = map[string]struct{}{
		"id": {}, "tier": {}, "domain": {},
		"title": {}, "title_en": {}, "title_vi": {},
		"content": {}, "content_en": {}, "content_vi": {},
		"entries": {}, "keywords": {},
		"safety_disclaimer": {}, "crisis_footer": {},
	}
	entryKeys = map[string]struct{}{
		"slug": {}, "keywords_en": {}, "keywords_vi": {},
		"copy": {}, "copy_en": {}, "copy_vi": {}, "audio": {}, "tags": {},
	}
)

// Adapt converts a raw document in any of the historical shapes into the
// canonical room. It never fails: missing or mistyped values become zero
// values and are reported by validation.
//
// Accepted variants:
//   - id under "id" or "room_id"; tier under "tier" or "access_tier", as a
//     label or a number (0 is free, n is vip n)
//   - bilingual fields as {en, vi} objects, plain strings (taken as en), or
//     flattened "<field>_en"/"<field>_vi" keys; "intro" for content
//   - entries under "entries" or "items"; entry slug under "slug" or "id";
//     keywords as arrays, comma-separated strings or a {en, vi} object;
//     audio as a filename or a {en, vi} object of filenames
func Adapt(doc Document) *models.Room {
	used := map[string]struct{}{}

	id, idKey := firstString(doc, "id", "room_id")
	tier, tierKey := firstPresent(doc, "tier", "access_tier")
	entries, entriesKey := firstPresent(doc, "entries", "items")
	markUsed(used, idKey, tierKey, entriesKey)

	room := &models.Room{
		ID:     id,
		Tier:   tierValue(tier),
		Domain: asString(doc["domain"]),
		Title:  bilingualField(doc, "title"),
	}

	if content, ok := optionalBilingual(doc, "content"); ok {
		room.Content = content
	} else if intro, ok := doc["intro"]; ok {
		b := asBilingual(intro)
		room.Content = &b
		markUsed(used, "intro")
	}

	for _, raw := range asSlice(entries) {
		m, ok := raw.(map[string]any)
		if !ok {
			continue
		}

		room.Entries = append(room.Entries, adaptEntry(m))
	}

	room.Keywords = asStrings(doc["keywords"])

	if d, ok := doc["safety_disclaimer"]; ok && d != nil {
		b := asBilingual(d)
		room.SafetyDisclaimer = &b
	}

	if f, ok := doc["crisis_footer"]; ok && f != nil {
		b := asBilingual(f)
		room.CrisisFooter = &b
	}

	room.Extra = extra(doc, roomKeys, used)

	return room
}

func adaptEntry(m map[string]any) models.Entry {
	used := map[string]struct{}{}

	slug, slugKey := firstString(m, "slug", "id")
	markUsed(used, slugKey)

	e := models.Entry{
		Slug:  slug,
		Copy:  bilingualField(m, "copy"),
		Audio: audioValue(m["audio"]),
		Tags:  asStrings(m["tags"]),
	}

	e.KeywordsEn = asStrings(m["keywords_en"])
	e.KeywordsVi = asStrings(m["keywords_vi"])

	switch kw := m["keywords"].(type) {
	case map[string]any:
		if e.KeywordsEn == nil || e.KeywordsVi == nil {
			markUsed(used, "keywords")
		}

		if e.KeywordsEn == nil {
			e.KeywordsEn = asStrings(kw["en"])
		}

		if e.KeywordsVi == nil {
			e.KeywordsVi = asStrings(kw["vi"])
		}
	case []any, string:
		// untagged keyword lists predate the vi column and are english
		if e.KeywordsEn == nil {
			e.KeywordsEn = asStrings(kw)
			markUsed(used, "keywords")
		}
	}

	e.Extra = extra(m, entryKeys, used)

	return e
}

// bilingualField reads field as an object or string, falling back to the
// flattened field_en / field_vi keys.
func bilingualField(m map[string]any, field string) models.Bilingual {
	b := asBilingual(m[field])

	if b.En == "" {
		b.En = asString(m[field+"_en"])
	}

	if b.Vi == "" {
		b.Vi = asString(m[field+"_vi"])
	}

	return b
}

func optionalBilingual(m map[string]any, field string) (*models.Bilingual, bool) {
	_, obj := m[field]
	_, en := m[field+"_en"]
	_, vi := m[field+"_vi"]

	if !obj && !en && !vi {
		return nil, false
	}

	b := bilingualField(m, field)

	return &b, true
}

func asBilingual(v any) models.Bilingual {
	switch t := v.(type) {
	case map[string]any:
		return models.Bilingual{En: asString(t["en"]), Vi: asString(t["vi"])}
	case string:
		return models.Bilingual{En: t}
	default:
		return models.Bilingual{}
	}
}

func tierValue(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case int:
		return tierNumber(t)
	case float64:
		if t == float64(int(t)) {
			return tierNumber(int(t))
		}

		return strconv.FormatFloat(t, 'f', -1, 64)
	default:
		return ""
	}
}

func tierNumber(n int) string {
	if n == 0 {
		return "free"
	}

	return fmt.Sprintf("vip%d", n)
}

func audioValue(v any) string {
	if m, ok := v.(map[string]any); ok {
		if en := asString(m["en"]); en != "" {
			return en
		}

		return asString(m["vi"])
	}

	return asString(v)
}

// firstPresent returns the first non-nil value among keys and the key it was
// read from, or an empty key when none is set.
func firstPresent(m map[string]any, keys ...string) (any, string) {
	for _, k := range keys {
		if v, ok := m[k]; ok && v != nil {
			return v, k
		}
	}

	return nil, ""
}

func firstString(m map[string]any, keys ...string) (string, string) {
	for _, k := range keys {
		if s := asString(m[k]); s != "" {
			return s, k
		}
	}

	return "", ""
}

func markUsed(used map[string]struct{}, keys ...string) {
	for _, k := range keys {
		if k != "" {
			used[k] = struct{}{}
		}
	}
}

func asString(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case int:
		return strconv.Itoa(t)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	default:
		return ""
	}
}

func asSlice(v any) []any {
	s, _ := v.([]any)
	return s
}

// asStrings accepts a list of strings or a single comma-separated string.
func asStrings(v any) []string {
	switch t := v.(type) {
	case []any:
		out := make([]string, 0, len(t))

		for _, item := range t {
			if s := strings.TrimSpace(asString(item)); s != "" {
				out = append(out, s)
			}
		}

		return out
	case []string:
		return append([]string(nil), t...)
	case string:
		var out []string

		for _, part := range strings.Split(t, ",") {
			if s := strings.TrimSpace(part); s != "" {
				out = append(out, s)
			}
		}

		return out
	default:
		return nil
	}
}

func extra(m map[string]any, known, used map[string]struct{}) map[string]any {
	var out map[string]any

	for k, v := range m {
		if _, ok := known[k]; ok {
			continue
		}

		if _, ok := used[k]; ok {
			continue
		}

		if out == nil {
			out = make(map[string]any)
		}

		out[k] = v
	}

	return out
}

// ToDocument renders a room in the canonical document shape, with extra
// fields restored to the top level of the room or entry they came from.
// Adapt(ToDocument(r)) reproduces r.
func ToDocument(room *models.Room) (Document, error) {
	data, err := json.Marshal(room)
	if err != nil {
		return nil, fmt.Errorf("failed to encode room: %w", err)
	}

	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to decode room: %w", err)
	}

	flattenExtra(doc)

	for _, raw := range asSlice(doc["entries"]) {
		if m, ok := raw.(map[string]any); ok {
			flattenExtra(m)
		}
	}

	return doc, nil
}

func flattenExtra(m map[string]any) {
	ex, ok := m["extra"].(map[string]any)
	delete(m, "extra")

	if !ok {
		return
	}

	for k, v := range ex {
		if _, taken := m[k]; !taken {
			m[k] = v
		}
	}
}
