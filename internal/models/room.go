// Package models defines the data structures shared by the room validation pipeline.
package models

import "strings"

// Bilingual holds the English and Vietnamese variants of one piece of text.
type Bilingual struct {
	En string `json:"en"`
	Vi string `json:"vi"`
}

// IsEmpty reports whether both languages are blank.
func (b Bilingual) IsEmpty() bool {
	return isBlank(b.En) && isBlank(b.Vi)
}

// Room is one bilingual content unit gated by tier.
type Room struct {
	Extra            map[string]any `json:"extra,omitempty"`
	Content          *Bilingual     `json:"content,omitempty"`
	SafetyDisclaimer *Bilingual     `json:"safety_disclaimer,omitempty"`
	CrisisFooter     *Bilingual     `json:"crisis_footer,omitempty"`
	ID               string         `json:"id"`
	Tier             string         `json:"tier"`
	Domain           string         `json:"domain,omitempty"`
	Title            Bilingual      `json:"title"`
	Entries          []Entry        `json:"entries"`
	Keywords         []string       `json:"keywords,omitempty"`
}

// Entry is one addressable sub-unit of a room.
type Entry struct {
	Extra      map[string]any `json:"extra,omitempty"`
	Slug       string         `json:"slug"`
	Audio      string         `json:"audio"`
	Copy       Bilingual      `json:"copy"`
	KeywordsEn []string       `json:"keywords_en"`
	KeywordsVi []string       `json:"keywords_vi"`
	Tags       []string       `json:"tags"`
}

// Clone returns a deep copy of the room. Nothing in the copy aliases r.
func (r *Room) Clone() *Room {
	if r == nil {
		return nil
	}

	out := &Room{
		ID:       r.ID,
		Tier:     r.Tier,
		Domain:   r.Domain,
		Title:    r.Title,
		Keywords: cloneStrings(r.Keywords),
		Extra:    cloneMap(r.Extra),
	}

	out.Content = cloneBilingual(r.Content)
	out.SafetyDisclaimer = cloneBilingual(r.SafetyDisclaimer)
	out.CrisisFooter = cloneBilingual(r.CrisisFooter)

	if r.Entries != nil {
		out.Entries = make([]Entry, len(r.Entries))
		for i := range r.Entries {
			out.Entries[i] = r.Entries[i].Clone()
		}
	}

	return out
}

// Clone returns a deep copy of the entry.
func (e Entry) Clone() Entry {
	return Entry{
		Slug:       e.Slug,
		Audio:      e.Audio,
		Copy:       e.Copy,
		KeywordsEn: cloneStrings(e.KeywordsEn),
		KeywordsVi: cloneStrings(e.KeywordsVi),
		Tags:       cloneStrings(e.Tags),
		Extra:      cloneMap(e.Extra),
	}
}

func cloneBilingual(b *Bilingual) *Bilingual {
	if b == nil {
		return nil
	}

	c := *b

	return &c
}

func cloneStrings(in []string) []string {
	if in == nil {
		return nil
	}

	out := make([]string, len(in))
	copy(out, in)

	return out
}

func cloneMap(in map[string]any) map[string]any {
	if in == nil {
		return nil
	}

	out := make(map[string]any, len(in))
	for k, v := range in {
		out[k] = cloneValue(v)
	}

	return out
}

// cloneValue copies the JSON-like values produced by encoding/json and yaml.v3 decoding.
func cloneValue(v any) any {
	switch t := v.(type) {
	case map[string]any:
		return cloneMap(t)
	case []any:
		out := make([]any, len(t))
		for i := range t {
			out[i] = cloneValue(t[i])
		}

		return out
	case []string:
		return cloneStrings(t)
	default:
		return v
	}
}

func isBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}
