// Package rules holds the declarative room rule catalog: patterns, bounds,
// vocabularies and the pure predicates built on them. Nothing here performs I/O.
package rules

import (
	"fmt"
	"regexp"
)

// Bounds is an inclusive [Min, Max] range.
type Bounds struct {
	Min int
	Max int
}

// Contains reports whether n lies within the bounds.
func (b Bounds) Contains(n int) bool {
	return n >= b.Min && n <= b.Max
}

// String renders the bounds as "min-max".
func (b Bounds) String() string {
	return fmt.Sprintf("%d-%d", b.Min, b.Max)
}

// Canonical tier ids.
const (
	TierFree  = "free"
	TierVIP1  = "vip1"
	TierVIP2  = "vip2"
	TierVIP3  = "vip3"
	TierVIP4  = "vip4"
	TierVIP5  = "vip5"
	TierVIP6  = "vip6"
	TierVIP7  = "vip7"
	TierVIP8  = "vip8"
	TierVIP9  = "vip9"
	TierKids1 = "kids_1"
	TierKids2 = "kids_2"
	TierKids3 = "kids_3"
)

// AggregateSlug marks the synthesized trailing entry that concatenates all other entries.
const AggregateSlug = "all-entries"

var (
	idPattern    = regexp.MustCompile(`^[a-z0-9]+(_[a-z0-9]+)*$`)
	slugPattern  = regexp.MustCompile(`^[a-z0-9]+(-[a-z0-9]+)*$`)
	audioPattern = regexp.MustCompile(`^[a-z0-9]+(_[a-z0-9]+)*_(\d{2})_(en|vi)\.mp3$`)
)

// Bounds used by the structural and soft rules.
var (
	EntryCount      = Bounds{Min: 2, Max: 8}
	KeywordCount    = Bounds{Min: 3, Max: 5}
	EntryWordCount  = Bounds{Min: 50, Max: 150}
	IntroWordCount  = Bounds{Min: 80, Max: 300}
	TagCount        = Bounds{Min: 1, Max: 4}
	AudioLanguages  = []string{"en", "vi"}
	IDPatternText   = idPattern.String()
	SlugPatternText = slugPattern.String()
)

// Tiers lists the canonical tier ids in display order.
var Tiers = []string{
	TierFree,
	TierVIP1, TierVIP2, TierVIP3, TierVIP4, TierVIP5, TierVIP6, TierVIP7, TierVIP8, TierVIP9,
	TierKids1, TierKids2, TierKids3,
}

var tierSet = toSet(Tiers)

// tierAliases maps lower-cased legacy and display labels to canonical tier ids.
// The vipN and kids_N spellings are generated in init.
var tierAliases = map[string]string{
	"free":         TierFree,
	"free tier":    TierFree,
	"miễn phí":     TierFree,
	"mien phi":     TierFree,
	"basic":        TierFree,
	"kids":         TierKids1,
	"kids level 1": TierKids1,
	"kids level 2": TierKids2,
	"kids level 3": TierKids3,
}

func init() {
	for n := 1; n <= 9; n++ {
		canonical := fmt.Sprintf("vip%d", n)
		for _, label := range []string{"vip%d", "vip %d", "vip-%d", "vip_%d", "tier vip%d", "vip tier %d"} {
			tierAliases[fmt.Sprintf(label, n)] = canonical
		}
	}

	for n := 1; n <= 3; n++ {
		canonical := fmt.Sprintf("kids_%d", n)
		for _, label := range []string{"kids_%d", "kids%d", "kids %d", "kids-%d", "kids l%d"} {
			tierAliases[fmt.Sprintf(label, n)] = canonical
		}
	}
}

// disclaimerTiers require a safety disclaimer.
var disclaimerTiers = toSet([]string{TierVIP4, TierVIP5, TierVIP6, TierVIP7, TierVIP8, TierVIP9})

// Default safety disclaimer injected by auto-repair.
const (
	DefaultDisclaimerEn = "This content is for general wellbeing and educational purposes only. " +
		"It is not a substitute for professional medical or mental health advice. " +
		"If you are in crisis, contact local emergency services immediately."
	DefaultDisclaimerVi = "Nội dung này chỉ nhằm mục đích chăm sóc sức khỏe tinh thần và giáo dục chung. " +
		"Nội dung không thay thế cho tư vấn y tế hoặc sức khỏe tâm thần chuyên nghiệp. " +
		"Nếu bạn đang gặp khủng hoảng, hãy liên hệ ngay với dịch vụ cấp cứu tại địa phương."
)

// TagVocabulary is the closed set of allowed entry tags.
var TagVocabulary = []string{
	"anger",
	"anxiety",
	"confidence",
	"family",
	"focus",
	"gratitude",
	"grief",
	"health",
	"loneliness",
	"mindfulness",
	"motivation",
	"relationships",
	"resilience",
	"self-care",
	"sleep",
	"stress",
	"work",
}

var tagSet = toSet(TagVocabulary)

// CrisisBand is one severity band of crisis keywords.
type CrisisBand struct {
	Name            string
	Urgency         string
	SuggestedAction string
	Keywords        []string
	Severity        int
}

// Crisis bands, highest severity first.
var (
	CrisisHigh = CrisisBand{
		Name:            "high",
		Severity:        5,
		Urgency:         "immediate",
		SuggestedAction: "call emergency services",
		Keywords: []string{
			"suicide",
			"suicidal",
			"kill myself",
			"end my life",
			"take my own life",
			"want to die",
			"tự tử",
			"tự sát",
			"muốn chết",
			"kết liễu cuộc đời",
			"tự kết liễu",
		},
	}
	CrisisMedium = CrisisBand{
		Name:            "medium",
		Severity:        4,
		Urgency:         "high",
		SuggestedAction: "recommend professional help",
		Keywords: []string{
			"self-harm",
			"self harm",
			"hurt myself",
			"cutting myself",
			"hopeless",
			"no way out",
			"tự làm hại",
			"tự hại",
			"vô vọng",
			"tuyệt vọng",
		},
	}
	CrisisLow = CrisisBand{
		Name:            "low",
		Severity:        3,
		Urgency:         "medium",
		SuggestedAction: "consider professional support",
		Keywords: []string{
			"depressed",
			"panic attack",
			"can't cope",
			"worthless",
			"overwhelmed",
			"trầm cảm",
			"hoảng loạn",
			"vô dụng",
			"quá tải",
		},
	}
	CrisisBands = []CrisisBand{CrisisHigh, CrisisMedium, CrisisLow}
)

func toSet(items []string) map[string]struct{} {
	out := make(map[string]struct{}, len(items))
	for _, item := range items {
		out[item] = struct{}{}
	}

	return out
}
