package crisis

import (
	"reflect"
	"testing"

	"golang.org/x/text/unicode/norm"

	"roomcheck/internal/models"
	"roomcheck/internal/rules"
)

func TestScanText_EndMyLife(t *testing.T) {
	flags := NewDetector().ScanText("entries[0].copy.en", "I want to end my life")

	if len(flags) != 1 {
		t.Fatalf("got %d flags, want 1: %+v", len(flags), flags)
	}

	f := flags[0]
	if f.Severity != 5 || f.Urgency != "immediate" || f.SuggestedAction != "call emergency services" {
		t.Errorf("flag = %+v, want severity 5 / immediate / call emergency services", f)
	}

	if !reflect.DeepEqual(f.Matched, []string{"end my life"}) {
		t.Errorf("Matched = %v, want [end my life]", f.Matched)
	}
}

func TestScanText_Bands(t *testing.T) {
	tests := []struct {
		name         string
		text         string
		wantSeverity []int
	}{
		{"clean", "Take a slow breath and notice your feet on the floor.", nil},
		{"empty", "   ", nil},
		{"medium", "Some days feel hopeless.", []int{4}},
		{"low", "I feel overwhelmed at work.", []int{3}},
		{"case insensitive", "SUICIDE prevention matters", []int{5}},
		{"vietnamese high", "Tôi muốn chết", []int{5}},
		{"vietnamese low uppercase", "TRẦM CẢM là một bệnh", []int{3}},
		{"all three bands", "Feeling hopeless and overwhelmed, I thought about suicide.", []int{5, 4, 3}},
	}

	d := NewDetector()

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			flags := d.ScanText("content.en", tt.text)

			var got []int
			for _, f := range flags {
				got = append(got, f.Severity)
			}

			if !reflect.DeepEqual(got, tt.wantSeverity) {
				t.Errorf("severities = %v, want %v", got, tt.wantSeverity)
			}
		})
	}
}

func TestScan_RoomFields(t *testing.T) {
	room := &models.Room{
		Content: &models.Bilingual{En: "Welcome.", Vi: "Tôi cảm thấy tuyệt vọng."},
		Entries: []models.Entry{
			{Copy: models.Bilingual{En: "Rest well."}},
			{Copy: models.Bilingual{En: "I want to die", Vi: "Tôi muốn chết"}},
		},
	}

	flags := NewDetector().Scan(room)

	var paths []string
	for _, f := range flags {
		paths = append(paths, f.Field)
	}

	want := []string{"content.vi", "entries[1].copy.en", "entries[1].copy.vi"}
	if !reflect.DeepEqual(paths, want) {
		t.Errorf("flagged fields = %v, want %v", paths, want)
	}

	report := models.Report{CrisisFlags: flags}
	if report.MaxCrisisSeverity() != 5 {
		t.Errorf("MaxCrisisSeverity = %d, want 5", report.MaxCrisisSeverity())
	}
}

func TestScan_HighKeywordRecall(t *testing.T) {
	d := NewDetector()

	for _, kw := range rules.CrisisHigh.Keywords {
		flags := d.ScanText("f", "prefix "+kw+" suffix")

		found := false
		for _, f := range flags {
			if f.Severity == 5 {
				found = true
			}
		}

		if !found {
			t.Errorf("keyword %q did not raise a severity-5 flag", kw)
		}
	}
}

func TestScan_NilRoom(t *testing.T) {
	if flags := NewDetector().Scan(nil); len(flags) != 0 {
		t.Errorf("Scan(nil) = %v, want no flags", flags)
	}
}

func TestNewDetectorWithBands(t *testing.T) {
	d := NewDetectorWithBands([]rules.CrisisBand{{Name: "custom", Severity: 2, Keywords: []string{"STORM"}}})

	flags := d.ScanText("f", "a storm is coming")
	if len(flags) != 1 || flags[0].Severity != 2 {
		t.Errorf("flags = %+v, want one severity-2 flag", flags)
	}
}

func TestScanText_DecomposedVietnamese(t *testing.T) {
	d := NewDetector()

	for _, text := range []string{"Tôi muốn tự tử", norm.NFD.String("Tôi muốn tự tử")} {
		flags := d.ScanText("content.vi", text)

		if len(flags) != 1 || flags[0].Severity != 5 {
			t.Errorf("ScanText(%q) = %+v, want one severity 5 flag", []byte(text), flags)
			continue
		}

		if !reflect.DeepEqual(flags[0].Matched, []string{"tự tử"}) {
			t.Errorf("Matched = %v, want [tự tử]", flags[0].Matched)
		}
	}
}

func TestNewDetectorWithBands_DecomposedKeywords(t *testing.T) {
	d := NewDetectorWithBands([]rules.CrisisBand{{
		Severity: 4,
		Urgency:  "high",
		Keywords: []string{norm.NFD.String("tuyệt vọng")},
	}})

	if flags := d.ScanText("content.vi", "Tôi thấy tuyệt vọng"); len(flags) != 1 {
		t.Errorf("got %d flags, want 1", len(flags))
	}
}
