package dataset

import (
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestParsePercent(t *testing.T) {
	tests := []struct {
		input string
		want  float64
	}{
		{"58.3%", 0.583},
		{"0%", 0},
		{"100%", 1},
		{" 36.4% ", 0.364},
		{"42.0 %", 0.42},
		{"47", 0.47},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParsePercent(tt.input)
			if err != nil {
				t.Fatalf("ParsePercent(%q) error: %v", tt.input, err)
			}
			if math.Abs(got-tt.want) > 1e-12 {
				t.Errorf("ParsePercent(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestParsePercentInvalid(t *testing.T) {
	for _, input := range []string{"", "%", "n/a", "58.3%%x", "--", "NaN%", "nan", "Inf%", "-Inf%", "+infinity", "1_0%", "1e400%"} {
		t.Run(input, func(t *testing.T) {
			if _, err := ParsePercent(input); err == nil {
				t.Errorf("ParsePercent(%q) should fail", input)
			}
		})
	}
}

func TestMapLaw(t *testing.T) {
	tests := []struct {
		code   string
		want   Category
		wantOK bool
	}{
		{"photo", PhotoID, true},
		{"nonphoto", NonPhotoID, true},
		{"", NoID, true},
		{"Photo", NoID, false},
		{"strict", NoID, false},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			got, ok := MapLaw(tt.code)
			if got != tt.want || ok != tt.wantOK {
				t.Errorf("MapLaw(%q) = (%q, %v), want (%q, %v)", tt.code, got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestJoin(t *testing.T) {
	turnout := []TurnoutRecord{
		{"Alabama", 0.332},
		{"Alaska", 0.548},
		{"Arizona", 0.341},
		{"Arkansas", 0.402},
	}
	laws := []LawRecord{
		{"Alabama", "photo"},
		{"Alaska", "nonphoto"},
		{"Arkansas", ""},
		{"Wyoming", "photo"},
	}

	got := Join(turnout, laws)
	want := []Record{
		{"Alabama", 0.332, PhotoID},
		{"Alaska", 0.548, NonPhotoID},
		{"Arizona", 0.341, NoID},
		{"Arkansas", 0.402, NoID},
	}
	if diff := cmp.Diff(want, got.Records); diff != "" {
		t.Errorf("Join() records mismatch (-want +got):\n%s", diff)
	}
	if len(got.Unrecognized) != 0 {
		t.Errorf("Unrecognized = %v, want none", got.Unrecognized)
	}
}

func TestJoinPreservesEveryTurnoutRow(t *testing.T) {
	turnout := []TurnoutRecord{{"A", 0.1}, {"B", 0.2}, {"C", 0.3}}

	for _, laws := range [][]LawRecord{
		nil,
		{{"A", "photo"}},
		{{"A", "photo"}, {"B", "nonphoto"}, {"C", ""}, {"D", "photo"}, {"E", "nonphoto"}},
	} {
		got := Join(turnout, laws)
		if got.Len() != len(turnout) {
			t.Errorf("Join() with %d law rows: %d records, want %d", len(laws), got.Len(), len(turnout))
		}
		for _, r := range got.Records {
			if !r.Category.Valid() {
				t.Errorf("record %q has invalid category %q", r.State, r.Category)
			}
		}
	}
}

func TestJoinExactStateMatch(t *testing.T) {
	turnout := []TurnoutRecord{{"New York", 0.29}}
	laws := []LawRecord{{"new york", "photo"}, {"New York ", "photo"}}

	got := Join(turnout, laws)
	if got.Records[0].Category != NoID {
		t.Errorf("category = %q, want %q (state keys are not normalized)", got.Records[0].Category, NoID)
	}
}

func TestJoinDuplicateLawLastWins(t *testing.T) {
	got := Join([]TurnoutRecord{{"Ohio", 0.36}}, []LawRecord{{"Ohio", "photo"}, {"Ohio", "nonphoto"}})
	if got.Records[0].Category != NonPhotoID {
		t.Errorf("category = %q, want %q", got.Records[0].Category, NonPhotoID)
	}
}

func TestJoinUnrecognizedCodes(t *testing.T) {
	turnout := []TurnoutRecord{{"A", 0.1}, {"B", 0.2}, {"C", 0.3}}
	laws := []LawRecord{{"A", "strict"}, {"B", "strict"}, {"C", "PHOTO"}}

	got := Join(turnout, laws)
	for _, r := range got.Records {
		if r.Category != NoID {
			t.Errorf("record %q category = %q, want %q", r.State, r.Category, NoID)
		}
	}
	if diff := cmp.Diff([]string{"strict", "PHOTO"}, got.Unrecognized); diff != "" {
		t.Errorf("Unrecognized mismatch (-want +got):\n%s", diff)
	}
}

func TestGroups(t *testing.T) {
	table := &Table{Records: []Record{
		{"A", 0.40, PhotoID},
		{"B", 0.20, NoID},
		{"C", 0.30, NonPhotoID},
		{"D", 0.50, PhotoID},
		{"E", 0.60, NoID},
	}}

	want := []Group{
		{Category: PhotoID, States: []string{"A", "D"}, Values: []float64{0.40, 0.50}},
		{Category: NoID, States: []string{"B", "E"}, Values: []float64{0.20, 0.60}},
		{Category: NonPhotoID, States: []string{"C"}, Values: []float64{0.30}},
	}
	got := table.Groups()
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Groups() mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"Photo ID", "No ID", "Non-Photo ID"}, Labels(got)); diff != "" {
		t.Errorf("Labels() mismatch (-want +got):\n%s", diff)
	}
}

func TestGroupsEmpty(t *testing.T) {
	if got := (&Table{}).Groups(); len(got) != 0 {
		t.Errorf("Groups() on empty table = %v, want none", got)
	}
}
