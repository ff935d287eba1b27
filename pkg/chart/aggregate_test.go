package chart

import (
	"math"
	"testing"

	"github.com/matzehuels/turnout/pkg/dataset"
	"github.com/matzehuels/turnout/pkg/stats"
)

func exampleTable() *dataset.Table {
	return &dataset.Table{Records: []dataset.Record{
		{State: "A", Turnout: 0.40, Category: dataset.PhotoID},
		{State: "B", Turnout: 0.50, Category: dataset.PhotoID},
		{State: "C", Turnout: 0.30, Category: dataset.NonPhotoID},
		{State: "D", Turnout: 0.20, Category: dataset.NoID},
		{State: "E", Turnout: 0.60, Category: dataset.NoID},
	}}
}

func TestAggregate(t *testing.T) {
	want := map[dataset.Category]float64{
		dataset.PhotoID:    0.45,
		dataset.NonPhotoID: 0.30,
		dataset.NoID:       0.40,
	}

	for _, kind := range []Kind{KindMean, KindMedian} {
		t.Run(kind.String(), func(t *testing.T) {
			bars := Aggregate(exampleTable().Groups(), kind, stats.NewBootstrap())
			if len(bars) != 3 {
				t.Fatalf("Aggregate() returned %d bars, want 3", len(bars))
			}
			for _, b := range bars {
				if math.Abs(b.Value-want[b.Category]) > 1e-12 {
					t.Errorf("%s = %v, want %v", b.Category, b.Value, want[b.Category])
				}
				if !math.IsNaN(b.Low) || !math.IsNaN(b.High) {
					t.Errorf("%s has interval [%v, %v], want none", b.Category, b.Low, b.High)
				}
			}
		})
	}
}

func TestAggregateMedianDiffersFromMean(t *testing.T) {
	groups := []dataset.Group{{Category: dataset.NoID, Values: []float64{0.1, 0.2, 0.9}}}

	mean := Aggregate(groups, KindMean, stats.NewBootstrap())[0].Value
	median := Aggregate(groups, KindMedian, stats.NewBootstrap())[0].Value
	if math.Abs(mean-0.4) > 1e-12 || math.Abs(median-0.2) > 1e-12 {
		t.Errorf("mean = %v, median = %v, want 0.4 and 0.2", mean, median)
	}
}

func TestAggregateInterval(t *testing.T) {
	bars := Aggregate(exampleTable().Groups(), KindMeanCI, stats.NewBootstrap())
	for _, b := range bars {
		if math.IsNaN(b.Low) || math.IsNaN(b.High) {
			t.Fatalf("%s: missing interval", b.Category)
		}
		if b.Low > b.Value+1e-12 || b.High < b.Value-1e-12 {
			t.Errorf("%s: interval [%v, %v] excludes %v", b.Category, b.Low, b.High, b.Value)
		}
	}
	if bars[1].Category != dataset.NonPhotoID || bars[1].Low != bars[1].High {
		t.Errorf("single-state category should have a zero-width interval, got %+v", bars[1])
	}
}
