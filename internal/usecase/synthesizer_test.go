package usecase

import (
	"reflect"
	"testing"

	"infoflow/internal/domain"
)

func TestSynthesizeRequiresItems(t *testing.T) {
	t.Parallel()

	synth := NewSynthesizer(0, nil)
	if _, err := synth.Synthesize(nil); err == nil {
		t.Fatal("expected error for empty input")
	} else if _, ok := err.(*domain.InsufficientDataError); !ok {
		t.Fatalf("expected InsufficientDataError, got %T", err)
	}
}

func TestSynthesizeSingleItem(t *testing.T) {
	t.Parallel()

	synth := NewSynthesizer(2, nil)
	result, err := synth.Synthesize([]domain.ScoredItem{
		{Item: domain.InformationItem{ID: "only", Tags: []string{"ai", "ml"}}, Relevance: 0.8, Priority: domain.PriorityHigh},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(result.Themes) != 1 {
		t.Fatalf("expected one theme, got %d", len(result.Themes))
	}
	if len(result.Contradictions) != 0 {
		t.Fatalf("single item cannot contradict itself, got %d", len(result.Contradictions))
	}
	if result.OverallPriority != domain.PriorityHigh {
		t.Fatalf("expected overall high, got %s", result.OverallPriority)
	}
	if !reflect.DeepEqual(result.ConsensusTags, []string{"ai", "ml"}) {
		t.Fatalf("single item's tags are the consensus, got %v", result.ConsensusTags)
	}
}

func TestSynthesizeGroupsByTagOverlap(t *testing.T) {
	t.Parallel()

	synth := NewSynthesizer(2, nil)
	items := []domain.ScoredItem{
		{Item: domain.InformationItem{ID: "a", Tags: []string{"ai", "ml"}}, Priority: domain.PriorityHigh},
		{Item: domain.InformationItem{ID: "b", Tags: []string{"ml", "research"}}, Priority: domain.PriorityMedium},
		{Item: domain.InformationItem{ID: "c", Tags: []string{"finance"}}, Priority: domain.PriorityLow},
	}

	result, err := synth.Synthesize(items)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(result.Themes) != 2 {
		t.Fatalf("expected two themes, got %+v", result.Themes)
	}
	if !reflect.DeepEqual(result.Themes[0].ItemIDs, []string{"a", "b"}) {
		t.Fatalf("transitive tag overlap must merge a and b, got %v", result.Themes[0].ItemIDs)
	}
	if !reflect.DeepEqual(result.Themes[0].Tags, []string{"ai", "ml", "research"}) {
		t.Fatalf("theme tags must union sorted, got %v", result.Themes[0].Tags)
	}
	if !reflect.DeepEqual(result.Themes[1].ItemIDs, []string{"c"}) {
		t.Fatalf("expected c alone, got %v", result.Themes[1].ItemIDs)
	}
}

func TestSynthesizeOrderIndependent(t *testing.T) {
	t.Parallel()

	synth := NewSynthesizer(2, nil)
	items := []domain.ScoredItem{
		{Item: domain.InformationItem{ID: "a", Tags: []string{"ai"}}, Priority: domain.PriorityCritical},
		{Item: domain.InformationItem{ID: "b", Tags: []string{"ai", "ml"}}, Priority: domain.PriorityMedium},
		{Item: domain.InformationItem{ID: "c", Tags: []string{"finance"}}, Priority: domain.PriorityMinimal},
		{Item: domain.InformationItem{ID: "d", Tags: []string{"health"}}, Priority: domain.PriorityLow},
	}
	reversed := make([]domain.ScoredItem, len(items))
	for i, item := range items {
		reversed[len(items)-1-i] = item
	}

	first, err := synth.Synthesize(items)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := synth.Synthesize(reversed)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("result depends on input order:\n%+v\n%+v", first, second)
	}
}

func TestSynthesizeContradictionsAcrossThemes(t *testing.T) {
	t.Parallel()

	synth := NewSynthesizer(2, nil)
	items := []domain.ScoredItem{
		{Item: domain.InformationItem{ID: "a", Tags: []string{"ai"}}, Priority: domain.PriorityCritical},
		{Item: domain.InformationItem{ID: "b", Tags: []string{"finance"}}, Priority: domain.PriorityLow},
		{Item: domain.InformationItem{ID: "c", Tags: []string{"health"}}, Priority: domain.PriorityHigh},
	}

	result, err := synth.Synthesize(items)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// critical(5) vs low(2) -> gap 3; high(4) vs low(2) -> gap 2; critical vs
	// high -> gap 1, below the threshold.
	if len(result.Contradictions) != 2 {
		t.Fatalf("expected two contradictions, got %+v", result.Contradictions)
	}
	got := result.Contradictions[0]
	if got.ItemA != "a" || got.ItemB != "b" {
		t.Fatalf("expected a vs b first, got %+v", got)
	}
}

func TestSynthesizeSameThemeNeverContradicts(t *testing.T) {
	t.Parallel()

	synth := NewSynthesizer(2, nil)
	items := []domain.ScoredItem{
		{Item: domain.InformationItem{ID: "a", Tags: []string{"ai"}}, Priority: domain.PriorityCritical},
		{Item: domain.InformationItem{ID: "b", Tags: []string{"ai"}}, Priority: domain.PriorityMinimal},
	}

	result, err := synth.Synthesize(items)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(result.Contradictions) != 0 {
		t.Fatalf("items sharing a theme must not contradict, got %+v", result.Contradictions)
	}
}

func TestSynthesizeConsensusIsStrictMajority(t *testing.T) {
	t.Parallel()

	synth := NewSynthesizer(2, nil)
	items := []domain.ScoredItem{
		{Item: domain.InformationItem{ID: "a", Tags: []string{"ai", "ml"}}, Priority: domain.PriorityMedium},
		{Item: domain.InformationItem{ID: "b", Tags: []string{"ai", "ml"}}, Priority: domain.PriorityMedium},
		{Item: domain.InformationItem{ID: "c", Tags: []string{"ai"}}, Priority: domain.PriorityMedium},
		{Item: domain.InformationItem{ID: "d", Tags: []string{"ml"}}, Priority: domain.PriorityMedium},
	}

	result, err := synth.Synthesize(items)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// ai on 3 of 4, ml on 3 of 4; both clear the strict majority of 2.
	if !reflect.DeepEqual(result.ConsensusTags, []string{"ai", "ml"}) {
		t.Fatalf("expected consensus [ai ml], got %v", result.ConsensusTags)
	}
}
