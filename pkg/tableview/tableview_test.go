package tableview

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/trialmatch/trialmatch/internal/domain/resource"
)

type fakeFetcher struct {
	calls   int
	failing bool
}

func (f *fakeFetcher) FetchDetail(_ context.Context, patientID, uid string) (*resource.EHRResource, error) {
	f.calls++
	if f.failing {
		return nil, errors.New("fetch failed")
	}
	return &resource.EHRResource{
		Metadata: resource.Metadata{
			Identifier: resource.Identifier{PatientID: patientID, UID: uid},
		},
		HumanReadableStr: "detail body",
	}, nil
}

func row(uid string, created time.Time, state resource.ProcessingState, resourceType, body string) *resource.EHRResource {
	r := &resource.EHRResource{
		Metadata: resource.Metadata{
			State:        state,
			CreatedTime:  created,
			FetchTime:    created.Add(time.Second),
			Identifier:   resource.Identifier{Key: "res_P001_" + uid, UID: uid, PatientID: "P001"},
			ResourceType: resourceType,
			Version:      resource.VersionR4,
		},
		HumanReadableStr: body,
	}
	if state == resource.StateCompleted {
		t := created.Add(2 * time.Second)
		r.Metadata.ProcessedTime = &t
		s := "Summary for " + uid
		r.AISummary = &s
	}
	return r
}

func sampleRows(n int) []*resource.EHRResource {
	base := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	states := []resource.ProcessingState{
		resource.StateCompleted, resource.StateProcessing,
		resource.StateFailed, resource.StateNotStarted,
	}
	types := resource.Types()
	rows := make([]*resource.EHRResource, 0, n)
	for i := 0; i < n; i++ {
		rows = append(rows, row(
			fmt.Sprintf("%04d", i+1),
			base.Add(time.Duration(i)*time.Hour),
			states[i%len(states)],
			types[i%len(types)],
			fmt.Sprintf("document body %d", i+1),
		))
	}
	return rows
}

func TestStateFilterShowsOnlyThatState(t *testing.T) {
	v := New(&fakeFetcher{})
	v.SetRows(sampleRows(16))

	for _, s := range resource.States() {
		v = New(&fakeFetcher{})
		v.SetRows(sampleRows(16))
		v.ToggleState(s)
		for _, r := range v.FilteredRows() {
			if r.Metadata.State != s {
				t.Errorf("filter %s: visible row has state %s", s, r.Metadata.State)
			}
		}
	}
}

func TestFilterCompositionCommutes(t *testing.T) {
	rows := sampleRows(20)

	a := New(&fakeFetcher{})
	a.SetRows(rows)
	a.SetQuery("document body 1")
	a.ToggleState(resource.StateCompleted)

	b := New(&fakeFetcher{})
	b.SetRows(rows)
	b.ToggleState(resource.StateCompleted)
	b.SetQuery("document body 1")

	ra, rb := a.FilteredRows(), b.FilteredRows()
	if len(ra) != len(rb) {
		t.Fatalf("filter order changed result: %d vs %d rows", len(ra), len(rb))
	}
	for i := range ra {
		if ra[i].Metadata.Identifier.UID != rb[i].Metadata.Identifier.UID {
			t.Errorf("row %d: %s vs %s", i, ra[i].Metadata.Identifier.UID, rb[i].Metadata.Identifier.UID)
		}
	}
	for _, r := range ra {
		if r.Metadata.State != resource.StateCompleted {
			t.Errorf("row %s has state %s", r.Metadata.Identifier.UID, r.Metadata.State)
		}
	}
}

func TestTextFilterMatchesSummary(t *testing.T) {
	v := New(&fakeFetcher{})
	v.SetRows(sampleRows(8))
	v.SetQuery("summary for 0001")

	rows := v.FilteredRows()
	if len(rows) != 1 {
		t.Fatalf("expected 1 row, got %d", len(rows))
	}
	if rows[0].Metadata.Identifier.UID != "0001" {
		t.Errorf("expected uid 0001, got %s", rows[0].Metadata.Identifier.UID)
	}
}

func TestDefaultSortNewestFirst(t *testing.T) {
	v := New(&fakeFetcher{})
	v.SetRows(sampleRows(12))

	rows := v.VisibleRows()
	for i := 1; i < len(rows); i++ {
		if rows[i].Metadata.CreatedTime.After(rows[i-1].Metadata.CreatedTime) {
			t.Fatalf("rows not in descending created order at index %d", i)
		}
	}
}

func TestSortToggleFlipsDirection(t *testing.T) {
	v := New(&fakeFetcher{})
	v.SetRows(sampleRows(5))

	v.SortBy(ColumnCreated)
	rows := v.VisibleRows()
	for i := 1; i < len(rows); i++ {
		if rows[i].Metadata.CreatedTime.Before(rows[i-1].Metadata.CreatedTime) {
			t.Fatalf("expected ascending order after toggle at index %d", i)
		}
	}
}

func TestPaginationBounds(t *testing.T) {
	v := New(&fakeFetcher{})
	v.SetRows(sampleRows(15))

	if got := len(v.VisibleRows()); got != PageSize {
		t.Fatalf("page 1: expected %d rows, got %d", PageSize, got)
	}
	v.NextPage()
	if got := len(v.VisibleRows()); got != 5 {
		t.Fatalf("page 2: expected 5 rows, got %d", got)
	}
	v.NextPage()
	if v.Page() != 2 {
		t.Fatalf("next past last page moved to page %d", v.Page())
	}
	v.PrevPage()
	v.PrevPage()
	if v.Page() != 1 {
		t.Fatalf("prev past first page moved to page %d", v.Page())
	}
}

func TestFilterResetsPage(t *testing.T) {
	v := New(&fakeFetcher{})
	v.SetRows(sampleRows(15))
	v.NextPage()

	v.ToggleType("LabReport")
	if v.Page() != 1 {
		t.Fatalf("expected filter change to reset to page 1, got %d", v.Page())
	}
}

func TestExpandTwiceFetchesOnce(t *testing.T) {
	f := &fakeFetcher{}
	v := New(f)
	ctx := context.Background()

	v.Expand(ctx, "P001", "0001")
	v.Collapse("P001", "0001")
	v.Expand(ctx, "P001", "0001")

	if f.calls != 1 {
		t.Fatalf("expected 1 fetch, got %d", f.calls)
	}
	if v.Status("P001", "0001") != RowLoaded {
		t.Fatalf("expected loaded, got %s", v.Status("P001", "0001"))
	}
	if v.Detail("P001", "0001") == nil {
		t.Fatal("expected cached detail")
	}
}

func TestCollapseKeepsCache(t *testing.T) {
	f := &fakeFetcher{}
	v := New(f)
	v.Expand(context.Background(), "P001", "0002")
	v.Collapse("P001", "0002")

	if v.Status("P001", "0002") != RowCollapsed {
		t.Fatalf("expected collapsed, got %s", v.Status("P001", "0002"))
	}
	if v.Detail("P001", "0002") == nil {
		t.Fatal("expected detail to survive collapse")
	}
}

func TestExpandFailureIsErrored(t *testing.T) {
	f := &fakeFetcher{failing: true}
	v := New(f)
	v.Expand(context.Background(), "P001", "0003")

	if v.Status("P001", "0003") != RowErrored {
		t.Fatalf("expected errored, got %s", v.Status("P001", "0003"))
	}
	if v.Err("P001", "0003") == nil {
		t.Fatal("expected a fetch error")
	}
	if v.Detail("P001", "0003") != nil {
		t.Fatal("errored row must not cache a detail")
	}
}

func TestPrefetchWarmsCacheWithoutExpanding(t *testing.T) {
	f := &fakeFetcher{}
	v := New(f)
	ctx := context.Background()

	v.Prefetch(ctx, "P001", "0004")
	if v.Status("P001", "0004") != RowCollapsed {
		t.Fatalf("prefetch must not expand, got %s", v.Status("P001", "0004"))
	}

	v.Expand(ctx, "P001", "0004")
	if f.calls != 1 {
		t.Fatalf("expected expand after prefetch to hit cache, got %d fetches", f.calls)
	}
}
