// Package tableview holds the presentation state for the resource grid:
// free-text search, categorical filters, column sort, fixed-size paging,
// and per-row expansion backed by a detail cache.
package tableview

import (
	"context"
	"sort"
	"strings"

	"github.com/trialmatch/trialmatch/internal/domain/resource"
)

// PageSize is the fixed number of rows per page.
const PageSize = 10

// DetailFetcher loads the full record for one row on demand.
type DetailFetcher interface {
	FetchDetail(ctx context.Context, patientID, uid string) (*resource.EHRResource, error)
}

// RowStatus tracks the expansion lifecycle of a single row.
type RowStatus int

const (
	RowCollapsed RowStatus = iota
	RowLoading
	RowLoaded
	RowErrored
)

func (s RowStatus) String() string {
	switch s {
	case RowLoading:
		return "loading"
	case RowLoaded:
		return "loaded"
	case RowErrored:
		return "errored"
	default:
		return "collapsed"
	}
}

// Column names a sortable column.
type Column string

const (
	ColumnCreated Column = "createdTime"
	ColumnFetched Column = "fetchTime"
	ColumnState   Column = "state"
	ColumnType    Column = "resourceType"
	ColumnUID     Column = "uid"
)

type detailKey struct {
	patientID string
	uid       string
}

// View owns all grid state for one mounted table. It is created per
// session and discarded when the table unmounts. Not safe for concurrent
// use; the caller drives it from a single event loop.
type View struct {
	fetcher DetailFetcher

	rows        []*resource.EHRResource
	query       string
	stateFilter map[resource.ProcessingState]bool
	typeFilter  map[string]bool

	sortColumn Column
	sortAsc    bool
	page       int

	cache  map[detailKey]*resource.EHRResource
	status map[detailKey]RowStatus
	errs   map[detailKey]error
}

// New returns an empty view sorted newest-created-first.
func New(fetcher DetailFetcher) *View {
	return &View{
		fetcher:     fetcher,
		stateFilter: make(map[resource.ProcessingState]bool),
		typeFilter:  make(map[string]bool),
		sortColumn:  ColumnCreated,
		sortAsc:     false,
		cache:       make(map[detailKey]*resource.EHRResource),
		status:      make(map[detailKey]RowStatus),
		errs:        make(map[detailKey]error),
	}
}

// SetRows replaces the backing row set and resets paging. Expansion state
// and the detail cache survive a reload.
func (v *View) SetRows(rows []*resource.EHRResource) {
	v.rows = rows
	v.page = 0
}

// SetQuery sets the free-text filter. Matching is a case-insensitive
// substring test over resource type, body text, and summary.
func (v *View) SetQuery(q string) {
	v.query = strings.ToLower(strings.TrimSpace(q))
	v.page = 0
}

// ToggleState flips one processing state in the multi-select state filter.
func (v *View) ToggleState(s resource.ProcessingState) {
	if v.stateFilter[s] {
		delete(v.stateFilter, s)
	} else {
		v.stateFilter[s] = true
	}
	v.page = 0
}

// ToggleType flips one resource type in the multi-select type filter.
func (v *View) ToggleType(t string) {
	if v.typeFilter[t] {
		delete(v.typeFilter, t)
	} else {
		v.typeFilter[t] = true
	}
	v.page = 0
}

// SortBy sorts on the given column. Selecting the column already active
// flips the direction; selecting a new column sorts ascending, except the
// created column which starts descending (newest first).
func (v *View) SortBy(col Column) {
	if v.sortColumn == col {
		v.sortAsc = !v.sortAsc
		return
	}
	v.sortColumn = col
	v.sortAsc = col != ColumnCreated
	v.page = 0
}

// matches applies the text filter and both categorical filters. The
// categories combine with AND; values inside one category combine with OR.
func (v *View) matches(r *resource.EHRResource) bool {
	if len(v.stateFilter) > 0 && !v.stateFilter[r.Metadata.State] {
		return false
	}
	if len(v.typeFilter) > 0 && !v.typeFilter[r.Metadata.ResourceType] {
		return false
	}
	if v.query == "" {
		return true
	}
	if strings.Contains(strings.ToLower(r.Metadata.ResourceType), v.query) {
		return true
	}
	if strings.Contains(strings.ToLower(r.HumanReadableStr), v.query) {
		return true
	}
	if r.AISummary != nil && strings.Contains(strings.ToLower(*r.AISummary), v.query) {
		return true
	}
	return false
}

// FilteredRows returns every row passing the active filters, sorted.
func (v *View) FilteredRows() []*resource.EHRResource {
	out := make([]*resource.EHRResource, 0, len(v.rows))
	for _, r := range v.rows {
		if v.matches(r) {
			out = append(out, r)
		}
	}
	v.sortRows(out)
	return out
}

func (v *View) sortRows(rows []*resource.EHRResource) {
	less := func(a, b *resource.EHRResource) bool {
		switch v.sortColumn {
		case ColumnFetched:
			return a.Metadata.FetchTime.Before(b.Metadata.FetchTime)
		case ColumnState:
			return a.Metadata.State < b.Metadata.State
		case ColumnType:
			return a.Metadata.ResourceType < b.Metadata.ResourceType
		case ColumnUID:
			return a.Metadata.Identifier.UID < b.Metadata.Identifier.UID
		default:
			return a.Metadata.CreatedTime.Before(b.Metadata.CreatedTime)
		}
	}
	sort.SliceStable(rows, func(i, j int) bool {
		if v.sortAsc {
			return less(rows[i], rows[j])
		}
		return less(rows[j], rows[i])
	})
}

// VisibleRows returns the current page of the filtered, sorted row set.
func (v *View) VisibleRows() []*resource.EHRResource {
	filtered := v.FilteredRows()
	start := v.page * PageSize
	if start >= len(filtered) {
		return nil
	}
	end := start + PageSize
	if end > len(filtered) {
		end = len(filtered)
	}
	return filtered[start:end]
}

// Page returns the current page, 1-based for display.
func (v *View) Page() int { return v.page + 1 }

// TotalPages reports how many pages the filtered set spans.
func (v *View) TotalPages() int {
	n := len(v.FilteredRows())
	if n == 0 {
		return 1
	}
	return (n + PageSize - 1) / PageSize
}

// NextPage advances one page. Past the last page it is a no-op.
func (v *View) NextPage() {
	if v.page+1 < v.TotalPages() {
		v.page++
	}
}

// PrevPage goes back one page. On the first page it is a no-op.
func (v *View) PrevPage() {
	if v.page > 0 {
		v.page--
	}
}

// Expand opens a row. The first expand fetches the detail and caches it
// for the session; later expands are served from cache without a network
// call. A failed fetch leaves the row errored; expanding it again retries.
func (v *View) Expand(ctx context.Context, patientID, uid string) {
	key := detailKey{patientID: patientID, uid: uid}
	if _, ok := v.cache[key]; ok {
		v.status[key] = RowLoaded
		return
	}

	v.status[key] = RowLoading
	detail, err := v.fetcher.FetchDetail(ctx, patientID, uid)
	if err != nil {
		v.status[key] = RowErrored
		v.errs[key] = err
		return
	}
	v.cache[key] = detail
	v.status[key] = RowLoaded
	delete(v.errs, key)
}

// Collapse closes a row. The cached detail is kept.
func (v *View) Collapse(patientID, uid string) {
	v.status[detailKey{patientID: patientID, uid: uid}] = RowCollapsed
}

// Prefetch warms the detail cache for a row without changing its
// expansion state. Used on hover. Errors are ignored; the row will fetch
// again when actually expanded.
func (v *View) Prefetch(ctx context.Context, patientID, uid string) {
	key := detailKey{patientID: patientID, uid: uid}
	if _, ok := v.cache[key]; ok {
		return
	}
	detail, err := v.fetcher.FetchDetail(ctx, patientID, uid)
	if err != nil {
		return
	}
	v.cache[key] = detail
}

// Status reports the expansion state of a row.
func (v *View) Status(patientID, uid string) RowStatus {
	return v.status[detailKey{patientID: patientID, uid: uid}]
}

// Detail returns the cached detail for a row, or nil if not yet loaded.
func (v *View) Detail(patientID, uid string) *resource.EHRResource {
	return v.cache[detailKey{patientID: patientID, uid: uid}]
}

// Err returns the last fetch error for an errored row.
func (v *View) Err(patientID, uid string) error {
	return v.errs[detailKey{patientID: patientID, uid: uid}]
}
