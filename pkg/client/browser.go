package client

import (
	"context"
	"sync"

	"github.com/ikkim/member-directory/internal/directory"
	"github.com/ikkim/member-directory/pkg/logger"
)

// Browser is one open directory screen. It keeps the last member snapshot
// and recomputes the visible list locally when the search changes.
type Browser struct {
	session  *Session
	pipeline *directory.Pipeline
	tracker  Tracker

	ctx    context.Context
	cancel context.CancelFunc

	mu        sync.Mutex
	snapshot  []directory.Record
	snapGen   uint64
	query     directory.Query
	result    directory.Result
	paginator *directory.Paginator
}

func NewBrowser(session *Session, pageSize int) *Browser {
	ctx, cancel := context.WithCancel(context.Background())
	return &Browser{
		session:   session,
		pipeline:  directory.NewPipeline(nil),
		ctx:       ctx,
		cancel:    cancel,
		query:     directory.Query{Field: directory.FieldNone},
		paginator: directory.NewPaginator(pageSize),
	}
}

// Refresh re-fetches the member list. Only the newest of overlapping
// refreshes is applied; older ones return ErrStaleResponse.
func (b *Browser) Refresh(ctx context.Context) error {
	if err := b.ctx.Err(); err != nil {
		return err
	}
	gen := b.tracker.Begin()

	reqCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	stop := context.AfterFunc(b.ctx, cancel)
	defer stop()

	records, err := b.session.Client().Members(reqCtx)
	if !b.tracker.Current(gen) {
		logger.Debug("Discarding stale member list", map[string]interface{}{
			"generation": gen,
		})
		return ErrStaleResponse
	}
	if err != nil {
		return err
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	if !b.tracker.Current(gen) {
		return ErrStaleResponse
	}
	b.snapshot = records
	b.snapGen = gen
	b.recompute()
	return nil
}

// SetSearch changes the search field and text. The paginator starts over
// because the view key changes.
func (b *Browser) SetSearch(field directory.FieldGroup, text string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.query = directory.Query{Field: field, Text: text}
	b.recompute()
}

func (b *Browser) recompute() {
	viewer := b.session.Viewer()
	b.result = b.pipeline.Run(viewer, b.snapshot, b.query)

	var viewerID uint
	if viewer != nil {
		viewerID = viewer.ID
	}
	b.paginator.Bind(directory.ViewKey{
		ViewerID:   viewerID,
		Field:      b.query.Field,
		Query:      b.query.Text,
		Generation: b.snapGen,
	}, len(b.result.Records))
}

func (b *Browser) LoadMore() {
	b.mu.Lock()
	b.paginator.LoadMore()
	b.mu.Unlock()
}

// Visible returns the revealed records.
func (b *Browser) Visible() []directory.Record {
	b.mu.Lock()
	defer b.mu.Unlock()
	page := b.paginator.Page(b.result.Records)
	out := make([]directory.Record, len(page))
	copy(out, page)
	return out
}

func (b *Browser) HasMore() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.paginator.HasMore()
}

func (b *Browser) Total() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.paginator.Total()
}

func (b *Browser) AllowedView() directory.ViewMode {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.result.AllowedView
}

// Close cancels in-flight refreshes. Their results are discarded.
func (b *Browser) Close() {
	b.tracker.Invalidate()
	b.cancel()
}
