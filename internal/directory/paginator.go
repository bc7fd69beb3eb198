package directory

// DefaultPageSize is how many records one page reveals.
const DefaultPageSize = 5

// ViewKey identifies the upstream inputs a paginated list was built from.
// Binding a paginator to a different key resets it.
type ViewKey struct {
	ViewerID   uint
	Field      FieldGroup
	Query      string
	Generation uint64
}

// Paginator is a "load more" cursor. It is not safe for concurrent use.
type Paginator struct {
	pageSize int
	visible  int
	total    int
	key      ViewKey
	bound    bool
}

func NewPaginator(pageSize int) *Paginator {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	return &Paginator{pageSize: pageSize}
}

func (p *Paginator) PageSize() int {
	return p.pageSize
}

// Reset shows the first page again.
func (p *Paginator) Reset() {
	p.visible = min(p.pageSize, p.total)
}

// LoadMore reveals one more page, clamped to the list length.
func (p *Paginator) LoadMore() {
	p.visible = min(p.visible+p.pageSize, p.total)
}

// Bind attaches the paginator to a list of total records built from key.
// A different key or length than the last bind resets the cursor, so a
// cursor from an abandoned filter is never applied to a new list.
func (p *Paginator) Bind(key ViewKey, total int) {
	if total < 0 {
		total = 0
	}
	if p.bound && p.key == key && p.total == total {
		return
	}
	p.key = key
	p.total = total
	p.bound = true
	p.Reset()
}

// Visible is the number of records currently revealed.
func (p *Paginator) Visible() int {
	return p.visible
}

func (p *Paginator) Total() int {
	return p.total
}

func (p *Paginator) HasMore() bool {
	return p.visible < p.total
}

// Page returns the revealed prefix of records.
func (p *Paginator) Page(records []Record) []Record {
	n := min(p.visible, len(records))
	return records[:n:n]
}

// Paginate is the stateless form used by request handlers: the first
// pages pages of records. Any pages value is accepted; past the end it
// returns the whole list.
func Paginate(records []Record, pageSize, pages int) ([]Record, bool) {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	if pages < 1 {
		pages = 1
	}
	n := len(records)
	// pages*pageSize cannot overflow here since it is at most len(records).
	if pages <= n/pageSize {
		n = pages * pageSize
	}
	return records[:n:n], n < len(records)
}
