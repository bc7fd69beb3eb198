package directory

// Query is what a directory screen asks for.
type Query struct {
	Field FieldGroup
	Text  string
}

// Result is the filtered, searched and sorted list for one viewer, before
// paging.
type Result struct {
	AllowedView ViewMode
	Records     []Record
}

// Pipeline chains Filter, Match and Sort in that order.
type Pipeline struct {
	sorter *Sorter
}

func NewPipeline(sorter *Sorter) *Pipeline {
	if sorter == nil {
		sorter = NewSorter("en")
	}
	return &Pipeline{sorter: sorter}
}

func (p *Pipeline) Run(viewer *Record, all []Record, q Query) Result {
	vis := Filter(viewer, all)
	matched := Match(vis.Visible, q.Text, q.Field)
	return Result{
		AllowedView: vis.AllowedView,
		Records:     p.sorter.Sort(matched, q.Field),
	}
}
