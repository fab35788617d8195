package graphview

// State is the interactive view over one positioned projection: the current
// search term and the current highlight. The base graph is never modified;
// neither searching nor highlighting re-runs layout.
//
// State is not safe for concurrent use.
type State struct {
	base     Graph
	view     Graph
	search   string
	selected string
}

// NewState starts with no search and no highlight.
func NewState(base Graph) *State {
	s := &State{base: base}
	s.view = ClearHighlight(base)
	return s
}

// Base returns the unfiltered projection.
func (s *State) Base() Graph { return s.base }

// View returns the current filtered and highlighted graph.
func (s *State) View() Graph { return s.view }

// Term returns the current search term.
func (s *State) Term() string { return s.search }

// Selected returns the highlighted node id, or "".
func (s *State) Selected() string { return s.selected }

// Search filters the view and clears any highlight.
func (s *State) Search(term string) {
	s.search = term
	s.selected = ""
	s.view = Search(s.base, term)
}

// Highlight emphasizes id. An empty id clears. An id not in the current
// view is ignored and Highlight reports false.
func (s *State) Highlight(id string) bool {
	view, ok := Highlight(s.view, id, s.base.Edges)
	if !ok {
		return false
	}
	s.view, s.selected = view, id
	return true
}

// Toggle highlights id, or clears the highlight when id is already
// highlighted.
func (s *State) Toggle(id string) bool {
	if id != "" && id == s.selected {
		return s.Highlight("")
	}
	return s.Highlight(id)
}
