package market

import "sync"

// Selection is the active {symbol, range, interval} tuple. Exactly one
// selection is live at a time; mutating it is the sole trigger for a refresh.
type Selection struct {
	Symbol   string `json:"symbol"`
	Range    string `json:"range"`
	Interval string `json:"interval"`
}

// selectionState guards the live tuple. It does not compare old and new
// values: suppressing redundant refreshes is the in-flight guard's job,
// not this layer's.
type selectionState struct {
	mu  sync.Mutex
	cur Selection
}

func newSelectionState(initial Selection) *selectionState {
	return &selectionState{cur: initial}
}

func (s *selectionState) Current() Selection {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cur
}

func (s *selectionState) SetSymbol(symbol string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cur.Symbol = symbol
}

func (s *selectionState) SetRange(rng, interval string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cur.Range = rng
	s.cur.Interval = interval
}
