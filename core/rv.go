package core

import "fmt"

// RV is a discrete random variable: a unique name, a finite cardinality, an
// optional ordered label list (bijective with indices 0..card-1), and the
// list of Factors attached to it in attachment order.
type RV struct {
	name    string
	card    int
	labels  []string       // empty, or exactly card entries
	labelIx map[string]int // label → index; nil when unlabeled
	factors []*Factor      // attachment order; each instance at most once
}

// RVOption configures an RV at creation.
type RVOption func(*rvConfig)

type rvConfig struct {
	labels []string
}

// WithLabels supplies the ordered value labels for the RV. The list must be
// exactly as long as the cardinality and free of duplicates.
func WithLabels(labels ...string) RVOption {
	return func(c *rvConfig) { c.labels = labels }
}

// NewRV creates a random variable with the given name and cardinality.
// Returns ErrEmptyName, ErrBadCardinality, ErrLabelCount, or
// ErrDuplicateLabel on invalid input.
// Complexity: O(card) when labeled, O(1) otherwise.
func NewRV(name string, card int, opts ...RVOption) (*RV, error) {
	if name == "" {
		return nil, ErrEmptyName
	}
	if card <= 0 {
		return nil, fmt.Errorf("rv %q: got %d: %w", name, card, ErrBadCardinality)
	}
	var cfg rvConfig
	for _, opt := range opts {
		opt(&cfg)
	}
	if len(cfg.labels) != 0 && len(cfg.labels) != card {
		return nil, fmt.Errorf("rv %q: %d labels for cardinality %d: %w",
			name, len(cfg.labels), card, ErrLabelCount)
	}

	rv := &RV{name: name, card: card}
	if len(cfg.labels) > 0 {
		rv.labels = append([]string(nil), cfg.labels...)
		rv.labelIx = make(map[string]int, card)
		for i, l := range rv.labels {
			if _, seen := rv.labelIx[l]; seen {
				return nil, fmt.Errorf("rv %q: label %q: %w", name, l, ErrDuplicateLabel)
			}
			rv.labelIx[l] = i
		}
	}

	return rv, nil
}

// Name returns the RV's unique name.
func (rv *RV) Name() string {
	return rv.name
}

// Card returns the number of distinct values the RV can take.
func (rv *RV) Card() int {
	return rv.card
}

// Labels returns a copy of the ordered label list, or nil when unlabeled.
func (rv *RV) Labels() []string {
	if rv.labels == nil {
		return nil
	}

	return append([]string(nil), rv.labels...)
}

// Degree returns the number of Factors attached to this RV.
func (rv *RV) Degree() int {
	return len(rv.factors)
}

// Factors returns the attached Factors in attachment order (copied slice).
func (rv *RV) Factors() []*Factor {
	return append([]*Factor(nil), rv.factors...)
}

// Resolve maps a Value to its canonical integer index for this RV:
// bounds-checks an index, or looks up a label when the RV is labeled.
// Returns an error wrapping ErrInvalidAssignment otherwise.
// Complexity: O(1).
func (rv *RV) Resolve(v Value) (int, error) {
	if v.byLabel {
		if rv.labelIx == nil {
			return 0, fmt.Errorf("rv %q is unlabeled, got label %q: %w",
				rv.name, v.label, ErrInvalidAssignment)
		}
		i, ok := rv.labelIx[v.label]
		if !ok {
			return 0, fmt.Errorf("rv %q has no label %q: %w",
				rv.name, v.label, ErrInvalidAssignment)
		}

		return i, nil
	}
	if v.index < 0 || v.index >= rv.card {
		return 0, fmt.Errorf("rv %q: index %d outside 0..%d: %w",
			rv.name, v.index, rv.card-1, ErrInvalidAssignment)
	}

	return v.index, nil
}

// String implements fmt.Stringer.
func (rv *RV) String() string {
	return rv.name
}

// attach registers f on the RV side of the edge. Called only by
// Factor.Attach, which registers the Factor side; calling it directly would
// leave the edge half-registered.
func (rv *RV) attach(f *Factor) error {
	for _, existing := range rv.factors {
		// instance identity: the same Factor may be attached at most once
		if existing == f {
			return fmt.Errorf("factor %s to rv %q: %w", f, rv.name, ErrAlreadyAttached)
		}
	}
	rv.factors = append(rv.factors, f)

	return nil
}
