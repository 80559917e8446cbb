package dataset

// SemanticType is the analysis-facing type of a column.
type SemanticType int

const (
	Numeric SemanticType = iota
	Character
	Datetime
)

func (s SemanticType) String() string {
	switch s {
	case Numeric:
		return "numeric"
	case Character:
		return "character"
	case Datetime:
		return "datetime"
	default:
		return "unknown"
	}
}

// Letter is a one-byte code used to build type signatures.
func (s SemanticType) Letter() byte {
	switch s {
	case Numeric:
		return 'N'
	case Character:
		return 'C'
	default:
		return 'D'
	}
}

// Classify maps a column to its semantic type from its kind alone; cell
// contents are never inspected.
func Classify(c *Column) SemanticType {
	switch c.Kind() {
	case KindInt, KindFloat:
		return Numeric
	case KindDatetime:
		return Datetime
	default:
		return Character
	}
}

// ClassifyMany classifies the named columns.
func ClassifyMany(d *Dataset, names []string) (map[string]SemanticType, error) {
	out := make(map[string]SemanticType, len(names))
	for _, n := range names {
		c, err := d.Column(n)
		if err != nil {
			return nil, err
		}
		out[n] = Classify(c)
	}
	return out, nil
}

// NamesOf returns the dataset's columns of the given semantic type, in order.
func NamesOf(d *Dataset, t SemanticType) []string {
	var out []string
	for _, c := range d.cols {
		if Classify(c) == t {
			out = append(out, c.Name())
		}
	}
	return out
}
