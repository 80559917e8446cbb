package clean

import "github.com/KaramelBytes/varsum/internal/dataset"

// EmptyReport tells a caller which columns hold blank strings.
type EmptyReport struct {
	HasEmpty bool     `json:"has_empty"`
	Columns  []string `json:"columns"`
}

// EmptyValueReport inspects the named columns for blank strings, so a caller
// can warn before Coerce removes those rows.
func EmptyValueReport(ds *dataset.Dataset, columns []string) (EmptyReport, error) {
	var rep EmptyReport
	for _, name := range columns {
		c, err := ds.Column(name)
		if err != nil {
			return EmptyReport{}, err
		}
		for i := 0; i < c.Len(); i++ {
			if c.IsEmpty(i) {
				rep.Columns = append(rep.Columns, name)
				break
			}
		}
	}
	rep.HasEmpty = len(rep.Columns) > 0
	return rep, nil
}
