package reflection

// Rates is the lookup contract of the resolver: summed reflect fraction
// for a category and id, 0 when nothing is configured.
type Rates interface {
	Rate(cat Category, id int) float64
}

// Record is a structured reflect trait, equivalent to one note tag.
type Record struct {
	Category Category
	ID       int
	Percent  int
}

// Records implements Rates over structured traits.
type Records []Record

// Rate sums every record matching cat and id.
func (rs Records) Rate(cat Category, id int) float64 {
	var total float64
	for _, r := range rs {
		if r.Category == cat && r.ID == id {
			total += float64(r.Percent) / 100.0
		}
	}
	return total
}

// multiRates sums several sources.
type multiRates []Rates

func (m multiRates) Rate(cat Category, id int) float64 {
	var total float64
	for _, r := range m {
		total += r.Rate(cat, id)
	}
	return total
}

// Combine returns Rates summing all given sources.
func Combine(sources ...Rates) Rates {
	return multiRates(sources)
}
