package domain

// AgeBin is one label in the fixed set of age ranges customers fall into.
// Max is inclusive; -1 marks the open-ended top bin.
type AgeBin struct {
	Label string
	Min   int
	Max   int
}

// AgeBins enumerates every bin in ascending order. The set is closed and
// total: every non-negative age maps to exactly one bin.
var AgeBins = []AgeBin{
	{Label: "0-17", Min: 0, Max: 17},
	{Label: "18-25", Min: 18, Max: 25},
	{Label: "26-35", Min: 26, Max: 35},
	{Label: "36-45", Min: 36, Max: 45},
	{Label: "46-55", Min: 46, Max: 55},
	{Label: "56-65", Min: 56, Max: 65},
	{Label: "66+", Min: 66, Max: -1},
}

// Contains reports whether age falls inside the bin.
func (b AgeBin) Contains(age int) bool {
	if age < b.Min {
		return false
	}
	return b.Max < 0 || age <= b.Max
}

// AgeBinFor returns the label of the bin a given age falls into.
func AgeBinFor(age int) string {
	for _, b := range AgeBins {
		if b.Contains(age) {
			return b.Label
		}
	}
	// Negative ages are rejected at ingestion; the top bin is open-ended,
	// so this is unreachable for valid records.
	return ""
}

// AgeBinByLabel looks up a bin by its label.
func AgeBinByLabel(label string) (AgeBin, bool) {
	for _, b := range AgeBins {
		if b.Label == label {
			return b, true
		}
	}
	return AgeBin{}, false
}
