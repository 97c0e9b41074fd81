package models

// WorkingSet is the in-memory staff and demand data used as input to the next optimisation run.
type WorkingSet struct {
	Staff  []StaffMember `json:"staff"`
	Demand []DemandEntry `json:"demand"`
}

// Clone returns a deep copy so callers can stage mutations and commit them only on success.
func (w WorkingSet) Clone() WorkingSet {
	out := WorkingSet{
		Staff:  make([]StaffMember, len(w.Staff)),
		Demand: make([]DemandEntry, len(w.Demand)),
	}
	copy(out.Staff, w.Staff)
	copy(out.Demand, w.Demand)
	return out
}

// Horizon returns the ordered day labels of the demand entries
func (w WorkingSet) Horizon() []string {
	days := make([]string, len(w.Demand))
	for i, d := range w.Demand {
		days[i] = d.Day
	}
	return days
}

// StaffByName indexes staff positions by name. The first occurrence of a name wins.
func (w WorkingSet) StaffByName() map[string]int {
	idx := make(map[string]int, len(w.Staff))
	for i, s := range w.Staff {
		if _, ok := idx[s.Name]; !ok {
			idx[s.Name] = i
		}
	}
	return idx
}

// DemandByDay indexes demand positions by day label. The first occurrence of a day wins.
func (w WorkingSet) DemandByDay() map[string]int {
	idx := make(map[string]int, len(w.Demand))
	for i, d := range w.Demand {
		if _, ok := idx[d.Day]; !ok {
			idx[d.Day] = i
		}
	}
	return idx
}

// StaffIndex returns the position of the named staff member
func (w WorkingSet) StaffIndex(name string) (int, bool) {
	i, ok := w.StaffByName()[name]
	return i, ok
}

// DemandIndex returns the position of the demand entry for day
func (w WorkingSet) DemandIndex(day string) (int, bool) {
	i, ok := w.DemandByDay()[day]
	return i, ok
}

// TotalRequired sums the required headcount across all days
func (w WorkingSet) TotalRequired() int {
	total := 0
	for _, d := range w.Demand {
		total += d.RequiredCount
	}
	return total
}
