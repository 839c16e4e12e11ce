package schema

// SiloSummary counts the rows a single silo must fill in.
type SiloSummary struct {
	SiloName   string `json:"silo_name"`
	Treated    int    `json:"treated"`
	Control    int    `json:"control"`
	RI         int    `json:"ri"`
	Cohorts    int    `json:"cohorts"`
	TotalRows  int    `json:"total_rows"`
	Covariates string `json:"covariates"`
}

// GridResult is a period grid for one cohort together with its baseline.
type GridResult struct {
	Cohort  string   `json:"cohort"`
	Pre     string   `json:"pre"`
	Periods []string `json:"periods"`
	Freq    string   `json:"freq"`
	Format  string   `json:"date_format"`
}

// Summarize counts rows per silo in first-seen order.
func Summarize(t *SpecTable) []SiloSummary {
	byName := make(map[string]*SiloSummary)
	cohorts := make(map[string]map[string]struct{})
	var order []string
	get := func(name, covariates string) *SiloSummary {
		s, ok := byName[name]
		if !ok {
			s = &SiloSummary{SiloName: name, Covariates: covariates}
			byName[name] = s
			cohorts[name] = make(map[string]struct{})
			order = append(order, name)
		}
		return s
	}
	count := func(s *SiloSummary, treat Treat) {
		switch treat {
		case TreatedTreat:
			s.Treated++
		case ControlTreat:
			s.Control++
		case RITreat:
			s.RI++
		}
		s.TotalRows++
	}

	for _, r := range t.Common {
		s := get(r.SiloName, r.Covariates)
		count(s, r.Treat)
		cohorts[r.SiloName][r.CommonTreatmentTime] = struct{}{}
	}
	for _, r := range t.Staggered {
		s := get(r.SiloName, r.Covariates)
		count(s, r.Treat)
		cohorts[r.SiloName][r.Gvar] = struct{}{}
	}

	out := make([]SiloSummary, 0, len(order))
	for _, name := range order {
		s := byName[name]
		s.Cohorts = len(cohorts[name])
		out = append(out, *s)
	}
	return out
}
