package schema

// Grade is an ordinal health band.
type Grade string

// All grades from best to worst.
const (
	GradeA Grade = "A"
	GradeB Grade = "B"
	GradeC Grade = "C"
	GradeD Grade = "D"
	GradeE Grade = "E"
)

// GradeBand is a static row of the grade table.
type GradeBand struct {
	Grade    Grade   `json:"grade"`
	MinScore float64 `json:"min_score"`
	Label    string  `json:"label"`
	Color    string  `json:"color"`
}

// GradeBands is ordered from the highest lower bound to the lowest.
var GradeBands = []GradeBand{
	{Grade: GradeA, MinScore: 80, Label: "Excellent", Color: "#22c55e"},
	{Grade: GradeB, MinScore: 60, Label: "Good", Color: "#3b82f6"},
	{Grade: GradeC, MinScore: 40, Label: "Fair", Color: "#eab308"},
	{Grade: GradeD, MinScore: 20, Label: "Poor", Color: "#f97316"},
	{Grade: GradeE, MinScore: 0, Label: "Critical", Color: "#ef4444"},
}

// LookupGradeBand returns the table row for a grade, falling back to the lowest band.
func LookupGradeBand(g Grade) GradeBand {
	for _, b := range GradeBands {
		if b.Grade == g {
			return b
		}
	}
	return GradeBands[len(GradeBands)-1]
}
