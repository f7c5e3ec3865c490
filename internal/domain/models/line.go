package models

// Line identifies one sewing production line / process stage.
type Line string

const (
	LineFC    Line = "fc"
	LineFB    Line = "fb"
	LineRC    Line = "rc"
	LineRB    Line = "rb"
	LineThird Line = "third"
	LineSub   Line = "sub"
)

// Lines returns every production line in reporting order.
func Lines() []Line {
	return []Line{LineFC, LineFB, LineRC, LineRB, LineThird, LineSub}
}

var lineDisplay = map[Line]string{
	LineFC:    "F/C",
	LineFB:    "F/B",
	LineRC:    "R/C",
	LineRB:    "R/B",
	LineThird: "3RD",
	LineSub:   "SUB",
}

// Display returns the operator-facing name of the line ("F/C", "3RD", ...).
func (l Line) Display() string {
	if d, ok := lineDisplay[l]; ok {
		return d
	}
	return string(l)
}

// LineFromProcess maps a display/process name back to its Line. Defect rows
// carry the display form in their process field.
func LineFromProcess(process string) (Line, bool) {
	for l, d := range lineDisplay {
		if d == process {
			return l, true
		}
	}
	return "", false
}
