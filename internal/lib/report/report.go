// Package report composes the plain-text fire report sent to hikers
package report

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/dpup/trailfire/server/internal/lib/proximity"
)

// ErrReportAssembly is returned when a report cannot be composed. No partial
// text is ever returned alongside it.
var ErrReportAssembly = errors.New("report assembly failed")

// ApologyText is shown in place of a report that could not be generated
const ApologyText = "Sorry, an error occurred while generating the fire report.\nPlease try again later."

// CreateReport builds the report for one trail from classified fires. Any
// missing or non-numeric value aborts the whole report.
func CreateReport(trailCode string, radiusMiles float64, results []proximity.Result) (text string, err error) {
	defer func() {
		if r := recover(); r != nil {
			text = ""
			err = fmt.Errorf("%w: %v", ErrReportAssembly, r)
		}
	}()

	if trailCode == "" {
		return "", fmt.Errorf("%w: missing trail code", ErrReportAssembly)
	}
	if !finite(radiusMiles) {
		return "", fmt.Errorf("%w: radius %v", ErrReportAssembly, radiusMiles)
	}
	for i, r := range results {
		if err := validate(r); err != nil {
			return "", fmt.Errorf("%w: fire %d: %v", ErrReportAssembly, i, err)
		}
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Total fires within %s miles of the %s: %d\n",
		strconv.FormatFloat(radiusMiles, 'f', -1, 64), trailCode, len(results))
	for _, r := range results {
		b.WriteString(summaryLine(r))
	}

	b.WriteString("\n")
	var crossing []proximity.Result
	for _, r := range results {
		if r.Crossing != nil {
			crossing = append(crossing, r)
			continue
		}
		fmt.Fprintf(&b, "The %s Fire is %s mi. from the %s at mile marker %s\n",
			r.Fire.Attributes.Name, round(r.Closest.Distance), trailCode, round(r.Closest.Mile))
	}

	fmt.Fprintf(&b, "\n%d fire(s) currently cross the %s\n", len(crossing), trailCode)
	for _, r := range crossing {
		c := r.Crossing
		fmt.Fprintf(&b, "The %s Fire crosses the %s at mi. %s", r.Fire.Attributes.Name, trailCode, round(c.StartMile))
		if c.IsRange() {
			fmt.Fprintf(&b, " to mi. %s", round(c.EndMile))
		}
		b.WriteString("\n")
	}

	return b.String(), nil
}

func validate(r proximity.Result) error {
	attrs := r.Fire.Attributes
	switch {
	case attrs.Name == "":
		return errors.New("missing name")
	case len(attrs.States) == 0:
		return errors.New("missing states")
	case attrs.Acres != nil && !finite(*attrs.Acres):
		return fmt.Errorf("acres %v", *attrs.Acres)
	case attrs.Containment != nil && !finite(*attrs.Containment):
		return fmt.Errorf("containment %v", *attrs.Containment)
	case r.Crossing != nil && r.Closest != nil:
		return errors.New("both crossing and proximate")
	case r.Crossing == nil && r.Closest == nil:
		return errors.New("neither crossing nor proximate")
	}

	if c := r.Crossing; c != nil {
		if len(c.Points) == 0 || !finite(c.StartMile) || !finite(c.EndMile) {
			return errors.New("incomplete crossing")
		}
	}
	if c := r.Closest; c != nil {
		if !finite(c.Distance) || !finite(c.Mile) {
			return errors.New("incomplete closest point")
		}
	}
	return nil
}

func summaryLine(r proximity.Result) string {
	attrs := r.Fire.Attributes

	var b strings.Builder
	fmt.Fprintf(&b, "%s Fire (%s)", attrs.Name, JoinStates(attrs.States))

	var clauses []string
	if attrs.Acres != nil {
		clauses = append(clauses, round(*attrs.Acres)+" acres")
	}
	if attrs.Containment != nil {
		clauses = append(clauses, round(*attrs.Containment)+"% contained")
	}
	if len(clauses) > 0 {
		b.WriteString(" - ")
		b.WriteString(strings.Join(clauses, ", "))
	}
	b.WriteString("\n")
	return b.String()
}

// JoinStates lists names with commas and "and" before the last
func JoinStates(states []string) string {
	switch len(states) {
	case 0:
		return ""
	case 1:
		return states[0]
	}
	return strings.Join(states[:len(states)-1], ", ") + " and " + states[len(states)-1]
}

// round uses half-to-even rounding
func round(v float64) string {
	return strconv.FormatInt(int64(math.RoundToEven(v)), 10)
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
