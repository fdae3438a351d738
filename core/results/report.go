package results

import (
	"errors"
	"fmt"
	"strings"

	"transmute/core/featureset"
	"transmute/core/utils"
)

// ErrMissingResultCategory is returned when a report is requested for a category the
// response does not contain.
var ErrMissingResultCategory = errors.New("missing result category")

// Category names an edit operation type.
type Category string

const (
	CategoryAdds    Category = "addResults"
	CategoryUpdates Category = "updateResults"
	CategoryDeletes Category = "deleteResults"
)

// Report renders human-readable lines for an EditResponse.
type Report struct {
	resp *EditResponse
}

// NewReport wraps resp. A nil response reports every category as missing.
func NewReport(resp *EditResponse) *Report {
	return &Report{resp: resp}
}

// Adds returns the lines for added features.
func (r *Report) Adds() ([]string, error) {
	return r.Lines(CategoryAdds)
}

// Updates returns the lines for updated features.
func (r *Report) Updates() ([]string, error) {
	return r.Lines(CategoryUpdates)
}

// Deletes returns the lines for deleted features.
func (r *Report) Deletes() ([]string, error) {
	return r.Lines(CategoryDeletes)
}

// Lines returns success lines followed by failure lines for the category.
func (r *Report) Lines(category Category) ([]string, error) {
	entries, err := r.entries(category)
	if err != nil {
		return nil, err
	}

	successes := make([]string, 0, len(entries))
	var failures []string
	for _, e := range entries {
		if e.Success {
			successes = append(successes, fmt.Sprintf("Success - OID: %d", e.ObjectID))
			continue
		}
		failures = append(failures, fmt.Sprintf("Failure - OID: %d, '%s'", e.ObjectID, e.Error.Error()))
	}
	return append(successes, failures...), nil
}

// Tally counts successes and failures for one category.
type Tally struct {
	Succeeded int `json:"succeeded"`
	Failed    int `json:"failed"`
}

// Tally counts outcomes for the category. Missing categories yield ErrMissingResultCategory.
func (r *Report) Tally(category Category) (Tally, error) {
	entries, err := r.entries(category)
	if err != nil {
		return Tally{}, err
	}
	var t Tally
	for _, e := range entries {
		if e.Success {
			t.Succeeded++
		} else {
			t.Failed++
		}
	}
	return t, nil
}

func (r *Report) entries(category Category) ([]EditResult, error) {
	var entries []EditResult
	if r.resp != nil {
		switch category {
		case CategoryAdds:
			entries = r.resp.AddResults
		case CategoryUpdates:
			entries = r.resp.UpdateResults
		case CategoryDeletes:
			entries = r.resp.DeleteResults
		}
	}
	if entries == nil {
		return nil, fmt.Errorf("results don't contain '%s': %w", category, ErrMissingResultCategory)
	}
	return entries, nil
}

// FormatFeatures renders one line per feature with its object id and geometry.
func FormatFeatures(features []featureset.Feature, oidField string) string {
	lines := make([]string, len(features))
	for i, f := range features {
		geometry := "None"
		if f.HasGeometry() {
			geometry = string(f.Geometry)
		}
		oid := utils.ToString(f.Attributes[oidField])
		if oid == "" {
			oid = "-"
		}
		lines[i] = fmt.Sprintf("\tOID: %s, Geometry: %s", oid, geometry)
	}
	return strings.Join(lines, "\n")
}
