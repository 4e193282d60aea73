package artifact

import "sort"

// resourceCatalog is the fixed set of interdisciplinary-review resources
// every checklist reports on, whether or not a specialist reviewed them.
var resourceCatalog = []string{
	"Air Quality",
	"Cultural Resources",
	"Farm Lands",
	"Floodplains",
	"Invasive, Nonnative Species",
	"Migratory Birds",
	"Native American Religious Concerns",
	"Threatened or Endangered Species",
	"Wastes, Hazardous or Solid",
	"Water Quality",
	"Wetlands and Riparian Zones",
	"Wild and Scenic Rivers",
	"Wilderness",
}

// ChecklistEntry is one row of the ID-team checklist table.
type ChecklistEntry struct {
	Resource          string `json:"resource"`
	SelectedForReview string `json:"selectedForReview"`
	Impact            string `json:"impact,omitempty"`
	Rationale         string `json:"rationale,omitempty"`
	SpecialistName    string `json:"specialistName,omitempty"`
	Date              string `json:"date,omitempty"`
}

// sortGroup buckets entries for presentation. Reviewed resources with an
// impact come first, then the impact-without-review branch (should not
// happen with well-formed survey data, but the bucket keeps such rows
// visible instead of burying them), then reviewed-without-impact, then
// everything that was not reviewed. Ties break on resource name.
func (e ChecklistEntry) sortGroup() int {
	reviewed := e.SelectedForReview == "Yes"
	impact := e.Impact == "Yes"
	switch {
	case reviewed && impact:
		return 1
	case impact:
		return 2
	case reviewed:
		return 3
	default:
		return 4
	}
}

// buildChecklist pairs the fixed resource catalog against the sparse survey
// results and returns the entries in the contractual order. Resources
// absent from reviews are "not reviewed" rows.
func buildChecklist(reviews map[string]map[string]any) []ChecklistEntry {
	entries := make([]ChecklistEntry, 0, len(resourceCatalog))
	for _, resource := range resourceCatalog {
		entry := ChecklistEntry{Resource: resource, SelectedForReview: "No"}
		if review, ok := reviews[resource]; ok {
			if selected, _ := review["selectedForReview"].(bool); selected {
				entry.SelectedForReview = "Yes"
				entry.Impact, _ = review["impact"].(string)
				entry.Rationale, _ = review["rationale"].(string)
				entry.SpecialistName, _ = review["specialistName"].(string)
				entry.Date, _ = review["date"].(string)
			} else if impact, _ := review["impact"].(string); impact == "Yes" {
				// Defensive: survey claims an impact on a resource nobody
				// reviewed. Carry the impact through so it sorts into its
				// own group.
				entry.Impact = impact
			}
		}
		entries = append(entries, entry)
	}

	sort.Slice(entries, func(i, j int) bool {
		gi, gj := entries[i].sortGroup(), entries[j].sortGroup()
		if gi != gj {
			return gi < gj
		}
		return entries[i].Resource < entries[j].Resource
	})
	return entries
}
