// Package artifact implements the artifact-generation pipeline: data
// normalization, document rendering, attachment assembly, composition into
// a single PDF, and the orchestration service the command handlers call.
package artifact

import (
	"fmt"
	"strings"

	"github.com/GSA-TTS/spiffworkflow-connector/internal/domain"
	"github.com/GSA-TTS/spiffworkflow-connector/internal/template"
)

// Normalize transforms the loosely-typed form payload into the shape the
// template set expects. rawData wins when non-empty; otherwise the
// workflow-supplied task data is used. The inputs are never mutated.
//
// Derived fields:
//   - exclusions, lupDecisions: newline-split line lists, order preserved.
//   - responsibleOfficial: comma-join of the last two approver names. Two
//     upstream variants existed (last name only vs last two); this code
//     follows the shipped behavior, which joins the last two.
//   - approvalDate: date of the last approver.
//   - numberOfAttachments: user attachments plus associated documents.
//   - idTeamChecklistData: only for templates flagged with a checklist
//     section; see checklist.go for the ordering contract.
//
// Missing required fields are collected and reported in a single
// validation error rather than failing on the first.
func Normalize(meta template.Meta, rawData, taskData map[string]any) (map[string]any, error) {
	src := rawData
	if len(src) == 0 {
		src = taskData
	}
	if len(src) == 0 {
		return nil, domain.ErrValidation("no template data provided", "data")
	}

	data := make(map[string]any, len(src)+8)
	for k, v := range src {
		data[k] = v
	}

	var missing []string

	exclusionsText, ok := asString(data["exclusionsText"])
	if !ok {
		missing = append(missing, "exclusionsText")
	}
	lupText, ok := asString(data["lupDecisions"])
	if !ok {
		missing = append(missing, "lupDecisions")
	}
	approvers, ok := asApprovers(data["approvers"])
	if !ok || len(approvers) == 0 {
		missing = append(missing, "approvers")
	}

	if len(missing) > 0 {
		return nil, domain.ErrValidation("template data is missing required fields", missing...)
	}

	data["exclusions"] = splitLines(exclusionsText)
	data["lupDecisions"] = splitLines(lupText)
	data["responsibleOfficial"] = responsibleOfficial(approvers)
	data["approvalDate"] = approvers[len(approvers)-1].Date

	attachments := attachmentList(data)
	data["attachments"] = attachments
	data["numberOfAttachments"] = len(attachments) + len(meta.Associated)

	if meta.HasIDTeamChecklist {
		reviews, err := asReviews(data["idTeamReviews"])
		if err != nil {
			return nil, err
		}
		data["idTeamChecklistData"] = buildChecklist(reviews)
	}

	return data, nil
}

// Approver is one {name, date} record from the ordered approvers sequence.
type Approver struct {
	Name string
	Date string
}

// splitLines turns newline-delimited free text into an ordered line list.
// The empty string yields a single empty entry, matching what a split on a
// delimiter-free input produces.
func splitLines(text string) []string {
	return strings.Split(text, "\n")
}

// responsibleOfficial renders the last two approver names as "A, B".
func responsibleOfficial(approvers []Approver) string {
	last := approvers
	if len(last) > 2 {
		last = last[len(last)-2:]
	}
	names := make([]string, len(last))
	for i, a := range last {
		names[i] = a.Name
	}
	return strings.Join(names, ", ")
}

// attachmentList extracts the user-supplied data-URL attachments, if any.
func attachmentList(data map[string]any) []string {
	raw, ok := data["attachments"]
	if !ok {
		return nil
	}
	switch v := raw.(type) {
	case []string:
		return v
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return out
	default:
		return nil
	}
}

func asString(v any) (string, bool) {
	s, ok := v.(string)
	return s, ok
}

func asApprovers(v any) ([]Approver, bool) {
	items, ok := v.([]any)
	if !ok {
		// Allow the already-typed form, used by internal callers.
		if typed, ok := v.([]Approver); ok {
			return typed, true
		}
		return nil, false
	}
	out := make([]Approver, 0, len(items))
	for _, item := range items {
		m, ok := item.(map[string]any)
		if !ok {
			return nil, false
		}
		name, nameOK := asString(m["name"])
		date, dateOK := asString(m["date"])
		if !nameOK || !dateOK {
			return nil, false
		}
		out = append(out, Approver{Name: name, Date: date})
	}
	return out, true
}

func asReviews(v any) (map[string]map[string]any, error) {
	if v == nil {
		return nil, nil
	}
	m, ok := v.(map[string]any)
	if !ok {
		return nil, domain.ErrValidation("idTeamReviews must be a mapping of resource name to survey result", "idTeamReviews")
	}
	out := make(map[string]map[string]any, len(m))
	for resource, entry := range m {
		em, ok := entry.(map[string]any)
		if !ok {
			return nil, domain.ErrValidation(fmt.Sprintf("idTeamReviews entry for %q must be a mapping", resource), "idTeamReviews")
		}
		out[resource] = em
	}
	return out, nil
}
