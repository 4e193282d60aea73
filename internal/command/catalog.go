package command

import (
	"encoding/json"
	"log/slog"
	"net/http"
)

type parameterDescriptor struct {
	ID       string `json:"id"`
	Type     string `json:"type"`
	Required bool   `json:"required"`
}

type commandDescriptor struct {
	ID         string                `json:"id"`
	Parameters []parameterDescriptor `json:"parameters"`
}

// catalog lists every command this connector exposes, with parameter
// schemas the workflow engine uses to build task forms.
var catalog = []commandDescriptor{
	{
		ID: "artifacts/GenerateArtifact",
		Parameters: []parameterDescriptor{
			{ID: "id", Type: "str", Required: true},
			{ID: "template", Type: "str", Required: true},
			{ID: "data", Type: "any", Required: false},
			{ID: "generate_links", Type: "bool", Required: false},
			{ID: "storage", Type: "str", Required: false},
		},
	},
	{
		ID: "artifacts/GetLinkToArtifact",
		Parameters: []parameterDescriptor{
			{ID: "id", Type: "str", Required: true},
			{ID: "storage", Type: "str", Required: false},
		},
	},
	{
		ID: "artifacts/GenerateHtmlPreview",
		Parameters: []parameterDescriptor{
			{ID: "template", Type: "str", Required: true},
			{ID: "data", Type: "any", Required: false},
		},
	},
}

// HandleCommands serves the static command catalog.
func HandleCommands(logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(catalog); err != nil {
			logger.Error("encoding command catalog", slog.String("error", err.Error()))
		}
	}
}
