package api

import (
	"html/template"
	"log/slog"
	"net/http"

	"github.com/Masterminds/sprig/v3"
)

// Operator-facing occupancy page. Only publicly listed towns appear, same as
// the directory listing.
var statusTemplate = template.Must(
	template.New("status").Funcs(sprig.HtmlFuncMap()).Parse(`<!DOCTYPE html>
<html>
<head><title>go-town status</title></head>
<body>
<h1>Public towns ({{ len .Towns }})</h1>
<table border="1" cellpadding="4">
<tr><th>Town</th><th>ID</th><th>Occupancy</th></tr>
{{- range .Towns }}
<tr>
<td>{{ .FriendlyName | trunc 60 }}</td>
<td><code>{{ .CoveyTownID }}</code></td>
<td>{{ .CurrentOccupancy }} / {{ .MaximumOccupancy }}</td>
</tr>
{{- end }}
</table>
</body>
</html>
`))

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	err := statusTemplate.Execute(w, townListResponse{Towns: s.registry.ListTowns()})
	if err != nil {
		slog.WarnContext(r.Context(), "rendering status page", "error", err)
	}
}
