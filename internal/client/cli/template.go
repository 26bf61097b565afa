package cli

const counterTemplate = `
=== {{.Name}} ===

ID:       {{.ID}}
Count:    {{.Count}}
Created:  {{.CreatedAt.Local.Format "2006-01-02 15:04"}}
Updated:  {{.UpdatedAt.Local.Format "2006-01-02 15:04"}}
{{- if .Archived }}
Status:   archived
{{- end}}
`

const statusTemplate = `
=== Sync Status ===

{{- if .Config }}
Backend:      {{.Config.Backend}}
{{- if .Config.Endpoint }}
Endpoint:     {{.Config.Endpoint}}
{{- end}}
{{- if .Config.Bucket }}
Bucket:       {{.Config.Bucket}}
{{- end}}
Document:     {{.Config.DocumentKey}}
Encrypted:    {{if .Config.Passphrase}}yes{{else}}no{{end}}
Auto-sync:    {{if .Config.AutoSync}}on{{else}}off{{end}}
{{- else }}
Remote:       not configured
{{- end}}
Revision:     {{.Meta.Revision}}
Last synced:  {{if .Meta.LastSyncedAt.IsZero}}never{{else}}{{.Meta.LastSyncedAt.Local.Format "2006-01-02 15:04:05"}}{{end}}
Pending:      {{if .Meta.Pending}}yes{{else}}no{{end}}

Counters:     {{.Counters}} ({{.Archived}} archived)
Deleted:      {{.Deleted}}
`
