package core

import (
	"bytes"
	"text/template"

	"github.com/Masterminds/sprig/v3"
)

// ExecuteTemplate renders the given content against data, which is usually
// a *SystemContext.
func ExecuteTemplate(content string, data interface{}) (string, error) {
	// missingkey=zero allows optional variables; use Sprig's 'required'
	// for mandatory ones.
	tmpl, err := template.New("stagehand").Funcs(sprig.TxtFuncMap()).Option("missingkey=zero").Parse(content)
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", err
	}

	return buf.String(), nil
}
