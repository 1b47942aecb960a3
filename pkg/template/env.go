package template

import (
	"bytes"
	texttemplate "text/template"
)

// EnvParams are the per-member values substituted into the environment
// file when a member is instantiated.
type EnvParams struct {
	APIBaseURL  string
	ClientID    string
	Port        int
	DisplayName string
}

const envFile = `VITE_API_BASE_URL={{.APIBaseURL}}
VITE_CLIENT_ID={{.ClientID}}
VITE_PORT={{.Port}}
VITE_CLIENT_NAME={{.DisplayName}}
`

var envTemplate = texttemplate.Must(texttemplate.New("env").Parse(envFile))

// RenderEnv materializes the member environment file for the given
// parameters.
func RenderEnv(params EnvParams) ([]byte, error) {
	var buf bytes.Buffer
	if err := envTemplate.Execute(&buf, params); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
