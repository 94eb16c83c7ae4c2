package config

import (
	"os"

	"github.com/joho/godotenv"
)

// MergeEnv overlays a dotenv file onto the playbook vars. Values from the
// file win over the playbook, so per-machine overrides don't require
// editing the document. A missing file is not an error.
func (p *Playbook) MergeEnv(path string) error {
	if _, err := os.Stat(path); err != nil {
		return nil
	}

	env, err := godotenv.Read(path)
	if err != nil {
		return err
	}

	if p.Vars == nil {
		p.Vars = make(map[string]string)
	}
	for k, v := range env {
		p.Vars[k] = v
	}
	return nil
}
