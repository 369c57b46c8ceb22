package config

import (
	"fmt"
	"os"
)

const starterConfig = `# siteforge configuration
site:
  title: "My Site"
  base_url: "http://localhost:8080"

# Workspace root: every unit directory is resolved against it.
workspace: .

generator:
  command: hugo

# The root unit builds first. Its failure aborts the run because the
# measures artifact it produces feeds feature-page generation.
root:
  dir: .
  measures: data/measures.yaml

features:
  output: content/features

# Build order is the declared order. 'after' only documents the dependency
# the order must already satisfy.
units:
  - name: creators
  - name: lists
    after: [creators]

serve:
  port: 8080
  site_dir: public
`

// Init writes a starter configuration file.
func Init(path string, force bool) error {
	if _, err := os.Stat(path); err == nil && !force {
		return fmt.Errorf("configuration file already exists: %s (use --force to overwrite)", path)
	}
	return os.WriteFile(path, []byte(starterConfig), 0o644)
}
