package config

const (
	defaultTitle        = "Site"
	defaultGenerator    = "hugo"
	defaultMeasuresPath = "data/measures.yaml"
	defaultFeatureDir   = "content/features"
	defaultSiteDir      = "public"
	defaultPort         = 8080
)

func (c *Config) applyDefaults() {
	if c.Site.Title == "" {
		c.Site.Title = defaultTitle
	}
	if c.Workspace == "" {
		c.Workspace = "."
	}
	if c.Generator.Command == "" {
		c.Generator.Command = defaultGenerator
	}
	if c.Root.Dir == "" {
		c.Root.Dir = "."
	}
	if c.Root.Measures == "" {
		c.Root.Measures = defaultMeasuresPath
	}
	if c.Features.Output == "" {
		c.Features.Output = defaultFeatureDir
	}
	if c.Serve.SiteDir == "" {
		c.Serve.SiteDir = defaultSiteDir
	}
	if c.Serve.Port == 0 {
		c.Serve.Port = defaultPort
	}
	for i := range c.Units {
		if c.Units[i].Dir == "" {
			c.Units[i].Dir = c.Units[i].Name
		}
	}
}
