// Package config loads and validates the integration run configuration.
//
// The configuration is a single YAML or JSON file passed per run; YAML is a
// superset of JSON, so plain config.json files parse unchanged.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Integration describes one integration run: which sub-PRs to merge, in
// which order, into which release branch.
type Integration struct {
	// Team is the owning team name, used in the generated description.
	Team string `yaml:"team" json:"team"`

	// RepoDirectory is the path to the local repository checkout.
	RepoDirectory string `yaml:"repoDirectory" json:"repoDirectory"`

	// PullRequestTemplate is the path to the PR body template file.
	PullRequestTemplate string `yaml:"pullRequestTemplate" json:"pullRequestTemplate"`

	// MainBranch is the base branch for the release. Defaults to "main".
	MainBranch string `yaml:"mainBranch" json:"mainBranch"`

	// PushToOrigin controls whether the release branch is pushed and an
	// integration PR is created. Defaults to false.
	PushToOrigin bool `yaml:"pushToOrigin" json:"pushToOrigin"`

	// Title is the integration PR title. Defaults to ReleaseName.
	Title string `yaml:"title" json:"title"`

	// ReleaseName is the name of the release branch to create.
	ReleaseName string `yaml:"releaseName" json:"releaseName"`

	// PullRequests is the ordered list of sub-PR numbers. Merge order is
	// list order.
	PullRequests []int `yaml:"pr" json:"pr"`

	// Draft controls whether the integration PR is created as a draft.
	// Defaults to true.
	Draft *bool `yaml:"draft,omitempty" json:"draft,omitempty"`

	// NotifyWebhook is an optional webhook URL for run lifecycle events.
	NotifyWebhook string `yaml:"notifyWebhook,omitempty" json:"notifyWebhook,omitempty"`
}

// ConfigError reports the first missing or invalid configuration field.
type ConfigError struct {
	Field  string
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("config field %q: %s", e.Field, e.Reason)
}

// Load reads and decodes an integration config file and applies defaults.
func Load(path string) (*Integration, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}

	var cfg Integration
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}

	cfg.ApplyDefaults()
	return &cfg, nil
}

// ApplyDefaults fills unset optional fields.
func (c *Integration) ApplyDefaults() {
	if c.MainBranch == "" {
		c.MainBranch = "main"
	}
	if c.Title == "" {
		c.Title = c.ReleaseName
	}
	if c.Draft == nil {
		draft := true
		c.Draft = &draft
	}
}

// Validate checks required fields, reporting the first violation.
func (c *Integration) Validate() error {
	switch {
	case c.Team == "":
		return &ConfigError{Field: "team", Reason: "must not be empty"}
	case c.ReleaseName == "":
		return &ConfigError{Field: "releaseName", Reason: "must not be empty"}
	case c.RepoDirectory == "":
		return &ConfigError{Field: "repoDirectory", Reason: "must not be empty"}
	case len(c.PullRequests) == 0:
		return &ConfigError{Field: "pr", Reason: "must list at least one pull request"}
	}
	return nil
}

// IsDraft reports whether the integration PR should be created as a draft.
func (c *Integration) IsDraft() bool {
	return c.Draft == nil || *c.Draft
}
