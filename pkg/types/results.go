package types

// CreateResult holds the result of the 'create' and 'init' commands.
type CreateResult struct {
	Project   ProjectContext   `json:"project"`
	Created   []string         `json:"created"`
	Provision *ProvisionResult `json:"provision,omitempty"`
}

// ProvisionStep is one toolchain provisioning step
type ProvisionStep struct {
	Path    string `json:"path"`
	Action  string `json:"action"` // "extracted", "copied", "created", "skipped"
	Bytes   int64  `json:"bytes"`
	Entries int    `json:"entries"`
}

// ProvisionResult holds the result of toolchain provisioning.
type ProvisionResult struct {
	Project ProjectContext  `json:"project"`
	Steps   []ProvisionStep `json:"steps"`
}

// Changed reports whether any step modified the project
func (r *ProvisionResult) Changed() bool {
	for _, s := range r.Steps {
		if s.Action != "skipped" {
			return true
		}
	}
	return false
}

// DumpConfigResult holds the result of the 'dump-config' command.
type DumpConfigResult struct {
	Path  string `json:"path"`
	Bytes int    `json:"bytes"`
}

// FilelistResult holds the result of the 'filelist' command.
type FilelistResult struct {
	Target string   `json:"target"`
	Lines  []string `json:"lines"`
}

// TreeResult holds the result of the 'tree' command.
type TreeResult struct {
	Source string `json:"source"`
	Root   *Node  `json:"-"`
	Dirs   int    `json:"dirs"`
	Files  int    `json:"files"`
}
