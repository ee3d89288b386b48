package config

// Mintfile represents the structure of the mint.yaml configuration file.
type Mintfile struct {
	Version string              `yaml:"version"`
	Project string              `yaml:"project"`
	Root    string              `yaml:"root"`
	Watch   WatchDTO            `yaml:"watch"`
	Tasks   map[string]*TaskDTO `yaml:"tasks"`
}

// WatchDTO configures mint watch.
type WatchDTO struct {
	Ignore []string `yaml:"ignore"`
}

// TaskDTO represents a task definition in the configuration.
type TaskDTO struct {
	Kind       string            `yaml:"kind"`
	Cmd        []string          `yaml:"cmd"`
	Src        []string          `yaml:"src"`
	Dest       string            `yaml:"dest"`
	Banner     string            `yaml:"banner"`
	Inputs     []string          `yaml:"inputs"`
	Outputs    []string          `yaml:"outputs"`
	DependsOn  []string          `yaml:"dependsOn"`
	Env        map[string]string `yaml:"env"`
	WorkingDir string            `yaml:"workingDir"`
}

// packageManifest is the subset of package.json mint reads.
type packageManifest struct {
	Name string `json:"name"`
}
