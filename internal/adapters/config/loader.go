// Package config provides the mint.yaml configuration loader.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"go.trai.ch/mint/internal/core/domain"
	"go.trai.ch/mint/internal/core/ports"
	"go.trai.ch/zerr"
	"gopkg.in/yaml.v3"
)

// SupportedVersion is the configuration version this loader understands.
const SupportedVersion = "1"

var _ ports.ConfigLoader = (*Loader)(nil)

// Loader implements ports.ConfigLoader using a YAML file.
type Loader struct {
	Logger ports.Logger
}

// NewLoader creates a new Loader with the given logger.
func NewLoader(logger ports.Logger) *Loader {
	return &Loader{Logger: logger}
}

// DiscoverRoot walks up from cwd and returns the first directory holding mint.yaml.
func (l *Loader) DiscoverRoot(cwd string) (string, error) {
	configPath, err := findConfiguration(cwd)
	if err != nil {
		return "", err
	}
	return filepath.Dir(configPath), nil
}

// Load discovers mint.yaml from cwd and returns the task graph it declares.
func (l *Loader) Load(cwd string) (*domain.Graph, error) {
	abs, err := filepath.Abs(cwd)
	if err != nil {
		return nil, zerr.Wrap(err, domain.ErrFailedToGetRoot.Error())
	}

	configPath, err := findConfiguration(abs)
	if err != nil {
		return nil, err
	}

	var mintfile Mintfile
	if err := readAndUnmarshalYAML(configPath, &mintfile); err != nil {
		return nil, zerr.With(err, "path", configPath)
	}

	if mintfile.Version != "" && mintfile.Version != SupportedVersion {
		l.Logger.Warn(fmt.Sprintf("%s declares version %q, expected %q",
			domain.ConfigFileName, mintfile.Version, SupportedVersion))
	}

	g := domain.NewGraph()
	g.SetRoot(resolveRoot(configPath, mintfile.Root))
	g.SetProject(resolveProject(mintfile.Project, g.Root()))
	if len(mintfile.Watch.Ignore) > 0 {
		g.SetWatchIgnore(mintfile.Watch.Ignore)
	} else {
		g.SetWatchIgnore(slices.Clone(domain.DefaultWatchIgnore))
	}

	// Sorted so the first reported error is stable.
	names := make([]string, 0, len(mintfile.Tasks))
	for name := range mintfile.Tasks {
		names = append(names, name)
	}
	slices.Sort(names)

	for _, name := range names {
		dto := mintfile.Tasks[name]
		if dto == nil {
			dto = &TaskDTO{}
		}

		task, err := buildTask(name, dto, g)
		if err != nil {
			return nil, err
		}

		for _, dep := range dto.DependsOn {
			if _, ok := mintfile.Tasks[dep]; !ok {
				err := zerr.With(domain.ErrMissingDependency, "missing_dependency", dep)
				return nil, zerr.With(err, "task", name)
			}
		}

		if err := g.AddTask(task); err != nil {
			return nil, err
		}
	}

	return g, nil
}

func findConfiguration(cwd string) (string, error) {
	currentDir := cwd
	for {
		candidate := filepath.Join(currentDir, domain.ConfigFileName)
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			return candidate, nil
		}

		parentDir := filepath.Dir(currentDir)
		if parentDir == currentDir {
			break
		}
		currentDir = parentDir
	}

	return "", zerr.With(domain.ErrConfigNotFound, "cwd", cwd)
}

func buildTask(name string, dto *TaskDTO, g *domain.Graph) (*domain.Task, error) {
	if err := validateTaskName(name); err != nil {
		return nil, err
	}

	kind := resolveKind(dto)
	if !kind.Valid() {
		err := zerr.With(domain.ErrInvalidTaskKind, "kind", string(kind))
		return nil, zerr.With(err, "task", name)
	}
	if err := validateFields(kind, dto); err != nil {
		return nil, zerr.With(err, "task", name)
	}

	return &domain.Task{
		Name:         domain.NewInternedString(name),
		Kind:         kind,
		Project:      g.Project(),
		Command:      dto.Cmd,
		Sources:      dto.Src,
		Dest:         dto.Dest,
		Banner:       dto.Banner,
		Inputs:       canonicalizeStrings(dto.Inputs),
		Outputs:      canonicalizeStrings(dto.Outputs),
		Dependencies: domain.NewInternedStrings(dto.DependsOn),
		Environment:  dto.Env,
		WorkingDir:   resolveTaskWorkingDir(g.Root(), dto.WorkingDir),
	}, nil
}

// resolveKind defaults to exec when a command is set and alias otherwise.
func resolveKind(dto *TaskDTO) domain.TaskKind {
	if dto.Kind != "" {
		return domain.TaskKind(dto.Kind)
	}
	if len(dto.Cmd) > 0 {
		return domain.KindExec
	}
	return domain.KindAlias
}

func validateFields(kind domain.TaskKind, dto *TaskDTO) error {
	var missing string
	switch kind {
	case domain.KindExec:
		if len(dto.Cmd) == 0 {
			missing = "cmd"
		}
	case domain.KindClean, domain.KindMinify, domain.KindLint:
		if len(dto.Src) == 0 {
			missing = "src"
		}
	case domain.KindCopy, domain.KindArchive:
		switch {
		case len(dto.Src) == 0:
			missing = "src"
		case dto.Dest == "":
			missing = "dest"
		}
	case domain.KindAlias:
	}

	if missing == "" {
		return nil
	}
	err := zerr.With(domain.ErrMissingTaskField, "field", missing)
	return zerr.With(err, "kind", string(kind))
}

// validateTaskName checks if the task name is reserved or contains invalid characters.
func validateTaskName(name string) error {
	if name == "all" {
		return zerr.With(domain.ErrReservedTaskName, "task_name", name)
	}
	if strings.Contains(name, ":") {
		err := zerr.With(domain.ErrInvalidTaskName, "invalid_character", ":")
		return zerr.With(err, "task_name", name)
	}
	return nil
}

// resolveProject prefers the configured name, then the package.json name,
// then the base name of root.
func resolveProject(configured, root string) string {
	if configured != "" {
		return configured
	}

	// #nosec G304 -- the manifest path is derived from the project root
	data, err := os.ReadFile(filepath.Join(root, domain.PackageFileName))
	if err == nil {
		var manifest packageManifest
		if json.Unmarshal(data, &manifest) == nil && manifest.Name != "" {
			return manifest.Name
		}
	}

	return filepath.Base(root)
}

func canonicalizeStrings(strs []string) []domain.InternedString {
	if len(strs) == 0 {
		return nil
	}

	sorted := slices.Clone(strs)
	slices.Sort(sorted)
	return domain.NewInternedStrings(slices.Compact(sorted))
}

func resolveRoot(configPath, configuredRoot string) string {
	configDir := filepath.Dir(configPath)
	if configuredRoot == "" {
		return filepath.Clean(configDir)
	}
	if filepath.IsAbs(configuredRoot) {
		return filepath.Clean(configuredRoot)
	}
	return filepath.Clean(filepath.Join(configDir, configuredRoot))
}

// resolveTaskWorkingDir returns baseDir for an empty value and joins relative
// values onto it.
func resolveTaskWorkingDir(baseDir, configured string) domain.InternedString {
	switch {
	case configured == "":
		return domain.NewInternedString(baseDir)
	case filepath.IsAbs(configured):
		return domain.NewInternedString(filepath.Clean(configured))
	default:
		return domain.NewInternedString(filepath.Clean(filepath.Join(baseDir, configured)))
	}
}

// readAndUnmarshalYAML reads a YAML file and unmarshals it into target.
func readAndUnmarshalYAML[T any](configPath string, target *T) error {
	// #nosec G304 -- configPath is found by discovery
	configFile, err := os.ReadFile(configPath)
	if err != nil {
		return zerr.Wrap(err, domain.ErrConfigReadFailed.Error())
	}

	if parseErr := yaml.Unmarshal(configFile, target); parseErr != nil {
		return zerr.Wrap(parseErr, domain.ErrConfigParseFailed.Error())
	}

	return nil
}
