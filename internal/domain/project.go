package domain

import (
	"path"
	"strings"
)

// ProjectType identifies the kind of creative work (book, script, film, essay or a custom template id)
type ProjectType string

const (
	ProjectBook   ProjectType = "book"
	ProjectScript ProjectType = "script"
	ProjectFilm   ProjectType = "film"
	ProjectEssay  ProjectType = "essay"
)

// BuiltinProjectTypes lists the types with dedicated inclusion rules and starter layouts
var BuiltinProjectTypes = []ProjectType{ProjectBook, ProjectScript, ProjectFilm, ProjectEssay}

// ParseProjectType normalizes a stored or user supplied type; empty means book
func ParseProjectType(s string) ProjectType {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return ProjectBook
	}
	return ProjectType(s)
}

// IsBuiltin reports whether t is one of the built-in project types
func (t ProjectType) IsBuiltin() bool {
	for _, b := range BuiltinProjectTypes {
		if t == b {
			return true
		}
	}
	return false
}

func (t ProjectType) String() string {
	return string(t)
}

// Layout of the metadata folder inside a project root
const (
	MetaDir          = "misc"
	ConfigFile       = "project-config.json"
	LegacyConfigFile = "book-config.json"
	CoverDir         = "misc/cover"
	LegacyMetaDir    = ".folio"
)

// Project represents one creative work rooted at a single directory
type Project struct {
	Name  string      // basic.title, or the folder name
	Path  string      // Root-relative directory, unique key
	Type  ProjectType // basic.projectType, book when unset
	Cover string      // Project-relative image path, empty when none
}

// ConfigPath returns the canonical config document path for a project
func ConfigPath(projectPath string) string {
	return path.Join(projectPath, MetaDir, ConfigFile)
}

// LegacyConfigPath returns the pre-rename config document path
func LegacyConfigPath(projectPath string) string {
	return path.Join(projectPath, MetaDir, LegacyConfigFile)
}

// IsMetaPath reports whether a project-relative path lives in the metadata folder
func IsMetaPath(rel string) bool {
	rel = strings.TrimPrefix(path.Clean("/"+rel), "/")
	return rel == MetaDir || strings.HasPrefix(rel, MetaDir+"/")
}

// IsHidden reports whether a file or folder name is a dotfile
func IsHidden(name string) bool {
	return strings.HasPrefix(name, ".")
}

// ParentDir returns the project-relative parent directory of rel, "" for the project root
func ParentDir(rel string) string {
	dir := path.Dir(rel)
	if dir == "." || dir == "/" {
		return ""
	}
	return dir
}

var imageExtensions = map[string]bool{
	".png":  true,
	".jpg":  true,
	".jpeg": true,
	".gif":  true,
	".webp": true,
	".svg":  true,
}

// IsImage reports whether name has an image extension usable as a cover
func IsImage(name string) bool {
	return imageExtensions[strings.ToLower(path.Ext(name))]
}
