package ports

// ChangeKind classifies a file event
type ChangeKind int

const (
	// ChangeContent is an edit to an existing file
	ChangeContent ChangeKind = iota
	// ChangeStructure is a create, delete or rename
	ChangeStructure
)

func (k ChangeKind) String() string {
	if k == ChangeStructure {
		return "structure"
	}
	return "content"
}

// ChangeNotifier receives file events per project
type ChangeNotifier interface {
	Notify(projectPath string, kind ChangeKind)
}
