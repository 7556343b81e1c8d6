package views

// ViewState contains common state shared by all view models.
// Embed this struct in view models to get width/height and message handling.
type ViewState struct {
	Width      int
	Height     int
	Message    string
	MessageErr bool
}

// SetSize updates the view dimensions
func (s *ViewState) SetSize(width, height int) {
	s.Width = width
	s.Height = height
}

// SetMessage sets a message to display in the view
func (s *ViewState) SetMessage(msg string, isErr bool) {
	s.Message = msg
	s.MessageErr = isErr
}

// ClearMessage clears the current message
func (s *ViewState) ClearMessage() {
	s.Message = ""
	s.MessageErr = false
}

// pageSize is how many rows fit below the header and above the help line
func (s *ViewState) pageSize(chrome int) int {
	if rows := s.Height - chrome; rows > 3 {
		return rows
	}
	return 10
}

// Messages shared between views and the app

// SwitchToProjectsMsg returns to the project list
type SwitchToProjectsMsg struct{}

// SwitchToTreeMsg opens a project's tree
type SwitchToTreeMsg struct {
	ProjectPath string
}

// SwitchToCreateMsg opens the new project form
type SwitchToCreateMsg struct{}

// SwitchToStatsMsg opens a project's statistics
type SwitchToStatsMsg struct {
	ProjectPath string
}

// SwitchToHelpMsg opens the help screen
type SwitchToHelpMsg struct{}

// BackMsg leaves an overlay view for the view underneath
type BackMsg struct{}

// OpenEditorMsg asks the app to open a file in the external editor
type OpenEditorMsg struct {
	Path string // Root-relative
}

// ProjectChangedMsg reports that a project's tree or stats were refreshed in the background
type ProjectChangedMsg struct {
	ProjectPath string
	Err         error
}

type errMsg struct {
	err error
}

type successMsg struct {
	message string
}
