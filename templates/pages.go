package templates

import "github.com/wy414012/proxmox-backup/internal/model"

// LoginPage is the data behind the login view.
type LoginPage struct {
	Error string
}

// MainPage is the data behind the main view.
type MainPage struct {
	Username   string
	Datastores []model.DatastoreConfig
	SortField  string
}

// EditorField is one rendered input of the datastore editor.
type EditorField struct {
	Name     string
	Label    string
	Value    string
	Editable bool
	Required bool
	Numeric  bool
	Focus    bool
}

// EditorPage is the data behind the datastore editor modal.
type EditorPage struct {
	Title    string
	Action   string
	EditMode bool
	Fields   []EditorField
	Error    string
}

// ErrorPage is the generic error surface for failed backend calls.
type ErrorPage struct {
	Status  int
	Message string
}
