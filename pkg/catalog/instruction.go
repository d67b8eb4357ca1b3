package catalog

// InstallInstruction is a row of the server_install_instructions table.
type InstallInstruction struct {
	ServerID       string  `json:"server_id" yaml:"server_id" db:"server_id"`
	Platform       string  `json:"platform" yaml:"platform" db:"platform"`
	IconURL        *string `json:"icon_url,omitempty" yaml:"icon_url,omitempty" db:"icon_url"`
	InstallCommand string  `json:"install_command" yaml:"install_command" db:"install_command"`
	SortOrder      int     `json:"sort_order" yaml:"sort_order" db:"sort_order"`
}
