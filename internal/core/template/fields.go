package template

// FormField describes an interactive command for a form renderer.
type FormField struct {
	Type        Kind     `json:"type"`
	Name        string   `json:"name"`
	Label       string   `json:"label"`
	Default     string   `json:"default"`
	Placeholder string   `json:"placeholder"`
	Options     []string `json:"options,omitempty"`
}

// GetFormFields returns one descriptor per distinct interactive command in
// the snippet content.
func GetFormFields(snippet Snippet) []FormField {
	return FieldsFromCommands(InteractiveCommands(ExtractCommands(snippet.Content)))
}

// FieldsFromCommands projects interactive commands into field descriptors.
// Non-interactive commands are skipped.
func FieldsFromCommands(commands []Command) []FormField {
	fields := make([]FormField, 0, len(commands))
	for _, cmd := range commands {
		in, ok := formInputOf(cmd)
		if !ok {
			continue
		}

		label := in.Label
		if label == "" {
			label = in.Name
		}
		if label == "" {
			label = "Input"
		}

		field := FormField{
			Type:        cmd.Kind(),
			Name:        in.Name,
			Label:       label,
			Default:     in.Default,
			Placeholder: in.Placeholder,
		}
		if menu, ok := cmd.(FormMenuCommand); ok {
			field.Options = menu.Options
		}
		fields = append(fields, field)
	}
	return fields
}
