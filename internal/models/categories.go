package models

// CategoryRule is one entry of a category rule file. Rules are evaluated in
// file order and the first match wins.
type CategoryRule struct {
	Name string `yaml:"name" json:"name" validate:"required"`
	// Keywords match whole words of the folded description.
	Keywords []string `yaml:"keywords,omitempty" json:"keywords,omitempty"`
	// Stems match at a word start only, for inflected languages.
	Stems []string `yaml:"stems,omitempty" json:"stems,omitempty"`
	// Patterns are Go regular expressions, matched case-insensitively.
	Patterns []string `yaml:"patterns,omitempty" json:"patterns,omitempty"`
}

// CategoriesConfig is the structure of a category rules YAML file.
type CategoriesConfig struct {
	Version    string         `yaml:"version" json:"version"`
	Categories []CategoryRule `yaml:"categories" json:"categories" validate:"dive"`
	// Merchants maps an exact folded description to a category.
	Merchants map[string]string `yaml:"merchants,omitempty" json:"merchants,omitempty"`
}
