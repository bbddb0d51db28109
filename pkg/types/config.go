package types

// DetectConfig holds settings for the boundary detection stage.
type DetectConfig struct {
	// RevenueKeyword and ExpenditureKeyword are the page-context strings
	// that pin a heading's category (defaults 歳入 and 歳出).
	RevenueKeyword     string `json:"revenue_keyword" yaml:"revenue_keyword"`
	ExpenditureKeyword string `json:"expenditure_keyword" yaml:"expenditure_keyword"`

	// ResetThreshold is the section number at or above which a drop back to
	// section 1 is read as the revenue→expenditure transition (default 20).
	ResetThreshold int `json:"reset_threshold" yaml:"reset_threshold"`
}

// ExportConfig holds settings for the parallel export stage.
type ExportConfig struct {
	// OutputDir is the destination directory for segment artifacts.
	OutputDir string `json:"output_dir" yaml:"output_dir"`

	// Workers is the export worker pool size (default 4, minimum 1).
	Workers int `json:"workers" yaml:"workers"`

	// PageSeparator joins per-page text in the plain-text artifact
	// (default form feed).
	PageSeparator string `json:"page_separator" yaml:"page_separator"`
}

// CatalogConfig holds settings for the run catalog.
type CatalogConfig struct {
	// StateDir is the directory holding the catalog database
	// (default ".budget-engine").
	StateDir string `json:"state_dir" yaml:"state_dir"`

	// Disabled skips catalog recording entirely.
	Disabled bool `json:"disabled" yaml:"disabled"`
}

// PipelineConfig groups all stage configurations for a segmentation run.
type PipelineConfig struct {
	Detect  DetectConfig  `json:"detect" yaml:"detect"`
	Export  ExportConfig  `json:"export" yaml:"export"`
	Catalog CatalogConfig `json:"catalog" yaml:"catalog"`
}

// Defaults for stage configuration fields.
const (
	DefaultRevenueKeyword     = "歳入"
	DefaultExpenditureKeyword = "歳出"
	DefaultResetThreshold     = 20
	DefaultWorkers            = 4
	DefaultPageSeparator      = "\f"
	DefaultStateDir           = ".budget-engine"
)

// WithDefaults fills zero-valued fields with their defaults and returns the
// completed config.
func (c DetectConfig) WithDefaults() DetectConfig {
	if c.RevenueKeyword == "" {
		c.RevenueKeyword = DefaultRevenueKeyword
	}
	if c.ExpenditureKeyword == "" {
		c.ExpenditureKeyword = DefaultExpenditureKeyword
	}
	if c.ResetThreshold <= 0 {
		c.ResetThreshold = DefaultResetThreshold
	}
	return c
}

// WithDefaults fills zero-valued fields with their defaults and returns the
// completed config.
func (c ExportConfig) WithDefaults() ExportConfig {
	if c.Workers <= 0 {
		c.Workers = DefaultWorkers
	}
	if c.PageSeparator == "" {
		c.PageSeparator = DefaultPageSeparator
	}
	return c
}
