// Package config loads the YAML configuration
// of the sorttable command.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	sorttable "github.com/domonda/go-sorttable"
	"github.com/domonda/go-sorttable/htmltable"
)

// Environment variables overriding the configuration file.
const (
	EnvListen     = "SORTTABLE_LISTEN"
	EnvBackendURL = "SORTTABLE_BACKEND_URL"
	EnvLogLevel   = "SORTTABLE_LOG_LEVEL"
)

// Config of the dashboard server and the render command.
type Config struct {
	// Listen is the address of the HTTP server.
	Listen string `yaml:"listen"`
	// BackendURL is the base URL that relative table and chart URLs
	// are resolved against. If empty, the server resolves them
	// against itself and serves the configured data.
	BackendURL string `yaml:"backend_url"`
	// LogLevel is one of debug, info, warn, error.
	LogLevel string        `yaml:"log_level"`
	Table    TableConfig   `yaml:"table"`
	Data     DataConfig    `yaml:"data"`
	Charts   []ChartConfig `yaml:"charts"`
}

// TableConfig configures the sortable table.
type TableConfig struct {
	// URL of the page endpoint, relative to BackendURL.
	URL string `yaml:"url"`
	// SortLocally loads one page and sorts it in memory.
	SortLocally   bool                `yaml:"sort_locally"`
	PageSize      int                 `yaml:"page_size"`
	Sorted        sorttable.SortState `yaml:"sorted"`
	RowLinkPrefix string              `yaml:"row_link_prefix"`
	Columns       []ColumnConfig      `yaml:"columns"`
}

// ColumnConfig configures a table column.
type ColumnConfig struct {
	ID       string `yaml:"id"`
	Title    string `yaml:"title"`
	Sortable bool   `yaml:"sortable"`
	// SortType is "number" or "string".
	SortType string `yaml:"sortType"`
	// Format names the cell formatter, see Formatter.
	// Empty formats plain text.
	Format string `yaml:"format,omitempty"`
}

// DataConfig configures the records served by the demo server.
// SQLite takes precedence over CSV.
type DataConfig struct {
	// CSV is the path of a CSV file with a header row of column ids.
	CSV string `yaml:"csv"`
	// SQLite is the path of a SQLite database file.
	SQLite string `yaml:"sqlite"`
	// SQLiteTable is the table of SQLite, defaults to "products".
	SQLiteTable string `yaml:"sqlite_table"`
}

// ChartConfig configures a dashboard column chart.
type ChartConfig struct {
	Name  string `yaml:"name"`
	Label string `yaml:"label"`
	// URL of the series endpoint, relative to BackendURL.
	URL  string `yaml:"url"`
	Link string `yaml:"link"`
	// Dollars formats the heading as dollar amount.
	Dollars bool `yaml:"dollars"`
}

// Default returns the default configuration
// for the product dashboard.
func Default() *Config {
	return &Config{
		Listen:   "localhost:8080",
		LogLevel: "info",
		Table: TableConfig{
			URL:           "api/products",
			PageSize:      sorttable.DefaultPageSize,
			Sorted:        sorttable.SortState{ColumnID: "title", Direction: sorttable.Ascending},
			RowLinkPrefix: htmltable.DefaultRowLinkPrefix,
			Columns: []ColumnConfig{
				{ID: "images", Title: "Image", Format: "image"},
				{ID: "title", Title: "Name", Sortable: true, SortType: "string"},
				{ID: "quantity", Title: "Quantity", Sortable: true, SortType: "number"},
				{ID: "price", Title: "Price", Sortable: true, SortType: "number", Format: "dollars"},
				{ID: "sales", Title: "Sales", Sortable: true, SortType: "number"},
			},
		},
		Data: DataConfig{
			SQLiteTable: "products",
		},
		Charts: []ChartConfig{
			{Name: "orders", Label: "orders", URL: "api/dashboard/orders", Link: "/sales"},
			{Name: "sales", Label: "sales", URL: "api/dashboard/sales", Dollars: true},
			{Name: "customers", Label: "customers", URL: "api/dashboard/customers"},
		},
	}
}

// Load reads the configuration from the YAML file at path
// on top of Default and applies environment overrides.
// A missing file returns the defaults.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path) //#nosec G304
	switch {
	case os.IsNotExist(err):
		// Use defaults
	case err != nil:
		return nil, fmt.Errorf("failed to read config: %w", err)
	default:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
		}
		cfg.resolvePaths(filepath.Dir(path))
	}

	cfg.applyEnvOverrides()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

// Save writes the configuration as YAML file.
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

// applyEnvOverrides applies environment variable overrides.
func (c *Config) applyEnvOverrides() {
	if listen := os.Getenv(EnvListen); listen != "" {
		c.Listen = listen
	}
	if url := os.Getenv(EnvBackendURL); url != "" {
		c.BackendURL = url
	}
	if level := os.Getenv(EnvLogLevel); level != "" {
		c.LogLevel = level
	}
}

// resolvePaths makes data file paths relative to the config file absolute.
func (c *Config) resolvePaths(dir string) {
	if c.Data.CSV != "" && !filepath.IsAbs(c.Data.CSV) {
		c.Data.CSV = filepath.Join(dir, c.Data.CSV)
	}
	if c.Data.SQLite != "" && !filepath.IsAbs(c.Data.SQLite) {
		c.Data.SQLite = filepath.Join(dir, c.Data.SQLite)
	}
}

// Validate checks the table configuration
// and the uniqueness of chart names.
func (c *Config) Validate() error {
	columns, err := c.Table.TableColumns()
	if err != nil {
		return err
	}
	if s := c.Table.Sorted; !s.IsEmpty() {
		col, ok := columns.Column(s.ColumnID)
		if !ok || !col.CanSort() {
			return fmt.Errorf("table sorted by %q which is not a sortable column", s.ColumnID)
		}
	}
	if c.Table.PageSize < 0 {
		return fmt.Errorf("negative table page_size %d", c.Table.PageSize)
	}
	names := make(map[string]bool, len(c.Charts))
	for _, chart := range c.Charts {
		if chart.Name == "" || chart.URL == "" {
			return fmt.Errorf("chart %q needs a name and url", chart.Label)
		}
		if names[chart.Name] {
			return fmt.Errorf("duplicate chart name %q", chart.Name)
		}
		names[chart.Name] = true
	}
	return nil
}

// TableColumns returns the validated table columns.
func (t *TableConfig) TableColumns() (sorttable.Columns, error) {
	columns := make(sorttable.Columns, len(t.Columns))
	for i, cc := range t.Columns {
		col, err := cc.Column()
		if err != nil {
			return nil, err
		}
		columns[i] = col
	}
	return columns, columns.Validate()
}

// Column returns the configured column.
func (cc *ColumnConfig) Column() (sorttable.Column, error) {
	col := sorttable.Column{
		ID:       cc.ID,
		Title:    cc.Title,
		Sortable: cc.Sortable,
	}
	if cc.SortType != "" {
		kind, err := sorttable.ParseValueKind(cc.SortType)
		if err != nil {
			return col, fmt.Errorf("column %q: %w", cc.ID, err)
		}
		col.Kind = kind
	}
	formatter, err := Formatter(cc.Format)
	if err != nil {
		return col, fmt.Errorf("column %q: %w", cc.ID, err)
	}
	col.Formatter = formatter
	return col, nil
}

// ImageClass is the CSS class of images rendered
// by the "image" column format.
const ImageClass = "sortable-table-image"

// Formatter returns the CellFormatter for a column format name.
// An empty name returns nil.
//
// Known names are "image", "pre", "anchor" and "dollars".
// The prefix "class:" wraps the value in a span with the given CSS class,
// the prefix "html:" uses the rest as unescaped printf format.
// Other names containing a % are used as printf format.
func Formatter(name string) (sorttable.CellFormatter, error) {
	switch name {
	case "":
		return nil, nil
	case "image":
		return htmltable.ImageCellFormatter(ImageClass), nil
	case "pre":
		return htmltable.HTMLPreCellFormatter, nil
	case "anchor":
		return htmltable.ValueAsHTMLAnchorCellFormatter, nil
	case "dollars":
		return sorttable.PrintfCellFormatter("$%v"), nil
	}
	if class, ok := strings.CutPrefix(name, "class:"); ok && class != "" {
		return htmltable.HTMLSpanClassCellFormatter(class), nil
	}
	if format, ok := strings.CutPrefix(name, "html:"); ok && strings.Contains(format, "%") {
		return sorttable.PrintfRawCellFormatter(format), nil
	}
	if strings.Contains(name, "%") {
		return sorttable.PrintfCellFormatter(name), nil
	}
	return nil, fmt.Errorf("unknown column format %q", name)
}
