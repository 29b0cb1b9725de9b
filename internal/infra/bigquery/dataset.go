package bigquery

import "fmt"

// Dataset locates the ledger tables.
type Dataset struct {
	ProjectID string
	DatasetID string
}

// Table returns the backquoted, fully-qualified name of a table in the dataset.
func (d Dataset) Table(name string) string {
	return fmt.Sprintf("`%s.%s.%s`", d.ProjectID, d.DatasetID, name)
}

// Validate reports whether the dataset is fully specified.
func (d Dataset) Validate() error {
	if d.ProjectID == "" {
		return fmt.Errorf("bigquery dataset: project ID is required")
	}
	if d.DatasetID == "" {
		return fmt.Errorf("bigquery dataset: dataset ID is required")
	}
	return nil
}
