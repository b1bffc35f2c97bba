package report

import "errors"

var (
	ErrExportFailed = errors.New("failed to export report")
)
