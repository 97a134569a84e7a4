package ports

import (
	"smmh/domain/survey"
)

// RawReader loads a raw survey export
type RawReader interface {
	ReadRaw() (*survey.RawTable, error)
}

// RawReaderFactory opens a reader for a path
type RawReaderFactory func(path string) RawReader
