package io

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/matzehuels/turnout/pkg/dataset"
	"github.com/matzehuels/turnout/pkg/errors"
)

// Column positions in the turnout file.
const (
	turnoutStateCol = 0
	turnoutValueCol = 2
)

// Column names in the law file.
const (
	lawStateCol = "state"
	lawCodeCol  = "law"
)

// Default file names inside the data directory.
const (
	DefaultTurnoutFile = "turnout.csv"
	DefaultLawsFile    = "idlaws.csv"
	DefaultTitleRows   = 1
)

// Files names the two input files relative to a data directory.
type Files struct {
	Turnout   string
	Laws      string
	TitleRows int // title lines before the turnout header line
}

// DefaultFiles returns the standard input file layout.
func DefaultFiles() Files {
	return Files{
		Turnout:   DefaultTurnoutFile,
		Laws:      DefaultLawsFile,
		TitleRows: DefaultTitleRows,
	}
}

// newReader returns a CSV reader that tolerates ragged rows.
func newReader(r io.Reader) *csv.Reader {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	return cr
}

// ReadTurnout reads turnout records from r.
//
// The first titleRows lines are skipped, the next line is taken as the column
// header, and every following line must have at least three fields with a
// percentage in the third.
func ReadTurnout(r io.Reader, titleRows int) ([]dataset.TurnoutRecord, error) {
	cr := newReader(r)

	for i := 0; i < titleRows+1; i++ {
		if _, err := cr.Read(); err != nil {
			if err == io.EOF {
				return nil, errors.New(errors.ErrCodeInvalidInput, "turnout: missing header line")
			}
			return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "turnout: read header")
		}
	}

	var records []dataset.TurnoutRecord
	for {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "turnout")
		}
		line, _ := cr.FieldPos(0)

		if len(row) <= turnoutValueCol {
			return nil, errors.New(errors.ErrCodeInvalidInput,
				"turnout line %d: want at least %d columns, got %d", line, turnoutValueCol+1, len(row))
		}
		v, err := dataset.ParsePercent(row[turnoutValueCol])
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "turnout line %d", line)
		}
		records = append(records, dataset.TurnoutRecord{
			State:   row[turnoutStateCol],
			Turnout: v,
		})
	}
	return records, nil
}

// ReadLaws reads law records from r. The header line must contain a "state"
// and a "law" column; header names are matched case-insensitively.
func ReadLaws(r io.Reader) ([]dataset.LawRecord, error) {
	cr := newReader(r)

	header, err := cr.Read()
	if err == io.EOF {
		return nil, errors.New(errors.ErrCodeInvalidInput, "laws: missing header line")
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "laws: read header")
	}

	stateIdx, lawIdx := -1, -1
	for i, h := range header {
		switch strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))) {
		case lawStateCol:
			stateIdx = i
		case lawCodeCol:
			lawIdx = i
		}
	}
	if stateIdx < 0 || lawIdx < 0 {
		return nil, errors.New(errors.ErrCodeInvalidInput,
			"laws: header must contain %q and %q columns, got %v", lawStateCol, lawCodeCol, header)
	}

	var records []dataset.LawRecord
	for {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "laws")
		}
		if len(row) <= stateIdx {
			line, _ := cr.FieldPos(0)
			return nil, errors.New(errors.ErrCodeInvalidInput, "laws line %d: missing state column", line)
		}

		rec := dataset.LawRecord{State: row[stateIdx]}
		if lawIdx < len(row) {
			rec.Law = strings.TrimSpace(row[lawIdx])
		}
		records = append(records, rec)
	}
	return records, nil
}

// ImportTurnout reads the turnout file at path.
func ImportTurnout(path string, titleRows int) ([]dataset.TurnoutRecord, error) {
	f, err := open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ReadTurnout(f, titleRows)
}

// ImportLaws reads the law file at path.
func ImportLaws(path string) ([]dataset.LawRecord, error) {
	f, err := open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ReadLaws(f)
}

// Load reads both input files from dir and joins them.
func Load(dir string, files Files) (*dataset.Table, error) {
	turnout, err := ImportTurnout(filepath.Join(dir, files.Turnout), files.TitleRows)
	if err != nil {
		return nil, err
	}
	laws, err := ImportLaws(filepath.Join(dir, files.Laws))
	if err != nil {
		return nil, err
	}
	return dataset.Join(turnout, laws), nil
}

func open(path string) (*os.File, error) {
	f, err := os.Open(path)
	if os.IsNotExist(err) {
		return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "open %s", path)
	}
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	return f, nil
}
