package feedback

import (
	"bytes"
	"encoding/csv"
	"strconv"
)

const exportTimeLayout = "02.01.2006 15:04"

// ExportCSV renders the full report log as CSV for administrators.
// This is the one view that includes real submitter identity next to
// the public ref.
func (s *Service) ExportCSV() ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	header := []string{"ID", "Date", "Kind", "Location", "Text", "Submitter ID", "Submitter Name", "Public Ref", "Status"}
	if err := w.Write(header); err != nil {
		return nil, err
	}

	for _, rep := range s.store.All() {
		row := []string{
			strconv.Itoa(rep.ID),
			rep.CreatedAt.Format(exportTimeLayout),
			rep.Kind,
			s.registry.Get(rep.LocationID).Name,
			rep.Text,
			rep.SubmitterID,
			rep.SubmitterName,
			rep.PublicRef,
			rep.Status,
		}
		if err := w.Write(row); err != nil {
			return nil, err
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
