package wiredump

import (
	"github.com/codahale/hdrhistogram"

	"github.com/performancecopilot/wirebuf/wire"
)

// largest record size tracked exactly, bigger ones are clamped
const maxRecordSize = 1 << 30

// Summary accumulates size distributions over decoded records.
type Summary struct {
	records *hdrhistogram.Histogram // encoded bytes per record
	strings *hdrhistogram.Histogram // bytes per string field
}

// Stats is a point in time view of a Summary.
type Stats struct {
	Records    int64
	MeanSize   float64
	MedianSize int64
	P99Size    int64
	MaxSize    int64
	Strings    int64
	MeanString float64
	MaxString  int64
}

// NewSummary creates an empty Summary.
func NewSummary() *Summary {
	return &Summary{
		records: hdrhistogram.New(0, maxRecordSize, 3),
		strings: hdrhistogram.New(0, wire.MaxStringLength, 3),
	}
}

// Add records one decoded record that took size bytes on the wire.
func (s *Summary) Add(size int, rec Record) {
	_ = s.records.RecordValue(int64(min(size, maxRecordSize)))

	for _, v := range rec {
		if str, ok := v.(string); ok {
			_ = s.strings.RecordValue(int64(len(str)))
		}
	}
}

// Stats returns the current figures.
func (s *Summary) Stats() Stats {
	st := Stats{
		Records: s.records.TotalCount(),
		Strings: s.strings.TotalCount(),
	}

	if st.Records > 0 {
		st.MeanSize = s.records.Mean()
		st.MedianSize = s.records.ValueAtQuantile(50)
		st.P99Size = s.records.ValueAtQuantile(99)
		st.MaxSize = s.records.Max()
	}

	if st.Strings > 0 {
		st.MeanString = s.strings.Mean()
		st.MaxString = s.strings.Max()
	}

	return st
}
