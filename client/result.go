package client

import (
	"bytes"

	"github.com/apache/arrow/go/v11/arrow"
	"github.com/apache/arrow/go/v11/arrow/ipc"
	"github.com/apache/arrow/go/v11/arrow/memory"
	"github.com/spirit-labs/endbclient/codec"
	"github.com/spirit-labs/endbclient/errors"
)

// Result holds a successful response. For JSON and JSON-LD the body is decoded into Value, for other formats the
// body is left untouched in Payload.
type Result struct {
	Format  AcceptFormat
	Status  int
	Value   any
	Payload []byte
}

func newResult(format AcceptFormat, status int, body []byte) (*Result, error) {
	res := &Result{Format: format, Status: status}
	if !format.IsStructured() {
		res.Payload = body
		return res, nil
	}
	value, err := codec.Unmarshal(body)
	if err != nil {
		return nil, err
	}
	res.Value = value
	return res, nil
}

// Text returns the raw payload as a string.
func (r *Result) Text() string {
	return string(r.Payload)
}

// ArrowRecords reads the record batches of an Arrow IPC file payload. The caller must release the returned records.
func (r *Result) ArrowRecords(mem memory.Allocator) ([]arrow.Record, error) {
	if r.Format != ArrowFile {
		return nil, errors.Errorf("result format is %s, not %s", r.Format, ArrowFile)
	}
	reader, err := ipc.NewFileReader(bytes.NewReader(r.Payload), ipc.WithAllocator(mem))
	if err != nil {
		return nil, errors.WithStack(err)
	}
	defer func() {
		_ = reader.Close()
	}()
	records := make([]arrow.Record, 0, reader.NumRecords())
	for i := 0; i < reader.NumRecords(); i++ {
		rec, err := reader.Record(i)
		if err != nil {
			for _, retained := range records {
				retained.Release()
			}
			return nil, errors.WithStack(err)
		}
		rec.Retain()
		records = append(records, rec)
	}
	return records, nil
}
