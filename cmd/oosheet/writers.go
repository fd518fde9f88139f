package main

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/parquet-go/parquet-go"
	"github.com/parquet-go/parquet-go/compress/zstd"
)

var writers = map[string]func(io.Writer, []cellRecord) error{
	"csv":     writeCSV,
	"json":    writeJSON,
	"parquet": writeParquet,
}

// writeCSV outputs the records with a header row.
func writeCSV(out io.Writer, data []cellRecord) error {
	writer := csv.NewWriter(out)
	writer.Write([]string{"Sheet", "Cell", "Column", "Row", "Type", "Value", "Text", "Formula"})
	for _, d := range data {
		writer.Write([]string{
			d.Sheet,
			d.Cell,
			strconv.Itoa(int(d.Column)),
			strconv.Itoa(int(d.Row)),
			d.Type,
			strconv.FormatFloat(d.Value, 'f', -1, 64),
			d.Text,
			d.Formula,
		})
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("error writing CSV: %w", err)
	}
	return nil
}

// writeJSON outputs the records as one JSON array.
func writeJSON(out io.Writer, data []cellRecord) error {
	if data == nil {
		data = []cellRecord{}
	}
	encoder := json.NewEncoder(out)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(data); err != nil {
		return fmt.Errorf("error encoding JSON: %w", err)
	}
	return nil
}

// writeParquet outputs the records as a zstd-compressed Parquet file.
func writeParquet(out io.Writer, data []cellRecord) error {
	zstdCodec := &zstd.Codec{
		Level:       zstd.SpeedBestCompression,
		Concurrency: 4,
	}
	writer := parquet.NewGenericWriter[cellRecord](out,
		parquet.Compression(zstdCodec),
		parquet.MaxRowsPerRowGroup(1024*1024),
	)
	if _, err := writer.Write(data); err != nil {
		writer.Close()
		return fmt.Errorf("error writing data to Parquet file: %w", err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("error closing Parquet writer: %w", err)
	}
	return nil
}
