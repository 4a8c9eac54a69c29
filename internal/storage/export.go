package storage

import (
	"encoding/json"
	"fmt"

	"github.com/xitongsys/parquet-go-source/local"
	"github.com/xitongsys/parquet-go/parquet"
	"github.com/xitongsys/parquet-go/reader"
	"github.com/xitongsys/parquet-go/writer"
)

// exportRow is the Parquet record for one table row: the owning table's name
// plus the row serialized as JSON, which keeps the file schema fixed across
// tables with arbitrary columns.
type exportRow struct {
	Table   string `parquet:"name=table_name, type=BYTE_ARRAY, convertedtype=UTF8"`
	RowJSON string `parquet:"name=row_json, type=BYTE_ARRAY, convertedtype=UTF8"`
}

const parquetParallelism = 4

// ExportParquet writes a point-in-time snapshot of a table to a Parquet file
// at path. The shared lock is held for the whole scan, so the snapshot is
// consistent. The file is an export artifact only; nothing reads it back
// into the registry.
func (db *DB) ExportParquet(table, path string) error {
	t, err := db.table(table)
	if err != nil {
		return err
	}

	unlock := t.lockShared()
	defer unlock()

	fw, err := local.NewLocalFileWriter(path)
	if err != nil {
		return fmt.Errorf("create parquet file: %w", err)
	}
	defer fw.Close()

	pw, err := writer.NewParquetWriter(fw, new(exportRow), parquetParallelism)
	if err != nil {
		return fmt.Errorf("create parquet writer: %w", err)
	}
	pw.CompressionType = parquet.CompressionCodec_SNAPPY

	for i := 0; i < t.size; i++ {
		row := make(map[string]interface{}, len(t.cols))
		for _, col := range t.cols {
			row[col.Name] = col.values[i].Interface()
		}
		data, err := json.Marshal(row)
		if err != nil {
			return fmt.Errorf("encode row %d: %w", i, err)
		}
		if err := pw.Write(&exportRow{Table: t.name, RowJSON: string(data)}); err != nil {
			return fmt.Errorf("write row %d: %w", i, err)
		}
	}

	if err := pw.WriteStop(); err != nil {
		return fmt.Errorf("finish parquet file: %w", err)
	}
	db.log.Info("exported %d rows of %s to %s", t.size, table, path)
	return nil
}

// ReadParquetSnapshot reads back a snapshot written by ExportParquet and
// returns the table name it was taken from plus the decoded rows, in file
// order.
func ReadParquetSnapshot(path string) (string, []map[string]interface{}, error) {
	fr, err := local.NewLocalFileReader(path)
	if err != nil {
		return "", nil, fmt.Errorf("open parquet file: %w", err)
	}
	defer fr.Close()

	pr, err := reader.NewParquetReader(fr, new(exportRow), parquetParallelism)
	if err != nil {
		return "", nil, fmt.Errorf("create parquet reader: %w", err)
	}
	defer pr.ReadStop()

	records := make([]exportRow, pr.GetNumRows())
	if err := pr.Read(&records); err != nil {
		return "", nil, fmt.Errorf("read parquet rows: %w", err)
	}

	table := ""
	rows := make([]map[string]interface{}, 0, len(records))
	for _, rec := range records {
		if table == "" {
			table = rec.Table
		}
		var row map[string]interface{}
		if err := json.Unmarshal([]byte(rec.RowJSON), &row); err != nil {
			return "", nil, fmt.Errorf("decode row: %w", err)
		}
		rows = append(rows, row)
	}
	return table, rows, nil
}
