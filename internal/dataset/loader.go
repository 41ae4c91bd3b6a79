package dataset

import (
	"compress/gzip"
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"i94cli/internal/errors"
)

// SchemaColumns is the documented 9-column layout of the source file
var SchemaColumns = []string{
	"holiday", "temp", "rain_1h", "snow_1h", "clouds_all",
	"weather_main", "weather_description", "date_time", "traffic_volume",
}

const timestampLayout = "2006-01-02 15:04:05"

// Load reads the gzip-compressed hourly traffic CSV into observations.
// Any structural problem with the file (missing, bad gzip, header or
// column-count mismatch against the 9-column schema) is a fatal
// DATA_LOAD error. Individual bad rows abort the load too: the schema
// is fixed and a malformed row means the file is not what we think it is.
func Load(path string, logger *slog.Logger) ([]Observation, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, errors.NewDataLoadError(fmt.Sprintf("open input file %s", path), err)
	}
	defer file.Close()

	var reader io.Reader = file
	if strings.HasSuffix(strings.ToLower(path), ".gz") {
		gz, err := gzip.NewReader(file)
		if err != nil {
			return nil, errors.NewDataLoadError("read gzip stream", err)
		}
		defer gz.Close()
		reader = gz
	}

	cr := csv.NewReader(reader)
	cr.FieldsPerRecord = len(SchemaColumns)

	header, err := cr.Read()
	if err != nil {
		return nil, errors.NewDataLoadError("read CSV header", err)
	}
	if err := checkHeader(header); err != nil {
		return nil, err
	}

	var rows []Observation
	line := 1
	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			return nil, errors.NewDataLoadError(fmt.Sprintf("read CSV record (line %d)", line), err)
		}

		obs, err := parseObservation(record, line)
		if err != nil {
			return nil, err
		}
		rows = append(rows, obs)
	}

	if len(rows) == 0 {
		return nil, errors.NewDataLoadError("input file contains no data rows", nil)
	}

	logger.Info("loaded observations",
		slog.String("path", path),
		slog.Int("rows", len(rows)),
		slog.Time("first", rows[0].Timestamp),
		slog.Time("last", rows[len(rows)-1].Timestamp))

	return rows, nil
}

func checkHeader(header []string) error {
	if len(header) != len(SchemaColumns) {
		return errors.NewWithDetails(errors.CodeDataLoad,
			fmt.Sprintf("column count mismatch: expected %d columns, got %d", len(SchemaColumns), len(header)),
			header)
	}
	for i, want := range SchemaColumns {
		if strings.TrimSpace(strings.ToLower(header[i])) != want {
			return errors.NewWithDetails(errors.CodeDataLoad,
				fmt.Sprintf("unexpected column %d: want %q, got %q", i, want, header[i]),
				header)
		}
	}
	return nil
}

func parseObservation(record []string, line int) (Observation, error) {
	ts, err := time.Parse(timestampLayout, strings.TrimSpace(record[7]))
	if err != nil {
		return Observation{}, errors.NewDataLoadError(fmt.Sprintf("parse date_time (line %d)", line), err)
	}

	temp, err := parseFloat(record[1], "temp", line)
	if err != nil {
		return Observation{}, err
	}
	rain, err := parseFloat(record[2], "rain_1h", line)
	if err != nil {
		return Observation{}, err
	}
	snow, err := parseFloat(record[3], "snow_1h", line)
	if err != nil {
		return Observation{}, err
	}
	clouds, err := parseInt(record[4], "clouds_all", line)
	if err != nil {
		return Observation{}, err
	}
	volume, err := parseInt(record[8], "traffic_volume", line)
	if err != nil {
		return Observation{}, err
	}

	holiday := strings.TrimSpace(record[0])
	if strings.EqualFold(holiday, "None") {
		holiday = ""
	}

	return Observation{
		Timestamp:   ts,
		Holiday:     holiday,
		Temp:        temp,
		RainMM:      rain,
		SnowMM:      snow,
		CloudsPct:   clouds,
		WeatherMain: strings.TrimSpace(record[5]),
		WeatherDesc: strings.TrimSpace(record[6]),
		Volume:      volume,
	}, nil
}

func parseFloat(s, field string, line int) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, errors.NewDataLoadError(fmt.Sprintf("parse %s (line %d)", field, line), err)
	}
	return v, nil
}

func parseInt(s, field string, line int) (int, error) {
	v, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, errors.NewDataLoadError(fmt.Sprintf("parse %s (line %d)", field, line), err)
	}
	return v, nil
}
