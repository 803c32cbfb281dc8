package survey

import (
	"encoding/csv"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
)

// Column names as they appear in Nearmap survey exports.
const (
	colAddress       = "address"
	colMaterial      = "roof material"
	colPitch         = "pitch"
	colHeightFt      = "height (ft)"
	colCondition     = "roof condition summary score"
	colStories       = "num stories"
	colTileCount     = "tile count"
	colMetalClipped  = "metal clipped area (sqm)"
	colShingleRepair = "shingle repair area (sqm)"
	colTileRepair    = "tile repair area (sqm)"
	colMetalRepair   = "metal repair area (sqm)"
	colRoofArea      = "roof_area"
)

// LoadCSV reads a survey export from path and returns one typed record per
// data row. Missing or unparsable numeric cells default to zero; typing
// happens here, once, so downstream aggregation and pricing never see raw
// text.
func LoadCSV(path string) ([]RawRoofRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, eris.Wrapf(err, "survey: open csv %s", path)
	}
	defer f.Close() //nolint:errcheck

	records, err := ReadCSV(f)
	if err != nil {
		return nil, err
	}

	zap.L().Info("survey: csv loaded",
		zap.String("path", path),
		zap.Int("records", len(records)),
	)
	return records, nil
}

// ReadCSV decodes survey records from r. The first row must be a header;
// column order is free and unknown columns are ignored.
func ReadCSV(r io.Reader) ([]RawRoofRecord, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, eris.Wrap(err, "survey: read csv")
	}
	if len(rows) < 2 {
		return nil, nil // header only or empty
	}

	headers := rows[0]
	out := make([]RawRoofRecord, 0, len(rows)-1)
	for _, row := range rows[1:] {
		out = append(out, recordFromRow(mapRow(headers, row)))
	}
	return out, nil
}

// mapRow pairs each header with the corresponding value in the row. Rows
// shorter than the header get empty strings for the missing columns.
func mapRow(headers []string, row []string) map[string]string {
	m := make(map[string]string, len(headers))
	for i, h := range headers {
		key := strings.ToLower(strings.TrimSpace(h))
		if i < len(row) {
			m[key] = row[i]
		} else {
			m[key] = ""
		}
	}
	return m
}

func recordFromRow(row map[string]string) RawRoofRecord {
	return RawRoofRecord{
		Address:          strings.TrimSpace(row[colAddress]),
		RoofMaterial:     strings.TrimSpace(row[colMaterial]),
		Pitch:            parseFloatOr(row[colPitch], 0),
		HeightFt:         parseFloatOr(row[colHeightFt], 0),
		ConditionScore:   parseFloatOr(row[colCondition], 0),
		NumStories:       parseIntOr(row[colStories], 0),
		TileCount:        parseIntOr(row[colTileCount], 0),
		MetalClippedSqm:  parseFloatOr(row[colMetalClipped], 0),
		ShingleRepairSqm: parseFloatOr(row[colShingleRepair], 0),
		TileRepairSqm:    parseFloatOr(row[colTileRepair], 0),
		MetalRepairSqm:   parseFloatOr(row[colMetalRepair], 0),
		RoofArea:         parseFloatOr(row[colRoofArea], 0),
	}
}

// parseFloatOr parses a string as a float64, returning def if parsing
// fails or the string is empty.
func parseFloatOr(s string, def float64) float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return def
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return def
	}
	return v
}

// parseIntOr parses a string as an integer, returning def if parsing
// fails. Survey exports sometimes carry counts as decimals ("2.0"), so a
// failed integer parse falls back to truncating a float parse.
func parseIntOr(s string, def int) int {
	s = strings.TrimSpace(s)
	if s == "" {
		return def
	}
	if v, err := strconv.Atoi(s); err == nil {
		return v
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return int(f)
	}
	return def
}
