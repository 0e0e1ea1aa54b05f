package geocode

import (
	"bufio"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/matst80/location-listing/pkg/types"
)

var (
	// ErrMissingColumns is returned if required header columns are not found.
	ErrMissingColumns = errors.New("missing required postal code columns")
	// ErrEmptyInput indicates no data rows were found.
	ErrEmptyInput = errors.New("no postal code rows found")
)

type PostalCodeLocation struct {
	PostalCode string
	City       string
	Location   types.Location
}

// PostalCodeCSVConfig names the columns to read, matched case-insensitively.
type PostalCodeCSVConfig struct {
	HeaderPostalCode string
	HeaderCity       string
	HeaderLatitude   string
	HeaderLongitude  string
	Delimiter        rune
}

// DefaultPostalCodeCSVConfig reads zip,city,latitude,longitude files.
func DefaultPostalCodeCSVConfig() PostalCodeCSVConfig {
	return PostalCodeCSVConfig{
		HeaderPostalCode: "zip",
		HeaderCity:       "city",
		HeaderLatitude:   "latitude",
		HeaderLongitude:  "longitude",
		Delimiter:        ',',
	}
}

// SwedenPostalCodeCSVConfig reads the Postnummer,Ort,...,Latitude,Longitude export.
func SwedenPostalCodeCSVConfig() PostalCodeCSVConfig {
	return PostalCodeCSVConfig{
		HeaderPostalCode: "postnummer",
		HeaderCity:       "ort",
		HeaderLatitude:   "latitude",
		HeaderLongitude:  "longitude",
		Delimiter:        ',',
	}
}

// StreamPostalCodeLocations calls emit for every valid row of r. Rows that
// fail to parse are skipped; a bad header or read error is returned.
func StreamPostalCodeLocations(ctx context.Context, r io.Reader, cfg PostalCodeCSVConfig, emit func(PostalCodeLocation) error) error {
	reader := csv.NewReader(skipBOM(r))
	reader.Comma = ','
	if cfg.Delimiter != 0 {
		reader.Comma = cfg.Delimiter
	}
	reader.FieldsPerRecord = -1
	reader.ReuseRecord = true

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return ErrEmptyInput
		}
		return fmt.Errorf("read header: %w", err)
	}
	cols, err := mapHeader(header, cfg)
	if err != nil {
		return err
	}

	for row := 2; ; row++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("read row %d: %w", row, err)
		}
		loc, ok := cols.extract(record)
		if !ok {
			continue
		}
		if err := emit(loc); err != nil {
			return err
		}
	}
}

type columns struct {
	postalCode, city, latitude, longitude int
}

func mapHeader(header []string, cfg PostalCodeCSVConfig) (columns, error) {
	idx := func(name string) int {
		name = strings.ToLower(strings.TrimSpace(name))
		for i, h := range header {
			if strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))) == name {
				return i
			}
		}
		return -1
	}
	cols := columns{
		postalCode: idx(cfg.HeaderPostalCode),
		city:       idx(cfg.HeaderCity),
		latitude:   idx(cfg.HeaderLatitude),
		longitude:  idx(cfg.HeaderLongitude),
	}
	if cols.postalCode < 0 || cols.city < 0 || cols.latitude < 0 || cols.longitude < 0 {
		return columns{}, ErrMissingColumns
	}
	return cols, nil
}

func (c columns) extract(record []string) (PostalCodeLocation, bool) {
	get := func(i int) string {
		if i < len(record) {
			return strings.TrimSpace(record[i])
		}
		return ""
	}
	code := NormalizePostalCode(get(c.postalCode))
	city := get(c.city)
	if code == "" || city == "" {
		return PostalCodeLocation{}, false
	}
	lat, err := parseCoordinate(get(c.latitude), 90)
	if err != nil {
		return PostalCodeLocation{}, false
	}
	lng, err := parseCoordinate(get(c.longitude), 180)
	if err != nil {
		return PostalCodeLocation{}, false
	}
	return PostalCodeLocation{
		PostalCode: code,
		City:       city,
		Location:   types.Location{Latitude: lat, Longitude: lng},
	}, true
}

// NormalizePostalCode removes whitespace inside the code.
func NormalizePostalCode(code string) string {
	return strings.ReplaceAll(strings.TrimSpace(code), " ", "")
}

// parseCoordinate accepts both "." and "," as decimal separator.
func parseCoordinate(s string, limit float64) (float64, error) {
	if s == "" {
		return 0, errors.New("empty")
	}
	v, err := strconv.ParseFloat(strings.ReplaceAll(s, ",", "."), 64)
	if err != nil {
		return 0, err
	}
	if v < -limit || v > limit {
		return 0, fmt.Errorf("out of range: %v", v)
	}
	return v, nil
}

func skipBOM(r io.Reader) io.Reader {
	br := bufio.NewReader(r)
	if b, err := br.Peek(3); err == nil && b[0] == 0xEF && b[1] == 0xBB && b[2] == 0xBF {
		_, _ = br.Discard(3)
	}
	return br
}
