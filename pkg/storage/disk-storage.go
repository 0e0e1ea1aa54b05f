package storage

import (
	"compress/gzip"
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"github.com/matst80/location-listing/pkg/common/jsoncompat"
	"github.com/matst80/location-listing/pkg/master"
	"github.com/matst80/location-listing/pkg/types"
)

func isGzipped(name string) bool {
	return strings.HasSuffix(name, ".gz") || strings.HasSuffix(name, ".jz")
}

// LoadRawListing reads and validates a listing document, gzipped when the
// name ends in .gz.
func (d *DiskStorage) LoadRawListing(name string) (*types.RawListing, error) {
	b, err := d.readFile(name)
	if err != nil {
		return nil, err
	}
	raw, err := master.Decode(b)
	if err != nil {
		return nil, fmt.Errorf("load listing %s: %w", name, err)
	}
	log.Printf("Loaded listing %s with %d items", name, len(raw.ImagePromos.Items))
	return raw, nil
}

func (d *DiskStorage) LoadMarkers(name string) ([]types.Marker, error) {
	b, err := d.readFile(name)
	if err != nil {
		return nil, err
	}
	markers, err := master.DecodeMarkers(b)
	if err != nil {
		return nil, fmt.Errorf("load markers %s: %w", name, err)
	}
	return markers, nil
}

func (d *DiskStorage) ReadTemplate(name string) (string, error) {
	b, err := d.readFile(name)
	return string(b), err
}

func (d *DiskStorage) readFile(name string) ([]byte, error) {
	fileName, _ := d.GetFileName(name)
	file, err := os.Open(fileName)
	if err != nil {
		return nil, err
	}
	defer file.Close()
	var r io.Reader = file
	if isGzipped(name) {
		zipReader, err := gzip.NewReader(file)
		if err != nil {
			return nil, err
		}
		defer zipReader.Close()
		r = zipReader
	}
	return io.ReadAll(r)
}

// SaveJson writes data through a temporary file, gzipped when the name ends
// in .gz.
func (d *DiskStorage) SaveJson(data any, name string) error {
	fileName, tmpFileName := d.GetFileName(name)
	b, err := jsoncompat.Marshal(data)
	if err != nil {
		return err
	}

	file, err := os.Create(tmpFileName)
	if err != nil {
		return err
	}
	if isGzipped(name) {
		zipWriter := gzip.NewWriter(file)
		_, err = zipWriter.Write(b)
		if cerr := zipWriter.Close(); err == nil {
			err = cerr
		}
	} else {
		_, err = file.Write(b)
	}
	if cerr := file.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		os.Remove(tmpFileName)
		return err
	}
	return os.Rename(tmpFileName, fileName)
}
