package storage

import (
	"fmt"
	"path"
	"time"
)

// DiskStorage reads and writes listing files below RootFolder.
type DiskStorage struct {
	RootFolder string
}

func NewDiskStorage(rootFolder string) *DiskStorage {
	return &DiskStorage{
		RootFolder: rootFolder,
	}
}

// GetFileName returns the path of name and a temporary path to write it through.
func (ds *DiskStorage) GetFileName(name string) (string, string) {
	fileName := name
	if !path.IsAbs(name) {
		fileName = path.Join(ds.RootFolder, name)
	}
	tmpFileName := fileName + ".tmp-" + fmt.Sprintf("%d", time.Now().UnixMilli())
	return fileName, tmpFileName
}
