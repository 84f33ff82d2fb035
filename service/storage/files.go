package storage

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/DraculaSOTD/AHI-Flutter-Body-sub002/service/config"
)

type filesService struct {
	CfgSvc config.IService
}

func NewFiles(cfgsvc config.IService) IService {
	return &filesService{
		CfgSvc: cfgsvc,
	}
}

func (svc *filesService) ReadPersisted(name string) ([]byte, bool, error) {
	if err := checkName(name); err != nil {
		return nil, false, err
	}
	return readFile(svc.PersistedPath(name))
}

func (svc *filesService) WritePersisted(name string, data []byte) error {
	if err := checkName(name); err != nil {
		return err
	}

	if err := os.MkdirAll(svc.CfgSvc.GetPersistedFolder(), 0755); err != nil {
		return err
	}

	// Write to a temp file first so readers never see a partial file
	path := svc.PersistedPath(name)
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}

func (svc *filesService) ReadBundled(name string) ([]byte, bool, error) {
	if err := checkName(name); err != nil {
		return nil, false, err
	}
	return readFile(filepath.Join(svc.CfgSvc.GetBundledFolder(), name))
}

func (svc *filesService) PersistedPath(name string) string {
	return filepath.Join(svc.CfgSvc.GetPersistedFolder(), name)
}

func readFile(path string) ([]byte, bool, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return data, true, nil
}

// The persisted store is flat; names must not escape it.
func checkName(name string) error {
	if name == "" || strings.ContainsAny(name, `/\`) || name == "." || name == ".." {
		return fmt.Errorf("invalid storage name %q", name)
	}
	return nil
}
