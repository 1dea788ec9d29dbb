// Package csvstore persists appointment records as newline-delimited flat
// text files. It is the file-backed collaborator of the clinic domain: the
// domain owns the record format, this package only moves lines to and from
// disk.
package csvstore

import (
	"context"
	"fmt"
	"os"

	"github.com/hms/hms/internal/domain/clinic"
)

// Store reads and writes one appointment record per line at Path. There is
// no header row.
type Store struct {
	Path string
}

func New(path string) *Store {
	return &Store{Path: path}
}

// Load decodes every record in the file against the supplied service's
// registry and registers the resulting appointments. Returns the number of
// appointments loaded.
func (s *Store) Load(ctx context.Context, svc *clinic.Service) (int, error) {
	f, err := os.Open(s.Path)
	if err != nil {
		return 0, fmt.Errorf("open %s: %w", s.Path, err)
	}
	defer f.Close()

	count, err := svc.ImportAppointments(ctx, f)
	if err != nil {
		return count, fmt.Errorf("load %s: %w", s.Path, err)
	}
	return count, nil
}

// Save writes every registered appointment to the file, replacing its
// previous contents. Returns the number of records written.
func (s *Store) Save(ctx context.Context, svc *clinic.Service) (int, error) {
	f, err := os.Create(s.Path)
	if err != nil {
		return 0, fmt.Errorf("create %s: %w", s.Path, err)
	}
	defer f.Close()

	count, err := svc.ExportAppointments(ctx, f)
	if err != nil {
		return count, fmt.Errorf("save %s: %w", s.Path, err)
	}
	if err := f.Sync(); err != nil {
		return count, err
	}
	return count, nil
}
