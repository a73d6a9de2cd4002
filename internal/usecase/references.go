package usecase

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/naka-gawa/stale-stars/internal/domain"
)

// LoadReferences reads the document at path and extracts its unique repository references.
// A missing document yields an error wrapping domain.ErrInputMissing.
func LoadReferences(path, host string, limit int) ([]domain.Reference, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", domain.ErrInputMissing, path)
		}
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return domain.ExtractReferences(string(content), host, limit), nil
}
