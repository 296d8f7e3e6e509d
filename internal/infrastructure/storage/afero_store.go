// Package storage almacena los archivos generados de los comprobantes
// (PDF A4, ticket térmico) sobre un filesystem abstracto.
package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/afero"

	"github.com/mesafacil/pos-api/internal/application/fiscal"
)

var _ fiscal.ArtifactStore = (*AferoStore)(nil)

// AferoStore implementa fiscal.ArtifactStore sobre afero.Fs. En producción se
// usa con el filesystem real anclado a un directorio base; en tests con
// afero.NewMemMapFs() sin tocar disco.
type AferoStore struct {
	fs afero.Fs
}

// NewAferoStore construye el store sobre el filesystem dado.
func NewAferoStore(fs afero.Fs) *AferoStore {
	return &AferoStore{fs: fs}
}

// NewOSStore construye el store sobre el filesystem real, anclado a baseDir.
// Las rutas de los comprobantes son relativas a ese directorio.
func NewOSStore(baseDir string) *AferoStore {
	return &AferoStore{fs: afero.NewBasePathFs(afero.NewOsFs(), baseDir)}
}

// Save escribe el archivo creando los directorios intermedios. Sobrescribe si
// ya existe: regenerar un comprobante produce el mismo contenido.
func (s *AferoStore) Save(_ context.Context, path string, data []byte) error {
	if err := s.fs.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("crear directorio: %w", err)
	}
	if err := afero.WriteFile(s.fs, path, data, 0o644); err != nil {
		return fmt.Errorf("guardar archivo %s: %w", path, err)
	}
	return nil
}

// Exists informa si el archivo está presente en el store.
func (s *AferoStore) Exists(_ context.Context, path string) (bool, error) {
	ok, err := afero.Exists(s.fs, path)
	if err != nil {
		return false, fmt.Errorf("verificar archivo %s: %w", path, err)
	}
	return ok, nil
}

// Read devuelve el contenido del archivo.
func (s *AferoStore) Read(_ context.Context, path string) ([]byte, error) {
	data, err := afero.ReadFile(s.fs, path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("archivo %s no existe: %w", path, err)
		}
		return nil, fmt.Errorf("leer archivo %s: %w", path, err)
	}
	return data, nil
}
