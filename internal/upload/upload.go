package upload

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	serverrors "github.com/theheadmen/figurine/internal/errors"
)

// Policy описывает каталог загрузок и политику расширений.
// Пустой список расширений выключает проверку.
type Policy struct {
	Dir         string
	AllowedExts []string
}

func NewPolicy(dir string, allowedExts []string) *Policy {
	return &Policy{Dir: dir, AllowedExts: allowedExts}
}

// Save пишет содержимое файла в каталог загрузок под очищенным именем и
// возвращает имя под которым файл сохранен. Одинаковые имена от разных
// пользователей молча перезаписывают друг друга.
func (p *Policy) Save(r io.Reader, clientFilename string) (string, error) {
	// расширение проверяется по имени, которое прислал клиент, до очистки:
	// очистка выбрасывает не-ASCII символы и может изменить расширение
	if !p.allowed(clientFilename) {
		return "", serverrors.ErrForbiddenExtension
	}
	name := SanitizeFilename(clientFilename)

	if err := os.MkdirAll(p.Dir, 0o755); err != nil {
		return "", fmt.Errorf("upload: mkdir %s: %w", p.Dir, err)
	}

	full := filepath.Join(p.Dir, name)
	f, err := os.Create(full)
	if err != nil {
		return "", fmt.Errorf("upload: create %s: %w", name, err)
	}
	defer f.Close()

	if _, err := io.Copy(f, r); err != nil {
		return "", fmt.Errorf("upload: write %s: %w", name, err)
	}
	return name, nil
}

// SanitizeFilename убирает путь и все небезопасные символы из имени файла,
// присланного клиентом. Если от основы имени ничего не осталось, основа
// генерируется заново, расширение при этом сохраняется.
func SanitizeFilename(clientFilename string) string {
	// клиент мог прислать путь в любом из двух стилей
	clientFilename = strings.ReplaceAll(clientFilename, "\\", "/")
	base := filepath.Base(clientFilename)

	rawExt := filepath.Ext(base)
	stem := strings.Trim(keepSafeRunes(strings.TrimSuffix(base, rawExt)), ".")
	ext := strings.Trim(keepSafeRunes(rawExt), ".")

	if stem == "" {
		stem = uuid.NewString()
	}
	if ext == "" {
		return stem
	}
	return stem + "." + ext
}

func keepSafeRunes(s string) string {
	var b strings.Builder
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == '.', r == '_', r == '-':
			b.WriteRune(r)
		}
	}
	return b.String()
}

func (p *Policy) allowed(name string) bool {
	if len(p.AllowedExts) == 0 {
		return true
	}
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(name), "."))
	for _, allowed := range p.AllowedExts {
		if ext == allowed {
			return true
		}
	}
	return false
}
